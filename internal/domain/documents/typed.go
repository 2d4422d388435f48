package documents

import (
	"context"
	"encoding/json"
	"time"

	"invoicedesk/internal/core/numerator"
	"invoicedesk/pkg/logger"
)

// Document is implemented by the typed wrappers Invoice, Quotation and Receipt.
type Document interface {
	DocumentType() Type
	header() *Header
	prepare(now time.Time, number string) error
}

// TypedService gives compile-time shape checking on top of the raw collection
// of one document type. It shares the storage key with Service.SaveItem.
type TypedService[T Document] struct {
	parent    *Service
	docType   Type
	newFn     func() T
	numbering numerator.Config
	now       func() time.Time
}

func newTypedService[T Document](parent *Service, docType Type, newFn func() T) *TypedService[T] {
	return &TypedService[T]{
		parent:    parent,
		docType:   docType,
		newFn:     newFn,
		numbering: docType.numbering(),
		now:       time.Now,
	}
}

// Save prepares doc (id, number, date, totals), validates it and appends it.
// The number is derived from the collection length inside the same
// read-modify-write as the append.
func (s *TypedService[T]) Save(ctx context.Context, doc T) error {
	key, err := s.docType.Key()
	if err != nil {
		return err
	}

	// build may run more than once when the backend retries the update.
	givenNumber := doc.header().Number

	_, err = s.parent.store.AppendFunc(ctx, key, func(existing []json.RawMessage) (json.RawMessage, error) {
		doc.header().Number = givenNumber
		now := s.now().UTC()
		number := s.numbering.Format(len(existing)+1, now)
		if err := doc.prepare(now, number); err != nil {
			return nil, err
		}
		return marshalRecord(doc)
	})
	if err != nil {
		return err
	}

	s.parent.recorder.DocumentSaved(s.docType)
	logger.Debug(ctx, "typed document saved",
		"type", s.docType,
		"number", doc.header().Number,
		"id", doc.header().ID,
	)
	return nil
}

// List decodes every record of the collection into T. Records that do not
// fit the typed shape are skipped and logged; they stay in storage.
func (s *TypedService[T]) List(ctx context.Context) ([]T, error) {
	raw, err := s.parent.GetItems(ctx, s.docType)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for i, r := range raw {
		doc := s.newFn()
		if err := json.Unmarshal(r, doc); err != nil {
			logger.Warn(ctx, "record does not match typed shape",
				"type", s.docType,
				"index", i,
				"error", err,
			)
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

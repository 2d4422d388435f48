package documents

import (
	"context"
	"encoding/json"

	"invoicedesk/internal/core/apperror"
	"invoicedesk/internal/core/kv"
	"invoicedesk/pkg/logger"
)

// Recorder receives notifications about saved documents (metrics).
type Recorder interface {
	DocumentSaved(docType Type)
}

type noopRecorder struct{}

func (noopRecorder) DocumentSaved(Type) {}

// ServiceConfig configures the document service.
type ServiceConfig struct {
	// Area is the local storage area holding the collections.
	Area kv.Store

	// StrictDecoding surfaces corrupted collections as errors instead of
	// treating them as empty.
	StrictDecoding bool

	// Recorder is optional.
	Recorder Recorder
}

// Service is the type-checked facade over the collection store.
type Service struct {
	store    *Store[json.RawMessage]
	recorder Recorder

	invoices   *TypedService[*Invoice]
	quotations *TypedService[*Quotation]
	receipts   *TypedService[*Receipt]
}

// NewService creates a new document service.
func NewService(cfg ServiceConfig) *Service {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = noopRecorder{}
	}

	svc := &Service{
		store:    NewStore[json.RawMessage](cfg.Area, WithStrictDecoding(cfg.StrictDecoding)),
		recorder: recorder,
	}
	svc.invoices = newTypedService(svc, TypeInvoice, func() *Invoice { return &Invoice{} })
	svc.quotations = newTypedService(svc, TypeQuotation, func() *Quotation { return &Quotation{} })
	svc.receipts = newTypedService(svc, TypeReceipt, func() *Receipt { return &Receipt{} })
	return svc
}

// SaveItem appends record to the collection of docType.
// An unknown type fails with UNKNOWN_DOCUMENT_TYPE before anything is read or written.
func (s *Service) SaveItem(ctx context.Context, docType Type, record any) error {
	key, err := docType.Key()
	if err != nil {
		return err
	}

	raw, err := marshalRecord(record)
	if err != nil {
		return err
	}

	if err := s.store.Append(ctx, key, raw); err != nil {
		return err
	}

	s.recorder.DocumentSaved(docType)
	logger.Debug(ctx, "document saved", "type", docType, "key", key)
	return nil
}

// GetItems returns the records of docType in insertion order.
func (s *Service) GetItems(ctx context.Context, docType Type) ([]json.RawMessage, error) {
	key, err := docType.Key()
	if err != nil {
		return nil, err
	}
	return s.store.Read(ctx, key)
}

// Invoices returns the typed invoice service.
func (s *Service) Invoices() *TypedService[*Invoice] { return s.invoices }

// Quotations returns the typed quotation service.
func (s *Service) Quotations() *TypedService[*Quotation] { return s.quotations }

// Receipts returns the typed receipt service.
func (s *Service) Receipts() *TypedService[*Receipt] { return s.receipts }

func marshalRecord(record any) (json.RawMessage, error) {
	if raw, ok := record.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return nil, apperror.NewValidation("record is not valid JSON")
		}
		return raw, nil
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, apperror.NewValidation("record cannot be serialized").WithCause(err)
	}
	return raw, nil
}

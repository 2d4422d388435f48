// Package documents implements persistence of invoices, quotations and
// receipts in the local storage area.
//
// Each document type owns exactly one key. A collection is a JSON array under
// that key; an absent key is an empty collection.
package documents

import (
	"invoicedesk/internal/core/apperror"
	"invoicedesk/internal/core/numerator"
)

// Type is the document type tag.
type Type string

const (
	TypeInvoice   Type = "invoice"
	TypeQuotation Type = "quotation"
	TypeReceipt   Type = "receipt"
)

// Storage keys. The mapping is closed: no other key is ever written.
const (
	KeyInvoices   = "invoices"
	KeyQuotations = "quotations"
	KeyReceipts   = "receipts"
)

var storageKeys = map[Type]string{
	TypeInvoice:   KeyInvoices,
	TypeQuotation: KeyQuotations,
	TypeReceipt:   KeyReceipts,
}

// Types returns the recognized document types in a stable order.
func Types() []Type {
	return []Type{TypeInvoice, TypeQuotation, TypeReceipt}
}

// ParseType validates s against the enumeration.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := storageKeys[t]; !ok {
		return "", apperror.NewUnknownDocumentType(s)
	}
	return t, nil
}

// Key resolves the storage key for t.
func (t Type) Key() (string, error) {
	key, ok := storageKeys[t]
	if !ok {
		return "", apperror.NewUnknownDocumentType(string(t))
	}
	return key, nil
}

// Valid reports whether t is one of the recognized types.
func (t Type) Valid() bool {
	_, ok := storageKeys[t]
	return ok
}

func (t Type) String() string {
	return string(t)
}

// numbering is used when a typed document is saved without a number.
func (t Type) numbering() numerator.Config {
	return numerator.DefaultConfig(t.numberPrefix())
}

func (t Type) numberPrefix() string {
	switch t {
	case TypeInvoice:
		return "INV"
	case TypeQuotation:
		return "QUO"
	case TypeReceipt:
		return "RCT"
	}
	return "DOC"
}

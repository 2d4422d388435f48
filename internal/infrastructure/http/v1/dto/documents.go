package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"invoicedesk/internal/domain/documents"
)

// LineItemRequest is one billed position.
type LineItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// DocumentRequest holds the fields shared by all typed documents.
// Totals are computed server-side; an empty number is assigned on save.
type DocumentRequest struct {
	Number      string            `json:"number"`
	ClientName  string            `json:"clientName" binding:"required"`
	ClientEmail string            `json:"clientEmail"`
	Date        *time.Time        `json:"date"`
	Currency    string            `json:"currency"`
	Items       []LineItemRequest `json:"items" binding:"required,min=1"`
	TaxRate     decimal.Decimal   `json:"taxRate"`
	Notes       string            `json:"notes"`
}

func (r DocumentRequest) toHeader() documents.Header {
	items := make([]documents.LineItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = documents.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}

	h := documents.Header{
		Number:      r.Number,
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		Currency:    r.Currency,
		Items:       items,
		TaxRate:     r.TaxRate,
		Notes:       r.Notes,
	}
	if r.Date != nil {
		h.Date = r.Date.UTC()
	}
	return h
}

// CreateInvoiceRequest for POST /api/invoices.
type CreateInvoiceRequest struct {
	DocumentRequest
	DueDate *time.Time `json:"dueDate"`
}

// ToInvoice converts to the domain document.
func (r CreateInvoiceRequest) ToInvoice() *documents.Invoice {
	return &documents.Invoice{Header: r.toHeader(), DueDate: r.DueDate}
}

// CreateQuotationRequest for POST /api/quotations.
type CreateQuotationRequest struct {
	DocumentRequest
	ValidUntil *time.Time `json:"validUntil"`
}

// ToQuotation converts to the domain document.
func (r CreateQuotationRequest) ToQuotation() *documents.Quotation {
	return &documents.Quotation{Header: r.toHeader(), ValidUntil: r.ValidUntil}
}

// CreateReceiptRequest for POST /api/receipts.
type CreateReceiptRequest struct {
	DocumentRequest
	PaymentMethod string          `json:"paymentMethod"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
}

// ToReceipt converts to the domain document.
func (r CreateReceiptRequest) ToReceipt() *documents.Receipt {
	return &documents.Receipt{
		Header:        r.toHeader(),
		PaymentMethod: r.PaymentMethod,
		AmountPaid:    r.AmountPaid,
	}
}

// QuotationResponse adds the derived expiry flag.
type QuotationResponse struct {
	*documents.Quotation
	Expired bool `json:"expired"`
}

// ReceiptResponse adds the outstanding balance.
type ReceiptResponse struct {
	*documents.Receipt
	Balance decimal.Decimal `json:"balance"`
}

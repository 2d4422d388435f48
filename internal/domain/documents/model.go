package documents

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"invoicedesk/internal/core/apperror"
	"invoicedesk/internal/core/id"
)

var hundred = decimal.NewFromInt(100)

// LineItem is one billed position.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// Header holds the fields shared by all typed documents.
// Subtotal, Tax and Total are always recomputed from Items on save.
type Header struct {
	ID          id.ID           `json:"id"`
	Number      string          `json:"number"`
	ClientName  string          `json:"clientName"`
	ClientEmail string          `json:"clientEmail,omitempty"`
	Date        time.Time       `json:"date"`
	Currency    string          `json:"currency,omitempty"`
	Items       []LineItem      `json:"items"`
	TaxRate     decimal.Decimal `json:"taxRate"` // percent
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (h *Header) header() *Header { return h }

// CalculateTotals fills line amounts, subtotal, tax and total (rounded to cents).
func (h *Header) CalculateTotals() {
	subtotal := decimal.Zero
	for i := range h.Items {
		item := &h.Items[i]
		item.Amount = item.Quantity.Mul(item.UnitPrice).Round(2)
		subtotal = subtotal.Add(item.Amount)
	}
	h.Subtotal = subtotal
	h.Tax = subtotal.Mul(h.TaxRate).Div(hundred).Round(2)
	h.Total = h.Subtotal.Add(h.Tax)
}

// Validate checks business rules shared by all typed documents.
func (h *Header) Validate() error {
	if strings.TrimSpace(h.ClientName) == "" {
		return apperror.NewValidation("client name is required").WithDetail("field", "clientName")
	}
	if len(h.Items) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	for i, item := range h.Items {
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items.quantity").
				WithDetail("index", i)
		}
		if item.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("field", "items.unitPrice").
				WithDetail("index", i)
		}
	}
	if h.TaxRate.IsNegative() || h.TaxRate.GreaterThan(hundred) {
		return apperror.NewValidation("tax rate must be between 0 and 100").WithDetail("field", "taxRate")
	}
	return nil
}

func (h *Header) prepareHeader(now time.Time, number string) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if id.IsNil(h.ID) {
		h.ID = id.New()
	}
	if h.Number == "" {
		h.Number = number
	}
	if h.Date.IsZero() {
		h.Date = now
	}
	h.CreatedAt = now
	h.CalculateTotals()
	return nil
}

// Invoice is a request for payment.
type Invoice struct {
	Header
	DueDate *time.Time `json:"dueDate,omitempty"`
}

func (d *Invoice) DocumentType() Type { return TypeInvoice }

func (d *Invoice) prepare(now time.Time, number string) error {
	if err := d.prepareHeader(now, number); err != nil {
		return err
	}
	if d.DueDate != nil && d.DueDate.Before(d.Date) {
		return apperror.NewValidation("due date is before invoice date").WithDetail("field", "dueDate")
	}
	return nil
}

// Quotation is a priced offer.
type Quotation struct {
	Header
	ValidUntil *time.Time `json:"validUntil,omitempty"`
}

func (d *Quotation) DocumentType() Type { return TypeQuotation }

func (d *Quotation) prepare(now time.Time, number string) error {
	if err := d.prepareHeader(now, number); err != nil {
		return err
	}
	if d.ValidUntil != nil && d.ValidUntil.Before(d.Date) {
		return apperror.NewValidation("validity ends before quotation date").WithDetail("field", "validUntil")
	}
	return nil
}

// Expired reports whether the quotation is no longer valid at t.
func (d *Quotation) Expired(t time.Time) bool {
	return d.ValidUntil != nil && t.After(*d.ValidUntil)
}

// Receipt confirms a payment. AmountPaid defaults to Total.
type Receipt struct {
	Header
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
}

func (d *Receipt) DocumentType() Type { return TypeReceipt }

func (d *Receipt) prepare(now time.Time, number string) error {
	if err := d.prepareHeader(now, number); err != nil {
		return err
	}
	if d.AmountPaid.IsZero() {
		d.AmountPaid = d.Total
	}
	if d.AmountPaid.IsNegative() {
		return apperror.NewValidation("amount paid must not be negative").WithDetail("field", "amountPaid")
	}
	return nil
}

// Balance is the amount still owed after this receipt.
func (d *Receipt) Balance() decimal.Decimal {
	return d.Total.Sub(d.AmountPaid)
}

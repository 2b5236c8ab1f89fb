package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DocumentType string

const (
	TypePurchaseOrder DocumentType = "PURCHASE_ORDER"
	TypeInvoice       DocumentType = "INVOICE"
	TypeGRN           DocumentType = "GRN"
	TypePaymentAdvice DocumentType = "PAYMENT_ADVICE"
)

type DocumentStatus string

const (
	StatusPendingApproval DocumentStatus = "PENDING_APPROVAL"
	StatusApproved        DocumentStatus = "APPROVED"
	StatusRejected        DocumentStatus = "REJECTED"
)

// Document is the shared header for all procurement paperwork. The
// Type tag decides which number and reference fields are meaningful:
// a PO carries only DocumentNumber; an invoice carries its own number
// plus an optional PONumberRef; a GRN carries its own number plus an
// optional PONumberRef and/or InvoiceNumberRef.
type Document struct {
	ID               uuid.UUID
	Type             DocumentType
	OrganizationCode string
	DocumentNumber   string
	PONumberRef      string
	InvoiceNumberRef string
	BuyerName        string
	SellerName       string
	Site             string
	City             string
	DocumentDate     time.Time
	BasicValue       decimal.Decimal
	TaxValue         decimal.Decimal
	TotalValue       decimal.Decimal
	Status           DocumentStatus
	FileName         string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	LineItems []LineItem `gorm:"-"`
}

type LineItem struct {
	ID          uuid.UUID
	DocumentID  uuid.UUID
	Position    int
	ArticleCode string
	Description string
	Quantity    float64
	ReceivedQty float64
	AcceptedQty float64
	UnitRate    decimal.Decimal
	CGSTRate    decimal.Decimal
	SGSTRate    decimal.Decimal
	IGSTRate    decimal.Decimal
	TaxAmount   decimal.Decimal
	LineTotal   decimal.Decimal
}

// RecomputeTotals rederives the line total and tax amount from
// quantity and rate. IGST and CGST+SGST are mutually exclusive
// regimes; when IGST is set it wins.
func (li *LineItem) RecomputeTotals() {
	qty := decimal.NewFromFloat(sanitizeQty(li.Quantity))
	base := qty.Mul(li.UnitRate)

	taxRate := li.CGSTRate.Add(li.SGSTRate)
	if li.IGSTRate.IsPositive() {
		taxRate = li.IGSTRate
	}
	li.TaxAmount = base.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	li.LineTotal = base.Add(li.TaxAmount).Round(2)
}

// RecomputeTotals rederives the document-level money columns from the
// line items.
func (d *Document) RecomputeTotals() {
	basic := decimal.Zero
	tax := decimal.Zero
	for i := range d.LineItems {
		li := &d.LineItems[i]
		li.RecomputeTotals()
		qty := decimal.NewFromFloat(sanitizeQty(li.Quantity))
		basic = basic.Add(qty.Mul(li.UnitRate))
		tax = tax.Add(li.TaxAmount)
	}
	d.BasicValue = basic.Round(2)
	d.TaxValue = tax.Round(2)
	d.TotalValue = basic.Add(tax).Round(2)
}

func sanitizeQty(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func ParseDocumentType(raw string) (DocumentType, bool) {
	switch raw {
	case "po", "purchase-order", string(TypePurchaseOrder):
		return TypePurchaseOrder, true
	case "invoice", string(TypeInvoice):
		return TypeInvoice, true
	case "grn", string(TypeGRN):
		return TypeGRN, true
	case "payment-advice", string(TypePaymentAdvice):
		return TypePaymentAdvice, true
	default:
		return "", false
	}
}

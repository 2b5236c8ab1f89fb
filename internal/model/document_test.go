package model

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLineItemRecomputeTotals(t *testing.T) {
	li := LineItem{
		Quantity: 10,
		UnitRate: decimal.NewFromInt(100),
		CGSTRate: decimal.NewFromInt(9),
		SGSTRate: decimal.NewFromInt(9),
	}
	li.RecomputeTotals()

	if got := li.TaxAmount.StringFixed(2); got != "180.00" {
		t.Errorf("taxAmount = %s, want 180.00", got)
	}
	if got := li.LineTotal.StringFixed(2); got != "1180.00" {
		t.Errorf("lineTotal = %s, want 1180.00", got)
	}
}

func TestLineItemIGSTOverridesSplitRates(t *testing.T) {
	li := LineItem{
		Quantity: 2,
		UnitRate: decimal.NewFromInt(500),
		CGSTRate: decimal.NewFromInt(9),
		SGSTRate: decimal.NewFromInt(9),
		IGSTRate: decimal.NewFromInt(12),
	}
	li.RecomputeTotals()

	if got := li.TaxAmount.StringFixed(2); got != "120.00" {
		t.Errorf("taxAmount = %s, want IGST-only 120.00", got)
	}
}

func TestDocumentRecomputeTotals(t *testing.T) {
	doc := Document{LineItems: []LineItem{
		{Quantity: 10, UnitRate: decimal.NewFromInt(100), IGSTRate: decimal.NewFromInt(18)},
		{Quantity: 5, UnitRate: decimal.NewFromInt(200)},
	}}
	doc.RecomputeTotals()

	if got := doc.BasicValue.StringFixed(2); got != "2000.00" {
		t.Errorf("basicValue = %s, want 2000.00", got)
	}
	if got := doc.TaxValue.StringFixed(2); got != "180.00" {
		t.Errorf("taxValue = %s, want 180.00", got)
	}
	if got := doc.TotalValue.StringFixed(2); got != "2180.00" {
		t.Errorf("totalValue = %s, want 2180.00", got)
	}
}

func TestRecomputeTotalsSanitizesQuantities(t *testing.T) {
	doc := Document{LineItems: []LineItem{
		{Quantity: math.NaN(), UnitRate: decimal.NewFromInt(100)},
		{Quantity: -5, UnitRate: decimal.NewFromInt(100)},
		{Quantity: math.Inf(1), UnitRate: decimal.NewFromInt(100)},
	}}
	doc.RecomputeTotals()

	if !doc.TotalValue.IsZero() {
		t.Errorf("totalValue = %s, want 0 for unusable quantities", doc.TotalValue)
	}
}

func TestParseDocumentType(t *testing.T) {
	cases := []struct {
		raw  string
		want DocumentType
		ok   bool
	}{
		{"po", TypePurchaseOrder, true},
		{"purchase-order", TypePurchaseOrder, true},
		{"PURCHASE_ORDER", TypePurchaseOrder, true},
		{"invoice", TypeInvoice, true},
		{"grn", TypeGRN, true},
		{"payment-advice", TypePaymentAdvice, true},
		{"receipt", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseDocumentType(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseDocumentType(%q) = %v/%v, want %v/%v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

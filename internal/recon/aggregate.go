package recon

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/nurpe/procure-recon/internal/model"
)

// POAggregate carries the summed quantities and values a PO is
// classified from.
type POAggregate struct {
	POQty         float64
	POValue       decimal.Decimal
	InvoicedQty   float64
	InvoicedValue decimal.Decimal
	ReceivedQty   float64
	AcceptedQty   float64
	RejectedQty   float64
	HasRejections bool
	Inconsistent  bool
}

type InvoiceAggregate struct {
	InvoiceQty     float64
	InvoiceValue   decimal.Decimal
	GRNAcceptedQty float64
	HasPO          bool
	HasRejections  bool
}

type GRNAggregate struct {
	ReceivedQty  float64
	AcceptedQty  float64
	RejectedQty  float64
	GRNValue     decimal.Decimal
	InvoiceQty   float64
	HasPO        bool
	HasInvoice   bool
	Inconsistent bool
}

// AggregatePO sums the PO's own line items and the line items of every
// linked invoice and GRN. Missing or unparseable numerics contribute
// zero; a negative rejected quantity is clamped and flagged.
func AggregatePO(po *model.Document, invoices, grns []*model.Document) POAggregate {
	agg := POAggregate{
		POValue:       decimal.Zero,
		InvoicedValue: decimal.Zero,
	}
	agg.POQty, agg.POValue = sumLines(po)

	for _, inv := range invoices {
		qty, value := sumLines(inv)
		agg.InvoicedQty += qty
		agg.InvoicedValue = agg.InvoicedValue.Add(value)
	}

	for _, grn := range grns {
		received, accepted := sumReceipt(grn)
		agg.ReceivedQty += received
		agg.AcceptedQty += accepted
	}

	agg.RejectedQty, agg.Inconsistent = rejectedQty(agg.ReceivedQty, agg.AcceptedQty)
	agg.HasRejections = anyRejections(grns)
	return agg
}

func AggregateInvoice(inv *model.Document, po *model.Document, grns []*model.Document) InvoiceAggregate {
	agg := InvoiceAggregate{HasPO: po != nil}
	agg.InvoiceQty, agg.InvoiceValue = sumLines(inv)

	for _, grn := range grns {
		_, accepted := sumReceipt(grn)
		agg.GRNAcceptedQty += accepted
	}
	agg.HasRejections = anyRejections(grns)
	return agg
}

func AggregateGRN(grn *model.Document, po, invoice *model.Document) GRNAggregate {
	agg := GRNAggregate{
		HasPO:      po != nil,
		HasInvoice: invoice != nil,
	}
	_, agg.GRNValue = sumLines(grn)
	agg.ReceivedQty, agg.AcceptedQty = sumReceipt(grn)
	agg.RejectedQty, agg.Inconsistent = rejectedQty(agg.ReceivedQty, agg.AcceptedQty)

	if invoice != nil {
		agg.InvoiceQty, _ = sumLines(invoice)
	}
	return agg
}

func sumLines(doc *model.Document) (float64, decimal.Decimal) {
	qty := 0.0
	value := decimal.Zero
	if doc == nil {
		return qty, value
	}
	for i := range doc.LineItems {
		li := &doc.LineItems[i]
		qty += safeQty(li.Quantity)
		value = value.Add(li.LineTotal)
	}
	return qty, value
}

func sumReceipt(grn *model.Document) (received, accepted float64) {
	if grn == nil {
		return 0, 0
	}
	for i := range grn.LineItems {
		li := &grn.LineItems[i]
		received += safeQty(li.ReceivedQty)
		accepted += safeQty(li.AcceptedQty)
	}
	return received, accepted
}

func rejectedQty(received, accepted float64) (float64, bool) {
	rejected := received - accepted
	if rejected < 0 {
		return 0, true
	}
	return rejected, false
}

func anyRejections(grns []*model.Document) bool {
	for _, grn := range grns {
		received, accepted := sumReceipt(grn)
		if rejected, _ := rejectedQty(received, accepted); rejected > 0 {
			return true
		}
	}
	return false
}

func safeQty(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

package recon

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultEpsilon is the tolerance used when deciding that a quantity
// ratio equals 1. It absorbs rounding introduced by OCR extraction and
// per-line rounding on the source documents.
const DefaultEpsilon = 0.001

// Status labels as the presentation layer renders them.
const (
	POStatusOpen              = "Open"
	POStatusPartiallyInvoiced = "Partially Invoiced"
	POStatusFullyInvoiced     = "Fully Invoiced"
	POStatusOverInvoiced      = "Over Invoiced"

	GRNStatusNone              = "No GRN Yet"
	GRNStatusPartiallyReceived = "Partially Received"
	GRNStatusFullyReceived     = "Fully Received"
	GRNStatusOverReceived      = "Over Received"

	InvoicePOStatusNone   = "No PO"
	InvoicePOStatusLinked = "PO Linked"

	InvoiceGRNStatusMissing = "Missing GRN"
	InvoiceGRNStatusUnder   = "GRN Under"
	InvoiceGRNStatusMatched = "GRN Matched"
	InvoiceGRNStatusOver    = "GRN Over"

	GRNInvoiceStatusMissing = "Missing Invoice"
	GRNInvoiceStatusUnder   = "Under vs Invoice"
	GRNInvoiceStatusMatched = "Matched vs Invoice"
	GRNInvoiceStatusOver    = "Over vs Invoice"

	AcceptanceFull    = "Fully Accepted"
	AcceptancePartial = "Partially Accepted"
)

type ratioBand int

const (
	bandNone ratioBand = iota
	bandPartial
	bandMatched
	bandOver
)

// classifyRatio places linked/reference into one of four bands. A zero
// or negative reference has no meaningful ratio and lands in the first
// band, so classification never divides by zero.
func classifyRatio(linked, reference, epsilon float64) ratioBand {
	if reference <= 0 || linked <= 0 {
		return bandNone
	}
	ratio := linked / reference
	switch {
	case ratio > 1+epsilon:
		return bandOver
	case ratio >= 1-epsilon:
		return bandMatched
	default:
		return bandPartial
	}
}

func ClassifyPOInvoiceStatus(agg POAggregate, epsilon float64) string {
	switch classifyRatio(agg.InvoicedQty, agg.POQty, epsilon) {
	case bandPartial:
		return POStatusPartiallyInvoiced
	case bandMatched:
		return POStatusFullyInvoiced
	case bandOver:
		return POStatusOverInvoiced
	default:
		return POStatusOpen
	}
}

func ClassifyPOGRNStatus(agg POAggregate, epsilon float64) string {
	switch classifyRatio(agg.AcceptedQty, agg.POQty, epsilon) {
	case bandPartial:
		return GRNStatusPartiallyReceived
	case bandMatched:
		return GRNStatusFullyReceived
	case bandOver:
		return GRNStatusOverReceived
	default:
		return GRNStatusNone
	}
}

func ClassifyInvoicePOStatus(agg InvoiceAggregate) string {
	if agg.HasPO {
		return InvoicePOStatusLinked
	}
	return InvoicePOStatusNone
}

func ClassifyInvoiceGRNStatus(agg InvoiceAggregate, epsilon float64) string {
	switch classifyRatio(agg.GRNAcceptedQty, agg.InvoiceQty, epsilon) {
	case bandPartial:
		return InvoiceGRNStatusUnder
	case bandMatched:
		return InvoiceGRNStatusMatched
	case bandOver:
		return InvoiceGRNStatusOver
	default:
		return InvoiceGRNStatusMissing
	}
}

func ClassifyGRNInvoiceStatus(agg GRNAggregate, epsilon float64) string {
	if !agg.HasInvoice {
		return GRNInvoiceStatusMissing
	}
	switch classifyRatio(agg.InvoiceQty, agg.AcceptedQty, epsilon) {
	case bandPartial:
		return GRNInvoiceStatusUnder
	case bandMatched:
		return GRNInvoiceStatusMatched
	case bandOver:
		return GRNInvoiceStatusOver
	default:
		return GRNInvoiceStatusMissing
	}
}

// ClassifyAcceptanceStatus: a GRN with any rejected quantity is
// partially accepted, otherwise fully accepted. Orthogonal to the
// quantity-ratio statuses.
func ClassifyAcceptanceStatus(agg GRNAggregate) string {
	if agg.RejectedQty > 0 {
		return AcceptancePartial
	}
	return AcceptanceFull
}

// PercentString formats linked/reference*100 to one decimal place,
// falling back to "0.0%" when the reference is zero so the output is
// never NaN or Inf.
func PercentString(linked, reference float64) string {
	if reference <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", linked/reference*100)
}

// ValuePercentString is PercentString over monetary values.
func ValuePercentString(linked, reference decimal.Decimal) string {
	if reference.Sign() <= 0 {
		return "0.0%"
	}
	ratio, _ := linked.Div(reference).Float64()
	return fmt.Sprintf("%.1f%%", ratio*100)
}

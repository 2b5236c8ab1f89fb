package model

import "time"

// KV is a label/value pair rendered into export headers.
type KV struct {
	Label string
	Value string
}

// WorkspaceExport is a flattened workspace view ready for rendering
// into a spreadsheet.
type WorkspaceExport struct {
	Title       string
	GeneratedAt time.Time
	Filters     []KV
	Summary     []KV
	Headers     []string
	Rows        [][]string
}

// POStatement is the printable reconciliation statement for a single
// purchase order.
type POStatement struct {
	PONumber    string
	PODate      string
	BuyerName   string
	SellerName  string
	Site        string
	City        string
	GeneratedAt time.Time

	Summary  []KV
	Invoices [][]string
	GRNs     [][]string

	InvoiceHeaders []string
	GRNHeaders     []string
}

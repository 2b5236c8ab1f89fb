package fieldconfig

import "github.com/nurpe/procure-recon/internal/model"

// Field describes one extracted header field as the review UI should
// render it.
type Field struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
}

var common = []Field{
	{Key: "documentNumber", Label: "Document Number", Kind: "text", Required: true},
	{Key: "documentDate", Label: "Document Date", Kind: "date", Required: true},
	{Key: "buyerName", Label: "Buyer", Kind: "text", Required: true},
	{Key: "sellerName", Label: "Seller", Kind: "text", Required: true},
	{Key: "site", Label: "Site", Kind: "text", Required: false},
	{Key: "city", Label: "City", Kind: "text", Required: false},
}

var byType = map[model.DocumentType][]Field{
	model.TypePurchaseOrder: common,
	model.TypeInvoice: append(append([]Field{}, common...),
		Field{Key: "poNumberRef", Label: "Buyer Order No", Kind: "text", Required: false},
	),
	model.TypeGRN: append(append([]Field{}, common...),
		Field{Key: "poNumberRef", Label: "PO Number", Kind: "text", Required: false},
		Field{Key: "invoiceNumberRef", Label: "Vendor Invoice No", Kind: "text", Required: false},
	),
	model.TypePaymentAdvice: append(append([]Field{}, common...),
		Field{Key: "invoiceNumberRef", Label: "Invoice No", Kind: "text", Required: false},
	),
}

// Fields returns the ordered editable header fields for a document
// type. The slice is a copy; callers may not mutate the registry.
func Fields(docType model.DocumentType) ([]Field, bool) {
	fields, ok := byType[docType]
	if !ok {
		return nil, false
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out, true
}

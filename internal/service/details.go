package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/procure-recon/internal/model"
	"github.com/nurpe/procure-recon/internal/recon"
)

type LineItemView struct {
	Position    int     `json:"position"`
	ArticleCode string  `json:"articleCode"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	ReceivedQty float64 `json:"receivedQty,omitempty"`
	AcceptedQty float64 `json:"acceptedQty,omitempty"`
	UnitRate    string  `json:"unitRate"`
	TaxAmount   string  `json:"taxAmount"`
	LineTotal   string  `json:"lineTotal"`
}

type PODetail struct {
	ID              string  `json:"id"`
	PONumber        string  `json:"poNumber"`
	PODate          string  `json:"poDate"`
	BuyerName       string  `json:"buyerName"`
	SellerName      string  `json:"sellerName"`
	Site            string  `json:"site"`
	City            string  `json:"city"`
	TotalQty        float64 `json:"totalQty"`
	TotalBasicValue string  `json:"totalBasicValue"`
	TotalTaxValue   string  `json:"totalTaxValue"`
	TotalOrderValue string  `json:"totalOrderValue"`
	Status          string  `json:"status"`
}

type LinkedInvoice struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoiceNumber"`
	InvoiceDate   string  `json:"invoiceDate"`
	InvoiceQty    float64 `json:"invoiceQty"`
	GrossAmount   string  `json:"grossAmount"`
	GSTAmount     string  `json:"gstAmount"`
	TotalAmount   string  `json:"totalAmount"`
}

type LinkedGRN struct {
	ID              string  `json:"id"`
	GRNNumber       string  `json:"grnNumber"`
	GRNDate         string  `json:"grnDate"`
	ReceivedQty     float64 `json:"receivedQty"`
	AcceptedQty     float64 `json:"acceptedQty"`
	RejectedQty     float64 `json:"rejectedQty"`
	VendorInvoiceNo string  `json:"vendorInvoiceNo"`
}

type LinkedPO struct {
	ID       string  `json:"id"`
	PONumber string  `json:"poNumber"`
	PODate   string  `json:"poDate"`
	POQty    float64 `json:"poQty"`
	POValue  string  `json:"poValue"`
}

type POReconciliation struct {
	TotalInvoiceQty       float64 `json:"totalInvoiceQty"`
	TotalInvoiceValue     string  `json:"totalInvoiceValue"`
	QtyInvoicedPercent    string  `json:"qtyInvoicedPercent"`
	ValueInvoicedPercent  string  `json:"valueInvoicedPercent"`
	TotalGRNQty           float64 `json:"totalGRNQty"`
	QtyGRNAcceptedPercent string  `json:"qtyGRNAcceptedPercent"`
	InvoiceStatus         string  `json:"invoiceStatus"`
	GRNStatus             string  `json:"grnStatus"`
	HasRejections         bool    `json:"hasRejections"`
}

type PODetailsResult struct {
	PO             PODetail         `json:"po"`
	LineItems      []LineItemView   `json:"lineItems"`
	LinkedInvoices []LinkedInvoice  `json:"linkedInvoices"`
	LinkedGRNs     []LinkedGRN      `json:"linkedGRNs"`
	Summary        POReconciliation `json:"summary"`
}

func (s *WorkspaceService) GetPODetails(ctx context.Context, principal model.Principal, id uuid.UUID) (*PODetailsResult, error) {
	po, err := s.getOwnedDocument(ctx, principal, id, model.TypePurchaseOrder)
	if err != nil {
		return nil, err
	}

	invoices, grns, err := s.linkedToPO(ctx, principal.OrgCode, po)
	if err != nil {
		return nil, err
	}

	snap := recon.Snapshot{POs: []model.Document{*po}, Invoices: invoices, GRNs: grns}
	links := recon.Resolve(snap)
	root := &snap.POs[0]
	agg := recon.AggregatePO(root, links.InvoicesForPO(root.ID), links.GRNsForPO(root.ID))

	result := &PODetailsResult{
		PO: PODetail{
			ID:              po.ID.String(),
			PONumber:        po.DocumentNumber,
			PODate:          formatDate(po.DocumentDate),
			BuyerName:       po.BuyerName,
			SellerName:      po.SellerName,
			Site:            po.Site,
			City:            po.City,
			TotalQty:        agg.POQty,
			TotalBasicValue: po.BasicValue.StringFixed(2),
			TotalTaxValue:   po.TaxValue.StringFixed(2),
			TotalOrderValue: po.TotalValue.StringFixed(2),
			Status:          lifecycleLabel(po.Status),
		},
		LineItems:      lineItemViews(po.LineItems),
		LinkedInvoices: []LinkedInvoice{},
		LinkedGRNs:     []LinkedGRN{},
		Summary: POReconciliation{
			TotalInvoiceQty:       agg.InvoicedQty,
			TotalInvoiceValue:     agg.InvoicedValue.StringFixed(2),
			QtyInvoicedPercent:    recon.PercentString(agg.InvoicedQty, agg.POQty),
			ValueInvoicedPercent:  recon.ValuePercentString(agg.InvoicedValue, agg.POValue),
			TotalGRNQty:           agg.AcceptedQty,
			QtyGRNAcceptedPercent: recon.PercentString(agg.AcceptedQty, agg.POQty),
			InvoiceStatus:         recon.ClassifyPOInvoiceStatus(agg, s.epsilon),
			GRNStatus:             recon.ClassifyPOGRNStatus(agg, s.epsilon),
			HasRejections:         agg.HasRejections,
		},
	}

	for _, inv := range links.InvoicesForPO(root.ID) {
		qty := sumQty(inv)
		result.LinkedInvoices = append(result.LinkedInvoices, LinkedInvoice{
			ID:            inv.ID.String(),
			InvoiceNumber: inv.DocumentNumber,
			InvoiceDate:   formatDate(inv.DocumentDate),
			InvoiceQty:    qty,
			GrossAmount:   inv.BasicValue.StringFixed(2),
			GSTAmount:     inv.TaxValue.StringFixed(2),
			TotalAmount:   inv.TotalValue.StringFixed(2),
		})
	}
	for _, grn := range links.GRNsForPO(root.ID) {
		result.LinkedGRNs = append(result.LinkedGRNs, linkedGRNView(grn))
	}
	return result, nil
}

type InvoiceDetailsResult struct {
	Invoice        InvoiceRow     `json:"invoice"`
	LineItems      []LineItemView `json:"lineItems"`
	LinkedPO       *LinkedPO      `json:"linkedPO"`
	LinkedGRNs     []LinkedGRN    `json:"linkedGRNs"`
	Reconciliation struct {
		POStatus              string `json:"poStatus"`
		GRNStatus             string `json:"grnStatus"`
		QtyGRNAcceptedPercent string `json:"qtyGRNAcceptedPercent"`
	} `json:"reconciliation"`
}

func (s *WorkspaceService) GetInvoiceDetails(ctx context.Context, principal model.Principal, id uuid.UUID) (*InvoiceDetailsResult, error) {
	inv, err := s.getOwnedDocument(ctx, principal, id, model.TypeInvoice)
	if err != nil {
		return nil, err
	}

	pos, err := s.store.ListByNumbers(ctx, principal.OrgCode, model.TypePurchaseOrder,
		collectRefs([]model.Document{*inv}, func(d *model.Document) string { return d.PONumberRef }))
	if err != nil {
		return nil, err
	}
	grns, err := s.store.ListByInvoiceRefs(ctx, principal.OrgCode, []string{inv.DocumentNumber})
	if err != nil {
		return nil, err
	}

	snap := recon.Snapshot{POs: pos, Invoices: []model.Document{*inv}, GRNs: grns}
	links := recon.Resolve(snap)
	root := &snap.Invoices[0]
	agg := recon.AggregateInvoice(root, links.POForInvoice(root.ID), links.GRNsForInvoice(root.ID))

	result := &InvoiceDetailsResult{
		Invoice: InvoiceRow{
			ID:             inv.ID.String(),
			InvoiceNumber:  inv.DocumentNumber,
			InvoiceDate:    formatDate(inv.DocumentDate),
			BuyerName:      inv.BuyerName,
			SellerName:     inv.SellerName,
			Site:           inv.Site,
			BuyerOrderNo:   inv.PONumberRef,
			InvoiceQty:     agg.InvoiceQty,
			GrossAmount:    inv.BasicValue.StringFixed(2),
			GSTAmount:      inv.TaxValue.StringFixed(2),
			TotalAmount:    inv.TotalValue.StringFixed(2),
			GRNAcceptedQty: agg.GRNAcceptedQty,
			POStatus:       recon.ClassifyInvoicePOStatus(agg),
			GRNStatus:      recon.ClassifyInvoiceGRNStatus(agg, s.epsilon),
			HasRejections:  agg.HasRejections,
			Status:         lifecycleLabel(inv.Status),
		},
		LineItems:  lineItemViews(inv.LineItems),
		LinkedGRNs: []LinkedGRN{},
	}
	result.Reconciliation.POStatus = result.Invoice.POStatus
	result.Reconciliation.GRNStatus = result.Invoice.GRNStatus
	result.Reconciliation.QtyGRNAcceptedPercent = recon.PercentString(agg.GRNAcceptedQty, agg.InvoiceQty)

	if po := links.POForInvoice(root.ID); po != nil {
		qty := sumQty(po)
		result.LinkedPO = &LinkedPO{
			ID:       po.ID.String(),
			PONumber: po.DocumentNumber,
			PODate:   formatDate(po.DocumentDate),
			POQty:    qty,
			POValue:  po.TotalValue.StringFixed(2),
		}
	}
	for _, grn := range links.GRNsForInvoice(root.ID) {
		result.LinkedGRNs = append(result.LinkedGRNs, linkedGRNView(grn))
	}
	return result, nil
}

type GRNDetailsResult struct {
	GRN            GRNRow         `json:"grn"`
	LineItems      []LineItemView `json:"lineItems"`
	LinkedPO       *LinkedPO      `json:"linkedPO"`
	LinkedInvoice  *LinkedInvoice `json:"linkedInvoice"`
	Reconciliation struct {
		InvoiceStatus    string `json:"invoiceStatus"`
		AcceptanceStatus string `json:"acceptanceStatus"`
	} `json:"reconciliation"`
}

func (s *WorkspaceService) GetGRNDetails(ctx context.Context, principal model.Principal, id uuid.UUID) (*GRNDetailsResult, error) {
	grn, err := s.getOwnedDocument(ctx, principal, id, model.TypeGRN)
	if err != nil {
		return nil, err
	}

	invoices, err := s.store.ListByNumbers(ctx, principal.OrgCode, model.TypeInvoice,
		collectRefs([]model.Document{*grn}, func(d *model.Document) string { return d.InvoiceNumberRef }))
	if err != nil {
		return nil, err
	}
	poRefs := collectRefs([]model.Document{*grn}, func(d *model.Document) string { return d.PONumberRef })
	poRefs = append(poRefs, collectRefs(invoices, func(d *model.Document) string { return d.PONumberRef })...)
	pos, err := s.store.ListByNumbers(ctx, principal.OrgCode, model.TypePurchaseOrder, dedupe(poRefs))
	if err != nil {
		return nil, err
	}

	snap := recon.Snapshot{POs: pos, Invoices: invoices, GRNs: []model.Document{*grn}}
	links := recon.Resolve(snap)
	root := &snap.GRNs[0]
	agg := recon.AggregateGRN(root, links.POForGRN(root.ID), links.InvoiceForGRN(root.ID))

	result := &GRNDetailsResult{
		GRN: GRNRow{
			ID:               grn.ID.String(),
			GRNNumber:        grn.DocumentNumber,
			GRNDate:          formatDate(grn.DocumentDate),
			PONumber:         grn.PONumberRef,
			VendorInvoiceNo:  grn.InvoiceNumberRef,
			BuyerName:        grn.BuyerName,
			SellerName:       grn.SellerName,
			Site:             grn.Site,
			ReceivedQty:      agg.ReceivedQty,
			AcceptedQty:      agg.AcceptedQty,
			RejectedQty:      agg.RejectedQty,
			GRNValue:         agg.GRNValue.StringFixed(2),
			InvoiceStatus:    recon.ClassifyGRNInvoiceStatus(agg, s.epsilon),
			AcceptanceStatus: recon.ClassifyAcceptanceStatus(agg),
			Status:           lifecycleLabel(grn.Status),
		},
		LineItems: lineItemViews(grn.LineItems),
	}
	result.Reconciliation.InvoiceStatus = result.GRN.InvoiceStatus
	result.Reconciliation.AcceptanceStatus = result.GRN.AcceptanceStatus

	if po := links.POForGRN(root.ID); po != nil {
		qty := sumQty(po)
		result.LinkedPO = &LinkedPO{
			ID:       po.ID.String(),
			PONumber: po.DocumentNumber,
			PODate:   formatDate(po.DocumentDate),
			POQty:    qty,
			POValue:  po.TotalValue.StringFixed(2),
		}
	}
	if inv := links.InvoiceForGRN(root.ID); inv != nil {
		qty := sumQty(inv)
		result.LinkedInvoice = &LinkedInvoice{
			ID:            inv.ID.String(),
			InvoiceNumber: inv.DocumentNumber,
			InvoiceDate:   formatDate(inv.DocumentDate),
			InvoiceQty:    qty,
			GrossAmount:   inv.BasicValue.StringFixed(2),
			GSTAmount:     inv.TaxValue.StringFixed(2),
			TotalAmount:   inv.TotalValue.StringFixed(2),
		}
	}
	return result, nil
}

func (s *WorkspaceService) getOwnedDocument(ctx context.Context, principal model.Principal, id uuid.UUID, docType model.DocumentType) (*model.Document, error) {
	doc, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.OrganizationCode != principal.OrgCode || doc.Type != docType {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *WorkspaceService) linkedToPO(ctx context.Context, orgCode string, po *model.Document) ([]model.Document, []model.Document, error) {
	poNumbers := collectRefs([]model.Document{*po}, func(d *model.Document) string { return d.DocumentNumber })
	invoices, err := s.store.ListByPORefs(ctx, orgCode, model.TypeInvoice, poNumbers)
	if err != nil {
		return nil, nil, err
	}
	grns, err := s.store.ListByPORefs(ctx, orgCode, model.TypeGRN, poNumbers)
	if err != nil {
		return nil, nil, err
	}
	invoiceNumbers := collectRefs(invoices, func(d *model.Document) string { return d.DocumentNumber })
	indirect, err := s.store.ListByInvoiceRefs(ctx, orgCode, invoiceNumbers)
	if err != nil {
		return nil, nil, err
	}
	return invoices, mergeDocs(grns, indirect), nil
}

func lineItemViews(items []model.LineItem) []LineItemView {
	views := make([]LineItemView, 0, len(items))
	for i := range items {
		li := &items[i]
		views = append(views, LineItemView{
			Position:    li.Position,
			ArticleCode: li.ArticleCode,
			Description: li.Description,
			Quantity:    li.Quantity,
			ReceivedQty: li.ReceivedQty,
			AcceptedQty: li.AcceptedQty,
			UnitRate:    li.UnitRate.StringFixed(2),
			TaxAmount:   li.TaxAmount.StringFixed(2),
			LineTotal:   li.LineTotal.StringFixed(2),
		})
	}
	return views
}

func linkedGRNView(grn *model.Document) LinkedGRN {
	received := 0.0
	accepted := 0.0
	for i := range grn.LineItems {
		received += grn.LineItems[i].ReceivedQty
		accepted += grn.LineItems[i].AcceptedQty
	}
	rejected := received - accepted
	if rejected < 0 {
		rejected = 0
	}
	return LinkedGRN{
		ID:              grn.ID.String(),
		GRNNumber:       grn.DocumentNumber,
		GRNDate:         formatDate(grn.DocumentDate),
		ReceivedQty:     received,
		AcceptedQty:     accepted,
		RejectedQty:     rejected,
		VendorInvoiceNo: grn.InvoiceNumberRef,
	}
}

func sumQty(doc *model.Document) float64 {
	qty := 0.0
	for i := range doc.LineItems {
		qty += doc.LineItems[i].Quantity
	}
	return qty
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/procure-recon/internal/model"
)

// ExcelGenerator renders a workspace export into an xlsx payload.
type ExcelGenerator interface {
	Generate(export model.WorkspaceExport) ([]byte, error)
}

// StatementGenerator renders a PO reconciliation statement into a PDF.
type StatementGenerator interface {
	Generate(statement model.POStatement) ([]byte, error)
}

type ExportResult struct {
	FileName string
	Content  []byte
}

type ExportService struct {
	workspace *WorkspaceService
	excel     ExcelGenerator
	pdf       StatementGenerator
}

func NewExportService(workspace *WorkspaceService, excel ExcelGenerator, pdf StatementGenerator) *ExportService {
	return &ExportService{workspace: workspace, excel: excel, pdf: pdf}
}

func (s *ExportService) ExportPOWorkspace(ctx context.Context, principal model.Principal, filter FilterSpec) (*ExportResult, error) {
	// Exports cover the whole filtered set, not one page.
	filter.Page = 1
	filter.Limit = s.workspace.maxLimit

	result, err := s.workspace.QueryPOWorkspace(ctx, principal, filter)
	if err != nil {
		return nil, err
	}
	rows := result.Data
	for page := 2; page <= result.Pagination.Pages; page++ {
		filter.Page = page
		next, err := s.workspace.QueryPOWorkspace(ctx, principal, filter)
		if err != nil {
			return nil, err
		}
		rows = append(rows, next.Data...)
	}

	export := model.WorkspaceExport{
		Title:       "Purchase Order Reconciliation",
		GeneratedAt: time.Now(),
		Filters:     filterPairs(filter),
		Summary: []model.KV{
			{Label: "Total POs", Value: fmt.Sprintf("%d", result.Summary.TotalPOs)},
			{Label: "Open", Value: fmt.Sprintf("%d", result.Summary.Open)},
			{Label: "Partially Invoiced", Value: fmt.Sprintf("%d", result.Summary.PartiallyInvoiced)},
			{Label: "Fully Invoiced", Value: fmt.Sprintf("%d", result.Summary.FullyInvoiced)},
			{Label: "Over Invoiced", Value: fmt.Sprintf("%d", result.Summary.OverInvoiced)},
			{Label: "Has Rejections", Value: fmt.Sprintf("%d", result.Summary.HasRejections)},
		},
		Headers: []string{
			"PO Number", "PO Date", "Buyer", "Seller", "Site",
			"PO Qty", "Invoiced Qty", "GRN Accepted Qty", "Pending Delivery",
			"PO Value", "Invoiced Value", "Invoice Status", "GRN Status", "Approval",
		},
	}
	for _, row := range rows {
		export.Rows = append(export.Rows, []string{
			row.PONumber, row.PODate, row.BuyerName, row.SellerName, row.Site,
			formatQty(row.TotalQty), formatQty(row.InvoicedQty), formatQty(row.GRNAcceptedQty), formatQty(row.PendingDelivery),
			row.TotalOrderValue, row.InvoicedValue, row.InvoiceStatus, row.GRNStatus, row.Status,
		})
	}

	content, err := s.excel.Generate(export)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: exportFileName("po-reconciliation"),
		Content:  content,
	}, nil
}

func (s *ExportService) ExportInvoiceWorkspace(ctx context.Context, principal model.Principal, filter FilterSpec) (*ExportResult, error) {
	filter.Page = 1
	filter.Limit = s.workspace.maxLimit

	result, err := s.workspace.QueryInvoiceWorkspace(ctx, principal, filter)
	if err != nil {
		return nil, err
	}
	rows := result.Data
	for page := 2; page <= result.Pagination.Pages; page++ {
		filter.Page = page
		next, err := s.workspace.QueryInvoiceWorkspace(ctx, principal, filter)
		if err != nil {
			return nil, err
		}
		rows = append(rows, next.Data...)
	}

	export := model.WorkspaceExport{
		Title:       "Invoice Reconciliation",
		GeneratedAt: time.Now(),
		Filters:     filterPairs(filter),
		Summary: []model.KV{
			{Label: "Total Invoices", Value: fmt.Sprintf("%d", result.Summary.TotalInvoices)},
			{Label: "No PO", Value: fmt.Sprintf("%d", result.Summary.NoPO)},
			{Label: "PO Linked", Value: fmt.Sprintf("%d", result.Summary.POLinked)},
			{Label: "Missing GRN", Value: fmt.Sprintf("%d", result.Summary.MissingGRN)},
			{Label: "GRN Matched", Value: fmt.Sprintf("%d", result.Summary.GRNMatched)},
			{Label: "Has Rejections", Value: fmt.Sprintf("%d", result.Summary.HasRejections)},
		},
		Headers: []string{
			"Invoice Number", "Invoice Date", "Buyer", "Seller", "Site", "Buyer Order No",
			"Invoice Qty", "Gross Amount", "GST Amount", "Total Amount",
			"GRN Accepted Qty", "PO Status", "GRN Status", "Approval",
		},
	}
	for _, row := range rows {
		export.Rows = append(export.Rows, []string{
			row.InvoiceNumber, row.InvoiceDate, row.BuyerName, row.SellerName, row.Site, row.BuyerOrderNo,
			formatQty(row.InvoiceQty), row.GrossAmount, row.GSTAmount, row.TotalAmount,
			formatQty(row.GRNAcceptedQty), row.POStatus, row.GRNStatus, row.Status,
		})
	}

	content, err := s.excel.Generate(export)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: exportFileName("invoice-reconciliation"),
		Content:  content,
	}, nil
}

func (s *ExportService) ExportGRNWorkspace(ctx context.Context, principal model.Principal, filter FilterSpec) (*ExportResult, error) {
	filter.Page = 1
	filter.Limit = s.workspace.maxLimit

	result, err := s.workspace.QueryGRNWorkspace(ctx, principal, filter)
	if err != nil {
		return nil, err
	}
	rows := result.Data
	for page := 2; page <= result.Pagination.Pages; page++ {
		filter.Page = page
		next, err := s.workspace.QueryGRNWorkspace(ctx, principal, filter)
		if err != nil {
			return nil, err
		}
		rows = append(rows, next.Data...)
	}

	export := model.WorkspaceExport{
		Title:       "GRN Reconciliation",
		GeneratedAt: time.Now(),
		Filters:     filterPairs(filter),
		Summary: []model.KV{
			{Label: "Total GRNs", Value: fmt.Sprintf("%d", result.Summary.TotalGRNs)},
			{Label: "Missing Invoice", Value: fmt.Sprintf("%d", result.Summary.MissingInvoice)},
			{Label: "Matched vs Invoice", Value: fmt.Sprintf("%d", result.Summary.MatchedVsInvoice)},
			{Label: "Fully Accepted", Value: fmt.Sprintf("%d", result.Summary.FullyAccepted)},
			{Label: "Partially Accepted", Value: fmt.Sprintf("%d", result.Summary.PartiallyAccepted)},
		},
		Headers: []string{
			"GRN Number", "GRN Date", "PO Number", "Vendor Invoice No", "Buyer", "Seller", "Site",
			"Received Qty", "Accepted Qty", "Rejected Qty", "GRN Value",
			"Invoice Status", "Acceptance Status", "Approval",
		},
	}
	for _, row := range rows {
		export.Rows = append(export.Rows, []string{
			row.GRNNumber, row.GRNDate, row.PONumber, row.VendorInvoiceNo, row.BuyerName, row.SellerName, row.Site,
			formatQty(row.ReceivedQty), formatQty(row.AcceptedQty), formatQty(row.RejectedQty), row.GRNValue,
			row.InvoiceStatus, row.AcceptanceStatus, row.Status,
		})
	}

	content, err := s.excel.Generate(export)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: exportFileName("grn-reconciliation"),
		Content:  content,
	}, nil
}

// GeneratePOStatement renders the printable statement for one PO with
// its linked invoices and receipts.
func (s *ExportService) GeneratePOStatement(ctx context.Context, principal model.Principal, id uuid.UUID) (*ExportResult, error) {
	details, err := s.workspace.GetPODetails(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	statement := model.POStatement{
		PONumber:    details.PO.PONumber,
		PODate:      details.PO.PODate,
		BuyerName:   details.PO.BuyerName,
		SellerName:  details.PO.SellerName,
		Site:        details.PO.Site,
		City:        details.PO.City,
		GeneratedAt: time.Now(),
		Summary: []model.KV{
			{Label: "PO Quantity", Value: formatQty(details.PO.TotalQty)},
			{Label: "PO Value", Value: details.PO.TotalOrderValue},
			{Label: "Invoiced Quantity", Value: formatQty(details.Summary.TotalInvoiceQty)},
			{Label: "Invoiced Value", Value: details.Summary.TotalInvoiceValue},
			{Label: "Qty Invoiced", Value: details.Summary.QtyInvoicedPercent},
			{Label: "Value Invoiced", Value: details.Summary.ValueInvoicedPercent},
			{Label: "GRN Accepted Quantity", Value: formatQty(details.Summary.TotalGRNQty)},
			{Label: "Qty Accepted", Value: details.Summary.QtyGRNAcceptedPercent},
			{Label: "Invoice Status", Value: details.Summary.InvoiceStatus},
			{Label: "GRN Status", Value: details.Summary.GRNStatus},
		},
		InvoiceHeaders: []string{"Invoice No", "Date", "Qty", "Gross", "GST", "Total"},
		GRNHeaders:     []string{"GRN No", "Date", "Received", "Accepted", "Rejected", "Vendor Invoice"},
	}
	for _, inv := range details.LinkedInvoices {
		statement.Invoices = append(statement.Invoices, []string{
			inv.InvoiceNumber, inv.InvoiceDate, formatQty(inv.InvoiceQty),
			inv.GrossAmount, inv.GSTAmount, inv.TotalAmount,
		})
	}
	for _, grn := range details.LinkedGRNs {
		statement.GRNs = append(statement.GRNs, []string{
			grn.GRNNumber, grn.GRNDate, formatQty(grn.ReceivedQty),
			formatQty(grn.AcceptedQty), formatQty(grn.RejectedQty), grn.VendorInvoiceNo,
		})
	}

	content, err := s.pdf.Generate(statement)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("po-statement-%s.pdf", details.PO.PONumber),
		Content:  content,
	}, nil
}

func filterPairs(filter FilterSpec) []model.KV {
	var pairs []model.KV
	if !filter.From.IsZero() {
		pairs = append(pairs, model.KV{Label: "From", Value: filter.From.Format("2006-01-02")})
	}
	if !filter.To.IsZero() {
		pairs = append(pairs, model.KV{Label: "To", Value: filter.To.Format("2006-01-02")})
	}
	if filter.Search != "" {
		pairs = append(pairs, model.KV{Label: "Search", Value: filter.Search})
	}
	if filter.Site != "" {
		pairs = append(pairs, model.KV{Label: "Site", Value: filter.Site})
	}
	return pairs
}

func formatQty(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func exportFileName(prefix string) string {
	return fmt.Sprintf("%s-%s.xlsx", prefix, time.Now().Format("20060102-150405"))
}

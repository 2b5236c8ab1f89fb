package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/procure-recon/internal/config"
	"github.com/nurpe/procure-recon/internal/model"
	"github.com/nurpe/procure-recon/internal/recon"
	"github.com/nurpe/procure-recon/internal/repository"
)

// DocumentStore is the entity-store surface the services depend on.
// Implemented by repository.DocumentRepository.
type DocumentStore interface {
	ListByType(ctx context.Context, orgCode string, docType model.DocumentType, filter repository.DocFilter) ([]model.Document, error)
	ListByPORefs(ctx context.Context, orgCode string, docType model.DocumentType, poNumbers []string) ([]model.Document, error)
	ListByInvoiceRefs(ctx context.Context, orgCode string, invoiceNumbers []string) ([]model.Document, error)
	ListByNumbers(ctx context.Context, orgCode string, docType model.DocumentType, numbers []string) ([]model.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	Create(ctx context.Context, doc model.Document) (*model.Document, error)
	UpdateFields(ctx context.Context, id uuid.UUID, patch repository.FieldPatch) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.DocumentStatus) error
	ReplaceLineItems(ctx context.Context, doc *model.Document) error
	FindDuplicates(ctx context.Context, orgCode string, docType model.DocumentType, documentNumber string, excludeID uuid.UUID) ([]model.Document, error)
}

type WorkspaceService struct {
	store        DocumentStore
	log          zerolog.Logger
	epsilon      float64
	defaultLimit int
	maxLimit     int
}

func NewWorkspaceService(store DocumentStore, cfg *config.Config, log zerolog.Logger) *WorkspaceService {
	return &WorkspaceService{
		store:        store,
		log:          log,
		epsilon:      cfg.Recon.RatioEpsilon,
		defaultLimit: cfg.Recon.DefaultLimit,
		maxLimit:     cfg.Recon.MaxLimit,
	}
}

type PORow struct {
	ID                   string  `json:"id"`
	PONumber             string  `json:"poNumber"`
	PODate               string  `json:"poDate"`
	BuyerName            string  `json:"buyerName"`
	SellerName           string  `json:"sellerName"`
	Site                 string  `json:"site"`
	City                 string  `json:"city"`
	TotalQty             float64 `json:"totalQty"`
	InvoicedQty          float64 `json:"invoicedQty"`
	GRNAcceptedQty       float64 `json:"grnAcceptedQty"`
	PendingDelivery      float64 `json:"pendingDelivery"`
	QtyInvoicedPercent   string  `json:"qtyInvoicedPercent"`
	TotalOrderValue      string  `json:"totalOrderValue"`
	InvoicedValue        string  `json:"invoicedValue"`
	ValueInvoicedPercent string  `json:"valueInvoicedPercent"`
	InvoiceStatus        string  `json:"invoiceStatus"`
	GRNStatus            string  `json:"grnStatus"`
	HasRejections        bool    `json:"hasRejections"`
	Status               string  `json:"status"`
}

type POSummary struct {
	TotalPOs          int `json:"totalPOs"`
	Open              int `json:"open"`
	PartiallyInvoiced int `json:"partiallyInvoiced"`
	FullyInvoiced     int `json:"fullyInvoiced"`
	OverInvoiced      int `json:"overInvoiced"`
	NoGRNYet          int `json:"noGRNYet"`
	PartiallyReceived int `json:"partiallyReceived"`
	FullyReceived     int `json:"fullyReceived"`
	OverReceived      int `json:"overReceived"`
	HasRejections     int `json:"hasRejections"`
}

type POTotals struct {
	Rows            int     `json:"rows"`
	POQty           float64 `json:"poQty"`
	InvoicedQty     float64 `json:"invoicedQty"`
	GRNAcceptedQty  float64 `json:"grnAcceptedQty"`
	PendingDelivery float64 `json:"pendingDelivery"`
	POValue         string  `json:"poValue"`
	InvoicedValue   string  `json:"invoicedValue"`
}

type POWorkspaceResult struct {
	Data       []PORow    `json:"data"`
	Summary    POSummary  `json:"summary"`
	Totals     POTotals   `json:"totals"`
	Pagination Pagination `json:"pagination"`
}

// QueryPOWorkspace builds the PO reconciliation view: every PO in the
// date/search window, classified against its linked invoices and GRNs.
// Summary counts cover the window before status filters so that the
// status cards stay meaningful while one of them is active; totals and
// pagination describe the fully filtered set.
func (s *WorkspaceService) QueryPOWorkspace(ctx context.Context, principal model.Principal, filter FilterSpec) (*POWorkspaceResult, error) {
	filter = s.normalize(filter)
	selector, window := linkedDateSelector(&filter, "poDate")

	snap, links, err := s.loadPOSnapshot(ctx, principal.OrgCode, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]PORow, 0, len(snap.POs))
	for i := range snap.POs {
		po := &snap.POs[i]
		if selector == "invoiceDate" && !window.containsAny(links.InvoicesForPO(po.ID)) {
			continue
		}
		if selector == "grnDate" && !window.containsAny(links.GRNsForPO(po.ID)) {
			continue
		}
		agg := recon.AggregatePO(po, links.InvoicesForPO(po.ID), links.GRNsForPO(po.ID))
		if agg.Inconsistent {
			s.log.Warn().
				Str("po_number", po.DocumentNumber).
				Msg("accepted exceeds received across linked receipts, rejected clamped to zero")
		}

		pending := agg.POQty - agg.AcceptedQty
		if pending < 0 {
			pending = 0
		}
		rows = append(rows, PORow{
			ID:                   po.ID.String(),
			PONumber:             po.DocumentNumber,
			PODate:               formatDate(po.DocumentDate),
			BuyerName:            po.BuyerName,
			SellerName:           po.SellerName,
			Site:                 po.Site,
			City:                 po.City,
			TotalQty:             agg.POQty,
			InvoicedQty:          agg.InvoicedQty,
			GRNAcceptedQty:       agg.AcceptedQty,
			PendingDelivery:      pending,
			QtyInvoicedPercent:   recon.PercentString(agg.InvoicedQty, agg.POQty),
			TotalOrderValue:      agg.POValue.StringFixed(2),
			InvoicedValue:        agg.InvoicedValue.StringFixed(2),
			ValueInvoicedPercent: recon.ValuePercentString(agg.InvoicedValue, agg.POValue),
			InvoiceStatus:        recon.ClassifyPOInvoiceStatus(agg, s.epsilon),
			GRNStatus:            recon.ClassifyPOGRNStatus(agg, s.epsilon),
			HasRejections:        agg.HasRejections,
			Status:               lifecycleLabel(po.Status),
		})
	}

	summary := POSummary{TotalPOs: len(rows)}
	for _, row := range rows {
		switch row.InvoiceStatus {
		case recon.POStatusOpen:
			summary.Open++
		case recon.POStatusPartiallyInvoiced:
			summary.PartiallyInvoiced++
		case recon.POStatusFullyInvoiced:
			summary.FullyInvoiced++
		case recon.POStatusOverInvoiced:
			summary.OverInvoiced++
		}
		switch row.GRNStatus {
		case recon.GRNStatusNone:
			summary.NoGRNYet++
		case recon.GRNStatusPartiallyReceived:
			summary.PartiallyReceived++
		case recon.GRNStatusFullyReceived:
			summary.FullyReceived++
		case recon.GRNStatusOverReceived:
			summary.OverReceived++
		}
		if row.HasRejections {
			summary.HasRejections++
		}
	}

	filtered := rows[:0:0]
	for _, row := range rows {
		if !statusIn(row.InvoiceStatus, filter.InvoiceStatus) {
			continue
		}
		if !matchGRNStatusGroup(row.GRNStatus, row.HasRejections, filter.GRNStatus) {
			continue
		}
		filtered = append(filtered, row)
	}

	totals := POTotals{Rows: len(filtered)}
	poValue := decimal.Zero
	invoicedValue := decimal.Zero
	for _, row := range filtered {
		totals.POQty += row.TotalQty
		totals.InvoicedQty += row.InvoicedQty
		totals.GRNAcceptedQty += row.GRNAcceptedQty
		totals.PendingDelivery += row.PendingDelivery
		poValue = poValue.Add(mustDecimal(row.TotalOrderValue))
		invoicedValue = invoicedValue.Add(mustDecimal(row.InvoicedValue))
	}
	totals.POValue = poValue.StringFixed(2)
	totals.InvoicedValue = invoicedValue.StringFixed(2)

	page, meta := paginate(filtered, filter.Page, filter.Limit)
	return &POWorkspaceResult{Data: page, Summary: summary, Totals: totals, Pagination: meta}, nil
}

type InvoiceRow struct {
	ID             string  `json:"id"`
	InvoiceNumber  string  `json:"invoiceNumber"`
	InvoiceDate    string  `json:"invoiceDate"`
	BuyerName      string  `json:"buyerName"`
	SellerName     string  `json:"sellerName"`
	Site           string  `json:"site"`
	BuyerOrderNo   string  `json:"buyerOrderNo"`
	InvoiceQty     float64 `json:"invoiceQty"`
	GrossAmount    string  `json:"grossAmount"`
	GSTAmount      string  `json:"gstAmount"`
	TotalAmount    string  `json:"totalAmount"`
	GRNAcceptedQty float64 `json:"grnAcceptedQty"`
	POStatus       string  `json:"poStatus"`
	GRNStatus      string  `json:"grnStatus"`
	HasRejections  bool    `json:"hasRejections"`
	Status         string  `json:"status"`
}

type InvoiceSummary struct {
	TotalInvoices int `json:"totalInvoices"`
	NoPO          int `json:"noPO"`
	POLinked      int `json:"poLinked"`
	MissingGRN    int `json:"missingGRN"`
	GRNUnder      int `json:"grnUnder"`
	GRNMatched    int `json:"grnMatched"`
	GRNOver       int `json:"grnOver"`
	HasRejections int `json:"hasRejections"`
}

type InvoiceTotals struct {
	Rows           int     `json:"rows"`
	InvoiceQty     float64 `json:"invoiceQty"`
	GRNAcceptedQty float64 `json:"grnAcceptedQty"`
	InvoiceValue   string  `json:"invoiceValue"`
}

type InvoiceWorkspaceResult struct {
	Data       []InvoiceRow   `json:"data"`
	Summary    InvoiceSummary `json:"summary"`
	Totals     InvoiceTotals  `json:"totals"`
	Pagination Pagination     `json:"pagination"`
}

func (s *WorkspaceService) QueryInvoiceWorkspace(ctx context.Context, principal model.Principal, filter FilterSpec) (*InvoiceWorkspaceResult, error) {
	filter = s.normalize(filter)
	selector, window := linkedDateSelector(&filter, "invoiceDate")

	invoices, err := s.store.ListByType(ctx, principal.OrgCode, model.TypeInvoice, docFilter(filter))
	if err != nil {
		return nil, err
	}

	poRefs := collectRefs(invoices, func(d *model.Document) string { return d.PONumberRef })
	pos, err := s.store.ListByNumbers(ctx, principal.OrgCode, model.TypePurchaseOrder, poRefs)
	if err != nil {
		return nil, err
	}
	invoiceNumbers := collectRefs(invoices, func(d *model.Document) string { return d.DocumentNumber })
	grns, err := s.store.ListByInvoiceRefs(ctx, principal.OrgCode, invoiceNumbers)
	if err != nil {
		return nil, err
	}

	links := recon.Resolve(recon.Snapshot{POs: pos, Invoices: invoices, GRNs: grns})

	rows := make([]InvoiceRow, 0, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		if selector == "poDate" && !window.containsDoc(links.POForInvoice(inv.ID)) {
			continue
		}
		if selector == "grnDate" && !window.containsAny(links.GRNsForInvoice(inv.ID)) {
			continue
		}
		agg := recon.AggregateInvoice(inv, links.POForInvoice(inv.ID), links.GRNsForInvoice(inv.ID))

		rows = append(rows, InvoiceRow{
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
		})
	}

	summary := InvoiceSummary{TotalInvoices: len(rows)}
	for _, row := range rows {
		switch row.POStatus {
		case recon.InvoicePOStatusNone:
			summary.NoPO++
		case recon.InvoicePOStatusLinked:
			summary.POLinked++
		}
		switch row.GRNStatus {
		case recon.InvoiceGRNStatusMissing:
			summary.MissingGRN++
		case recon.InvoiceGRNStatusUnder:
			summary.GRNUnder++
		case recon.InvoiceGRNStatusMatched:
			summary.GRNMatched++
		case recon.InvoiceGRNStatusOver:
			summary.GRNOver++
		}
		if row.HasRejections {
			summary.HasRejections++
		}
	}

	filtered := rows[:0:0]
	for _, row := range rows {
		if !statusIn(row.POStatus, filter.POStatus) {
			continue
		}
		if !matchGRNStatusGroup(row.GRNStatus, row.HasRejections, filter.GRNStatus) {
			continue
		}
		filtered = append(filtered, row)
	}

	totals := InvoiceTotals{Rows: len(filtered)}
	value := decimal.Zero
	for _, row := range filtered {
		totals.InvoiceQty += row.InvoiceQty
		totals.GRNAcceptedQty += row.GRNAcceptedQty
		value = value.Add(mustDecimal(row.TotalAmount))
	}
	totals.InvoiceValue = value.StringFixed(2)

	page, meta := paginate(filtered, filter.Page, filter.Limit)
	return &InvoiceWorkspaceResult{Data: page, Summary: summary, Totals: totals, Pagination: meta}, nil
}

type GRNRow struct {
	ID               string  `json:"id"`
	GRNNumber        string  `json:"grnNumber"`
	GRNDate          string  `json:"grnDate"`
	PONumber         string  `json:"poNumber"`
	VendorInvoiceNo  string  `json:"vendorInvoiceNo"`
	BuyerName        string  `json:"buyerName"`
	SellerName       string  `json:"sellerName"`
	Site             string  `json:"site"`
	ReceivedQty      float64 `json:"receivedQty"`
	AcceptedQty      float64 `json:"acceptedQty"`
	RejectedQty      float64 `json:"rejectedQty"`
	GRNValue         string  `json:"grnValue"`
	InvoiceStatus    string  `json:"invoiceStatus"`
	AcceptanceStatus string  `json:"acceptanceStatus"`
	Status           string  `json:"status"`
}

type GRNSummary struct {
	TotalGRNs         int `json:"totalGRNs"`
	MissingInvoice    int `json:"missingInvoice"`
	UnderVsInvoice    int `json:"underVsInvoice"`
	MatchedVsInvoice  int `json:"matchedVsInvoice"`
	OverVsInvoice     int `json:"overVsInvoice"`
	FullyAccepted     int `json:"fullyAccepted"`
	PartiallyAccepted int `json:"partiallyAccepted"`
}

type GRNTotals struct {
	Rows        int     `json:"rows"`
	ReceivedQty float64 `json:"receivedQty"`
	AcceptedQty float64 `json:"acceptedQty"`
	RejectedQty float64 `json:"rejectedQty"`
	GRNValue    string  `json:"grnValue"`
}

type GRNWorkspaceResult struct {
	Data       []GRNRow   `json:"data"`
	Summary    GRNSummary `json:"summary"`
	Totals     GRNTotals  `json:"totals"`
	Pagination Pagination `json:"pagination"`
}

func (s *WorkspaceService) QueryGRNWorkspace(ctx context.Context, principal model.Principal, filter FilterSpec) (*GRNWorkspaceResult, error) {
	filter = s.normalize(filter)
	selector, window := linkedDateSelector(&filter, "grnDate")

	grns, err := s.store.ListByType(ctx, principal.OrgCode, model.TypeGRN, docFilter(filter))
	if err != nil {
		return nil, err
	}

	invoiceRefs := collectRefs(grns, func(d *model.Document) string { return d.InvoiceNumberRef })
	invoices, err := s.store.ListByNumbers(ctx, principal.OrgCode, model.TypeInvoice, invoiceRefs)
	if err != nil {
		return nil, err
	}

	poRefs := collectRefs(grns, func(d *model.Document) string { return d.PONumberRef })
	poRefs = append(poRefs, collectRefs(invoices, func(d *model.Document) string { return d.PONumberRef })...)
	pos, err := s.store.ListByNumbers(ctx, principal.OrgCode, model.TypePurchaseOrder, dedupe(poRefs))
	if err != nil {
		return nil, err
	}

	links := recon.Resolve(recon.Snapshot{POs: pos, Invoices: invoices, GRNs: grns})

	rows := make([]GRNRow, 0, len(grns))
	for i := range grns {
		grn := &grns[i]
		if selector == "poDate" && !window.containsDoc(links.POForGRN(grn.ID)) {
			continue
		}
		if selector == "invoiceDate" && !window.containsDoc(links.InvoiceForGRN(grn.ID)) {
			continue
		}
		agg := recon.AggregateGRN(grn, links.POForGRN(grn.ID), links.InvoiceForGRN(grn.ID))
		if agg.Inconsistent {
			s.log.Warn().
				Str("grn_number", grn.DocumentNumber).
				Msg("accepted exceeds received, rejected clamped to zero")
		}

		rows = append(rows, GRNRow{
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
		})
	}

	summary := GRNSummary{TotalGRNs: len(rows)}
	for _, row := range rows {
		switch row.InvoiceStatus {
		case recon.GRNInvoiceStatusMissing:
			summary.MissingInvoice++
		case recon.GRNInvoiceStatusUnder:
			summary.UnderVsInvoice++
		case recon.GRNInvoiceStatusMatched:
			summary.MatchedVsInvoice++
		case recon.GRNInvoiceStatusOver:
			summary.OverVsInvoice++
		}
		switch row.AcceptanceStatus {
		case recon.AcceptanceFull:
			summary.FullyAccepted++
		case recon.AcceptancePartial:
			summary.PartiallyAccepted++
		}
	}

	filtered := rows[:0:0]
	for _, row := range rows {
		if !statusIn(row.InvoiceStatus, filter.InvoiceStatus) {
			continue
		}
		if !statusIn(row.AcceptanceStatus, filter.AcceptanceStatus) {
			continue
		}
		filtered = append(filtered, row)
	}

	totals := GRNTotals{Rows: len(filtered)}
	value := decimal.Zero
	for _, row := range filtered {
		totals.ReceivedQty += row.ReceivedQty
		totals.AcceptedQty += row.AcceptedQty
		totals.RejectedQty += row.RejectedQty
		value = value.Add(mustDecimal(row.GRNValue))
	}
	totals.GRNValue = value.StringFixed(2)

	page, meta := paginate(filtered, filter.Page, filter.Limit)
	return &GRNWorkspaceResult{Data: page, Summary: summary, Totals: totals, Pagination: meta}, nil
}

// loadPOSnapshot fetches the filtered POs plus every invoice and GRN
// that could link to them, including GRNs that only reference an
// invoice.
func (s *WorkspaceService) loadPOSnapshot(ctx context.Context, orgCode string, filter FilterSpec) (recon.Snapshot, *recon.LinkSet, error) {
	pos, err := s.store.ListByType(ctx, orgCode, model.TypePurchaseOrder, docFilter(filter))
	if err != nil {
		return recon.Snapshot{}, nil, err
	}

	poNumbers := collectRefs(pos, func(d *model.Document) string { return d.DocumentNumber })
	invoices, err := s.store.ListByPORefs(ctx, orgCode, model.TypeInvoice, poNumbers)
	if err != nil {
		return recon.Snapshot{}, nil, err
	}

	grns, err := s.store.ListByPORefs(ctx, orgCode, model.TypeGRN, poNumbers)
	if err != nil {
		return recon.Snapshot{}, nil, err
	}
	invoiceNumbers := collectRefs(invoices, func(d *model.Document) string { return d.DocumentNumber })
	indirect, err := s.store.ListByInvoiceRefs(ctx, orgCode, invoiceNumbers)
	if err != nil {
		return recon.Snapshot{}, nil, err
	}
	grns = mergeDocs(grns, indirect)

	snap := recon.Snapshot{POs: pos, Invoices: invoices, GRNs: grns}
	return snap, recon.Resolve(snap), nil
}

// dateWindow is a half-open [from, to) range applied to linked
// documents after linkage resolution.
type dateWindow struct {
	from time.Time
	to   time.Time
}

func (w dateWindow) contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	if !w.from.IsZero() && t.Before(w.from) {
		return false
	}
	if !w.to.IsZero() && !t.Before(w.to) {
		return false
	}
	return true
}

func (w dateWindow) containsAny(docs []*model.Document) bool {
	for _, d := range docs {
		if w.contains(d.DocumentDate) {
			return true
		}
	}
	return false
}

func (w dateWindow) containsDoc(d *model.Document) bool {
	return d != nil && w.contains(d.DocumentDate)
}

// linkedDateSelector decides where the date range applies. When the
// dateType names a linked document's date rather than the root's own,
// the range is stripped from the store-level filter and returned as a
// window to apply after linkage. Unknown selectors and empty ranges
// fall back to the root document's date.
func linkedDateSelector(f *FilterSpec, own string) (string, dateWindow) {
	selector := f.DateType
	if selector == "" || selector == own {
		return "", dateWindow{}
	}
	if f.From.IsZero() && f.To.IsZero() {
		return "", dateWindow{}
	}
	switch selector {
	case "poDate", "invoiceDate", "grnDate":
		window := dateWindow{from: f.From, to: f.To}
		f.From, f.To = time.Time{}, time.Time{}
		return selector, window
	default:
		return "", dateWindow{}
	}
}

func docFilter(f FilterSpec) repository.DocFilter {
	return repository.DocFilter{
		From:   f.From,
		To:     f.To,
		Search: f.Search,
		Site:   f.Site,
		City:   f.City,
		Buyer:  f.Buyer,
		Seller: f.Seller,
	}
}

func collectRefs(docs []model.Document, pick func(*model.Document) string) []string {
	refs := make([]string, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for i := range docs {
		ref := strings.TrimSpace(pick(&docs[i]))
		if ref == "" {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

func mergeDocs(a, b []model.Document) []model.Document {
	seen := make(map[uuid.UUID]struct{}, len(a))
	for i := range a {
		seen[a[i].ID] = struct{}{}
	}
	for i := range b {
		if _, ok := seen[b[i].ID]; ok {
			continue
		}
		a = append(a, b[i])
	}
	return a
}

// matchGRNStatusGroup treats "Has Rejections" as a member of the GRN
// status filter group even though it is an orthogonal flag, matching
// how the summary cards drive filtering.
func matchGRNStatusGroup(status string, hasRejections bool, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == status {
			return true
		}
		if s == "Has Rejections" && hasRejections {
			return true
		}
	}
	return false
}

func lifecycleLabel(status model.DocumentStatus) string {
	switch status {
	case model.StatusPendingApproval:
		return "pending-approval"
	case model.StatusApproved:
		return "approved"
	case model.StatusRejected:
		return "rejected"
	default:
		return strings.ToLower(string(status))
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func mustDecimal(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

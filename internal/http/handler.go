package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/procure-recon/internal/fieldconfig"
	"github.com/nurpe/procure-recon/internal/http/middleware"
	"github.com/nurpe/procure-recon/internal/model"
	"github.com/nurpe/procure-recon/internal/repository"
	"github.com/nurpe/procure-recon/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	workspace *service.WorkspaceService
	documents *service.DocumentService
	exports   *service.ExportService
	log       zerolog.Logger
}

func NewHandler(
	workspace *service.WorkspaceService,
	documents *service.DocumentService,
	exports *service.ExportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{workspace: workspace, documents: documents, exports: exports, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/workspace/po", h.poWorkspace)
	protected.GET("/workspace/po/export", h.exportPOWorkspace)
	protected.GET("/workspace/po/:id", h.poDetails)
	protected.GET("/workspace/po/:id/statement", h.poStatement)

	protected.GET("/workspace/invoice", h.invoiceWorkspace)
	protected.GET("/workspace/invoice/export", h.exportInvoiceWorkspace)
	protected.GET("/workspace/invoice/:id", h.invoiceDetails)

	protected.GET("/workspace/grn", h.grnWorkspace)
	protected.GET("/workspace/grn/export", h.exportGRNWorkspace)
	protected.GET("/workspace/grn/:id", h.grnDetails)

	protected.POST("/documents", h.createDocument)
	protected.GET("/documents/:id", h.getDocument)
	protected.PATCH("/documents/:id/fields", h.updateFields)
	protected.PUT("/documents/:id/line-items", h.updateLineItems)
	protected.POST("/documents/:id/approve", h.approveDocument)
	protected.POST("/documents/:id/reject", h.rejectDocument)
	protected.GET("/documents/:id/duplicates", h.checkDuplicates)

	protected.GET("/config/fields", h.fieldConfig)
}

func (h *Handler) poWorkspace(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := h.workspace.QueryPOWorkspace(c.Request.Context(), principal, parseFilter(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) invoiceWorkspace(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := h.workspace.QueryInvoiceWorkspace(c.Request.Context(), principal, parseFilter(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) grnWorkspace(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := h.workspace.QueryGRNWorkspace(c.Request.Context(), principal, parseFilter(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) poDetails(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result, err := h.workspace.GetPODetails(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) invoiceDetails(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result, err := h.workspace.GetInvoiceDetails(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) grnDetails(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result, err := h.workspace.GetGRNDetails(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) exportPOWorkspace(c *gin.Context) {
	h.exportWorkspace(c, h.exports.ExportPOWorkspace)
}

func (h *Handler) exportInvoiceWorkspace(c *gin.Context) {
	h.exportWorkspace(c, h.exports.ExportInvoiceWorkspace)
}

func (h *Handler) exportGRNWorkspace(c *gin.Context) {
	h.exportWorkspace(c, h.exports.ExportGRNWorkspace)
}

func (h *Handler) exportWorkspace(
	c *gin.Context,
	export func(ctx context.Context, principal model.Principal, filter service.FilterSpec) (*service.ExportResult, error),
) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := export(c.Request.Context(), principal, parseFilter(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

func (h *Handler) poStatement(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result, err := h.exports.GeneratePOStatement(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

type lineItemRequest struct {
	ArticleCode string  `json:"articleCode"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	ReceivedQty float64 `json:"receivedQty"`
	AcceptedQty float64 `json:"acceptedQty"`
	UnitRate    float64 `json:"unitRate"`
	CGSTRate    float64 `json:"cgstRate"`
	SGSTRate    float64 `json:"sgstRate"`
	IGSTRate    float64 `json:"igstRate"`
}

type createDocumentRequest struct {
	Type             string            `json:"type" binding:"required"`
	DocumentNumber   string            `json:"documentNumber" binding:"required"`
	PONumberRef      string            `json:"poNumberRef"`
	InvoiceNumberRef string            `json:"invoiceNumberRef"`
	BuyerName        string            `json:"buyerName"`
	SellerName       string            `json:"sellerName"`
	Site             string            `json:"site"`
	City             string            `json:"city"`
	DocumentDate     string            `json:"documentDate"`
	FileName         string            `json:"fileName"`
	LineItems        []lineItemRequest `json:"lineItems"`
}

func (h *Handler) createDocument(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	docType, ok := model.ParseDocumentType(req.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type"})
		return
	}

	var docDate time.Time
	if req.DocumentDate != "" {
		parsed, err := parseDate(req.DocumentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid documentDate"})
			return
		}
		docDate = parsed
	}

	doc, err := h.documents.Create(c.Request.Context(), principal, service.CreateDocumentInput{
		Type:             docType,
		DocumentNumber:   req.DocumentNumber,
		PONumberRef:      req.PONumberRef,
		InvoiceNumberRef: req.InvoiceNumberRef,
		BuyerName:        req.BuyerName,
		SellerName:       req.SellerName,
		Site:             req.Site,
		City:             req.City,
		DocumentDate:     docDate,
		FileName:         req.FileName,
		LineItems:        toLineItems(req.LineItems),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, docResponse(doc))
}

func (h *Handler) getDocument(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	doc, err := h.documents.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, docResponse(doc))
}

type updateFieldsRequest struct {
	DocumentNumber   *string `json:"documentNumber"`
	PONumberRef      *string `json:"poNumberRef"`
	InvoiceNumberRef *string `json:"invoiceNumberRef"`
	BuyerName        *string `json:"buyerName"`
	SellerName       *string `json:"sellerName"`
	Site             *string `json:"site"`
	City             *string `json:"city"`
	DocumentDate     *string `json:"documentDate"`
	FileName         *string `json:"fileName"`
}

func (h *Handler) updateFields(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := repository.FieldPatch{
		DocumentNumber:   req.DocumentNumber,
		PONumberRef:      req.PONumberRef,
		InvoiceNumberRef: req.InvoiceNumberRef,
		BuyerName:        req.BuyerName,
		SellerName:       req.SellerName,
		Site:             req.Site,
		City:             req.City,
		FileName:         req.FileName,
	}
	if req.DocumentDate != nil {
		parsed, err := parseDate(*req.DocumentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid documentDate"})
			return
		}
		patch.DocumentDate = &parsed
	}

	doc, err := h.documents.UpdateFields(c.Request.Context(), principal, id, patch)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, docResponse(doc))
}

type updateLineItemsRequest struct {
	LineItems []lineItemRequest `json:"lineItems" binding:"required"`
}

func (h *Handler) updateLineItems(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateLineItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.documents.UpdateLineItems(c.Request.Context(), principal, id, toLineItems(req.LineItems))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, docResponse(doc))
}

func (h *Handler) approveDocument(c *gin.Context) {
	h.transition(c, h.documents.Approve)
}

func (h *Handler) rejectDocument(c *gin.Context) {
	h.transition(c, h.documents.Reject)
}

func (h *Handler) transition(
	c *gin.Context,
	apply func(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Document, error),
) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	doc, err := apply(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, docResponse(doc))
}

func (h *Handler) checkDuplicates(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result, err := h.documents.CheckDuplicates(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) fieldConfig(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	docType, ok := model.ParseDocumentType(c.Query("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type"})
		return
	}
	fields, ok := fieldconfig.Fields(docType)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no field config for type"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": docType, "fields": fields})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseFilter reads the workspace query string. Unknown keys and
// unparseable dates or numbers are ignored rather than rejected so a
// stale UI never breaks the list view.
func parseFilter(c *gin.Context) service.FilterSpec {
	filter := service.FilterSpec{
		DateType: c.Query("dateType"),
		Search:   strings.TrimSpace(c.Query("search")),
		Site:     strings.TrimSpace(c.Query("site")),
		City:     strings.TrimSpace(c.Query("city")),
		Buyer:    strings.TrimSpace(c.Query("buyer")),
		Seller:   strings.TrimSpace(c.Query("seller")),

		InvoiceStatus:    queryList(c, "invoiceStatus"),
		GRNStatus:        queryList(c, "grnStatus"),
		POStatus:         queryList(c, "poStatus"),
		AcceptanceStatus: queryList(c, "acceptanceStatus"),
	}

	if from, err := parseDate(c.Query("from")); err == nil {
		filter.From = from
	}
	if to, err := parseDate(c.Query("to")); err == nil {
		// The UI sends an inclusive end date; the repository range is
		// half-open.
		filter.To = to.AddDate(0, 0, 1)
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}
	return filter
}

func queryList(c *gin.Context, key string) []string {
	var values []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Param("id")))
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

func toLineItems(items []lineItemRequest) []model.LineItem {
	out := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, model.LineItem{
			ArticleCode: item.ArticleCode,
			Description: item.Description,
			Quantity:    item.Quantity,
			ReceivedQty: item.ReceivedQty,
			AcceptedQty: item.AcceptedQty,
			UnitRate:    decimal.NewFromFloat(item.UnitRate),
			CGSTRate:    decimal.NewFromFloat(item.CGSTRate),
			SGSTRate:    decimal.NewFromFloat(item.SGSTRate),
			IGSTRate:    decimal.NewFromFloat(item.IGSTRate),
		})
	}
	return out
}

type lineItemJSON struct {
	Position    int     `json:"position"`
	ArticleCode string  `json:"articleCode"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	ReceivedQty float64 `json:"receivedQty"`
	AcceptedQty float64 `json:"acceptedQty"`
	UnitRate    string  `json:"unitRate"`
	TaxAmount   string  `json:"taxAmount"`
	LineTotal   string  `json:"lineTotal"`
}

type documentJSON struct {
	ID               string         `json:"id"`
	Type             string         `json:"type"`
	DocumentNumber   string         `json:"documentNumber"`
	PONumberRef      string         `json:"poNumberRef,omitempty"`
	InvoiceNumberRef string         `json:"invoiceNumberRef,omitempty"`
	BuyerName        string         `json:"buyerName"`
	SellerName       string         `json:"sellerName"`
	Site             string         `json:"site"`
	City             string         `json:"city"`
	DocumentDate     string         `json:"documentDate"`
	BasicValue       string         `json:"basicValue"`
	TaxValue         string         `json:"taxValue"`
	TotalValue       string         `json:"totalValue"`
	Status           string         `json:"status"`
	FileName         string         `json:"fileName,omitempty"`
	CreatedAt        string         `json:"createdAt"`
	LineItems        []lineItemJSON `json:"lineItems"`
}

func docResponse(doc *model.Document) documentJSON {
	out := documentJSON{
		ID:               doc.ID.String(),
		Type:             string(doc.Type),
		DocumentNumber:   doc.DocumentNumber,
		PONumberRef:      doc.PONumberRef,
		InvoiceNumberRef: doc.InvoiceNumberRef,
		BuyerName:        doc.BuyerName,
		SellerName:       doc.SellerName,
		Site:             doc.Site,
		City:             doc.City,
		BasicValue:       doc.BasicValue.StringFixed(2),
		TaxValue:         doc.TaxValue.StringFixed(2),
		TotalValue:       doc.TotalValue.StringFixed(2),
		Status:           string(doc.Status),
		FileName:         doc.FileName,
		LineItems:        []lineItemJSON{},
	}
	if !doc.DocumentDate.IsZero() {
		out.DocumentDate = doc.DocumentDate.Format("2006-01-02")
	}
	if !doc.CreatedAt.IsZero() {
		out.CreatedAt = doc.CreatedAt.Format(time.RFC3339)
	}
	for i := range doc.LineItems {
		li := &doc.LineItems[i]
		out.LineItems = append(out.LineItems, lineItemJSON{
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
	return out
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/procure-recon/internal/config"
	"github.com/nurpe/procure-recon/internal/excel"
	"github.com/nurpe/procure-recon/internal/http/middleware"
	"github.com/nurpe/procure-recon/internal/model"
	"github.com/nurpe/procure-recon/internal/pdf"
	"github.com/nurpe/procure-recon/internal/repository"
	"github.com/nurpe/procure-recon/internal/service"
)

type memStore struct {
	docs []model.Document
}

func (m *memStore) ListByType(_ context.Context, orgCode string, docType model.DocumentType, filter repository.DocFilter) ([]model.Document, error) {
	var out []model.Document
	for _, d := range m.docs {
		if d.OrganizationCode != orgCode || d.Type != docType {
			continue
		}
		if !filter.From.IsZero() && d.DocumentDate.Before(filter.From) {
			continue
		}
		if search := strings.TrimSpace(filter.Search); search != "" &&
			!strings.Contains(d.DocumentNumber, search) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memStore) ListByPORefs(_ context.Context, orgCode string, docType model.DocumentType, poNumbers []string) ([]model.Document, error) {
	var out []model.Document
	for _, d := range m.docs {
		if d.OrganizationCode != orgCode || d.Type != docType {
			continue
		}
		for _, n := range poNumbers {
			if strings.TrimSpace(d.PONumberRef) == n {
				out = append(out, d)
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) ListByInvoiceRefs(_ context.Context, orgCode string, invoiceNumbers []string) ([]model.Document, error) {
	var out []model.Document
	for _, d := range m.docs {
		if d.OrganizationCode != orgCode || d.Type != model.TypeGRN {
			continue
		}
		for _, n := range invoiceNumbers {
			if strings.TrimSpace(d.InvoiceNumberRef) == n {
				out = append(out, d)
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) ListByNumbers(_ context.Context, orgCode string, docType model.DocumentType, numbers []string) ([]model.Document, error) {
	var out []model.Document
	for _, d := range m.docs {
		if d.OrganizationCode != orgCode || d.Type != docType {
			continue
		}
		for _, n := range numbers {
			if strings.TrimSpace(d.DocumentNumber) == n {
				out = append(out, d)
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*model.Document, error) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			doc := m.docs[i]
			return &doc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) Create(_ context.Context, doc model.Document) (*model.Document, error) {
	doc.ID = uuid.New()
	doc.CreatedAt = time.Now()
	m.docs = append(m.docs, doc)
	return &doc, nil
}

func (m *memStore) UpdateFields(_ context.Context, id uuid.UUID, patch repository.FieldPatch) error {
	for i := range m.docs {
		if m.docs[i].ID == id {
			if patch.BuyerName != nil {
				m.docs[i].BuyerName = *patch.BuyerName
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.DocumentStatus) error {
	for i := range m.docs {
		if m.docs[i].ID == id {
			m.docs[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memStore) ReplaceLineItems(_ context.Context, doc *model.Document) error {
	for i := range m.docs {
		if m.docs[i].ID == doc.ID {
			m.docs[i].LineItems = doc.LineItems
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memStore) FindDuplicates(_ context.Context, orgCode string, docType model.DocumentType, documentNumber string, excludeID uuid.UUID) ([]model.Document, error) {
	var out []model.Document
	for _, d := range m.docs {
		if d.OrganizationCode == orgCode && d.Type == docType && d.DocumentNumber == documentNumber && d.ID != excludeID {
			out = append(out, d)
		}
	}
	return out, nil
}

func stubAuth(principal model.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetPrincipal(c, principal)
		c.Next()
	}
}

func newTestRouter(store *memStore, principal model.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Recon: config.ReconConfig{RatioEpsilon: 0.001, DefaultLimit: 100, MaxLimit: 500},
	}
	workspace := service.NewWorkspaceService(store, cfg, zerolog.Nop())
	documents := service.NewDocumentService(store, zerolog.Nop())
	exports := service.NewExportService(workspace, excel.NewGenerator(), pdf.NewGenerator())

	handler := NewHandler(workspace, documents, exports, zerolog.Nop())
	return NewRouter(handler, stubAuth(principal), "test")
}

func adminPrincipal() model.Principal {
	return model.Principal{UserID: uuid.New(), OrgCode: "ORG1", Role: model.RoleAdmin}
}

func seedPO(number string, qty float64) model.Document {
	doc := model.Document{
		ID:               uuid.New(),
		Type:             model.TypePurchaseOrder,
		OrganizationCode: "ORG1",
		DocumentNumber:   number,
		DocumentDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:           model.StatusApproved,
		LineItems: []model.LineItem{{
			Position: 1, ArticleCode: "ART-1", Quantity: qty,
			UnitRate: decimal.NewFromInt(10),
		}},
	}
	doc.RecomputeTotals()
	return doc
}

func doRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPOWorkspaceEndpoint(t *testing.T) {
	store := &memStore{docs: []model.Document{seedPO("PO-1001", 100)}}
	router := newTestRouter(store, adminPrincipal())

	w := doRequest(router, http.MethodGet, "/workspace/po", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var payload struct {
		Data []map[string]interface{} `json:"data"`
		Summary struct {
			TotalPOs int `json:"totalPOs"`
			Open     int `json:"open"`
		} `json:"summary"`
		Totals struct {
			Rows int `json:"rows"`
		} `json:"totals"`
		Pagination struct {
			Page  int `json:"page"`
			Total int `json:"total"`
			Limit int `json:"limit"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Summary.TotalPOs != 1 || payload.Summary.Open != 1 {
		t.Errorf("summary = %+v, want totalPOs=1 open=1", payload.Summary)
	}
	if payload.Pagination.Page != 1 || payload.Pagination.Total != 1 || payload.Pagination.Limit != 100 {
		t.Errorf("pagination = %+v", payload.Pagination)
	}
	if payload.Data[0]["invoiceStatus"] != "Open" {
		t.Errorf("invoiceStatus = %v, want Open", payload.Data[0]["invoiceStatus"])
	}
}

func TestPOWorkspaceIgnoresBadDates(t *testing.T) {
	store := &memStore{docs: []model.Document{seedPO("PO-1", 10)}}
	router := newTestRouter(store, adminPrincipal())

	w := doRequest(router, http.MethodGet, "/workspace/po?from=not-a-date&unknown=x", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with bad date ignored", w.Code)
	}
	var payload struct {
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Pagination.Total != 1 {
		t.Errorf("total = %d, want unfiltered 1", payload.Pagination.Total)
	}
}

func TestPODetailsNotFound(t *testing.T) {
	router := newTestRouter(&memStore{}, adminPrincipal())

	w := doRequest(router, http.MethodGet, "/workspace/po/"+uuid.NewString(), "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/workspace/po/not-a-uuid", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for bad uuid", w.Code)
	}
}

func TestCreateDocument(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store, adminPrincipal())

	body := `{
		"type": "invoice",
		"documentNumber": "INV-77",
		"poNumberRef": "PO-77",
		"documentDate": "2026-04-02",
		"lineItems": [{"articleCode": "ART-1", "quantity": 4, "unitRate": 25, "igstRate": 18}]
	}`
	w := doRequest(router, http.MethodPost, "/documents", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["status"] != "PENDING_APPROVAL" {
		t.Errorf("status = %v, want PENDING_APPROVAL", payload["status"])
	}
	if payload["basicValue"] != "100.00" || payload["taxValue"] != "18.00" {
		t.Errorf("values = %v / %v, want 100.00 / 18.00", payload["basicValue"], payload["taxValue"])
	}
}

func TestCreateDocumentForbiddenForViewer(t *testing.T) {
	viewer := model.Principal{UserID: uuid.New(), OrgCode: "ORG1", Role: model.RoleViewer}
	router := newTestRouter(&memStore{}, viewer)

	w := doRequest(router, http.MethodPost, "/documents", `{"type":"invoice","documentNumber":"INV-1"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestApproveThenRejectConflicts(t *testing.T) {
	doc := seedPO("PO-1", 10)
	doc.Status = model.StatusPendingApproval
	store := &memStore{docs: []model.Document{doc}}
	router := newTestRouter(store, adminPrincipal())

	w := doRequest(router, http.MethodPost, "/documents/"+doc.ID.String()+"/approve", "")
	if w.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, "/documents/"+doc.ID.String()+"/reject", "")
	if w.Code != http.StatusConflict {
		t.Errorf("reject-after-approve status = %d, want 409", w.Code)
	}
}

func TestDuplicatesEndpoint(t *testing.T) {
	a := seedPO("PO-1", 10)
	b := seedPO("PO-1", 10)
	store := &memStore{docs: []model.Document{a, b}}
	router := newTestRouter(store, adminPrincipal())

	w := doRequest(router, http.MethodGet, "/documents/"+a.ID.String()+"/duplicates", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var payload struct {
		HasDuplicates bool                     `json:"hasDuplicates"`
		Duplicates    []map[string]interface{} `json:"duplicates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.HasDuplicates || len(payload.Duplicates) != 1 {
		t.Errorf("payload = %+v, want one duplicate", payload)
	}
}

func TestFieldConfigEndpoint(t *testing.T) {
	router := newTestRouter(&memStore{}, adminPrincipal())

	w := doRequest(router, http.MethodGet, "/config/fields?type=grn", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var payload struct {
		Fields []struct {
			Key string `json:"key"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Fields) == 0 || payload.Fields[0].Key != "documentNumber" {
		t.Errorf("fields = %+v, want documentNumber first", payload.Fields)
	}

	w = doRequest(router, http.MethodGet, "/config/fields?type=unknown", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown type", w.Code)
	}
}

func TestWorkspaceExportEndpoint(t *testing.T) {
	store := &memStore{docs: []model.Document{seedPO("PO-1", 10)}}
	router := newTestRouter(store, adminPrincipal())

	w := doRequest(router, http.MethodGet, "/workspace/po/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != xlsxContentType {
		t.Errorf("content type = %q", got)
	}
	if w.Body.Len() == 0 {
		t.Error("empty export body")
	}
}

func TestPOStatementEndpoint(t *testing.T) {
	po := seedPO("PO-1", 10)
	store := &memStore{docs: []model.Document{po}}
	router := newTestRouter(store, adminPrincipal())

	w := doRequest(router, http.MethodGet, "/workspace/po/"+po.ID.String()+"/statement", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", got)
	}
}

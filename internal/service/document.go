package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/procure-recon/internal/model"
	"github.com/nurpe/procure-recon/internal/repository"
)

type DocumentService struct {
	store DocumentStore
	log   zerolog.Logger
}

func NewDocumentService(store DocumentStore, log zerolog.Logger) *DocumentService {
	return &DocumentService{store: store, log: log}
}

// CreateDocumentInput carries everything needed to register a parsed
// document. Line totals are recomputed server side regardless of what
// the caller sends.
type CreateDocumentInput struct {
	Type             model.DocumentType
	DocumentNumber   string
	PONumberRef      string
	InvoiceNumberRef string
	BuyerName        string
	SellerName       string
	Site             string
	City             string
	DocumentDate     time.Time
	FileName         string
	LineItems        []model.LineItem
}

func (s *DocumentService) Create(ctx context.Context, principal model.Principal, input CreateDocumentInput) (*model.Document, error) {
	if !principal.CanWrite() {
		return nil, ErrPermissionDenied
	}
	input.DocumentNumber = strings.TrimSpace(input.DocumentNumber)
	if input.DocumentNumber == "" {
		return nil, fmt.Errorf("%w: document number is required", ErrInvalidInput)
	}
	switch input.Type {
	case model.TypePurchaseOrder, model.TypeInvoice, model.TypeGRN, model.TypePaymentAdvice:
	default:
		return nil, fmt.Errorf("%w: unknown document type %q", ErrInvalidInput, input.Type)
	}

	doc := model.Document{
		Type:             input.Type,
		OrganizationCode: principal.OrgCode,
		DocumentNumber:   input.DocumentNumber,
		PONumberRef:      strings.TrimSpace(input.PONumberRef),
		InvoiceNumberRef: strings.TrimSpace(input.InvoiceNumberRef),
		BuyerName:        input.BuyerName,
		SellerName:       input.SellerName,
		Site:             input.Site,
		City:             input.City,
		DocumentDate:     input.DocumentDate,
		Status:           model.StatusPendingApproval,
		FileName:         input.FileName,
		LineItems:        input.LineItems,
	}
	for i := range doc.LineItems {
		doc.LineItems[i].Position = i + 1
		doc.LineItems[i].RecomputeTotals()
	}
	doc.RecomputeTotals()

	created, err := s.store.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("document_id", created.ID.String()).
		Str("type", string(created.Type)).
		Str("number", created.DocumentNumber).
		Msg("document created")
	return created, nil
}

func (s *DocumentService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Document, error) {
	doc, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.OrganizationCode != principal.OrgCode {
		return nil, ErrNotFound
	}
	return doc, nil
}

// UpdateFields patches header fields on a document. Only approvers and
// admins may edit, and edits to approved documents are allowed since
// header corrections do not affect reconciliation quantities.
func (s *DocumentService) UpdateFields(ctx context.Context, principal model.Principal, id uuid.UUID, patch repository.FieldPatch) (*model.Document, error) {
	if !principal.CanWrite() {
		return nil, ErrPermissionDenied
	}
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	if _, err := s.Get(ctx, principal, id); err != nil {
		return nil, err
	}
	if err := s.store.UpdateFields(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.Get(ctx, principal, id)
}

// UpdateLineItems replaces the document's line items and recomputes
// header totals from the new lines.
func (s *DocumentService) UpdateLineItems(ctx context.Context, principal model.Principal, id uuid.UUID, items []model.LineItem) (*model.Document, error) {
	if !principal.CanWrite() {
		return nil, ErrPermissionDenied
	}
	doc, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	doc.LineItems = items
	for i := range doc.LineItems {
		doc.LineItems[i].DocumentID = doc.ID
		doc.LineItems[i].Position = i + 1
		doc.LineItems[i].RecomputeTotals()
	}
	doc.RecomputeTotals()

	if err := s.store.ReplaceLineItems(ctx, doc); err != nil {
		return nil, err
	}
	return s.Get(ctx, principal, id)
}

func (s *DocumentService) Approve(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Document, error) {
	return s.transition(ctx, principal, id, model.StatusApproved)
}

func (s *DocumentService) Reject(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Document, error) {
	return s.transition(ctx, principal, id, model.StatusRejected)
}

func (s *DocumentService) transition(ctx context.Context, principal model.Principal, id uuid.UUID, target model.DocumentStatus) (*model.Document, error) {
	if !principal.CanWrite() {
		return nil, ErrPermissionDenied
	}
	doc, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != model.StatusPendingApproval {
		return nil, fmt.Errorf("%w: document is %s", ErrInvalidTransition, strings.ToLower(string(doc.Status)))
	}
	if err := s.store.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("document_id", id.String()).
		Str("status", string(target)).
		Msg("document status changed")
	doc.Status = target
	return doc, nil
}

type DuplicateEntry struct {
	ID             string `json:"id"`
	FileName       string `json:"fileName"`
	DocumentNumber string `json:"documentNumber"`
	CreatedAt      string `json:"createdAt"`
}

type DuplicateCheckResult struct {
	HasDuplicates bool             `json:"hasDuplicates"`
	Duplicates    []DuplicateEntry `json:"duplicates"`
}

// CheckDuplicates reports other documents in the same organization that
// share this document's type and number.
func (s *DocumentService) CheckDuplicates(ctx context.Context, principal model.Principal, id uuid.UUID) (*DuplicateCheckResult, error) {
	doc, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	matches, err := s.store.FindDuplicates(ctx, principal.OrgCode, doc.Type, doc.DocumentNumber, doc.ID)
	if err != nil {
		return nil, err
	}
	result := &DuplicateCheckResult{Duplicates: []DuplicateEntry{}}
	for i := range matches {
		m := &matches[i]
		result.Duplicates = append(result.Duplicates, DuplicateEntry{
			ID:             m.ID.String(),
			FileName:       m.FileName,
			DocumentNumber: m.DocumentNumber,
			CreatedAt:      m.CreatedAt.Format(time.RFC3339),
		})
	}
	result.HasDuplicates = len(result.Duplicates) > 0
	return result, nil
}

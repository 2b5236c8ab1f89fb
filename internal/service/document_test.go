package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/procure-recon/internal/model"
	"github.com/nurpe/procure-recon/internal/repository"
)

func newDocumentService(store *fakeStore) *DocumentService {
	return NewDocumentService(store, zerolog.Nop())
}

func TestDocumentService_CreateDefaultsToPendingApproval(t *testing.T) {
	store := &fakeStore{}
	svc := newDocumentService(store)

	doc, err := svc.Create(context.Background(), testPrincipal(model.RoleApprover), CreateDocumentInput{
		Type:           model.TypeInvoice,
		DocumentNumber: "  INV-9  ",
		PONumberRef:    "PO-9",
		DocumentDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		LineItems: []model.LineItem{{
			ArticleCode: "ART-1",
			Quantity:    10,
			UnitRate:    decimal.NewFromInt(100),
			CGSTRate:    decimal.NewFromInt(9),
			SGSTRate:    decimal.NewFromInt(9),
		}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.Status != model.StatusPendingApproval {
		t.Errorf("status = %s, want PENDING_APPROVAL", doc.Status)
	}
	if doc.DocumentNumber != "INV-9" {
		t.Errorf("documentNumber = %q, want trimmed INV-9", doc.DocumentNumber)
	}
	if doc.OrganizationCode != "ORG1" {
		t.Errorf("organizationCode = %q, want the principal's org", doc.OrganizationCode)
	}
	if got := doc.BasicValue.StringFixed(2); got != "1000.00" {
		t.Errorf("basicValue = %s, want 1000.00", got)
	}
	if got := doc.TaxValue.StringFixed(2); got != "180.00" {
		t.Errorf("taxValue = %s, want 180.00", got)
	}
	if got := doc.TotalValue.StringFixed(2); got != "1180.00" {
		t.Errorf("totalValue = %s, want 1180.00", got)
	}
}

func TestDocumentService_CreateValidation(t *testing.T) {
	svc := newDocumentService(&fakeStore{})
	ctx := context.Background()

	_, err := svc.Create(ctx, testPrincipal(model.RoleViewer), CreateDocumentInput{
		Type: model.TypeInvoice, DocumentNumber: "INV-1",
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("viewer create error = %v, want ErrPermissionDenied", err)
	}

	_, err = svc.Create(ctx, testPrincipal(model.RoleAdmin), CreateDocumentInput{
		Type: model.TypeInvoice, DocumentNumber: "   ",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank number error = %v, want ErrInvalidInput", err)
	}

	_, err = svc.Create(ctx, testPrincipal(model.RoleAdmin), CreateDocumentInput{
		Type: model.DocumentType("RECEIPT"), DocumentNumber: "R-1",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown type error = %v, want ErrInvalidInput", err)
	}
}

func TestDocumentService_ApproveAndReject(t *testing.T) {
	pending := seedDoc(model.TypeInvoice, "INV-1", func(d *model.Document) {
		d.Status = model.StatusPendingApproval
	})
	store := &fakeStore{docs: []model.Document{pending}}
	svc := newDocumentService(store)
	ctx := context.Background()
	approver := testPrincipal(model.RoleApprover)

	doc, err := svc.Approve(ctx, approver, pending.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if doc.Status != model.StatusApproved {
		t.Errorf("status = %s, want APPROVED", doc.Status)
	}

	// Approved documents are terminal; a second transition must fail.
	if _, err := svc.Reject(ctx, approver, pending.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("reject-after-approve error = %v, want ErrInvalidTransition", err)
	}

	if _, err := svc.Approve(ctx, testPrincipal(model.RoleViewer), pending.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("viewer approve error = %v, want ErrPermissionDenied", err)
	}
}

func TestDocumentService_UpdateFields(t *testing.T) {
	doc := seedDoc(model.TypeInvoice, "INV-1", nil)
	store := &fakeStore{docs: []model.Document{doc}}
	svc := newDocumentService(store)
	ctx := context.Background()

	buyer := "Acme Industries"
	updated, err := svc.UpdateFields(ctx, testPrincipal(model.RoleAdmin), doc.ID, repository.FieldPatch{
		BuyerName: &buyer,
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if updated.BuyerName != buyer {
		t.Errorf("buyerName = %q, want %q", updated.BuyerName, buyer)
	}

	if _, err := svc.UpdateFields(ctx, testPrincipal(model.RoleAdmin), doc.ID, repository.FieldPatch{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty patch error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.UpdateFields(ctx, testPrincipal(model.RoleViewer), doc.ID, repository.FieldPatch{BuyerName: &buyer}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("viewer patch error = %v, want ErrPermissionDenied", err)
	}
}

func TestDocumentService_UpdateLineItemsRecomputesTotals(t *testing.T) {
	doc := seedDoc(model.TypeInvoice, "INV-1", withQty(10, 10))
	store := &fakeStore{docs: []model.Document{doc}}
	svc := newDocumentService(store)

	updated, err := svc.UpdateLineItems(context.Background(), testPrincipal(model.RoleAdmin), doc.ID, []model.LineItem{
		{ArticleCode: "ART-2", Quantity: 5, UnitRate: decimal.NewFromInt(200), IGSTRate: decimal.NewFromInt(18)},
	})
	if err != nil {
		t.Fatalf("UpdateLineItems: %v", err)
	}
	if got := updated.BasicValue.StringFixed(2); got != "1000.00" {
		t.Errorf("basicValue = %s, want 1000.00", got)
	}
	if got := updated.TaxValue.StringFixed(2); got != "180.00" {
		t.Errorf("taxValue = %s, want 180.00", got)
	}
	if len(updated.LineItems) != 1 || updated.LineItems[0].Position != 1 {
		t.Errorf("lineItems = %+v, want one item at position 1", updated.LineItems)
	}
}

func TestDocumentService_CheckDuplicates(t *testing.T) {
	first := seedDoc(model.TypeInvoice, "INV-1", func(d *model.Document) {
		d.FileName = "inv-1-a.pdf"
		d.CreatedAt = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	})
	second := seedDoc(model.TypeInvoice, "INV-1", func(d *model.Document) {
		d.FileName = "inv-1-b.pdf"
	})
	unrelated := seedDoc(model.TypeGRN, "INV-1", nil)
	store := &fakeStore{docs: []model.Document{first, second, unrelated}}
	svc := newDocumentService(store)

	result, err := svc.CheckDuplicates(context.Background(), testPrincipal(model.RoleViewer), second.ID)
	if err != nil {
		t.Fatalf("CheckDuplicates: %v", err)
	}
	if !result.HasDuplicates || len(result.Duplicates) != 1 {
		t.Fatalf("result = %+v, want one duplicate", result)
	}
	if result.Duplicates[0].FileName != "inv-1-a.pdf" {
		t.Errorf("duplicate fileName = %q, want inv-1-a.pdf", result.Duplicates[0].FileName)
	}

	clean, err := svc.CheckDuplicates(context.Background(), testPrincipal(model.RoleViewer), unrelated.ID)
	if err != nil {
		t.Fatalf("CheckDuplicates clean: %v", err)
	}
	if clean.HasDuplicates || len(clean.Duplicates) != 0 {
		t.Errorf("clean result = %+v, want no duplicates", clean)
	}
}

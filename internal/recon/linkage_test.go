package recon

import (
	"testing"

	"github.com/google/uuid"

	"github.com/nurpe/procure-recon/internal/model"
)

func doc(docType model.DocumentType, org, number, poRef, invRef string) model.Document {
	return model.Document{
		ID:               uuid.New(),
		Type:             docType,
		OrganizationCode: org,
		DocumentNumber:   number,
		PONumberRef:      poRef,
		InvoiceNumberRef: invRef,
	}
}

func TestResolveLinksInvoicesAndGRNsToPO(t *testing.T) {
	snap := Snapshot{
		POs: []model.Document{
			doc(model.TypePurchaseOrder, "ORG1", "PO-1001", "", ""),
		},
		Invoices: []model.Document{
			doc(model.TypeInvoice, "ORG1", "INV-1", "PO-1001", ""),
			doc(model.TypeInvoice, "ORG1", "INV-2", "PO-9999", ""),
		},
		GRNs: []model.Document{
			doc(model.TypeGRN, "ORG1", "GRN-1", "PO-1001", ""),
		},
	}

	links := Resolve(snap)
	poID := snap.POs[0].ID

	if got := len(links.InvoicesForPO(poID)); got != 1 {
		t.Fatalf("linked invoices = %d, want 1", got)
	}
	if links.InvoicesForPO(poID)[0].DocumentNumber != "INV-1" {
		t.Errorf("wrong invoice linked: %s", links.InvoicesForPO(poID)[0].DocumentNumber)
	}
	if got := len(links.GRNsForPO(poID)); got != 1 {
		t.Errorf("linked GRNs = %d, want 1", got)
	}
	if po := links.POForInvoice(snap.Invoices[1].ID); po != nil {
		t.Errorf("dangling reference resolved to %s", po.DocumentNumber)
	}
}

func TestResolveRequiresMatchingOrganization(t *testing.T) {
	// Same PO number in two organizations must not cross-link.
	snap := Snapshot{
		POs: []model.Document{
			doc(model.TypePurchaseOrder, "ORG1", "PO-1001", "", ""),
			doc(model.TypePurchaseOrder, "ORG2", "PO-1001", "", ""),
		},
		Invoices: []model.Document{
			doc(model.TypeInvoice, "ORG2", "INV-1", "PO-1001", ""),
		},
	}

	links := Resolve(snap)
	if got := len(links.InvoicesForPO(snap.POs[0].ID)); got != 0 {
		t.Errorf("ORG1 PO got %d invoices from ORG2", got)
	}
	if got := len(links.InvoicesForPO(snap.POs[1].ID)); got != 1 {
		t.Errorf("ORG2 PO got %d invoices, want 1", got)
	}
}

func TestResolveTrimsReferences(t *testing.T) {
	snap := Snapshot{
		POs: []model.Document{
			doc(model.TypePurchaseOrder, "ORG1", "  PO-1001 ", "", ""),
		},
		Invoices: []model.Document{
			doc(model.TypeInvoice, "ORG1", "INV-1", " PO-1001", ""),
		},
	}

	links := Resolve(snap)
	if got := len(links.InvoicesForPO(snap.POs[0].ID)); got != 1 {
		t.Errorf("trimmed match failed, linked invoices = %d", got)
	}
}

func TestResolveIsCaseSensitive(t *testing.T) {
	snap := Snapshot{
		POs: []model.Document{
			doc(model.TypePurchaseOrder, "ORG1", "PO-1001", "", ""),
		},
		Invoices: []model.Document{
			doc(model.TypeInvoice, "ORG1", "INV-1", "po-1001", ""),
		},
	}

	links := Resolve(snap)
	if got := len(links.InvoicesForPO(snap.POs[0].ID)); got != 0 {
		t.Errorf("case-insensitive match linked %d invoices", got)
	}
}

func TestResolveGRNLinksToPOThroughInvoice(t *testing.T) {
	snap := Snapshot{
		POs: []model.Document{
			doc(model.TypePurchaseOrder, "ORG1", "PO-1001", "", ""),
		},
		Invoices: []model.Document{
			doc(model.TypeInvoice, "ORG1", "INV-1", "PO-1001", ""),
		},
		GRNs: []model.Document{
			// No PO reference of its own, only the vendor invoice number.
			doc(model.TypeGRN, "ORG1", "GRN-1", "", "INV-1"),
		},
	}

	links := Resolve(snap)
	grnID := snap.GRNs[0].ID

	if inv := links.InvoiceForGRN(grnID); inv == nil || inv.DocumentNumber != "INV-1" {
		t.Fatal("GRN not linked to its invoice")
	}
	if po := links.POForGRN(grnID); po == nil || po.DocumentNumber != "PO-1001" {
		t.Error("GRN not linked to PO through invoice")
	}
	if got := len(links.GRNsForPO(snap.POs[0].ID)); got != 1 {
		t.Errorf("PO sees %d GRNs, want 1", got)
	}
	if got := len(links.GRNsForInvoice(snap.Invoices[0].ID)); got != 1 {
		t.Errorf("invoice sees %d GRNs, want 1", got)
	}
}

func TestResolveEmptyReferencesLinkNothing(t *testing.T) {
	snap := Snapshot{
		POs: []model.Document{
			doc(model.TypePurchaseOrder, "ORG1", "", "", ""),
		},
		Invoices: []model.Document{
			doc(model.TypeInvoice, "ORG1", "INV-1", "", ""),
		},
		GRNs: []model.Document{
			doc(model.TypeGRN, "ORG1", "GRN-1", "", ""),
		},
	}

	links := Resolve(snap)
	if po := links.POForInvoice(snap.Invoices[0].ID); po != nil {
		t.Error("empty reference linked invoice to PO")
	}
	if po := links.POForGRN(snap.GRNs[0].ID); po != nil {
		t.Error("empty reference linked GRN to PO")
	}
}

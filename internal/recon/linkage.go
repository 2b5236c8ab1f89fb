package recon

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nurpe/procure-recon/internal/model"
)

// Snapshot is the set of documents linkage is derived from. Links are
// never persisted; they are recomputed from the current number
// references on every query.
type Snapshot struct {
	POs      []model.Document
	Invoices []model.Document
	GRNs     []model.Document
}

// LinkSet holds the resolved relations, re-rootable from any of the
// three document types.
type LinkSet struct {
	invoicesByPO  map[uuid.UUID][]*model.Document
	grnsByPO      map[uuid.UUID][]*model.Document
	grnsByInvoice map[uuid.UUID][]*model.Document
	poByInvoice   map[uuid.UUID]*model.Document
	poByGRN       map[uuid.UUID]*model.Document
	invoiceByGRN  map[uuid.UUID]*model.Document
}

type numberKey struct {
	org    string
	number string
}

// Resolve matches invoices and GRNs to POs (and GRNs to invoices) by
// trimmed, case-sensitive document-number references. Matching always
// includes the organization code so that number collisions across
// organizations never link. A GRN without a PO reference links to a PO
// transitively through its invoice reference.
func Resolve(snap Snapshot) *LinkSet {
	ls := &LinkSet{
		invoicesByPO:  make(map[uuid.UUID][]*model.Document),
		grnsByPO:      make(map[uuid.UUID][]*model.Document),
		grnsByInvoice: make(map[uuid.UUID][]*model.Document),
		poByInvoice:   make(map[uuid.UUID]*model.Document),
		poByGRN:       make(map[uuid.UUID]*model.Document),
		invoiceByGRN:  make(map[uuid.UUID]*model.Document),
	}

	poByNumber := make(map[numberKey]*model.Document, len(snap.POs))
	for i := range snap.POs {
		po := &snap.POs[i]
		key := numberKey{po.OrganizationCode, strings.TrimSpace(po.DocumentNumber)}
		if key.number == "" {
			continue
		}
		if _, exists := poByNumber[key]; !exists {
			poByNumber[key] = po
		}
	}

	invoiceByNumber := make(map[numberKey]*model.Document, len(snap.Invoices))
	for i := range snap.Invoices {
		inv := &snap.Invoices[i]
		key := numberKey{inv.OrganizationCode, strings.TrimSpace(inv.DocumentNumber)}
		if key.number != "" {
			if _, exists := invoiceByNumber[key]; !exists {
				invoiceByNumber[key] = inv
			}
		}

		ref := strings.TrimSpace(inv.PONumberRef)
		if ref == "" {
			continue
		}
		if po, ok := poByNumber[numberKey{inv.OrganizationCode, ref}]; ok {
			ls.poByInvoice[inv.ID] = po
			ls.invoicesByPO[po.ID] = append(ls.invoicesByPO[po.ID], inv)
		}
	}

	for i := range snap.GRNs {
		grn := &snap.GRNs[i]

		if ref := strings.TrimSpace(grn.InvoiceNumberRef); ref != "" {
			if inv, ok := invoiceByNumber[numberKey{grn.OrganizationCode, ref}]; ok {
				ls.invoiceByGRN[grn.ID] = inv
				ls.grnsByInvoice[inv.ID] = append(ls.grnsByInvoice[inv.ID], grn)
			}
		}

		var po *model.Document
		if ref := strings.TrimSpace(grn.PONumberRef); ref != "" {
			po = poByNumber[numberKey{grn.OrganizationCode, ref}]
		} else if inv, ok := ls.invoiceByGRN[grn.ID]; ok {
			po = ls.poByInvoice[inv.ID]
		}
		if po != nil {
			ls.poByGRN[grn.ID] = po
			ls.grnsByPO[po.ID] = append(ls.grnsByPO[po.ID], grn)
		}
	}

	return ls
}

func (ls *LinkSet) InvoicesForPO(poID uuid.UUID) []*model.Document {
	return ls.invoicesByPO[poID]
}

func (ls *LinkSet) GRNsForPO(poID uuid.UUID) []*model.Document {
	return ls.grnsByPO[poID]
}

func (ls *LinkSet) GRNsForInvoice(invoiceID uuid.UUID) []*model.Document {
	return ls.grnsByInvoice[invoiceID]
}

func (ls *LinkSet) POForInvoice(invoiceID uuid.UUID) *model.Document {
	return ls.poByInvoice[invoiceID]
}

func (ls *LinkSet) POForGRN(grnID uuid.UUID) *model.Document {
	return ls.poByGRN[grnID]
}

func (ls *LinkSet) InvoiceForGRN(grnID uuid.UUID) *model.Document {
	return ls.invoiceByGRN[grnID]
}

package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/procure-recon/internal/model"
)

// DocFilter narrows a list query. Zero values mean "no constraint";
// the date range is half-open [From, To).
type DocFilter struct {
	From   time.Time
	To     time.Time
	Search string
	Site   string
	City   string
	Buyer  string
	Seller string
}

// FieldPatch is a partial update of a document's extracted header
// fields. Nil pointers leave the column untouched.
type FieldPatch struct {
	DocumentNumber   *string
	PONumberRef      *string
	InvoiceNumberRef *string
	BuyerName        *string
	SellerName       *string
	Site             *string
	City             *string
	DocumentDate     *time.Time
	FileName         *string
}

func (p FieldPatch) Empty() bool {
	return p.DocumentNumber == nil && p.PONumberRef == nil && p.InvoiceNumberRef == nil &&
		p.BuyerName == nil && p.SellerName == nil && p.Site == nil && p.City == nil &&
		p.DocumentDate == nil && p.FileName == nil
}

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `
	id,
	type,
	organization_code,
	document_number,
	po_number_ref,
	invoice_number_ref,
	buyer_name,
	seller_name,
	site,
	city,
	document_date,
	basic_value,
	tax_value,
	total_value,
	status,
	file_name,
	created_at,
	updated_at
`

func (r *DocumentRepository) ListByType(
	ctx context.Context,
	orgCode string,
	docType model.DocumentType,
	filter DocFilter,
) ([]model.Document, error) {
	baseQuery := `
		SELECT ` + documentColumns + `
		FROM documents d
		WHERE d.organization_code = ?
			AND d.type = ?
	`
	args := []interface{}{orgCode, docType}

	if !filter.From.IsZero() {
		baseQuery += " AND d.document_date >= ?"
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		baseQuery += " AND d.document_date < ?"
		args = append(args, filter.To)
	}
	if filter.Site != "" {
		baseQuery += " AND d.site = ?"
		args = append(args, filter.Site)
	}
	if filter.City != "" {
		baseQuery += " AND d.city = ?"
		args = append(args, filter.City)
	}
	if filter.Buyer != "" {
		baseQuery += " AND d.buyer_name = ?"
		args = append(args, filter.Buyer)
	}
	if filter.Seller != "" {
		baseQuery += " AND d.seller_name = ?"
		args = append(args, filter.Seller)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		baseQuery += ` AND (
			d.document_number ILIKE ?
			OR d.buyer_name ILIKE ?
			OR d.seller_name ILIKE ?
			OR EXISTS (
				SELECT 1 FROM line_items li
				WHERE li.document_id = d.id
					AND (li.article_code ILIKE ? OR li.description ILIKE ?)
			)
		)`
		args = append(args, pattern, pattern, pattern, pattern)
	}
	baseQuery += " ORDER BY d.document_date ASC, d.document_number ASC"

	var docs []model.Document
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&docs).Error; err != nil {
		return nil, err
	}
	if err := r.attachLineItems(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListByPORefs returns documents of the given type whose PO reference
// is one of the given numbers.
func (r *DocumentRepository) ListByPORefs(
	ctx context.Context,
	orgCode string,
	docType model.DocumentType,
	poNumbers []string,
) ([]model.Document, error) {
	if len(poNumbers) == 0 {
		return []model.Document{}, nil
	}
	var docs []model.Document
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+documentColumns+`
		FROM documents
		WHERE organization_code = ?
			AND type = ?
			AND TRIM(po_number_ref) = ANY(?)
		ORDER BY document_date ASC, document_number ASC
	`, orgCode, docType, poNumbers).Scan(&docs).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachLineItems(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListByInvoiceRefs returns GRNs whose invoice reference is one of the
// given invoice numbers.
func (r *DocumentRepository) ListByInvoiceRefs(
	ctx context.Context,
	orgCode string,
	invoiceNumbers []string,
) ([]model.Document, error) {
	if len(invoiceNumbers) == 0 {
		return []model.Document{}, nil
	}
	var docs []model.Document
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+documentColumns+`
		FROM documents
		WHERE organization_code = ?
			AND type = ?
			AND TRIM(invoice_number_ref) = ANY(?)
		ORDER BY document_date ASC, document_number ASC
	`, orgCode, model.TypeGRN, invoiceNumbers).Scan(&docs).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachLineItems(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListByNumbers returns documents of the given type by their own
// document numbers.
func (r *DocumentRepository) ListByNumbers(
	ctx context.Context,
	orgCode string,
	docType model.DocumentType,
	numbers []string,
) ([]model.Document, error) {
	if len(numbers) == 0 {
		return []model.Document{}, nil
	}
	var docs []model.Document
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+documentColumns+`
		FROM documents
		WHERE organization_code = ?
			AND type = ?
			AND TRIM(document_number) = ANY(?)
		ORDER BY document_date ASC, document_number ASC
	`, orgCode, docType, numbers).Scan(&docs).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachLineItems(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&doc).Error
	if err != nil {
		return nil, err
	}
	if doc.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	docs := []model.Document{doc}
	if err := r.attachLineItems(ctx, docs); err != nil {
		return nil, err
	}
	return &docs[0], nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc model.Document) (*model.Document, error) {
	var saved model.Document
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO documents (
				type,
				organization_code,
				document_number,
				po_number_ref,
				invoice_number_ref,
				buyer_name,
				seller_name,
				site,
				city,
				document_date,
				basic_value,
				tax_value,
				total_value,
				status,
				file_name
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING `+documentColumns+`
		`,
			doc.Type,
			doc.OrganizationCode,
			doc.DocumentNumber,
			doc.PONumberRef,
			doc.InvoiceNumberRef,
			doc.BuyerName,
			doc.SellerName,
			doc.Site,
			doc.City,
			doc.DocumentDate,
			doc.BasicValue,
			doc.TaxValue,
			doc.TotalValue,
			doc.Status,
			doc.FileName,
		).Scan(&saved).Error
		if err != nil {
			return err
		}
		return insertLineItems(tx, saved.ID, doc.LineItems)
	})
	if err != nil {
		return nil, err
	}
	saved.LineItems = doc.LineItems
	return &saved, nil
}

func (r *DocumentRepository) UpdateFields(ctx context.Context, id uuid.UUID, patch FieldPatch) error {
	sets := []string{"updated_at = NOW()"}
	var args []interface{}

	add := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.DocumentNumber != nil {
		add("document_number", *patch.DocumentNumber)
	}
	if patch.PONumberRef != nil {
		add("po_number_ref", *patch.PONumberRef)
	}
	if patch.InvoiceNumberRef != nil {
		add("invoice_number_ref", *patch.InvoiceNumberRef)
	}
	if patch.BuyerName != nil {
		add("buyer_name", *patch.BuyerName)
	}
	if patch.SellerName != nil {
		add("seller_name", *patch.SellerName)
	}
	if patch.Site != nil {
		add("site", *patch.Site)
	}
	if patch.City != nil {
		add("city", *patch.City)
	}
	if patch.DocumentDate != nil {
		add("document_date", *patch.DocumentDate)
	}
	if patch.FileName != nil {
		add("file_name", *patch.FileName)
	}

	args = append(args, id)
	return r.db.WithContext(ctx).Exec(
		"UPDATE documents SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	).Error
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.DocumentStatus) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE documents
		SET status = ?, updated_at = NOW()
		WHERE id = ?
	`, status, id).Error
}

// ReplaceLineItems swaps a document's line items and refreshes the
// stored money columns.
func (r *DocumentRepository) ReplaceLineItems(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM line_items WHERE document_id = ?`, doc.ID).Error; err != nil {
			return err
		}
		if err := insertLineItems(tx, doc.ID, doc.LineItems); err != nil {
			return err
		}
		return tx.Exec(`
			UPDATE documents
			SET basic_value = ?, tax_value = ?, total_value = ?, updated_at = NOW()
			WHERE id = ?
		`, doc.BasicValue, doc.TaxValue, doc.TotalValue, doc.ID).Error
	})
}

// FindDuplicates returns other documents with the same organization,
// type, and document number.
func (r *DocumentRepository) FindDuplicates(
	ctx context.Context,
	orgCode string,
	docType model.DocumentType,
	documentNumber string,
	excludeID uuid.UUID,
) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+documentColumns+`
		FROM documents
		WHERE organization_code = ?
			AND type = ?
			AND document_number = ?
			AND id <> ?
		ORDER BY created_at ASC
	`, orgCode, docType, documentNumber, excludeID).Scan(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepository) attachLineItems(ctx context.Context, docs []model.Document) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(docs))
	index := make(map[uuid.UUID]int, len(docs))
	for i := range docs {
		ids[i] = docs[i].ID
		index[docs[i].ID] = i
	}

	var items []model.LineItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			document_id,
			position,
			article_code,
			description,
			quantity,
			received_qty,
			accepted_qty,
			unit_rate,
			cgst_rate,
			sgst_rate,
			igst_rate,
			tax_amount,
			line_total
		FROM line_items
		WHERE document_id = ANY(?)
		ORDER BY document_id, position ASC
	`, ids).Scan(&items).Error
	if err != nil {
		return err
	}

	for _, item := range items {
		if pos, ok := index[item.DocumentID]; ok {
			docs[pos].LineItems = append(docs[pos].LineItems, item)
		}
	}
	return nil
}

func insertLineItems(tx *gorm.DB, docID uuid.UUID, items []model.LineItem) error {
	for i := range items {
		item := &items[i]
		if err := tx.Exec(`
			INSERT INTO line_items (
				document_id,
				position,
				article_code,
				description,
				quantity,
				received_qty,
				accepted_qty,
				unit_rate,
				cgst_rate,
				sgst_rate,
				igst_rate,
				tax_amount,
				line_total
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			docID,
			i+1,
			item.ArticleCode,
			item.Description,
			item.Quantity,
			item.ReceivedQty,
			item.AcceptedQty,
			item.UnitRate,
			item.CGSTRate,
			item.SGSTRate,
			item.IGSTRate,
			item.TaxAmount,
			item.LineTotal,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

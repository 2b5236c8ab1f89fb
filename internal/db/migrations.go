package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'document_type') THEN
			CREATE TYPE document_type AS ENUM ('PURCHASE_ORDER', 'INVOICE', 'GRN', 'PAYMENT_ADVICE');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'document_status') THEN
			CREATE TYPE document_status AS ENUM ('PENDING_APPROVAL', 'APPROVED', 'REJECTED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		type document_type NOT NULL,
		organization_code VARCHAR(32) NOT NULL,
		document_number VARCHAR(64) NOT NULL,
		po_number_ref VARCHAR(64) NOT NULL DEFAULT '',
		invoice_number_ref VARCHAR(64) NOT NULL DEFAULT '',
		buyer_name VARCHAR(255) NOT NULL DEFAULT '',
		seller_name VARCHAR(255) NOT NULL DEFAULT '',
		site VARCHAR(128) NOT NULL DEFAULT '',
		city VARCHAR(128) NOT NULL DEFAULT '',
		document_date DATE NOT NULL,
		basic_value NUMERIC(18,2) NOT NULL DEFAULT 0,
		tax_value NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_value NUMERIC(18,2) NOT NULL DEFAULT 0,
		status document_status NOT NULL DEFAULT 'PENDING_APPROVAL',
		file_name VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	// Intentionally not unique: re-uploaded documents share a number and
	// the duplicate-check endpoint reports them for manual review.
	`CREATE INDEX IF NOT EXISTS idx_documents_org_type_number
		ON documents (organization_code, type, document_number);`,
	`CREATE INDEX IF NOT EXISTS idx_documents_type_date ON documents (type, document_date);`,
	`CREATE INDEX IF NOT EXISTS idx_documents_po_ref ON documents (organization_code, po_number_ref)
		WHERE po_number_ref <> '';`,
	`CREATE INDEX IF NOT EXISTS idx_documents_invoice_ref ON documents (organization_code, invoice_number_ref)
		WHERE invoice_number_ref <> '';`,
	`CREATE TABLE IF NOT EXISTS line_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		document_id UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		position INT NOT NULL,
		article_code VARCHAR(64) NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		quantity NUMERIC(18,3) NOT NULL DEFAULT 0,
		received_qty NUMERIC(18,3) NOT NULL DEFAULT 0,
		accepted_qty NUMERIC(18,3) NOT NULL DEFAULT 0,
		unit_rate NUMERIC(18,4) NOT NULL DEFAULT 0,
		cgst_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
		sgst_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
		igst_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		line_total NUMERIC(18,2) NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_line_items_document_id ON line_items (document_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

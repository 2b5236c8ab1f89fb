package db

import (
	"strings"
	"testing"
)

// Re-uploading a document with the same number must succeed so the
// duplicate-check endpoint has something to report; the schema may not
// enforce uniqueness on document numbers.
func TestMigrationsAllowDuplicateDocumentNumbers(t *testing.T) {
	for i, stmt := range migrationStatements {
		upper := strings.ToUpper(stmt)
		if strings.Contains(upper, "UNIQUE") && strings.Contains(upper, "DOCUMENT_NUMBER") {
			t.Errorf("statement %d declares document_number unique:\n%s", i+1, stmt)
		}
	}
}

func TestMigrationsIndexNumberLookups(t *testing.T) {
	joined := strings.Join(migrationStatements, "\n")
	for _, index := range []string{
		"idx_documents_org_type_number",
		"idx_documents_po_ref",
		"idx_documents_invoice_ref",
		"idx_line_items_document_id",
	} {
		if !strings.Contains(joined, index) {
			t.Errorf("index %s missing from migrations", index)
		}
	}
}

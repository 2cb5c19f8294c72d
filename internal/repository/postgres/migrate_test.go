package postgres

import (
	"strings"
	"testing"
)

func TestSchemaStatements(t *testing.T) {
	stmts := SchemaStatements("test_")
	if len(stmts) == 0 {
		t.Fatal("no statements")
	}

	tables := NewTableNames("test_")
	joined := strings.Join(stmts, "\n")
	for _, table := range tables.All() {
		if !strings.Contains(joined, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("schema does not create %s", table)
		}
	}

	for _, stmt := range stmts {
		if strings.Contains(stmt, "{{prefix}}") {
			t.Errorf("unrendered placeholder in %q", stmt)
		}
		if !strings.Contains(stmt, "IF NOT EXISTS") {
			t.Errorf("statement is not idempotent: %q", stmt)
		}
	}
}

func TestTableNamesDropOrder(t *testing.T) {
	all := NewTableNames("dev_").All()
	if all[len(all)-1] != "dev_users" {
		t.Errorf("users must be dropped last, got %v", all)
	}
}

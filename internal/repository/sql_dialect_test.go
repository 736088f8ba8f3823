package repository

import (
	"strings"
	"testing"
)

func TestDialectDay(t *testing.T) {
	if got := dialectSQLite.day("created_at"); got != "substr(created_at, 1, 10)" {
		t.Fatalf("sqlite day expr mismatch: %s", got)
	}
	if got := parseDialect("PostgreSQL").day("delivery_date"); got != "to_char(delivery_date, 'YYYY-MM-DD')" {
		t.Fatalf("postgres day expr mismatch: %s", got)
	}
	if dialectOf(nil) != dialectSQLite {
		t.Fatalf("nil db should default to sqlite")
	}
}

func TestDialectAnyLike(t *testing.T) {
	condition, n := dialectSQLite.anyLike("customer_name", " ", "customer_phone")
	if n != 2 {
		t.Fatalf("placeholder count want 2 got %d", n)
	}
	if condition != `(customer_name LIKE ? ESCAPE '\' OR customer_phone LIKE ? ESCAPE '\')` {
		t.Fatalf("unexpected condition: %s", condition)
	}

	pg, _ := dialectPostgres.anyLike("name")
	if !strings.Contains(pg, "name ILIKE ?") {
		t.Fatalf("postgres should use ILIKE, got %s", pg)
	}

	if empty, count := dialectSQLite.anyLike(); empty != "" || count != 0 {
		t.Fatalf("empty columns should produce no condition")
	}
}

func TestLikeEscaper(t *testing.T) {
	if got := likeEscaper.Replace(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("unexpected escape: %s", got)
	}
}

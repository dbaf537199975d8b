package sqlprovider

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/glebarez/go-sqlite"

	"github.com/goliatone/go-refs/pkg/dataprovider"
	"github.com/goliatone/go-refs/pkg/record"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	stmts := []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`,
		`INSERT INTO users (id, name) VALUES (1, 'Ada'), (2, 'Grace'), (3, 'Barbara')`,
		`CREATE TABLE tags (slug TEXT PRIMARY KEY, label TEXT NOT NULL)`,
		`INSERT INTO tags (slug, label) VALUES ('go', 'Go'), ('ui', 'UI')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return db
}

func TestProviderGetMany(t *testing.T) {
	provider, err := New(openDB(t), WithTable("users", "users", ""))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	records, err := provider.GetMany(context.Background(), "users", []record.Identifier{1, 3, 99})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %#v", len(records), records)
	}

	names := map[string]string{}
	for _, rec := range records {
		names[rec.Key()] = rec.String("name")
	}
	if names["1"] != "Ada" || names["3"] != "Barbara" {
		t.Fatalf("unexpected records: %#v", names)
	}
}

func TestProviderCustomIDColumn(t *testing.T) {
	provider, err := New(openDB(t), WithTable("tags", "tags", "slug"))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	records, err := provider.GetMany(context.Background(), "tags", []record.Identifier{"ui"})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(records) != 1 || records[0].Key() != "ui" || records[0].String("label") != "UI" {
		t.Fatalf("unexpected records: %#v", records)
	}
}

func TestProviderRejectsUnknownResource(t *testing.T) {
	provider, err := New(openDB(t), WithTable("users", "users", "id"))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	_, err = provider.GetMany(context.Background(), "posts", []record.Identifier{1})
	if !errors.Is(err, dataprovider.ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}

func TestNewRejectsInvalidIdentifiers(t *testing.T) {
	db := openDB(t)
	if _, err := New(db, WithTable("users", "users; DROP TABLE users", "id")); err == nil {
		t.Fatalf("expected invalid table name to be rejected")
	}
	if _, err := New(db, WithTable("users", "users", "id-1")); err == nil {
		t.Fatalf("expected invalid column name to be rejected")
	}
	if _, err := New(nil); err == nil {
		t.Fatalf("expected nil db to be rejected")
	}
}

func TestPlaceholderDollar(t *testing.T) {
	provider, err := New(openDB(t), WithTable("users", "users", "id"), WithPlaceholder(PlaceholderDollar))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	query, args := provider.buildQuery(provider.tables["users"], []record.Identifier{1, 2})
	if query != `SELECT * FROM "users" WHERE "id" IN ($1, $2)` {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestMySQLQuoting(t *testing.T) {
	provider, err := New(openDB(t), WithTable("users", "app_users", "user_id"), WithMySQL())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	query, _ := provider.buildQuery(provider.tables["users"], []record.Identifier{7, 8})
	if query != "SELECT * FROM `app_users` WHERE `user_id` IN (?, ?)" {
		t.Fatalf("unexpected query: %s", query)
	}

	custom, err := New(openDB(t), WithTable("users", "users", ""), WithQuote(QuoteBacktick))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	query, _ = custom.buildQuery(custom.tables["users"], []record.Identifier{7})
	if query != "SELECT * FROM `users` WHERE `id` IN (?)" {
		t.Fatalf("unexpected query: %s", query)
	}
}

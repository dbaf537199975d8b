// Package sqlprovider serves reference lookups from a database/sql handle.
// Resources must be registered explicitly; table and column names are
// validated so they can be interpolated into the query safely.
package sqlprovider

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-refs/pkg/dataprovider"
	"github.com/goliatone/go-refs/pkg/record"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Placeholder renders the nth (1-based) bind parameter.
type Placeholder func(n int) string

// PlaceholderQuestion renders "?" (sqlite, mysql). MySQL also needs
// QuoteBacktick; see WithMySQL.
func PlaceholderQuestion(int) string { return "?" }

// PlaceholderDollar renders "$n" (postgres).
func PlaceholderDollar(n int) string { return "$" + strconv.Itoa(n) }

// Quote renders a validated table or column name.
type Quote func(name string) string

// QuoteDouble renders "name" (sqlite, postgres, ANSI SQL).
func QuoteDouble(name string) string { return `"` + name + `"` }

// QuoteBacktick renders `name` (mysql).
func QuoteBacktick(name string) string { return "`" + name + "`" }

// Table maps a resource onto a table and its identifier column.
type Table struct {
	Name     string
	IDColumn string
}

// Option configures the provider.
type Option func(*Provider)

// WithTable registers resource as served by table. An empty idColumn defaults
// to "id".
func WithTable(resource, table, idColumn string) Option {
	return func(p *Provider) {
		if strings.TrimSpace(idColumn) == "" {
			idColumn = record.IDField
		}
		p.tables[strings.TrimSpace(resource)] = Table{
			Name:     strings.TrimSpace(table),
			IDColumn: strings.TrimSpace(idColumn),
		}
	}
}

// WithPlaceholder overrides the bind parameter style.
func WithPlaceholder(fn Placeholder) Option {
	return func(p *Provider) {
		if fn != nil {
			p.placeholder = fn
		}
	}
}

// WithQuote overrides identifier quoting. MySQL without ANSI_QUOTES needs
// QuoteBacktick.
func WithQuote(fn Quote) Option {
	return func(p *Provider) {
		if fn != nil {
			p.quote = fn
		}
	}
}

// WithMySQL selects "?" placeholders and backtick quoting.
func WithMySQL() Option {
	return func(p *Provider) {
		p.placeholder = PlaceholderQuestion
		p.quote = QuoteBacktick
	}
}

// Provider implements dataprovider.Provider on top of *sql.DB.
type Provider struct {
	db          *sql.DB
	tables      map[string]Table
	placeholder Placeholder
	quote       Quote
}

var _ dataprovider.Provider = (*Provider)(nil)

// New constructs a provider. It fails when a registered table or column name
// is not a plain SQL identifier.
func New(db *sql.DB, opts ...Option) (*Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlprovider: db is required")
	}
	p := &Provider{
		db:          db,
		tables:      make(map[string]Table),
		placeholder: PlaceholderQuestion,
		quote:       QuoteDouble,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(p)
	}
	for resource, table := range p.tables {
		if resource == "" {
			return nil, fmt.Errorf("sqlprovider: resource name is required")
		}
		if !identifierPattern.MatchString(table.Name) {
			return nil, fmt.Errorf("sqlprovider: invalid table name %q for resource %q", table.Name, resource)
		}
		if !identifierPattern.MatchString(table.IDColumn) {
			return nil, fmt.Errorf("sqlprovider: invalid id column %q for resource %q", table.IDColumn, resource)
		}
	}
	return p, nil
}

// GetMany implements dataprovider.Provider.
func (p *Provider) GetMany(ctx context.Context, resource string, ids []record.Identifier) ([]record.Record, error) {
	table, ok := p.tables[strings.TrimSpace(resource)]
	if !ok {
		return nil, fmt.Errorf("%w %q", dataprovider.ErrUnknownResource, resource)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	query, args := p.buildQuery(table, ids)
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlprovider: query %s: %w", table.Name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlprovider: columns %s: %w", table.Name, err)
	}

	var out []record.Record
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("sqlprovider: scan %s: %w", table.Name, err)
		}
		rec := make(record.Record, len(columns))
		for i, column := range columns {
			rec[column] = normalizeValue(values[i])
		}
		if table.IDColumn != record.IDField {
			rec[record.IDField] = rec[table.IDColumn]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlprovider: rows %s: %w", table.Name, err)
	}
	return out, nil
}

func (p *Provider) buildQuery(table Table, ids []record.Identifier) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = p.placeholder(i + 1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT * FROM %s WHERE %s IN (%s)`,
		p.quote(table.Name), p.quote(table.IDColumn), strings.Join(placeholders, ", "))
	return query, args
}

func normalizeValue(value any) any {
	if raw, ok := value.([]byte); ok {
		return string(raw)
	}
	return value
}

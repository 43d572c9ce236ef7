package repository

import (
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page selects one slice of a listing. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps out of range values to the defaults.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// orderColumn describes one orderable field. Nullable columns sort their
// NULLs last in both directions.
type orderColumn struct {
	expr     string
	nullable bool
}

// buildOrder turns a comma separated ordering parameter such as
// "-likes_count,rating" into an ORDER BY clause using only whitelisted
// fields. Unknown fields are dropped; when nothing usable remains the
// fallback is used. tiebreak is always appended so pages are stable.
func buildOrder(raw string, allowed map[string]orderColumn, fallback, tiebreak string) string {
	parts := make([]string, 0, 2)
	seen := make(map[string]bool)
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		name := strings.TrimPrefix(field, "-")
		col, ok := allowed[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true

		clause := col.expr + " ASC"
		if desc {
			clause = col.expr + " DESC"
		}
		if col.nullable {
			clause += " NULLS LAST"
		}
		parts = append(parts, clause)
	}
	if len(parts) == 0 {
		parts = append(parts, fallback)
	}
	return strings.Join(append(parts, tiebreak), ", ")
}

// searchClause builds a case-insensitive partial match over fields.
// The query is split into tokens and each token has to appear in at least
// one of the fields, e.g. "dark knight" over (title, genre) becomes
//
//	(title ILIKE '%dark%' OR genre ILIKE '%dark%') AND (title ILIKE '%knight%' OR genre ILIKE '%knight%')
func searchClause(query string, fields ...string) (string, []interface{}) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 || len(fields) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens)*len(fields))
	for _, t := range tokens {
		p := "%" + escapeLike(t) + "%"
		ors := make([]string, 0, len(fields))
		for _, f := range fields {
			ors = append(ors, "COALESCE("+f+", '') ILIKE ?")
			args = append(args, p)
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}
	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

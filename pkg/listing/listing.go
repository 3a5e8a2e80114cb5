package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Comparison operators accepted in bracketed filter keys, e.g. price[gte]=100.
var operators = map[string]string{
	"eq":  "=",
	"gte": ">=",
	"gt":  ">",
	"lte": "<=",
	"lt":  "<",
}

// Reserved query keys consumed by the shaping layer itself.
var reservedKeys = map[string]bool{
	"page":   true,
	"limit":  true,
	"sort":   true,
	"fields": true,
}

// Schema whitelists the columns a resource exposes to the query-shaping
// layer. Keys are the public query-parameter names, values the underlying
// column names. Anything not listed is rejected, which keeps raw query
// strings away from SQL.
type Schema struct {
	Filterable  map[string]string
	Sortable    map[string]string
	Selectable  map[string]string
	DefaultSort string
}

// Filter is a single parsed predicate.
type Filter struct {
	Column string
	Op     string
	Value  string
}

// Sort is a single parsed ordering term.
type Sort struct {
	Column string
	Desc   bool
}

// Params holds the shaped inputs for one list request.
type Params struct {
	Page    int
	Limit   int
	Filters []Filter
	Sorts   []Sort
	Fields  []string
}

// Parse extracts pagination, filtering, sorting, and projection parameters
// from the raw query against the resource schema.
func Parse(query url.Values, schema Schema) (Params, error) {
	params := Params{Page: 1, Limit: DefaultLimit}

	page, err := parseIntParam(query, "page", 1, 1, 1_000_000)
	if err != nil {
		return Params{}, err
	}
	params.Page = page

	limit, err := parseIntParam(query, "limit", DefaultLimit, 1, MaxLimit)
	if err != nil {
		return Params{}, err
	}
	params.Limit = limit

	if raw := strings.TrimSpace(query.Get("sort")); raw != "" {
		for _, term := range strings.Split(raw, ",") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			desc := strings.HasPrefix(term, "-")
			name := strings.TrimPrefix(term, "-")
			column, ok := schema.Sortable[name]
			if !ok {
				return Params{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort field").
					WithDetails(map[string]any{"field": name})
			}
			params.Sorts = append(params.Sorts, Sort{Column: column, Desc: desc})
		}
	}

	if raw := strings.TrimSpace(query.Get("fields")); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			column, ok := schema.Selectable[name]
			if !ok {
				return Params{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported projection field").
					WithDetails(map[string]any{"field": name})
			}
			params.Fields = append(params.Fields, column)
		}
	}

	for key, values := range query {
		if reservedKeys[key] || len(values) == 0 {
			continue
		}
		name, op, err := splitFilterKey(key)
		if err != nil {
			return Params{}, err
		}
		column, ok := schema.Filterable[name]
		if !ok {
			return Params{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported filter field").
				WithDetails(map[string]any{"field": name})
		}
		for _, value := range values {
			params.Filters = append(params.Filters, Filter{Column: column, Op: op, Value: value})
		}
	}

	return params, nil
}

// Scope applies the parsed parameters to a GORM query.
func (p Params) Scope(tx *gorm.DB) *gorm.DB {
	for _, f := range p.Filters {
		tx = tx.Where(fmt.Sprintf("%s %s ?", f.Column, f.Op), f.Value)
	}
	for _, s := range p.Sorts {
		direction := "ASC"
		if s.Desc {
			direction = "DESC"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", s.Column, direction))
	}
	if len(p.Fields) > 0 {
		tx = tx.Select(p.Fields)
	}
	return tx.Offset(p.Offset()).Limit(p.Limit)
}

// Offset converts the page/limit pair into a row offset.
func (p Params) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit
}

func parseIntParam(query url.Values, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").
			WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

func splitFilterKey(key string) (name, op string, err error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, operators["eq"], nil
	}
	if !strings.HasSuffix(key, "]") {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "malformed filter key").
			WithDetails(map[string]any{"field": key})
	}
	rawOp := key[open+1 : len(key)-1]
	sqlOp, ok := operators[rawOp]
	if !ok {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported filter operator").
			WithDetails(map[string]any{"field": key, "operator": rawOp})
	}
	return key[:open], sqlOp, nil
}

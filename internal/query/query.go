// Package query assembles the parameterized filter, sort and pagination
// clauses shared by the list endpoints.
//
// Filter and search values only ever reach SQL as bound parameters. The sort
// column is the one identifier interpolated into SQL text, and only after it
// has been checked against the entity's allow-list.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Sort directions.
const (
	Asc  = "ASC"
	Desc = "DESC"
)

// DefaultSortColumn is used when a requested sort field is not allowed.
const DefaultSortColumn = "id"

// Filter maps a query parameter to the column it compares for equality.
type Filter struct {
	Param  string
	Column string
}

// Spec describes how one entity's list endpoint may be filtered and sorted.
type Spec struct {
	Table string

	// Filters are applied in declaration order.
	Filters []Filter

	// SearchParam names the free-text parameter; its value is matched with
	// LIKE against every column in SearchColumns.
	SearchParam   string
	SearchColumns []string

	SortFields  []string
	DefaultSort string

	DefaultLimit int
	// MaxLimit caps the page size; zero means no cap.
	MaxLimit int
}

// Params is the caller-controlled part of a list request.
type Params struct {
	Values    map[string]string
	SortBy    string
	SortOrder string
	Page      Page
}

// Predicates returns one predicate per present, non-empty recognized filter,
// plus one grouped OR of LIKE predicates when a search term is present.
func (s Spec) Predicates(values map[string]string) []sq.Sqlizer {
	var preds []sq.Sqlizer

	if s.SearchParam != "" && len(s.SearchColumns) > 0 {
		if term := values[s.SearchParam]; term != "" {
			pattern := "%" + term + "%"
			or := make(sq.Or, 0, len(s.SearchColumns))
			for _, col := range s.SearchColumns {
				or = append(or, sq.Like{col: pattern})
			}
			preds = append(preds, or)
		}
	}

	for _, f := range s.Filters {
		if v := values[f.Param]; v != "" {
			preds = append(preds, sq.Eq{f.Column: v})
		}
	}

	return preds
}

// SortColumn returns field if it is in the allow-list and the default
// column otherwise.
func (s Spec) SortColumn(field string) string {
	for _, allowed := range s.SortFields {
		if field == allowed {
			return field
		}
	}
	if s.DefaultSort != "" {
		return s.DefaultSort
	}
	return DefaultSortColumn
}

// Direction returns DESC for a case-insensitive "desc" and ASC for anything else.
func Direction(order string) string {
	if strings.EqualFold(strings.TrimSpace(order), Desc) {
		return Desc
	}
	return Asc
}

// OrderBy returns the ORDER BY expression (without the keywords).
func (s Spec) OrderBy(sortBy, sortOrder string) string {
	return s.SortColumn(sortBy) + " " + Direction(sortOrder)
}

// Select builds the paginated list query.
func (s Spec) Select(p Params, columns ...string) sq.SelectBuilder {
	b := sq.Select(columns...).From(s.Table)
	for _, pred := range s.Predicates(p.Values) {
		b = b.Where(pred)
	}
	return b.OrderBy(s.OrderBy(p.SortBy, p.SortOrder)).
		Suffix("LIMIT ? OFFSET ?", p.Page.Limit, p.Page.Offset())
}

// Count builds the row count query sharing Select's predicates.
func (s Spec) Count(p Params) sq.SelectBuilder {
	b := sq.Select("COUNT(*)").From(s.Table)
	for _, pred := range s.Predicates(p.Values) {
		b = b.Where(pred)
	}
	return b
}

// ParamsFromQuery extracts list parameters from a URL query string. Unknown
// keys are dropped. The sort field is read from sortParam; an empty sortParam
// means the entity always sorts on its default column.
func (s Spec) ParamsFromQuery(q url.Values, sortParam string) Params {
	values := make(map[string]string, len(s.Filters)+1)
	if s.SearchParam != "" {
		values[s.SearchParam] = q.Get(s.SearchParam)
	}
	for _, f := range s.Filters {
		values[f.Param] = q.Get(f.Param)
	}

	p := Params{
		Values:    values,
		SortOrder: q.Get("sortOrder"),
		Page:      ParsePage(q.Get("page"), q.Get("limit"), s.DefaultLimit, s.MaxLimit),
	}
	if sortParam != "" {
		p.SortBy = q.Get(sortParam)
	}
	return p
}

// Page is a validated pagination request.
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// maxPageValue bounds page and limit so that their product cannot overflow.
const maxPageValue = math.MaxInt32

// ParsePage parses page and limit. Missing, non-numeric or non-positive
// values fall back to page 1 and defaultLimit. A positive maxLimit caps the limit.
func ParsePage(page, limit string, defaultLimit, maxLimit int) Page {
	p := Page{Page: 1, Limit: defaultLimit}
	if n, err := strconv.ParseInt(page, 10, 64); err == nil && n >= 1 {
		p.Page = int(min(n, maxPageValue))
	}
	if n, err := strconv.ParseInt(limit, 10, 64); err == nil && n >= 1 {
		p.Limit = int(min(n, maxPageValue))
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset returns the number of rows skipped before this page.
func (p Page) Offset() int {
	return int(int64(p.Page-1) * int64(p.Limit))
}

// Pagination is the pagination block of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes the page count for total rows.
func NewPagination(p Page, total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = total / p.Limit
		if total%p.Limit != 0 {
			pages++
		}
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}

package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// FilterParams carries the parsed listing parameters of a request.
type FilterParams struct {
	Filters map[string]string `json:"filters"`
	Sort    SortParams        `json:"sort"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
	Search  string            `json:"search"`
}

// SortParams represents sorting parameters
type SortParams struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ParseQueryParams extracts the standard listing parameters:
// page, limit, search, filters[field]=value and sort[field]/sort[order].
func ParseQueryParams(c *gin.Context) FilterParams {
	params := FilterParams{
		Filters: make(map[string]string),
		Search:  c.Query("search"),
		Sort:    SortParams{Field: "created_at", Order: "desc"},
		Page:    1,
		Limit:   defaultLimit,
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		params.Limit = limit
		if params.Limit > maxLimit {
			params.Limit = maxLimit
		}
	}

	for key, values := range c.Request.URL.Query() {
		field, ok := filterField(key)
		if ok && len(values) > 0 && values[0] != "" {
			params.Filters[field] = values[0]
		}
	}

	if field := c.Query("sort[field]"); field != "" {
		params.Sort.Field = field
	}
	if order := strings.ToLower(c.Query("sort[order]")); order == "asc" {
		params.Sort.Order = "asc"
	}

	return params
}

// filterField extracts "name" from a "filters[name]" query key.
func filterField(key string) (string, bool) {
	if !strings.HasPrefix(key, "filters[") || !strings.HasSuffix(key, "]") {
		return "", false
	}
	field := key[len("filters[") : len(key)-1]
	return field, field != ""
}

// ApplyFilters adds equality conditions for every filter whose field is
// in the allow-list. The allow-list maps the public name to the column.
func (p FilterParams) ApplyFilters(db *gorm.DB, allowedFields map[string]string) *gorm.DB {
	for field, value := range p.Filters {
		if column, allowed := allowedFields[field]; allowed && value != "" {
			db = db.Where(fmt.Sprintf("%s = ?", column), value)
		}
	}
	return db
}

// ApplySearch adds a case-insensitive substring match over the given
// columns. LOWER + LIKE behaves the same on postgres and the sqlite
// test database. LIKE metacharacters in the term are escaped so "50%"
// matches literally.
func (p FilterParams) ApplySearch(db *gorm.DB, searchColumns []string) *gorm.DB {
	if p.Search == "" || len(searchColumns) == 0 {
		return db
	}

	term := strings.ToLower(p.Search)
	term = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	pattern := "%" + term + "%"

	conditions := make([]string, len(searchColumns))
	args := make([]interface{}, len(searchColumns))
	for i, column := range searchColumns {
		conditions[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, column)
		args[i] = pattern
	}

	return db.Where(strings.Join(conditions, " OR "), args...)
}

// ApplySort orders by the requested field when allow-listed, otherwise
// by creation time descending.
func (p FilterParams) ApplySort(db *gorm.DB, allowedSortFields map[string]string) *gorm.DB {
	if column, allowed := allowedSortFields[p.Sort.Field]; allowed {
		return db.Order(fmt.Sprintf("%s %s", column, strings.ToUpper(p.Sort.Order)))
	}
	return db.Order("created_at DESC")
}

// Paginate applies the offset/limit window.
func (p FilterParams) Paginate(db *gorm.DB) *gorm.DB {
	return db.Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
}

// Pagination builds the pagination metadata for a total row count.
func (p FilterParams) Pagination(total int64) PaginationResponse {
	totalPages := (total + int64(p.Limit) - 1) / int64(p.Limit)

	return PaginationResponse{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < int(totalPages),
		HasPrev:    p.Page > 1,
	}
}

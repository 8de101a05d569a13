package pagination

import (
	"math"
	"net/http"
	"strconv"

	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
)

// MaxPageSize bounds the page_size a caller may request.
const MaxPageSize = 100

// Params holds a validated page request.
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Offset returns the number of rows preceding the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// New validates an explicit page request. A zero page or size selects the default.
func New(page, pageSize, defaultSize int) (Params, error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultSize
	}
	if page < 1 {
		return Params{}, apperrors.InvalidField("page", "must be a positive integer")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return Params{}, apperrors.InvalidField("page_size", "must be between 1 and "+strconv.Itoa(MaxPageSize))
	}
	// Offset must stay representable.
	if maxPage := math.MaxInt/pageSize + 1; page > maxPage {
		return Params{}, apperrors.InvalidField("page", "must be at most "+strconv.Itoa(maxPage))
	}
	return Params{Page: page, PageSize: pageSize}, nil
}

// FromRequest reads page and page_size query parameters. Absent parameters select
// defaults; malformed ones are a validation failure.
func FromRequest(r *http.Request, defaultSize int) (Params, error) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), "page")
	if err != nil {
		return Params{}, err
	}
	size, err := intParam(q.Get("page_size"), "page_size")
	if err != nil {
		return Params{}, err
	}
	return New(page, size, defaultSize)
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, apperrors.InvalidField(name, "must be a positive integer")
	}
	return v, nil
}

// Page is one page of results plus navigation metadata.
type Page[T any] struct {
	Count       int  `json:"count"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	Results     []T  `json:"results"`
}

// NewPage builds a Page from the rows of the requested page and the total row count.
// A page past the last one is NotFound, except page 1 of an empty set.
func NewPage[T any](results []T, count int, p Params) (Page[T], error) {
	totalPages := count / p.PageSize
	if count%p.PageSize > 0 {
		totalPages++
	}
	if p.Page > 1 && p.Page > totalPages {
		return Page[T]{}, apperrors.NotFoundMessage("Invalid page.")
	}
	if results == nil {
		results = []T{}
	}
	return Page[T]{
		Count:       count,
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalPages:  totalPages,
		HasNext:     p.Page < totalPages,
		HasPrevious: p.Page > 1,
		Results:     results,
	}, nil
}

// Map converts the results of a page while keeping its metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Results))
	for i, v := range p.Results {
		out[i] = fn(v)
	}
	return Page[U]{
		Count:       p.Count,
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalPages:  p.TotalPages,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
		Results:     out,
	}
}

package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params — страница и размер страницы из query (?page=&limit=).
type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int { return (p.Page - 1) * p.Limit }

// Normalize приводит значения к допустимым: page ≥ 1, 1 ≤ limit ≤ MaxLimit.
func Normalize(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return Normalize(page, limit)
}

// Page — страница результатов с метаданными.
// NextPage/PreviousPage — nil, если соседней страницы нет.
type Page[T any] struct {
	Data         []T   `json:"data"`
	Page         int   `json:"page"`
	PageSize     int   `json:"pageSize"`
	Total        int64 `json:"total"`
	TotalPages   int   `json:"totalPages"`
	NextPage     *int  `json:"nextPage,omitempty"`
	PreviousPage *int  `json:"previousPage,omitempty"`
}

func New[T any](data []T, p Params, total int64) *Page[T] {
	if data == nil {
		data = make([]T, 0)
	}
	size := p.Limit
	if size <= 0 {
		size = DefaultLimit
	}
	out := &Page[T]{
		Data:       data,
		Page:       p.Page,
		PageSize:   size,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(size))),
	}
	if out.Page < out.TotalPages {
		n := out.Page + 1
		out.NextPage = &n
	}
	if out.Page > 1 && out.Page <= out.TotalPages {
		n := out.Page - 1
		out.PreviousPage = &n
	}
	return out
}

// Map переносит метаданные страницы на другой тип элементов.
func Map[S, D any](src *Page[S], fn func(S) D) *Page[D] {
	data := make([]D, len(src.Data))
	for i, v := range src.Data {
		data[i] = fn(v)
	}
	return &Page[D]{
		Data:         data,
		Page:         src.Page,
		PageSize:     src.PageSize,
		Total:        src.Total,
		TotalPages:   src.TotalPages,
		NextPage:     src.NextPage,
		PreviousPage: src.PreviousPage,
	}
}

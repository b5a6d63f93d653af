package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestNew(t *testing.T) {
	p := New([]string{"a", "b"}, Params{Page: 2, Limit: 2}, 5)
	if p.TotalPages != 3 {
		t.Fatalf("TotalPages = %d", p.TotalPages)
	}
	if p.NextPage == nil || *p.NextPage != 3 {
		t.Fatalf("NextPage = %v", p.NextPage)
	}
	if p.PreviousPage == nil || *p.PreviousPage != 1 {
		t.Fatalf("PreviousPage = %v", p.PreviousPage)
	}

	last := New[int](nil, Params{Page: 3, Limit: 2}, 5)
	if last.NextPage != nil || last.Data == nil {
		t.Fatalf("последняя страница: %+v", last)
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/posts?page=-4&limit=1000", nil)
	p := FromRequest(r)
	if p.Page != 1 || p.Limit != MaxLimit || p.Offset() != 0 {
		t.Fatalf("получено %+v", p)
	}
}

func TestMap(t *testing.T) {
	src := New([]int{1, 2}, Params{Page: 1, Limit: 10}, 2)
	dst := Map(src, func(v int) string { return string(rune('a' + v)) })
	if dst.Data[1] != "c" || dst.Total != 2 {
		t.Fatalf("получено %+v", dst)
	}
}

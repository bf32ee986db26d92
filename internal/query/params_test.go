package query

import (
	"net/url"
	"testing"
)

func TestParseEqualityFilter(t *testing.T) {
	p := Parse(url.Values{"housing": {"true"}})

	if len(p.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(p.Filters))
	}
	f := p.Filters[0]
	if f.Field != "housing" || f.Op != OpEq || f.Values[0] != "true" {
		t.Errorf("unexpected filter: %+v", f)
	}
}

func TestParseComparisonOperators(t *testing.T) {
	tests := []struct {
		key  string
		op   string
	}{
		{"tuition[gt]", OpGt},
		{"tuition[gte]", OpGte},
		{"tuition[lt]", OpLt},
		{"tuition[lte]", OpLte},
	}

	for _, tt := range tests {
		p := Parse(url.Values{tt.key: {"1000"}})
		if len(p.Filters) != 1 {
			t.Fatalf("%s: expected 1 filter, got %d", tt.key, len(p.Filters))
		}
		f := p.Filters[0]
		if f.Field != "tuition" || f.Op != tt.op || f.Values[0] != "1000" {
			t.Errorf("%s: unexpected filter: %+v", tt.key, f)
		}
	}
}

func TestParseInOperator(t *testing.T) {
	p := Parse(url.Values{"minimum_skill[in]": {"beginner,advanced"}})

	if len(p.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(p.Filters))
	}
	f := p.Filters[0]
	if f.Op != OpIn || len(f.Values) != 2 || f.Values[0] != "beginner" || f.Values[1] != "advanced" {
		t.Errorf("unexpected in filter: %+v", f)
	}
}

func TestParseUnknownOperatorDropped(t *testing.T) {
	p := Parse(url.Values{"tuition[regex]": {".*"}})
	if len(p.Filters) != 0 {
		t.Errorf("expected unknown operator to be dropped, got %+v", p.Filters)
	}
}

func TestParseReservedKeysExcludedFromFilters(t *testing.T) {
	p := Parse(url.Values{
		"select": {"name,tuition"},
		"sort":   {"-tuition"},
		"page":   {"2"},
		"limit":  {"5"},
	})

	if len(p.Filters) != 0 {
		t.Errorf("reserved keys leaked into filters: %+v", p.Filters)
	}
	if len(p.Select) != 2 || p.Select[0] != "name" || p.Select[1] != "tuition" {
		t.Errorf("unexpected select: %v", p.Select)
	}
	if len(p.Sorts) != 1 || p.Sorts[0].Field != "tuition" || !p.Sorts[0].Desc {
		t.Errorf("unexpected sorts: %+v", p.Sorts)
	}
	if p.Page != 2 || p.Limit != 5 {
		t.Errorf("unexpected page/limit: %d/%d", p.Page, p.Limit)
	}
}

func TestParseSortAscendingByDefault(t *testing.T) {
	p := Parse(url.Values{"sort": {"name,-created_at"}})

	if len(p.Sorts) != 2 {
		t.Fatalf("expected 2 sorts, got %d", len(p.Sorts))
	}
	if p.Sorts[0].Field != "name" || p.Sorts[0].Desc {
		t.Errorf("expected name ascending, got %+v", p.Sorts[0])
	}
	if p.Sorts[1].Field != "created_at" || !p.Sorts[1].Desc {
		t.Errorf("expected created_at descending, got %+v", p.Sorts[1])
	}
}

func TestParseDefaults(t *testing.T) {
	p := Parse(url.Values{})

	if p.Page != 1 {
		t.Errorf("default page = %d, want 1", p.Page)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("default limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Offset() != 0 {
		t.Errorf("default offset = %d, want 0", p.Offset())
	}
}

func TestParseLimitClamped(t *testing.T) {
	p := Parse(url.Values{"limit": {"100000"}})
	if p.Limit != MaxLimit {
		t.Errorf("limit = %d, want clamped to %d", p.Limit, MaxLimit)
	}

	p = Parse(url.Values{"limit": {"-3"}, "page": {"0"}})
	if p.Limit != DefaultLimit || p.Page != 1 {
		t.Errorf("invalid limit/page not defaulted: %d/%d", p.Limit, p.Page)
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, Limit: 10}
	if p.Offset() != 20 {
		t.Errorf("Offset() = %d, want 20", p.Offset())
	}
}

func TestPaginate(t *testing.T) {
	pg := Paginate(1, 2, 5)
	if pg.Next == nil || pg.Next.Page != 2 || pg.Next.Limit != 2 {
		t.Errorf("expected next page 2, got %+v", pg.Next)
	}
	if pg.Prev != nil {
		t.Errorf("expected no prev on first page, got %+v", pg.Prev)
	}

	pg = Paginate(3, 2, 5)
	if pg.Next != nil {
		t.Errorf("expected no next on last page, got %+v", pg.Next)
	}
	if pg.Prev == nil || pg.Prev.Page != 2 {
		t.Errorf("expected prev page 2, got %+v", pg.Prev)
	}

	pg = Paginate(1, 25, 10)
	if pg.Next != nil || pg.Prev != nil {
		t.Errorf("single page should have no next/prev: %+v", pg)
	}
}

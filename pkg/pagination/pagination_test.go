package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name     string
		in       Params
		wantPage int
		wantSize int
	}{
		{"defaults", Params{}, 1, DefaultPageSize},
		{"negative page", Params{Page: -3, PageSize: 10}, 1, 10},
		{"over max", Params{Page: 2, PageSize: 500}, 2, MaxPageSize},
		{"passthrough", Params{Page: 4, PageSize: 50}, 4, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if got.Page != tc.wantPage || got.PageSize != tc.wantSize {
				t.Fatalf("Normalize() = %+v, want page=%d size=%d", got, tc.wantPage, tc.wantSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, PageSize: 25}
	if got := p.Offset(); got != 50 {
		t.Fatalf("Offset() = %d, want 50", got)
	}
	if got := (Params{}).Offset(); got != 0 {
		t.Fatalf("Offset() on zero params = %d, want 0", got)
	}
}

func TestNewResultNilItems(t *testing.T) {
	res := NewResult[string](nil, Params{Page: 2, PageSize: 10}, 42)
	if res.Items == nil {
		t.Fatal("expected non-nil items slice")
	}
	if res.Page != 2 || res.PageSize != 10 || res.TotalCount != 42 {
		t.Fatalf("unexpected metadata: %+v", res)
	}
}

package facebook

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPagingParameters_RoundTrip(t *testing.T) {
	p := PagingParameters{Limit: 25, Offset: 50, Since: 1300000000, Until: 1400000000, After: "a1", Before: "b2"}
	got := parsePagingURL("https://graph.facebook.com/v19.0/1/members?" + p.Values().Encode())
	if diff := cmp.Diff(&p, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestPagingParameters_ZeroValues(t *testing.T) {
	if v := (PagingParameters{}).Values(); len(v) != 0 {
		t.Fatalf("expected empty values, got %v", v)
	}
	if parsePagingURL("") != nil {
		t.Fatal("expected nil for empty link")
	}
}

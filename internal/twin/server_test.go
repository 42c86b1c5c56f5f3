package twin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func setupTwin(t *testing.T, opts ...Option) (*httptest.Server, *Store) {
	t.Helper()
	store := NewStore(DefaultFixture())
	opts = append([]Option{WithLogger(&log.Logger{Handler: discard.Default, Level: log.DebugLevel})}, opts...)
	srv := httptest.NewServer(New(store, opts...))
	t.Cleanup(srv.Close)
	return srv, store
}

func get(t *testing.T, rawURL, token string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer res.Body.Close()
	var body map[string]any
	b, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(b, &body); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return res.StatusCode, body
}

func TestGraphObject_HonorsFields(t *testing.T) {
	srv, _ := setupTwin(t)
	status, body := get(t, srv.URL+"/facebook/213106022036379?fields=name,privacy", "twin-token")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	want := map[string]any{"id": "213106022036379", "name": "Spring Social Test Group", "privacy": "OPEN"}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatal(diff)
	}
}

func TestGraph_RejectsBadToken(t *testing.T) {
	srv, _ := setupTwin(t)
	for _, tok := range []string{"", "wrong"} {
		status, body := get(t, srv.URL+"/facebook/me", tok)
		if status != http.StatusUnauthorized {
			t.Fatalf("token %q: status = %d", tok, status)
		}
		e, _ := body["error"].(map[string]any)
		if e["code"] != float64(190) || e["fbtrace_id"] == "" {
			t.Fatalf("unexpected error body %v", body)
		}
	}
}

func TestGraph_AccessTokenQueryParam(t *testing.T) {
	srv, _ := setupTwin(t)
	status, body := get(t, srv.URL+"/facebook/me?access_token=twin-token", "")
	if status != http.StatusOK || body["name"] != "Art Names" {
		t.Fatalf("status = %d body = %v", status, body)
	}
}

func TestGraphConnection_Paging(t *testing.T) {
	srv, _ := setupTwin(t)
	status, body := get(t, srv.URL+"/facebook/213106022036379/members?limit=2", "twin-token")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if data := body["data"].([]any); len(data) != 2 {
		t.Fatalf("len(data) = %d", len(data))
	}
	paging := body["paging"].(map[string]any)
	next, _ := paging["next"].(string)
	if next == "" {
		t.Fatalf("missing next link in %v", paging)
	}
	if _, ok := paging["previous"]; ok {
		t.Fatal("first page must not have a previous link")
	}

	_, body = get(t, next, "twin-token")
	data := body["data"].([]any)
	if len(data) != 1 || data[0].(map[string]any)["name"] != "Roy Clarkson" {
		t.Fatalf("unexpected second page %v", data)
	}
	paging = body["paging"].(map[string]any)
	if _, ok := paging["next"]; ok {
		t.Fatal("last page must not have a next link")
	}
	prev, _ := paging["previous"].(string)
	u, err := url.Parse(prev)
	if err != nil || u.Query().Get("before") == "" {
		t.Fatalf("bad previous link %q", prev)
	}
}

func TestGraphConnection_HugeLimitIsCapped(t *testing.T) {
	srv, _ := setupTwin(t)
	status, body := get(t, srv.URL+"/facebook/213106022036379/members?limit=9223372036854775807", "twin-token")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if data := body["data"].([]any); len(data) != 3 {
		t.Fatalf("len(data) = %d", len(data))
	}
	if _, ok := body["paging"]; ok {
		t.Fatalf("single page must not carry paging: %v", body["paging"])
	}

	huge := encodeCursor(9223372036854775807)
	status, body = get(t, srv.URL+"/facebook/213106022036379/members?limit=2&after="+huge, "twin-token")
	if status != http.StatusOK || len(body["data"].([]any)) != 0 {
		t.Fatalf("status = %d body = %v", status, body)
	}
}

func TestGraph_NotFound(t *testing.T) {
	srv, _ := setupTwin(t)
	status, body := get(t, srv.URL+"/facebook/nope/members", "twin-token")
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	e := body["error"].(map[string]any)
	if e["code"] != float64(100) || e["error_subcode"] != float64(33) {
		t.Fatalf("unexpected error %v", e)
	}
}

func TestGraph_PublishDeleteAndReset(t *testing.T) {
	srv, store := setupTwin(t)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/facebook/213106022036379/feed", strings.NewReader("message=hello"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer twin-token")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	var created map[string]string
	json.NewDecoder(res.Body).Decode(&created)
	res.Body.Close()
	if created["id"] != "213106022036379_1" {
		t.Fatalf("id = %q", created["id"])
	}

	list, _ := store.GraphConnection("213106022036379", "feed")
	if len(list) != 1 || list[0]["message"] != "hello" {
		t.Fatalf("feed = %v", list)
	}

	if !store.DeleteGraphObject(created["id"]) {
		t.Fatal("delete failed")
	}
	if list, _ := store.GraphConnection("213106022036379", "feed"); len(list) != 0 {
		t.Fatalf("feed after delete = %v", list)
	}

	store.Publish("213106022036379", "feed", Object{"message": "again"})
	res, err = http.Post(srv.URL+"/admin/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	res.Body.Close()
	if list, _ := store.GraphConnection("213106022036379", "feed"); len(list) != 0 {
		t.Fatalf("feed after reset = %v", list)
	}
	if _, ok := DefaultFixture().Facebook.Objects["213106022036379_1"]; ok {
		t.Fatal("seed fixture was mutated")
	}
}

func TestLinkedIn_PeopleAndCompanies(t *testing.T) {
	srv, _ := setupTwin(t)

	status, body := get(t, srv.URL+"/linkedin/people/~:(id,first-name,last-name)?format=json", "twin-token")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if diff := cmp.Diff(map[string]any{"id": "UB2kruYvvv", "firstName": "Craig", "lastName": "Walls"}, body); diff != "" {
		t.Fatal(diff)
	}

	_, body = get(t, srv.URL+"/linkedin/people/id=z37f0n3A05", "twin-token")
	if body["firstName"] != "Keith" {
		t.Fatalf("unexpected %v", body)
	}

	_, body = get(t, srv.URL+"/linkedin/companies/universal-name=linkedin:(id,name)", "twin-token")
	if diff := cmp.Diff(map[string]any{"id": float64(1337), "name": "LinkedIn"}, body); diff != "" {
		t.Fatal(diff)
	}

	status, body = get(t, srv.URL+"/linkedin/companies/42", "twin-token")
	if status != http.StatusNotFound || body["status"] != float64(404) || body["requestId"] == "" {
		t.Fatalf("status = %d body = %v", status, body)
	}
}

func TestLinkedIn_ProductsPaging(t *testing.T) {
	srv, _ := setupTwin(t)
	_, body := get(t, srv.URL+"/linkedin/companies/1337/products:(id,name,recommendations:(id,text))?start=1&count=1", "twin-token")
	if body["_total"] != float64(2) || body["_start"] != float64(1) {
		t.Fatalf("unexpected envelope %v", body)
	}
	values := body["values"].([]any)
	if len(values) != 1 || values[0].(map[string]any)["name"] != "LinkedIn Recruiter" {
		t.Fatalf("unexpected values %v", values)
	}
}

func TestLinkedIn_HugeCountIsCapped(t *testing.T) {
	srv, _ := setupTwin(t)
	status, body := get(t, srv.URL+"/linkedin/companies/1337/products?start=0&count=9223372036854775807", "twin-token")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["_count"] != float64(maxLinkedInCount) || len(body["values"].([]any)) != 2 {
		t.Fatalf("unexpected envelope %v", body)
	}
}

func TestLinkedIn_RejectsMissingToken(t *testing.T) {
	srv, _ := setupTwin(t)
	status, body := get(t, srv.URL+"/linkedin/people/~", "")
	if status != http.StatusUnauthorized || body["message"] != "Invalid access token." {
		t.Fatalf("status = %d body = %v", status, body)
	}
}

func TestSplitProjection(t *testing.T) {
	cases := []struct {
		in     string
		base   string
		fields []string
	}{
		{"1337", "1337", nil},
		{"~:(id,first-name)", "~", []string{"id", "firstName"}},
		{"products:(id,recommendations:(id,product-id),num-recommendations)", "products", []string{"id", "recommendations", "numRecommendations"}},
	}
	for _, tc := range cases {
		base, fields := splitProjection(tc.in)
		if base != tc.base {
			t.Fatalf("%s: base = %q", tc.in, base)
		}
		if diff := cmp.Diff(tc.fields, fields); diff != "" {
			t.Fatalf("%s: %s", tc.in, diff)
		}
	}
}

func TestMetrics_CountsServedRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, _ := setupTwin(t, WithRegisterer(reg))
	get(t, srv.URL+"/facebook/me", "twin-token")
	get(t, srv.URL+"/linkedin/people/~", "")

	s := New(NewStore(DefaultFixture()))
	if s.requests != nil {
		t.Fatal("metrics must be off without a registerer")
	}
	if n := testutil.CollectAndCount(reg, "social_twin_requests_total"); n != 2 {
		t.Fatalf("series = %d", n)
	}
}

func TestAdminState_LoadsFixture(t *testing.T) {
	srv, store := setupTwin(t)
	fixture := `{"tokens":["t2"],"facebook":{"me":"1","objects":{"1":{"id":"1","name":"Solo"}}}}`
	res, err := http.Post(srv.URL+"/admin/state", "application/json", strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("post state: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if store.ValidToken("twin-token") || !store.ValidToken("t2") {
		t.Fatal("tokens not replaced")
	}
	if obj, ok := store.GraphObject("me"); !ok || obj["name"] != "Solo" {
		t.Fatalf("me = %v", obj)
	}
}

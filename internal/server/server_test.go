package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/deckbuild/pkg/cache"
	"github.com/matzehuels/deckbuild/pkg/observability"
	"github.com/matzehuels/deckbuild/pkg/pipeline"
)

const validScript = `{
  "deck": {"title": "Agentes"},
  "slides": [
    {"kind": "title", "title": "Inteligencia Artificial Autónoma", "subtitle": "Actualizado 2025"},
    {"kind": "content", "title": "Agenda", "outline": ["Fundamentos", ["RPA", 1], ["LLMs", 1]]},
    {"kind": "section", "title": "Parte II"}
  ]
}`

const emptyOutlineScript = `{
  "slides": [
    {"kind": "title", "title": "Hola"},
    {"kind": "content", "title": "Vacía", "outline": []}
  ]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := httptest.NewServer(New(pipeline.NewRunner(fc, nil, logger), logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, contentType, strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s error: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody[map[string]string](t, resp)
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestBuildJSON(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/v1/decks?format=json", "application/json", validScript)
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body %s", resp.StatusCode, b)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := resp.Header.Get(HeaderSlides); got != "3" {
		t.Errorf("%s = %q, want 3", HeaderSlides, got)
	}
	if resp.Header.Get(HeaderRunID) == "" || resp.Header.Get(HeaderHash) == "" {
		t.Error("run id and hash headers should be set")
	}
	if got := resp.Header.Get(HeaderCache); got != "miss" {
		t.Errorf("%s = %q, want miss", HeaderCache, got)
	}

	var out struct {
		Slides []struct {
			Kind  string `json:"kind"`
			Title string `json:"title"`
		} `json:"slides"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	var kinds []string
	for _, s := range out.Slides {
		kinds = append(kinds, s.Kind)
	}
	if diff := cmp.Diff([]string{"title", "content", "section"}, kinds); diff != "" {
		t.Errorf("slide kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCacheHit(t *testing.T) {
	srv := newTestServer(t)

	first := post(t, srv.URL+"/v1/decks?format=json", "application/json", validScript)
	second := post(t, srv.URL+"/v1/decks?format=json", "application/json", validScript)
	if got := second.Header.Get(HeaderCache); got != "hit" {
		t.Errorf("second %s = %q, want hit", HeaderCache, got)
	}
	if first.Header.Get(HeaderHash) != second.Header.Get(HeaderHash) {
		t.Error("identical scripts should hash identically")
	}

	refreshed := post(t, srv.URL+"/v1/decks?format=json&refresh=true", "application/json", validScript)
	if got := refreshed.Header.Get(HeaderCache); got != "miss" {
		t.Errorf("refreshed %s = %q, want miss", HeaderCache, got)
	}
}

func TestBuildPPTXFromTOML(t *testing.T) {
	srv := newTestServer(t)

	body := `
[[slides]]
kind = "title"
title = "Hola"

[[slides]]
kind = "content"
title = "Agenda"
outline = ["uno", ["dos", 1]]
`
	resp := post(t, srv.URL+"/v1/decks?parallel=2", "application/toml", body)
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body %s", resp.StatusCode, b)
	}
	if got := resp.Header.Get("Content-Type"); got != contentTypes["pptx"] {
		t.Errorf("Content-Type = %q", got)
	}
	data, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("pptx body should be a zip package")
	}
}

func TestBuildErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		query       string
		contentType string
		body        string
		wantStatus  int
		wantCode    string
	}{
		{"syntax", "", "application/json", `{"slides": [`, http.StatusBadRequest, "INVALID_SCRIPT"},
		{"unknown kind", "", "application/json", `{"slides": [{"kind": "chart", "title": "x"}]}`, http.StatusBadRequest, "INVALID_SCRIPT"},
		{"content type", "", "text/csv", `a,b`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"script query", "?script=xml", "", `<deck/>`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"output format", "?format=svg", "application/json", validScript, http.StatusBadRequest, "INVALID_FORMAT"},
		{"parallel", "?parallel=many", "application/json", validScript, http.StatusBadRequest, "INVALID_INPUT"},
		{"parallel range", "?parallel=65", "application/json", validScript, http.StatusBadRequest, "INVALID_INPUT"},
		{"empty outline", "", "application/json", emptyOutlineScript, http.StatusUnprocessableEntity, "EMPTY_OUTLINE"},
		{"missing title", "", "application/json", `{"slides": [{"kind": "section", "title": "  "}]}`, http.StatusUnprocessableEntity, "MISSING_TITLE"},
		{"negative level", "", "application/json", `{"slides": [{"kind": "content", "title": "x", "outline": [["a", -1]]}]}`, http.StatusUnprocessableEntity, "INVALID_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/decks"+tt.query, tt.contentType, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			body := decodeBody[errorResponse](t, resp)
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q (message %q)", body.Code, tt.wantCode, body.Message)
			}
		})
	}
}

func TestBuildTooLarge(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	h := New(pipeline.NewRunner(nil, nil, logger), logger).Handler()

	big := `{"slides": [{"kind": "section", "title": "` + strings.Repeat("x", MaxScriptBytes) + `"}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/decks", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestValidate(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/v1/decks/validate", "application/json", validScript)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	got := decodeBody[validateResponse](t, resp)
	want := validateResponse{Valid: true, Slides: 3, ByKind: map[string]int{"title": 1, "content": 1, "section": 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("validate mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateReportsEntry(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/v1/decks/validate", "application/json", emptyOutlineScript)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	got := decodeBody[errorResponse](t, resp)
	if got.Code != "EMPTY_OUTLINE" {
		t.Errorf("code = %q, want EMPTY_OUTLINE", got.Code)
	}
	want := &entryInfo{Index: 1, Kind: "content", Title: "Vacía"}
	if diff := cmp.Diff(want, got.Entry); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/v1/decks", "application/json", validScript)
	hash := resp.Header.Get(HeaderHash)
	if hash == "" {
		t.Fatal("missing hash header")
	}

	got, err := http.Get(srv.URL + "/v1/decks/" + hash)
	if err != nil {
		t.Fatal(err)
	}
	defer got.Body.Close()
	if got.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", got.StatusCode)
	}
	data, _ := io.ReadAll(got.Body)
	if !bytes.Contains(data, []byte(`"title":"Agenda"`)) {
		t.Errorf("deck JSON missing slide title: %s", data)
	}

	missing, err := http.Get(srv.URL + "/v1/decks/deadbeef")
	if err != nil {
		t.Fatal(err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", missing.StatusCode)
	}
	if body := decodeBody[errorResponse](t, missing); body.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", body.Code)
	}
}

type httpRecorder struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	requests []string
	statuses []int
}

func (r *httpRecorder) OnRequest(_ context.Context, method, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, method+" "+path)
}

func (r *httpRecorder) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	rec := &httpRecorder{}
	observability.SetHTTPHooks(rec)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	post(t, srv.URL+"/v1/decks/validate", "application/json", emptyOutlineScript)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if diff := cmp.Diff([]string{"GET /healthz", "POST /v1/decks/validate"}, rec.requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{200, 422}, rec.statuses); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(pipeline.NewRunner(nil, nil, nil), log.NewWithOptions(io.Discard, log.Options{}))

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestTenantScopedLookup(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/decks?format=json", strings.NewReader(validScript))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderTenant, "acme")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	hash := resp.Header.Get(HeaderHash)

	lookup := func(tenant string) int {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/decks/"+hash, nil)
		if tenant != "" {
			req.Header.Set(HeaderTenant, tenant)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	tests := []struct {
		tenant string
		want   int
	}{
		{"acme", http.StatusOK},
		{"globex", http.StatusNotFound},
		{"", http.StatusNotFound},
		{"bad tenant!", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if got := lookup(tt.tenant); got != tt.want {
			t.Errorf("lookup as %q: status = %d, want %d", tt.tenant, got, tt.want)
		}
	}
}

package server

import (
	"encoding/json"
	stderrors "errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/deckbuild/pkg/assembler"
	"github.com/matzehuels/deckbuild/pkg/buildinfo"
	"github.com/matzehuels/deckbuild/pkg/cache"
	"github.com/matzehuels/deckbuild/pkg/errors"
	"github.com/matzehuels/deckbuild/pkg/pipeline"
	"github.com/matzehuels/deckbuild/pkg/script"
	"github.com/matzehuels/deckbuild/pkg/sink"
)

// Response headers set on successful builds.
const (
	HeaderRunID  = "X-Deck-Run-ID"
	HeaderSlides = "X-Deck-Slides"
	HeaderHash   = "X-Deck-Hash"
	HeaderCache  = "X-Deck-Cache"

	// HeaderTenant scopes cache keys so tenants sharing a backend cannot
	// read each other's decks.
	HeaderTenant = "X-Deck-Tenant"
)

const maxTenantLen = 64

var contentTypes = map[string]string{
	sink.FormatPPTX: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	sink.FormatJSON: "application/json",
}

// =============================================================================
// Handlers
// =============================================================================

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	sc, err := decodeScript(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := buildOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	runner, err := s.runnerFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := runner.Execute(r.Context(), sc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	cacheStatus := "miss"
	if result.CacheInfo.Hits[format] {
		cacheStatus = "hit"
	}

	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set(HeaderRunID, result.RunID)
	h.Set(HeaderSlides, strconv.Itoa(result.Stats.Slides))
	h.Set(HeaderHash, result.DeckHash)
	h.Set(HeaderCache, cacheStatus)
	if format == sink.FormatPPTX {
		h.Set("Content-Disposition", `attachment; filename="deck.pptx"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// validateResponse is the body of a successful validation.
type validateResponse struct {
	Valid  bool           `json:"valid"`
	Slides int            `json:"slides"`
	ByKind map[string]int `json:"by_kind"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	sc, err := decodeScript(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	d, err := s.runner.Assemble(r.Context(), sc, pipeline.Options{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	byKind := make(map[string]int)
	for k, n := range d.CountByKind() {
		byKind[k.String()] = n
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: true, Slides: d.Len(), ByKind: byKind})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	runner, err := s.runnerFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	hash := chi.URLParam(r, "hash")
	data, ok, err := runner.LookupDeck(r.Context(), hash)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no deck with hash %q", hash))
		return
	}
	w.Header().Set("Content-Type", contentTypes[sink.FormatJSON])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Request Decoding
// =============================================================================

// runnerFor returns the shared runner, or a copy with tenant-scoped cache
// keys when the request names a tenant.
func (s *Server) runnerFor(r *http.Request) (*pipeline.Runner, error) {
	tenant := r.Header.Get(HeaderTenant)
	if tenant == "" {
		return s.runner, nil
	}
	if len(tenant) > maxTenantLen || strings.IndexFunc(tenant, invalidTenantRune) >= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s must be 1-%d characters of [A-Za-z0-9_-]", HeaderTenant, maxTenantLen)
	}
	scoped := *s.runner
	scoped.Keyer = cache.NewScopedKeyer(s.runner.Keyer, "tenant:"+tenant+":")
	return &scoped, nil
}

func invalidTenantRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		return false
	}
	return true
}

// scriptFormat picks the script decoder from the "script" query parameter
// or the Content-Type. JSON is the default.
func scriptFormat(r *http.Request) (string, error) {
	if f := r.URL.Query().Get("script"); f != "" {
		if !script.ValidFormats[f] {
			return "", errors.New(errors.ErrCodeInvalidFormat, "unknown script format %q (must be toml, yaml or json)", f)
		}
		return f, nil
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return script.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type %q", ct)
	}
	switch mt {
	case "application/json":
		return script.FormatJSON, nil
	case "application/toml", "text/toml":
		return script.FormatTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return script.FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
	}
}

func decodeScript(w http.ResponseWriter, r *http.Request) (script.Script, error) {
	format, err := scriptFormat(r)
	if err != nil {
		return script.Script{}, err
	}
	body := http.MaxBytesReader(w, r.Body, MaxScriptBytes)
	return script.Decode(body, format)
}

// buildOptions reads pipeline options from the query string. Only one
// output format is served per request.
func buildOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Formats: []string{pipeline.DefaultFormat}}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}
	if p := q.Get("parallel"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "parallel must be an integer, got %q", p)
		}
		opts.Parallelism = n
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "refresh must be a boolean, got %q", v)
		}
		opts.Refresh = b
	}
	opts.Creator = q.Get("creator")
	return opts, opts.Validate()
}

// =============================================================================
// Responses
// =============================================================================

// errorResponse is the body of every error reply.
type errorResponse struct {
	Code    string     `json:"code"`
	Message string     `json:"message"`
	Entry   *entryInfo `json:"entry,omitempty"`
}

type entryInfo struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Code: string(errors.GetCode(err)), Message: errors.UserMessage(err)}
	if resp.Code == "" {
		resp.Code = string(errors.ErrCodeInternal)
	}

	var entryErr *assembler.EntryError
	if stderrors.As(err, &entryErr) {
		resp.Entry = &entryInfo{Index: entryErr.Index, Kind: entryErr.Kind.String(), Title: entryErr.Title}
		resp.Message = entryErr.Error()
	}

	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		resp.Code = string(errors.ErrCodeInvalidInput)
		resp.Message = "script exceeds " + strconv.FormatInt(maxErr.Limit, 10) + " bytes"
		writeJSON(w, http.StatusRequestEntityTooLarge, resp)
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, resp)
}

// statusFor maps an error code to an HTTP status. Deck construction errors
// are 422: the script parsed but describes an impossible deck.
func statusFor(err error) int {
	if errors.IsValidation(err) {
		return http.StatusUnprocessableEntity
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScript, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidCanvas, errors.ErrCodeInvalidLayout:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

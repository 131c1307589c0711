package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/smilesdraw/pkg/buildinfo"
	apperrors "github.com/matzehuels/smilesdraw/pkg/errors"
	"github.com/matzehuels/smilesdraw/pkg/graph"
	"github.com/matzehuels/smilesdraw/pkg/pipeline"
	"github.com/matzehuels/smilesdraw/pkg/render"
)

// Cache status header on render responses: HIT or MISS.
const cacheHeader = "X-Cache"

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Get(),
	})
}

// =============================================================================
// Render
// =============================================================================

// handleRenderGet renders one format from query parameters and streams it.
func (s *Server) handleRenderGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = graph.FormatSVG
	}
	opts := s.baseOptions()
	opts.SMILES = q.Get("smiles")
	opts.Name = q.Get("name")
	opts.Formats = []string{format}
	if t := q.Get("theme"); t != "" {
		opts.Theme = t
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidOption, "scale must be a positive number"))
			return
		}
		opts.Scale = scale
	}
	if v := q.Get("pseudo"); v != "" {
		pseudo, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidOption, "pseudo must be a boolean"))
			return
		}
		opts.Pseudo = pseudo
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(cacheHeader, cacheStatus(res.CacheInfo.RenderHit))
	writeArtifact(w, format, res.Artifacts[format])
}

// renderRequest is the POST /v1/render body. Options are overlaid on the
// server's layout defaults, so partial objects are fine.
type renderRequest struct {
	SMILES  string          `json:"smiles"`
	Name    string          `json:"name,omitempty"`
	Format  string          `json:"format,omitempty"`
	Formats []string        `json:"formats,omitempty"`
	Theme   string          `json:"theme,omitempty"`
	Scale   float64         `json:"scale,omitempty"`
	Pseudo  *bool           `json:"pseudo_elements,omitempty"`
	Options json.RawMessage `json:"options,omitempty"`
}

type renderResponse struct {
	ID      string   `json:"id"`
	Formula string   `json:"formula"`
	Atoms   int      `json:"atoms"`
	Rings   int      `json:"rings"`
	Formats []string `json:"formats"`
	URL     string   `json:"url"`
	Cached  bool     `json:"cached"`
}

// handleRenderPost renders, stores the artifacts under a new id and returns
// where to fetch them.
func (s *Server) handleRenderPost(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	opts := s.baseOptions()
	opts.SMILES = req.SMILES
	opts.Name = req.Name
	switch {
	case len(req.Formats) > 0:
		opts.Formats = req.Formats
	case req.Format != "":
		opts.Formats = []string{req.Format}
	}
	if req.Theme != "" {
		opts.Theme = req.Theme
	}
	if req.Scale != 0 {
		opts.Scale = req.Scale
	}
	if req.Pseudo != nil {
		opts.Pseudo = *req.Pseudo
	}
	if len(req.Options) > 0 {
		lo := *opts.Layout
		if err := json.Unmarshal(req.Options, &lo); err != nil {
			writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidOption, err, "invalid layout options"))
			return
		}
		opts.Layout = &lo
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := uuid.NewString()
	stored := pipeline.StoredRender{
		ID:        id,
		SMILES:    res.Layout.SMILES,
		Name:      res.Layout.Name,
		Formula:   res.Layout.Formula,
		Rings:     res.Stats.Rings,
		Artifacts: res.Artifacts,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.runner.StoreRender(r.Context(), stored); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, renderResponse{
		ID:      id,
		Formula: res.Layout.Formula,
		Atoms:   res.Stats.Atoms,
		Rings:   res.Stats.Rings,
		Formats: opts.Formats,
		URL:     "/v1/renders/" + id,
		Cached:  res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit,
	})
}

// handleStoredRender streams a stored artifact. ?format= picks one when the
// render holds several; svg is preferred otherwise.
func (s *Server) handleStoredRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid render id %q", id))
		return
	}
	stored, err := s.runner.LoadRender(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = preferredFormat(stored.Artifacts)
	}
	data, ok := stored.Artifacts[format]
	if !ok {
		writeError(w, r, apperrors.New(apperrors.ErrCodeNotFound, "render %s has no %q artifact", id, format))
		return
	}
	writeArtifact(w, format, data)
}

func preferredFormat(artifacts map[string][]byte) string {
	if _, ok := artifacts[graph.FormatSVG]; ok {
		return graph.FormatSVG
	}
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	if len(formats) == 0 {
		return ""
	}
	return formats[0]
}

// =============================================================================
// Info
// =============================================================================

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	opts := s.baseOptions()
	opts.SMILES = r.URL.Query().Get("smiles")
	opts.Name = r.URL.Query().Get("name")

	l, _, err := s.runner.ParseAndLayout(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pipeline.Describe(l))
}

// =============================================================================
// Helpers
// =============================================================================

// baseOptions returns pipeline options seeded with the server defaults.
func (s *Server) baseOptions() pipeline.Options {
	lo := s.layout
	return pipeline.Options{
		Layout:   &lo,
		Formats:  slices.Clone(s.render.Formats),
		Theme:    s.render.Theme,
		Scale:    s.render.Scale,
		Pseudo:   s.render.Pseudo,
		Graphviz: s.render.Graphviz,
		Logger:   s.logger,
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

type errorBody struct {
	Error struct {
		Code      apperrors.Code `json:"code"`
		Message   string         `json:"message"`
		RequestID string         `json:"request_id,omitempty"`
	} `json:"error"`
}

// writeError writes err as JSON with the status its code maps to.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	var body errorBody
	body.Error.Code = code
	body.Error.Message = apperrors.UserMessage(err)
	body.Error.RequestID = RequestID(r.Context())
	writeJSON(w, StatusCode(err), body)
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge
	}
	code := apperrors.GetCode(err)
	switch {
	case code.IsInvalid():
		return http.StatusBadRequest
	case code.IsNotFound():
		return http.StatusNotFound
	case code == apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == apperrors.ErrCodeCanceled:
		return 499
	case code == apperrors.ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	case code == apperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func errNotFound(r *http.Request) error {
	return apperrors.New(apperrors.ErrCodeNotFound, "no route for %s %s", r.Method, strings.TrimSpace(r.URL.Path))
}

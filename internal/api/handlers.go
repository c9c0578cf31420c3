package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stackplan/stackplan/pkg/buildinfo"
	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/compose"
	"github.com/stackplan/stackplan/pkg/errors"
	"github.com/stackplan/stackplan/pkg/manifest"
	"github.com/stackplan/stackplan/pkg/pipeline"
	"github.com/stackplan/stackplan/pkg/store"
)

// maxManifestBytes caps request bodies; a hand-written manifest is
// orders of magnitude smaller.
const maxManifestBytes = 1 << 20

// composeRequest is the body of POST /v1/compose and /v1/validate.
type composeRequest struct {
	Manifest        json.RawMessage `json:"manifest,omitempty"`
	ManifestText    string          `json:"manifest_text,omitempty"`
	Format          string          `json:"format,omitempty"`
	Pattern         string          `json:"pattern,omitempty"`
	Formats         []string        `json:"formats,omitempty"`
	IncludeOptional bool            `json:"include_optional,omitempty"`
	Refresh         bool            `json:"refresh,omitempty"`
}

// manifestData returns the raw manifest bytes and their format.
func (req composeRequest) manifestData() ([]byte, string) {
	format := req.Format
	if len(req.Manifest) > 0 {
		if format == "" {
			format = manifest.FormatJSON
		}
		return req.Manifest, format
	}
	if format == "" {
		format = manifest.FormatYAML
	}
	return []byte(req.ManifestText), format
}

type composeResponse struct {
	Pattern          string                     `json:"pattern,omitempty"`
	Graph            json.RawMessage            `json:"graph,omitempty"`
	GraphHash        string                     `json:"graph_hash,omitempty"`
	Artifacts        map[string]string          `json:"artifacts,omitempty"`
	ValidationErrors []manifest.ValidationError `json:"validation_errors,omitempty"`
	Stats            statsResponse              `json:"stats"`
}

type statsResponse struct {
	Intents int `json:"intents"`
	Nodes   int `json:"nodes"`
	Edges   int `json:"edges"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleCatalog lists every builtin kind with its grouping and
// dependencies.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	type catalogEntry struct {
		Kind        string   `json:"kind"`
		DisplayName string   `json:"display_name"`
		Group       string   `json:"group"`
		Description string   `json:"description"`
		Requires    []string `json:"requires,omitempty"`
		Recommends  []string `json:"recommends,omitempty"`
	}

	var out []catalogEntry
	for _, k := range catalog.Kinds() {
		def, _ := catalog.Get(k)
		entry := catalogEntry{
			Kind:        string(def.Kind),
			DisplayName: def.DisplayName,
			Group:       def.Group.String(),
			Description: def.Description,
		}
		for _, dep := range def.Dependencies {
			if dep.Required {
				entry.Requires = append(entry.Requires, string(dep.Kind))
			} else {
				entry.Recommends = append(entry.Recommends, string(dep.Kind))
			}
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, map[string]any{"kinds": out})
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"patterns": compose.Patterns(),
		"default":  compose.DefaultPattern,
	})
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeComposeRequest(w, r)
	if !ok {
		return
	}

	data, format := req.manifestData()
	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		ManifestData:    data,
		Format:          format,
		Pattern:         req.Pattern,
		Formats:         req.Formats,
		IncludeOptional: req.IncludeOptional,
		Refresh:         req.Refresh,
		Logger:          s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := composeResponse{
		Pattern:          result.Pattern,
		GraphHash:        result.GraphHash,
		ValidationErrors: result.ValidationErrors,
		Stats: statsResponse{
			Intents: result.Stats.IntentCount,
			Nodes:   result.Stats.NodeCount,
			Edges:   result.Stats.EdgeCount,
		},
	}
	if len(result.ValidationErrors) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	if graphJSON, ok := result.Artifacts[pipeline.FormatJSON]; ok {
		resp.Graph = graphJSON
	}
	resp.Artifacts = make(map[string]string, len(result.Artifacts))
	for format, data := range result.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		resp.Artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleValidate runs load and validation only; it never composes.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeComposeRequest(w, r)
	if !ok {
		return
	}

	data, format := req.manifestData()
	loaded, err := manifest.Load(data, format, "manifest."+format)
	if err != nil {
		writeError(w, err)
		return
	}

	findings := manifest.Validate(*loaded)
	status := http.StatusOK
	if len(findings) > 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]any{
		"valid":             len(findings) == 0,
		"validation_errors": findings,
	})
}

type saveDesignRequest struct {
	Name string `json:"name"`
	composeRequest
}

func (s *Server) handleSaveDesign(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxManifestBytes))
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "read body: %v", err))
		return
	}
	defer r.Body.Close()

	var req saveDesignRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "decode request: %v", err))
		return
	}
	if err := errors.ValidateDesignName(req.Name); err != nil {
		writeError(w, err)
		return
	}

	data, format := req.manifestData()
	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		ManifestData:    data,
		Format:          format,
		Pattern:         req.Pattern,
		Formats:         []string{pipeline.FormatJSON},
		IncludeOptional: req.IncludeOptional,
		Logger:          s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if len(result.ValidationErrors) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"validation_errors": result.ValidationErrors,
		})
		return
	}

	design := &store.Design{
		Name:         req.Name,
		Requirements: result.Requirements,
		Pattern:      result.Pattern,
		Graph:        result.Graph,
	}
	if err := s.store.Save(r.Context(), design); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "save design"))
		return
	}
	writeJSON(w, http.StatusCreated, design)
}

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "list designs"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"designs": list})
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := designID(w, r)
	if !ok {
		return
	}
	design, err := s.store.Get(r.Context(), id)
	if err == store.ErrNotFound {
		writeError(w, errors.New(errors.ErrCodeDesignNotFound, "design %s not found", id))
		return
	}
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "get design"))
		return
	}
	writeJSON(w, http.StatusOK, design)
}

func (s *Server) handleDeleteDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := designID(w, r)
	if !ok {
		return
	}
	err := s.store.Delete(r.Context(), id)
	if err == store.ErrNotFound {
		writeError(w, errors.New(errors.ErrCodeDesignNotFound, "design %s not found", id))
		return
	}
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "delete design"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decodeComposeRequest(w http.ResponseWriter, r *http.Request) (composeRequest, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxManifestBytes))
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "read body: %v", err))
		return composeRequest{}, false
	}
	defer r.Body.Close()

	var req composeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "decode request: %v", err))
		return composeRequest{}, false
	}
	if len(req.Manifest) == 0 && req.ManifestText == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidManifest, "manifest is required"))
		return composeRequest{}, false
	}
	return req, true
}

func designID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "malformed design id"))
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses and writes a JSON body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidManifest, errors.ErrCodeInvalidRegion,
		errors.ErrCodeInvalidPattern, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidRule:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeKindNotFound,
		errors.ErrCodePatternNotFound, errors.ErrCodeDesignNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeResolutionLimit:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

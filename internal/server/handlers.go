package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/blockrender/pkg/block"
	"github.com/matzehuels/blockrender/pkg/buildinfo"
	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/pipeline"
	"github.com/matzehuels/blockrender/pkg/render/block/layout"
	"github.com/matzehuels/blockrender/pkg/storage"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// requestWorkspace names workspaces built from a request body.
const requestWorkspace = "request"

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ws, err := s.readWorkspace(w, r, requestWorkspace)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ls, hit, err := s.cfg.Runner.LayoutWithCacheInfo(r.Context(), ws, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := layout.Marshal(ls)
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "encode layouts"))
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ws, err := s.readWorkspace(w, r, requestWorkspace)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, ws, opts)
}

func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	names, err := s.cfg.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"workspaces": names})
}

func (s *Server) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	name, err := workspaceName(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	unlock := s.locks.lock(name)
	data, ok, err := s.cfg.Store.Get(r.Context(), name)
	unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		s.writeError(w, r, errs.New(errs.ErrCodeWorkspaceNotFound, "workspace %q not found", name))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// handlePutWorkspace accepts a state document or a single block tree,
// restores it into a fresh workspace to validate it, and stores the
// re-saved state.
func (s *Server) handlePutWorkspace(w http.ResponseWriter, r *http.Request) {
	name, err := workspaceName(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ws, err := s.readWorkspace(w, r, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	unlock := s.locks.lock(name)
	_, existed, err := s.cfg.Store.Get(r.Context(), name)
	if err == nil {
		err = storage.SaveWorkspace(r.Context(), s.cfg.Store, s.cfg.Registry(), ws)
	}
	unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if !existed {
		status = http.StatusCreated
	}
	writeJSON(w, status, summarize(ws))
}

func (s *Server) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	name, err := workspaceName(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	unlock := s.locks.lock(name)
	_, ok, err := s.cfg.Store.Get(r.Context(), name)
	if err == nil && !ok {
		err = errs.New(errs.ErrCodeWorkspaceNotFound, "workspace %q not found", name)
	}
	if err == nil {
		err = s.cfg.Store.Delete(r.Context(), name)
	}
	unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderWorkspace(w http.ResponseWriter, r *http.Request) {
	name, err := workspaceName(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	unlock := s.locks.lock(name)
	ws, err := storage.LoadWorkspace(r.Context(), s.cfg.Store, s.cfg.Registry(), name)
	unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, ws, opts)
}

// render runs the pipeline for exactly one output format.
func (s *Server) render(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace, opts pipeline.Options) {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}
	if len(opts.Formats) > 1 {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "one format per request, got %d", len(opts.Formats)))
		return
	}
	format := opts.Formats[0]

	res, err := s.cfg.Runner.Execute(r.Context(), ws, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.RenderHit))
	w.Header().Set("X-Block-Count", strconv.Itoa(res.Stats.BlockCount))
	_, _ = w.Write(res.Artifacts[format])
}

// readWorkspace decodes the request body into a workspace called name.
func (s *Server) readWorkspace(w http.ResponseWriter, r *http.Request, name string) (*workspace.Workspace, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "empty request body")
	}
	return pipeline.LoadBytes(data, bodyFormat(r), name, s.cfg.Registry())
}

func bodyFormat(r *http.Request) block.Format {
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return block.FormatYAML
	}
	return block.FormatJSON
}

func workspaceName(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if err := errs.ValidateWorkspaceName(name); err != nil {
		return "", err
	}
	return name, nil
}

// optionsFromQuery reads pipeline options from the query string. Values are
// checked by the pipeline itself.
func optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Renderer: q.Get("renderer"),
		Theme:    q.Get("theme"),
	}
	for _, v := range q["format"] {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				opts.Formats = append(opts.Formats, f)
			}
		}
	}

	var err error
	if opts.ShowConnections, err = boolParam(q.Get("connections")); err != nil {
		return opts, err
	}
	if opts.Detailed, err = boolParam(q.Get("detailed")); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q.Get("refresh")); err != nil {
		return opts, err
	}
	if opts.Padding, err = floatParam("padding", q.Get("padding")); err != nil {
		return opts, err
	}
	if opts.Scale, err = floatParam("scale", q.Get("scale")); err != nil {
		return opts, err
	}
	return opts, nil
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errs.New(errs.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

func floatParam(name, v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidInput, "invalid %s %q", name, v)
	}
	return f, nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

type workspaceSummary struct {
	Name      string `json:"name"`
	Stacks    int    `json:"stacks"`
	Blocks    int    `json:"blocks"`
	Variables int    `json:"variables"`
}

func summarize(ws *workspace.Workspace) workspaceSummary {
	return workspaceSummary{
		Name:      ws.Name,
		Stacks:    len(ws.Blocks),
		Blocks:    ws.BlockCount(),
		Variables: len(ws.Variables),
	}
}

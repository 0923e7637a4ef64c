package server

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/serialization"
	"github.com/matzehuels/blockrender/pkg/storage"
)

const printBlock = `{
  "type": "text_print",
  "previous": true,
  "next": true,
  "inputs": [
    {"name": "TEXT", "kind": "value", "fields": [{"text": "print"}],
     "child": {"type": "text", "inputs": [{"name": "", "kind": "dummy", "fields": [{"name": "TEXT", "text": "hello"}]}]}}
  ]
}`

func newTestServer(t *testing.T) (*httptest.Server, storage.Store) {
	t.Helper()
	st, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(Config{Store: st, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func do(t *testing.T, method, url, contentType, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New() without store should fail")
	}
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestLayout(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := do(t, http.MethodPost, ts.URL+"/v1/layout", "application/json", printBlock)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q", got)
	}

	var ls []struct {
		Type   string  `json:"type"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.Unmarshal(body, &ls); err != nil {
		t.Fatalf("decode layouts: %v\n%s", err, body)
	}
	if len(ls) != 2 || ls[0].Type != "text_print" || ls[1].Type != "text" {
		t.Fatalf("layouts = %+v", ls)
	}
	for _, l := range ls {
		if l.Width <= 0 || l.Height <= 0 {
			t.Errorf("layout %s has no size: %+v", l.Type, l)
		}
	}
}

func TestLayoutAcceptsYAML(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := do(t, http.MethodPost, ts.URL+"/v1/layout", "application/yaml", "type: text_print\nprevious: true\n")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
}

func TestRenderFormats(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/v1/render?format=svg&theme=zelos&connections=true", "application/json", printBlock)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("svg status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	dec := xml.NewDecoder(strings.NewReader(string(body)))
	for {
		if _, err := dec.Token(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("svg not well-formed: %v", err)
		}
	}
	if resp.Header.Get("X-Block-Count") != "2" {
		t.Errorf("X-Block-Count = %q", resp.Header.Get("X-Block-Count"))
	}

	resp, body = do(t, http.MethodPost, ts.URL+"/v1/render?format=json&renderer=zelos", "application/json", printBlock)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("json status = %d: %s", resp.StatusCode, body)
	}
	var doc struct {
		Renderer string `json:"renderer"`
		Theme    string `json:"theme"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Renderer != "zelos" || doc.Theme != "classic" {
		t.Errorf("json doc = %+v", doc)
	}

	resp, body = do(t, http.MethodPost, ts.URL+"/v1/render?format=dot", "application/json", printBlock)
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(string(body), "digraph") {
		t.Errorf("dot: %d %s", resp.StatusCode, body)
	}
}

func TestRenderErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   errs.Code
	}{
		{"empty body", "", "", http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"malformed json", "", "{", http.StatusBadRequest, errs.ErrCodeInvalidFormat},
		{"bad format", "?format=gif", printBlock, http.StatusBadRequest, errs.ErrCodeInvalidFormat},
		{"two formats", "?format=svg,json", printBlock, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad renderer", "?renderer=thrasos", printBlock, http.StatusBadRequest, errs.ErrCodeConfiguration},
		{"bad theme", "?theme=neon", printBlock, http.StatusBadRequest, errs.ErrCodeInvalidStyle},
		{"bad bool", "?connections=maybe", printBlock, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad scale", "?scale=big", printBlock, http.StatusBadRequest, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+"/v1/render"+tt.query, "application/json", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			var eb errorBody
			if err := json.Unmarshal(body, &eb); err != nil {
				t.Fatalf("error body: %v\n%s", err, body)
			}
			if eb.Code != tt.code || eb.Error == "" {
				t.Errorf("error body = %+v, want code %s", eb, tt.code)
			}
		})
	}
}

func TestWorkspaceLifecycle(t *testing.T) {
	ts, st := newTestServer(t)
	url := ts.URL + "/v1/workspaces/demo"

	resp, body := do(t, http.MethodGet, url, "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get missing: %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodPut, url, "application/json", printBlock)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("put: %d %s", resp.StatusCode, body)
	}
	var sum workspaceSummary
	if err := json.Unmarshal(body, &sum); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(workspaceSummary{Name: "demo", Stacks: 1, Blocks: 2}, sum); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	resp, body = do(t, http.MethodGet, url, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: %d %s", resp.StatusCode, body)
	}
	state, err := serialization.ParseState(body)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := state[serialization.BlocksID]; !ok {
		t.Errorf("stored state ids = %v", state.IDs())
	}

	// Re-putting the stored state replaces it.
	resp, _ = do(t, http.MethodPut, url, "application/json", string(body))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("re-put status = %d", resp.StatusCode)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/v1/workspaces", "", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"demo"`) {
		t.Errorf("list: %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodGet, url+"/render?format=svg", "", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<svg") {
		t.Errorf("render stored: %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, http.MethodDelete, url, "", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	if _, ok, _ := st.Get(t.Context(), "demo"); ok {
		t.Error("workspace still stored after delete")
	}
	resp, _ = do(t, http.MethodDelete, url, "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d", resp.StatusCode)
	}
}

func TestWorkspaceListEmpty(t *testing.T) {
	ts, _ := newTestServer(t)
	_, body := do(t, http.MethodGet, ts.URL+"/v1/workspaces", "", "")
	if strings.TrimSpace(string(body)) != `{"workspaces":[]}` {
		t.Errorf("body = %s", body)
	}
}

func TestWorkspaceRejectsInvalidState(t *testing.T) {
	ts, st := newTestServer(t)
	resp, body := do(t, http.MethodPut, ts.URL+"/v1/workspaces/broken", "application/json", `{"blocks": {"blocks": [{"id": "x"}]}}`)
	if resp.StatusCode < 400 || resp.StatusCode >= 500 {
		t.Errorf("status = %d: %s", resp.StatusCode, body)
	}
	if _, ok, _ := st.Get(t.Context(), "broken"); ok {
		t.Error("invalid state was stored")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errs.Code
		want int
	}{
		{errs.ErrCodeInvalidInput, http.StatusBadRequest},
		{errs.ErrCodeConfiguration, http.StatusBadRequest},
		{errs.ErrCodeContractViolation, http.StatusUnprocessableEntity},
		{errs.ErrCodeWorkspaceNotFound, http.StatusNotFound},
		{errs.ErrCodeDuplicateID, http.StatusConflict},
		{errs.ErrCodeUnsupported, http.StatusNotImplemented},
		{errs.ErrCodeStorage, http.StatusServiceUnavailable},
		{errs.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(errs.New(tt.code, "x")); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
	if got := statusFor(io.ErrUnexpectedEOF); got != http.StatusInternalServerError {
		t.Errorf("statusFor(plain) = %d", got)
	}
}

func TestNameLocksRelease(t *testing.T) {
	l := newNameLocks()
	var wg sync.WaitGroup
	counter := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock("ws")
			counter++
			unlock()
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Errorf("counter = %d", counter)
	}
	if n := l.len(); n != 0 {
		t.Errorf("%d locks left behind", n)
	}
}

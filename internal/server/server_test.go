package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/csheth/promptdeck/internal/catalog"
)

const testCatalog = `[
  {"category": "style", "tier": 6, "presets": [
    {"sub_category": "Noir", "prompt_value": "noir", "preview": "noir.webp"}
  ]}
]`

func newTestServer(t *testing.T, catalogJSON string) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "prompt_presets.json")
	if catalogJSON != "" {
		if err := os.WriteFile(catalogPath, []byte(catalogJSON), 0o644); err != nil {
			t.Fatalf("writing catalog fixture: %v", err)
		}
	}
	previews := filepath.Join(dir, "previews")
	if err := os.MkdirAll(previews, 0o755); err != nil {
		t.Fatalf("creating previews dir: %v", err)
	}
	return New(catalog.NewLoader(catalogPath, nil), previews, nil), previews
}

func TestDataServesCatalogJSON(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, testCatalog)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prompt_presets/data", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var categories []catalog.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &categories); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(categories) != 1 || categories[0].Presets[0].Content != "noir" {
		t.Fatalf("unexpected payload: %+v", categories)
	}
}

func TestDataServesEmptyArrayWhenCatalogUnavailable(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prompt_presets/data", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("body = %q, want empty array", got)
	}
}

func TestPreviewServesFileWithContentType(t *testing.T) {
	t.Parallel()

	srv, previews := newTestServer(t, testCatalog)
	payload := []byte("fake image bytes")
	if err := os.WriteFile(filepath.Join(previews, "noir.webp"), payload, 0o644); err != nil {
		t.Fatalf("writing preview fixture: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prompt_presets/preview/noir.webp", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/webp" {
		t.Fatalf("content type = %q, want image/webp", got)
	}
	if rec.Body.String() != string(payload) {
		t.Fatal("preview body does not match the stored file")
	}
}

func TestPreviewUnknownExtensionFallsBack(t *testing.T) {
	t.Parallel()

	srv, previews := newTestServer(t, testCatalog)
	if err := os.WriteFile(filepath.Join(previews, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("writing preview fixture: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prompt_presets/preview/notes.txt", nil))
	if got := rec.Header().Get("Content-Type"); got != "application/octet-stream" {
		t.Fatalf("content type = %q, want application/octet-stream", got)
	}
}

func TestPreviewMissingFileReturns404(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, testCatalog)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prompt_presets/preview/absent.png", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPreviewRejectsTraversal(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, testCatalog)
	for _, name := range []string{`..\secret`, "secret..png"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prompt_presets/preview/"+name, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("filename %q: status = %d, want 400", name, rec.Code)
		}
	}

	// Separators that survive URL decoding are caught by the handler guard.
	for _, name := range []string{"../secret", "a/b.png", ""} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/prompt_presets/preview/x", nil)
		req.SetPathValue("filename", name)
		srv.handlePreview(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("filename %q: status = %d, want 400", name, rec.Code)
		}
	}
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/promptdeck/internal/catalog"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the preset catalog and preview assets over HTTP so a
// node-graph front end can consume them.
type Server struct {
	loader      *catalog.Loader
	previewsDir string
	log         *zap.Logger
}

// New returns a server backed by the given catalog loader and previews
// directory.
func New(loader *catalog.Loader, previewsDir string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{loader: loader, previewsDir: previewsDir, log: log}
}

// Handler routes the catalog and preview endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /prompt_presets/data", s.handleData)
	mux.HandleFunc("GET /prompt_presets/preview/{filename...}", s.handlePreview)
	return mux
}

// handleData serves the catalog as JSON. An unavailable catalog serves an
// empty array with 200 so front ends degrade to "no presets yet" instead of
// erroring.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	cat, _ := s.loader.Get()
	categories := cat.Categories
	if categories == nil {
		categories = []catalog.Category{}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(categories); err != nil {
		s.log.Warn("catalog encode failed", zap.Error(err))
	}
}

var previewContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if filename == "" || strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	data, err := os.ReadFile(filepath.Join(s.previewsDir, filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, "Preview not found", http.StatusNotFound)
			return
		}
		s.log.Warn("preview read failed", zap.String("file", filename), zap.Error(err))
		http.Error(w, "Error reading file", http.StatusInternalServerError)
		return
	}

	contentType := previewContentTypes[strings.ToLower(filepath.Ext(filename))]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(data); err != nil {
		s.log.Warn("preview write failed", zap.String("file", filename), zap.Error(err))
	}
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("serving preset catalog", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

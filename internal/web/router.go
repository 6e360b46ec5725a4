package web

import (
	"context"
	"net/http"
	"time"

	"github.com/erazemk/ornate/internal/collection"
	webembed "github.com/erazemk/ornate/web"
)

// Uploader stores photos out-of-band and returns their URL.
type Uploader interface {
	UploadImage(ctx context.Context, filename string, data []byte) (string, error)
}

// NewRouter creates the page router. uploader may be nil, in which case the
// forms only accept image URLs. Every collaborator call made for a request
// is bounded by timeout.
func NewRouter(st *collection.Store, uploader Uploader, timeout time.Duration) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Store:     st,
		Uploader:  uploader,
		Templates: templates,
		Timeout:   timeout,
	}

	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.Static))))

	mux.HandleFunc("GET /{$}", s.Gallery)
	mux.HandleFunc("POST /search", s.SearchSubmit)
	mux.HandleFunc("POST /reload", s.ReloadSubmit)
	mux.HandleFunc("POST /dismiss", s.DismissSubmit)

	mux.HandleFunc("GET /items/new", s.ItemNewPage)
	mux.HandleFunc("POST /items", s.ItemCreateSubmit)
	mux.HandleFunc("GET /items/{id}/edit", s.ItemEditPage)
	mux.HandleFunc("POST /items/{id}", s.ItemUpdateSubmit)

	return mux, nil
}

// withTimeout bounds a collaborator call made on behalf of r.
func (s *Server) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.Timeout)
}

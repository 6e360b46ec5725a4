package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/ornate/internal/blob"
)

// NewRouter creates the collection service router. Uploaded photos are
// written to images; when images is a *blob.Dir it is also served under
// /images/.
func NewRouter(db *sql.DB, images blob.Store) http.Handler {
	mux := http.NewServeMux()

	collection := &CollectionHandler{DB: db}
	uploads := &ImagesHandler{Store: images}

	mux.HandleFunc("GET /health", Health)

	mux.HandleFunc("GET /collection/{$}", collection.List)
	mux.HandleFunc("POST /collection/{$}", collection.Create)
	mux.HandleFunc("GET /collection/{id}", collection.Get)
	mux.HandleFunc("PUT /collection/{id}", collection.Update)

	mux.HandleFunc("POST /upload-image", uploads.Upload)
	if dir, ok := images.(*blob.Dir); ok {
		uploads.Dir = dir
		mux.HandleFunc("GET /images/{name}", uploads.Serve)
	}

	return CORS(mux)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/erazemk/ornate/internal/model"
	"github.com/erazemk/ornate/internal/store"
)

// CollectionHandler serves the jewellery records.
type CollectionHandler struct {
	DB *sql.DB
}

// List handles GET /collection/.
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.RecordFilter{
		Category:   strings.TrimSpace(q.Get("category")),
		Occasion:   strings.TrimSpace(q.Get("occasion")),
		OutfitType: strings.TrimSpace(q.Get("outfit_type")),
		Color:      strings.TrimSpace(q.Get("color")),
		Search:     strings.TrimSpace(q.Get("search")),
	}

	records, err := store.ListRecords(r.Context(), h.DB, f)
	if err != nil {
		slog.Error("listing records", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list jewellery")
		return
	}
	if records == nil {
		records = []model.Record{}
	}
	jsonResponse(w, http.StatusOK, records)
}

// Get handles GET /collection/{id}.
func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := store.GetRecord(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("getting record", "error", err, "id", r.PathValue("id"))
		jsonError(w, http.StatusInternalServerError, "failed to get jewellery")
		return
	}
	if rec == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, rec)
}

// Create handles POST /collection/.
func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Record
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateRecord(&req); msg != "" {
		jsonError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	rec, err := store.CreateRecord(r.Context(), h.DB, &req)
	if err != nil {
		slog.Error("creating record", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create jewellery")
		return
	}
	jsonResponse(w, http.StatusCreated, rec)
}

// Update handles PUT /collection/{id}. All mutable fields are replaced.
func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req model.Record
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateRecord(&req); msg != "" {
		jsonError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	rec, err := store.UpdateRecord(r.Context(), h.DB, id, &req)
	if err != nil {
		slog.Error("updating record", "error", err, "id", id)
		jsonError(w, http.StatusInternalServerError, "failed to update jewellery")
		return
	}
	if rec == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, rec)
}

// validateRecord normalizes r in place and returns a message describing the
// first problem, or "" when the record is acceptable.
func validateRecord(r *model.Record) string {
	r.Category = strings.TrimSpace(r.Category)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		r.Name = nil
	}

	if r.Category == "" {
		return "category required"
	}
	if r.ImageURL == "" {
		return "image_url required"
	}
	u, err := url.Parse(r.ImageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "image_url must be an absolute http(s) URL"
	}
	return ""
}

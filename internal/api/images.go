package api

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/ornate/internal/blob"
	"github.com/erazemk/ornate/internal/imaging"
)

// MaxUploadSize bounds the size of an uploaded photo.
const MaxUploadSize = 5 << 20

// ImagesHandler accepts photo uploads and, for directory-backed storage,
// serves them back.
type ImagesHandler struct {
	Store blob.Store
	Dir   *blob.Dir
}

type uploadResponse struct {
	ImageURL string `json:"image_url"`
	Filename string `json:"filename"`
	Size     int    `json:"size"`
}

// Upload handles POST /upload-image.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Multipart framing needs some room beyond the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+64<<10)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	if len(data) > MaxUploadSize {
		jsonError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	photo, err := imaging.Normalize(data)
	if errors.Is(err, imaging.ErrUnsupported) {
		jsonError(w, http.StatusUnsupportedMediaType, "Uploaded file is not a valid image")
		return
	}
	if err != nil {
		slog.Error("processing upload", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to process image")
		return
	}

	name := uuid.NewString() + photo.Ext
	url, err := h.Store.Put(r.Context(), name, photo.MIME, photo.Data)
	if err != nil {
		slog.Error("storing upload", "error", err, "key", name)
		jsonError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	slog.Info("image uploaded", "key", name, "width", photo.Width, "height", photo.Height, "size", len(photo.Data))
	jsonResponse(w, http.StatusOK, uploadResponse{ImageURL: url, Filename: name, Size: len(photo.Data)})
}

// Serve handles GET /images/{name}.
func (h *ImagesHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	f, err := h.Dir.Open(name)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, blob.ErrInvalidKey) {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}
	if err != nil {
		slog.Error("opening image", "error", err, "name", name)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	defer f.Close()

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, name, time.Time{}, f)
}

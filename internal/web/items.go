package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/ornate/internal/model"
)

// maxPhotoSize bounds photos uploaded through the forms.
const maxPhotoSize = 5 << 20

// itemForm is the add/edit form state, kept as submitted so that a
// rejected submission can be shown again.
type itemForm struct {
	ID          string
	Name        string
	Category    string
	ImageURL    string
	Description string
	Color       string
	Material    string
	Occasion    string
	OutfitTypes map[string]bool
	Error       string
}

func formFromItem(it model.JewelryItem) itemForm {
	f := itemForm{
		ID:          it.ID,
		Name:        it.Name,
		Category:    it.Category.String(),
		ImageURL:    it.ImageURL,
		Description: it.Description,
		Color:       it.Color,
		Material:    it.Material,
		Occasion:    strings.Join(it.Occasion, ", "),
		OutfitTypes: make(map[string]bool, len(it.OutfitTypes)),
	}
	for _, o := range it.OutfitTypes {
		f.OutfitTypes[o.String()] = true
	}
	return f
}

// readForm parses the submitted form. The returned item carries every
// field except an uploaded photo, which is returned separately.
func readForm(r *http.Request) (itemForm, model.JewelryItem, []byte, string, error) {
	f := itemForm{OutfitTypes: map[string]bool{}}

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
			return f, model.JewelryItem{}, nil, "", fmt.Errorf("%w: invalid form", model.ErrInvalidRecord)
		}
	} else if err := r.ParseForm(); err != nil {
		return f, model.JewelryItem{}, nil, "", fmt.Errorf("%w: invalid form", model.ErrInvalidRecord)
	}

	f.Name = strings.TrimSpace(r.FormValue("name"))
	f.Category = r.FormValue("category")
	f.ImageURL = strings.TrimSpace(r.FormValue("image_url"))
	f.Description = strings.TrimSpace(r.FormValue("description"))
	f.Color = strings.TrimSpace(r.FormValue("color"))
	f.Material = strings.TrimSpace(r.FormValue("material"))
	f.Occasion = r.FormValue("occasion")
	for _, o := range r.Form["outfit_type"] {
		f.OutfitTypes[o] = true
	}

	it := model.JewelryItem{
		Name:        f.Name,
		ImageURL:    f.ImageURL,
		Description: f.Description,
		Color:       f.Color,
		Material:    f.Material,
		Occasion:    model.ParseOccasion(f.Occasion),
	}

	var err error
	if it.Category, err = model.ParseCategory(f.Category); err != nil {
		return f, it, nil, "", fmt.Errorf("%w: choose a category", model.ErrInvalidRecord)
	}
	if it.OutfitTypes, err = model.ParseOutfitTypes(r.Form["outfit_type"]); err != nil {
		return f, it, nil, "", fmt.Errorf("%w: %v", model.ErrInvalidRecord, err)
	}
	if err := it.Validate(); err != nil {
		return f, it, nil, "", err
	}

	var photo []byte
	var filename string
	if r.MultipartForm != nil {
		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			photo, err = io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
			if err != nil {
				return f, it, nil, "", fmt.Errorf("reading photo: %w", err)
			}
			if len(photo) > maxPhotoSize {
				return f, it, nil, "", fmt.Errorf("%w: photo larger than 5 MB", model.ErrValidationRejected)
			}
			filename = header.Filename
		}
	}
	return f, it, photo, filename, nil
}

// resolveImage uploads photo when one was submitted and otherwise falls
// back to the submitted URL, then to fallback.
func (s *Server) resolveImage(r *http.Request, it *model.JewelryItem, photo []byte, filename, fallback string) error {
	if len(photo) > 0 {
		if s.Uploader == nil {
			return fmt.Errorf("%w: photo uploads are not available, use an image URL", model.ErrUnsupportedMediaType)
		}
		ctx, cancel := s.withTimeout(r)
		defer cancel()
		url, err := s.Uploader.UploadImage(ctx, filename, photo)
		if err != nil {
			return err
		}
		it.ImageURL = url
		return nil
	}
	if it.ImageURL == "" {
		it.ImageURL = fallback
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, model.ErrValidationRejected):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) renderForm(w http.ResponseWriter, status int, title string, f itemForm) {
	st := s.Store.Snapshot()
	s.Templates.Render(w, status, "item_form.html", &struct {
		PageData
		Form      itemForm
		CanUpload bool
	}{
		PageData:  pageData(title, st),
		Form:      f,
		CanUpload: s.Uploader != nil,
	})
}

// ItemNewPage handles GET /items/new.
func (s *Server) ItemNewPage(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, http.StatusOK, "Add Jewelry", itemForm{OutfitTypes: map[string]bool{}})
}

// ItemCreateSubmit handles POST /items. Invalid submissions are rejected
// before any collaborator call, including the photo upload.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	f, it, photo, filename, err := readForm(r)
	if err == nil {
		err = s.resolveImage(r, &it, photo, filename, model.PlaceholderImageURL)
	}
	if err != nil {
		f.Error = model.UserMessage(err)
		s.renderForm(w, statusFor(err), "Add Jewelry", f)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	created, err := s.Store.AddItem(ctx, it)
	if err != nil {
		f.Error = model.UserMessage(err)
		s.renderForm(w, statusFor(err), "Add Jewelry", f)
		return
	}

	slog.Info("item added", "id", created.ID, "name", created.Name)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ItemEditPage handles GET /items/{id}/edit.
func (s *Server) ItemEditPage(w http.ResponseWriter, r *http.Request) {
	it, ok := s.Store.Get(r.PathValue("id"))
	if !ok {
		s.notFound(w)
		return
	}
	s.renderForm(w, http.StatusOK, "Edit "+it.Name, formFromItem(it))
}

// ItemUpdateSubmit handles POST /items/{id}.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	current, ok := s.Store.Get(id)
	if !ok {
		s.notFound(w)
		return
	}

	f, it, photo, filename, err := readForm(r)
	f.ID = id
	if err == nil {
		err = s.resolveImage(r, &it, photo, filename, current.ImageURL)
	}
	if err != nil {
		f.Error = model.UserMessage(err)
		s.renderForm(w, statusFor(err), "Edit "+current.Name, f)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	updated, err := s.Store.EditItem(ctx, id, it)
	if err != nil {
		f.Error = model.UserMessage(err)
		s.renderForm(w, statusFor(err), "Edit "+current.Name, f)
		return
	}

	slog.Info("item updated", "id", updated.ID, "name", updated.Name)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) notFound(w http.ResponseWriter) {
	s.Templates.Render(w, http.StatusNotFound, "not_found.html", &struct{ PageData }{
		PageData: pageData("Not Found", s.Store.Snapshot()),
	})
}

package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/erazemk/ornate/internal/model"
)

// Gallery handles GET /.
func (s *Server) Gallery(w http.ResponseWriter, r *http.Request) {
	st := s.Store.Snapshot()

	heading := fmt.Sprintf("All Jewelry (%d)", len(st.Items))
	if !st.Filters.IsZero() {
		heading = fmt.Sprintf("Search Results (%d of %d)", len(st.View), len(st.Items))
	}

	s.Templates.Render(w, http.StatusOK, "gallery.html", &struct {
		PageData
		Heading string
		Items   []model.JewelryItem
		Filters model.SearchFilters
	}{
		PageData: pageData("Ornate", st),
		Heading:  heading,
		Items:    st.View,
		Filters:  st.Filters,
	})
}

// SearchSubmit handles POST /search. Unknown category or outfit type
// values are treated as no constraint.
func (s *Server) SearchSubmit(w http.ResponseWriter, r *http.Request) {
	var f model.SearchFilters
	if c, err := model.ParseCategory(r.FormValue("category")); err == nil {
		f.Category = c
	}
	if o, err := model.ParseOutfitType(r.FormValue("outfit_type")); err == nil {
		f.OutfitType = o
	}
	f.SearchQuery = strings.TrimSpace(r.FormValue("q"))

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	// Failures are surfaced through the store's banner.
	_ = s.Store.ApplyFilters(ctx, f)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ReloadSubmit handles POST /reload.
func (s *Server) ReloadSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.withTimeout(r)
	defer cancel()
	_ = s.Store.Load(ctx)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DismissSubmit handles POST /dismiss.
func (s *Server) DismissSubmit(w http.ResponseWriter, r *http.Request) {
	s.Store.DismissError()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

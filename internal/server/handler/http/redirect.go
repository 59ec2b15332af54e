package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/frus/internal/client/view"
	"github.com/atinyakov/frus/internal/models"
)

// Visit resolves the short code in the path and redirects to its long URL.
// An empty code bounces to the home page; an unresolvable one renders the
// error page with the matching header.
func (h *Handler) Visit(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	st, rec := h.session(w, r)
	_ = st.Run(r.Context(), h.Creators.GetRouteToRedirect(code))

	vd := st.GetState().URLs.VisitDetails
	switch vd.Phase {
	case models.PhaseResolved:
		h.observeRedirect("resolved")
	case models.PhaseFailed:
		h.observeRedirect("failed")
	default:
		h.observeRedirect("bounced")
	}

	if follow(w, r, rec) {
		return
	}

	p := pageFrom(st.GetState())
	p.Header = view.ErrorHeader(vd.ErrorMessage)
	h.render(w, visitStatus(p.Header), p)
}

func visitStatus(header string) int {
	switch header {
	case view.HeaderNoMatch:
		return http.StatusNotFound
	case view.HeaderDeleted, view.HeaderDeactivated:
		return http.StatusGone
	}
	return http.StatusBadRequest
}

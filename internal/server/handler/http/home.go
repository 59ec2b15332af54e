package http

import (
	"net/http"
)

// Home renders the panels and the shorten form.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	st, _ := h.session(w, r)
	_ = st.Run(r.Context(), h.Creators.LoadUserDetails())
	h.loadHome(r, st)

	p := pageFrom(st.GetState())
	p.ShowHome = true
	h.render(w, http.StatusOK, p)
}

// Shorten handles the shorten form and renders the home page with the result.
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	st, _ := h.session(w, r)
	_ = st.Run(r.Context(), h.Creators.ShortenURL(r.PostForm.Get("long_url"), r.PostForm.Get("vanity")))
	h.loadHome(r, st)

	p := pageFrom(st.GetState())
	p.ShowHome = true
	status := http.StatusOK
	if p.Shorten.StatusText != "" {
		status = http.StatusBadRequest
	}
	h.render(w, status, p)
}

// About renders the logged in user's page.
func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	st, _ := h.session(w, r)
	if st.GetState().Auth.Token == "" {
		http.Redirect(w, r, "/main/", http.StatusFound)
		return
	}
	_ = st.Run(r.Context(), h.Creators.LoadUserDetails())
	h.render(w, http.StatusOK, pageFrom(st.GetState()))
}

package http

import (
	"net/http"

	"github.com/atinyakov/frus/internal/client/store"
	"github.com/atinyakov/frus/internal/client/validate"
)

// Login handles the login form. On success the token cookie is set and the
// browser goes to the about page; otherwise the home page shows why.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	st, rec := h.session(w, r)
	err := st.Run(r.Context(), h.Creators.LoginUser(r.PostForm.Get("email"), r.PostForm.Get("password")))
	if follow(w, r, rec) {
		return
	}
	h.authFailed(w, r, st, err)
}

// Register handles the registration form.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := validate.RegisterForm{
		FirstName:       r.PostForm.Get("first_name"),
		LastName:        r.PostForm.Get("last_name"),
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	}
	st, rec := h.session(w, r)
	err := st.Run(r.Context(), h.Creators.RegisterUser(form))
	if follow(w, r, rec) {
		return
	}
	h.authFailed(w, r, st, err)
}

// Logout clears the token cookie and goes to the root.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	st, rec := h.session(w, r)
	_ = st.Run(r.Context(), h.Creators.LogoutAndRedirect())
	follow(w, r, rec)
}

func (h *Handler) authFailed(w http.ResponseWriter, r *http.Request, st *store.Store, err error) {
	h.loadHome(r, st)
	p := pageFrom(st.GetState())
	p.ShowHome = true
	status := http.StatusUnauthorized
	if msg, ok := formError(err); ok {
		p.FormError = msg
		status = http.StatusBadRequest
	}
	h.render(w, status, p)
}

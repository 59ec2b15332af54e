package http

import (
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/frus/internal/client/store"
	"github.com/atinyakov/frus/internal/client/validate"
	"github.com/atinyakov/frus/internal/client/view"
	"github.com/atinyakov/frus/internal/models"
)

type page struct {
	Auth    view.AuthModel
	Home    view.HomeModel
	Shorten view.ShortenModel
	// Header is the redirect error header; set only on the redirect page.
	Header string
	// FormError is a form validation message.
	FormError string
	ShowHome  bool
}

func pageFrom(s *models.State) page {
	return page{
		Auth:    view.SelectAuth(s),
		Home:    view.SelectHome(s),
		Shorten: view.SelectShorten(s),
	}
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>FRUS</title></head>
<body>
<nav>
{{- if .Auth.IsAuthenticated}}
<span class="user">{{if .Auth.UserName}}{{.Auth.UserName}}{{else}}Logged in{{end}}</span>
<form method="post" action="/logout"><button>Logout</button></form>
{{- else}}
<form method="post" action="/login">
<input name="email" placeholder="Email"><input name="password" type="password" placeholder="Password">
<button>Login</button>
</form>
{{- end}}
</nav>
{{- with .Auth.StatusText}}
<p class="auth-status">{{.}}</p>
{{- end}}
{{- with .FormError}}
<p class="form-error">{{.}}</p>
{{- end}}
{{- with .Header}}
<h1 class="error-header">{{.}}</h1>
<p><a href="/main/">Back to FRUS</a></p>
{{- end}}
{{- if .ShowHome}}
<form method="post" action="/main/shorten">
<input name="long_url" placeholder="Paste a long URL">
{{- if .Auth.IsAuthenticated}}<input name="vanity" placeholder="Custom alias">{{end}}
<button>Shorten</button>
</form>
{{- with .Shorten.StatusText}}
<p class="shorten-status">{{.}}</p>
{{- end}}
{{- if .Shorten.Shortened}}
<p class="short-url">{{.Shorten.ShortURL}}</p>
{{- with .Shorten.Info}}<p class="shorten-info">{{.}}</p>{{end}}
{{- end}}
<section class="popular"><h2>Popular URLs</h2><ul>
{{- range .Home.Popular}}<li>{{.ShortURL}}</li>{{end}}
</ul></section>
<section class="recent"><h2>Most recent URLs</h2><ul>
{{- range .Home.Recent}}<li>{{.ShortURL}}</li>{{end}}
</ul></section>
<section class="influential"><h2>Influential users</h2><ol>
{{- range .Home.Influential}}<li>{{.FullName}}</li>{{end}}
</ol></section>
{{- end}}
</body>
</html>
`))

func (h *Handler) render(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, p); err != nil {
		h.logger().Error("failed to render page", zap.Error(err))
	}
}

// formError extracts the message of a rejected form.
func formError(err error) (string, bool) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return verr.Text, true
	}
	return "", false
}

// loadHome fills the home panels. The influential users panel is left empty
// when the backend cannot serve it.
func (h *Handler) loadHome(r *http.Request, st *store.Store) {
	if err := st.Run(r.Context(), h.Creators.LoadHomePage()); err != nil {
		h.logger().Warn("home page partially loaded", zap.Error(err))
	}
}

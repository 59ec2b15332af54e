package view

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/atinyakov/frus/internal/models"
)

// HomeModel is what the home page shows.
type HomeModel struct {
	Popular     []models.URLSummary
	Recent      []models.URLSummary
	Influential []models.UserSummary
}

// SelectHome picks the home page panels.
func SelectHome(s *models.State) HomeModel {
	return HomeModel{
		Popular:     s.URLs.PopularURLs,
		Recent:      s.URLs.MostRecentURLs,
		Influential: s.Users.InfluentialUsers,
	}
}

// EqualHome compares panels by content.
func EqualHome(a, b HomeModel) bool {
	return slices.Equal(a.Popular, b.Popular) &&
		slices.Equal(a.Recent, b.Recent) &&
		slices.Equal(a.Influential, b.Influential)
}

// ShortenModel is the shorten form feedback.
type ShortenModel struct {
	ShortURL   string
	Shortened  bool
	StatusText string
	Info       string
}

// SelectShorten picks the shorten form feedback. StatusText is set only
// while the form displays it.
func SelectShorten(s *models.State) ShortenModel {
	m := ShortenModel{
		ShortURL:  s.URLs.ShortURL,
		Shortened: s.URLs.Shortened,
		Info:      s.URLs.ShortenInfo,
	}
	if s.URLs.DisplayStatusText {
		m.StatusText = s.URLs.ShortenStatusText
	}
	return m
}

// AuthModel is the navigation bar state.
type AuthModel struct {
	IsAuthenticating bool
	IsAuthenticated  bool
	StatusText       string
	UserName         string
}

// SelectAuth picks the navigation bar state. The token is left out.
func SelectAuth(s *models.State) AuthModel {
	return AuthModel{
		IsAuthenticating: s.Auth.IsAuthenticating,
		IsAuthenticated:  s.Auth.IsAuthenticated,
		StatusText:       s.Auth.StatusText,
		UserName:         s.Auth.UserName,
	}
}

// SelectVisit picks the redirect page state.
func SelectVisit(s *models.State) models.VisitDetails {
	return s.URLs.VisitDetails
}

// RenderHome writes the three home panels.
func RenderHome(w io.Writer, m HomeModel) {
	fmt.Fprintln(w, "Popular URLs")
	renderURLs(w, m.Popular)
	fmt.Fprintln(w, "Most recent URLs")
	renderURLs(w, m.Recent)
	fmt.Fprintln(w, "Influential users")
	if len(m.Influential) == 0 {
		fmt.Fprintln(w, "  -")
	}
	for i, u := range m.Influential {
		fmt.Fprintf(w, "  %d. %s", i+1, u.FullName())
		if u.Visits > 0 {
			fmt.Fprintf(w, " (%d visits)", u.Visits)
		}
		fmt.Fprintln(w)
	}
}

func renderURLs(w io.Writer, urls []models.URLSummary) {
	if len(urls) == 0 {
		fmt.Fprintln(w, "  -")
	}
	for _, u := range urls {
		fmt.Fprintf(w, "  %s\n", u.ShortURL)
	}
}

// RenderShorten writes the shorten form feedback.
func RenderShorten(w io.Writer, m ShortenModel) {
	switch {
	case m.StatusText != "":
		fmt.Fprintln(w, m.StatusText)
	case m.Shortened:
		fmt.Fprintf(w, "Short URL: %s\n", m.ShortURL)
		if m.Info != "" {
			fmt.Fprintln(w, m.Info)
		}
	}
}

// RenderAuth writes the navigation bar.
func RenderAuth(w io.Writer, m AuthModel) {
	switch {
	case m.IsAuthenticating:
		fmt.Fprintln(w, "Signing in...")
	case m.IsAuthenticated && m.UserName != "":
		fmt.Fprintf(w, "Logged in as %s\n", m.UserName)
	case m.IsAuthenticated:
		fmt.Fprintln(w, "Logged in")
	}
	if m.StatusText != "" {
		fmt.Fprintln(w, m.StatusText)
	}
}

// RenderVisit writes the redirect page: nothing while resolving, the
// target once resolved, the error header otherwise.
func RenderVisit(w io.Writer, vd models.VisitDetails) {
	switch vd.Phase {
	case models.PhaseResolved:
		fmt.Fprintf(w, "Redirecting to %s\n", vd.Route)
	case models.PhaseFailed:
		if h := ErrorHeader(vd.ErrorMessage); h != "" {
			fmt.Fprintln(w, h)
			fmt.Fprintln(w, strings.Repeat("=", len(h)))
		}
	}
}

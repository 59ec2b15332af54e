package reducer

import (
	"slices"

	"github.com/atinyakov/frus/internal/client/action"
	"github.com/atinyakov/frus/internal/models"
)

// URLs reduces the urls slice.
func URLs(s models.URLsState, a action.Action) (models.URLsState, bool) {
	switch a := a.(type) {
	case action.ShortenLongURLRequest:
		s.ShortURL = ""
		s.Shortened = false
		s.DisplayStatusText = false
		s.ShortenStatusText = ""
		s.ShortenInfo = ""
	case action.ShortenLongURLSuccess:
		s = shortened(s, a.ShortURL, "")
	case action.ShortenLongURLUserSuccess:
		info := ""
		if a.Info != nil {
			info = *a.Info
		}
		s = shortened(s, a.ShortURL, info)
	case action.ShortenLongURLFailure:
		s = shortenFailed(s, a.StatusText)
	case action.ShortenLongURLUserFailure:
		s = shortenFailed(s, a.StatusText)
	case action.LoadPopularURLSuccess:
		s.PopularURLs = slices.Clone(a.URLs)
	case action.LoadMostRecentURLSuccess:
		s.MostRecentURLs = slices.Clone(a.URLs)
	case action.GetRouteToRedirectRequest:
		s.VisitDetails = models.VisitDetails{Phase: models.PhaseResolving}
	case action.GetRouteToRedirectSuccess:
		s.VisitDetails = models.VisitDetails{Phase: models.PhaseResolved, Route: a.LongURL}
	case action.GetRouteToRedirectFailure:
		s.VisitDetails = models.VisitDetails{Phase: models.PhaseFailed, ErrorMessage: a.Message}
	case action.UpdateState:
		if a.Patch.Empty() {
			return s, false
		}
		s = merge(s, a.Patch)
	default:
		return s, false
	}
	return s, true
}

func shortened(s models.URLsState, shortURL, info string) models.URLsState {
	s.ShortURL = shortURL
	s.Shortened = shortURL != ""
	s.DisplayStatusText = false
	s.ShortenStatusText = ""
	s.ShortenInfo = info
	return s
}

func shortenFailed(s models.URLsState, text string) models.URLsState {
	s.ShortURL = ""
	s.Shortened = false
	s.DisplayStatusText = true
	s.ShortenStatusText = text
	s.ShortenInfo = ""
	return s
}

func merge(s models.URLsState, p action.URLsPatch) models.URLsState {
	if p.LongURL != nil {
		s.LongURL = *p.LongURL
	}
	if p.ShortURL != nil {
		s.ShortURL = *p.ShortURL
	}
	if p.Shortened != nil {
		s.Shortened = *p.Shortened
	}
	if p.DisplayStatusText != nil {
		s.DisplayStatusText = *p.DisplayStatusText
	}
	if p.ShortenStatusText != nil {
		s.ShortenStatusText = *p.ShortenStatusText
	}
	s.Shortened = s.Shortened && s.ShortURL != ""
	return s
}

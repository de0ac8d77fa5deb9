package web

import (
	"net/http"

	"kitbox/internal/application/projections"
)

// handlePaperdoll handles GET /paperdoll
func (a *app) handlePaperdoll(w http.ResponseWriter, r *http.Request) {
	upstream := a.upstream(r)
	doll, err := projections.QueryPaperdoll(r.Context(), projections.GetPaperdollDeps{
		Gear:      upstream,
		Locations: upstream,
		Slots:     a.slots,
	})
	if err != nil {
		if redirectIfUnauthorized(w, r, err) {
			return
		}
		a.renderTemplate(w, r, "paperdoll.html", map[string]any{
			"LoadFailed": true,
			"Error":      bannerMessage("Failed to load paperdoll data", err),
		})
		return
	}

	a.renderTemplate(w, r, "paperdoll.html", map[string]any{
		"Doll": doll,
	})
}

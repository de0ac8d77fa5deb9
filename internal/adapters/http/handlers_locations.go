package web

import (
	"net/http"
	"strconv"

	"kitbox/internal/application/orchestrators"
	"kitbox/internal/application/projections"
	"kitbox/internal/application/views"
	"kitbox/internal/domain/location"
)

const modalLocationDelete = "location_delete"

func locationForm(r *http.Request) location.Form {
	return location.Form{
		Name:     r.PostFormValue("name"),
		Type:     r.PostFormValue("type"),
		ParentID: r.PostFormValue("parent_id"),
	}
}

func locationAction(id int64) string {
	return "/locations/" + strconv.FormatInt(id, 10)
}

// renderLocations lists every location next to the create or edit form.
// extra may carry Form, FormAction, FormTitle, Modal and Error.
func (a *app) renderLocations(w http.ResponseWriter, r *http.Request, extra map[string]any) {
	res, err := projections.QueryLocations(r.Context(), a.upstream(r))
	if redirectIfUnauthorized(w, r, err) {
		return
	}

	var banner, loadBanner string
	if msg, ok := extra["Error"].(string); ok {
		banner = msg
	}
	if err != nil {
		loadBanner = bannerMessage("Failed to load locations", err)
	}

	form := location.Form{Type: location.TypeGeneric}
	if f, ok := extra["Form"].(location.Form); ok {
		form = f
	}

	data := map[string]any{
		"Modal":         "",
		"Editing":       false,
		"Rows":          res.Rows,
		"Types":         location.ValidTypes,
		"FormTitle":     "Add Location",
		"FormAction":    "/locations",
		"Form":          form,
		"ParentOptions": views.BuildLocationOptions(res.Locations, form.ParentID),
	}
	for k, v := range extra {
		data[k] = v
	}
	data["Form"] = form
	data["Error"] = joinBanners(banner, loadBanner)

	a.renderTemplate(w, r, "locations.html", data)
}

// handleLocations handles GET /locations
func (a *app) handleLocations(w http.ResponseWriter, r *http.Request) {
	a.renderLocations(w, r, nil)
}

// handleLocationCreate handles POST /locations
func (a *app) handleLocationCreate(w http.ResponseWriter, r *http.Request) {
	a.saveLocation(w, r, 0)
}

// handleLocationEdit handles GET /locations/{id}/edit
func (a *app) handleLocationEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	form, err := projections.QueryLocationForEdit(r.Context(), id, a.upstream(r))
	if err != nil {
		if redirectIfUnauthorized(w, r, err) {
			return
		}
		a.renderLocations(w, r, map[string]any{
			"Error": bannerMessage("Failed to load location", err),
		})
		return
	}
	a.renderLocations(w, r, map[string]any{
		"FormTitle":  "Edit Location",
		"FormAction": locationAction(id),
		"Form":       form,
		"Editing":    true,
	})
}

// handleLocationUpdate handles POST /locations/{id}
func (a *app) handleLocationUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.saveLocation(w, r, id)
}

func (a *app) saveLocation(w http.ResponseWriter, r *http.Request, id int64) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	form := locationForm(r)
	input := orchestrators.SaveLocationInput{ID: id, Form: form}
	if err := orchestrators.ExecuteSaveLocation(r.Context(), input, a.upstream(r)); err != nil {
		if redirectIfUnauthorized(w, r, err) {
			return
		}
		extra := map[string]any{
			"Form":  form,
			"Error": bannerMessage("Failed to save location", err),
		}
		if id > 0 {
			extra["FormTitle"] = "Edit Location"
			extra["FormAction"] = locationAction(id)
			extra["Editing"] = true
		}
		a.renderLocations(w, r, extra)
		return
	}
	http.Redirect(w, r, "/locations", http.StatusSeeOther)
}

// handleLocationDeleteConfirm handles GET /locations/{id}/delete
func (a *app) handleLocationDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.renderLocations(w, r, map[string]any{
		"Modal":    modalLocationDelete,
		"DeleteID": id,
	})
}

// handleLocationDelete handles POST /locations/{id}/delete. Without confirm=yes nothing is sent.
func (a *app) handleLocationDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.DeleteLocationInput{ID: id, Confirmed: confirmed(r)}
	if _, err := orchestrators.ExecuteDeleteLocation(r.Context(), input, a.upstream(r)); err != nil {
		if redirectIfUnauthorized(w, r, err) {
			return
		}
		a.renderLocations(w, r, map[string]any{
			"Error": bannerMessage("Failed to delete location", err),
		})
		return
	}
	http.Redirect(w, r, "/locations", http.StatusSeeOther)
}

package web

import (
	"net/http"
	"strconv"

	"kitbox/internal/application/listutil"
	"kitbox/internal/application/orchestrators"
	"kitbox/internal/application/projections"
	"kitbox/internal/application/views"
	"kitbox/internal/domain/gear"
)

// Master list modals
const (
	modalGearForm   = "gear_form"
	modalGearDelete = "gear_delete"
)

// gearForm reads the submitted gear fields.
func gearForm(r *http.Request) gear.Form {
	return gear.Form{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Weight:      r.PostFormValue("weight"),
		Cost:        r.PostFormValue("cost"),
		Value:       r.PostFormValue("value"),
		Legality:    r.PostFormValue("legality"),
		Category:    r.PostFormValue("category"),
		LocationID:  r.PostFormValue("location_id"),
	}
}

// renderMasterList loads the table and selector, then renders the page with any open modal in extra.
// Gear and locations load independently; each failure adds its own banner line.
func (a *app) renderMasterList(w http.ResponseWriter, r *http.Request, extra map[string]any) {
	ctx := r.Context()
	upstream := a.upstream(r)

	lp := listutil.ParseListParams(r.URL.Query(), projections.GearSortColumns, projections.GearFilterKeys)
	res := projections.QueryMasterList(ctx,
		projections.GetMasterListQuery{List: lp},
		projections.GetMasterListDeps{Gear: upstream, Locations: upstream},
	)
	if redirectIfUnauthorized(w, r, res.GearErr) || redirectIfUnauthorized(w, r, res.LocationsErr) {
		return
	}

	var banner, gearBanner, locBanner string
	if msg, ok := extra["Error"].(string); ok {
		banner = msg
	}
	if res.GearErr != nil {
		gearBanner = bannerMessage("Failed to load gear", res.GearErr)
	}
	if res.LocationsErr != nil {
		locBanner = bannerMessage("Failed to load locations", res.LocationsErr)
	}

	selected := ""
	if f, ok := extra["Form"].(gear.Form); ok {
		selected = f.LocationID
	}

	data := map[string]any{
		"Modal":           "",
		"Rows":            res.Rows,
		"List":            lp,
		"SortLinks":       sortLinks(lp),
		"Search":          lp.Search,
		"Category":        lp.Filters["category"],
		"Legality":        lp.Filters["legality"],
		"Legalities":      gear.ValidLegalities,
		"LocationOptions": views.BuildLocationOptions(res.Locations, selected),
	}
	for k, v := range extra {
		data[k] = v
	}
	data["Error"] = joinBanners(banner, gearBanner, locBanner)

	a.renderTemplate(w, r, "master_list.html", data)
}

// handleMasterList handles GET /master_list
func (a *app) handleMasterList(w http.ResponseWriter, r *http.Request) {
	a.renderMasterList(w, r, nil)
}

// handleGearNew handles GET /gear/new
func (a *app) handleGearNew(w http.ResponseWriter, r *http.Request) {
	a.renderMasterList(w, r, map[string]any{
		"Modal":      modalGearForm,
		"FormTitle":  "Add New Gear",
		"FormAction": "/gear",
		"Form":       gear.Form{},
	})
}

// handleGearCreate handles POST /gear
func (a *app) handleGearCreate(w http.ResponseWriter, r *http.Request) {
	a.saveGear(w, r, 0, "Add New Gear", "/gear")
}

// handleGearEdit handles GET /gear/{id}/edit
func (a *app) handleGearEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	form, err := projections.QueryGearForEdit(r.Context(), id, a.upstream(r))
	if err != nil {
		if redirectIfUnauthorized(w, r, err) {
			return
		}
		a.renderMasterList(w, r, map[string]any{
			"Error": bannerMessage("Failed to load gear item", err),
		})
		return
	}

	a.renderMasterList(w, r, map[string]any{
		"Modal":      modalGearForm,
		"FormTitle":  "Edit Gear",
		"FormAction": gearAction(id),
		"Form":       form,
	})
}

// handleGearUpdate handles POST /gear/{id}
func (a *app) handleGearUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.saveGear(w, r, id, "Edit Gear", gearAction(id))
}

// saveGear creates (id 0) or updates an item. Failures reopen the form with the submitted values.
func (a *app) saveGear(w http.ResponseWriter, r *http.Request, id int64, title, action string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	form := gearForm(r)
	err := orchestrators.ExecuteSaveGear(r.Context(), orchestrators.SaveGearInput{ID: id, Form: form}, a.upstream(r))
	if err != nil {
		if redirectIfUnauthorized(w, r, err) {
			return
		}
		a.renderMasterList(w, r, map[string]any{
			"Modal":      modalGearForm,
			"FormTitle":  title,
			"FormAction": action,
			"Form":       form,
			"Error":      bannerMessage("Failed to save gear", err),
		})
		return
	}
	http.Redirect(w, r, "/master_list", http.StatusSeeOther)
}

// handleGearDeleteConfirm handles GET /gear/{id}/delete
func (a *app) handleGearDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.renderMasterList(w, r, map[string]any{
		"Modal":    modalGearDelete,
		"DeleteID": id,
	})
}

// handleGearDelete handles POST /gear/{id}/delete. Without confirm=yes nothing is sent.
func (a *app) handleGearDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.DeleteGearInput{ID: id, Confirmed: confirmed(r)}
	if _, err := orchestrators.ExecuteDeleteGear(r.Context(), input, a.upstream(r)); err != nil {
		if redirectIfUnauthorized(w, r, err) {
			return
		}
		a.renderMasterList(w, r, map[string]any{
			"Error": bannerMessage("Failed to delete gear", err),
		})
		return
	}
	http.Redirect(w, r, "/master_list", http.StatusSeeOther)
}

// sortLinks maps each sortable column to its header href.
func sortLinks(lp listutil.ListParams) map[string]string {
	links := make(map[string]string, len(projections.GearSortColumns))
	for _, col := range projections.GearSortColumns {
		links[col] = "/master_list?" + lp.SortLink(col)
	}
	return links
}

func gearAction(id int64) string {
	return "/gear/" + strconv.FormatInt(id, 10)
}

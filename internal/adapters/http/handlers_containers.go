package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"kitbox/internal/application/orchestrators"
	"kitbox/internal/application/projections"
	"kitbox/internal/application/views"
)

// Container page modals
const (
	modalContainerAdd    = "container_add"
	modalContainerRemove = "container_remove"
)

// containerQuery reads the container navigation parameters from the query string or a posted form.
func containerQuery(values url.Values) projections.GetContainerQuery {
	return projections.GetContainerQuery{
		LocationID: values.Get("location_id"),
		Name:       values.Get("name"),
		Search:     strings.TrimSpace(values.Get("q")),
	}
}

// renderContainer loads the container's items and renders the page with any open modal in extra.
// A missing container id renders the placeholder row without contacting the API.
func (a *app) renderContainer(w http.ResponseWriter, r *http.Request, query projections.GetContainerQuery, extra map[string]any) {
	upstream := a.upstream(r)
	res, err := projections.QueryContainer(r.Context(), query, projections.GetContainerDeps{
		Gear:      upstream,
		Locations: upstream,
	})
	if redirectIfUnauthorized(w, r, err) {
		return
	}

	var banner, loadBanner string
	if msg, ok := extra["Error"].(string); ok {
		banner = msg
	}
	if err != nil {
		loadBanner = bannerMessage("Failed to load container items", err)
	}

	data := map[string]any{
		"Modal":     "",
		"Selected":  res.ID > 0,
		"ID":        res.ID,
		"Name":      res.Name,
		"Contents":  res.Contents,
		"Search":    query.Search,
		"PageHref":  views.ContainerHref(res.ID, res.Name),
		"RemoveMsg": "Are you sure you want to remove this item from " + res.Name + "? It will become unassigned.",
	}
	for k, v := range extra {
		data[k] = v
	}
	data["Error"] = joinBanners(banner, loadBanner)

	a.renderTemplate(w, r, "container.html", data)
}

// handleContainer handles GET /containers?location_id=<id>&name=<name>
func (a *app) handleContainer(w http.ResponseWriter, r *http.Request) {
	a.renderContainer(w, r, containerQuery(r.URL.Query()), nil)
}

// handleContainerAddForm handles GET /containers/add: the candidate picker, filtered by ?q=.
func (a *app) handleContainerAddForm(w http.ResponseWriter, r *http.Request) {
	query := containerQuery(r.URL.Query())
	if _, _, err := projections.ParseContainer(query); err != nil {
		a.renderContainer(w, r, query, nil)
		return
	}

	upstream := a.upstream(r)
	candidates, err := projections.QueryAddCandidates(r.Context(), query, projections.GetContainerDeps{
		Gear:      upstream,
		Locations: upstream,
	})
	if err != nil {
		if redirectIfUnauthorized(w, r, err) {
			return
		}
		a.renderContainer(w, r, query, map[string]any{
			"Error": bannerMessage("Failed to load items", err),
		})
		return
	}

	a.renderContainer(w, r, query, map[string]any{
		"Modal":      modalContainerAdd,
		"Candidates": candidates,
	})
}

// handleContainerAdd handles POST /containers/add
func (a *app) handleContainerAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	query := containerQuery(r.PostForm)
	containerID, name, err := projections.ParseContainer(query)
	if err != nil {
		a.renderContainer(w, r, query, nil)
		return
	}
	itemID, err := strconv.ParseInt(r.PostFormValue("item_id"), 10, 64)
	if err != nil || itemID <= 0 {
		a.renderContainer(w, r, query, map[string]any{"Error": "Select an item to add."})
		return
	}

	input := orchestrators.AddToContainerInput{ItemID: itemID, ContainerID: containerID}
	if err := orchestrators.ExecuteAddToContainer(r.Context(), input, a.upstream(r)); err != nil {
		if redirectIfUnauthorized(w, r, err) {
			return
		}
		a.renderContainer(w, r, query, map[string]any{
			"Error": bannerMessage("Failed to add item to container", err),
		})
		return
	}
	http.Redirect(w, r, views.ContainerHref(containerID, name), http.StatusSeeOther)
}

// handleContainerRemoveConfirm handles GET /containers/remove?location_id=..&name=..&item_id=..
func (a *app) handleContainerRemoveConfirm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	itemID, err := strconv.ParseInt(q.Get("item_id"), 10, 64)
	if err != nil || itemID <= 0 {
		a.renderContainer(w, r, containerQuery(q), nil)
		return
	}
	a.renderContainer(w, r, containerQuery(q), map[string]any{
		"Modal":        modalContainerRemove,
		"RemoveItemID": itemID,
	})
}

// handleContainerRemove handles POST /containers/remove. The item is unassigned, never deleted.
func (a *app) handleContainerRemove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	query := containerQuery(r.PostForm)
	containerID, name, err := projections.ParseContainer(query)
	if err != nil {
		a.renderContainer(w, r, query, nil)
		return
	}
	itemID, err := strconv.ParseInt(r.PostFormValue("item_id"), 10, 64)
	if err != nil || itemID <= 0 {
		http.Redirect(w, r, views.ContainerHref(containerID, name), http.StatusSeeOther)
		return
	}

	input := orchestrators.RemoveFromContainerInput{ItemID: itemID, Confirmed: confirmed(r)}
	if _, err := orchestrators.ExecuteRemoveFromContainer(r.Context(), input, a.upstream(r)); err != nil {
		if redirectIfUnauthorized(w, r, err) {
			return
		}
		a.renderContainer(w, r, query, map[string]any{
			"Error": bannerMessage("Failed to remove item from container", err),
		})
		return
	}
	http.Redirect(w, r, views.ContainerHref(containerID, name), http.StatusSeeOther)
}

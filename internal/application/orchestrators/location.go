package orchestrators

import (
	"context"
	"log/slog"

	"kitbox/internal/domain/location"
)

// LocationWriter defines the location mutations the inventory API offers.
type LocationWriter interface {
	CreateLocation(ctx context.Context, in location.Input) (*location.Location, error)
	UpdateLocation(ctx context.Context, id int64, in location.Input) (*location.Location, error)
	DeleteLocation(ctx context.Context, id int64) error
}

// SaveLocationInput carries a submitted location form. ID 0 creates a new location.
type SaveLocationInput struct {
	ID   int64
	Form location.Form
}

// ExecuteSaveLocation validates the form locally and creates or updates the location.
// PRE: none
// POST: Invalid forms return a domain error without any request
func ExecuteSaveLocation(ctx context.Context, input SaveLocationInput, api LocationWriter) error {
	in, err := location.ParseForm(input.Form)
	if err != nil {
		return err
	}
	if input.ID == 0 {
		if _, err := api.CreateLocation(ctx, in); err != nil {
			return err
		}
		slog.InfoContext(ctx, "location_event", "event", "location_created", "name", in.Name, "type", in.Type)
		return nil
	}
	if _, err := api.UpdateLocation(ctx, input.ID, in); err != nil {
		return err
	}
	slog.InfoContext(ctx, "location_event", "event", "location_updated", "location_id", input.ID)
	return nil
}

// DeleteLocationInput carries a delete request and whether the user confirmed it.
type DeleteLocationInput struct {
	ID        int64
	Confirmed bool
}

// ExecuteDeleteLocation removes a location once confirmed.
// POST: Returns false without any request when not confirmed
func ExecuteDeleteLocation(ctx context.Context, input DeleteLocationInput, api LocationWriter) (bool, error) {
	if !input.Confirmed {
		return false, nil
	}
	if err := api.DeleteLocation(ctx, input.ID); err != nil {
		return false, err
	}
	slog.InfoContext(ctx, "location_event", "event", "location_deleted", "location_id", input.ID)
	return true, nil
}

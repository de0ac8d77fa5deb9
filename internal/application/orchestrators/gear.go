package orchestrators

import (
	"context"
	"log/slog"

	"kitbox/internal/domain/gear"
)

// GearWriter defines the gear mutations the inventory API offers.
type GearWriter interface {
	CreateGear(ctx context.Context, in gear.Input) (*gear.Item, error)
	UpdateGear(ctx context.Context, id int64, in gear.Input) (*gear.Item, error)
	SetGearLocation(ctx context.Context, id int64, locationID *int64) error
	DeleteGear(ctx context.Context, id int64) error
}

// SaveGearInput carries a submitted gear form. ID 0 creates a new item.
type SaveGearInput struct {
	ID   int64
	Form gear.Form
}

// ExecuteSaveGear validates the form locally and creates or updates the item.
// PRE: none
// POST: Invalid forms return a domain error without any request
func ExecuteSaveGear(ctx context.Context, input SaveGearInput, api GearWriter) error {
	in, err := gear.ParseForm(input.Form)
	if err != nil {
		return err
	}

	if input.ID == 0 {
		item, err := api.CreateGear(ctx, in)
		if err != nil {
			return err
		}
		if item != nil {
			slog.InfoContext(ctx, "gear_event", "event", "gear_created", "gear_id", item.ID)
		}
		return nil
	}

	if _, err := api.UpdateGear(ctx, input.ID, in); err != nil {
		return err
	}
	slog.InfoContext(ctx, "gear_event", "event", "gear_updated", "gear_id", input.ID)
	return nil
}

// DeleteGearInput carries a delete request and whether the user confirmed it.
type DeleteGearInput struct {
	ID        int64
	Confirmed bool
}

// ExecuteDeleteGear permanently removes an item once confirmed.
// PRE: ID > 0
// POST: Returns false without any request when not confirmed
func ExecuteDeleteGear(ctx context.Context, input DeleteGearInput, api GearWriter) (bool, error) {
	if !input.Confirmed {
		return false, nil
	}
	if err := api.DeleteGear(ctx, input.ID); err != nil {
		return false, err
	}
	slog.InfoContext(ctx, "gear_event", "event", "gear_deleted", "gear_id", input.ID)
	return true, nil
}

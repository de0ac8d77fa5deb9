package orchestrators

import (
	"context"
	"log/slog"
)

// AddToContainerInput moves one item into a container.
type AddToContainerInput struct {
	ItemID      int64
	ContainerID int64
}

// ExecuteAddToContainer points the item's location at the container.
// PRE: ItemID > 0, ContainerID > 0
// POST: The item's location_id equals ContainerID
func ExecuteAddToContainer(ctx context.Context, input AddToContainerInput, api GearWriter) error {
	id := input.ContainerID
	if err := api.SetGearLocation(ctx, input.ItemID, &id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "gear_event", "event", "gear_moved", "gear_id", input.ItemID, "location_id", id)
	return nil
}

// RemoveFromContainerInput unassigns one item, with the user's confirmation.
type RemoveFromContainerInput struct {
	ItemID    int64
	Confirmed bool
}

// ExecuteRemoveFromContainer clears the item's location. The item itself is kept.
// PRE: ItemID > 0
// POST: Returns false without any request when not confirmed; otherwise location_id is null
func ExecuteRemoveFromContainer(ctx context.Context, input RemoveFromContainerInput, api GearWriter) (bool, error) {
	if !input.Confirmed {
		return false, nil
	}
	if err := api.SetGearLocation(ctx, input.ItemID, nil); err != nil {
		return false, err
	}
	slog.InfoContext(ctx, "gear_event", "event", "gear_unassigned", "gear_id", input.ItemID)
	return true, nil
}

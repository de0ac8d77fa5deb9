package orchestrators

import (
	"context"
	"errors"
	"time"

	"kitbox/internal/adapters/api"
	"kitbox/internal/domain/gear"
	"kitbox/internal/domain/location"
)

// fakeAuthAPI implements AuthAPI with canned responses.
type fakeAuthAPI struct {
	loginResp    *api.LoginResponse
	registerResp *api.RegisterResponse
	err          error
	calls        int
	lastLogin    api.LoginRequest
}

func (f *fakeAuthAPI) Login(_ context.Context, in api.LoginRequest) (*api.LoginResponse, error) {
	f.calls++
	f.lastLogin = in
	return f.loginResp, f.err
}

func (f *fakeAuthAPI) Register(_ context.Context, _ api.RegisterRequest) (*api.RegisterResponse, error) {
	f.calls++
	return f.registerResp, f.err
}

// fakeCredentials implements CredentialKeeper in memory.
type fakeCredentials struct {
	token   string
	saveErr error
}

func (f *fakeCredentials) Save(_ context.Context, token string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.token = token
	return nil
}

func (f *fakeCredentials) Clear(context.Context) error {
	f.token = ""
	return nil
}

// fakeInventoryAPI implements GearWriter and LocationWriter, recording calls.
type fakeInventoryAPI struct {
	calls     []string
	err       error
	lastGear  gear.Input
	lastLoc   location.Input
	lastMove  *int64
	moveCalls int
}

func (f *fakeInventoryAPI) CreateGear(_ context.Context, in gear.Input) (*gear.Item, error) {
	f.calls = append(f.calls, "CreateGear")
	f.lastGear = in
	if f.err != nil {
		return nil, f.err
	}
	return &gear.Item{ID: 1, Name: in.Name}, nil
}

func (f *fakeInventoryAPI) UpdateGear(_ context.Context, id int64, in gear.Input) (*gear.Item, error) {
	f.calls = append(f.calls, "UpdateGear")
	f.lastGear = in
	return nil, f.err
}

func (f *fakeInventoryAPI) SetGearLocation(_ context.Context, id int64, locationID *int64) error {
	f.calls = append(f.calls, "SetGearLocation")
	f.lastMove = locationID
	f.moveCalls++
	return f.err
}

func (f *fakeInventoryAPI) DeleteGear(context.Context, int64) error {
	f.calls = append(f.calls, "DeleteGear")
	return f.err
}

func (f *fakeInventoryAPI) CreateLocation(_ context.Context, in location.Input) (*location.Location, error) {
	f.calls = append(f.calls, "CreateLocation")
	f.lastLoc = in
	return nil, f.err
}

func (f *fakeInventoryAPI) UpdateLocation(_ context.Context, id int64, in location.Input) (*location.Location, error) {
	f.calls = append(f.calls, "UpdateLocation")
	f.lastLoc = in
	return nil, f.err
}

func (f *fakeInventoryAPI) DeleteLocation(context.Context, int64) error {
	f.calls = append(f.calls, "DeleteLocation")
	return f.err
}

// fakePurgeStore records the cutoff it was asked to purge before.
type fakePurgeStore struct {
	cutoff  time.Time
	removed int64
	err     error
}

func (f *fakePurgeStore) PurgeIdle(_ context.Context, before time.Time) (int64, error) {
	f.cutoff = before
	return f.removed, f.err
}

var errUpstream = errors.New("upstream failed")

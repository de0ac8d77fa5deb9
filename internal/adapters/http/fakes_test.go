package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kitbox/internal/adapters/api"
	"kitbox/internal/adapters/http/perf"
	"kitbox/internal/adapters/storage/credential"
	"kitbox/internal/domain/gear"
	"kitbox/internal/domain/location"
)

const testPassword = "secret"

// fakeAPI is an in-memory stand-in for the inventory REST API.
type fakeAPI struct {
	mu        sync.Mutex
	gear      map[int64]gear.Item
	locations map[int64]location.Location
	nextID    int64
	calls     []string

	token        string // issued on login and required on every other call
	loginNoToken bool   // login succeeds without an access_token
	rejectAll    bool   // every authenticated call answers 401
	failGear     bool   // GET /gear answers 500
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		gear:      map[int64]gear.Item{},
		locations: map[int64]location.Location{},
		token:     "t1",
	}
}

func (f *fakeAPI) addLocation(name, typ string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.locations[f.nextID] = location.Location{ID: f.nextID, Name: name, Type: typ}
	return f.nextID
}

func (f *fakeAPI) addGear(it gear.Item) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	it.ID = f.nextID
	f.gear[it.ID] = it
	return it.ID
}

func (f *fakeAPI) item(id int64) (gear.Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.gear[id]
	return it, ok
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// callCount counts recorded calls whose "METHOD path" starts with prefix.
func (f *fakeAPI) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// writeCalls counts recorded calls that are not reads.
func (f *fakeAPI) writeCalls() int {
	return f.totalCalls() - f.callCount("GET ")
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", f.login)
	mux.HandleFunc("POST /api/auth/register", f.register)
	mux.HandleFunc("GET /api/gear", f.authed(f.listGear))
	mux.HandleFunc("POST /api/gear", f.authed(f.createGear))
	mux.HandleFunc("GET /api/gear/{id}", f.authed(f.getGear))
	mux.HandleFunc("PUT /api/gear/{id}", f.authed(f.putGear))
	mux.HandleFunc("DELETE /api/gear/{id}", f.authed(f.deleteGear))
	mux.HandleFunc("GET /api/locations", f.authed(f.listLocations))
	mux.HandleFunc("POST /api/locations", f.authed(f.createLocation))
	mux.HandleFunc("GET /api/locations/{id}", f.authed(f.getLocation))
	mux.HandleFunc("PUT /api/locations/{id}", f.authed(f.putLocation))
	mux.HandleFunc("DELETE /api/locations/{id}", f.authed(f.deleteLocation))
	mux.HandleFunc("GET /api/locations/{id}/items", f.authed(f.locationItems))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls = append(f.calls, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		ok := !f.rejectAll && r.Header.Get("Authorization") == "Bearer "+f.token
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func pathInt(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var in api.LoginRequest
	json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case in.Password != testPassword:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
	case f.loginNoToken:
		writeJSON(w, http.StatusOK, map[string]string{})
	default:
		writeJSON(w, http.StatusOK, api.LoginResponse{AccessToken: f.token})
	}
}

func (f *fakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var in api.RegisterRequest
	json.NewDecoder(r.Body).Decode(&in)
	if in.Username == "taken" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Username already registered"})
		return
	}
	writeJSON(w, http.StatusCreated, api.RegisterResponse{Username: in.Username})
}

func (f *fakeAPI) sortedGear(keep func(gear.Item) bool) []gear.Item {
	items := []gear.Item{}
	for _, it := range f.gear {
		if keep(it) {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (f *fakeAPI) listGear(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGear {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": map[string]string{"message": "database unavailable"}})
		return
	}
	writeJSON(w, http.StatusOK, f.sortedGear(func(gear.Item) bool { return true }))
}

func (f *fakeAPI) createGear(w http.ResponseWriter, r *http.Request) {
	var in gear.Input
	json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	it := gear.Item{
		ID: f.nextID, Name: in.Name, Description: in.Description, Weight: *in.Weight,
		Cost: in.Cost, Value: in.Value, Legality: in.Legality, Category: in.Category, LocationID: in.LocationID,
	}
	f.gear[it.ID] = it
	writeJSON(w, http.StatusCreated, it)
}

func (f *fakeAPI) getGear(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.gear[pathInt(r)]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Gear not found"})
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// putGear applies a full update, or only location_id when that is the sole field sent.
func (f *fakeAPI) putGear(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var fields map[string]json.RawMessage
	json.Unmarshal(raw, &fields)

	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.gear[pathInt(r)]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Gear not found"})
		return
	}
	if _, only := fields["location_id"]; only && len(fields) == 1 {
		var patch gear.LocationPatch
		json.Unmarshal(raw, &patch)
		it.LocationID = patch.LocationID
	} else {
		var in gear.Input
		json.Unmarshal(raw, &in)
		it.Name, it.Description, it.Weight = in.Name, in.Description, *in.Weight
		it.Cost, it.Value, it.Legality, it.Category, it.LocationID = in.Cost, in.Value, in.Legality, in.Category, in.LocationID
	}
	f.gear[it.ID] = it
	writeJSON(w, http.StatusOK, it)
}

func (f *fakeAPI) deleteGear(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.gear, pathInt(r))
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeAPI) listLocations(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	locs := []location.Location{}
	for _, l := range f.locations {
		locs = append(locs, l)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].ID < locs[j].ID })
	writeJSON(w, http.StatusOK, locs)
}

func (f *fakeAPI) createLocation(w http.ResponseWriter, r *http.Request) {
	var in location.Input
	json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l := location.Location{ID: f.nextID, Name: in.Name, Type: in.Type, ParentID: in.ParentID}
	f.locations[l.ID] = l
	writeJSON(w, http.StatusCreated, l)
}

func (f *fakeAPI) getLocation(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locations[pathInt(r)]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Location not found"})
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (f *fakeAPI) putLocation(w http.ResponseWriter, r *http.Request) {
	var in location.Input
	json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathInt(r)
	l := location.Location{ID: id, Name: in.Name, Type: in.Type, ParentID: in.ParentID}
	f.locations[id] = l
	writeJSON(w, http.StatusOK, l)
}

func (f *fakeAPI) deleteLocation(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.locations, pathInt(r))
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeAPI) locationItems(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathInt(r)
	writeJSON(w, http.StatusOK, f.sortedGear(func(it gear.Item) bool { return it.InLocation(id) }))
}

// memCredentials is an in-memory credential.Store.
type memCredentials struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemCredentials() *memCredentials {
	return &memCredentials{tokens: map[string]string{}}
}

func (m *memCredentials) Get(ctx context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[sessionID]
	if !ok {
		return "", credential.ErrNotFound
	}
	return t, nil
}

func (m *memCredentials) Save(ctx context.Context, sessionID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[sessionID] = token
	return nil
}

func (m *memCredentials) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, sessionID)
	return nil
}

func (m *memCredentials) PurgeIdle(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (m *memCredentials) stored() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.tokens))
	for _, t := range m.tokens {
		out = append(out, t)
	}
	return out
}

type pingFunc func(ctx context.Context) error

func (p pingFunc) PingContext(ctx context.Context) error { return p(ctx) }

var errDBDown = errors.New("database is locked")

// testEnv drives the full middleware stack through a real browser-like client.
type testEnv struct {
	api    *fakeAPI
	creds  *memCredentials
	server *httptest.Server
	client *http.Client
	pingOK atomic.Bool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{api: newFakeAPI(), creds: newMemCredentials()}
	env.pingOK.Store(true)

	upstream := httptest.NewServer(env.api.handler())
	t.Cleanup(upstream.Close)

	h, stop := NewMux(Deps{
		Client:      api.NewClient(upstream.URL+"/api", 2*time.Second, nil),
		Credentials: env.creds,
		Collector:   perf.NewCollector(100),
		DB: pingFunc(func(ctx context.Context) error {
			if env.pingOK.Load() {
				return nil
			}
			return errDBDown
		}),
		CSRFKey:   bytes.Repeat([]byte("k"), 32),
		RateLimit: 10000,
	})
	t.Cleanup(stop)

	env.server = httptest.NewServer(h)
	t.Cleanup(env.server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	env.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.server.URL+path, nil)
	require.NoError(t, err)
	return e.do(t, req)
}

var csrfFieldPattern = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

// csrfToken loads a page that renders a form and returns its token.
func (e *testEnv) csrfToken(t *testing.T) string {
	t.Helper()
	resp, body := e.get(t, "/")
	if resp.StatusCode == http.StatusSeeOther {
		_, body = e.get(t, resp.Header.Get("Location"))
	}
	m := csrfFieldPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "no CSRF field rendered")
	return m[1]
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	return e.postWithToken(t, path, form, e.csrfToken(t))
}

// postWithToken submits form with an already fetched CSRF token.
func (e *testEnv) postWithToken(t *testing.T, path string, form url.Values, token string) (*http.Response, string) {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("gorilla.csrf.Token", token)
	req, err := http.NewRequest(http.MethodPost, e.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req)
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	resp, _ := e.post(t, "/login", url.Values{"username": {"alice"}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/master_list", resp.Header.Get("Location"))
}

// sessionCookie returns the session id the client currently holds, or "".
func (e *testEnv) sessionCookie(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(e.server.URL)
	require.NoError(t, err)
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == "kitbox_session" {
			return c.Value
		}
	}
	return ""
}

func ptr[T any](v T) *T { return &v }

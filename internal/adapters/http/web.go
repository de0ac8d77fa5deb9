package web

import (
	"context"
	"net/http"
	"time"

	"kitbox/internal/adapters/api"
	"kitbox/internal/adapters/http/middleware"
	"kitbox/internal/adapters/http/perf"
	"kitbox/internal/adapters/storage/credential"
	"kitbox/internal/application/views"
)

// DefaultRateLimit is the per-IP requests per second when Deps.RateLimit is unset.
const DefaultRateLimit = 10

// Pinger reports whether the credential database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds everything the web front end needs.
type Deps struct {
	Client         *api.Client
	Credentials    credential.Store
	Collector      *perf.Collector
	Slots          *views.SlotCatalog
	DB             Pinger
	CSRFKey        []byte
	Secure         bool
	RateLimit      int
	TrustedOrigins []string
}

// app carries the shared, read-only state every handler uses.
// Per-user state lives on the request's middleware.Session.
type app struct {
	client    *api.Client
	slots     *views.SlotCatalog
	collector *perf.Collector
	db        Pinger
}

// NewMux wires HTTP handlers for the app.
// PRE: deps.Client, deps.Credentials and deps.CSRFKey are set
// POST: Returns the handler and a stop function that ends the rate limiter's sweep
func NewMux(deps Deps) (http.Handler, func()) {
	middleware.SecureCookies = deps.Secure

	slots := deps.Slots
	if slots == nil {
		slots = views.DefaultSlotCatalog()
	}
	a := &app{
		client:    deps.Client,
		slots:     slots,
		collector: deps.Collector,
		db:        deps.DB,
	}

	rate := deps.RateLimit
	if rate <= 0 {
		rate = DefaultRateLimit
	}
	limiter := middleware.NewRateLimiter(rate, time.Second)

	// Outer to inner: RequestID -> RateLimit -> Sessions -> CSRF -> SecurityHeaders -> router
	h := middleware.Chain(a.routes(),
		middleware.SecurityHeaders,
		middleware.CSRF(deps.CSRFKey, deps.Secure, deps.TrustedOrigins),
		middleware.Sessions(deps.Credentials),
		middleware.RateLimit(limiter),
		middleware.RequestID,
	)
	return h, limiter.Stop
}

// session returns the browser session attached by the Sessions middleware.
func session(r *http.Request) *middleware.Session {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return sess
}

// upstream binds the shared API client to this request's session.
func (a *app) upstream(r *http.Request) *api.Session {
	if sess := session(r); sess != nil {
		return a.client.Session(sess)
	}
	return a.client.Session(nil)
}

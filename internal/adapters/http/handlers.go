package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"kitbox/internal/adapters/api"
	"kitbox/internal/application/orchestrators"
	"kitbox/internal/application/projections"
	"kitbox/internal/application/views"
	"kitbox/internal/logging"
)

//go:embed templates static
var assets embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// bannerTexts are the exact banner lines for failures raised before or instead of an API error.
var bannerTexts = map[error]string{
	orchestrators.ErrCredentialsRequired: "Username and password are required.",
	orchestrators.ErrNoToken:             "Login failed. No token received.",
	orchestrators.ErrPasswordMismatch:    "Passwords do not match.",
	orchestrators.ErrRegistrationFailed:  "Registration failed. Please try again.",
	projections.ErrItemUnavailable:       "Could not fetch item details for editing.",
	projections.ErrLocationUnavailable:   "Could not fetch location details for editing.",
	projections.ErrNoContainer:           "Container not specified. Please go back to the paperdoll and select a container.",
	projections.ErrInvalidContainer:      "Container not specified. Please go back to the paperdoll and select a container.",
}

// bannerMessage is the page banner text for err. context names what was being attempted.
func bannerMessage(context string, err error) string {
	for sentinel, msg := range bannerTexts {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return views.ErrorMessage(context, err)
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("internal_error", "error", err.Error(), "path", r.URL.Path)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// redirectIfUnauthorized sends the browser to the entry page when the API rejected the credential.
// The client has already cleared the stored token. Returns true when a redirect was written.
func redirectIfUnauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	logging.FromContext(r.Context()).Info("auth_event", "event", "credential_rejected", "path", r.URL.Path)
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return true
}

// pathID parses the {id} URL parameter. Anything but a positive integer is a 404.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

// confirmed reports whether a destructive form was explicitly accepted.
func confirmed(r *http.Request) bool {
	return r.PostFormValue("confirm") == "yes"
}

// joinBanners drops empty messages and joins the rest into one banner line.
func joinBanners(msgs ...string) string {
	kept := msgs[:0:0]
	for _, m := range msgs {
		if m != "" {
			kept = append(kept, m)
		}
	}
	return strings.Join(kept, " ")
}

func (a *app) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data map[string]any) {
	a.renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

func (a *app) renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data map[string]any) {
	sess := session(r)
	token := ""
	if sess != nil {
		token, _ = sess.Token(r.Context())
	}

	funcMap := template.FuncMap{
		"csrfToken":   func() string { return csrf.Token(r) },
		"csrfField":   func() template.HTML { return csrf.TemplateField(r) },
		"isLoggedIn":  func() bool { return token != "" },
		"displayName": func() string { return views.DisplayName(token) },
		"currentPath": func() string { return r.URL.Path },
		"dict": func(kv ...any) map[string]any {
			m := make(map[string]any, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				if k, ok := kv[i].(string); ok {
					m[k] = kv[i+1]
				}
			}
			return m
		},
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(assets, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

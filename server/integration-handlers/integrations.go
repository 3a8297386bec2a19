package integrations

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jrschumacher/integrationhub/components"
	"github.com/jrschumacher/integrationhub/internal/httputil"
	"github.com/jrschumacher/integrationhub/internal/integration"
	"github.com/jrschumacher/integrationhub/internal/logger"
	"github.com/jrschumacher/integrationhub/internal/middleware"
	"github.com/jrschumacher/integrationhub/internal/oauth"
	"github.com/jrschumacher/integrationhub/internal/svrlib"
	"github.com/jrschumacher/integrationhub/internal/validation"
)

// maxFormBytes bounds every form post; credentials blobs are the largest field.
const maxFormBytes = validation.MaxCredentialsLength + 4<<10

type IntegrationRouter struct {
	*svrlib.Router
}

// RegisterRoutes registers the /integrations/{provider}/* routes
func RegisterRoutes(router *svrlib.Router) {
	rt := &IntegrationRouter{router}
	prefix := rt.BaseRoute + "/integrations/{provider}"

	forms := middleware.FormGroup(rt.Mux, maxFormBytes)
	forms.HandleFunc("POST "+prefix+"/authorize", rt.AuthorizeHandler)
	forms.HandleFunc("POST "+prefix+"/credentials", rt.CredentialsHandler)
	forms.HandleFunc("POST "+prefix+"/load", rt.LoadHandler)

	rt.Mux.HandleFunc("GET "+prefix+"/oauth2callback", rt.CallbackHandler)
}

// provider resolves the {provider} path segment, writing a 404 when unknown.
func (rt *IntegrationRouter) provider(w http.ResponseWriter, r *http.Request) (oauth.Provider, bool) {
	name := r.PathValue("provider")
	if rt.Providers != nil {
		if p, ok := rt.Providers.Get(name); ok {
			return p, true
		}
	}
	httputil.WriteError(w, http.StatusNotFound, "Unknown integration provider", "provider", name)
	return nil, false
}

// parseForm accepts urlencoded and multipart bodies.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxFormBytes)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httputil.WriteError(w, http.StatusBadRequest, "Request body too large", "limit", tooLarge.Limit)
		return false
	}
	httputil.WriteError(w, http.StatusBadRequest, "Invalid form body", "error", err)
	return false
}

func (rt *IntegrationRouter) identity(w http.ResponseWriter, r *http.Request) (userID, orgID string, ok bool) {
	if !parseForm(w, r) {
		return "", "", false
	}
	iv := validation.IdentityValidation{
		UserID: r.PostFormValue("user_id"),
		OrgID:  r.PostFormValue("org_id"),
	}
	if err := iv.Validate(); err != nil {
		var ve validation.Errors
		if errors.As(err, &ve) {
			httputil.WriteValidationError(w, ve)
		} else {
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return "", "", false
	}
	return iv.UserID, iv.OrgID, true
}

// AuthorizeHandler handles POST /integrations/{provider}/authorize
func (rt *IntegrationRouter) AuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := rt.provider(w, r)
	if !ok {
		return
	}
	userID, orgID, ok := rt.identity(w, r)
	if !ok {
		return
	}

	authURL, err := p.Authorize(r.Context(), userID, orgID)
	if err != nil {
		httputil.WriteIntegrationError(w, err, "provider", p.Name(), "step", "authorize")
		return
	}
	httputil.WriteSuccess(w, authURL)
}

// CallbackHandler handles GET /integrations/{provider}/oauth2callback
func (rt *IntegrationRouter) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := rt.provider(w, r)
	if !ok {
		return
	}

	if err := p.HandleCallback(r.Context(), r.URL.Query()); err != nil {
		httputil.WriteIntegrationError(w, err, "provider", p.Name(), "step", "callback")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.CloseWindow().Render(r.Context(), w); err != nil {
		logger.Error("Failed to render close window page", "error", err)
	}
}

// CredentialsHandler handles POST /integrations/{provider}/credentials
func (rt *IntegrationRouter) CredentialsHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := rt.provider(w, r)
	if !ok {
		return
	}
	userID, orgID, ok := rt.identity(w, r)
	if !ok {
		return
	}

	creds, err := p.GetCredentials(r.Context(), userID, orgID)
	if err != nil {
		httputil.WriteIntegrationError(w, err, "provider", p.Name(), "step", "credentials")
		return
	}
	httputil.WriteSuccess(w, creds)
}

// LoadHandler handles POST /integrations/{provider}/load
func (rt *IntegrationRouter) LoadHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := rt.provider(w, r)
	if !ok {
		return
	}
	if !parseForm(w, r) {
		return
	}

	cv := validation.CredentialsValidation{Credentials: r.PostFormValue("credentials")}
	if err := cv.Validate(); err != nil {
		var ve validation.Errors
		if errors.As(err, &ve) {
			httputil.WriteValidationError(w, ve)
		} else {
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	creds, err := integration.ParseCredentials([]byte(cv.Credentials))
	if err != nil {
		httputil.WriteIntegrationError(w, integration.InvalidRequest(p.Name(), "credentials must be a JSON object"))
		return
	}

	items, err := p.ListItems(r.Context(), creds)
	if err != nil {
		httputil.WriteIntegrationError(w, err, "provider", p.Name(), "step", "load")
		return
	}
	httputil.WriteSuccess(w, items)
}

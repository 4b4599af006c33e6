package api

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"lexflow/backend/internal/auth"
)

func TestSwaggerHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	req.Host = "lexflow.test"
	req.TLS = &tls.ConnectionState{}
	rec := httptest.NewRecorder()

	SwaggerHandler("https://example.okta.com", "docs-client").ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, `clientId: "docs-client"`)
	assert.Contains(t, body, `oauth2RedirectUrl: "https://lexflow.test/docs/oauth2-redirect.html"`)
	assert.Contains(t, body, `scopes: "openid profile email workflow:read workflow:write"`)
	for _, scope := range []string{auth.ScopeWorkflowRead, auth.ScopeWorkflowWrite} {
		assert.Contains(t, body, scope)
	}
	assert.NotContains(t, body, "${")
}

func TestSpecHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	SpecHandler("https://example.okta.com/oauth2/default").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "https://example.okta.com/oauth2/default/v1/authorize")
	assert.NotContains(t, rec.Body.String(), "{oktaIssuer}")
}

package api

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/sayah-app/sayah-go/internal/httpclient"
)

const testBaseURL = "https://triage.test"

// newTestAPI returns a client whose transport is an httpmock transport.
func newTestAPI(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	return newTestAPIWithConfig(t, Config{BaseURL: testBaseURL})
}

func newTestAPIWithConfig(t *testing.T, cfg Config) (*Client, *httpmock.MockTransport) {
	t.Helper()

	hc := httpclient.New(nil)
	mock := httpmock.NewMockTransport()
	hc.HTTPClient().Transport = mock
	cfg.HTTPClient = hc

	c, err := NewClient(cfg)
	require.NoError(t, err)
	t.Cleanup(hc.Close)
	return c, mock
}

// jsonResponder returns a responder with a JSON body and content type.
func jsonResponder(status int, body string) httpmock.Responder {
	return func(*http.Request) (*http.Response, error) {
		resp := httpmock.NewStringResponse(status, body)
		resp.Header.Set("Content-Type", "application/json")
		return resp, nil
	}
}

// sessionCookieValue returns the value of the session cookie on req.
func sessionCookieValue(req *http.Request) string {
	if c, err := req.Cookie(DefaultSessionCookie); err == nil {
		return c.Value
	}
	return ""
}

package hunter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-cli/internal/resilience"
)

func TestDomainSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/domain-search", r.URL.Path)
		assert.Equal(t, "acme.io", r.URL.Query().Get("domain"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		fmt.Fprint(w, `{
			"data": {
				"domain": "acme.io",
				"organization": "Acme",
				"pattern": "{first}",
				"emails": [
					{"value": "info@acme.io", "type": "generic", "confidence": 70},
					{"value": "jane@acme.io", "type": "personal", "confidence": 94,
					 "first_name": "Jane", "last_name": "Doe", "position": "Founder & CEO"}
				]
			}
		}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	res, err := client.DomainSearch(context.Background(), "acme.io")

	require.NoError(t, err)
	assert.Equal(t, "Acme", res.Organization)
	require.Len(t, res.Emails, 2)
	assert.Equal(t, "Jane Doe", res.Emails[1].FullName())
	assert.Equal(t, 94, res.Emails[1].Confidence)
}

func TestDomainSearch_EmptyDomain(t *testing.T) {
	client := NewClient("test-key", WithBaseURL("http://127.0.0.1:0"))
	_, err := client.DomainSearch(context.Background(), "")
	assert.Error(t, err)
}

func TestDomainSearch_BodyErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"errors": [{"id": "wrong_params", "details": "You are missing the domain"}]}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.DomainSearch(context.Background(), "acme.io")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong_params")
}

func TestDomainSearch_StatusErrors(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
	}{
		{http.StatusUnauthorized, false},
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))
			res, err := client.DomainSearch(context.Background(), "acme.io")

			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tt.transient, resilience.IsTransient(err))
		})
	}
}

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 7}`))
	}))
	defer server.Close()

	client, err := NewClient()
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &Request{
		Method:  "POST",
		URL:     server.URL + "/users",
		Headers: map[string]string{"Content-Type": "application/json"},
		Query:   map[string]string{"limit": "10"},
		Body:    `{"name":"anna"}`,
	})
	require.NoError(t, err)

	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, `{"id": 7}`, resp.BodyString())
	assert.True(t, resp.IsJSON())
	assert.Greater(t, resp.DurationMs(), int64(-1))
}

func TestClientDoConnectionError(t *testing.T) {
	client, err := NewClient(WithTimeout(time.Second))
	require.NoError(t, err)

	// Reserved TEST-NET address, nothing listens there.
	_, err = client.Do(context.Background(), &Request{
		Method: "GET",
		URL:    "http://192.0.2.1:1/unreachable",
	})
	require.Error(t, err)
}

func TestClientRejectsBadURL(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)

	tests := []struct {
		name string
		url  string
	}{
		{name: "missing scheme", url: "example.com/path"},
		{name: "bad scheme", url: "ftp://example.com"},
		{name: "no host", url: "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Do(context.Background(), &Request{Method: "GET", URL: tt.url})
			require.Error(t, err)
		})
	}
}

func TestNewClientBadCACert(t *testing.T) {
	_, err := NewClient(WithCACert("/does/not/exist.pem"))
	require.Error(t, err)
}

func TestHeaderLookupIsCaseInsensitive(t *testing.T) {
	resp := &Response{Headers: map[string]string{"Content-Type": "text/plain"}}
	assert.Equal(t, "text/plain", resp.Header("content-type"))
	assert.Equal(t, "", resp.Header("X-Missing"))
}

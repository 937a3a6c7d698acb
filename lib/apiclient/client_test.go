package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type org struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, h http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL + "/api/v1", RateLimit: -1}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoBaseURL)
}

func TestGetDecodesJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/organizations/3", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_ = json.NewEncoder(w).Encode(org{ID: 3, Name: "Acme"})
	})

	var got org
	require.NoError(t, c.Get(context.Background(), "/organizations/3", &got))
	assert.Equal(t, org{ID: 3, Name: "Acme"}, got)
}

func TestPostAndPutSendJSON(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, method, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				var in org
				require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
				in.ID = 9
				_ = json.NewEncoder(w).Encode(in)
			})

			var out org
			var err error
			if method == http.MethodPost {
				err = c.Post(context.Background(), "organizations", org{Name: "New"}, &out)
			} else {
				err = c.Put(context.Background(), "organizations/9", org{Name: "New"}, &out)
			}
			require.NoError(t, err)
			assert.Equal(t, org{ID: 9, Name: "New"}, out)
		})
	}
}

func TestDeleteEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.Delete(context.Background(), "categories/4", nil))
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Organization name already taken"}`, "Organization name already taken"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"value too long"}]}`, "field required; value too long"},
		{"no detail", http.StatusInternalServerError, `oops`, ""},
		{"empty body", http.StatusNotFound, ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			err := c.Get(context.Background(), "x", nil)
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr), "err = %v", err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.detail, apiErr.Detail)
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestMessage(t *testing.T) {
	withDetail := fmt.Errorf("save: %w", &Error{Status: 400, Detail: "Name is taken"})
	assert.Equal(t, "Name is taken", Message(withDetail, "Failed to save"))
	assert.Equal(t, "Failed to save", Message(&Error{Status: 500}, "Failed to save"))
	assert.Equal(t, "Failed to save", Message(errors.New("dial tcp: refused"), "Failed to save"))
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, IsNotFound(&Error{Status: http.StatusNotFound}))
	assert.False(t, IsNotFound(&Error{Status: http.StatusBadRequest}))
	assert.True(t, IsUnauthorized(&Error{Status: http.StatusUnauthorized}))
	assert.True(t, IsUnauthorized(&Error{Status: http.StatusForbidden}))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}

func TestAccountHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.Header.Get("X-Account-ID"))
		w.WriteHeader(http.StatusNoContent)
	}, func(cfg *Config) {
		cfg.AccountHeader = "X-Account-ID"
		cfg.AccountID = func() string { return "42" }
	})

	require.NoError(t, c.Get(context.Background(), "me", nil))
}

func TestCookiesKept(t *testing.T) {
	var sawCookie bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/login" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if ck, err := r.Cookie("session"); err == nil && ck.Value == "abc" {
			sawCookie = true
		}
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Post(context.Background(), "login", map[string]string{"id": "1"}, nil))
	require.NoError(t, c.Get(context.Background(), "organizations", nil))
	assert.True(t, sawCookie, "session cookie should be sent back")
}

func TestTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}, func(cfg *Config) {
		cfg.Timeout = 20 * time.Millisecond
	})

	err := c.Get(context.Background(), "slow", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, IsTransport(err), "timeout should be a transport failure")
}

func TestRateLimitHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, func(cfg *Config) {
		cfg.RateLimit = 0.001
		cfg.Burst = 1
	})

	require.NoError(t, c.Get(context.Background(), "a", nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := c.Get(ctx, "b", nil)
	assert.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, IsTransport(&Error{Status: 500}))
}

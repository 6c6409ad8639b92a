package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient() *Client {
	return NewClientWithLogger(zap.NewNop())
}

func TestDoReturnsClientErrorsAsResponses(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("X-Trace", "abc")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}))
	defer server.Close()

	resp, err := newTestClient().Get(context.Background(), server.URL+"/missing", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "abc", resp.Headers.Get("X-Trace"))
	assert.JSONEq(t, `{"message":"not found"}`, string(resp.Body))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDoDoesNotRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	resp, err := newTestClient().Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDoRetriesServerErrorsWhenEnabled(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	resp, err := newTestClient().Do(RequestOptions{
		Method:          http.MethodGet,
		URL:             server.URL,
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoReturnsLastServerErrorAfterRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	resp, err := newTestClient().Do(RequestOptions{
		Method:          http.MethodGet,
		URL:             server.URL,
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "boom", string(resp.Body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoEncodesBodies(t *testing.T) {
	t.Run("json by default", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var got map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, "v", got["k"])
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		resp, err := newTestClient().Post(context.Background(), server.URL, nil, map[string]any{"k": "v"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("form when requested", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			values, err := url.ParseQuery(string(raw))
			require.NoError(t, err)
			assert.Equal(t, "refresh_token", values.Get("grant_type"))
			assert.Equal(t, "abc", values.Get("refresh_token"))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		headers := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
		body := map[string]string{"grant_type": "refresh_token", "refresh_token": "abc"}
		_, err := newTestClient().Post(context.Background(), server.URL, headers, body)
		require.NoError(t, err)
	})
}

func TestDoAppendsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"a", "b"}, r.URL.Query()["tag"])
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := newTestClient().Do(RequestOptions{
		Method: http.MethodGet,
		URL:    server.URL + "/list?page=1",
		Query:  url.Values{"tag": {"a", "b"}},
	})
	require.NoError(t, err)
}

func TestDoHonorsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	_, err := newTestClient().Do(RequestOptions{
		Method:  http.MethodGet,
		URL:     server.URL,
		Timeout: 20 * time.Millisecond,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBuildURL(t *testing.T) {
	got, err := BuildURL("https://api.example.com/v1/", "/contacts/", url.Values{"limit": {"20"}})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/contacts/?limit=20", got)

	got, err = BuildURL("https://api.example.com", "locations/abc", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/locations/abc", got)

	_, err = BuildURL("not a url", "x", nil)
	assert.Error(t, err)
}

func TestMethodHelpers(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	ctx := context.Background()
	client := newTestClient()

	_, err := client.Put(ctx, server.URL, nil, map[string]any{"name": "x"})
	require.NoError(t, err)
	resp, err := client.Delete(ctx, server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, []string{http.MethodPut, http.MethodDelete}, methods)
}

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientTransfer(t *testing.T) {
	req := Request{WalletID: "wallet-1", Amount: 500, Type: Withdrawal}

	t.Run("Success", func(t *testing.T) {
		var got Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(`{"status": 200}`))
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL, time.Second, logging.Discard())
		resp, err := client.Transfer(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, resp.Succeeded())
		assert.Equal(t, req, got)
	})

	t.Run("Empty Body Uses Status Code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		resp, err := NewHTTPClient(server.URL, time.Second, logging.Discard()).Transfer(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, resp.Succeeded())
	})

	t.Run("Body Reports Failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": 402}`))
		}))
		defer server.Close()

		resp, err := NewHTTPClient(server.URL, time.Second, logging.Discard()).Transfer(context.Background(), req)
		require.NoError(t, err)
		assert.False(t, resp.Succeeded())
		assert.Equal(t, 402, resp.Status)
	})

	t.Run("Non 2xx Answer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "insufficient liquidity", http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewHTTPClient(server.URL, time.Second, logging.Discard()).Transfer(context.Background(), req)
		var httpErr *HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
		assert.Equal(t, "insufficient liquidity", httpErr.Body)
		assert.False(t, IsTransportFailure(err))
	})

	t.Run("Timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		_, err := NewHTTPClient(server.URL, 50*time.Millisecond, logging.Discard()).Transfer(context.Background(), req)
		var timeoutErr *TimeoutError
		require.True(t, errors.As(err, &timeoutErr))
		assert.True(t, IsTransportFailure(err))
	})

	t.Run("Connection Refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := NewHTTPClient(url, time.Second, logging.Discard()).Transfer(context.Background(), req)
		var unexpectedErr *UnexpectedError
		require.True(t, errors.As(err, &unexpectedErr))
		assert.True(t, IsTransportFailure(err))
	})

	t.Run("Malformed Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := NewHTTPClient(server.URL, time.Second, logging.Discard()).Transfer(context.Background(), req)
		var unexpectedErr *UnexpectedError
		assert.True(t, errors.As(err, &unexpectedErr))
	})
}

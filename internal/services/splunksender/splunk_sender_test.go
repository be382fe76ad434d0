package splunksender

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplunkSender_SendEvent(t *testing.T) {
	t.Parallel()

	record := AuditRecord{
		EventID: "test-event-id",
		Message: "corn",
		RoomID:  "room-1",
		User:    "farmer@example.com",
		Raw:     json.RawMessage(`{"data":{"id":"msg-1"}}`),
	}

	t.Run("successful delivery", func(t *testing.T) {
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "Splunk test-token", r.Header.Get("Authorization"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			var env envelope
			require.NoError(t, json.Unmarshal(body, &env))
			assert.Equal(t, "Agricultural_Bot_Data", env.SourceType)
			assert.Equal(t, "agriculture", env.Index)
			assert.Equal(t, "corn", env.Event.Message)
			assert.Equal(t, "room-1", env.Event.RoomID)
			assert.Equal(t, "farmer@example.com", env.Event.User)
			assert.JSONEq(t, `{"data":{"id":"msg-1"}}`, string(env.Event.Raw))

			w.WriteHeader(http.StatusOK)
		}))
		defer testServer.Close()

		sender := NewSplunkSender(testServer.URL, "test-token", nil)
		assert.NoError(t, sender.SendEvent(context.Background(), record))
	})

	t.Run("non-200 response", func(t *testing.T) {
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = fmt.Fprint(w, "invalid token")
		}))
		defer testServer.Close()

		sender := NewSplunkSender(testServer.URL, "test-token", nil)
		err := sender.SendEvent(context.Background(), record)
		require.Error(t, err)

		richErr, ok := richerrors.AsRichError(err)
		require.True(t, ok)
		assert.Equal(t, SplunkFailureCode, richErr.Code)
		assert.Contains(t, err.Error(), "status code 403")
	})

	t.Run("network connection failure", func(t *testing.T) {
		sender := NewSplunkSender("http://invalid.localhost:0", "test-token", nil)
		err := sender.SendEvent(context.Background(), record)
		require.Error(t, err)

		richErr, ok := richerrors.AsRichError(err)
		require.True(t, ok)
		assert.Equal(t, SplunkFailureCode, richErr.Code)
	})

	t.Run("request timeout", func(t *testing.T) {
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer testServer.Close()

		client := &http.Client{Timeout: 10 * time.Millisecond}
		sender := NewSplunkSender(testServer.URL, "test-token", client)

		err := sender.SendEvent(context.Background(), record)
		require.Error(t, err)

		richErr, ok := richerrors.AsRichError(err)
		require.True(t, ok)
		assert.Equal(t, SplunkFailureCode, richErr.Code)
	})

	t.Run("large error response body is truncated", func(t *testing.T) {
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
		}))
		defer testServer.Close()

		sender := NewSplunkSender(testServer.URL, "test-token", nil)
		err := sender.SendEvent(context.Background(), record)
		require.Error(t, err)
		assert.LessOrEqual(t, len(err.Error()), maxResponseBodySize+100)
	})
}

func TestNewSplunkSender(t *testing.T) {
	t.Parallel()

	t.Run("with nil client creates default", func(t *testing.T) {
		sender := NewSplunkSender("https://splunk.example.com", "tok", nil)
		require.NotNil(t, sender)
		require.NotNil(t, sender.client)
		assert.Equal(t, defaultSendTimeout, sender.client.Timeout)
	})

	t.Run("with custom client uses provided", func(t *testing.T) {
		client := &http.Client{Timeout: time.Second}
		sender := NewSplunkSender("https://splunk.example.com", "tok", client)
		require.NotNil(t, sender)
		assert.Equal(t, client, sender.client)
	})
}

package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/emails", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg_123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "erp@pharmacy.example")
	id, err := c.Send(context.Background(), Message{
		To:      []string{"owner@pharmacy.example"},
		Subject: "Monthly report",
		HTML:    "<p>attached</p>",
		Attachments: []Attachment{
			{Filename: "report.xlsx", Content: []byte{1, 2, 3}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)

	// Default sender applied, attachment base64-encoded.
	assert.Equal(t, "erp@pharmacy.example", got["from"])
	atts, ok := got["attachments"].([]any)
	require.True(t, ok)
	require.Len(t, atts, 1)
	att := atts[0].(map[string]any)
	assert.Equal(t, "report.xlsx", att["filename"])
	assert.Equal(t, "AQID", att["content"])
}

func TestSendRetriesTransientFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg_retry"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "erp@pharmacy.example")
	id, err := c.Send(context.Background(), Message{To: []string{"x@y.z"}, Subject: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "msg_retry", id)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestSendErrors(t *testing.T) {
	t.Run("unconfigured client", func(t *testing.T) {
		c := NewClient("http://localhost", "", "from@x.y")
		_, err := c.Send(context.Background(), Message{To: []string{"a@b.c"}})
		require.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("no recipients", func(t *testing.T) {
		c := NewClient("http://localhost", "key", "from@x.y")
		_, err := c.Send(context.Background(), Message{})
		require.Error(t, err)
	})

	t.Run("api rejection surfaces status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"invalid from"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "key", "from@x.y")
		_, err := c.Send(context.Background(), Message{To: []string{"a@b.c"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "422")
	})
}

func TestDomains(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/domains":
			_ = json.NewEncoder(w).Encode(Domain{ID: "dom_1", Name: "pharmacy.example", Status: "pending"})
		case "/domains/dom_1/verify":
			_ = json.NewEncoder(w).Encode(Domain{ID: "dom_1", Name: "pharmacy.example", Status: "verified"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "from@x.y")

	d, err := c.CreateDomain(context.Background(), "pharmacy.example")
	require.NoError(t, err)
	assert.Equal(t, "pending", d.Status)

	d, err = c.VerifyDomain(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "verified", d.Status)
}

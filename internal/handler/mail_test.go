package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailSendForwardsSenderAndAttachments(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/emails", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg_987"})
	}))
	defer srv.Close()

	h := MailHandler{Client: mail.NewClient(srv.URL, "key", "erp@pharmacy.example")}

	body := `{
		"from": "reports@pharmacy.example",
		"to": ["owner@pharmacy.example"],
		"subject": "Monthly report",
		"html": "<p>attached</p>",
		"attachments": [{"filename": "report.xlsx", "content": "AQID"}]
	}`
	w := httptest.NewRecorder()
	h.send(w, httptest.NewRequest(http.MethodPost, "/mail/send", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "msg_987")

	// Sender override and attachment reach the provider intact.
	assert.Equal(t, "reports@pharmacy.example", got["from"])
	atts, ok := got["attachments"].([]any)
	require.True(t, ok)
	require.Len(t, atts, 1)
	att := atts[0].(map[string]any)
	assert.Equal(t, "report.xlsx", att["filename"])
	assert.Equal(t, "AQID", att["content"])
}

func TestMailSendRejectsBadAttachment(t *testing.T) {
	h := MailHandler{Client: mail.NewClient("http://localhost", "key", "erp@pharmacy.example")}

	body := `{"to": ["owner@pharmacy.example"], "attachments": [{"filename": "x", "content": "not base64!!"}]}`
	w := httptest.NewRecorder()
	h.send(w, httptest.NewRequest(http.MethodPost, "/mail/send", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

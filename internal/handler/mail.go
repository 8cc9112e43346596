package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/mail"
	"github.com/go-chi/chi/v5"
)

// MailHandler sends transactional email through the configured provider and
// manages sending domains.
type MailHandler struct {
	Client *mail.Client
}

func (h MailHandler) RegisterRoutes(r chi.Router) {
	r.Post("/mail/send", h.send)
	r.Post("/mail/domains", h.createDomain)
	r.Post("/mail/domains/{id}/verify", h.verifyDomain)
}

func (h MailHandler) send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From        string   `json:"from"`
		To          []string `json:"to"`
		Subject     string   `json:"subject"`
		HTML        string   `json:"html"`
		Attachments []struct {
			Filename string `json:"filename"`
			Content  string `json:"content"`
		} `json:"attachments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(req.To) == 0 {
		writeError(w, http.StatusBadRequest, "to is required")
		return
	}
	attachments := make([]mail.Attachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		content, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			writeError(w, http.StatusBadRequest, "attachment content must be base64")
			return
		}
		attachments = append(attachments, mail.Attachment{
			Filename: a.Filename,
			Content:  content,
		})
	}
	id, err := h.Client.Send(r.Context(), mail.Message{
		From:        req.From,
		To:          req.To,
		Subject:     req.Subject,
		HTML:        req.HTML,
		Attachments: attachments,
	})
	if err != nil {
		h.writeMailError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (h MailHandler) createDomain(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	d, err := h.Client.CreateDomain(r.Context(), req.Name)
	if err != nil {
		h.writeMailError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h MailHandler) verifyDomain(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := h.Client.VerifyDomain(r.Context(), id)
	if err != nil {
		h.writeMailError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h MailHandler) writeMailError(w http.ResponseWriter, err error) {
	if errors.Is(err, mail.ErrNotConfigured) {
		writeError(w, http.StatusServiceUnavailable, "mail provider not configured")
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/service"
	"github.com/go-chi/chi/v5"
)

// TeamHandler manages the staff roster.
type TeamHandler struct {
	Repo repository.UserRepository
	Auth *service.AuthService
}

func (h TeamHandler) RegisterRoutes(r chi.Router) {
	r.Get("/team", h.list)
	r.Post("/team", h.create)
	r.Put("/team/{id}", h.update)
	r.Delete("/team/{id}", h.remove)
}

func (h TeamHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	items, err := h.Repo.ListTeam(r.Context(), user.CompanyID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, u := range items {
		resp = append(resp, teamMemberPayload(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h TeamHandler) create(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Password   string `json:"password"`
		Role       string `json:"role"`
		BaseSalary int64  `json:"baseSalary"`
		BaseHours  int    `json:"baseHours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	member, err := h.Auth.CreateTeamMember(r.Context(), user.CompanyID, service.TeamMemberInput{
		Name:       req.Name,
		Email:      strings.ToLower(req.Email),
		Phone:      req.Phone,
		Password:   req.Password,
		Role:       domain.UserRole(req.Role),
		BaseSalary: req.BaseSalary,
		BaseHours:  req.BaseHours,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, teamMemberPayload(*member))
}

func (h TeamHandler) update(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if service.CompanyOf(existing) != user.CompanyID {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	var req struct {
		Name       *string `json:"name"`
		Phone      *string `json:"phone"`
		Role       *string `json:"role"`
		BaseSalary *int64  `json:"baseSalary"`
		BaseHours  *int    `json:"baseHours"`
		Active     *bool   `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}
	if req.Role != nil {
		existing.Role = domain.UserRole(*req.Role)
	}
	if req.BaseSalary != nil {
		existing.BaseSalary.Amount = *req.BaseSalary
	}
	if req.BaseHours != nil {
		existing.BaseHours = *req.BaseHours
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}
	updated, err := h.Repo.Save(r.Context(), *existing)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teamMemberPayload(*updated))
}

func (h TeamHandler) remove(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if service.CompanyOf(existing) != user.CompanyID {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func teamMemberPayload(u domain.User) map[string]any {
	return map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"phone":      u.Phone,
		"role":       string(u.Role),
		"baseSalary": u.BaseSalary.Amount,
		"baseHours":  u.BaseHours,
		"active":     u.Active,
	}
}

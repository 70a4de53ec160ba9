package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

type userView struct {
	ID          int64          `json:"id"`
	Username    string         `json:"username"`
	DisplayName string         `json:"display_name"`
	Role        model.UserRole `json:"role"`
	Active      bool           `json:"active"`
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers()
	if err != nil {
		slog.Error("list users", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Role:        u.Role,
			Active:      u.Active,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username    string `json:"username" validate:"required"`
		DisplayName string `json:"display_name"`
		Password    string `json:"password" validate:"required,min=8"`
		Role        string `json:"role" validate:"required,oneof=terapeuta recepcao admin"`
	}
	if err := h.decodeValid(r, &payload); err != nil {
		jsonError(w, r, http.StatusBadRequest, "InvalidPayload")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if payload.DisplayName == "" {
		payload.DisplayName = payload.Username
	}

	id, err := h.store.CreateUser(model.User{
		Username:     payload.Username,
		DisplayName:  payload.DisplayName,
		PasswordHash: string(hash),
		Role:         model.UserRole(payload.Role),
		Active:       true,
	})
	if err != nil {
		slog.Error("create user", "error", err)
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, userView{
		ID:          id,
		Username:    payload.Username,
		DisplayName: payload.DisplayName,
		Role:        model.UserRole(payload.Role),
		Active:      true,
	})
}

func (h *Handler) handleToggleUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		jsonError(w, r, http.StatusBadRequest, "InvalidPayload")
		return
	}
	if err := h.store.ToggleUserActive(id); err != nil {
		slog.Error("toggle user active", "id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

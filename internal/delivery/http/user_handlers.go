package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/forum-app/backend/internal/middleware"
	"github.com/forum-app/backend/internal/usecase"
)

func pagination(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	users, total, err := h.userUsecase.List(r.Context(), limit, offset)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Users", map[string]interface{}{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "User", user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input usecase.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userUsecase.Update(r.Context(), claims, chi.URLParam(r, "username"), input)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "User updated", user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.userUsecase.Delete(r.Context(), claims, chi.URLParam(r, "username")); err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "User deleted", true)
}

type updateRolesRequest struct {
	Roles []string `json:"roles"`
}

func (h *Handler) UpdateUserRoles(w http.ResponseWriter, r *http.Request) {
	var req updateRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userUsecase.UpdateRoles(r.Context(), chi.URLParam(r, "username"), req.Roles)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Roles updated", user)
}

func (h *Handler) FollowUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.userUsecase.FollowUser(r.Context(), claims, chi.URLParam(r, "username")); err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "User followed", true)
}

func (h *Handler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.userUsecase.UnfollowUser(r.Context(), claims, chi.URLParam(r, "username")); err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "User unfollowed", true)
}

func (h *Handler) FollowTag(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.userUsecase.FollowTag(r.Context(), claims, chi.URLParam(r, "tag")); err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Tag followed", true)
}

func (h *Handler) UnfollowTag(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.userUsecase.UnfollowTag(r.Context(), claims, chi.URLParam(r, "tag")); err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Tag unfollowed", true)
}

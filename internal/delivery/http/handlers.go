package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/forum-app/backend/internal/auth"
	"github.com/forum-app/backend/internal/middleware"
	"github.com/forum-app/backend/internal/usecase"
)

type Handler struct {
	authUsecase *usecase.AuthUsecase
	userUsecase *usecase.UserUsecase
	postUsecase *usecase.PostUsecase
	codec       *auth.TokenCodec
}

func NewHandler(authUC *usecase.AuthUsecase, userUC *usecase.UserUsecase, postUC *usecase.PostUsecase, codec *auth.TokenCodec) *Handler {
	return &Handler{
		authUsecase: authUC,
		userUsecase: userUC,
		postUsecase: postUC,
		codec:       codec,
	}
}

// Auth handlers

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	_, tokens, err := h.authUsecase.Register(r.Context(), usecase.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "User registered", tokens)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, tokens, err := h.authUsecase.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Logged in", tokens)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authUsecase.Me(r.Context(), claims.UserID)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Current user", user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.authUsecase.Logout(r.Context(), claims.UserID); err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Logged out", true)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh is public, but when the client also sends a bearer token the
// refresh token must belong to the same user.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expectedUserID := uuid.Nil
	if bearer, ok := middleware.BearerToken(r); ok {
		claims, err := h.codec.Verify(bearer)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		expectedUserID = claims.UserID
	}

	token, err := h.authUsecase.Refresh(r.Context(), req.RefreshToken, expectedUserID)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Token refreshed", token)
}

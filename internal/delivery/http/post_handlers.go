package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/forum-app/backend/internal/domain"
	"github.com/forum-app/backend/internal/middleware"
	"github.com/forum-app/backend/internal/usecase"
)

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	var tags []string
	if raw := r.URL.Query().Get("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	posts, total, err := h.postUsecase.List(r.Context(), domain.PostFilter{
		Tags:   tags,
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Posts", map[string]interface{}{
		"posts":  posts,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	post, err := h.postUsecase.Get(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Post", post)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input usecase.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.postUsecase.Create(r.Context(), claims, input)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "Post created", post)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	var input usecase.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.postUsecase.Update(r.Context(), claims, id, input)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Post updated", post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	if err := h.postUsecase.Delete(r.Context(), claims, id); err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Post deleted", true)
}

func (h *Handler) UpvotePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	post, err := h.postUsecase.Upvote(r.Context(), claims, id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Post upvoted", post)
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.postUsecase.CreateComment(r.Context(), claims, postID, req.Content)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "Comment created", comment)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	limit, offset := pagination(r)
	comments, err := h.postUsecase.ListComments(r.Context(), postID, limit, offset)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Comments", comments)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}

	if err := h.postUsecase.DeleteComment(r.Context(), claims, id); err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Comment deleted", true)
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.postUsecase.ListTags(r.Context())
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Tags", tags)
}

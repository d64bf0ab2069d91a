package server

import (
	"encoding/json"
	"net/http"

	"postline/model"

	"github.com/gorilla/mux"
)

// CommentsHandler lists (GET) a page of a post's comments or creates (POST)
// a new one.
func (h *APIHandler) CommentsHandler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	switch r.Method {
	case http.MethodGet:
		page := r.URL.Query().Get("page")
		take := r.URL.Query().Get("take")

		list, err := h.commentService.GetComments(r.Context(), postID, page, take)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		userID, err := GetUserIDFromContext(r.Context())
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}

		var req model.CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
			return
		}
		if req.Content == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Content is required"})
			return
		}

		comment, err := h.commentService.Create(r.Context(), userID, postID, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, comment)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed"})
	}
}

// CommentHandler returns, rewrites or removes one comment of a post.
func (h *APIHandler) CommentHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID := vars["id"]
	commentID := vars["commentId"]

	switch r.Method {
	case http.MethodGet:
		comment, err := h.commentService.GetComment(r.Context(), postID, commentID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, comment)

	case http.MethodPatch:
		userID, err := GetUserIDFromContext(r.Context())
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}

		var req model.CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
			return
		}
		if req.Content == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Content is required"})
			return
		}

		comment, err := h.commentService.Update(r.Context(), userID, postID, commentID, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, comment)

	case http.MethodDelete:
		userID, err := GetUserIDFromContext(r.Context())
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}

		if err := h.commentService.Delete(r.Context(), userID, postID, commentID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed"})
	}
}

// CommentLikeHandler records (PATCH) or removes (DELETE) the caller's
// reaction to a comment.
func (h *APIHandler) CommentLikeHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}
	vars := mux.Vars(r)
	postID := vars["id"]
	commentID := vars["commentId"]

	switch r.Method {
	case http.MethodPatch:
		var req model.LikeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
			return
		}
		if err := h.commentService.Like(r.Context(), userID, postID, commentID, req.Like); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Reaction saved"})

	case http.MethodDelete:
		if err := h.commentService.Unlike(r.Context(), userID, postID, commentID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Reaction removed"})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed"})
	}
}

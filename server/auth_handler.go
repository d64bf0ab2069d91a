package server

import (
	"encoding/json"
	"net/http"

	"postline/logger"
	"postline/model"
)

// SignupHandler handles user registration requests.
func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	if req.Name == "" || req.UserName == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Name, userName, email and password are required"})
		return
	}
	if req.Password != req.PasswordConfirmation {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Passwords must be the same"})
		return
	}

	resp, err := h.userService.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// LoginHandler handles user login requests.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email and password are required"})
		return
	}

	access, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, access)
}

// LogoutHandler revokes the session behind the bearer credential.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	signed, err := bearerToken(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": err.Error()})
		return
	}

	if err := h.authService.Logout(r.Context(), signed); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// ConfirmAccountHandler activates the account referenced by the confirmation
// token in the query string.
func (h *APIHandler) ConfirmAccountHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Token is required"})
		return
	}

	if err := h.authService.ConfirmAccount(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account confirmed"})
}

// ProfileHandler returns or patches the caller's own profile.
func (h *APIHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		profile, err := h.userService.GetProfile(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)

	case http.MethodPatch:
		var req model.UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
			return
		}
		profile, err := h.userService.Update(r.Context(), userID, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed"})
	}
}

// UploadAvatarHandler stores the caller's avatar image.
// Expected multipart form field: avatar.
func (h *APIHandler) UploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}

	const maxAvatarSize = 5 << 20
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Failed to parse form"})
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing 'avatar' in form"})
		return
	}
	defer file.Close()

	if header.Size > maxAvatarSize {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "File too large"})
		return
	}
	contentType := header.Header.Get("Content-Type")

	servePath, err := h.userService.SetAvatar(r.Context(), userID, file, header.Size, contentType)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("Avatar uploaded", logger.String("userId", userID), logger.String("path", servePath))
	writeJSON(w, http.StatusOK, map[string]string{"avatarPath": servePath})
}

package handlers

import (
	"log/slog"
	"net/http"

	"auth-server/internal/middleware"
	"auth-server/internal/shared/errors"
	"auth-server/internal/shared/response"
)

type MeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// MeHandler returns the identity encoded in the caller's verified access token.
type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "me")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	subject, err := claims.SubjectID()
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, MeResponse{
		ID:    subject,
		Email: claims.Email,
	})
}

package handlers

import (
	"log/slog"
	"net/http"

	"auth-server/internal/shared/cookies"
	"auth-server/internal/shared/response"
)

type LogoutHandler struct{}

func NewLogoutHandler() *LogoutHandler {
	return &LogoutHandler{}
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "logout")

	cookies.ClearAuthCookie(w)

	logger.Debug("Auth cookie cleared")

	response.Success(w, http.StatusOK, map[string]string{"message": "logged out"})
}

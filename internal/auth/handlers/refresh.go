package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"auth-server/internal/auth"
	"auth-server/internal/shared/errors"
	"auth-server/internal/shared/response"
)

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// RefreshHandler issues a new access token from a valid refresh token.
type RefreshHandler struct {
	tokens *auth.TokenService
}

func NewRefreshHandler(tokens *auth.TokenService) *RefreshHandler {
	return &RefreshHandler{tokens: tokens}
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "token_refresh")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.Validation("invalid request body"))
		return
	}
	if req.RefreshToken == "" {
		response.Error(w, r, logger, errors.Validation("refreshToken is required"))
		return
	}

	// Only tokens of the refresh kind are accepted here
	claims, err := h.tokens.VerifyKind(req.RefreshToken, auth.TokenKindRefresh)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	subject, err := claims.SubjectID()
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	accessToken, err := h.tokens.MintAccess(subject, claims.Email)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	logger.Info("Access token refreshed", "subject", subject)

	response.Success(w, http.StatusOK, RefreshResponse{AccessToken: accessToken})
}

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mnemolab/mnemo-api/internal/api/shared"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/redact"
	"github.com/mnemolab/mnemo-api/internal/service/auth"
)

// AuthHandler mints token pairs for users the external account system has
// already verified, and refreshes expiring pairs. Credential handling lives
// in that system, not here.
type AuthHandler struct {
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(jwtService auth.JWTService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}

	return &AuthHandler{
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "auth_handler")),
	}
}

// MintTokenRequest represents the request body for minting a token pair.
type MintTokenRequest struct {
	UserID       string `json:"user_id" validate:"required,uuid"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// TokenResponse carries a freshly minted token pair.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	IssuedAt     time.Time `json:"issued_at"`
}

// MintToken handles POST /auth/token requests. With only a user ID it mints
// a fresh pair; with a refresh token it validates the token against the user
// before reissuing.
func (h *AuthHandler) MintToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req MintTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if req.RefreshToken != "" {
		claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
		if err != nil {
			statusCode := MapErrorToStatusCode(err)
			shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
			return
		}
		if claims.UserID != userID {
			log.Warn("refresh token does not match user",
				slog.String("user_id", userID.String()))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
	}

	accessToken, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to mint token", err)
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to mint token", err)
		return
	}

	log.Debug("token pair minted", slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		IssuedAt:     time.Now().UTC(),
	})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"server/internal/domain"
	"server/internal/middleware"
)

type clerkVerifyRequest struct {
	Token string `json:"token"`
}

type clerkVerifyResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Tier   string `json:"tier"`
}

const apiTokenTTL = 24 * time.Hour

// AuthClerkVerify exchanges a Clerk session token for this API's own short
// HMAC token. The tier is returned for display only; it is never embedded in
// the token and is re-resolved on every request.
func (a *App) AuthClerkVerify(w http.ResponseWriter, r *http.Request) {
	var req clerkVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "token required")
		return
	}
	if a.Clerk == nil {
		a.error(w, http.StatusInternalServerError, "config_error", "authentication is not configured")
		return
	}
	claims, err := a.Clerk.VerifySessionToken(r.Context(), req.Token)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("clerk verify failed")
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid session token")
		return
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid session token")
		return
	}

	tier := domain.TierFree
	if a.Plans != nil {
		tier = a.Plans.Resolve(r.Context(), sub)
	}

	token, err := middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:    sub,
		Locale: middleware.LocaleFromContext(r.Context()),
		Exp:    time.Now().Add(apiTokenTTL).Unix(),
		Issuer: "portfolio-api",
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, clerkVerifyResponse{
		Token:  token,
		UserID: sub,
		Tier:   string(tier),
	})
}

package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
	"github.com/abhay-gupta-199/kmrl-backend/internal/transport"
	"github.com/abhay-gupta-199/kmrl-backend/pkg/logger"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

type Handler struct {
	*transport.BaseHandler
	Service      ServiceAPI
	cookieSecure bool
}

func NewHandler(svc ServiceAPI, cookieSecure bool) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:  transport.NewBaseHandler(lg),
		Service:      svc,
		cookieSecure: cookieSecure,
	}
}

// Login handles POST /users/login. Tokens are returned in the body and also
// set as HttpOnly cookies.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Warn("Login: authentication failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.setSessionCookies(w, result.AccessToken, result.RefreshToken)
	h.WriteData(w, http.StatusOK, result, "User logged in successfully")
}

// RefreshToken handles POST /users/refresh-token. Accepts the refresh token
// from the body or from the session cookie.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	// body is optional; the cookie may carry the token instead
	_ = json.NewDecoder(r.Body).Decode(&dto)

	token := dto.RefreshToken
	if token == "" {
		if c, err := r.Cookie(refreshTokenCookie); err == nil {
			token = c.Value
		}
	}

	result, err := h.Service.Refresh(token)
	if err != nil {
		h.Logger.Warn("RefreshToken: refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.setSessionCookies(w, result.AccessToken, result.RefreshToken)
	h.WriteData(w, http.StatusOK, result, "Session refreshed successfully")
}

// AuthMiddleware validates the access token, loads the account and stores it
// in the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			if c, err := r.Cookie(accessTokenCookie); err == nil {
				token = c.Value
			}
		}
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("auth middleware: token validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		u, err := h.Service.GetUserByID(claims.UserID())
		if err != nil {
			h.Logger.Warn("auth middleware: account lookup failed", "user_id", claims.UserID(), "error", err)
			h.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(user.NewContext(r.Context(), u)))
	})
}

func (h *Handler) setSessionCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "labportal-service/internal/domain/auth"
	"labportal-service/internal/middleware"
	xerrors "labportal-service/internal/pkg/errors"
	"labportal-service/internal/pkg/response"
	authUsecase "labportal-service/internal/service/auth"
)

type AuthHandler struct {
	authService *authUsecase.AuthService
	signInPath  string
	logger      *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, signInPath string, logger *zap.Logger) *AuthHandler {
	if signInPath == "" {
		signInPath = "/signin"
	}
	return &AuthHandler{
		authService: authService,
		signInPath:  signInPath,
		logger:      logger,
	}
}

// ========== OAuth Bridge ==========

// OAuthCallback handles the provider redirect leg. Success and failure
// both land back on the sign-in page; the page never sees provider
// internals, only the bridge token or a fixed error code.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	code := c.Query("code")
	next := c.Query("next")

	result, err := h.authService.BridgeFromCode(c.Request.Context(), code, next)
	if err != nil {
		h.logger.Warn("oauth callback failed",
			zap.String("code", xerrors.OAuthCode(err)),
			zap.Error(err),
		)
		h.redirectSignIn(c, url.Values{"error": {xerrors.OAuthCode(err)}})
		return
	}

	h.redirectSignIn(c, url.Values{
		"token":       {result.Token},
		"callbackUrl": {result.CallbackURL},
	})
}

// OAuthExchange handles the fragment-fallback leg: the browser posts the
// provider token pair it read out of the URL fragment.
func (h *AuthHandler) OAuthExchange(c *gin.Context) {
	var req domain.OAuthExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid_body", "request body must be JSON")
		return
	}
	if req.AccessToken == "" && req.RefreshToken == "" {
		response.ValidationError(c, "missing_tokens", "access_token or refresh_token is required")
		return
	}

	result, err := h.authService.BridgeFromTokens(c.Request.Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		h.logger.Warn("oauth exchange failed",
			zap.String("code", xerrors.OAuthCode(err)),
			zap.Error(err),
		)
		switch {
		case errors.Is(err, xerrors.ErrOAuthConfig):
			response.ServiceUnavailable(c, "oauth_config")
		case errors.Is(err, xerrors.ErrOAuthNoEmail):
			response.ValidationError(c, "oauth_no_email", "identity has no email address")
		default:
			response.Unauthorized(c, "oauth_exchange", "token exchange failed")
		}
		return
	}

	response.Success(c, http.StatusOK, "bridge token issued", gin.H{
		"token":        result.Token,
		"callback_url": result.CallbackURL,
	})
}

func (h *AuthHandler) redirectSignIn(c *gin.Context, params url.Values) {
	c.Redirect(http.StatusFound, h.signInPath+"?"+params.Encode())
}

// ========== Sessions ==========

// CreateSession turns credentials (password pair or bridge token) into a
// session. Every rejection is the same 401.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var creds domain.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		response.ValidationError(c, "invalid_body", "request body must be JSON")
		return
	}

	creds.IPAddress = c.ClientIP()
	creds.UserAgent = c.GetHeader("User-Agent")

	sessionResp, err := h.authService.SignIn(c.Request.Context(), &creds)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid_credentials", "invalid credentials")
			return
		}
		h.logger.Error("session creation failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "internal_error", "could not create session")
		return
	}

	h.logger.Info("session created",
		zap.String("subject", sessionResp.User.ID),
		zap.String("role", string(sessionResp.User.Role)),
	)

	c.SetCookie(middleware.SessionCookie, sessionResp.SessionToken,
		int(time.Until(sessionResp.ExpiresAt).Seconds()), "/", "", false, true)

	response.Success(c, http.StatusOK, "session created", sessionResp)
}

// Logout invalidates the current session (requires auth).
func (h *AuthHandler) Logout(c *gin.Context) {
	subject := middleware.MustGetSubject(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), subject, jti); err != nil {
		h.logger.Error("logout failed",
			zap.String("subject", subject),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "internal_error", "logout failed")
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, "logout successful", nil)
}

// Me returns the current session's user info (requires auth).
func (h *AuthHandler) Me(c *gin.Context) {
	role, _ := middleware.GetRole(c)
	response.Success(c, http.StatusOK, "session active", domain.UserInfo{
		ID:    middleware.MustGetSubject(c),
		Email: c.GetString("email"),
		Name:  c.GetString("name"),
		Role:  role,
	})
}

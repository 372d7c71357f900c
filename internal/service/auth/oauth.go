// internal/service/auth/oauth.go
package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "labportal-service/internal/domain/auth"
	xerrors "labportal-service/internal/pkg/errors"
	"labportal-service/internal/pkg/roles"
)

// DefaultDestination is where a signed-in client lands when the requested
// destination is missing or unsafe.
const DefaultDestination = "/portal"

// BridgeFromCode completes the redirect (GET) leg of the OAuth flow:
// exchange the authorization code, require an email, resolve the role,
// ensure a profile for plain users, and mint the one-time bridge token.
func (s *AuthService) BridgeFromCode(ctx context.Context, code, next string) (*domain.BridgeResult, error) {
	if code == "" {
		return nil, xerrors.ErrOAuthMissingCode
	}

	ident, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.bridgeIdentity(ctx, ident, next)
}

// BridgeFromTokens completes the fragment-fallback (POST) leg using a
// provider-issued token pair.
func (s *AuthService) BridgeFromTokens(ctx context.Context, accessToken, refreshToken string) (*domain.BridgeResult, error) {
	ident, err := s.provider.UserFromTokens(ctx, accessToken, refreshToken)
	if err != nil {
		return nil, err
	}
	return s.bridgeIdentity(ctx, ident, "")
}

func (s *AuthService) bridgeIdentity(ctx context.Context, ident *domain.Identity, next string) (*domain.BridgeResult, error) {
	if ident.Email == "" {
		return nil, xerrors.ErrOAuthNoEmail
	}

	role := s.resolver.Resolve(ident.Email)

	if role != roles.RoleAdmin {
		if _, err := s.ensureProfile(ctx, ident); err != nil {
			// Profile bookkeeping failed; the identity is still verified
			// but this request is terminal per the no-partial-commit rule.
			s.logger.Error("profile ensure failed during bridge",
				zap.String("subject", ident.Subject),
				zap.Error(err),
			)
			return nil, xerrors.ErrOAuthExchange
		}
	}

	token, err := s.codec.Create(ident.Subject, ident.Email, role)
	if err != nil {
		s.logger.Error("bridge token mint failed", zap.Error(err))
		return nil, xerrors.ErrOAuthExchange
	}

	return &domain.BridgeResult{
		Token:       token,
		CallbackURL: SanitizeNext(next),
		Role:        role,
	}, nil
}

// SanitizeNext accepts a post-login destination only when it is a
// same-origin relative path. Anything else (absolute URLs, scheme-relative
// //host paths, empty values) falls back to the portal default, closing
// the open-redirect hole.
func SanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return DefaultDestination
	}
	return next
}

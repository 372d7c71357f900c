// internal/service/auth/auth.go
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "labportal-service/internal/domain/auth"
	"labportal-service/internal/pkg/bridgetoken"
	xerrors "labportal-service/internal/pkg/errors"
	"labportal-service/internal/pkg/jwt"
	"labportal-service/internal/pkg/roles"
	"labportal-service/internal/pkg/session"
)

// IdentityClient is the slice of the identity provider this service needs.
type IdentityClient interface {
	ExchangeCode(ctx context.Context, code string) (*domain.Identity, error)
	UserFromTokens(ctx context.Context, accessToken, refreshToken string) (*domain.Identity, error)
	PasswordGrant(ctx context.Context, email, password string) (*domain.Identity, error)
}

// ProfileStore persists client profiles.
type ProfileStore interface {
	GetBySubject(ctx context.Context, subject string) (*domain.ClientProfile, error)
	GetByEmail(ctx context.Context, email string) (*domain.ClientProfile, error)
	Create(ctx context.Context, p *domain.ClientProfile) error
}

// SessionStore is the session layer the service issues into.
type SessionStore interface {
	Create(ctx context.Context, data *session.Data) error
	Get(ctx context.Context, subject, jti string) (*session.Data, error)
	Invalidate(ctx context.Context, subject, jti string) error
	InvalidateAll(ctx context.Context, subject string) error
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)
}

// BridgeConsumer enforces single-use of bridge tokens across a shared
// store. Consume returns true exactly once per key within the TTL.
type BridgeConsumer interface {
	Consume(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type AuthService struct {
	provider IdentityClient
	profiles ProfileStore
	sessions SessionStore
	consumer BridgeConsumer
	codec    *bridgetoken.Codec
	resolver *roles.Resolver
	tokens   *jwt.Manager
	logger   *zap.Logger
}

func NewAuthService(
	provider IdentityClient,
	profiles ProfileStore,
	sessions SessionStore,
	consumer BridgeConsumer,
	codec *bridgetoken.Codec,
	resolver *roles.Resolver,
	tokens *jwt.Manager,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		provider: provider,
		profiles: profiles,
		sessions: sessions,
		consumer: consumer,
		codec:    codec,
		resolver: resolver,
		tokens:   tokens,
		logger:   logger,
	}
}

// ========== Credential Provider ==========

// Authorize is the single entry point that turns either an email/password
// pair or a one-time bridge token into an authenticated principal. Every
// rejection is ErrInvalidCredentials: callers cannot distinguish a wrong
// password from an unknown account or a stale token.
func (s *AuthService) Authorize(ctx context.Context, creds *domain.Credentials) (*domain.Principal, error) {
	if creds.Token != "" {
		return s.authorizeToken(ctx, creds.Token)
	}
	return s.authorizePassword(ctx, creds.Email, creds.Password)
}

func (s *AuthService) authorizeToken(ctx context.Context, token string) (*domain.Principal, error) {
	payload, err := s.codec.Verify(token)
	if err != nil {
		return nil, xerrors.ErrInvalidCredentials
	}

	// The codec is stateless; single use is enforced here. The marker
	// lives only as long as the token could.
	ttl := time.Until(time.Unix(payload.ExpiresAt, 0))
	first, err := s.consumer.Consume(ctx, token, ttl)
	if err != nil {
		return nil, fmt.Errorf("consume bridge token: %w", err)
	}
	if !first {
		s.logger.Warn("bridge token replay rejected", zap.String("subject", payload.Subject))
		return nil, xerrors.ErrInvalidCredentials
	}

	principal := &domain.Principal{
		ID:    payload.Subject,
		Email: payload.Email,
		Name:  emailLocalPart(payload.Email),
		Role:  payload.Role,
	}

	if payload.Role != roles.RoleAdmin {
		if profile, err := s.profiles.GetBySubject(ctx, payload.Subject); err == nil {
			principal.Name = profile.DisplayName()
		}
	}

	return principal, nil
}

func (s *AuthService) authorizePassword(ctx context.Context, email, password string) (*domain.Principal, error) {
	// Reject incomplete credentials before any external call.
	if email == "" || password == "" {
		return nil, xerrors.ErrInvalidCredentials
	}

	ident, err := s.provider.PasswordGrant(ctx, email, password)
	if err != nil {
		return nil, xerrors.ErrInvalidCredentials
	}

	role := s.resolver.Resolve(ident.Email)
	name := ident.PreferredName()

	if role != roles.RoleAdmin {
		profile, err := s.ensureProfile(ctx, ident)
		if err != nil {
			return nil, fmt.Errorf("ensure profile: %w", err)
		}
		name = profile.DisplayName()
	}

	return &domain.Principal{
		ID:    ident.Subject,
		Email: ident.Email,
		Name:  name,
		Role:  role,
	}, nil
}

// ensureProfile guarantees a ClientProfile row exists for the identity.
// Read-before-write keeps the common path cheap; the storage uniqueness
// constraint absorbs concurrent first-time authorizations.
func (s *AuthService) ensureProfile(ctx context.Context, ident *domain.Identity) (*domain.ClientProfile, error) {
	if profile, err := s.profiles.GetBySubject(ctx, ident.Subject); err == nil {
		return profile, nil
	}
	if profile, err := s.profiles.GetByEmail(ctx, ident.Email); err == nil {
		return profile, nil
	}

	profile := &domain.ClientProfile{
		Subject:  ident.Subject,
		Email:    ident.Email,
		FullName: sql.NullString{String: ident.PreferredName(), Valid: true},
		Phone:    sql.NullString{String: ident.Phone, Valid: ident.Phone != ""},
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("client profile created",
		zap.String("subject", ident.Subject),
		zap.String("email", ident.Email),
	)
	return profile, nil
}

// ========== Sessions ==========

// SignIn authorizes the credentials and issues a session.
func (s *AuthService) SignIn(ctx context.Context, creds *domain.Credentials) (*domain.SessionResponse, error) {
	principal, err := s.Authorize(ctx, creds)
	if err != nil {
		return nil, err
	}

	token, jti, err := s.tokens.Generate(principal.ID, principal.Email, principal.Role)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	expiresAt := time.Now().Add(s.tokens.TTL)
	data := &session.Data{
		JTI:            jti,
		Subject:        principal.ID,
		Email:          principal.Email,
		Name:           principal.Name,
		Role:           principal.Role,
		IPAddress:      creds.IPAddress,
		UserAgent:      creds.UserAgent,
		LoginAt:        time.Now(),
		LastActivityAt: time.Now(),
		ExpiresAt:      expiresAt,
	}
	if err := s.sessions.Create(ctx, data); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &domain.SessionResponse{
		SessionToken: token,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
		User: domain.UserInfo{
			ID:    principal.ID,
			Email: principal.Email,
			Name:  principal.Name,
			Role:  principal.Role,
		},
	}, nil
}

// Logout invalidates the session and blacklists its token for the rest of
// its lifetime.
func (s *AuthService) Logout(ctx context.Context, subject, jti string) error {
	if err := s.sessions.Invalidate(ctx, subject, jti); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	if err := s.sessions.BlacklistToken(ctx, jti, s.tokens.TTL); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// ValidateToken verifies a session token and loads its backing session.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*session.Data, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, xerrors.ErrSessionExpired
	}

	blacklisted, err := s.sessions.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if blacklisted {
		return nil, xerrors.ErrSessionExpired
	}

	data, err := s.sessions.Get(ctx, claims.Subject, claims.ID)
	if err != nil {
		return nil, xerrors.ErrSessionExpired
	}
	return data, nil
}

func emailLocalPart(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}

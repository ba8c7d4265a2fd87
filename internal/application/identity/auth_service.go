package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/bizsuite/backend/internal/domain/company"
	"github.com/bizsuite/backend/internal/domain/core"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/bizsuite/backend/internal/infrastructure/auth"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Error codes returned by the auth service.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenRevoked       = "TOKEN_REVOKED"
)

var (
	errInvalidCredentials = shared.NewDomainError(CodeInvalidCredentials, "Invalid email or password.")
	errInvalidToken       = shared.NewDomainError(CodeInvalidToken, "Token is invalid.")
	errTokenExpired       = shared.NewDomainError(CodeTokenExpired, "Token has expired.")
	errTokenRevoked       = shared.NewDomainError(CodeTokenRevoked, "Token has been revoked.")
)

// AuthService handles registration, login and the token lifecycle.
type AuthService struct {
	store     shared.Store
	tokens    *auth.JWTService
	blacklist auth.TokenBlacklist
	now       shared.Clock
}

// NewAuthService creates a new authentication service
func NewAuthService(store shared.Store, tokens *auth.JWTService, blacklist auth.TokenBlacklist, clock shared.Clock) *AuthService {
	if clock == nil {
		clock = shared.SystemClock
	}
	return &AuthService{
		store:     store,
		tokens:    tokens,
		blacklist: blacklist,
		now:       clock,
	}
}

// Register creates an account and signs it in. A new account belongs to
// no company until one is created or joined.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*TokenResult, error) {
	user := &core.User{}
	user.Defaults()
	user.Email = input.Email
	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.LastLoginIP = input.IP
	user.Normalize()
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	now := s.now()
	user.ID = uuid.New()
	user.StampCreated(user.ID, now)

	env := &validation.Env{Ctx: ctx, Store: s.store, Now: now, Creating: true, ID: user.ID}
	if err := core.UserRules.Validate(user, env); err != nil {
		return nil, err
	}
	if err := s.store.Transaction(ctx, func(ctx context.Context) error {
		return s.store.Create(ctx, user)
	}); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("user registered", zap.String("user_id", user.ID.String()))
	return s.issue(user, nil)
}

// Login checks the credentials and issues tokens acting for the requested
// company, or for the oldest active membership when none is requested.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenResult, error) {
	probe := core.User{Email: input.Email}
	probe.Normalize()

	var user core.User
	if err := s.store.First(ctx, &user, shared.Scope{}, shared.Eq("email", probe.Email)); err != nil {
		if shared.IsNotFound(err) {
			logger.L(ctx).Warn("login for unknown email")
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.CheckPassword(input.Password) {
		logger.L(ctx).Warn("login rejected", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}

	companyID, err := s.selectCompany(ctx, user.ID, input.CompanyID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateColumns(ctx, &core.User{}, map[string]any{
		"last_login_ip": input.IP,
		"updated_at":    s.now(),
	}, shared.Eq("id", user.ID)); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("user logged in", zap.String("user_id", user.ID.String()))
	return s.issue(&user, companyID)
}

// Refresh exchanges a refresh token for a new pair. The old refresh token
// is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResult, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, errInvalidToken
	}
	var user core.User
	if err := s.store.First(ctx, &user, shared.Scope{}, shared.Eq("id", userID)); err != nil {
		if shared.IsNotFound(err) {
			return nil, errInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errInvalidCredentials
	}

	// A membership lost since the last refresh falls back to the default
	// company rather than failing the refresh.
	companyID := claims.GetCompanyUUID()
	if companyID != nil {
		ok, err := s.isActiveMember(ctx, user.ID, *companyID)
		if err != nil {
			return nil, err
		}
		if !ok {
			companyID = nil
		}
	}
	if companyID == nil {
		if companyID, err = s.selectCompany(ctx, user.ID, nil); err != nil {
			return nil, err
		}
	}

	pair, err := s.tokens.RefreshTokenPair(refreshToken, subjectOf(&user, companyID))
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return nil, err
	}
	return resultOf(pair, &user, companyID), nil
}

// Logout revokes the access token and, when given, the refresh token.
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, refreshToken string) error {
	if err := s.blacklist.AddToBlacklist(ctx, access.ID, access.GetRemainingTTL()); err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		// An unusable refresh token needs no revocation.
		return nil
	}
	if claims.UserID != access.UserID {
		return errInvalidToken
	}
	return s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL())
}

// IsRevoked reports whether the token has been logged out.
func (s *AuthService) IsRevoked(ctx context.Context, claims *auth.Claims) (bool, error) {
	return s.blacklist.IsBlacklisted(ctx, claims.ID)
}

// Me returns the acting user and every company they belong to.
func (s *AuthService) Me(ctx context.Context, p shared.Principal) (*CurrentUserResult, error) {
	var user core.User
	if err := s.store.First(ctx, &user, shared.Scope{}, shared.Eq("id", p.UserID)); err != nil {
		return nil, err
	}

	var members []company.CompanyUser
	if err := s.store.Find(ctx, &members, shared.Scope{}, "created_at asc", shared.Eq("user_id", user.ID)); err != nil {
		return nil, err
	}
	names := map[uuid.UUID]string{}
	if len(members) > 0 {
		ids := make([]uuid.UUID, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.CompanyID)
		}
		var companies []company.Company
		if err := s.store.Find(ctx, &companies, shared.Scope{}, "", shared.Cond{Expr: "id IN ?", Args: []any{ids}}); err != nil {
			return nil, err
		}
		for _, c := range companies {
			names[c.ID] = c.BusinessName
		}
	}

	result := &CurrentUserResult{
		User:        userInfo(&user, p.CompanyID),
		Memberships: make([]MembershipInfo, 0, len(members)),
	}
	for _, m := range members {
		result.Memberships = append(result.Memberships, MembershipInfo{
			CompanyID:    m.CompanyID,
			BusinessName: names[m.CompanyID],
			AccessLevel:  string(m.AccessLevel),
			Status:       string(m.Status),
		})
	}
	return result, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return errTokenRevoked
	}
	return nil
}

// selectCompany returns requested when the user actively belongs to it,
// or the user's oldest active membership when nothing is requested.
func (s *AuthService) selectCompany(ctx context.Context, userID uuid.UUID, requested *uuid.UUID) (*uuid.UUID, error) {
	if requested != nil {
		ok, err := s.isActiveMember(ctx, userID, *requested)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, shared.BoundaryError("company_id", "You are not an active member of this company.")
		}
		id := *requested
		return &id, nil
	}

	var members []company.CompanyUser
	if err := s.store.Find(ctx, &members, shared.Scope{}, "created_at asc",
		shared.Eq("user_id", userID), shared.Eq("status", company.MemberActive)); err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	id := members[0].CompanyID
	return &id, nil
}

func (s *AuthService) isActiveMember(ctx context.Context, userID, companyID uuid.UUID) (bool, error) {
	return s.store.Exists(ctx, &company.CompanyUser{}, shared.CompanyScope(companyID),
		shared.Eq("user_id", userID), shared.Eq("status", company.MemberActive))
}

func (s *AuthService) issue(user *core.User, companyID *uuid.UUID) (*TokenResult, error) {
	pair, err := s.tokens.GenerateTokenPair(subjectOf(user, companyID))
	if err != nil {
		return nil, err
	}
	return resultOf(pair, user, companyID), nil
}

func subjectOf(user *core.User, companyID *uuid.UUID) auth.Subject {
	return auth.Subject{
		UserID:    user.ID,
		CompanyID: companyID,
		Email:     user.Email,
		IsStaff:   user.IsStaff,
	}
}

func resultOf(pair *auth.TokenPair, user *core.User, companyID *uuid.UUID) *TokenResult {
	return &TokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  userInfo(user, companyID),
	}
}

func userInfo(user *core.User, companyID *uuid.UUID) UserInfo {
	return UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
		IsStaff:   user.IsStaff,
		Locale:    user.Locale,
		CompanyID: companyID,
	}
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return errTokenExpired
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError(CodeTokenExpired, "Session has reached its refresh limit. Please log in again.")
	default:
		return errInvalidToken
	}
}

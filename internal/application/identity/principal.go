package identity

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/company"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/auth"
	"github.com/bizsuite/backend/internal/infrastructure/cache"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PrincipalResolver turns validated token claims into the acting
// principal. The company carried by the token is honoured only while the
// user is still an active member of it.
type PrincipalResolver struct {
	store       shared.Store
	memberships cache.MembershipCache
}

// NewPrincipalResolver creates a resolver. memberships may be nil.
func NewPrincipalResolver(store shared.Store, memberships cache.MembershipCache) *PrincipalResolver {
	return &PrincipalResolver{store: store, memberships: memberships}
}

// Resolve builds the principal of claims. requested overrides the company
// of the token, as sent in the X-Company-ID header.
func (r *PrincipalResolver) Resolve(ctx context.Context, claims *auth.Claims, requested *uuid.UUID, ip, userAgent string) (shared.Principal, error) {
	userID, err := claims.GetUserUUID()
	if err != nil {
		return shared.Principal{}, errInvalidToken
	}
	p := shared.Principal{
		UserID:    userID,
		IsStaff:   claims.IsStaff,
		IP:        ip,
		UserAgent: userAgent,
	}

	companyID := claims.GetCompanyUUID()
	if requested != nil {
		companyID = requested
	}
	if companyID == nil {
		return p, nil
	}

	m, err := r.membership(ctx, userID, *companyID)
	if err != nil {
		return shared.Principal{}, err
	}
	if !m.Member {
		if requested != nil {
			return shared.Principal{}, shared.BoundaryError("company_id", "You are not an active member of this company.")
		}
		return p, nil
	}
	id := *companyID
	p.CompanyID = &id
	p.AccessLevel = m.AccessLevel
	return p, nil
}

// ActAs builds the principal of userID working in companyID outside a
// request, as background jobs do. It fails with a boundary error unless
// the user is an active member of the company.
func (r *PrincipalResolver) ActAs(ctx context.Context, userID, companyID uuid.UUID) (shared.Principal, error) {
	refused := shared.BoundaryError("company_id", "You are not an active member of this company.")
	if userID == uuid.Nil {
		return shared.Principal{}, refused
	}
	m, err := r.membership(ctx, userID, companyID)
	if err != nil {
		return shared.Principal{}, err
	}
	if !m.Member {
		return shared.Principal{}, refused
	}
	return shared.Principal{UserID: userID, CompanyID: &companyID, AccessLevel: m.AccessLevel}, nil
}

func (r *PrincipalResolver) membership(ctx context.Context, userID, companyID uuid.UUID) (cache.Membership, error) {
	if r.memberships != nil {
		m, ok, err := r.memberships.Get(ctx, userID, companyID)
		if err != nil {
			logger.L(ctx).Warn("membership cache read failed", zap.Error(err))
		} else if ok {
			return m, nil
		}
	}

	var member company.CompanyUser
	m := cache.Membership{}
	err := r.store.First(ctx, &member, shared.CompanyScope(companyID),
		shared.Eq("user_id", userID), shared.Eq("status", company.MemberActive))
	switch {
	case err == nil:
		m = cache.Membership{Member: true, AccessLevel: string(member.AccessLevel)}
	case !shared.IsNotFound(err):
		return cache.Membership{}, err
	}

	if r.memberships != nil {
		if err := r.memberships.Set(ctx, userID, companyID, m); err != nil {
			logger.L(ctx).Warn("membership cache write failed", zap.Error(err))
		}
	}
	return m, nil
}

// Forget drops the cached membership of userID in companyID.
func (r *PrincipalResolver) Forget(ctx context.Context, userID, companyID uuid.UUID) error {
	if r.memberships == nil {
		return nil
	}
	return r.memberships.Invalidate(ctx, userID, companyID)
}

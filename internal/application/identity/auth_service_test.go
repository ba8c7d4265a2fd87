package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/application/identity"
	"github.com/bizsuite/backend/internal/domain/company"
	"github.com/bizsuite/backend/internal/domain/core"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/auth"
	"github.com/bizsuite/backend/internal/infrastructure/cache"
	"github.com/bizsuite/backend/internal/infrastructure/config"
	"github.com/bizsuite/backend/internal/infrastructure/persistence"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type env struct {
	db        *gorm.DB
	store     shared.Store
	tokens    *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	svc       *identity.AuthService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	store := persistence.NewGormStore(db)
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "bizsuite-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	return &env{
		db:        db,
		store:     store,
		tokens:    tokens,
		blacklist: blacklist,
		svc:       identity.NewAuthService(store, tokens, blacklist, func() time.Time { return fixedNow }),
	}
}

func (e *env) register(t *testing.T, email string) *identity.TokenResult {
	t.Helper()
	res, err := e.svc.Register(context.Background(), identity.RegisterInput{
		Email:     email,
		Password:  "s3cret-pass",
		FirstName: "Ana",
		LastName:  "Martin",
	})
	require.NoError(t, err)
	return res
}

func (e *env) company(t *testing.T, name string) uuid.UUID {
	t.Helper()
	c := &company.Company{}
	c.Defaults()
	c.OwnerID = uuid.New()
	c.BusinessName = name
	c.TaxID = "FR" + uuid.NewString()[:8]
	c.StampCreated(uuid.Nil, fixedNow)
	require.NoError(t, e.db.Create(c).Error)
	return c.ID
}

func (e *env) member(t *testing.T, userID, companyID uuid.UUID, status company.MemberStatus, at time.Time) {
	t.Helper()
	m := &company.CompanyUser{}
	m.Defaults()
	m.CompanyID = companyID
	m.UserID = userID
	m.Status = status
	m.AccessLevel = company.AccessManager
	m.StampCreated(uuid.Nil, at)
	require.NoError(t, e.db.Create(m).Error)
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	if ve, ok := shared.AsValidation(err); ok {
		assert.Equal(t, code, ve.Code)
		return
	}
	de, ok := err.(*shared.DomainError)
	require.True(t, ok, "unexpected error %T: %v", err, err)
	assert.Equal(t, code, de.Code)
}

func TestRegister_CreatesUserWithoutCompany(t *testing.T) {
	e := newEnv(t)

	res := e.register(t, " ana@ACME.FR ")

	assert.Equal(t, "ana@acme.fr", res.User.Email)
	assert.Equal(t, "Ana Martin", res.User.FullName)
	assert.Nil(t, res.User.CompanyID)
	assert.Equal(t, "Bearer", res.TokenType)

	claims, err := e.tokens.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.UserID)
	assert.Empty(t, claims.CompanyID)

	var stored core.User
	require.NoError(t, e.db.First(&stored, "id = ?", res.User.ID).Error)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.True(t, stored.CheckPassword("s3cret-pass"))
	require.NotNil(t, stored.CreatedBy)
	assert.Equal(t, stored.ID, *stored.CreatedBy)
	assert.Equal(t, "fr-FR", stored.Locale)
}

func TestRegister_Rejects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "ana@acme.fr")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := e.svc.Register(ctx, identity.RegisterInput{Email: "ana@ACME.fr", Password: "another-pass"})
		requireCode(t, err, shared.CodeAlreadyExists)
		ve, _ := shared.AsValidation(err)
		assert.True(t, ve.Has("email"))
	})
	t.Run("short password", func(t *testing.T) {
		_, err := e.svc.Register(ctx, identity.RegisterInput{Email: "bob@acme.fr", Password: "short"})
		requireCode(t, err, shared.CodeValidation)
		ve, _ := shared.AsValidation(err)
		assert.True(t, ve.Has("password"))
	})
	t.Run("malformed email", func(t *testing.T) {
		_, err := e.svc.Register(ctx, identity.RegisterInput{Email: "not-an-email", Password: "long-enough"})
		requireCode(t, err, shared.CodeValidation)
		ve, _ := shared.AsValidation(err)
		assert.True(t, ve.Has("email"))
	})
}

func TestLogin_InvalidCredentials(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reg := e.register(t, "ana@acme.fr")

	_, err := e.svc.Login(ctx, identity.LoginInput{Email: "ana@acme.fr", Password: "wrong-pass"})
	requireCode(t, err, identity.CodeInvalidCredentials)

	_, err = e.svc.Login(ctx, identity.LoginInput{Email: "nobody@acme.fr", Password: "s3cret-pass"})
	requireCode(t, err, identity.CodeInvalidCredentials)

	require.NoError(t, e.db.Model(&core.User{}).Where("id = ?", reg.User.ID).Update("is_active", false).Error)
	_, err = e.svc.Login(ctx, identity.LoginInput{Email: "ana@acme.fr", Password: "s3cret-pass"})
	requireCode(t, err, identity.CodeInvalidCredentials)
}

func TestLogin_PicksOldestActiveMembership(t *testing.T) {
	e := newEnv(t)
	reg := e.register(t, "ana@acme.fr")
	pending := e.company(t, "Pending SARL")
	older := e.company(t, "Older SAS")
	newer := e.company(t, "Newer SAS")
	e.member(t, reg.User.ID, pending, company.MemberPending, fixedNow.Add(-72*time.Hour))
	e.member(t, reg.User.ID, older, company.MemberActive, fixedNow.Add(-48*time.Hour))
	e.member(t, reg.User.ID, newer, company.MemberActive, fixedNow.Add(-24*time.Hour))

	res, err := e.svc.Login(context.Background(), identity.LoginInput{
		Email:    "ana@acme.fr",
		Password: "s3cret-pass",
		IP:       "10.0.0.7",
	})
	require.NoError(t, err)
	require.NotNil(t, res.User.CompanyID)
	assert.Equal(t, older, *res.User.CompanyID)

	claims, err := e.tokens.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, older.String(), claims.CompanyID)

	var stored core.User
	require.NoError(t, e.db.First(&stored, "id = ?", reg.User.ID).Error)
	assert.Equal(t, "10.0.0.7", stored.LastLoginIP)
}

func TestLogin_RequestedCompany(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reg := e.register(t, "ana@acme.fr")
	first := e.company(t, "First SAS")
	second := e.company(t, "Second SAS")
	stranger := e.company(t, "Stranger SAS")
	e.member(t, reg.User.ID, first, company.MemberActive, fixedNow.Add(-48*time.Hour))
	e.member(t, reg.User.ID, second, company.MemberActive, fixedNow.Add(-24*time.Hour))

	res, err := e.svc.Login(ctx, identity.LoginInput{Email: "ana@acme.fr", Password: "s3cret-pass", CompanyID: &second})
	require.NoError(t, err)
	assert.Equal(t, second, *res.User.CompanyID)

	_, err = e.svc.Login(ctx, identity.LoginInput{Email: "ana@acme.fr", Password: "s3cret-pass", CompanyID: &stranger})
	requireCode(t, err, shared.CodeTenantBoundary)
}

func TestRefresh_RotatesRefreshToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reg := e.register(t, "ana@acme.fr")
	acme := e.company(t, "Acme SAS")
	e.member(t, reg.User.ID, acme, company.MemberActive, fixedNow)

	next, err := e.svc.Refresh(ctx, reg.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, next.User.CompanyID)
	assert.Equal(t, acme, *next.User.CompanyID)

	claims, err := e.tokens.ValidateRefreshToken(next.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.RefreshCount)

	_, err = e.svc.Refresh(ctx, reg.RefreshToken)
	requireCode(t, err, identity.CodeTokenRevoked)

	_, err = e.svc.Refresh(ctx, "garbage")
	requireCode(t, err, identity.CodeInvalidToken)
}

func TestRefresh_DropsLostMembership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reg := e.register(t, "ana@acme.fr")
	acme := e.company(t, "Acme SAS")
	e.member(t, reg.User.ID, acme, company.MemberActive, fixedNow)

	login, err := e.svc.Login(ctx, identity.LoginInput{Email: "ana@acme.fr", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotNil(t, login.User.CompanyID)

	require.NoError(t, e.db.Model(&company.CompanyUser{}).
		Where("user_id = ?", reg.User.ID).Update("status", company.MemberInactive).Error)

	next, err := e.svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.Nil(t, next.User.CompanyID)
}

func TestLogout_RevokesTokens(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reg := e.register(t, "ana@acme.fr")
	access, err := e.tokens.ValidateAccessToken(reg.AccessToken)
	require.NoError(t, err)

	revoked, err := e.svc.IsRevoked(ctx, access)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, e.svc.Logout(ctx, access, reg.RefreshToken))

	revoked, err = e.svc.IsRevoked(ctx, access)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = e.svc.Refresh(ctx, reg.RefreshToken)
	requireCode(t, err, identity.CodeTokenRevoked)
}

func TestLogout_RejectsForeignRefreshToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.register(t, "ana@acme.fr")
	bob := e.register(t, "bob@acme.fr")
	access, err := e.tokens.ValidateAccessToken(ana.AccessToken)
	require.NoError(t, err)

	err = e.svc.Logout(ctx, access, bob.RefreshToken)
	requireCode(t, err, identity.CodeInvalidToken)
}

func TestMe_ListsMemberships(t *testing.T) {
	e := newEnv(t)
	reg := e.register(t, "ana@acme.fr")
	acme := e.company(t, "Acme SAS")
	globex := e.company(t, "Globex SARL")
	e.member(t, reg.User.ID, acme, company.MemberActive, fixedNow.Add(-time.Hour))
	e.member(t, reg.User.ID, globex, company.MemberPending, fixedNow)

	me, err := e.svc.Me(context.Background(), shared.Principal{UserID: reg.User.ID, CompanyID: &acme})
	require.NoError(t, err)

	assert.Equal(t, "ana@acme.fr", me.User.Email)
	assert.Equal(t, &acme, me.User.CompanyID)
	require.Len(t, me.Memberships, 2)
	assert.Equal(t, identity.MembershipInfo{
		CompanyID:    acme,
		BusinessName: "Acme SAS",
		AccessLevel:  string(company.AccessManager),
		Status:       string(company.MemberActive),
	}, me.Memberships[0])
	assert.Equal(t, "Globex SARL", me.Memberships[1].BusinessName)
	assert.Equal(t, string(company.MemberPending), me.Memberships[1].Status)
}

func TestMe_UnknownUser(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Me(context.Background(), shared.Principal{UserID: uuid.New()})
	assert.True(t, shared.IsNotFound(err))
}

func TestPrincipalResolver(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reg := e.register(t, "ana@acme.fr")
	acme := e.company(t, "Acme SAS")
	stranger := e.company(t, "Stranger SAS")
	e.member(t, reg.User.ID, acme, company.MemberActive, fixedNow)

	memberships := cache.NewInMemoryMembershipCache(time.Minute)
	resolver := identity.NewPrincipalResolver(e.store, memberships)

	pair, err := e.tokens.GenerateTokenPair(auth.Subject{UserID: reg.User.ID, CompanyID: &acme, Email: "ana@acme.fr"})
	require.NoError(t, err)
	claims, err := e.tokens.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	t.Run("token company", func(t *testing.T) {
		p, err := resolver.Resolve(ctx, claims, nil, "10.0.0.1", "curl")
		require.NoError(t, err)
		require.NotNil(t, p.CompanyID)
		assert.Equal(t, acme, *p.CompanyID)
		assert.Equal(t, string(company.AccessManager), p.AccessLevel)
		assert.Equal(t, "10.0.0.1", p.IP)
		assert.Equal(t, "curl", p.UserAgent)
	})
	t.Run("requested company without membership", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, claims, &stranger, "", "")
		requireCode(t, err, shared.CodeTenantBoundary)
	})
	t.Run("membership served from cache until forgotten", func(t *testing.T) {
		require.NoError(t, e.db.Where("user_id = ?", reg.User.ID).Delete(&company.CompanyUser{}).Error)

		p, err := resolver.Resolve(ctx, claims, nil, "", "")
		require.NoError(t, err)
		assert.True(t, p.HasCompany())

		require.NoError(t, resolver.Forget(ctx, reg.User.ID, acme))
		p, err = resolver.Resolve(ctx, claims, nil, "", "")
		require.NoError(t, err)
		assert.False(t, p.HasCompany())
		assert.Equal(t, reg.User.ID, p.UserID)
	})
}

func TestPrincipalResolver_ActAs(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reg := e.register(t, "ana@acme.fr")
	acme := e.company(t, "Acme SAS")
	globex := e.company(t, "Globex SARL")
	e.member(t, reg.User.ID, acme, company.MemberActive, fixedNow)
	e.member(t, reg.User.ID, globex, company.MemberInactive, fixedNow)
	resolver := identity.NewPrincipalResolver(e.store, nil)

	p, err := resolver.ActAs(ctx, reg.User.ID, acme)
	require.NoError(t, err)
	require.NotNil(t, p.CompanyID)
	assert.Equal(t, acme, *p.CompanyID)
	assert.Equal(t, reg.User.ID, p.UserID)
	assert.Equal(t, string(company.AccessManager), p.AccessLevel)

	_, err = resolver.ActAs(ctx, reg.User.ID, globex)
	requireCode(t, err, shared.CodeTenantBoundary)

	_, err = resolver.ActAs(ctx, uuid.Nil, acme)
	requireCode(t, err, shared.CodeTenantBoundary)
}

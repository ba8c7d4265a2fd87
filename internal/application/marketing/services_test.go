package marketing_test

import (
	"context"
	"testing"
	"time"

	appmarketing "github.com/bizsuite/backend/internal/application/marketing"
	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/marketing"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newServices(t *testing.T) *appmarketing.Services {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	return appmarketing.NewServices(persistence.NewGormStore(db), func() time.Time { return fixedNow })
}

func principal() shared.Principal {
	company := uuid.New()
	return shared.Principal{UserID: uuid.New(), CompanyID: &company}
}

func createCampaign(t *testing.T, svcs *appmarketing.Services, p shared.Principal) *marketing.Campaign {
	t.Helper()
	c, err := svcs.Campaigns.Create(context.Background(), p, func(c *marketing.Campaign) error {
		c.Name = "Spring launch"
		c.CampaignType = marketing.CampaignEmail
		c.StartDate = fixedNow
		c.Budget = decimal.NewFromInt(1000)
		return nil
	})
	require.NoError(t, err)
	return c
}

func emailCampaign(campaignID uuid.UUID) func(e *marketing.EmailCampaign) error {
	return func(e *marketing.EmailCampaign) error {
		e.CampaignID = campaignID
		e.Subject = "New collection"
		e.ContentHTML = "<p>Hello</p>"
		e.SenderName = "Acme"
		e.SenderEmail = " news@acme.fr "
		e.RecipientList = datatypes.JSON(`["ana@acme.fr","bob@acme.fr"]`)
		return nil
	}
}

func TestRegister(t *testing.T) {
	reg := resource.NewRegistry()
	newServices(t).Register(reg)

	assert.Equal(t, []string{
		"marketing.automations",
		"marketing.campaigns",
		"marketing.content",
		"marketing.email-campaigns",
		"marketing.leads",
		"marketing.metrics",
	}, reg.Keys())
}

func TestCampaign_Rules(t *testing.T) {
	svcs := newServices(t)
	p := principal()

	end := fixedNow.AddDate(0, 0, -1)
	_, err := svcs.Campaigns.Create(context.Background(), p, func(c *marketing.Campaign) error {
		c.Name = "Spring launch"
		c.CampaignType = marketing.CampaignEmail
		c.StartDate = fixedNow
		c.EndDate = &end
		return nil
	})
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.True(t, ve.Has("budget"))
	assert.True(t, ve.Has("end_date"))

	c := createCampaign(t, svcs, p)
	assert.Equal(t, marketing.CampaignDraft, c.Status)
	assert.JSONEq(t, `[]`, string(c.Channels))
}

func TestEmailCampaign_Create(t *testing.T) {
	svcs := newServices(t)
	p := principal()
	campaign := createCampaign(t, svcs, p)

	e, err := svcs.EmailCampaigns.Create(context.Background(), p, emailCampaign(campaign.ID))
	require.NoError(t, err)
	assert.Equal(t, "news@acme.fr", e.SenderEmail)
	assert.Equal(t, marketing.EmailDraft, e.Status)
}

func TestEmailCampaign_Rules(t *testing.T) {
	svcs := newServices(t)
	p := principal()
	campaign := createCampaign(t, svcs, p)

	past := fixedNow.Add(-time.Hour)
	_, err := svcs.EmailCampaigns.Create(context.Background(), p, func(e *marketing.EmailCampaign) error {
		require.NoError(t, emailCampaign(campaign.ID)(e))
		e.RecipientList = datatypes.JSON(`["ana@acme.fr","not-an-email"]`)
		e.ScheduledTime = &past
		return nil
	})
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.True(t, ve.Has("recipient_list"))
	assert.True(t, ve.Has("scheduled_time"))
}

func TestEmailCampaign_ForeignCampaignCrossesTenant(t *testing.T) {
	svcs := newServices(t)
	owner, other := principal(), principal()
	campaign := createCampaign(t, svcs, owner)

	_, err := svcs.EmailCampaigns.Create(context.Background(), other, emailCampaign(campaign.ID))
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, shared.CodeTenantBoundary, ve.Code)
	assert.True(t, ve.Has("campaign_id"))
}

func TestAutomation_TriggerConditions(t *testing.T) {
	svcs := newServices(t)
	p := principal()

	tests := []struct {
		name       string
		trigger    marketing.TriggerType
		conditions string
		actions    string
		invalid    []string
	}{
		{"missing conditions and actions", marketing.TriggerBehavior, `{}`, `[]`, []string{"trigger_conditions", "actions"}},
		{"event without name", marketing.TriggerEvent, `{"delay":5}`, `[{"type":"email"}]`, []string{"trigger_conditions"}},
		{"schedule without schedule", marketing.TriggerSchedule, `{"event_name":"signup"}`, `[{"type":"email"}]`, []string{"trigger_conditions"}},
		{"actions not a list", marketing.TriggerBehavior, `{"page":"/pricing"}`, `{"type":"email"}`, []string{"actions"}},
		{"valid event", marketing.TriggerEvent, `{"event_name":"signup"}`, `[{"type":"email"}]`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := svcs.Automations.Create(context.Background(), p, func(a *marketing.Automation) error {
				a.Name = "Welcome"
				a.TriggerType = tt.trigger
				a.TriggerConditions = datatypes.JSON(tt.conditions)
				a.Actions = datatypes.JSON(tt.actions)
				return nil
			})
			if tt.invalid == nil {
				require.NoError(t, err)
				assert.True(t, a.IsActive)
				return
			}
			ve, ok := shared.AsValidation(err)
			require.True(t, ok, "got %v", err)
			for _, field := range tt.invalid {
				assert.True(t, ve.Has(field), field)
			}
		})
	}
}

func TestLead_ContactInfo(t *testing.T) {
	svcs := newServices(t)
	p := principal()

	tests := []struct {
		name    string
		info    string
		score   int
		invalid string
	}{
		{"empty contact info", `{}`, 10, "contact_info"},
		{"bad email", `{"email":"ana"}`, 10, "contact_info"},
		{"short phone", `{"phone":"01 23"}`, 10, "contact_info"},
		{"score above range", `{"email":"ana@acme.fr"}`, 101, "score"},
		{"valid", `{"email":"ana@acme.fr","phone":"+33 1 23 45 67 89"}`, 80, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead, err := svcs.Leads.Create(context.Background(), p, func(l *marketing.Lead) error {
				l.Source = "website"
				l.ContactInfo = datatypes.JSON(tt.info)
				l.Score = tt.score
				return nil
			})
			if tt.invalid == "" {
				require.NoError(t, err)
				assert.Equal(t, marketing.LeadNew, lead.Status)
				return
			}
			ve, ok := shared.AsValidation(err)
			require.True(t, ok, "got %v", err)
			assert.True(t, ve.Has(tt.invalid))
		})
	}
}

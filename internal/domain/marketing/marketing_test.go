package marketing

import (
	"context"
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/storetest"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

var now = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func env() *validation.Env {
	return &validation.Env{
		Ctx:       context.Background(),
		Store:     storetest.New(),
		CompanyID: uuid.New(),
		Now:       now,
		Creating:  true,
	}
}

func violations(t *testing.T, err error) *shared.ValidationError {
	t.Helper()
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	return ve
}

func TestCampaignRules(t *testing.T) {
	c := &Campaign{Name: "Spring", CampaignType: CampaignEmail, StartDate: now, Budget: decimal.NewFromInt(500)}
	c.Defaults()
	require.NoError(t, CampaignRules.Validate(c, env()))

	end := now.Add(-time.Hour)
	c.EndDate = &end
	c.Budget = decimal.Zero
	ve := violations(t, CampaignRules.Validate(c, env()))
	assert.True(t, ve.Has("end_date"))
	assert.True(t, ve.Has("budget"))
}

func TestEmailCampaignRules(t *testing.T) {
	email := func() *EmailCampaign {
		e := &EmailCampaign{
			CampaignID:  uuid.New(),
			Subject:     "Hello",
			ContentHTML: "<p>Hi</p>",
			SenderName:  "Acme",
			SenderEmail: "news@acme.test",
		}
		e.Defaults()
		return e
	}

	t.Run("rejects an invalid recipient", func(t *testing.T) {
		e := email()
		e.RecipientList = datatypes.JSON(`["a@b.test","nope"]`)
		ve := violations(t, EmailCampaignRules.Validate(e, env()))
		assert.Contains(t, ve.Error(), "Invalid email address: nope")
	})

	t.Run("requires a future schedule on create", func(t *testing.T) {
		e := email()
		e.ScheduledTime = &now
		assert.True(t, violations(t, EmailCampaignRules.Validate(e, env())).Has("scheduled_time"))
	})

	t.Run("rejects negative counters", func(t *testing.T) {
		e := email()
		e.Opens = -1
		assert.True(t, violations(t, EmailCampaignRules.Validate(e, env())).Has("opens"))
	})
}

func TestAutomationRules(t *testing.T) {
	cases := []struct {
		name       string
		trigger    TriggerType
		conditions string
		actions    string
		field      string
	}{
		{"missing conditions", TriggerBehavior, `{}`, `[{"send":"mail"}]`, "trigger_conditions"},
		{"no actions", TriggerBehavior, `{"page":"/"}`, `[]`, "actions"},
		{"event without name", TriggerEvent, `{"page":"/"}`, `[{"send":"mail"}]`, "trigger_conditions"},
		{"schedule without schedule", TriggerSchedule, `{"page":"/"}`, `[{"send":"mail"}]`, "trigger_conditions"},
		{"valid event", TriggerEvent, `{"event_name":"signup"}`, `[{"send":"mail"}]`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := &Automation{Name: "Welcome", TriggerType: tc.trigger}
			a.Defaults()
			a.TriggerConditions = datatypes.JSON(tc.conditions)
			a.Actions = datatypes.JSON(tc.actions)
			err := AutomationRules.Validate(a, env())
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, violations(t, err).Has(tc.field))
		})
	}
}

func TestContentItemRules(t *testing.T) {
	c := &ContentItem{Title: "Post", ContentType: ContentBlog, Content: "Body"}
	c.Defaults()
	yesterday := now.AddDate(0, 0, -1)
	c.PublishDate = &yesterday
	c.SEOSettings = datatypes.JSON(`"title"`)

	ve := violations(t, ContentItemRules.Validate(c, env()))
	assert.True(t, ve.Has("publish_date"))
	assert.True(t, ve.Has("seo_settings"))
}

func TestLeadRules(t *testing.T) {
	lead := func(contact string) *Lead {
		l := &Lead{Source: "web"}
		l.Defaults()
		l.ContactInfo = datatypes.JSON(contact)
		return l
	}

	t.Run("requires contact info", func(t *testing.T) {
		assert.True(t, violations(t, LeadRules.Validate(lead(`{}`), env())).Has("contact_info"))
	})

	t.Run("checks the contact email and phone", func(t *testing.T) {
		ve := violations(t, LeadRules.Validate(lead(`{"email":"bad","phone":"01 23"}`), env()))
		assert.Contains(t, ve.Error(), "Invalid email address.")
		assert.Contains(t, ve.Error(), "at least 10 digits")
	})

	t.Run("rejects a score above 100", func(t *testing.T) {
		l := lead(`{"email":"jo@acme.test"}`)
		l.Score = 101
		assert.True(t, violations(t, LeadRules.Validate(l, env())).Has("score"))
	})

	t.Run("rejects a future last contact", func(t *testing.T) {
		l := lead(`{"email":"jo@acme.test","phone":"+33 6 12 34 56 78"}`)
		tomorrow := now.AddDate(0, 0, 1)
		l.LastContactDate = &tomorrow
		assert.True(t, violations(t, LeadRules.Validate(l, env())).Has("last_contact_date"))
	})
}

func TestMetricRules(t *testing.T) {
	m := &Metric{PeriodStart: now, PeriodEnd: now.AddDate(0, 1, 0), MetricsType: MetricsWebsite, Source: "ga"}
	m.Defaults()
	assert.True(t, violations(t, MetricRules.Validate(m, env())).Has("metrics_data"))

	m.MetricsData = datatypes.JSON(`{"visits":10}`)
	assert.NoError(t, MetricRules.Validate(m, env()))
}

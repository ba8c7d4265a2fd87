// Package marketing holds campaigns, automations, content, leads and
// the metrics collected about them.
package marketing

import (
	"strings"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CampaignType string

const (
	CampaignEmail  CampaignType = "email"
	CampaignSocial CampaignType = "social"
	CampaignAds    CampaignType = "ads"
	CampaignSMS    CampaignType = "sms"
	CampaignPrint  CampaignType = "print"
	CampaignEvent  CampaignType = "event"
)

func (t CampaignType) IsValid() bool {
	switch t {
	case CampaignEmail, CampaignSocial, CampaignAds, CampaignSMS, CampaignPrint, CampaignEvent:
		return true
	}
	return false
}

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignDraft, CampaignScheduled, CampaignActive, CampaignPaused, CampaignCompleted, CampaignCancelled:
		return true
	}
	return false
}

// Campaign is a marketing effort running over a period.
type Campaign struct {
	shared.AuditedRecord
	shared.CompanyRef
	Name           string          `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description    string          `gorm:"type:text" json:"description"`
	CampaignType   CampaignType    `gorm:"type:varchar(50);not null" json:"campaign_type" validate:"required,enum"`
	Status         CampaignStatus  `gorm:"type:varchar(50);not null;index" json:"status" validate:"required,enum"`
	StartDate      time.Time       `gorm:"not null" json:"start_date" validate:"required"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	Budget         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"budget"`
	ActualSpend    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"actual_spend"`
	TargetAudience datatypes.JSON  `json:"target_audience"`
	Goals          datatypes.JSON  `json:"goals"`
	Metrics        datatypes.JSON  `json:"metrics"`
	Channels       datatypes.JSON  `json:"channels"`
}

func (Campaign) TableName() string { return "marketing_campaigns" }

func (c *Campaign) Defaults() {
	c.InitDefaults()
	c.Status = CampaignDraft
	c.TargetAudience = shared.EmptyObject()
	c.Goals = shared.EmptyObject()
	c.Metrics = shared.EmptyObject()
	c.Channels = shared.EmptyArray()
}

var CampaignRules = validation.Rules[Campaign]{
	Fields: func(c *Campaign, _ *validation.Env, errs *shared.ValidationError) {
		if !c.Budget.IsPositive() {
			errs.Field("budget", "Budget must be greater than zero.")
		}
		validation.NonNegative(errs, "actual_spend", c.ActualSpend)
		validation.Object(errs, "target_audience", c.TargetAudience)
		validation.Object(errs, "goals", c.Goals)
		validation.Object(errs, "metrics", c.Metrics)
		validation.Array(errs, "channels", c.Channels)
	},
	Cross: func(c *Campaign, _ *validation.Env, errs *shared.ValidationError) {
		validation.After(errs, "end_date", &c.StartDate, c.EndDate, validation.MsgEndAfterStart)
	},
}

type EmailStatus string

const (
	EmailDraft     EmailStatus = "draft"
	EmailScheduled EmailStatus = "scheduled"
	EmailSending   EmailStatus = "sending"
	EmailSent      EmailStatus = "sent"
	EmailFailed    EmailStatus = "failed"
)

func (s EmailStatus) IsValid() bool {
	switch s {
	case EmailDraft, EmailScheduled, EmailSending, EmailSent, EmailFailed:
		return true
	}
	return false
}

// EmailCampaign is the email delivery of a campaign. Delivery itself
// happens outside this service; only the counters are recorded.
type EmailCampaign struct {
	shared.AuditedRecord
	shared.CompanyRef
	CampaignID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"campaign_id" validate:"required"`
	Subject       string         `gorm:"type:varchar(200);not null" json:"subject" validate:"required,max=200"`
	PreviewText   string         `gorm:"type:varchar(200)" json:"preview_text" validate:"max=200"`
	ContentHTML   string         `gorm:"type:text;not null" json:"content_html" validate:"required"`
	ContentText   string         `gorm:"type:text" json:"content_text"`
	SenderName    string         `gorm:"type:varchar(100);not null" json:"sender_name" validate:"required,max=100"`
	SenderEmail   string         `gorm:"type:varchar(254);not null" json:"sender_email" validate:"required,email"`
	RecipientList datatypes.JSON `json:"recipient_list"`
	ScheduledTime *time.Time     `json:"scheduled_time,omitempty"`
	SentTime      *time.Time     `json:"sent_time,omitempty"`
	Opens         int            `gorm:"not null" json:"opens"`
	Clicks        int            `gorm:"not null" json:"clicks"`
	Bounces       int            `gorm:"not null" json:"bounces"`
	Unsubscribes  int            `gorm:"not null" json:"unsubscribes"`
	Status        EmailStatus    `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
}

func (EmailCampaign) TableName() string { return "email_campaigns" }

func (e *EmailCampaign) Defaults() {
	e.InitDefaults()
	e.Status = EmailDraft
	e.RecipientList = shared.EmptyArray()
}

func (e *EmailCampaign) Normalize() {
	e.SenderEmail = strings.TrimSpace(e.SenderEmail)
}

func (e *EmailCampaign) References() []shared.Reference {
	return []shared.Reference{shared.Ref("campaign_id", &Campaign{}, &e.CampaignID)}
}

var EmailCampaignRules = validation.Rules[EmailCampaign]{
	Fields: func(e *EmailCampaign, env *validation.Env, errs *shared.ValidationError) {
		validation.EmailList(errs, "recipient_list", e.RecipientList)
		if env.Creating && e.ScheduledTime != nil && !e.ScheduledTime.After(env.Now) {
			errs.Field("scheduled_time", "Scheduled time must be in the future.")
		}
		validation.NonNegativeInt(errs, "opens", e.Opens)
		validation.NonNegativeInt(errs, "clicks", e.Clicks)
		validation.NonNegativeInt(errs, "bounces", e.Bounces)
		validation.NonNegativeInt(errs, "unsubscribes", e.Unsubscribes)
	},
}

type TriggerType string

const (
	TriggerEvent    TriggerType = "event"
	TriggerSchedule TriggerType = "schedule"
	TriggerBehavior TriggerType = "behavior"
)

func (t TriggerType) IsValid() bool {
	return t == TriggerEvent || t == TriggerSchedule || t == TriggerBehavior
}

// Automation runs a list of actions when its trigger fires.
type Automation struct {
	shared.AuditedRecord
	shared.CompanyRef
	Name              string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description       string         `gorm:"type:text" json:"description"`
	TriggerType       TriggerType    `gorm:"type:varchar(50);not null" json:"trigger_type" validate:"required,enum"`
	TriggerConditions datatypes.JSON `json:"trigger_conditions"`
	Actions           datatypes.JSON `json:"actions"`
	TotalExecutions   int            `gorm:"not null" json:"total_executions"`
	LastExecution     *time.Time     `json:"last_execution,omitempty"`
	Metrics           datatypes.JSON `json:"metrics"`
}

func (Automation) TableName() string { return "marketing_automations" }

func (a *Automation) Defaults() {
	a.InitDefaults()
	a.TriggerConditions = shared.EmptyObject()
	a.Actions = shared.EmptyArray()
	a.Metrics = shared.EmptyObject()
}

var AutomationRules = validation.Rules[Automation]{
	Fields: func(a *Automation, _ *validation.Env, errs *shared.ValidationError) {
		conditions, err := shared.ParseJSON(a.TriggerConditions)
		switch {
		case err != nil || (conditions.Shape != shared.ShapeObject && !conditions.Empty()):
			errs.Field("trigger_conditions", validation.MsgMustBeObject)
		case conditions.Empty():
			errs.Field("trigger_conditions", "Trigger conditions are required.")
		}
		actions, err := shared.ParseJSON(a.Actions)
		switch {
		case err != nil || (actions.Shape != shared.ShapeArray && !actions.Empty()):
			errs.Field("actions", validation.MsgMustBeArray)
		case actions.Empty():
			errs.Field("actions", "At least one action is required.")
		}
		validation.NonNegativeInt(errs, "total_executions", a.TotalExecutions)
		validation.Object(errs, "metrics", a.Metrics)
	},
	Cross: func(a *Automation, _ *validation.Env, errs *shared.ValidationError) {
		if errs.Has("trigger_conditions") {
			return
		}
		conditions, _ := shared.ParseJSON(a.TriggerConditions)
		switch a.TriggerType {
		case TriggerEvent:
			if !conditions.HasKey("event_name") {
				errs.Field("trigger_conditions", "Event name is required for event-based triggers.")
			}
		case TriggerSchedule:
			if !conditions.HasKey("schedule") {
				errs.Field("trigger_conditions", "Schedule is required for time-based triggers.")
			}
		}
	},
}

package marketing

import (
	"strings"
	"time"

	"github.com/bizsuite/backend/internal/domain/commerce"
	"github.com/bizsuite/backend/internal/domain/company"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContentType string

const (
	ContentBlog    ContentType = "blog"
	ContentSocial  ContentType = "social"
	ContentEmail   ContentType = "email"
	ContentLanding ContentType = "landing"
	ContentAd      ContentType = "ad"
)

func (t ContentType) IsValid() bool {
	switch t {
	case ContentBlog, ContentSocial, ContentEmail, ContentLanding, ContentAd:
		return true
	}
	return false
}

type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentReview    ContentStatus = "review"
	ContentApproved  ContentStatus = "approved"
	ContentPublished ContentStatus = "published"
	ContentArchived  ContentStatus = "archived"
)

func (s ContentStatus) IsValid() bool {
	switch s {
	case ContentDraft, ContentReview, ContentApproved, ContentPublished, ContentArchived:
		return true
	}
	return false
}

// ContentItem is a piece of publishable marketing content.
type ContentItem struct {
	shared.AuditedRecord
	shared.CompanyRef
	Title           string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	ContentType     ContentType    `gorm:"type:varchar(50);not null" json:"content_type" validate:"required,enum"`
	Content         string         `gorm:"type:text;not null" json:"content" validate:"required"`
	MetaDescription string         `gorm:"type:text" json:"meta_description"`
	Keywords        datatypes.JSON `json:"keywords"`
	AuthorID        *uuid.UUID     `gorm:"type:uuid" json:"author_id,omitempty"`
	PublishDate     *time.Time     `json:"publish_date,omitempty"`
	Status          ContentStatus  `gorm:"type:varchar(50);not null;index" json:"status" validate:"required,enum"`
	Categories      datatypes.JSON `json:"categories"`
	Tags            datatypes.JSON `json:"tags"`
	FeaturedImage   datatypes.JSON `json:"featured_image"`
	SEOSettings     datatypes.JSON `json:"seo_settings"`
}

func (ContentItem) TableName() string { return "content_items" }

func (c *ContentItem) Defaults() {
	c.InitDefaults()
	c.Status = ContentDraft
	c.Keywords = shared.EmptyArray()
	c.Categories = shared.EmptyArray()
	c.Tags = shared.EmptyArray()
	c.FeaturedImage = shared.EmptyObject()
	c.SEOSettings = shared.EmptyObject()
}

func (c *ContentItem) References() []shared.Reference {
	return []shared.Reference{shared.Ref("author_id", &company.CompanyUser{}, c.AuthorID)}
}

var ContentItemRules = validation.Rules[ContentItem]{
	Fields: func(c *ContentItem, env *validation.Env, errs *shared.ValidationError) {
		if env.Creating && c.PublishDate != nil && c.PublishDate.Before(env.Now) {
			errs.Field("publish_date", "Publish date cannot be in the past.")
		}
		validation.Array(errs, "keywords", c.Keywords)
		validation.Array(errs, "categories", c.Categories)
		validation.Array(errs, "tags", c.Tags)
		validation.ObjectWith(errs, "featured_image", c.FeaturedImage, "Featured image must be a valid JSON object.")
		validation.ObjectWith(errs, "seo_settings", c.SEOSettings, "SEO settings must be a valid JSON object.")
	},
}

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadConverted, LeadLost:
		return true
	}
	return false
}

// Lead is a prospective customer, possibly brought in by a campaign.
type Lead struct {
	shared.AuditedRecord
	shared.CompanyRef
	Source          string         `gorm:"type:varchar(100);not null" json:"source" validate:"required,max=100"`
	CampaignID      *uuid.UUID     `gorm:"type:uuid;index" json:"campaign_id,omitempty"`
	ContactInfo     datatypes.JSON `json:"contact_info"`
	Status          LeadStatus     `gorm:"type:varchar(50);not null;index" json:"status" validate:"required,enum"`
	Score           int            `gorm:"not null" json:"score"`
	AssignedToID    *uuid.UUID     `gorm:"type:uuid" json:"assigned_to_id,omitempty"`
	Notes           string         `gorm:"type:text" json:"notes"`
	ConversionPath  datatypes.JSON `json:"conversion_path"`
	Interactions    datatypes.JSON `json:"interactions"`
	CustomerID      *uuid.UUID     `gorm:"type:uuid" json:"customer_id,omitempty"`
	LastContactDate *time.Time     `json:"last_contact_date,omitempty"`
}

func (Lead) TableName() string { return "leads" }

func (l *Lead) Defaults() {
	l.InitDefaults()
	l.Status = LeadNew
	l.ContactInfo = shared.EmptyObject()
	l.ConversionPath = shared.EmptyArray()
	l.Interactions = shared.EmptyArray()
}

func (l *Lead) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("campaign_id", &Campaign{}, l.CampaignID),
		shared.Ref("assigned_to_id", &company.CompanyUser{}, l.AssignedToID),
		shared.Ref("customer_id", &commerce.Customer{}, l.CustomerID),
	}
}

var LeadRules = validation.Rules[Lead]{
	Fields: func(l *Lead, env *validation.Env, errs *shared.ValidationError) {
		validation.RequiredObject(errs, "contact_info", l.ContactInfo)
		validation.IntRange(errs, "score", l.Score, 0, 100)
		validation.Array(errs, "conversion_path", l.ConversionPath)
		validation.Array(errs, "interactions", l.Interactions)
		if l.LastContactDate != nil && l.LastContactDate.After(env.Now) {
			errs.Field("last_contact_date", "Last contact date cannot be in the future.")
		}
		if errs.Has("contact_info") {
			return
		}
		info, _ := shared.ParseJSON(l.ContactInfo)
		if email, ok := info.Object["email"].(string); ok && email != "" && !validation.IsEmail(email) {
			errs.Field("contact_info", "Invalid email address.")
		}
		if phone, ok := info.Object["phone"].(string); ok && phone != "" && countDigits(phone) < 10 {
			errs.Field("contact_info", "Phone number must have at least 10 digits.")
		}
	},
}

func countDigits(s string) int {
	return len(strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s))
}

type MetricsType string

const (
	MetricsCampaign MetricsType = "campaign"
	MetricsWebsite  MetricsType = "website"
	MetricsSocial   MetricsType = "social"
	MetricsEmail    MetricsType = "email"
	MetricsLead     MetricsType = "lead"
)

func (t MetricsType) IsValid() bool {
	switch t {
	case MetricsCampaign, MetricsWebsite, MetricsSocial, MetricsEmail, MetricsLead:
		return true
	}
	return false
}

// Metric is a batch of marketing figures over a period.
type Metric struct {
	shared.AuditedRecord
	shared.CompanyRef
	PeriodStart time.Time      `gorm:"not null" json:"period_start" validate:"required"`
	PeriodEnd   time.Time      `gorm:"not null" json:"period_end" validate:"required"`
	MetricsType MetricsType    `gorm:"type:varchar(50);not null" json:"metrics_type" validate:"required,enum"`
	MetricsData datatypes.JSON `json:"metrics_data"`
	Source      string         `gorm:"type:varchar(100);not null" json:"source" validate:"required,max=100"`
	Annotations datatypes.JSON `json:"annotations"`
	IsProcessed bool           `gorm:"not null" json:"is_processed"`
}

func (Metric) TableName() string { return "marketing_metrics" }

func (m *Metric) Defaults() {
	m.InitDefaults()
	m.Annotations = shared.EmptyObject()
}

var MetricRules = validation.Rules[Metric]{
	Fields: func(m *Metric, _ *validation.Env, errs *shared.ValidationError) {
		validation.RequiredObject(errs, "metrics_data", m.MetricsData)
		validation.Object(errs, "annotations", m.Annotations)
	},
	Cross: func(m *Metric, _ *validation.Env, errs *shared.ValidationError) {
		validation.After(errs, "period_end", &m.PeriodStart, &m.PeriodEnd, validation.MsgEndAfterStart)
	},
}

package model

import (
	"time"
)

const (
	ContentTypePhoto      = "photo"
	ContentTypePost       = "post"
	ContentTypeShortVideo = "short-video"
	ContentTypeLongVideo  = "long-video"
	ContentTypeLive       = "live"
	ContentTypeStory      = "story"
)

var ContentTypes = []string{
	ContentTypePhoto, ContentTypePost, ContentTypeShortVideo,
	ContentTypeLongVideo, ContentTypeLive, ContentTypeStory,
}

const (
	PurposeIdea        = "idea"
	PurposeSkill       = "skill"
	PurposeExplain     = "explain"
	PurposeStory       = "story"
	PurposeQuestion    = "question"
	PurposeDiscussion  = "discussion"
	PurposeLearning    = "learning"
	PurposeInspiration = "inspiration"
	PurposeSolution    = "solution"
)

var Purposes = []string{
	PurposeIdea, PurposeSkill, PurposeExplain, PurposeStory, PurposeQuestion,
	PurposeDiscussion, PurposeLearning, PurposeInspiration, PurposeSolution,
}

// Topics 封闭的话题词表
var Topics = []string{
	"technology", "science", "art", "music", "health",
	"business", "education", "lifestyle", "travel", "sports",
}

const (
	VisibilityPublic    = "public"
	VisibilityCommunity = "community"
	VisibilityPrivate   = "private"
)

const (
	ContentStatusDraft     = "draft"
	ContentStatusPublished = "published"
	ContentStatusArchived  = "archived"
	ContentStatusRemoved   = "removed"
)

const (
	TitleMaxLen = 150
	BodyMaxLen  = 5000
)

type Content struct {
	ID          uint64     `gorm:"primaryKey"`
	CreatorID   uint64     `gorm:"not null;index:idx_creator_id"`
	ContentType string     `gorm:"type:varchar(20);not null;index:idx_feed,priority:4"`
	Purpose     string     `gorm:"type:varchar(20);not null"`
	Title       string     `gorm:"type:varchar(150)"`
	Body        string     `gorm:"type:text"`
	Visibility  string     `gorm:"type:varchar(20);not null;default:public;index:idx_feed,priority:2"`
	Status      string     `gorm:"type:varchar(20);not null;default:published;index:idx_feed,priority:1"`
	IsApproved  bool       `gorm:"not null;default:false;index:idx_feed,priority:3"`
	SilentMode  bool       `gorm:"not null;default:false"`
	ExpiresAt   *time.Time `gorm:"index"`

	HelpfulCount   int64   `gorm:"not null;default:0"`
	NotUsefulCount int64   `gorm:"not null;default:0"`
	ViewCount      int64   `gorm:"not null;default:0"`
	SaveCount      int64   `gorm:"not null;default:0"`
	ShareCount     int64   `gorm:"not null;default:0"`
	QualityScore   float64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	// 关联关系
	Creator User           `gorm:"foreignKey:CreatorID;references:ID"`
	Topics  []ContentTopic `gorm:"foreignKey:ContentID;references:ID"`
	Media   []ContentMedia `gorm:"foreignKey:ContentID;references:ID"`
}

func (Content) TableName() string {
	return "contents"
}

// TopicNames 话题名称
func (c *Content) TopicNames() []string {
	names := make([]string, 0, len(c.Topics))
	for _, t := range c.Topics {
		names = append(names, t.Topic)
	}
	return names
}

// ApplyFeedbackCounts 写入反馈计数并重算质量分，总数为 0 时保留原分值
func (c *Content) ApplyFeedbackCounts(helpful, notUseful int64) {
	c.HelpfulCount = helpful
	c.NotUsefulCount = notUseful
	if score, ok := QualityScore(helpful, notUseful); ok {
		c.QualityScore = score
	}
}

// QualityScore helpful / (helpful + notUseful) * 100
func QualityScore(helpful, notUseful int64) (float64, bool) {
	total := helpful + notUseful
	if total <= 0 {
		return 0, false
	}
	return float64(helpful) / float64(total) * 100, true
}

type ContentTopic struct {
	ContentID uint64 `gorm:"primaryKey"`
	Topic     string `gorm:"primaryKey;type:varchar(20);index:idx_topic"`
}

func (ContentTopic) TableName() string {
	return "content_topics"
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusCompleted AnalysisStatus = "completed"
	StatusFailed    AnalysisStatus = "failed"
)

// Analysis is the optional history row written after each /analyze call.
type Analysis struct {
	ID                       uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Status                   AnalysisStatus `gorm:"not null;default:'completed'" json:"status"`
	ResumeFilename           string         `gorm:"type:text" json:"resume_filename"`
	ResumeChars              int            `json:"resume_chars"`
	JobDescription           string         `gorm:"type:text" json:"job_description"`
	Provider                 string         `gorm:"type:text" json:"provider"`
	ATSScore                 int            `json:"ats_score"`
	KeywordMatch             int            `json:"keyword_match"`
	SkillMatch               int            `json:"skill_match"`
	ExperienceEducationMatch int            `json:"experience_education_match"`
	FormattingQuality        int            `json:"formatting_quality"`
	MatchedKeywords          []string       `gorm:"serializer:json;type:jsonb" json:"matched_keywords"`
	MissingKeywords          []string       `gorm:"serializer:json;type:jsonb" json:"missing_keywords"`
	ImprovementTips          string         `gorm:"type:text" json:"improvement_tips,omitempty"`
	FeedbackReport           string         `gorm:"type:text" json:"feedback_report,omitempty"`
	RawOutput                string         `gorm:"type:text" json:"ai_output,omitempty"`
	ErrorMessage             *string        `gorm:"type:text" json:"error_message,omitempty"`
	DurationMs               int64          `json:"duration_ms"`
	CreatedAt                time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Analysis) TableName() string {
	return "analyses"
}

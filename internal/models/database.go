package models

// GORM models for question analytics and service health. Persistence is
// optional: the bot answers questions without a database, it just stops
// recording usage.

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// BaseModel carries the shared primary key and timestamps.
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Answer sources recorded per resolved question.
const (
	SourceFAQ      = "faq"
	SourceDocument = "document"
	SourceFallback = "fallback"
)

// QuestionLog records one resolved question for analytics.
type QuestionLog struct {
	BaseModel
	QuestionText   string  `json:"question_text" gorm:"not null"`
	Source         string  `json:"source" gorm:"not null;check:source IN ('faq','document','fallback')"`
	Score          float64 `json:"score"`
	MatchedURL     string  `json:"matched_url"`
	UserSession    string  `json:"user_session"`
	ResponseTimeMs int     `json:"response_time_ms"`
	UserAgent      string  `json:"user_agent"`
	IPAddress      string  `json:"ip_address"`
}

// PopularQuestion aggregates how often a question text is asked.
type PopularQuestion struct {
	BaseModel
	QuestionText      string    `json:"question_text" gorm:"unique;not null"`
	AskCount          int       `json:"ask_count" gorm:"default:1"`
	AvgResponseTimeMs int       `json:"avg_response_time_ms" gorm:"default:0"`
	LastAsked         time.Time `json:"last_asked" gorm:"default:NOW()"`
}

// SystemHealth is one health-check observation for a dependency.
type SystemHealth struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ServiceName    string    `json:"service_name" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null;check:status IN ('healthy','degraded','unhealthy')"`
	ResponseTimeMs int       `json:"response_time_ms"`
	ErrorMessage   string    `json:"error_message"`
	CheckedAt      time.Time `json:"checked_at" gorm:"default:NOW()"`
}

// Repository interfaces, implemented in internal/repository.

type QuestionLogRepository interface {
	Create(log *QuestionLog) error
}

type PopularQuestionRepository interface {
	IncrementCount(questionText string, responseTimeMs int) error
	GetTop(limit int) ([]PopularQuestion, error)
}

type SystemHealthRepository interface {
	UpdateServiceHealth(serviceName, status string, responseTimeMs int, errorMsg string) error
	GetServiceHealth(serviceName string) (*SystemHealth, error)
	GetAllServicesHealth() ([]SystemHealth, error)
}

func (QuestionLog) TableName() string     { return "question_logs" }
func (PopularQuestion) TableName() string { return "popular_questions" }
func (SystemHealth) TableName() string    { return "system_health" }

func (q *QuestionLog) Validate() error {
	if q.QuestionText == "" {
		return fmt.Errorf("question text is required")
	}
	switch q.Source {
	case SourceFAQ, SourceDocument, SourceFallback:
	default:
		return fmt.Errorf("invalid answer source: %s", q.Source)
	}
	if q.ResponseTimeMs < 0 {
		return fmt.Errorf("response time cannot be negative")
	}
	return nil
}

func (q *QuestionLog) BeforeCreate(tx *gorm.DB) error {
	return q.Validate()
}

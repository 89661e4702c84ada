package models

// GORM models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Profile labels
const (
	ProfileStructured = "STRUCTURED"
	ProfileExplorer   = "EXPLORER"
	ProfileIntensive  = "INTENSIVE"
)

// Health statuses
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// ErrAlreadySubmitted is returned when a user submits the questionnaire twice.
var ErrAlreadySubmitted = errors.New("questionnaire already submitted")

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is a student. Credentials live with the identity provider.
type User struct {
	BaseModel
	Email                  string  `json:"email" gorm:"uniqueIndex;not null"`
	ProfileLabel           *string `json:"profile_label"`
	QuestionnaireCompleted bool    `json:"questionnaire_completed" gorm:"not null;default:false"`
	InteractionCount       int     `json:"interaction_count" gorm:"not null;default:0"`
}

// QuestionnaireAnswer stores the twelve answers a user gave, once.
type QuestionnaireAnswer struct {
	BaseModel
	UserID             uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	StudyTime          string `json:"study_time" gorm:"size:1;not null"`
	SessionDuration    string `json:"session_duration" gorm:"size:1;not null"`
	LearningPace       string `json:"learning_pace" gorm:"size:1;not null"`
	LearningStyle      string `json:"learning_style" gorm:"size:1;not null"`
	ContentFormat      string `json:"content_format" gorm:"size:1;not null"`
	FeedbackPreference string `json:"feedback_preference" gorm:"size:1;not null"`
	LearningGoals      string `json:"learning_goals" gorm:"size:1;not null"`
	Motivators         string `json:"motivators" gorm:"size:1;not null"`
	Challenges         string `json:"challenges" gorm:"size:1;not null"`
	InterestAreas      string `json:"interest_areas" gorm:"size:1;not null"`
	ExperienceLevel    string `json:"experience_level" gorm:"size:1;not null"`
	LearningTools      string `json:"learning_tools" gorm:"size:1;not null"`
	ProfileLabel       string `json:"profile_label" gorm:"not null"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// Interaction is one chat exchange. Only the feedback columns change after insert.
type Interaction struct {
	BaseModel
	UserID             uint     `json:"user_id" gorm:"index;not null"`
	Message            string   `json:"message" gorm:"type:text;not null"`
	Response           string   `json:"response" gorm:"type:text;not null"`
	Helpful            *bool    `json:"helpful"`
	Understanding      *int     `json:"understanding" gorm:"check:understanding BETWEEN 1 AND 5"`
	Topic              string   `json:"topic"`
	ComplexityLevel    int      `json:"complexity_level" gorm:"not null;default:1;check:complexity_level BETWEEN 1 AND 5"`
	LearningPace       string   `json:"learning_pace"`
	ResponseTime       float64  `json:"response_time"`
	InteractionQuality *float64 `json:"interaction_quality"`
	Model              string   `json:"model"`

	// AttachmentName is the uploaded file's name; the content is not kept.
	AttachmentName string `json:"attachment_name,omitempty"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// SystemHealth represents service health monitoring
type SystemHealth struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ServiceName    string    `json:"service_name" gorm:"index;not null"`
	Status         string    `json:"status" gorm:"not null;check:status IN ('healthy','degraded','unhealthy')"`
	ResponseTimeMs int       `json:"response_time_ms"`
	ErrorMessage   string    `json:"error_message"`
	CheckedAt      time.Time `json:"checked_at"`
}

// FeedbackUpdate carries the feedback columns to change; nil fields are left alone.
type FeedbackUpdate struct {
	Helpful       *bool
	Understanding *int
}

// QualityFunc derives interaction_quality from the merged feedback values.
type QualityFunc func(helpful *bool, understanding *int) *float64

// Database interfaces for repository pattern
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type QuestionnaireRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*QuestionnaireAnswer, error)
	// Submit stores the answers and marks the user classified atomically.
	Submit(ctx context.Context, answers *QuestionnaireAnswer) error
}

type InteractionRepository interface {
	// Record inserts the interaction and bumps the user's interaction_count atomically.
	Record(ctx context.Context, interaction *Interaction) error
	GetForUser(ctx context.Context, userID, id uint) (*Interaction, error)
	RecentByUser(ctx context.Context, userID uint, limit int) ([]Interaction, error)
	RecentHelpfulByUser(ctx context.Context, userID uint, limit int) ([]Interaction, error)
	// ApplyFeedback merges update into the user's interaction under a row
	// lock and stores quality(merged values) in the same transaction.
	ApplyFeedback(ctx context.Context, userID, id uint, update FeedbackUpdate, quality QualityFunc) (*Interaction, error)
}

type SystemHealthRepository interface {
	UpdateServiceHealth(ctx context.Context, serviceName, status string, responseTime int, errorMsg string) error
	GetAllServicesHealth(ctx context.Context) ([]SystemHealth, error)
}

// TableName methods for custom table names
func (User) TableName() string                { return "users" }
func (QuestionnaireAnswer) TableName() string { return "questionnaire_answers" }
func (Interaction) TableName() string         { return "interactions" }
func (SystemHealth) TableName() string        { return "system_health" }

// Model validation methods
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if u.ProfileLabel != nil && !ValidProfile(*u.ProfileLabel) {
		return fmt.Errorf("invalid profile label: %s", *u.ProfileLabel)
	}
	return nil
}

func (i *Interaction) Validate() error {
	if i.UserID == 0 {
		return fmt.Errorf("user ID is required")
	}
	if i.ComplexityLevel < 1 || i.ComplexityLevel > 5 {
		return fmt.Errorf("complexity level out of range: %d", i.ComplexityLevel)
	}
	if i.Understanding != nil && (*i.Understanding < 1 || *i.Understanding > 5) {
		return fmt.Errorf("understanding out of range: %d", *i.Understanding)
	}
	if i.ResponseTime < 0 {
		return fmt.Errorf("response time cannot be negative")
	}
	return nil
}

func (qa *QuestionnaireAnswer) Validate() error {
	if qa.UserID == 0 {
		return fmt.Errorf("user ID is required")
	}
	if !ValidProfile(qa.ProfileLabel) {
		return fmt.Errorf("invalid profile label: %s", qa.ProfileLabel)
	}
	return nil
}

func ValidProfile(label string) bool {
	switch label {
	case ProfileStructured, ProfileExplorer, ProfileIntensive:
		return true
	}
	return false
}

// GORM hooks
func (u *User) BeforeCreate(tx *gorm.DB) error {
	return u.Validate()
}

func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	return i.Validate()
}

func (qa *QuestionnaireAnswer) BeforeCreate(tx *gorm.DB) error {
	return qa.Validate()
}

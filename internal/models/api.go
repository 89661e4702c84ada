package models

// ChatRequest is the JSON form of POST /api/chat. Multipart requests carry
// the same message field plus an optional "file" part.
type ChatRequest struct {
	Message string `json:"message" form:"message"`
}

type ChatResponse struct {
	Response        string `json:"response"`
	ChatID          uint   `json:"chat_id"`
	ComplexityLevel int    `json:"complexity_level"`
}

type FeedbackRequest struct {
	ChatID        uint  `json:"chat_id" binding:"required"`
	Helpful       *bool `json:"helpful"`
	Understanding *int  `json:"understanding"`
}

type FeedbackResponse struct {
	Success            bool     `json:"success"`
	ChatID             uint     `json:"chat_id"`
	Helpful            *bool    `json:"helpful"`
	Understanding      *int     `json:"understanding"`
	InteractionQuality *float64 `json:"interaction_quality,omitempty"`
}

// QuestionnaireRequest holds one letter (A-D) per question.
type QuestionnaireRequest struct {
	StudyTime          string `json:"study_time"`
	SessionDuration    string `json:"session_duration"`
	LearningPace       string `json:"learning_pace"`
	LearningStyle      string `json:"learning_style"`
	ContentFormat      string `json:"content_format"`
	FeedbackPreference string `json:"feedback_preference"`
	LearningGoals      string `json:"learning_goals"`
	Motivators         string `json:"motivators"`
	Challenges         string `json:"challenges"`
	InterestAreas      string `json:"interest_areas"`
	ExperienceLevel    string `json:"experience_level"`
	LearningTools      string `json:"learning_tools"`
}

type QuestionnaireResponse struct {
	Profile string         `json:"profile"`
	Scores  map[string]int `json:"scores"`
}

type UserProfileResponse struct {
	ID                     uint    `json:"id"`
	Email                  string  `json:"email"`
	ProfileLabel           *string `json:"profile_label"`
	QuestionnaireCompleted bool    `json:"questionnaire_completed"`
	InteractionCount       int     `json:"interaction_count"`
}

type HistoryItem struct {
	ID              uint   `json:"id"`
	Message         string `json:"message"`
	Response        string `json:"response"`
	Timestamp       string `json:"timestamp"`
	Topic           string `json:"topic"`
	ComplexityLevel int    `json:"complexity_level"`
	Helpful         *bool  `json:"helpful"`
	Understanding   *int   `json:"understanding"`
	Attachment      string `json:"attachment,omitempty"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

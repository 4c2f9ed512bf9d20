package store

import (
	"context"
	"time"

	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/feedback"
	"github.com/abhisek/teachback/internal/qa"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match ("" = any)
}

// RecordStatus is the lifecycle state of a session record.
type RecordStatus string

const (
	StatusInProgress RecordStatus = "in_progress"
	StatusCompleted  RecordStatus = "completed"
)

// SessionRecord is the flattened snapshot of one teach-back session.
// Rows are written once and never updated.
type SessionRecord struct {
	ID                   string               `json:"id"`
	SessionID            string               `json:"sessionId"`
	Date                 time.Time            `json:"date"`
	TopicID              string               `json:"topicId"`
	Topic                catalog.Topic        `json:"topic"`
	Lesson               *catalog.Lesson      `json:"lesson"`
	UserExplanation      string               `json:"userExplanation"`
	QATranscript         []qa.Item            `json:"qaTranscript"`
	Scores               feedback.Scores      `json:"scores"`
	TotalScore           int                  `json:"totalScore"`
	Grade                feedback.Grade       `json:"grade"`
	TopFixes             []string             `json:"topFixes"`
	MissingPoints        []string             `json:"missingPoints"`
	Corrections          []catalog.Correction `json:"corrections"`
	ImprovedExplanation  string               `json:"improvedExplanation"`
	NextLessonSuggestion catalog.Topic        `json:"nextLessonSuggestion"`
	Status               RecordStatus         `json:"status"`
}

// RecordRepo stores session records.
type RecordRepo interface {
	// Save writes rec and returns the stored copy. An empty ID is assigned.
	// Saving an ID that already exists fails.
	Save(ctx context.Context, rec *SessionRecord) (*SessionRecord, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]SessionRecord, error)

	// Get returns the record with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*SessionRecord, error)

	// Delete removes the record with id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every record.
	DeleteAll(ctx context.Context) error
}

// KVRepo is a small key-value store for in-progress state.
type KVRepo interface {
	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Load returns the value under key, or nil if there is none.
	Load(ctx context.Context, key string) ([]byte, error)

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// StarRepo persists the learner's starred topics.
type StarRepo interface {
	SetStarred(ctx context.Context, topicID string, starred bool) error
	Starred(ctx context.Context) (map[string]bool, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single event by id, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
}

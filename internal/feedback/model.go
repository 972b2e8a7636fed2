package feedback

import (
	"time"

	"github.com/uptrace/bun"
)

// Feedback targets.
const (
	TargetStudent  = "STUDENT"
	TargetPosition = "POSITION"
)

// Feedback is an instructor note about a student or a position.
type Feedback struct {
	bun.BaseModel `bun:"table:feedback,alias:f"`

	FeedbackID   int       `bun:"feedback_id,pk,autoincrement" json:"FeedbackId"`
	TargetType   string    `bun:"target_type,notnull" json:"TargetType"`
	TargetID     int       `bun:"target_id,notnull" json:"TargetId"`
	FeedbackText string    `bun:"feedback_text,notnull" json:"FeedbackText"`
	CreatedAtUtc time.Time `bun:"created_at_utc,nullzero,notnull,default:current_timestamp" json:"CreatedAtUtc"`
}

type CreateFeedbackRequest struct {
	FeedbackText string `json:"FeedbackText"`
}

package contact

import (
	"time"

	"github.com/google/uuid"
)

// Submission is an accepted form, ready to be delivered.
type Submission struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"received_at"`
}

// NewSubmission snapshots accepted values. Surrounding whitespace is trimmed;
// the message body is otherwise kept as typed.
func NewSubmission(s FormState, now time.Time) Submission {
	return Submission{
		ID:         uuid.NewString(),
		Name:       trimSpace(s.Name),
		Email:      trimSpace(s.Email),
		Message:    trimSpace(s.Message),
		ReceivedAt: now.UTC(),
	}
}

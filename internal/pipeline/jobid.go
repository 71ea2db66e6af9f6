package pipeline

import "github.com/google/uuid"

// NewJobID returns a time-ordered identifier, so job IDs sort by submission.
func NewJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

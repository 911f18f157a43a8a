package quota

import (
	"errors"
	"time"
)

// Quota represents a client's daily consumption snapshot.
type Quota struct {
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}

// ErrLimitReached is returned when a client has exhausted its daily quota.
var ErrLimitReached = errors.New("daily quota reached")

package dto

import (
	"time"

	"github.com/warekit/rfid-scan-service/internal/model"
)

// TagRead is one event from the reader integration. Reads repeat and arrive
// out of order; nothing here is trusted beyond the uid.
type TagRead struct {
	UID    string    `json:"uid"`
	ReadAt time.Time `json:"read_at"`
}

type OutcomeCode string

const (
	OutcomeApplied   OutcomeCode = "Applied"
	OutcomeDuplicate OutcomeCode = "DuplicateTag"
	OutcomeInvalid   OutcomeCode = "TagInvalidForSession"
	OutcomeIgnored   OutcomeCode = "Ignored"
)

const (
	ReasonNoActiveSession   = "NoActiveSession"
	ReasonTargetComplete    = "TargetComplete"
	ReasonTargetNotEligible = "TargetNotEligible"
	ReasonTagAlreadyUsed    = "TagAlreadyUsed"
	ReasonTagNotSellable    = "TagNotSellable"
	ReasonTagAlreadySold    = "TagAlreadySold"
)

// Outcome is the single event emitted per processed read.
type Outcome struct {
	SessionID string            `json:"sessionId,omitempty"`
	Mode      model.SessionMode `json:"mode,omitempty"`
	TagUID    string            `json:"tagId"`
	Outcome   OutcomeCode       `json:"outcome"`
	Completed bool              `json:"completed"`
	Reason    string            `json:"reason,omitempty"`
	LineID    string            `json:"itemId,omitempty"`
}

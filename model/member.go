package model

import (
	"fmt"
	"time"
)

const (
	BucketMembers = "members"
	BucketSecrets = "secrets"
)

// MaxNameLength bounds the free-text name a member may submit.
const MaxNameLength = 500

var ErrMemberNotFound = fmt.Errorf("member not found")

// State is the position of a member in the verification flow. A member
// record with a nil state is not currently undergoing verification.
type State int

const (
	StateAwaitName State = iota
	StateAwaitAffiliation
	StateAwaitStudentID
	StateAwaitEmail
	StateAwaitCode
	StateAwaitIDPhoto
	StateAwaitApproval
)

func (s State) String() string {
	switch s {
	case StateAwaitName:
		return "AwaitName"
	case StateAwaitAffiliation:
		return "AwaitAffiliation"
	case StateAwaitStudentID:
		return "AwaitStudentID"
	case StateAwaitEmail:
		return "AwaitEmail"
	case StateAwaitCode:
		return "AwaitCode"
	case StateAwaitIDPhoto:
		return "AwaitIDPhoto"
	case StateAwaitApproval:
		return "AwaitApproval"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MessageRef points at a previously sent chat message so it can be
// forwarded again later.
type MessageRef struct {
	ChatID    int64  `json:"chat_id"`
	MessageID string `json:"message_id"`
}

func (r MessageRef) IsZero() bool {
	return r.MessageID == ""
}

// Member is the durable verification record of one community member,
// keyed by their numeric transport ID. Records are never deleted on
// rejection; the state is reset instead so counters survive restarts.
type Member struct {
	FullName           string     `json:"full_name"`
	StudentID          string     `json:"student_id"`
	Email              string     `json:"email"`
	EmailVerified      bool       `json:"email_verified"`
	IDMessage          MessageRef `json:"id_message"`
	IDVerified         bool       `json:"id_verified"`
	VerifyingModerator int64      `json:"verifying_moderator"`
	State              *State     `json:"state"`
	VerifyTime         time.Time  `json:"verify_time"`
	EmailAttempts      int        `json:"email_attempts"`
	MaxEmailAttempts   int        `json:"max_email_attempts"`
}

func DefaultMember(maxEmailAttempts int) Member {
	return Member{
		VerifyTime:       time.Now(),
		MaxEmailAttempts: maxEmailAttempts,
	}
}

func (m *Member) InState(s State) bool {
	return m.State != nil && *m.State == s
}

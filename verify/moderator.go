package verify

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/warden-bot/warden/mail"
	"github.com/warden-bot/warden/model"
	"github.com/warden-bot/warden/pkg/log"
)

// CheckResult is the outcome of a precondition check: either proceed, or
// a user-facing reason why not. Expected, recoverable refusals travel as
// values, never as errors.
type CheckResult struct {
	OK     bool
	Reason string
}

func Proceed() CheckResult {
	return CheckResult{OK: true}
}

func Refuse(reason string) CheckResult {
	return CheckResult{Reason: reason}
}

// awaitingApproval is the shared precondition of the moderator override
// paths: the target must hold a record, must not already be verified and
// must be awaiting approval. Each failure carries its own reason.
func (s *Service) awaitingApproval(member int64) (model.Member, CheckResult, error) {
	m, err := s.store.Get(member)
	if errors.Is(err, model.ErrMemberNotFound) {
		return m, Refuse("That user is not currently being verified."), nil
	}
	if err != nil {
		return m, CheckResult{}, err
	}
	if m.IDVerified {
		return m, Refuse("That user is already verified."), nil
	}
	if !m.InState(model.StateAwaitApproval) {
		return m, Refuse("That user is not awaiting approval."), nil
	}
	return m, Proceed(), nil
}

// Approve marks a member awaiting approval as verified and grants them
// the rank.
func (s *Service) Approve(moderator, member int64) error {
	_, res, err := s.awaitingApproval(member)
	if err != nil {
		return err
	}
	if !res.OK {
		return s.gw.SendChannel(s.cfg.AdminChat, res.Reason)
	}
	err = s.store.Update(member, true, func(m *model.Member) error {
		m.IDVerified = true
		m.VerifyingModerator = moderator
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("Approve: moderator %v approved member %v", moderator, member)
	return s.grantRank(member, false)
}

// Reject resets a member awaiting approval so they may start over. The
// record itself is kept; only the state is cleared.
func (s *Service) Reject(moderator, member int64, reason string) error {
	_, res, err := s.awaitingApproval(member)
	if err != nil {
		return err
	}
	if !res.OK {
		return s.gw.SendChannel(s.cfg.AdminChat, res.Reason)
	}
	err = s.store.Update(member, true, func(m *model.Member) error {
		m.State = nil
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("Reject: moderator %v rejected member %v: %v", moderator, member, reason)
	err = s.gw.SendDM(member, fmt.Sprintf("Your verification request has been denied "+
		"for the following reason(s): `%s`.\nYou can start a new request by typing /verify.", reason))
	if err != nil {
		log.Warn("Reject: notify member %v: %v", member, err)
	}
	return s.gw.SendChannel(s.cfg.AdminChat,
		"Rejected verification request from "+s.gw.Mention(member)+".")
}

// Check re-posts the previously forwarded ID attachments of a member
// awaiting approval into the moderation channel.
func (s *Service) Check(member int64) error {
	m, res, err := s.awaitingApproval(member)
	if err != nil {
		return err
	}
	if !res.OK {
		return s.gw.SendChannel(s.cfg.AdminChat, res.Reason)
	}
	if _, err := s.gw.ForwardMessage(s.cfg.AdminChat, m.IDMessage); err != nil {
		log.Warn("Check: forward stored message for member %v: %v", member, err)
		return s.gw.SendChannel(s.cfg.AdminChat, "Could not find the previous message "+
			"containing the attachments! Perhaps it was deleted?")
	}
	return s.gw.SendChannel(s.cfg.AdminChat, fmt.Sprintf(
		"Previously received attachment(s) from %s. Please verify that the name on the ID is `%s`, "+
			"then type `/approve %d` or `/reject %d <reason>`.",
		s.gw.Mention(member), m.FullName, member, member))
}

// PendingMember is one entry of the awaiting-approval listing.
type PendingMember struct {
	ID       int64     `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Since    time.Time `json:"since"`
}

// Pending returns all members currently awaiting moderator approval,
// ordered by ID.
func (s *Service) Pending() ([]PendingMember, error) {
	unverified, err := s.store.Unverified()
	if err != nil {
		return nil, err
	}
	var pending []PendingMember
	for id, m := range unverified {
		if !m.InState(model.StateAwaitApproval) {
			continue
		}
		pending = append(pending, PendingMember{
			ID:       id,
			FullName: m.FullName,
			Email:    m.Email,
			Since:    m.VerifyTime,
		})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending, nil
}

// ReportPending renders the awaiting-approval listing into the
// moderation channel.
func (s *Service) ReportPending() error {
	pending, err := s.Pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return s.gw.SendChannel(s.cfg.AdminChat, "No members currently awaiting approval.")
	}
	lines := make([]string, 0, len(pending))
	for _, p := range pending {
		lines = append(lines, fmt.Sprintf("%s: %d", s.gw.Mention(p.ID), p.ID))
	}
	return s.gw.SendChannel(s.cfg.AdminChat,
		"*Members awaiting approval:*\n"+strings.Join(lines, "\n"))
}

// RemindPending nudges the moderation channel while members are
// waiting; quiet when none are.
func (s *Service) RemindPending() error {
	pending, err := s.Pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	log.Info("RemindPending: %v member(s) awaiting approval", len(pending))
	return s.gw.SendChannel(s.cfg.AdminChat, fmt.Sprintf(
		"%d member(s) awaiting approval. Type /pending to list them.", len(pending)))
}

// ManualVerify builds a complete verified record from moderator-supplied
// details, bypassing the whole flow, and grants the rank. arg must be
// either a valid student number or a valid email address.
func (s *Service) ManualVerify(moderator, member int64, name, arg string) error {
	m := model.DefaultMember(s.cfg.MaxEmails)
	m.FullName = name
	m.EmailVerified = true
	m.IDVerified = true
	m.VerifyingModerator = moderator

	arg = strings.TrimSpace(arg)
	switch {
	case ValidStudentID(arg):
		sid := strings.ToLower(arg)
		m.StudentID = sid
		m.Email = sid + "@" + s.cfg.StudentDomain
	case mail.ValidAddress(arg):
		m.Email = arg
	default:
		return s.gw.SendChannel(s.cfg.AdminChat,
			"That is neither a valid student number nor a valid email address.")
	}
	if err := s.store.Set(member, m); err != nil {
		return err
	}
	log.Info("ManualVerify: moderator %v verified member %v", moderator, member)
	return s.grantRank(member, false)
}

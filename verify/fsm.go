package verify

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/warden-bot/warden/mail"
	"github.com/warden-bot/warden/model"
	"github.com/warden-bot/warden/pkg/log"
)

// Store is the member record store the verification flow persists into.
type Store interface {
	Get(id int64) (model.Member, error)
	Set(id int64, m model.Member) error
	Update(id int64, mustExist bool, mutate func(m *model.Member) error) error
	Unverified() (map[int64]model.Member, error)
}

// Gateway is the chat transport the verification flow talks through.
type Gateway interface {
	SendDM(member int64, text string) error
	SendChannel(chat int64, text string) error
	ForwardMessage(chat int64, ref model.MessageRef) (model.MessageRef, error)
	GrantVerified(member int64) error
	RestrictUnverified(member int64) error
	Mention(member int64) string
}

type Config struct {
	CommunityChat int64
	AdminChat     int64
	// AnnounceChat is optional; zero disables public welcome messages.
	AnnounceChat  int64
	StudentDomain string
	MaxEmails     int
}

// Service drives the per-member verification state machine. All state
// lives in the store; every handler loads the record, validates input,
// performs side effects and writes the new state back.
type Service struct {
	store  Store
	mailer mail.Mailer
	gw     Gateway
	codes  *CodeGenerator
	cfg    Config
}

func NewService(store Store, mailer mail.Mailer, gw Gateway, codes *CodeGenerator, cfg Config) *Service {
	if cfg.MaxEmails <= 0 {
		cfg.MaxEmails = 3
	}
	if cfg.StudentDomain == "" {
		cfg.StudentDomain = "student.example.edu"
	}
	return &Service{
		store:  store,
		mailer: mailer,
		gw:     gw,
		codes:  codes,
		cfg:    cfg,
	}
}

var studentIDPattern = regexp.MustCompile(`^[zZ][0-9]{7}$`)

// ValidStudentID reports whether s is a well-formed student number.
func ValidStudentID(s string) bool {
	return studentIDPattern.MatchString(s)
}

// Incoming is one private message from a member, reduced to what the
// state handlers need.
type Incoming struct {
	Text        string
	Attachments int
	// Ref points at the member's own message so its attachments can be
	// forwarded to the moderation channel.
	Ref model.MessageRef
}

const (
	msgRequestName = "Before you can chat in our community, we need to verify who you are:\n" +
		"(1) your full name,\n" +
		"(2) whether you are a student at our institute,\n" +
		"  (2a) if yes, your student number,\n" +
		"  (2b) if not, your email address and\n" +
		"  (3b) a photo of your government-issued ID.\n" +
		"\n" +
		"The information you share is only accessible to the current moderators. " +
		"You may request to have your record deleted if you leave the community.\n" +
		"-----\n" +
		"(1) What is your full name as it appears on your government-issued ID?\n" +
		"You can restart this verification process at any time by typing /restart."
	msgRequestAffiliation = "(2) Are you a student at our institute? Please type `y` or `n`."
	msgRequestStudentID   = "(2a) What is your student number?"
	msgRequestEmail       = "(2b) What is your email address?"
	msgRequestCode        = "Please enter the code sent to your email. " +
		"Check your spam folder if you don't see it.\n" +
		"You can request another email by typing /resend."
	msgRequestIDPhoto = "(3b) Please send a message with a photo of your government-issued ID attached."

	mailSubject = "Community verification"
)

// Begin starts (or resumes the outcome of) verification for a member.
func (s *Service) Begin(member int64) error {
	m, err := s.store.Get(member)
	if errors.Is(err, model.ErrMemberNotFound) {
		if err := s.store.Set(member, model.DefaultMember(s.cfg.MaxEmails)); err != nil {
			return err
		}
		return s.requestName(member)
	}
	if err != nil {
		return err
	}
	if m.IDVerified {
		log.Info("Begin: member %v was already verified, granting rank", member)
		if err := s.grantRank(member, true); err != nil {
			return err
		}
		if err := s.gw.SendDM(member, "Our records show you were verified in the past. "+
			"You have been granted the verified rank once again. Welcome back!"); err != nil {
			return err
		}
		return s.gw.SendChannel(s.cfg.AdminChat, s.gw.Mention(member)+
			" was previously verified, and has been given the verified rank again through request.")
	}
	if m.State != nil {
		return s.gw.SendDM(member, "You are already undergoing the verification process. "+
			"To restart, type /restart.")
	}
	if m.EmailAttempts >= m.MaxEmailAttempts {
		// Previously rejected and out of email budget; grant two more
		// so the fresh cycle can dispatch at all.
		err := s.store.Update(member, true, func(m *model.Member) error {
			m.MaxEmailAttempts += 2
			return nil
		})
		if err != nil {
			return err
		}
	}
	return s.requestName(member)
}

// Restart resets an in-progress verification back to the name prompt.
// Refused once photo ID has been submitted, so moderator review cannot
// be dodged by resetting.
func (s *Service) Restart(member int64) error {
	m, err := s.store.Get(member)
	if errors.Is(err, model.ErrMemberNotFound) {
		return s.gw.SendDM(member, "You are not currently being verified.")
	}
	if err != nil {
		return err
	}
	if m.IDVerified {
		return s.gw.SendDM(member, "You are already verified.")
	}
	if m.State == nil {
		return s.gw.SendDM(member, "You are not currently being verified.")
	}
	if m.InState(model.StateAwaitIDPhoto) || m.InState(model.StateAwaitApproval) {
		return s.gw.SendDM(member, "You cannot restart after verifying your email!")
	}
	err = s.store.Update(member, true, func(m *model.Member) error {
		m.State = nil
		m.VerifyTime = time.Now()
		return nil
	})
	if err != nil {
		return err
	}
	return s.requestName(member)
}

// Resend re-dispatches the verification email, valid only while the
// member is awaiting a code.
func (s *Service) Resend(member int64) error {
	m, err := s.store.Get(member)
	if errors.Is(err, model.ErrMemberNotFound) {
		return s.gw.SendDM(member, "You are not currently being verified.")
	}
	if err != nil {
		return err
	}
	if m.IDVerified {
		return s.gw.SendDM(member, "You are already verified.")
	}
	if m.State == nil {
		return s.gw.SendDM(member, "You are not currently being verified.")
	}
	if !m.InState(model.StateAwaitCode) {
		return s.gw.SendDM(member, "You can only request another email while awaiting a code.")
	}
	return s.sendEmail(member, m, m.Email)
}

// HandleMessage routes a private message to the member's current state
// handler. Messages from members with no record, a nil state or a
// completed verification are ignored.
func (s *Service) HandleMessage(member int64, msg Incoming) error {
	m, err := s.store.Get(member)
	if errors.Is(err, model.ErrMemberNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if m.IDVerified || m.State == nil {
		return nil
	}
	switch *m.State {
	case model.StateAwaitName:
		return s.awaitName(member, msg.Text)
	case model.StateAwaitAffiliation:
		return s.awaitAffiliation(member, msg.Text)
	case model.StateAwaitStudentID:
		return s.awaitStudentID(member, m, msg.Text)
	case model.StateAwaitEmail:
		return s.awaitEmail(member, m, msg.Text)
	case model.StateAwaitCode:
		return s.awaitCode(member, m, msg.Text)
	case model.StateAwaitIDPhoto:
		return s.awaitIDPhoto(member, m, msg)
	case model.StateAwaitApproval:
		// all further progress belongs to the moderators
		return nil
	}
	return nil
}

func (s *Service) awaitName(member int64, fullName string) error {
	if len(fullName) > model.MaxNameLength {
		return s.gw.SendDM(member, fmt.Sprintf(
			"Name must be %d characters or fewer. Please try again.", model.MaxNameLength))
	}
	err := s.store.Update(member, true, func(m *model.Member) error {
		m.FullName = fullName
		return nil
	})
	if err != nil {
		return err
	}
	return s.requestAffiliation(member)
}

func (s *Service) awaitAffiliation(member int64, ans string) error {
	switch strings.ToLower(strings.TrimSpace(ans)) {
	case "y", "yes":
		return s.requestStudentID(member)
	case "n", "no":
		return s.requestEmail(member)
	}
	return s.gw.SendDM(member, "Please type `y` or `n`.")
}

func (s *Service) awaitStudentID(member int64, m model.Member, sid string) error {
	sid = strings.ToLower(strings.TrimSpace(sid))
	if !ValidStudentID(sid) {
		return s.gw.SendDM(member,
			"Your student number must match the following format: `zXXXXXXX`. Please try again.")
	}
	email := sid + "@" + s.cfg.StudentDomain
	err := s.store.Update(member, true, func(m *model.Member) error {
		m.StudentID = sid
		m.Email = email
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendEmail(member, m, email)
}

func (s *Service) awaitEmail(member int64, m model.Member, email string) error {
	email = strings.TrimSpace(email)
	if !mail.ValidAddress(email) {
		return s.gw.SendDM(member, "That is not a valid email address. Please try again.")
	}
	err := s.store.Update(member, true, func(m *model.Member) error {
		m.Email = email
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendEmail(member, m, email)
}

// sendEmail dispatches a verification code to email, shared by both
// branches and by resend. The code is keyed on a fresh timestamp which
// becomes the record's nonce only after delivery succeeds; failed sends
// consume no budget and leave the previous code valid.
func (s *Service) sendEmail(member int64, m model.Member, email string) error {
	if m.EmailAttempts >= m.MaxEmailAttempts {
		return s.gw.SendDM(member, "You have requested too many emails. "+
			"Please message a moderator to continue verification.")
	}
	now := time.Now()
	code := s.codes.Code(member, now)
	if err := s.mailer.Send(email, mailSubject, "Your verification code is "+code); err != nil {
		log.Warn("sendEmail: member %v: %v", member, err)
		return s.gw.SendDM(member, "Oops! Something went wrong while attempting to send you "+
			"an email. Please ensure that your details have been entered correctly.")
	}
	err := s.store.Update(member, true, func(m *model.Member) error {
		m.VerifyTime = now
		m.EmailAttempts++
		return nil
	})
	if err != nil {
		return err
	}
	return s.requestCode(member)
}

func (s *Service) awaitCode(member int64, m model.Member, received string) error {
	if !s.codes.Verify(member, m.VerifyTime, strings.TrimSpace(received)) {
		return s.gw.SendDM(member, "That was not the correct code. Please try again.\n"+
			"You can request another email by typing /resend.")
	}
	err := s.store.Update(member, true, func(m *model.Member) error {
		m.EmailVerified = true
		m.VerifyTime = time.Now()
		return nil
	})
	if err != nil {
		return err
	}
	if m.StudentID == "" {
		return s.requestIDPhoto(member)
	}
	// institutional affiliation is sufficient identity assurance
	err = s.store.Update(member, true, func(m *model.Member) error {
		m.IDVerified = true
		return nil
	})
	if err != nil {
		return err
	}
	return s.grantRank(member, false)
}

func (s *Service) awaitIDPhoto(member int64, m model.Member, msg Incoming) error {
	if msg.Attachments == 0 {
		return s.gw.SendDM(member, "No attachments received. Please try again.")
	}
	fwd, err := s.gw.ForwardMessage(s.cfg.AdminChat, msg.Ref)
	if err != nil {
		log.Warn("awaitIDPhoto: forward from member %v: %v", member, err)
		return s.gw.SendDM(member, "Oops! Something went wrong while forwarding your "+
			"attachment(s). Please try again.")
	}
	err = s.gw.SendChannel(s.cfg.AdminChat, fmt.Sprintf(
		"Received attachment(s) from %s. Please verify that the name on the ID is `%s`, "+
			"then type `/approve %d` or `/reject %d <reason>`.",
		s.gw.Mention(member), m.FullName, member, member))
	if err != nil {
		return err
	}
	state := model.StateAwaitApproval
	err = s.store.Update(member, true, func(m *model.Member) error {
		m.IDMessage = fwd
		m.State = &state
		return nil
	})
	if err != nil {
		return err
	}
	return s.gw.SendDM(member, "Your attachment(s) have been forwarded to the moderators. Please wait.")
}

func (s *Service) requestName(member int64) error {
	if err := s.gw.SendDM(member, msgRequestName); err != nil {
		return err
	}
	return s.setState(member, model.StateAwaitName)
}

func (s *Service) requestAffiliation(member int64) error {
	if err := s.gw.SendDM(member, msgRequestAffiliation); err != nil {
		return err
	}
	return s.setState(member, model.StateAwaitAffiliation)
}

func (s *Service) requestStudentID(member int64) error {
	if err := s.gw.SendDM(member, msgRequestStudentID); err != nil {
		return err
	}
	return s.setState(member, model.StateAwaitStudentID)
}

func (s *Service) requestEmail(member int64) error {
	if err := s.gw.SendDM(member, msgRequestEmail); err != nil {
		return err
	}
	return s.setState(member, model.StateAwaitEmail)
}

func (s *Service) requestCode(member int64) error {
	if err := s.gw.SendDM(member, msgRequestCode); err != nil {
		return err
	}
	return s.setState(member, model.StateAwaitCode)
}

func (s *Service) requestIDPhoto(member int64) error {
	if err := s.gw.SendDM(member, msgRequestIDPhoto); err != nil {
		return err
	}
	return s.setState(member, model.StateAwaitIDPhoto)
}

func (s *Service) setState(member int64, state model.State) error {
	return s.store.Update(member, true, func(m *model.Member) error {
		m.State = &state
		return nil
	})
}

// IsVerified reports whether the member has completed verification.
func (s *Service) IsVerified(member int64) (bool, error) {
	m, err := s.store.Get(member)
	if errors.Is(err, model.ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.IDVerified, nil
}

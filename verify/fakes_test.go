package verify

import (
	"fmt"

	"github.com/warden-bot/warden/mail"
	"github.com/warden-bot/warden/model"
)

const (
	testCommunityChat = int64(100)
	testAdminChat     = int64(200)
	testAnnounceChat  = int64(300)
	testStudentDomain = "student.test.edu"
	testMaxEmails     = 3
)

type fakeStore struct {
	members map[int64]model.Member
}

func newFakeStore() *fakeStore {
	return &fakeStore{members: make(map[int64]model.Member)}
}

func (s *fakeStore) Get(id int64) (model.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return model.Member{}, model.ErrMemberNotFound
	}
	return m, nil
}

func (s *fakeStore) Set(id int64, m model.Member) error {
	s.members[id] = m
	return nil
}

func (s *fakeStore) Update(id int64, mustExist bool, mutate func(m *model.Member) error) error {
	m, ok := s.members[id]
	if !ok {
		if mustExist {
			return model.ErrMemberNotFound
		}
		m = model.Member{}
	}
	if err := mutate(&m); err != nil {
		return err
	}
	s.members[id] = m
	return nil
}

func (s *fakeStore) Unverified() (map[int64]model.Member, error) {
	out := make(map[int64]model.Member)
	for id, m := range s.members {
		if !m.IDVerified {
			out[id] = m
		}
	}
	return out, nil
}

type sentMail struct {
	Recipient string
	Subject   string
	Body      string
}

type fakeMailer struct {
	sent []sentMail
	fail bool
}

func (m *fakeMailer) Send(recipient, subject, body string) error {
	if m.fail {
		return fmt.Errorf("%w: provider rejected", mail.ErrSendFailed)
	}
	m.sent = append(m.sent, sentMail{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

type fakeGateway struct {
	dms        map[int64][]string
	channels   map[int64][]string
	forwards   []model.MessageRef
	forwardErr error
	granted    []int64
	restricted []int64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		dms:      make(map[int64][]string),
		channels: make(map[int64][]string),
	}
}

func (g *fakeGateway) SendDM(member int64, text string) error {
	g.dms[member] = append(g.dms[member], text)
	return nil
}

func (g *fakeGateway) SendChannel(chat int64, text string) error {
	g.channels[chat] = append(g.channels[chat], text)
	return nil
}

func (g *fakeGateway) ForwardMessage(chat int64, ref model.MessageRef) (model.MessageRef, error) {
	if g.forwardErr != nil {
		return model.MessageRef{}, g.forwardErr
	}
	g.forwards = append(g.forwards, ref)
	return model.MessageRef{ChatID: chat, MessageID: "fwd-" + ref.MessageID}, nil
}

func (g *fakeGateway) GrantVerified(member int64) error {
	g.granted = append(g.granted, member)
	return nil
}

func (g *fakeGateway) RestrictUnverified(member int64) error {
	g.restricted = append(g.restricted, member)
	return nil
}

func (g *fakeGateway) Mention(member int64) string {
	return fmt.Sprintf("@%d", member)
}

func (g *fakeGateway) lastDM(member int64) string {
	dms := g.dms[member]
	if len(dms) == 0 {
		return ""
	}
	return dms[len(dms)-1]
}

func (g *fakeGateway) lastChannel(chat int64) string {
	msgs := g.channels[chat]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

func newTestService() (*Service, *fakeStore, *fakeMailer, *fakeGateway) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	gw := newFakeGateway()
	svc := NewService(store, mailer, gw, NewCodeGenerator([]byte("test-secret")), Config{
		CommunityChat: testCommunityChat,
		AdminChat:     testAdminChat,
		AnnounceChat:  testAnnounceChat,
		StudentDomain: testStudentDomain,
		MaxEmails:     testMaxEmails,
	})
	return svc, store, mailer, gw
}

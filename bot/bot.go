package bot

import (
	"strings"
	"time"

	"github.com/warden-bot/warden/gateway"
	"github.com/warden-bot/warden/model"
	"github.com/warden-bot/warden/pkg/log"
	"github.com/warden-bot/warden/verify"
	tb "gopkg.in/tucnak/telebot.v2"
)

type Bot struct {
	Bot       *tb.Bot
	Verifier  *verify.Service
	Gateway   *gateway.Telegram
	AdminChat int64
}

type CommandHandler func(b *Bot, m *tb.Message, params []string)

type command struct {
	handler CommandHandler
	checks  []Check
}

var GlobalCommandMapper = make(map[string]command)

// RegisterCommand binds a handler to a command name. The checks run in
// order before dispatch; the first refusal stops the command.
func RegisterCommand(name string, handler CommandHandler, checks ...Check) {
	GlobalCommandMapper[name] = command{handler: handler, checks: checks}
}

func New(token string, poller *tb.LongPoller) (*Bot, error) {
	if poller == nil {
		poller = &tb.LongPoller{Timeout: 15 * time.Second}
	}
	b, err := tb.NewBot(tb.Settings{
		Token:  token,
		Poller: poller,
	})
	if err != nil {
		return nil, err
	}
	bot := &Bot{Bot: b}
	b.Handle(tb.OnText, bot.onText)
	b.Handle(tb.OnPhoto, bot.onMedia)
	b.Handle(tb.OnDocument, bot.onMedia)
	b.Handle(tb.OnUserJoined, bot.onUserJoined)
	return bot, nil
}

// Bind wires the collaborators in before Start.
func (b *Bot) Bind(verifier *verify.Service, gw *gateway.Telegram, adminChat int64) {
	b.Verifier = verifier
	b.Gateway = gw
	b.AdminChat = adminChat
}

func (b *Bot) Start() {
	b.Bot.Start()
}

func (b *Bot) Reply(m *tb.Message, text string) {
	if _, err := b.Bot.Reply(m, text, tb.Silent, tb.NoPreview); err != nil {
		log.Warn("Reply: %v", err)
	}
}

func (b *Bot) onText(m *tb.Message) {
	if strings.HasPrefix(m.Text, "/") && len(m.Text) > 1 {
		fields := strings.Fields(strings.TrimPrefix(m.Text, "/"))
		// strip the bot mention from /verify@SomeBot
		name := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
		cmd, ok := GlobalCommandMapper[name]
		if !ok {
			return
		}
		if res := b.runChecks(append([]Check{IsHuman}, cmd.checks...), m); !res.OK {
			if res.Reason != "" {
				b.Reply(m, res.Reason)
			}
			return
		}
		cmd.handler(b, m, fields[1:])
		return
	}
	b.onMemberMessage(m)
}

func (b *Bot) onMedia(m *tb.Message) {
	b.onMemberMessage(m)
}

// onMemberMessage feeds a non-command private message from an unverified
// community member into their verification flow. Gate failures are
// silent; strangers get no hints.
func (b *Bot) onMemberMessage(m *tb.Message) {
	if res := b.runChecks([]Check{IsHuman, InPrivateChat, IsCommunityMember, IsUnverified}, m); !res.OK {
		return
	}
	member := int64(m.Sender.ID)
	text := m.Text
	if text == "" {
		text = m.Caption
	}
	sig, chatID := m.MessageSig()
	err := b.Verifier.HandleMessage(member, verify.Incoming{
		Text:        text,
		Attachments: countAttachments(m),
		Ref:         model.MessageRef{ChatID: chatID, MessageID: sig},
	})
	if err != nil {
		log.Warn("onMemberMessage: member %v: %v", member, err)
	}
}

func (b *Bot) onUserJoined(m *tb.Message) {
	users := m.UsersJoined
	if len(users) == 0 && m.UserJoined != nil {
		users = []tb.User{*m.UserJoined}
	}
	for i := range users {
		u := users[i]
		if u.IsBot {
			continue
		}
		if err := b.Verifier.HandleJoin(int64(u.ID)); err != nil {
			log.Warn("onUserJoined: member %v: %v", u.ID, err)
		}
	}
}

func countAttachments(m *tb.Message) (n int) {
	if m.Photo != nil {
		n++
	}
	if m.Document != nil {
		n++
	}
	if m.Video != nil {
		n++
	}
	return n
}

package gateway

import (
	"fmt"

	"github.com/warden-bot/warden/model"
	tb "gopkg.in/tucnak/telebot.v2"
)

// Telegram adapts the bot transport to the messaging operations the
// verification flow needs. "Granting the verified role" is rendered as
// lifting all restrictions on the member in the community group;
// unverified joiners are muted until then.
type Telegram struct {
	bot       *tb.Bot
	community *tb.Chat
}

func NewTelegram(bot *tb.Bot, communityChat int64) *Telegram {
	return &Telegram{
		bot:       bot,
		community: &tb.Chat{ID: communityChat},
	}
}

func (g *Telegram) SendDM(member int64, text string) error {
	_, err := g.bot.Send(&tb.User{ID: member}, text, tb.ModeMarkdown)
	return err
}

func (g *Telegram) SendChannel(chat int64, text string) error {
	_, err := g.bot.Send(&tb.Chat{ID: chat}, text, tb.ModeMarkdown)
	return err
}

// ForwardMessage re-posts a previously seen message (attachments
// included) into chat and returns a reference to the new copy.
func (g *Telegram) ForwardMessage(chat int64, ref model.MessageRef) (model.MessageRef, error) {
	msg, err := g.bot.Forward(&tb.Chat{ID: chat}, tb.StoredMessage{
		MessageID: ref.MessageID,
		ChatID:    ref.ChatID,
	})
	if err != nil {
		return model.MessageRef{}, err
	}
	sig, chatID := msg.MessageSig()
	return model.MessageRef{ChatID: chatID, MessageID: sig}, nil
}

func (g *Telegram) GrantVerified(member int64) error {
	return g.bot.Restrict(g.community, &tb.ChatMember{
		User:            &tb.User{ID: member},
		Rights:          tb.NoRestrictions(),
		RestrictedUntil: tb.Forever(),
	})
}

func (g *Telegram) RestrictUnverified(member int64) error {
	return g.bot.Restrict(g.community, &tb.ChatMember{
		User:            &tb.User{ID: member},
		Rights:          tb.NoRights(),
		RestrictedUntil: tb.Forever(),
	})
}

func (g *Telegram) IsCommunityMember(member int64) (bool, error) {
	cm, err := g.bot.ChatMemberOf(g.community, &tb.User{ID: member})
	if err != nil {
		return false, err
	}
	switch cm.Role {
	case tb.Left, tb.Kicked:
		return false, nil
	}
	return true, nil
}

// IsModerator reports whether the member administers the community group.
func (g *Telegram) IsModerator(member int64) (bool, error) {
	admins, err := g.bot.AdminsOf(g.community)
	if err != nil {
		return false, err
	}
	for _, a := range admins {
		if a.User != nil && int64(a.User.ID) == member {
			return true, nil
		}
	}
	return false, nil
}

func (g *Telegram) Mention(member int64) string {
	return fmt.Sprintf("[%d](tg://user?id=%d)", member, member)
}

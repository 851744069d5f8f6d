package bot

import (
	"github.com/warden-bot/warden/pkg/log"
	"github.com/warden-bot/warden/verify"
	tb "gopkg.in/tucnak/telebot.v2"
)

// Check is one authorization predicate evaluated before a command or
// message is dispatched. An empty refusal reason means fail silently.
type Check func(b *Bot, m *tb.Message) verify.CheckResult

func (b *Bot) runChecks(checks []Check, m *tb.Message) verify.CheckResult {
	for _, check := range checks {
		if res := check(b, m); !res.OK {
			return res
		}
	}
	return verify.Proceed()
}

func IsHuman(b *Bot, m *tb.Message) verify.CheckResult {
	if m.Sender == nil || m.Sender.IsBot {
		return verify.Refuse("")
	}
	return verify.Proceed()
}

func InPrivateChat(b *Bot, m *tb.Message) verify.CheckResult {
	if !m.Private() {
		return verify.Refuse("Please send me this command in a private message.")
	}
	return verify.Proceed()
}

func InAdminChat(b *Bot, m *tb.Message) verify.CheckResult {
	if m.Chat == nil || m.Chat.ID != b.AdminChat {
		return verify.Refuse("This command can only be used in the moderation group.")
	}
	return verify.Proceed()
}

func IsModerator(b *Bot, m *tb.Message) verify.CheckResult {
	ok, err := b.Gateway.IsModerator(int64(m.Sender.ID))
	if err != nil {
		log.Warn("IsModerator: member %v: %v", m.Sender.ID, err)
		return verify.Refuse("")
	}
	if !ok {
		return verify.Refuse("You are not authorized to use this command.")
	}
	return verify.Proceed()
}

func IsCommunityMember(b *Bot, m *tb.Message) verify.CheckResult {
	ok, err := b.Gateway.IsCommunityMember(int64(m.Sender.ID))
	if err != nil {
		log.Warn("IsCommunityMember: member %v: %v", m.Sender.ID, err)
		return verify.Refuse("")
	}
	if !ok {
		return verify.Refuse("You must be a member of the community to use this command.")
	}
	return verify.Proceed()
}

func IsUnverified(b *Bot, m *tb.Message) verify.CheckResult {
	verified, err := b.Verifier.IsVerified(int64(m.Sender.ID))
	if err != nil {
		log.Warn("IsUnverified: member %v: %v", m.Sender.ID, err)
		return verify.Refuse("")
	}
	if verified {
		return verify.Refuse("")
	}
	return verify.Proceed()
}

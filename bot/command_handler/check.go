package command_handler

import (
	"strconv"

	"github.com/warden-bot/warden/bot"
	"github.com/warden-bot/warden/pkg/log"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommand("check", Check, bot.InAdminChat, bot.IsModerator)
}

func Check(b *bot.Bot, m *tb.Message, params []string) {
	if len(params) < 1 {
		b.Reply(m, "Usage: /check <member-id>")
		return
	}
	target, err := strconv.ParseInt(params[0], 10, 64)
	if err != nil {
		b.Reply(m, "Usage: /check <member-id>")
		return
	}
	log.Info("Check: moderator %v, member %v", m.Sender.ID, target)
	if err := b.Verifier.Check(target); err != nil {
		log.Warn("Check: %v", err)
	}
}

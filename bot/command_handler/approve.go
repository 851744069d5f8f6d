package command_handler

import (
	"strconv"

	"github.com/warden-bot/warden/bot"
	"github.com/warden-bot/warden/pkg/log"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommand("approve", Approve, bot.InAdminChat, bot.IsModerator)
}

func Approve(b *bot.Bot, m *tb.Message, params []string) {
	if len(params) < 1 {
		b.Reply(m, "Usage: /approve <member-id>")
		return
	}
	target, err := strconv.ParseInt(params[0], 10, 64)
	if err != nil {
		b.Reply(m, "Usage: /approve <member-id>")
		return
	}
	log.Info("Approve: moderator %v, member %v", m.Sender.ID, target)
	if err := b.Verifier.Approve(int64(m.Sender.ID), target); err != nil {
		log.Warn("Approve: %v", err)
	}
}

package command_handler

import (
	"strconv"
	"strings"

	"github.com/warden-bot/warden/bot"
	"github.com/warden-bot/warden/pkg/log"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommand("reject", Reject, bot.InAdminChat, bot.IsModerator)
}

func Reject(b *bot.Bot, m *tb.Message, params []string) {
	if len(params) < 2 {
		b.Reply(m, "Usage: /reject <member-id> <reason>")
		return
	}
	target, err := strconv.ParseInt(params[0], 10, 64)
	if err != nil {
		b.Reply(m, "Usage: /reject <member-id> <reason>")
		return
	}
	reason := strings.Join(params[1:], " ")
	log.Info("Reject: moderator %v, member %v", m.Sender.ID, target)
	if err := b.Verifier.Reject(int64(m.Sender.ID), target, reason); err != nil {
		log.Warn("Reject: %v", err)
	}
}

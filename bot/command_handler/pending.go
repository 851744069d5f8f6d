package command_handler

import (
	"github.com/warden-bot/warden/bot"
	"github.com/warden-bot/warden/pkg/log"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommand("pending", Pending, bot.InAdminChat, bot.IsModerator)
}

func Pending(b *bot.Bot, m *tb.Message, params []string) {
	log.Info("Pending: moderator %v", m.Sender.ID)
	if err := b.Verifier.ReportPending(); err != nil {
		log.Warn("Pending: %v", err)
	}
}

package command_handler

import (
	"github.com/warden-bot/warden/bot"
	"github.com/warden-bot/warden/pkg/log"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommand("resend", Resend, bot.InPrivateChat, bot.IsCommunityMember)
}

func Resend(b *bot.Bot, m *tb.Message, params []string) {
	log.Info("Resend: member %v", m.Sender.ID)
	if err := b.Verifier.Resend(int64(m.Sender.ID)); err != nil {
		log.Warn("Resend: %v", err)
	}
}

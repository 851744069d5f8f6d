package command_handler

import (
	"github.com/warden-bot/warden/bot"
	"github.com/warden-bot/warden/pkg/log"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommand("verify", Verify, bot.InPrivateChat, bot.IsCommunityMember)
}

func Verify(b *bot.Bot, m *tb.Message, params []string) {
	log.Info("Verify: member %v", m.Sender.ID)
	if err := b.Verifier.Begin(int64(m.Sender.ID)); err != nil {
		log.Warn("Verify: %v", err)
	}
}

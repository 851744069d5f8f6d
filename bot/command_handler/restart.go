package command_handler

import (
	"github.com/warden-bot/warden/bot"
	"github.com/warden-bot/warden/pkg/log"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommand("restart", Restart, bot.InPrivateChat, bot.IsCommunityMember)
}

func Restart(b *bot.Bot, m *tb.Message, params []string) {
	log.Info("Restart: member %v", m.Sender.ID)
	if err := b.Verifier.Restart(int64(m.Sender.ID)); err != nil {
		log.Warn("Restart: %v", err)
	}
}

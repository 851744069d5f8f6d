package main

import (
	"github.com/warden-bot/warden/bot"
	_ "github.com/warden-bot/warden/bot/command_handler"
	"github.com/warden-bot/warden/config"
	"github.com/warden-bot/warden/db"
	"github.com/warden-bot/warden/gateway"
	"github.com/warden-bot/warden/mail"
	"github.com/warden-bot/warden/pkg/log"
	"github.com/warden-bot/warden/service"
	"github.com/warden-bot/warden/verify"
	"github.com/warden-bot/warden/webserver/router"
)

func main() {
	conf := config.GetConfig()

	store := service.NewMemberStore(db.DB())
	secret, err := store.GetOrCreateSecret(service.SecretVerify)
	if err != nil {
		log.Fatal("main: %v", err)
	}
	mailer := mail.NewSMTPMailer(conf.SMTPHost, conf.SMTPPort, conf.SMTPUser, conf.SMTPPassword, conf.MailFrom)

	b, err := bot.New(conf.BotToken, nil)
	if err != nil {
		log.Fatal("Bot: %v", err)
	}
	gw := gateway.NewTelegram(b.Bot, conf.CommunityChat)
	verifier := verify.NewService(store, mailer, gw, verify.NewCodeGenerator(secret), verify.Config{
		CommunityChat: conf.CommunityChat,
		AdminChat:     conf.AdminChat,
		AnnounceChat:  conf.AnnounceChat,
		StudentDomain: conf.StudentDomain,
		MaxEmails:     conf.MaxVerifyEmails,
	})
	b.Bind(verifier, gw, conf.AdminChat)

	GoBackgrounds(verifier)
	go b.Start()

	if err := router.Run(conf.Address, verifier); err != nil {
		log.Fatal("%v", err)
	}
}

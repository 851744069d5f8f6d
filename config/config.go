package config

import (
	log2 "log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/stevenroose/gonfig"
	"github.com/warden-bot/warden/db"
	"github.com/warden-bot/warden/pkg/log"
)

type Params struct {
	Address         string `id:"address" short:"a" default:"0.0.0.0:14914" desc:"Moderation API listening address"`
	Config          string `id:"config" short:"c" default:"$HOME/.config/warden" desc:"Warden configuration directory"`
	BotToken        string `id:"bot-token" desc:"Telegram bot token"`
	CommunityChat   int64  `id:"community-chat" desc:"Chat ID of the community group the bot gates"`
	AdminChat       int64  `id:"admin-chat" desc:"Chat ID of the moderator group"`
	AnnounceChat    int64  `id:"announce-chat" desc:"Optional chat ID for public welcome announcements"`
	SMTPHost        string `id:"smtp-host" desc:"SMTP server host for verification emails"`
	SMTPPort        int    `id:"smtp-port" default:"587"`
	SMTPUser        string `id:"smtp-user"`
	SMTPPassword    string `id:"smtp-password"`
	MailFrom        string `id:"mail-from" desc:"Sender address for verification emails"`
	StudentDomain   string `id:"student-domain" default:"student.example.edu" desc:"Mail domain derived from student numbers"`
	MaxVerifyEmails int    `id:"max-verify-emails" default:"3" desc:"Verification emails allowed per member per attempt cycle"`
	LogLevel        string `id:"log-level" default:"info" desc:"Optional values: trace, debug, info, warn or error"`
	LogFile         string `id:"log-file" desc:"The path of log file"`
	LogMaxDays      int64  `id:"log-max-days" default:"3" desc:"Maximum number of days to keep log files"`
	LogDisableColor bool   `id:"log-disable-color"`
}

var params Params

func initFunc() {
	err := gonfig.Load(&params, gonfig.Conf{
		FileDisable:       true,
		FlagIgnoreUnknown: false,
		EnvPrefix:         "WARDEN_",
	})
	if err != nil {
		if err.Error() != "unexpected word while parsing flags: '-test.v'" {
			log2.Fatal(err)
		}
	}
	// replace all dots of the filename with underlines
	params.Config = filepath.Join(
		filepath.Dir(params.Config),
		strings.ReplaceAll(filepath.Base(params.Config), ".", "_"),
	)
	if strings.Contains(params.Config, "$HOME") {
		if h, err := os.UserHomeDir(); err == nil {
			params.Config = strings.ReplaceAll(params.Config, "$HOME", h)
		}
	}
	if err := os.MkdirAll(params.Config, 0700); err != nil {
		log2.Fatal(err)
	}
	logWay := "console"
	if params.LogFile != "" {
		logWay = "file"
	}
	log.InitLog(logWay, params.LogFile, params.LogLevel, params.LogMaxDays, params.LogDisableColor)
	db.InitDB(params.Config)
}

var once sync.Once

func GetConfig() *Params {
	once.Do(initFunc)
	return &params
}

package command_handler

import (
	"strconv"
	"strings"

	"github.com/warden-bot/warden/bot"
	"github.com/warden-bot/warden/pkg/log"
	tb "gopkg.in/tucnak/telebot.v2"
)

const manualUsage = "Usage: /manual <member-id> \"Full Name\" <student number or email>"

func init() {
	bot.RegisterCommand("manual", Manual, bot.InAdminChat, bot.IsModerator)
}

func Manual(b *bot.Bot, m *tb.Message, params []string) {
	if len(params) < 3 {
		b.Reply(m, manualUsage)
		return
	}
	target, err := strconv.ParseInt(params[0], 10, 64)
	if err != nil {
		b.Reply(m, manualUsage)
		return
	}
	name, arg, ok := parseManualArgs(params[1:])
	if !ok {
		b.Reply(m, manualUsage)
		return
	}
	if member, err := b.Gateway.IsCommunityMember(target); err != nil || !member {
		if err != nil {
			log.Warn("Manual: membership of %v: %v", target, err)
		}
		b.Reply(m, "Could not find that member in the community!")
		return
	}
	log.Info("Manual: moderator %v, member %v", m.Sender.ID, target)
	if err := b.Verifier.ManualVerify(int64(m.Sender.ID), target, name, arg); err != nil {
		log.Warn("Manual: %v", err)
	}
}

// parseManualArgs splits the tail of a manual command into the quoted
// member name and the trailing identifier.
func parseManualArgs(params []string) (name, arg string, ok bool) {
	rest := strings.TrimSpace(strings.Join(params, " "))
	if !strings.HasPrefix(rest, `"`) {
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return "", "", false
		}
		return fields[0], fields[1], true
	}
	end := strings.Index(rest[1:], `"`)
	if end < 0 {
		return "", "", false
	}
	name = rest[1 : 1+end]
	arg = strings.TrimSpace(rest[2+end:])
	if name == "" || arg == "" || strings.Contains(arg, " ") {
		return "", "", false
	}
	return name, arg, true
}

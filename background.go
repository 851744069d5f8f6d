package main

import (
	"time"

	"github.com/warden-bot/warden/pkg/log"
	"github.com/warden-bot/warden/verify"
)

// GoBackgrounds reconciles pending approvals at startup and reminds the
// moderators once a day while any remain.
func GoBackgrounds(verifier *verify.Service) {
	go func() {
		for {
			if err := verifier.RemindPending(); err != nil {
				log.Warn("RemindPending: %v", err)
			}
			time.Sleep(24 * time.Hour)
		}
	}()
}

package verify

import (
	"errors"

	"github.com/warden-bot/warden/model"
	"github.com/warden-bot/warden/pkg/log"
)

// grantRank assigns the verified rank. In silent mode the member and the
// public announce channel are not messaged; only the caller decides what
// the moderators hear.
func (s *Service) grantRank(member int64, silent bool) error {
	if err := s.gw.GrantVerified(member); err != nil {
		return err
	}
	log.Info("granted verified rank to member %v", member)
	if silent {
		return nil
	}
	err := s.gw.SendDM(member, "You are now verified. Welcome to the community!")
	if err != nil {
		log.Warn("grantRank: welcome member %v: %v", member, err)
	}
	if err := s.gw.SendChannel(s.cfg.AdminChat, s.gw.Mention(member)+" is now verified."); err != nil {
		return err
	}
	if s.cfg.AnnounceChat != 0 {
		return s.gw.SendChannel(s.cfg.AnnounceChat, "Welcome "+s.gw.Mention(member)+"!")
	}
	return nil
}

// HandleJoin reconciles a joining member against their persisted record.
// Previously verified members are silently re-granted the rank; everyone
// else is muted until they verify.
func (s *Service) HandleJoin(member int64) error {
	m, err := s.store.Get(member)
	if err == nil && m.IDVerified {
		if err := s.grantRank(member, true); err != nil {
			return err
		}
		return s.gw.SendChannel(s.cfg.AdminChat, s.gw.Mention(member)+
			" was previously verified, and has automatically been granted the verified rank "+
			"upon (re)joining.")
	}
	if err != nil && !errors.Is(err, model.ErrMemberNotFound) {
		return err
	}
	if err := s.gw.RestrictUnverified(member); err != nil {
		log.Warn("HandleJoin: restrict member %v: %v", member, err)
	}
	return s.gw.SendChannel(s.cfg.CommunityChat, "Welcome "+s.gw.Mention(member)+"! "+
		"Please message me privately with /verify to unlock chat.")
}

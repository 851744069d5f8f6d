package service

import (
	"crypto/rand"
	"fmt"
	"strconv"

	"github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"
	"github.com/warden-bot/warden/model"
	"github.com/warden-bot/warden/pkg/log"
)

// SecretVerify names the persisted secret the code generator is keyed on.
const SecretVerify = "verify"

const secretLength = 64

// MemberStore persists member verification records in bolt. Every mutation
// runs its read-modify-write inside a single write transaction, so two
// mutations can never interleave on one record.
type MemberStore struct {
	db *bolt.DB
}

func NewMemberStore(db *bolt.DB) *MemberStore {
	return &MemberStore{db: db}
}

func memberKey(id int64) []byte {
	return []byte(strconv.FormatInt(id, 10))
}

// Get retrieves the record for a member. Returns model.ErrMemberNotFound
// if no record exists.
func (s *MemberStore) Get(id int64) (m model.Member, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketMembers))
		if bkt == nil {
			return model.ErrMemberNotFound
		}
		val := bkt.Get(memberKey(id))
		if val == nil {
			return model.ErrMemberNotFound
		}
		return jsoniter.Unmarshal(val, &m)
	})
	return m, err
}

// Set writes the record for a member, replacing any existing one.
func (s *MemberStore) Set(id int64, m model.Member) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketMembers))
		if err != nil {
			return err
		}
		b, err := jsoniter.Marshal(&m)
		if err != nil {
			return err
		}
		return bkt.Put(memberKey(id), b)
	})
}

// Update applies mutate to the member's record inside one write
// transaction. If the record is absent and mustExist is set, it returns
// model.ErrMemberNotFound; otherwise mutate starts from a zero record.
func (s *MemberStore) Update(id int64, mustExist bool, mutate func(m *model.Member) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketMembers))
		if err != nil {
			return err
		}
		var m model.Member
		val := bkt.Get(memberKey(id))
		if val == nil {
			if mustExist {
				return model.ErrMemberNotFound
			}
		} else if err := jsoniter.Unmarshal(val, &m); err != nil {
			return err
		}
		if err := mutate(&m); err != nil {
			return err
		}
		b, err := jsoniter.Marshal(&m)
		if err != nil {
			return err
		}
		return bkt.Put(memberKey(id), b)
	})
}

// Delete removes the record for a member. Returns model.ErrMemberNotFound
// if the record is absent and mustExist is set.
func (s *MemberStore) Delete(id int64, mustExist bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketMembers))
		if bkt == nil || bkt.Get(memberKey(id)) == nil {
			if mustExist {
				return model.ErrMemberNotFound
			}
			return nil
		}
		return bkt.Delete(memberKey(id))
	})
}

// Unverified returns the records of all members that have not completed
// identity verification.
func (s *MemberStore) Unverified() (map[int64]model.Member, error) {
	members := make(map[int64]model.Member)
	err := s.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketMembers))
		if bkt == nil {
			return nil
		}
		return bkt.ForEach(func(k, v []byte) error {
			var m model.Member
			if err := jsoniter.Unmarshal(v, &m); err != nil {
				// do not stop the iter
				log.Warn("Unverified: skip corrupt record %s: %v", k, err)
				return nil
			}
			if m.IDVerified {
				return nil
			}
			id, err := strconv.ParseInt(string(k), 10, 64)
			if err != nil {
				return nil
			}
			members[id] = m
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

// GetOrCreateSecret returns the named high-entropy secret, generating and
// persisting it on first use. Once established it is never regenerated.
func (s *MemberStore) GetOrCreateSecret(name string) (secret []byte, err error) {
	err = s.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketSecrets))
		if err != nil {
			return err
		}
		if val := bkt.Get([]byte(name)); val != nil {
			secret = make([]byte, len(val))
			copy(secret, val)
			return nil
		}
		secret = make([]byte, secretLength)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate secret: %w", err)
		}
		log.Info("generated new %q secret", name)
		return bkt.Put([]byte(name), secret)
	})
	if err != nil {
		return nil, err
	}
	return secret, nil
}

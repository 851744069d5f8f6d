package service

import (
	"path/filepath"
	"testing"

	"github.com/boltdb/bolt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warden-bot/warden/model"
)

func newTestStore(t *testing.T) *MemberStore {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "bolt.db"), 0600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMemberStore(db)
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(1)
	assert.ErrorIs(t, err, model.ErrMemberNotFound)
}

func TestSetGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	state := model.StateAwaitCode
	in := model.DefaultMember(3)
	in.FullName = "Ada Lovelace"
	in.StudentID = "z1234567"
	in.Email = "z1234567@student.test.edu"
	in.State = &state
	in.EmailAttempts = 2

	require.NoError(t, store.Set(1, in))

	out, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, in.FullName, out.FullName)
	assert.Equal(t, in.StudentID, out.StudentID)
	assert.Equal(t, in.Email, out.Email)
	assert.Equal(t, in.EmailAttempts, out.EmailAttempts)
	require.NotNil(t, out.State)
	assert.Equal(t, model.StateAwaitCode, *out.State)
	assert.True(t, in.VerifyTime.Equal(out.VerifyTime))
}

func TestUpdateMustExist(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(1, true, func(m *model.Member) error { return nil })
	assert.ErrorIs(t, err, model.ErrMemberNotFound)

	err = store.Update(1, false, func(m *model.Member) error {
		m.FullName = "Ada Lovelace"
		return nil
	})
	require.NoError(t, err)

	out, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", out.FullName)
}

func TestUpdateMutatesInPlace(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(1, model.DefaultMember(3)))

	err := store.Update(1, true, func(m *model.Member) error {
		m.EmailAttempts++
		return nil
	})
	require.NoError(t, err)

	out, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 1, out.EmailAttempts)
	assert.Equal(t, 3, out.MaxEmailAttempts)
}

func TestUpdateMutateErrorDiscardsWrite(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(1, model.DefaultMember(3)))

	wantErr := assert.AnError
	err := store.Update(1, true, func(m *model.Member) error {
		m.EmailAttempts = 99
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	out, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 0, out.EmailAttempts)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	assert.ErrorIs(t, store.Delete(1, true), model.ErrMemberNotFound)
	assert.NoError(t, store.Delete(1, false))

	require.NoError(t, store.Set(1, model.DefaultMember(3)))
	require.NoError(t, store.Delete(1, true))
	_, err := store.Get(1)
	assert.ErrorIs(t, err, model.ErrMemberNotFound)
}

func TestUnverifiedFiltersVerified(t *testing.T) {
	store := newTestStore(t)
	verified := model.DefaultMember(3)
	verified.IDVerified = true
	require.NoError(t, store.Set(1, verified))
	require.NoError(t, store.Set(2, model.DefaultMember(3)))
	require.NoError(t, store.Set(3, model.DefaultMember(3)))

	members, err := store.Unverified()
	require.NoError(t, err)

	assert.Len(t, members, 2)
	assert.NotContains(t, members, int64(1))
	assert.Contains(t, members, int64(2))
	assert.Contains(t, members, int64(3))
}

func TestUnverifiedEmptyDatabase(t *testing.T) {
	store := newTestStore(t)

	members, err := store.Unverified()
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestGetOrCreateSecretStable(t *testing.T) {
	store := newTestStore(t)

	first, err := store.GetOrCreateSecret(SecretVerify)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := store.GetOrCreateSecret(SecretVerify)
	require.NoError(t, err)
	assert.Equal(t, first, second, "an established secret must never be regenerated")

	other, err := store.GetOrCreateSecret("other")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

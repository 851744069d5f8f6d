package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warden-bot/warden/model"
)

func TestJoinPreviouslyVerified(t *testing.T) {
	svc, store, _, gw := newTestService()
	m := model.DefaultMember(testMaxEmails)
	m.IDVerified = true
	store.members[1] = m

	require.NoError(t, svc.HandleJoin(1))

	assert.Equal(t, []int64{1}, gw.granted)
	assert.Empty(t, gw.restricted)
	assert.Empty(t, gw.dms[1], "regrant on rejoin is silent for the member")
	assert.Contains(t, gw.lastChannel(testAdminChat), "automatically been granted")
}

func TestJoinNewcomerRestricted(t *testing.T) {
	svc, _, _, gw := newTestService()

	require.NoError(t, svc.HandleJoin(1))

	assert.Equal(t, []int64{1}, gw.restricted)
	assert.Empty(t, gw.granted)
	assert.Contains(t, gw.lastChannel(testCommunityChat), "/verify to unlock chat")
}

func TestJoinUnfinishedVerification(t *testing.T) {
	svc, store, _, gw := newTestService()
	seedMember(store, 1, model.StateAwaitCode, nil)

	require.NoError(t, svc.HandleJoin(1))

	assert.Equal(t, []int64{1}, gw.restricted)
	assert.Equal(t, model.StateAwaitCode, stateOf(t, store, 1), "joining must not disturb an in-progress flow")
}

func TestAnnounceChatOptional(t *testing.T) {
	store := newFakeStore()
	gw := newFakeGateway()
	svc := NewService(store, &fakeMailer{}, gw, NewCodeGenerator([]byte("test-secret")), Config{
		CommunityChat: testCommunityChat,
		AdminChat:     testAdminChat,
		StudentDomain: testStudentDomain,
		MaxEmails:     testMaxEmails,
	})
	seedMember(store, 1, model.StateAwaitApproval, nil)

	require.NoError(t, svc.Approve(testModerator, 1))

	assert.Empty(t, gw.channels[testAnnounceChat])
	assert.Contains(t, gw.lastChannel(testAdminChat), "is now verified")
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type publishCall struct {
	groups []string
	msg    *models.Message
}

type recordingRelay struct {
	mu    sync.Mutex
	calls []publishCall
	err   error
}

func (r *recordingRelay) Publish(_ context.Context, groups []string, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, publishCall{groups: groups, msg: msg})
	return r.err
}

type failingMessages struct {
	*memory.MessageStore
}

func (failingMessages) Create(context.Context, *models.Message) error {
	return errors.New("disk full")
}

func newChatService(relay Relay) (*ChatService, *memory.MessageStore) {
	store := memory.NewMessageStore()
	return NewChatService(store, relay, zap.NewNop()), store
}

func TestSend_GeneralDeliversToGeneralGroup(t *testing.T) {
	relay := &recordingRelay{}
	svc, _ := newChatService(relay)

	msg, err := svc.Send(context.Background(), SendInput{SenderID: "a", SenderName: "Asha", Content: "hi all"})
	require.NoError(t, err)
	assert.Nil(t, msg.Recipient)
	assert.False(t, msg.Read)

	require.Len(t, relay.calls, 1)
	assert.Equal(t, []string{GeneralGroup}, relay.calls[0].groups)
	assert.Equal(t, msg.ID, relay.calls[0].msg.ID)
}

func TestSend_DirectDeliversToBothPrivateGroups(t *testing.T) {
	relay := &recordingRelay{}
	svc, _ := newChatService(relay)

	msg, err := svc.Send(context.Background(), SendInput{SenderID: "b", SenderName: "Bilal", Content: "ping", Recipient: "a"})
	require.NoError(t, err)
	require.NotNil(t, msg.Recipient)
	assert.Equal(t, "a", *msg.Recipient)

	require.Len(t, relay.calls, 1)
	assert.ElementsMatch(t, []string{UserGroup("a"), UserGroup("b")}, relay.calls[0].groups)
	assert.NotContains(t, relay.calls[0].groups, GeneralGroup)
}

func TestSend_DropsIncompleteMessages(t *testing.T) {
	relay := &recordingRelay{}
	svc, store := newChatService(relay)
	ctx := context.Background()

	for _, in := range []SendInput{
		{SenderName: "x", Content: "no sender"},
		{SenderID: "a", Content: ""},
		{SenderID: "a", Content: "<p></p>"},
	} {
		_, err := svc.Send(ctx, in)
		assert.ErrorIs(t, err, ErrDropped)
	}

	assert.Empty(t, relay.calls)
	history, err := store.ListGeneral(ctx, HistoryLimit)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSend_DeliveryFailureKeepsMessage(t *testing.T) {
	relay := &recordingRelay{err: errors.New("redis gone")}
	svc, _ := newChatService(relay)
	ctx := context.Background()

	msg, err := svc.Send(ctx, SendInput{SenderID: "a", Content: "still here"})
	require.NoError(t, err)
	require.NotNil(t, msg)

	history, err := svc.History(ctx, "b", ScopeGeneral)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "still here", history[0].Content)
}

func TestSend_PersistFailureAbortsDelivery(t *testing.T) {
	relay := &recordingRelay{}
	svc := NewChatService(failingMessages{memory.NewMessageStore()}, relay, zap.NewNop())

	_, err := svc.Send(context.Background(), SendInput{SenderID: "a", Content: "lost"})
	assert.Equal(t, KindStore, KindOf(err))
	assert.Empty(t, relay.calls)
}

func TestSavePersistOnly(t *testing.T) {
	relay := &recordingRelay{}
	svc, _ := newChatService(relay)
	ctx := context.Background()

	_, err := svc.SavePersistOnly(ctx, SendInput{SenderID: "a"})
	assert.Equal(t, KindValidation, KindOf(err))

	msg, err := svc.SavePersistOnly(ctx, SendInput{SenderID: "a", SenderName: "Asha", Content: "offline note", Recipient: "b"})
	require.NoError(t, err)
	assert.Empty(t, relay.calls)

	history, err := svc.History(ctx, "b", "a")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, msg.ID, history[0].ID)
}

func TestHistory_Scopes(t *testing.T) {
	svc, _ := newChatService(&recordingRelay{})
	ctx := context.Background()

	send := func(from, to, content string) {
		_, err := svc.Send(ctx, SendInput{SenderID: from, Content: content, Recipient: to})
		require.NoError(t, err)
	}
	send("a", "", "hi all")
	send("b", "a", "b to a")
	send("a", "b", "a to b")
	send("c", "a", "c to a")

	// General history is the same for every actor.
	for _, actor := range []string{"a", "b", "c", "d"} {
		general, err := svc.History(ctx, actor, "")
		require.NoError(t, err)
		require.Len(t, general, 1)
		assert.Equal(t, "hi all", general[0].Content)
	}

	ab, err := svc.History(ctx, "a", "b")
	require.NoError(t, err)
	require.Len(t, ab, 2)
	assert.Equal(t, "b to a", ab[0].Content)
	assert.Equal(t, "a to b", ab[1].Content)

	ba, err := svc.History(ctx, "b", "a")
	require.NoError(t, err)
	assert.Len(t, ba, 2)

	// A third party never sees the a/b conversation.
	cb, err := svc.History(ctx, "c", "b")
	require.NoError(t, err)
	assert.Empty(t, cb)
	ca, err := svc.History(ctx, "c", "a")
	require.NoError(t, err)
	require.Len(t, ca, 1)
	assert.Equal(t, "c to a", ca[0].Content)
}

func TestHistory_CappedToMostRecent(t *testing.T) {
	svc, _ := newChatService(&recordingRelay{})
	ctx := context.Background()

	total := HistoryLimit + 20
	for i := 0; i < total; i++ {
		_, err := svc.Send(ctx, SendInput{SenderID: "a", Content: fmt.Sprintf("m%d", i)})
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, "a", ScopeGeneral)
	require.NoError(t, err)
	require.Len(t, history, HistoryLimit)
	assert.Equal(t, "m20", history[0].Content)
	assert.Equal(t, fmt.Sprintf("m%d", total-1), history[len(history)-1].Content)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.Before(history[i-1].Timestamp))
	}
}

func TestDeliveryGroups_SelfMessage(t *testing.T) {
	self := "a"
	groups := DeliveryGroups(&models.Message{Sender: "a", Recipient: &self})
	assert.Equal(t, []string{UserGroup("a")}, groups)
}

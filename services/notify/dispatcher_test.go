package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePushClient records pushes and fails for configured recipients.
type fakePushClient struct {
	mu     sync.Mutex
	pushes map[string][][]linebot.SendingMessage
	fail   map[string]error
}

func newFakePushClient() *fakePushClient {
	return &fakePushClient{
		pushes: make(map[string][][]linebot.SendingMessage),
		fail:   make(map[string]error),
	}
}

func (f *fakePushClient) Push(_ context.Context, to string, messages []linebot.SendingMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[to]; ok {
		return err
	}
	f.pushes[to] = append(f.pushes[to], messages)
	return nil
}

func TestDispatcherSend(t *testing.T) {
	t.Run("text becomes a single text message", func(t *testing.T) {
		client := newFakePushClient()
		d := NewDispatcher(client)

		err := d.Send(context.Background(), "U1", Text("hello"))
		require.NoError(t, err)

		require.Len(t, client.pushes["U1"], 1)
		require.Len(t, client.pushes["U1"][0], 1)
		text, ok := client.pushes["U1"][0][0].(*linebot.TextMessage)
		require.True(t, ok)
		assert.Equal(t, "hello", text.Text)
	})

	t.Run("card becomes a flex message", func(t *testing.T) {
		client := newFakePushClient()
		d := NewDispatcher(client)

		err := d.Send(context.Background(), "U1", Card{
			Title:   "new request",
			Lines:   []string{"room A"},
			Buttons: []Button{{Label: "approve", URI: "https://example.com/a", Style: "primary"}},
		})
		require.NoError(t, err)

		require.Len(t, client.pushes["U1"], 1)
		flex, ok := client.pushes["U1"][0][0].(*linebot.FlexMessage)
		require.True(t, ok)
		assert.Equal(t, "new request", flex.AltText)
	})

	t.Run("sequence sends parts in one push", func(t *testing.T) {
		client := newFakePushClient()
		d := NewDispatcher(client)

		err := d.Send(context.Background(), "U1", Sequence{Text("a"), Text("b")})
		require.NoError(t, err)
		require.Len(t, client.pushes["U1"], 1)
		assert.Len(t, client.pushes["U1"][0], 2)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		client := newFakePushClient()
		d := NewDispatcher(client)

		err := d.Send(context.Background(), "U1", Sequence{Text("")})
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Empty(t, client.pushes)
	})

	t.Run("push error is propagated", func(t *testing.T) {
		client := newFakePushClient()
		client.fail["U1"] = errors.New("boom")
		d := NewDispatcher(client)

		err := d.Send(context.Background(), "U1", Text("hello"))
		assert.Error(t, err)
	})
}

func TestDispatcherBroadcast(t *testing.T) {
	t.Run("partial failure still counts as delivered", func(t *testing.T) {
		client := newFakePushClient()
		client.fail["U2"] = errors.New("unreachable")
		client.fail["U4"] = errors.New("unreachable")
		d := NewDispatcher(client)

		report := d.Broadcast(context.Background(), []string{"U1", "U2", "U3", "U4"}, Text("hi"))

		assert.Equal(t, 4, report.Requested)
		assert.Equal(t, 2, report.Sent)
		assert.Equal(t, 2, report.Failed)
		assert.True(t, report.OK())
		assert.Contains(t, report.Failures, "U2")
		assert.Contains(t, report.Failures, "U4")
		assert.NotContains(t, report.Failures, "U1")
	})

	t.Run("all recipients fail", func(t *testing.T) {
		client := newFakePushClient()
		client.fail["U1"] = errors.New("unreachable")
		d := NewDispatcher(client)

		report := d.Broadcast(context.Background(), []string{"U1"}, Text("hi"))
		assert.False(t, report.OK())
		assert.Equal(t, 1, report.Failed)
	})

	t.Run("no recipients", func(t *testing.T) {
		d := NewDispatcher(newFakePushClient())
		report := d.Broadcast(context.Background(), nil, Text("hi"))
		assert.False(t, report.OK())
		assert.Zero(t, report.Requested)
	})
}

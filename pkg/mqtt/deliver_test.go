package mqtt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newToken(complete bool, err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	if complete {
		close(t.done)
	}

	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return false }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type fakeMessage struct {
	topic   string
	payload []byte
	acked   bool
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              { m.acked = true }

var (
	_ mqtt.Token   = (*fakeToken)(nil)
	_ mqtt.Message = (*fakeMessage)(nil)
)

func TestWait(t *testing.T) {
	t.Parallel()

	brokerErr := errors.New("not authorized")
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	cases := []struct {
		desc  string
		ctx   context.Context
		token mqtt.Token
		err   error
	}{
		{desc: "completed", ctx: context.Background(), token: newToken(true, nil)},
		{desc: "completed with error", ctx: context.Background(), token: newToken(true, brokerErr), err: brokerErr},
		{desc: "context cancelled", ctx: cancelled, token: newToken(false, nil), err: context.Canceled},
		{desc: "timed out", ctx: context.Background(), token: newToken(false, nil), err: errTimeout},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			err := wait(tc.ctx, tc.token, 10*time.Millisecond)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestDeliver(t *testing.T) {
	t.Parallel()

	c := &Client{
		cfg:    Config{Topic: DefTopic},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	cases := []struct {
		desc      string
		topic     string
		handleErr error
		want      []Message
	}{
		{
			desc:  "estimate delivered",
			topic: DefTopic + "/monte_carlo_single/abc",
			want:  []Message{{Method: "monte_carlo_single", ID: "abc", Payload: []byte(`{"id":"abc"}`)}},
		},
		{
			desc:      "handler error still acknowledged",
			topic:     DefTopic + "/monte_carlo_parallel/def",
			handleErr: errors.New("bad payload"),
			want:      []Message{{Method: "monte_carlo_parallel", ID: "def", Payload: []byte(`{"id":"abc"}`)}},
		},
		{
			desc:  "foreign topic dropped",
			topic: "elsewhere/monte_carlo_single/abc",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			var got []Message
			h := func(msg Message) error {
				got = append(got, msg)

				return tc.handleErr
			}
			msg := &fakeMessage{topic: tc.topic, payload: []byte(`{"id":"abc"}`)}

			c.deliver(h)(nil, msg)

			assert.Equal(t, tc.want, got)
			assert.True(t, msg.acked)
		})
	}
}

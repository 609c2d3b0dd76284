package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

func startTestNATS(t *testing.T) string {
	t.Helper()
	srv, err := natsserver.NewServer(&natsserver.Options{Host: "127.0.0.1", Port: -1})
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestPublishersImplementPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
	var _ Publisher = NoopPublisher{}
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url, "ddsite-test", zap.NewNop())
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	if err := pub.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe("site.>", ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	Emit(context.Background(), pub, zap.NewNop(), SubjectContactReceived, map[string]string{"id": "abc"})
	pub.Flush()

	select {
	case msg := <-ch:
		if msg.Subject != SubjectContactReceived {
			t.Errorf("subject = %q", msg.Subject)
		}
		var got map[string]string
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got["id"] != "abc" {
			t.Errorf("id = %q, want abc", got["id"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	if _, err := NewNATSPublisher("nats://127.0.0.1:1", "x", zap.NewNop()); err == nil {
		t.Fatal("expected connect error")
	}
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, string, any) error {
	f.calls++
	return errors.New("down")
}
func (f *failingPublisher) Close() error { return nil }

func TestEmit_SwallowsErrors(t *testing.T) {
	f := &failingPublisher{}
	Emit(context.Background(), f, zap.NewNop(), SubjectSettingsUpdated, struct{}{})
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
	Emit(context.Background(), nil, zap.NewNop(), SubjectSettingsUpdated, struct{}{})
}

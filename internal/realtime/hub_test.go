package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := AuthorChannel(uuid.New())

	clientA := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientA, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventRecipePublished, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventRecipeDeleted, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventRecipePublished {
		t.Fatalf("first event: want=%s got=%s", SSEEventRecipePublished, got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventRecipeDeleted {
		t.Fatalf("second event: want=%s got=%s", SSEEventRecipeDeleted, got.Event)
	}

	if !hub.CloseClient(clientA) {
		t.Fatalf("first close should report true")
	}
	if hub.CloseClient(clientA) {
		t.Fatalf("second close should report false")
	}
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	if n := hub.Subscribers(channel); n != 0 {
		t.Fatalf("expected no subscribers, got %d", n)
	}

	clientB := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientB, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventRecipePublished})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventRecipePublished {
		t.Fatalf("reconnect event: got=%s", got.Event)
	}
}

func TestSSEHubOnlyDeliversToSubscribedChannels(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	followed, other := AuthorChannel(uuid.New()), AuthorChannel(uuid.New())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, followed)

	hub.Broadcast(SSEMessage{Channel: other, Event: SSEEventRecipePublished})
	hub.Broadcast(SSEMessage{Channel: followed, Event: SSEEventRecipePublished, Data: "x"})

	got := recvMessage(t, client.Outbound, time.Second)
	if got.Channel != followed {
		t.Fatalf("unexpected channel %s", got.Channel)
	}
	hub.RemoveChannel(client, followed)
	hub.Broadcast(SSEMessage{Channel: followed, Event: SSEEventRecipePublished})
	select {
	case msg := <-client.Outbound:
		t.Fatalf("unexpected delivery after unsubscribe: %+v", msg)
	default:
	}
}

func TestSSEHubDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	drops := 0
	hub.onDrop = func() { drops++ }
	channel := AuthorChannel(uuid.New())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, channel)

	for i := 0; i < cap(client.Outbound)+3; i++ {
		hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventRecipePublished})
	}
	if drops != 3 {
		t.Fatalf("expected 3 drops, got %d", drops)
	}
}

func TestSSEHubServeHTTPWritesEvents(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := AuthorChannel(uuid.New())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventRecipePublished, Data: map[string]string{"name": "soup"}})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		hub.ServeHTTP(rec, req, client)
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)
	hub.CloseClient(client)
	cancel()
	<-done

	body := rec.Body.String()
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(body, "event: recipe_published\n") || !strings.Contains(body, `"name":"soup"`) {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestSSEHubShutdownEndsStreams(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient(uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		hub.ServeHTTP(rec, req, client)
		close(done)
	}()
	hub.Shutdown()
	hub.Shutdown()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("stream still open after shutdown")
	}
}

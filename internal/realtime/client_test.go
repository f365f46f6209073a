package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/turnDeep/chartnote/internal/core"
)

func TestClient_QueuesWhileOffline(t *testing.T) {
	c := NewClient(ClientConfig{URL: "ws://127.0.0.1:1/ws"}, nil)

	c.Send(TypePostComment, core.Comment{Timestamp: 1, Price: 1, Content: "a"})
	c.Send(TypePostComment, core.Comment{Timestamp: 2, Price: 1, Content: "b"})

	if got := c.Pending(); got != 2 {
		t.Errorf("pending = %d, want 2", got)
	}
}

func TestClient_FlushesQueueInOrderOnConnect(t *testing.T) {
	received := make(chan core.Comment, 8)
	handler := func(ctx context.Context, c core.Comment) (*core.Comment, error) {
		received <- c
		saved := c
		saved.ID = 1
		return &saved, nil
	}
	_, url := startHub(t, handler)

	c := NewClient(ClientConfig{URL: url, RetryDelay: 10 * time.Millisecond}, nil)
	c.Send(TypePostComment, core.Comment{Timestamp: 1700000000, Price: 1, Content: "first"})
	c.Send(TypePostComment, core.Comment{Timestamp: 1700000001, Price: 1, Content: "second"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	for _, want := range []string{"first", "second"} {
		select {
		case got := <-received:
			if got.Content != want {
				t.Errorf("received %q, want %q", got.Content, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for flushed frame")
		}
	}
	if got := c.Pending(); got != 0 {
		t.Errorf("pending after flush = %d, want 0", got)
	}
}

func TestClient_ReceivesBroadcasts(t *testing.T) {
	hub, url := startHub(t, savingHandler)

	c := NewClient(ClientConfig{URL: url, RetryDelay: 10 * time.Millisecond}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	// Wait for the client to register with the hub.
	deadline := time.After(5 * time.Second)
	for {
		if err := hub.Broadcast(TypeMarketUpdate, core.Quote{Symbol: "NQ=F", Price: 19850}); err != nil {
			t.Fatalf("broadcast: %v", err)
		}
		select {
		case env := <-c.C:
			if env.Type != TypeMarketUpdate {
				t.Fatalf("got %s, want %s", env.Type, TypeMarketUpdate)
			}
			var quote core.Quote
			json.Unmarshal(env.Data, &quote)
			if quote.Price != 19850 {
				t.Errorf("price = %v", quote.Price)
			}
			return
		case <-time.After(100 * time.Millisecond):
			// Not connected yet, rebroadcast.
		case <-deadline:
			t.Fatal("timed out waiting for broadcast")
		}
	}
}

func TestClient_GivesUpAfterRetryBudget(t *testing.T) {
	c := NewClient(ClientConfig{
		URL:        "ws://127.0.0.1:1/ws",
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}, nil)

	err := c.Run(context.Background())
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}

	// Sends after shutdown are refused rather than silently queued.
	if err := c.Send(TypePostComment, core.Comment{}); err == nil {
		t.Error("expected send to fail after client stopped")
	}
}

package server

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/asateer/skillscore/internal/server/api"
)

// waitForClients blocks until the hub has exactly n registered clients.
func waitForClients(t *testing.T, hub *ObserveHub, n int) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.RLock()
		got := len(hub.clients)
		hub.mu.RUnlock()
		if got == n {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("hub has %d clients, want %d", got, n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestObserveHub_PublishWithoutClients(t *testing.T) {
	hub := NewObserveHub()

	// Must not panic or block with nobody connected.
	hub.Publish(api.ObservationEvent{AnalysisID: "a-1", Frame: 0})
}

func TestObserveHub_BroadcastsToClient(t *testing.T) {
	hub := NewObserveHub()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, 1)

	want := api.ObservationEvent{AnalysisID: "a-7", Frame: 42, PoseDetected: true}
	hub.Publish(want)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got api.ObservationEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	if got.AnalysisID != want.AnalysisID || got.Frame != want.Frame || got.PoseDetected != want.PoseDetected {
		t.Errorf("received %+v, want %+v", got, want)
	}
}

func TestObserveHub_ConcurrentPublishers(t *testing.T) {
	hub := NewObserveHub()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	waitForClients(t, hub, 1)

	// Drain everything the client receives until the connection closes.
	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			received++
		}
	}()

	// Several analyses publishing at once, as concurrent uploads do.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			analysisID := fmt.Sprintf("a-%d", id)
			for frame := 0; frame < 200; frame++ {
				hub.Publish(api.ObservationEvent{AnalysisID: analysisID, Frame: frame})
			}
		}(i)
	}
	wg.Wait()

	conn.Close()
	<-done

	if received == 0 {
		t.Error("client received no events from concurrent publishers")
	}
}

func TestObserveHub_DropsClosedClient(t *testing.T) {
	hub := NewObserveHub()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	conn.Close()

	waitForClients(t, hub, 0)

	hub.Publish(api.ObservationEvent{AnalysisID: "a-1"})
}

package net

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadEvents(t *testing.T) {
	stream := ": ping\n\nid: 1\nevent: message\ndata: {\"text\":\"hi\"}\n\ndata: a\ndata: b\n\n"
	var got []Event

	err := readEvents(strings.NewReader(stream), func(ev Event) bool {
		got = append(got, ev)
		return true
	})

	assert.NoError(t, err)
	assert.Equal(t, []Event{
		{ID: "1", Type: "message", Data: `{"text":"hi"}`},
		{Type: "message", Data: "a\nb"},
	}, got)
}

func TestBackoff(t *testing.T) {
	b := NewBackoff()
	var waits []time.Duration
	for i := 0; i < 7; i++ {
		waits = append(waits, b.Next())
	}
	assert.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
		16 * time.Second, 30 * time.Second, 30 * time.Second,
	}, waits)

	b.Reset()
	assert.Equal(t, time.Second, b.Next())
}

func TestSubscribe_ReconnectWithLastEventID(t *testing.T) {
	var calls int32
	var mu sync.Mutex
	var lastIDs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		mu.Lock()
		lastIDs = append(lastIDs, r.Header.Get("Last-Event-ID"))
		mu.Unlock()
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "id: %d\ndata: msg-%d\n\n", n, n)
		// 返回即断开，触发重连
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	backoff := &Backoff{Initial: 10 * time.Millisecond, Max: 20 * time.Millisecond}
	sub := c.subscribe(context.Background(), Get("/inbox/stream/u1", "").WithQuery("token", "tok"), backoff)

	first := <-sub.Events()
	second := <-sub.Events()
	sub.Close()

	assert.Equal(t, "msg-1", first.Data)
	assert.Equal(t, "msg-2", second.Data)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "", lastIDs[0])
	assert.Equal(t, "1", lastIDs[1])
	assert.NoError(t, sub.Err())
}

func TestSubscribe_StopsOnUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	sub := c.Subscribe(context.Background(), Get("/inbox/stream/u1", ""))

	_, open := <-sub.Events()
	assert.False(t, open)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(sub.Err()))
}

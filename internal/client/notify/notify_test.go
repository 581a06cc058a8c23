package notify

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu  sync.Mutex
	got []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.got))
	for _, n := range r.got {
		out = append(out, n.Message)
	}
	return out
}

func TestCenter_DeliversInOrderToEverySink(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	c := NewCenter(8, zerolog.Nop(), a, b)

	Error(c, "one")
	Success(c, "two")
	Info(c, "three")
	c.Close()

	assert.Equal(t, []string{"one", "two", "three"}, a.messages())
	assert.Equal(t, []string{"one", "two", "three"}, b.messages())
	assert.Equal(t, LevelError, a.got[0].Level)
	assert.Equal(t, LevelSuccess, a.got[1].Level)
}

func TestCenter_NotifyDoesNotBlockOnSlowSink(t *testing.T) {
	release := make(chan struct{})
	slow := Func(func(Notification) { <-release })
	c := NewCenter(1, zerolog.Nop(), slow)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			Info(c, "tick")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a slow sink")
	}
	close(release)
	c.Close()
}

func TestCenter_SurvivesPanickingSink(t *testing.T) {
	rec := &recorder{}
	boom := Func(func(Notification) { panic("boom") })
	c := NewCenter(4, zerolog.Nop(), boom, rec)

	Error(c, "still delivered")
	c.Close()

	assert.Equal(t, []string{"still delivered"}, rec.messages())
}

func TestCenter_CloseIsIdempotentAndDropsLateNotifications(t *testing.T) {
	rec := &recorder{}
	c := NewCenter(4, zerolog.Nop(), rec)
	c.Close()
	c.Close()

	Info(c, "late")
	assert.Empty(t, rec.messages())
}

func TestCenter_FlushWaitsForDelivery(t *testing.T) {
	rec := &recorder{}
	slow := Func(func(n Notification) {
		time.Sleep(5 * time.Millisecond)
		rec.Notify(n)
	})
	c := NewCenter(8, zerolog.Nop(), slow)
	defer c.Close()

	Info(c, "a")
	Info(c, "b")
	c.Flush()
	assert.Equal(t, []string{"a", "b"}, rec.messages())

	c.Flush()
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := WriterSink(&buf)
	Error(s, "Invalid credentials")
	Success(s, "Booking created successfully!")

	assert.Equal(t, "✖ Invalid credentials\n✔ Booking created successfully!\n", buf.String())
}

func TestHelpers_NilNotifierIsNoop(t *testing.T) {
	require.NotPanics(t, func() { Error(nil, "x") })
}

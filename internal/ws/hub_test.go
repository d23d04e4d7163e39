package ws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyWithoutClientsIsNoop(t *testing.T) {
	h := NewHub()
	assert.NotPanics(t, func() {
		h.Notify(1, "level_up", map[string]int{"level": 2})
	})
	assert.Equal(t, 0, h.ClientCount())
}

func TestNotifyDeliversToRegisteredClient(t *testing.T) {
	h := NewHub()
	c := h.Register(7, nil)
	assert.Equal(t, 1, h.ClientCount())

	h.Notify(7, "spin_result", map[string]string{"prize": "50 points"})
	h.Notify(8, "spin_result", nil) // different user, not delivered here

	select {
	case data := <-c.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		assert.Equal(t, "spin_result", ev.Type)
		assert.False(t, ev.At.IsZero())
	default:
		t.Fatal("expected an event on the client channel")
	}
	select {
	case <-c.Send:
		t.Fatal("event for another user must not be delivered")
	default:
	}
}

func TestNotifySkipsFullClient(t *testing.T) {
	h := NewHub()
	c := h.Register(7, nil)
	for i := 0; i < cap(c.Send)+10; i++ {
		h.Notify(7, "spin_result", i)
	}
	// The channel is full but Notify never blocked to get here.
	assert.Equal(t, cap(c.Send), len(c.Send))
}

func TestNotifyAfterCloseDoesNotPanic(t *testing.T) {
	h := NewHub()
	c := h.Register(7, nil)
	c.Close()
	assert.NotPanics(t, func() {
		h.Notify(7, "spin_result", nil)
	})
	assert.Equal(t, 0, h.ClientCount())
}

func TestNotifyRacingCloseDoesNotPanic(t *testing.T) {
	for i := 0; i < 100; i++ {
		h := NewHub()
		c := h.Register(7, nil)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				h.Notify(7, "spin_result", j)
			}
		}()
		go func() {
			defer wg.Done()
			c.Close()
		}()
		wg.Wait()
	}
}

package events

import (
	"reflect"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

func TestStalePaths(t *testing.T) {
	testCases := []struct {
		name     string
		keys     []string
		keepPath string
		expected []string
	}{
		{
			name:     "keeps the replacement, sweeps the rest",
			keys:     []string{"u/l/inspo/inspo-old.jpg", "u/l/inspo/inspo-new.jpg"},
			keepPath: "u/l/inspo/inspo-new.jpg",
			expected: []string{"u/l/inspo/inspo-old.jpg"},
		},
		{
			name:     "empty keep path sweeps everything",
			keys:     []string{"u/l/inspo/a.jpg", "u/l/me/b.jpg"},
			keepPath: "",
			expected: []string{"u/l/inspo/a.jpg", "u/l/me/b.jpg"},
		},
		{
			// Object keys are case-sensitive: a key differing only in case is
			// a different object and must be swept.
			name:     "keep path matches exactly, not case-insensitively",
			keys:     []string{"u/l/inspo/INSPO-NEW.JPG", "u/l/inspo/inspo-new.jpg"},
			keepPath: "u/l/inspo/inspo-new.jpg",
			expected: []string{"u/l/inspo/INSPO-NEW.JPG"},
		},
		{
			name:     "nothing to sweep",
			keys:     []string{"u/l/me/me-only.jpg"},
			keepPath: "u/l/me/me-only.jpg",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := stalePaths(tc.keys, tc.keepPath)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("stalePaths(%v, %q) = %v, expected %v", tc.keys, tc.keepPath, got, tc.expected)
			}
		})
	}
}

func TestConsumeStopsOnClosedChannel(t *testing.T) {
	consumer := &EventConsumer{shutdown: make(chan struct{})}

	msgs := make(chan amqp091.Delivery)
	close(msgs)

	done := make(chan struct{})
	go func() {
		consumer.consume(msgs)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consume did not return after the delivery channel closed")
	}
}

func TestConsumeStopsOnShutdown(t *testing.T) {
	consumer := &EventConsumer{shutdown: make(chan struct{})}

	msgs := make(chan amqp091.Delivery)
	done := make(chan struct{})
	go func() {
		consumer.consume(msgs)
		close(done)
	}()

	close(consumer.shutdown)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consume did not return on shutdown")
	}
}

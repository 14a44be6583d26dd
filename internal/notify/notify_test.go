package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecorderOrderAndDrain(t *testing.T) {
	r := NewRecorder()

	r.Success("first")
	r.Error("second")
	r.Success("third")
	require.Equal(t, 3, r.Len())

	items := r.Drain()
	require.Len(t, items, 3)
	require.Equal(t, Notification{OK: true, Message: "first"}, items[0])
	require.Equal(t, Notification{OK: false, Message: "second"}, items[1])
	require.Equal(t, Notification{OK: true, Message: "third"}, items[2])

	require.Zero(t, r.Len())
	require.Empty(t, r.Drain())
}

func TestMultiFansOut(t *testing.T) {
	a := NewRecorder()
	b := NewRecorder()
	m := Multi{a, b}

	m.Success("hello")
	m.Error("goodbye")

	for _, r := range []*Recorder{a, b} {
		items := r.Drain()
		require.Len(t, items, 2)
		require.True(t, items[0].OK)
		require.False(t, items[1].OK)
	}
}

func TestCountedDelegates(t *testing.T) {
	r := NewRecorder()
	c := Counted{Next: r}

	c.Success("counted")
	c.Error("counted too")

	items := r.Drain()
	require.Len(t, items, 2)
	require.Equal(t, "counted", items[0].Message)
}

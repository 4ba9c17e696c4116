package queenio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadyOps(t *testing.T) {
	assert.True(t, ReadyEmpty.IsEmpty())
	assert.False(t, ReadyReadable.IsEmpty())

	rw := ReadyReadable.Insert(ReadyWritable)
	assert.True(t, rw.IsReadable())
	assert.True(t, rw.IsWritable())
	assert.False(t, rw.IsError())
	assert.False(t, rw.IsHup())

	assert.True(t, rw.Contains(ReadyReadable))
	assert.True(t, rw.Contains(rw))
	assert.False(t, rw.Contains(ReadyHup))
	assert.False(t, ReadyReadable.Contains(rw))

	assert.Equal(t, ReadyWritable, rw.Remove(ReadyReadable))
	assert.Equal(t, rw, rw.Remove(ReadyError))

	all := ReadyReadable | ReadyWritable | ReadyError | ReadyHup
	assert.True(t, all.IsError())
	assert.True(t, all.IsHup())
	assert.Equal(t, "Readable | Writable | Error | Hup", all.String())
	assert.Equal(t, "(empty)", ReadyEmpty.String())
}

func TestPollOptOps(t *testing.T) {
	assert.True(t, PollEdge.IsEdge())
	assert.False(t, PollEdge.IsLevel())
	assert.True(t, PollLevel.IsLevel())
	assert.True(t, PollOneshot.IsOneshot())

	eo := PollEdge | PollOneshot
	assert.True(t, eo.IsEdge())
	assert.True(t, eo.IsOneshot())
	assert.Equal(t, "Edge | Oneshot", eo.String())
}

func TestEventAccessors(t *testing.T) {
	ev := NewEvent(ReadyReadable, Token(42))
	assert.Equal(t, Token(42), ev.Token())
	assert.Equal(t, ReadyReadable, ev.Readiness())

	es := NewEvents(8)
	assert.Equal(t, 8, es.Cap())
	assert.Equal(t, 0, es.Len())
	assert.True(t, es.IsEmpty())
}

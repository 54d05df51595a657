package owner

import (
	"cmp"

	"github.com/Meander-Cloud/go-timerqueue/timerqueue"
)

type Event interface {
	isEvent()
}

type exitEvent struct {
}

func (*exitEvent) isEvent() {}

type AddEvent[K cmp.Ordered, V any] struct {
	Node *timerqueue.Node[K, V]
}

func (*AddEvent[K, V]) isEvent() {}

type DelEvent[K cmp.Ordered, V any] struct {
	Node *timerqueue.Node[K, V]
}

func (*DelEvent[K, V]) isEvent() {}

// Snapshot is a point-in-time view of the owned head.
type Snapshot[K cmp.Ordered] struct {
	Len      int
	Empty    bool
	Earliest K // zero when Empty

	AddCount             uint64
	DelCount             uint64
	EarliestChangedCount uint64
}

type QueryEvent[K cmp.Ordered] struct {
	Reply chan<- Snapshot[K]
}

func (*QueryEvent[K]) isEvent() {}

// DrainEvent removes every queued node, replying with how many were removed.
type DrainEvent struct {
	Reply chan<- int
}

func (*DrainEvent) isEvent() {}

package owner

import (
	"cmp"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Meander-Cloud/go-timerqueue/timerqueue"
)

type Options[K cmp.Ordered, V any] struct {
	// specify length for event channel, if zero default will be used
	EventChannelLength uint16

	// logging prefix
	LogPrefix string

	// enable verbose logging
	LogDebug bool

	// functor to invoke when the earliest node changed, nil when the head became empty
	OnEarliestChanged func(earliest *timerqueue.Node[K, V])
}

// Owner confines a head to a single goroutine, other goroutines reach it through events.
type Owner[K cmp.Ordered, V any] struct {
	options *Options[K, V]

	exitwg  sync.WaitGroup
	eventch chan Event

	// set by Shutdown, later events are refused
	stopped atomic.Bool

	head *timerqueue.Head[K, V]

	addCount             uint64
	delCount             uint64
	earliestChangedCount uint64
}

// NewOwner takes over head, which must not be touched by the caller afterwards.
func NewOwner[K cmp.Ordered, V any](options *Options[K, V], head *timerqueue.Head[K, V]) *Owner[K, V] {
	var eventChannelLength uint16
	if options.EventChannelLength == 0 {
		eventChannelLength = EventChannelLength
	} else {
		eventChannelLength = options.EventChannelLength
	}

	if head == nil {
		head = timerqueue.NewHead[K, V]()
	}

	return &Owner[K, V]{
		options: options,

		exitwg:  sync.WaitGroup{},
		eventch: make(chan Event, eventChannelLength),

		head: head,
	}
}

func (o *Owner[K, V]) Shutdown() {
	log.Printf("%s: synchronized shutdown starting", o.options.LogPrefix)
	o.stopped.Store(true)

	select {
	case o.eventch <- &exitEvent{}:
	default:
		log.Printf("%s: exit already signaled", o.options.LogPrefix)
	}

	o.exitwg.Wait()
	log.Printf("%s: synchronized shutdown done", o.options.LogPrefix)
}

func (o *Owner[K, V]) Options() *Options[K, V] {
	return o.options
}

func (o *Owner[K, V]) RunSync() {
	o.exitwg.Add(1)
	defer o.exitwg.Done()

	log.Printf("%s: synchronous process loop starting", o.options.LogPrefix)
	o.processLoop()
	log.Printf("%s: synchronous process loop exiting", o.options.LogPrefix)
}

func (o *Owner[K, V]) RunAsync() {
	o.exitwg.Add(1)

	go func() {
		log.Printf("%s: asynchronous process loop starting", o.options.LogPrefix)

		defer func() {
			log.Printf("%s: asynchronous process loop exiting", o.options.LogPrefix)
			o.exitwg.Done()
		}()

		o.processLoop()
	}()
}

func (o *Owner[K, V]) processLoop() {
	// main event processing loop, will block
	// caller can choose to run synchronously on caller goroutine, or spawn a separate goroutine to run asynchronously
	for event := range o.eventch {
		if o.options.LogDebug {
			log.Printf("%s: head<%d>, event=%T", o.options.LogPrefix, o.head.Len(), event)
		}

		if o.handle(event) {
			return
		}
	}
}

func (o *Owner[K, V]) handle(event Event) bool {
	switch e := event.(type) {
	case *exitEvent:
		o.drain()
		return true
	case *AddEvent[K, V]:
		o.add(e.Node)
	case *DelEvent[K, V]:
		o.del(e.Node)
	case *QueryEvent[K]:
		o.query(e)
	case *DrainEvent:
		removed := o.drain()
		if e.Reply != nil {
			e.Reply <- removed
		}
	default:
		log.Printf("%s: unrecognized event=%#v", o.options.LogPrefix, event)
	}
	return false
}

func (o *Owner[K, V]) add(n *timerqueue.Node[K, V]) {
	if n == nil {
		log.Printf("%s: add of nil node", o.options.LogPrefix)
		return
	}
	if n.Queued() {
		log.Printf("%s: expires=%v, already queued", o.options.LogPrefix, n.Expires())
		return
	}

	o.addCount += 1
	if o.head.Add(n) {
		o.earliestChanged()
	}

	if o.options.LogDebug {
		log.Printf("%s: added expires=%v, len=%d", o.options.LogPrefix, n.Expires(), o.head.Len())
	}
}

func (o *Owner[K, V]) del(n *timerqueue.Node[K, V]) {
	if n == nil {
		log.Printf("%s: del of nil node", o.options.LogPrefix)
		return
	}
	if !o.head.Contains(n) {
		log.Printf("%s: expires=%v, queued=%t, not in owned head", o.options.LogPrefix, n.Expires(), n.Queued())
		return
	}

	o.delCount += 1
	if o.head.Del(n) {
		o.earliestChanged()
	}

	if o.options.LogDebug {
		log.Printf("%s: removed expires=%v, len=%d", o.options.LogPrefix, n.Expires(), o.head.Len())
	}
}

func (o *Owner[K, V]) query(e *QueryEvent[K]) {
	if e.Reply == nil {
		return
	}

	snapshot := Snapshot[K]{
		Len:   o.head.Len(),
		Empty: o.head.Empty(),

		AddCount:             o.addCount,
		DelCount:             o.delCount,
		EarliestChangedCount: o.earliestChangedCount,
	}
	if earliest := o.head.GetNext(); earliest != nil {
		snapshot.Earliest = earliest.Expires()
	}

	e.Reply <- snapshot
}

func (o *Owner[K, V]) drain() int {
	if o.options.LogDebug {
		log.Printf("%s: drain all nodes, size=%d", o.options.LogPrefix, o.head.Len())
	}

	removed := 0
	for n := o.head.GetNext(); n != nil; n = o.head.GetNext() {
		o.head.Del(n)
		o.delCount += 1
		removed += 1
	}

	if removed > 0 {
		o.earliestChanged()
	}
	return removed
}

func (o *Owner[K, V]) earliestChanged() {
	o.earliestChangedCount += 1

	if o.options.OnEarliestChanged == nil {
		return
	}

	earliest := o.head.GetNext()

	defer func() {
		rec := recover()
		if rec != nil {
			log.Printf(
				"%s: len=%d, earliest changed functor recovered from panic: %+v",
				o.options.LogPrefix,
				o.head.Len(),
				rec,
			)
		}
	}()
	o.options.OnEarliestChanged(earliest)
}

// must be invoked on same goroutine as processLoop
func (o *Owner[K, V]) ProcessSync(event Event) {
	o.handle(event)
}

// can be invoked on any goroutine, returns false when the event was not queued:
// either the channel is full or Shutdown has been called, in which case no
// reply will ever be sent for it
func (o *Owner[K, V]) ProcessAsync(event Event) bool {
	if o.stopped.Load() {
		log.Printf("%s: stopped, dropping event=%T", o.options.LogPrefix, event)
		return false
	}

	select {
	case o.eventch <- event:
		return true
	default:
		log.Printf("%s: failed to push to eventch", o.options.LogPrefix)
		return false
	}
}

// Package workload drives a timer queue through a long, reproducible sequence
// of adds and dels and cross-checks every result against a reference tree.
package workload

import (
	"cmp"
	"errors"
	"fmt"
	"log"
	"math/rand"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	"github.com/Meander-Cloud/go-timerqueue/timerqueue"
)

var ErrMismatch = errors.New("workload: queue disagrees with reference")

// entry is the payload of every pool node, size is the augmented subtree size.
type entry struct {
	index int
	size  int
}

type node = timerqueue.Node[int64, *entry]

// refKey orders the reference tree by expiration, then by add sequence.
type refKey struct {
	expires int64
	seq     uint64
}

func compareRefKey(a, b refKey) int {
	if c := cmp.Compare(a.expires, b.expires); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

type Report struct {
	Adds            int
	Dels            int
	EarliestChanges int
	MaxLen          int
	Verifications   int
	Drained         int
}

type runner struct {
	cfg *Config
	rng *rand.Rand

	head *timerqueue.Head[int64, *entry]
	pool []node
	ref  *rbt.Tree[refKey, int]
	keys []refKey
	seq  uint64

	// indices of queued and free pool nodes, pos locates an index in its list
	queued []int
	free   []int
	pos    []int

	report Report
}

// Run executes cfg and returns what happened, or the first disagreement.
func Run(cfg *Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &runner{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		pool:   make([]node, cfg.Nodes),
		ref:    rbt.NewWith[refKey, int](compareRefKey),
		keys:   make([]refKey, cfg.Nodes),
		queued: make([]int, 0, cfg.Nodes),
		free:   make([]int, 0, cfg.Nodes),
		pos:    make([]int, cfg.Nodes),
	}

	if cfg.Augmented {
		r.head = timerqueue.NewAugmentedHead(timerqueue.AugmentFunc(computeSize, transferSize))
	} else {
		r.head = timerqueue.NewHead[int64, *entry]()
	}

	for i := range r.pool {
		r.pool[i].Init()
		r.pool[i].Value = &entry{index: i}
		r.pos[i] = len(r.free)
		r.free = append(r.free, i)
	}

	log.Printf(
		"%s: seed=%d, nodes=%d, operations=%d, expiry_range=%d, del_ratio=%.2f, augmented=%t",
		cfg.LogPrefix,
		cfg.Seed,
		cfg.Nodes,
		cfg.Operations,
		cfg.ExpiryRange,
		cfg.DelRatio,
		cfg.Augmented,
	)

	for step := 0; step < cfg.Operations; step++ {
		del := len(r.free) == 0 || (len(r.queued) > 0 && r.rng.Float64() < cfg.DelRatio)

		var err error
		if del {
			err = r.del(step, r.queued[r.rng.Intn(len(r.queued))])
		} else {
			err = r.add(step, r.free[r.rng.Intn(len(r.free))])
		}
		if err != nil {
			return nil, err
		}

		if err := r.checkEarliest(step); err != nil {
			return nil, err
		}

		if cfg.VerifyEvery > 0 && (step+1)%cfg.VerifyEvery == 0 {
			if err := r.verify(step); err != nil {
				return nil, err
			}
		}
	}

	if err := r.drain(); err != nil {
		return nil, err
	}

	log.Printf(
		"%s: adds=%d, dels=%d, earliest changes=%d, max len=%d, verifications=%d, drained=%d",
		cfg.LogPrefix,
		r.report.Adds,
		r.report.Dels,
		r.report.EarliestChanges,
		r.report.MaxLen,
		r.report.Verifications,
		r.report.Drained,
	)

	report := r.report
	return &report, nil
}

func (r *runner) add(step, index int) error {
	n := &r.pool[index]
	n.SetExpires(r.rng.Int63n(r.cfg.ExpiryRange))

	r.seq += 1
	key := refKey{expires: n.Expires(), seq: r.seq}
	r.keys[index] = key
	r.ref.Put(key, index)
	want := r.ref.Left().Value == index

	got := r.head.Add(n)
	r.move(index, &r.free, &r.queued)
	r.report.Adds += 1
	r.report.MaxLen = max(r.report.MaxLen, r.head.Len())

	if r.cfg.LogDebug {
		log.Printf("%s: step=%d, add index=%d, expires=%d, earliest=%t", r.cfg.LogPrefix, step, index, n.Expires(), got)
	}

	if got != want {
		return fmt.Errorf("%w: step %d add index=%d expires=%d signalled %t, expected %t", ErrMismatch, step, index, n.Expires(), got, want)
	}
	if got {
		r.report.EarliestChanges += 1
	}
	return nil
}

func (r *runner) del(step, index int) error {
	n := &r.pool[index]

	want := r.ref.Left().Value == index
	r.ref.Remove(r.keys[index])

	got := r.head.Del(n)
	r.move(index, &r.queued, &r.free)
	r.report.Dels += 1

	if r.cfg.LogDebug {
		log.Printf("%s: step=%d, del index=%d, expires=%d, earliest=%t", r.cfg.LogPrefix, step, index, n.Expires(), got)
	}

	if got != want {
		return fmt.Errorf("%w: step %d del index=%d expires=%d signalled %t, expected %t", ErrMismatch, step, index, n.Expires(), got, want)
	}
	if n.Queued() {
		return fmt.Errorf("%w: step %d del index=%d left the node queued", ErrMismatch, step, index)
	}
	if got {
		r.report.EarliestChanges += 1
	}
	return nil
}

// move swap-removes index from one list and appends it to the other.
func (r *runner) move(index int, from, to *[]int) {
	list := *from
	at := r.pos[index]
	last := list[len(list)-1]
	list[at] = last
	r.pos[last] = at
	*from = list[:len(list)-1]

	r.pos[index] = len(*to)
	*to = append(*to, index)
}

func (r *runner) checkEarliest(step int) error {
	earliest := r.head.GetNext()
	left := r.ref.Left()

	if left == nil {
		if earliest != nil {
			return fmt.Errorf("%w: step %d earliest index=%d on an empty reference", ErrMismatch, step, earliest.Value.index)
		}
		return nil
	}
	if earliest != &r.pool[left.Value] {
		return fmt.Errorf("%w: step %d earliest differs, expected index=%d", ErrMismatch, step, left.Value)
	}
	return nil
}

func (r *runner) verify(step int) error {
	r.report.Verifications += 1

	if err := r.head.Verify(); err != nil {
		return fmt.Errorf("step %d: %w", step, err)
	}
	if r.head.Len() != r.ref.Size() {
		return fmt.Errorf("%w: step %d len=%d, reference=%d", ErrMismatch, step, r.head.Len(), r.ref.Size())
	}

	it := r.ref.Iterator()
	for n := range r.head.All() {
		if !it.Next() || &r.pool[it.Value()] != n {
			return fmt.Errorf("%w: step %d traversal diverges at index=%d", ErrMismatch, step, n.Value.index)
		}
	}

	if r.cfg.Augmented {
		if _, err := checkSize(r.head.GetRoot()); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
	}
	return nil
}

// drain removes every queued node, the head must end up empty.
func (r *runner) drain() error {
	for n := r.head.GetNext(); n != nil; n = r.head.GetNext() {
		index := n.Value.index
		r.ref.Remove(r.keys[index])
		r.head.Del(n)
		r.move(index, &r.queued, &r.free)
		r.report.Drained += 1
	}

	if !r.head.Empty() || !r.ref.Empty() {
		return fmt.Errorf("%w: drain left len=%d, reference=%d", ErrMismatch, r.head.Len(), r.ref.Size())
	}
	return r.head.Verify()
}

func computeSize(n *node, exit bool) bool {
	size := 1
	if l := n.Left(); l != nil {
		size += l.Value.size
	}
	if r := n.Right(); r != nil {
		size += r.Value.size
	}
	if exit && n.Value.size == size {
		return true
	}
	n.Value.size = size
	return false
}

func transferSize(from, to *node) {
	to.Value.size = from.Value.size
}

func checkSize(n *node) (int, error) {
	if n == nil {
		return 0, nil
	}
	l, err := checkSize(n.Left())
	if err != nil {
		return 0, err
	}
	r, err := checkSize(n.Right())
	if err != nil {
		return 0, err
	}
	if n.Value.size != 1+l+r {
		return 0, fmt.Errorf("%w: index=%d records subtree size %d, counted %d", ErrMismatch, n.Value.index, n.Value.size, 1+l+r)
	}
	return n.Value.size, nil
}

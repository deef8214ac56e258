// Package timer implements the software timer wheel of §4.4: many
// logical timers multiplexed onto the single hardware comparator SBI
// exposes via SetTimer. Node management (sorted insert, unlink,
// reprogram-on-change) is adapted from the teacher's rv64/clint.go
// mtimecmp model; the retry-once-on-empty heartbeat and lock discipline
// are original_source's timer.c made explicit (§4.4, §9).
package timer

import (
	"sync"

	"github.com/XinbangWei/RVOS/internal/sbi"
)

// Callback is invoked with arg when a timer expires. Per §4.4, callbacks
// must be short: the tick handler holds the wheel's lock between fires.
type Callback func(arg any)

// Node is one pending timer. Owned by the wheel between Create and
// fire/Delete (§3, §9: "separate node ownership").
type Node struct {
	fn     Callback
	arg    any
	expiry uint64
	next   *Node
}

// Wheel is the sorted pending-timer list plus the lock protecting it
// (§5: scheduler/timer mutations run with interrupts masked).
type Wheel struct {
	mu       sync.Mutex
	provider sbi.Provider
	head     *Node
}

// New creates a timer wheel driven by provider's hardware comparator.
func New(provider sbi.Provider) *Wheel {
	return &Wheel{provider: provider}
}

// Create allocates a timer firing intervalTicks from now (§4.4 "Create").
// Returns nil if node allocation fails (§4.4 "Failure semantics" — in this
// implementation node allocation only fails if provider is nil, kept as a
// distinguished nil return rather than a panic so callers can degrade).
func (w *Wheel) Create(intervalTicks uint64, fn Callback, arg any) *Node {
	if w.provider == nil {
		return nil
	}
	n := &Node{fn: fn, arg: arg, expiry: w.provider.Now() + intervalTicks}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.insertLocked(n)
	return n
}

func (w *Wheel) insertLocked(n *Node) {
	if w.head == nil || n.expiry < w.head.expiry {
		n.next = w.head
		w.head = n
		w.provider.SetTimer(n.expiry)
		return
	}
	cur := w.head
	for cur.next != nil && cur.next.expiry <= n.expiry {
		cur = cur.next
	}
	n.next = cur.next
	cur.next = n
}

// Delete cancels n. Reprograms the comparator to the new head, or
// disables it if the wheel becomes empty (§4.4 "Delete").
func (w *Wheel) Delete(n *Node) {
	if n == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.removeLocked(n)
}

func (w *Wheel) removeLocked(n *Node) {
	if w.head == n {
		w.head = n.next
		w.reprogramLocked()
		return
	}
	for cur := w.head; cur != nil && cur.next != nil; cur = cur.next {
		if cur.next == n {
			cur.next = n.next
			return
		}
	}
}

func (w *Wheel) reprogramLocked() {
	if w.head == nil {
		w.provider.SetTimer(^uint64(0))
		return
	}
	w.provider.SetTimer(w.head.expiry)
}

// TickHandler is called from the trap dispatcher on a timer interrupt
// (§4.2, §4.4). It fires every due timer in non-decreasing expiry order
// (ties by insertion, since insertLocked only advances past entries with
// expiry <= n.expiry), then re-arms the comparator, enqueuing a
// self-renewing heartbeat if the wheel emptied out so the scheduler still
// runs periodically.
func (w *Wheel) TickHandler(schedule func()) {
	for {
		w.mu.Lock()
		head := w.head
		if head == nil || head.expiry > w.provider.Now() {
			if head == nil {
				w.createHeartbeatLocked(schedule)
			} else {
				w.provider.SetTimer(head.expiry)
			}
			w.mu.Unlock()
			return
		}
		w.head = head.next
		w.mu.Unlock()

		head.fn(head.arg)
	}
}

// createHeartbeatLocked enqueues a 1-tick heartbeat whose callback just
// calls schedule, guaranteeing the scheduler runs even with no other
// timers pending (§4.4).
func (w *Wheel) createHeartbeatLocked(schedule func()) {
	n := &Node{
		fn:     func(any) { schedule() },
		expiry: w.provider.Now() + 1,
	}
	w.insertLocked(n)
}

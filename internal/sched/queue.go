package sched

import "math/bits"

// runQueues is the per-priority doubly-linked list plus the non-empty
// bitmap (§4.3). Lists are threaded through Task.prev/next using task-table
// indices, not pointers, per §9's arena-plus-index discipline; -1 means
// "no link."
type runQueues struct {
	tasks  []Task
	head   [MaxPriority]int
	tail   [MaxPriority]int
	bitmap uint32
}

func newRunQueues(tasks []Task) *runQueues {
	rq := &runQueues{tasks: tasks}
	for p := range rq.head {
		rq.head[p] = -1
		rq.tail[p] = -1
	}
	return rq
}

// enqueueTail appends task id to the tail of its priority's queue and sets
// the priority's bitmap bit (task_create / wake's "enqueue at tail").
func (rq *runQueues) enqueueTail(id int) {
	t := &rq.tasks[id]
	t.prev, t.next = rq.tail[t.priority], -1
	if rq.tail[t.priority] == -1 {
		rq.head[t.priority] = id
	} else {
		rq.tasks[rq.tail[t.priority]].next = id
	}
	rq.tail[t.priority] = id
	rq.bitmap |= 1 << uint(t.priority)
}

// remove unlinks task id from its priority's queue and clears the
// priority's bitmap bit if the queue becomes empty (task_exit / task_delay).
func (rq *runQueues) remove(id int) {
	t := &rq.tasks[id]
	if t.prev != -1 {
		rq.tasks[t.prev].next = t.next
	} else {
		rq.head[t.priority] = t.next
	}
	if t.next != -1 {
		rq.tasks[t.next].prev = t.prev
	} else {
		rq.tail[t.priority] = t.prev
	}
	t.prev, t.next = -1, -1
	if rq.head[t.priority] == -1 {
		rq.bitmap &^= 1 << uint(t.priority)
	}
}

// pickNext implements §4.3's pick_next: lowest set bit via
// count-trailing-zeros (the idiomatic stdlib answer, math/bits), take the
// queue head, rotate it to the tail for round-robin, and return its id.
// Returns -1 if the bitmap is empty.
func (rq *runQueues) pickNext() int {
	if rq.bitmap == 0 {
		return -1
	}
	prio := bits.TrailingZeros32(rq.bitmap)
	id := rq.head[prio]
	rq.remove(id)
	rq.enqueueTail(id)
	return id
}

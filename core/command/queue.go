package command

// compactThreshold is the number of consumed slots after which the queue
// reclaims the front of its backing array.
const compactThreshold = 64

// Queue is an unbounded FIFO of commands. FIFO order is its only guarantee:
// no priorities, no reordering, no deduplication.
//
// A Queue is not safe for concurrent use. Each dispatch context owns its own
// queue.
type Queue struct {
	items []Command
	head  int
}

// NewQueue creates a queue holding cmds in order.
func NewQueue(cmds ...Command) *Queue {
	q := &Queue{}
	q.Push(cmds...)
	return q
}

// Enqueue appends cmd to the tail.
func (q *Queue) Enqueue(cmd Command) {
	q.items = append(q.items, cmd)
}

// Push appends cmds to the tail in order.
func (q *Queue) Push(cmds ...Command) {
	q.items = append(q.items, cmds...)
}

// Dequeue removes and returns the head. It reports false when the queue is empty.
func (q *Queue) Dequeue() (Command, bool) {
	if q.head >= len(q.items) {
		q.reset()
		return Command{}, false
	}

	cmd := q.items[q.head]
	q.items[q.head] = Command{}
	q.head++

	if q.head == len(q.items) {
		q.reset()
	} else if q.head >= compactThreshold && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	return cmd, true
}

// Len returns the number of queued commands.
func (q *Queue) Len() int {
	return len(q.items) - q.head
}

func (q *Queue) reset() {
	q.items = q.items[:0]
	q.head = 0
}

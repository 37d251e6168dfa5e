package scene

// FrameHandle identifies a requested frame callback. Zero is never issued.
type FrameHandle uint64

// Scheduler runs one callback per display refresh.
type Scheduler interface {
	RequestFrame(fn func()) FrameHandle
	CancelFrame(h FrameHandle)
}

type queuedFrame struct {
	handle FrameHandle
	fn     func()
}

// FrameQueue is a single-threaded Scheduler driven by calling Pump once per
// refresh. Callbacks requested while a pump is running wait for the next one.
type FrameQueue struct {
	next    FrameHandle
	queue   []queuedFrame
	running []queuedFrame
	spare   []queuedFrame
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

func (q *FrameQueue) RequestFrame(fn func()) FrameHandle {
	q.next++
	q.queue = append(q.queue, queuedFrame{handle: q.next, fn: fn})
	return q.next
}

func (q *FrameQueue) CancelFrame(h FrameHandle) {
	for i := range q.running {
		if q.running[i].handle == h {
			q.running[i].fn = nil
			return
		}
	}
	for i := range q.queue {
		if q.queue[i].handle == h {
			q.queue = append(q.queue[:i], q.queue[i+1:]...)
			return
		}
	}
}

// Pump runs the callbacks queued before the call and returns how many ran.
func (q *FrameQueue) Pump() int {
	q.running, q.queue = q.queue, q.spare[:0]
	n := 0
	for i := range q.running {
		fn := q.running[i].fn
		if fn == nil {
			continue
		}
		q.running[i].fn = nil
		fn()
		n++
	}
	q.spare = q.running[:0]
	q.running = nil
	return n
}

// Pending returns the number of callbacks waiting for the next pump.
func (q *FrameQueue) Pending() int { return len(q.queue) }

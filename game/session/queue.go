package session

import "sync"

// Pairing is the result of matching two players
type Pairing struct {
	SessionID uint64
	First     *Player
	Second    *Player
}

// Queue is the single-slot matchmaking registry. The waiting slot and the
// session id counter are guarded by the same mutex.
type Queue struct {
	mu      sync.Mutex
	waiting *Player
	next    uint64
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue pairs p with the waiting player, or parks p in the slot when it is
// empty. A waiting player whose connection already closed is discarded and
// finished as Disconnected.
func (q *Queue) Enqueue(p *Player) (Pairing, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.waiting != nil && q.waiting.gone() {
		q.waiting.finish(Disconnected)
		q.waiting = nil
	}

	if q.waiting == nil || q.waiting == p {
		q.waiting = p
		return Pairing{}, false
	}

	first := q.waiting
	q.waiting = nil
	q.next++

	first.setID(1)
	p.setID(2)

	return Pairing{
		SessionID: q.next,
		First:     first,
		Second:    p,
	}, true
}

// Withdraw removes p from the waiting slot and finishes it as Disconnected.
// It returns false if p was not waiting, for example because it has already
// been paired.
func (q *Queue) Withdraw(p *Player) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.waiting != p {
		return false
	}
	q.waiting = nil
	p.finish(Disconnected)
	return true
}

// Waiting reports whether a player is waiting for an opponent
func (q *Queue) Waiting() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.waiting != nil
}

// Allocated returns the number of session ids handed out so far
func (q *Queue) Allocated() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.next
}

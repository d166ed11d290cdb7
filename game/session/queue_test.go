package session

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func newTestPlayer() (*Player, *fakeConn) {
	c := newFakeConn()
	return NewPlayer(uuid.New(), c), c
}

func TestQueuePairing(t *testing.T) {
	q := NewQueue()
	a, _ := newTestPlayer()
	b, _ := newTestPlayer()
	c, _ := newTestPlayer()
	d, _ := newTestPlayer()

	if _, paired := q.Enqueue(a); paired {
		t.Fatal("Expected first player to wait")
	}
	if !q.Waiting() {
		t.Error("Expected a waiting player")
	}

	p, paired := q.Enqueue(b)
	if !paired {
		t.Fatal("Expected second player to pair")
	}
	if p.SessionID != 1 || p.First != a || p.Second != b {
		t.Errorf("Unexpected pairing %+v", p)
	}
	if a.ID() != 1 || b.ID() != 2 {
		t.Errorf("Expected ids 1/2, got %d/%d", a.ID(), b.ID())
	}
	if q.Waiting() {
		t.Error("Expected empty slot after pairing")
	}

	q.Enqueue(c)
	p, paired = q.Enqueue(d)
	if !paired || p.SessionID != 2 || p.First != c || p.Second != d {
		t.Errorf("Unexpected second pairing %+v (paired=%v)", p, paired)
	}
	if q.Allocated() != 2 {
		t.Errorf("Expected 2 allocated ids, got %d", q.Allocated())
	}
}

func TestQueueWithdraw(t *testing.T) {
	q := NewQueue()
	a, _ := newTestPlayer()
	b, _ := newTestPlayer()
	c, _ := newTestPlayer()

	q.Enqueue(a)
	if q.Withdraw(b) {
		t.Error("Withdraw of a player that is not waiting should fail")
	}
	if !q.Withdraw(a) {
		t.Fatal("Expected waiting player to withdraw")
	}
	select {
	case <-a.Done():
	default:
		t.Error("Expected withdrawn player to be finished")
	}

	if _, paired := q.Enqueue(b); paired {
		t.Error("Withdrawn player must not be paired")
	}
	p, paired := q.Enqueue(c)
	if !paired || p.First != b {
		t.Errorf("Expected b to be paired with c, got %+v", p)
	}
	if q.Withdraw(b) {
		t.Error("Paired player must not withdraw")
	}
}

func TestQueueSkipsClosedWaitingPlayer(t *testing.T) {
	q := NewQueue()
	a, conn := newTestPlayer()
	b, _ := newTestPlayer()

	q.Enqueue(a)
	conn.Close()

	if _, paired := q.Enqueue(b); paired {
		t.Fatal("Expected closed waiting player to be discarded")
	}
	if q.Allocated() != 0 {
		t.Errorf("Expected no session id allocated, got %d", q.Allocated())
	}
	if a.Outcome() != Disconnected {
		t.Errorf("Expected discarded player to be disconnected, got %s", a.Outcome())
	}
}

func TestQueueSamePlayerTwice(t *testing.T) {
	q := NewQueue()
	a, _ := newTestPlayer()

	q.Enqueue(a)
	if _, paired := q.Enqueue(a); paired {
		t.Error("A player must not be paired with itself")
	}
}

func TestQueueConcurrentUniqueIDs(t *testing.T) {
	q := NewQueue()
	const n = 200

	var wg sync.WaitGroup
	var mu sync.Mutex
	ids := make(map[uint64]int)
	seen := make(map[*Player]bool)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, _ := newTestPlayer()
			pairing, paired := q.Enqueue(p)
			if !paired {
				return
			}
			mu.Lock()
			ids[pairing.SessionID]++
			seen[pairing.First] = true
			seen[pairing.Second] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(ids) != n/2 {
		t.Errorf("Expected %d sessions, got %d", n/2, len(ids))
	}
	for id, count := range ids {
		if count != 1 {
			t.Errorf("Session id %d allocated %d times", id, count)
		}
		if id < 1 || id > n/2 {
			t.Errorf("Session id %d out of range", id)
		}
	}
	if len(seen) != n {
		t.Errorf("Expected %d distinct players paired, got %d", n, len(seen))
	}
}

package queue

import (
	"sync"
	"testing"
)

// update mirrors the roster hand-off items the queue carries in
// production.
type update struct {
	Player uint8
	X, Y   float64
}

func TestQueue_New(t *testing.T) {
	q := New[update]()
	if q == nil {
		t.Fatal("expected non-nil queue")
	}
	if !q.Empty() {
		t.Error("expected empty queue")
	}
	if q.Len() != 0 {
		t.Errorf("expected length 0, got %d", q.Len())
	}
}

func TestQueue_Push(t *testing.T) {
	q := New[update]()

	q.Push(update{Player: 2})
	if q.Len() != 1 {
		t.Errorf("expected length 1, got %d", q.Len())
	}

	q.Push(update{Player: 3}, update{Player: 2, X: 1})
	if q.Len() != 3 {
		t.Errorf("expected length 3, got %d", q.Len())
	}
}

func TestQueue_GetAndEmpty(t *testing.T) {
	q := New[update]()

	q.Push(update{Player: 2, X: 1}, update{Player: 3, Y: 2})

	items := q.GetAndEmpty()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Player != 2 || items[1].Player != 3 {
		t.Errorf("drain order broken: %+v", items)
	}
	if !q.Empty() {
		t.Error("expected empty queue after drain")
	}

	// Draining an empty queue is fine.
	if got := q.GetAndEmpty(); len(got) != 0 {
		t.Errorf("expected no items, got %d", len(got))
	}
}

// The receive side pushes while the tick loop drains. Run with -race.
func TestQueue_ConcurrentPushDrain(t *testing.T) {
	q := New[update]()

	const producers = 4
	const perProducer = 250

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(update{Player: 2})
			}
		}()
	}

	done := make(chan struct{})
	var drained int
	go func() {
		defer close(done)
		for {
			drained += len(q.GetAndEmpty())
			if drained == producers*perProducer {
				return
			}
		}
	}()

	wg.Wait()
	<-done

	if drained != producers*perProducer {
		t.Errorf("expected %d items, drained %d", producers*perProducer, drained)
	}
}

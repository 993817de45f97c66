package genstore

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	rev     uint64
	touched time.Time
}

// Local keeps revisions in process memory. With a cleanup interval and a
// retention it prunes counters that have not been bumped for that long;
// a pruned key reads as revision 0 and its registry entry self-heals.
type Local struct {
	mu   sync.RWMutex
	revs map[string]localEntry

	stop chan struct{}
	done sync.WaitGroup
	once sync.Once
}

var _ GenStore = (*Local)(nil)

func NewLocal(cleanupInterval, retention time.Duration) *Local {
	s := &Local{revs: make(map[string]localEntry)}
	if cleanupInterval <= 0 || retention <= 0 {
		return s
	}
	s.stop = make(chan struct{})
	s.done.Add(1)
	go func() {
		defer s.done.Done()
		t := time.NewTicker(cleanupInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.Cleanup(retention)
			case <-s.stop:
				return
			}
		}
	}()
	return s
}

func (s *Local) Snapshot(_ context.Context, key string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revs[key].rev, nil
}

func (s *Local) Bump(_ context.Context, key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.revs[key]
	e.rev++
	e.touched = time.Now()
	s.revs[key] = e
	return e.rev, nil
}

func (s *Local) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention)
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.revs {
		if e.touched.Before(cutoff) {
			delete(s.revs, k)
		}
	}
}

// Len reports how many counters are held.
func (s *Local) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revs)
}

// Close stops the cleanup loop. Safe to call more than once.
func (s *Local) Close(_ context.Context) error {
	s.once.Do(func() {
		if s.stop != nil {
			close(s.stop)
			s.done.Wait()
		}
	})
	return nil
}

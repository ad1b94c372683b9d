package results

import (
	"sort"
	"sync"
	"time"
)

// ProgressEvery is how many completed attempts separate two progress events.
const ProgressEvery = 100

type (
	FoundFunc    func(name string)
	ProgressFunc func(tested uint64, found int, elapsed time.Duration)
)

// Sink aggregates the outcome of a run. All mutation happens under one
// mutex; callbacks run while it is held so their output never interleaves.
type Sink struct {
	mu         sync.Mutex
	found      map[string]struct{}
	tested     uint64
	start      time.Time
	onFound    FoundFunc
	onProgress ProgressFunc
}

func NewSink(start time.Time, onFound FoundFunc, onProgress ProgressFunc) *Sink {
	if start.IsZero() {
		start = time.Now()
	}
	return &Sink{
		found:      make(map[string]struct{}),
		start:      start,
		onFound:    onFound,
		onProgress: onProgress,
	}
}

// RecordTested counts one completed attempt.
func (s *Sink) RecordTested() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordTested()
}

// RecordFound adds name to the found set and announces it. Duplicates from
// the wordlist are announced again but stored once.
func (s *Sink) RecordFound(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordFound(name)
}

// Record completes one attempt: the found insert (if any) and the tested
// increment happen in the same critical section, so no reader ever sees
// more found names than tested attempts.
func (s *Sink) Record(name string, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if found {
		s.recordFound(name)
	}
	s.recordTested()
}

func (s *Sink) recordTested() {
	s.tested++
	if s.tested%ProgressEvery == 0 && s.onProgress != nil {
		s.onProgress(s.tested, len(s.found), time.Since(s.start))
	}
}

func (s *Sink) recordFound(name string) {
	s.found[name] = struct{}{}
	if s.onFound != nil {
		s.onFound(name)
	}
}

func (s *Sink) Counts() (tested uint64, found int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tested, len(s.found)
}

func (s *Sink) StartTime() time.Time { return s.start }

// Snapshot returns the tested count and the found names sorted
// lexicographically.
func (s *Sink) Snapshot() (uint64, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.found))
	for n := range s.found {
		names = append(names, n)
	}
	sort.Strings(names)
	return s.tested, names
}

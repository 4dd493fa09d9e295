package crawl

import (
	"sync"

	"github.com/fwojciec/sitesearch"
	"github.com/fwojciec/sitesearch/bloom"
)

// Compile-time interface verification.
var _ sitesearch.URLFrontier = (*Frontier)(nil)

type urlState uint8

const (
	stateQueued urlState = iota + 1
	stateInFlight
	stateVisited
	stateFailed
)

// Frontier is an in-memory FIFO crawl queue that tracks the state of every
// URL it has ever accepted. A Bloom filter answers "definitely unseen"
// without touching the state map; the map is authoritative.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu       sync.Mutex
	seen     *bloom.Filter
	states   map[string]urlState
	queue    []string
	inFlight int
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for the Bloom pre-check.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen:   bloom.NewFilter(n, fpRate),
		states: make(map[string]urlState),
	}
}

// Offer queues a URL unless it has been queued, dequeued, visited or failed before.
func (f *Frontier) Offer(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.TestAndAdd(url) {
		if _, ok := f.states[url]; ok {
			return false
		}
	}
	f.states[url] = stateQueued
	f.queue = append(f.queue, url)
	return true
}

// Next dequeues the oldest queued URL and marks it in flight.
func (f *Frontier) Next() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	f.states[url] = stateInFlight
	f.inFlight++
	return url, true
}

// MarkVisited records a fetched or terminally rejected URL.
func (f *Frontier) MarkVisited(url string) {
	f.mark(url, stateVisited)
}

// MarkFailed records a transport failure. The URL stays unvisited.
func (f *Frontier) MarkFailed(url string) {
	f.mark(url, stateFailed)
}

func (f *Frontier) mark(url string, state urlState) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.states[url] == stateInFlight {
		f.inFlight--
	}
	f.seen.Add(url)
	f.states[url] = state
}

// Visited returns true if the URL has been marked visited.
func (f *Frontier) Visited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.seen.MaybeSeen(url) {
		return false
	}
	return f.states[url] == stateVisited
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// InFlight returns the number of dequeued URLs without an outcome.
func (f *Frontier) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

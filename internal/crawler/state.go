package crawler

import (
	"maps"
	"slices"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// State accumulates the results of exactly one crawl. It is safe for
// concurrent use by the engine's workers and read-only once Crawl returns.
type State struct {
	visited mapset.Set[string]

	mu        sync.RWMutex
	relations map[string][]string
	assets    map[string][]string
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		visited:   mapset.NewSet[string](),
		relations: make(map[string][]string),
		assets:    make(map[string][]string),
	}
}

// MarkVisited atomically adds url to the visited set. It returns true only
// for the first caller, which then owns fetching and recording url.
func (s *State) MarkVisited(url string) bool {
	return s.visited.Add(url)
}

// Visited reports whether url has been dispatched.
func (s *State) Visited(url string) bool {
	return s.visited.Contains(url)
}

// VisitedCount returns the number of dispatched URLs.
func (s *State) VisitedCount() int {
	return s.visited.Cardinality()
}

// Record stores the links and assets found on page. A page is written once;
// later calls for the same page are ignored and report false.
func (s *State) Record(page string, links, assets []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.relations[page]; exists {
		return false
	}
	s.relations[page] = sortedCopy(links)
	s.assets[page] = sortedCopy(assets)
	return true
}

// Relations returns a copy of the page -> internal links map.
func (s *State) Relations() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRelations(s.relations)
}

// Assets returns a copy of the page -> static assets map.
func (s *State) Assets() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRelations(s.assets)
}

// Len returns the number of recorded pages.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.relations)
}

func sortedCopy(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

func cloneRelations(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for k, v := range maps.All(src) {
		out[k] = slices.Clone(v)
	}
	return out
}

package health

import (
	"context"
	"sort"
	"sync"
)

// Checker reports the health of one dependency
type Checker interface {
	Name() string
	Check(ctx context.Context) Status
}

// CheckFunc adapts a function to Checker
type CheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context) Status
}

// Name implements Checker
func (c CheckFunc) Name() string { return c.CheckName }

// Check implements Checker
func (c CheckFunc) Check(ctx context.Context) Status {
	s := c.Fn(ctx)
	s.Name = c.CheckName
	return s
}

// Monitor runs registered checkers in a thread-safe manner
type Monitor struct {
	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewMonitor creates an empty monitor
func NewMonitor() *Monitor {
	return &Monitor{checkers: make(map[string]Checker)}
}

// Register adds a checker, replacing any with the same name
func (m *Monitor) Register(c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers[c.Name()] = c
}

// Remove drops the named checker
func (m *Monitor) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.checkers, name)
}

// Names returns the registered checker names, sorted
func (m *Monitor) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.checkers))
	for name := range m.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs every checker and returns their aggregate, checks sorted by name
func (m *Monitor) Check(ctx context.Context, system string) Status {
	m.mu.RLock()
	checkers := make([]Checker, 0, len(m.checkers))
	for _, c := range m.checkers {
		checkers = append(checkers, c)
	}
	m.mu.RUnlock()

	sort.Slice(checkers, func(i, j int) bool { return checkers[i].Name() < checkers[j].Name() })

	results := make([]Status, 0, len(checkers))
	for _, c := range checkers {
		if err := ctx.Err(); err != nil {
			results = append(results, FromError(c.Name(), err))
			continue
		}
		results = append(results, c.Check(ctx))
	}
	return Aggregate(system, results)
}

// Package domainstate tracks how each schema domain is shown: fully laid out,
// collapsed to a single glyph, or removed. It holds domain names and node IDs
// only; the graph owns the nodes.
package domainstate

import "fmt"

// State is the visibility of one domain.
type State string

const (
	Nodes     State = "NODES"
	Minimized State = "MINIMIZED"
	Removed   State = "REMOVED"
)

// ParseState converts a case-sensitive state name.
func ParseState(s string) (State, error) {
	switch State(s) {
	case Nodes, Minimized, Removed:
		return State(s), nil
	}
	return "", fmt.Errorf("unknown domain state %q (want NODES, MINIMIZED or REMOVED)", s)
}

type entry struct {
	state    State
	excluded map[string]struct{}
}

// DomainState holds one entry per domain.
type DomainState struct {
	primary string
	order   []string
	entries map[string]*entry
}

// New creates a DomainState for domains. The primary domain starts in Nodes,
// every other domain in Minimized.
func New(domains []string, primary string) *DomainState {
	ds := &DomainState{primary: primary}
	ds.Load(domains)
	return ds
}

// Load replaces all entries with fresh ones for domains, applying the initial
// policy. Duplicate names are ignored.
func (ds *DomainState) Load(domains []string) {
	ds.order = nil
	ds.entries = make(map[string]*entry, len(domains))
	for _, d := range domains {
		initial := Minimized
		if d == ds.primary {
			initial = Nodes
		}
		ds.add(d, initial)
	}
}

func (ds *DomainState) add(domain string, s State) *entry {
	if e, ok := ds.entries[domain]; ok {
		return e
	}
	e := &entry{state: s, excluded: make(map[string]struct{})}
	ds.entries[domain] = e
	ds.order = append(ds.order, domain)
	return e
}

// Primary returns the domain that starts fully visible.
func (ds *DomainState) Primary() string { return ds.primary }

// DomainList returns domain names in the order they were first seen.
func (ds *DomainState) DomainList() []string {
	return append([]string(nil), ds.order...)
}

// State returns the state of domain. Unknown domains report Removed.
func (ds *DomainState) State(domain string) State {
	if e, ok := ds.entries[domain]; ok {
		return e.state
	}
	return Removed
}

// SetDomainState overwrites the state of domain unconditionally. Unknown
// domains are added.
func (ds *DomainState) SetDomainState(domain string, s State) {
	ds.add(domain, s).state = s
}

// SetAll sets every known domain to s.
func (ds *DomainState) SetAll(s State) {
	for _, d := range ds.order {
		ds.entries[d].state = s
	}
}

// ExcludeNode hides a single node of an otherwise visible domain.
func (ds *DomainState) ExcludeNode(domain, nodeID string) {
	ds.add(domain, Minimized).excluded[nodeID] = struct{}{}
}

// IncludeNode reverses ExcludeNode.
func (ds *DomainState) IncludeNode(domain, nodeID string) {
	if e, ok := ds.entries[domain]; ok {
		delete(e.excluded, nodeID)
	}
}

// IsExcluded reports whether nodeID is in the excluded set of domain.
func (ds *DomainState) IsExcluded(domain, nodeID string) bool {
	e, ok := ds.entries[domain]
	if !ok {
		return false
	}
	_, excluded := e.excluded[nodeID]
	return excluded
}

// ExcludedCount returns the size of domain's excluded set.
func (ds *DomainState) ExcludedCount(domain string) int {
	if e, ok := ds.entries[domain]; ok {
		return len(e.excluded)
	}
	return 0
}

// ClearExcludedNodes empties the excluded set of every domain.
func (ds *DomainState) ClearExcludedNodes() {
	for _, e := range ds.entries {
		clear(e.excluded)
	}
}

// IsNodeVisible reports whether a node is laid out and simulated: its domain
// must be in Nodes and the node must not be excluded.
func (ds *DomainState) IsNodeVisible(domain, nodeID string) bool {
	return ds.State(domain) == Nodes && !ds.IsExcluded(domain, nodeID)
}

// Reset drops every entry.
func (ds *DomainState) Reset() {
	ds.order = nil
	ds.entries = make(map[string]*entry)
}

// Snapshot returns the current state of every domain.
func (ds *DomainState) Snapshot() map[string]State {
	out := make(map[string]State, len(ds.entries))
	for d, e := range ds.entries {
		out[d] = e.state
	}
	return out
}

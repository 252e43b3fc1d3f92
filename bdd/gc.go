package bdd

import "github.com/xDarkicex/pgbdd/resolver"

// CheckGC runs CollectGarbage if enough quantification steps have
// accumulated since the last collection. gcThreshold <= 0 disables
// automatic collection entirely (the caller must invoke CollectGarbage
// directly, e.g. between buckets in the elimination schedule).
func (m *Manager) CheckGC() {
	if m.gcThreshold <= 0 || m.quantifiedSinceGC < m.gcThreshold {
		return
	}
	m.CollectGarbage()
}

// CollectGarbage marks every node reachable from the current root set
// (as reported by the manager's rootGenerator) and removes everything
// else from the unique table, then clears the structural apply caches and
// drops every justification-cache entry that touches a freed node: a cached
// result may reference a node about to be freed, and the cache entry
// itself is worthless once the operands it was keyed on are gone.
func (m *Manager) CollectGarbage() {
	if m.rootGenerator == nil {
		return
	}
	roots := m.rootGenerator()
	live := make(map[int]bool, len(m.unique))
	var mark func(n *Node)
	mark = func(n *Node) {
		if n == nil || n.IsLeaf() || live[n.ID] {
			return
		}
		live[n.ID] = true
		mark(n.high)
		mark(n.low)
	}
	for _, r := range roots {
		mark(r)
	}

	// tracked records every internal node id currently hash-consed, so
	// idDead can tell "never an internal node, always live" (the two
	// leaves, or an external variable id used directly as an operand)
	// apart from "was an internal node and didn't mark", which is dead.
	tracked := make(map[int]bool, len(m.unique))
	for _, n := range m.unique {
		tracked[n.ID] = true
	}
	idDead := func(id int) bool {
		return tracked[id] && !live[id]
	}
	pairDead := func(a, b int) bool { return idDead(a) || idDead(b) }

	var deletedClauses []int

	// Cache cleanup: an entry whose result or either operand id refers to a
	// node about to be swept is worthless (and, per spec, its accumulated
	// clauseList must be handed to the prover for deletion alongside the
	// node's own axiom clauses).
	for key, e := range m.andJustifyCache {
		if pairDead(key.a, key.b) || (e.result != nil && idDead(e.result.ID)) {
			deletedClauses = append(deletedClauses, e.clauses...)
			delete(m.andJustifyCache, key)
		}
	}
	for key, e := range m.implyCache {
		if pairDead(key.a, key.b) {
			deletedClauses = append(deletedClauses, e.clauses...)
			delete(m.implyCache, key)
		}
	}

	before := len(m.unique)
	for key, n := range m.unique {
		if !live[n.ID] {
			for _, id := range [4]int{n.InferTrueUp, n.InferFalseUp, n.InferTrueDown, n.InferFalseDown} {
				if id != resolver.TautologyID {
					deletedClauses = append(deletedClauses, id)
				}
			}
			delete(m.unique, key)
		}
	}
	if m.Prover != nil && len(deletedClauses) > 0 {
		m.Prover.DeleteClauses(deletedClauses)
	}
	m.nodesCollected += int64(before - len(m.unique))
	m.gcCount++
	m.quantifiedSinceGC = 0

	m.andCache = make(map[pairKey]*Node)
	m.orCache = make(map[pairKey]*Node)
	m.xorCache = make(map[pairKey]*Node)
	m.notCache = make(map[int]*Node)
	m.equantCache = make(map[pairKey]*Node)
	// Remaining (still-live) entries in andJustifyCache/implyCache survive:
	// their clauseLists are still needed if a later GC frees them.
}

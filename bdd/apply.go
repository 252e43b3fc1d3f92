package bdd

import "github.com/xDarkicex/pgbdd/resolver"

// ApplyAnd computes the conjunction of a and b with no proof obligation,
// for use where the result's correctness follows structurally (CheckImply,
// ApplyOr and ApplyXor) rather than needing a clause tying it back to its
// operands.
func (m *Manager) ApplyAnd(a, b *Node) *Node {
	if a.ID > b.ID {
		a, b = b, a
	}
	key := pairKey{a.ID, b.ID}
	if n, ok := m.andCache[key]; ok {
		return n
	}
	var result *Node
	switch {
	case a.IsZero() || b.IsZero():
		result = m.leaf0
	case a.IsOne():
		result = b
	case b.IsOne():
		result = a
	case a.ID == b.ID:
		result = a
	default:
		split := Min(a.Var, b.Var)
		high := m.ApplyAnd(a.BranchHigh(split), b.BranchHigh(split))
		low := m.ApplyAnd(a.BranchLow(split), b.BranchLow(split))
		result = m.findOrMake(split, high, low, false)
	}
	m.andCache[key] = result
	return result
}

// ApplyNot constructs the structural complement of a: a fresh BDD with
// every leaf swapped. There is no proof obligation for negation itself;
// a node's complement is used only as an intermediate in ApplyOr,
// ApplyXor and CheckImply.
func (m *Manager) ApplyNot(a *Node) *Node {
	if a.IsZero() {
		return m.leaf1
	}
	if a.IsOne() {
		return m.leaf0
	}
	if n, ok := m.notCache[a.ID]; ok {
		return n
	}
	high := m.ApplyNot(a.high)
	low := m.ApplyNot(a.low)
	result := m.findOrMake(a.Var, high, low, false)
	m.notCache[a.ID] = result
	return result
}

// ApplyOr computes the disjunction of a and b by De Morgan's law over
// ApplyAnd/ApplyNot, structurally, with no proof obligation.
func (m *Manager) ApplyOr(a, b *Node) *Node {
	if a.ID > b.ID {
		a, b = b, a
	}
	key := pairKey{a.ID, b.ID}
	if n, ok := m.orCache[key]; ok {
		return n
	}
	result := m.ApplyNot(m.ApplyAnd(m.ApplyNot(a), m.ApplyNot(b)))
	m.orCache[key] = result
	return result
}

// ApplyXor computes the exclusive-or of a and b structurally.
func (m *Manager) ApplyXor(a, b *Node) *Node {
	if a.ID > b.ID {
		a, b = b, a
	}
	key := pairKey{a.ID, b.ID}
	if n, ok := m.xorCache[key]; ok {
		return n
	}
	result := m.ApplyOr(m.ApplyAnd(a, m.ApplyNot(b)), m.ApplyAnd(m.ApplyNot(a), b))
	m.xorCache[key] = result
	return result
}

// Equant existentially quantifies v out of a: OR of a's two cofactors with
// respect to v. Quantifying a variable a node doesn't depend on is a
// no-op (both cofactors are a itself, ApplyOr(a, a) reduces to a).
func (m *Manager) Equant(a *Node, v Variable) *Node {
	key := pairKey{a.ID, v.Level}
	if n, ok := m.equantCache[key]; ok {
		return n
	}
	var result *Node
	switch {
	case a.IsLeaf() || v.Less(a.Var):
		result = a
	case a.Var == v:
		result = m.ApplyOr(a.high, a.low)
	default:
		result = m.findOrMake(a.Var, m.Equant(a.high, v), m.Equant(a.low, v), false)
	}
	m.equantCache[key] = result
	m.quantifiedSinceGC++
	return result
}

// ApplyAndJustify computes the conjunction of a and b and a clause id
// proving (-a.ID, -b.ID, result.ID), wiring the recursive ITE-axiom and
// sub-result clause ids through resolver.AndResolver's fixed ladder.
// Terminal cases (either operand constant, or a==b) need no derivation:
// the target clause is a tautology and no proof is registered.
func (m *Manager) ApplyAndJustify(a, b *Node) (*Node, int) {
	if a.ID > b.ID {
		a, b = b, a
	}
	key := pairKey{a.ID, b.ID}
	if e, ok := m.andJustifyCache[key]; ok {
		return e.result, e.justID
	}

	var result *Node
	justID := resolver.TautologyID

	switch {
	case a.IsZero() || b.IsZero():
		result = m.leaf0
	case a.IsOne():
		result = b
	case b.IsOne():
		result = a
	case a.ID == b.ID:
		result = a
	default:
		split := Min(a.Var, b.Var)
		ah, al := a.BranchHigh(split), a.BranchLow(split)
		bh, bl := b.BranchHigh(split), b.BranchLow(split)

		newHigh, highJust := m.ApplyAndJustify(ah, bh)
		newLow, lowJust := m.ApplyAndJustify(al, bl)
		result = m.findOrMake(split, newHigh, newLow, true)

		rules := resolver.RuleSet{
			"ANDH": {ID: highJust, Literal: resolver.CleanClause([]int{-ah.ID, -bh.ID, newHigh.ID})},
			"ANDL": {ID: lowJust, Literal: resolver.CleanClause([]int{-al.ID, -bl.ID, newLow.ID})},
		}
		pivots := resolver.AndPivots{
			HighA: ah.ID, HighB: bh.ID, NewHigh: newHigh.ID,
			LowA: al.ID, LowB: bl.ID, NewLow: newLow.ID,
			Split: split.ID,
		}
		if !a.IsLeaf() && a.Var == split {
			rules["UHD"] = a.inferTrueUpRule()
			rules["ULD"] = a.inferFalseUpRule()
		}
		if !b.IsLeaf() && b.Var == split {
			rules["VHD"] = b.inferTrueUpRule()
			rules["VLD"] = b.inferFalseUpRule()
		}
		if result.ID != newHigh.ID {
			rules["WHU"] = result.inferTrueDownRule()
			rules["WLU"] = result.inferFalseDownRule()
		}

		target := resolver.CleanClause([]int{-a.ID, -b.ID, result.ID})
		comment := "and-justification"
		var clauses []int
		justID, clauses = m.andResolver.Run(target, rules, pivots, comment)
		m.andJustifyCache[key] = justifyEntry{result: result, justID: justID, clauses: clauses}
		return result, justID
	}

	m.andJustifyCache[key] = justifyEntry{result: result, justID: justID}
	return result, justID
}

// ApplyImplyJustify decides whether a implies b and, if so, a clause id
// proving (-a.ID, b.ID), using resolver.ImplyResolver's ladder. When a
// does not imply b, ok is false and no clause is created.
func (m *Manager) ApplyImplyJustify(a, b *Node) (ok bool, justID int) {
	key := pairKey{a.ID, b.ID}
	if e, ok := m.implyCache[key]; ok {
		return e.justID != -1, e.justID
	}
	if !m.CheckImply(a, b) {
		m.implyCache[key] = justifyEntry{justID: -1}
		return false, -1
	}

	var clauses []int
	justID, clauses = m.implyJustifyRec(a, b)
	m.implyCache[key] = justifyEntry{justID: justID, clauses: clauses}
	return true, justID
}

// implyJustifyRec is not itself memoized (recursive sub-pairs are cheap and
// rarely revisited), so every clause it and its recursive calls register is
// rolled up into the single clause list returned, for ApplyImplyJustify's
// cache entry to hand to GC as one unit.
func (m *Manager) implyJustifyRec(a, b *Node) (int, []int) {
	if a.IsZero() || b.IsOne() || a.ID == b.ID {
		return resolver.TautologyID, nil
	}
	split := Min(a.Var, b.Var)
	ah, al := a.BranchHigh(split), a.BranchLow(split)
	bh, bl := b.BranchHigh(split), b.BranchLow(split)
	highJust, highClauses := m.implyJustifyRec(ah, bh)
	lowJust, lowClauses := m.implyJustifyRec(al, bl)

	rules := resolver.RuleSet{
		"IMH": {ID: highJust, Literal: resolver.CleanClause([]int{-ah.ID, bh.ID})},
		"IML": {ID: lowJust, Literal: resolver.CleanClause([]int{-al.ID, bl.ID})},
	}
	pivots := resolver.ImplyPivots{HighA: ah.ID, HighB: bh.ID, LowA: al.ID, LowB: bl.ID, Split: split.ID}
	if !a.IsLeaf() && a.Var == split {
		rules["UHD"] = a.inferTrueUpRule()
		rules["ULD"] = a.inferFalseUpRule()
	}
	if !b.IsLeaf() && b.Var == split {
		rules["VHU"] = b.inferTrueDownRule()
		rules["VLU"] = b.inferFalseDownRule()
	}

	target := resolver.CleanClause([]int{-a.ID, b.ID})
	id, ownClauses := m.implyResolver.Run(target, rules, pivots, "imply-justification")
	clauses := append(append(highClauses, lowClauses...), ownClauses...)
	return id, clauses
}

// QuantifyJustify existentially quantifies v out of node and returns a
// clause id proving node.ID implies the result (always true: Equant only
// ever relaxes a formula), for callers that need to carry a term's
// validation proof through a quantification step.
func (m *Manager) QuantifyJustify(node *Node, v Variable) (result *Node, justID int) {
	result = m.Equant(node, v)
	_, justID = m.ApplyImplyJustify(node, result)
	return result, justID
}

// CheckImply reports whether a implies b, purely structurally (no proof):
// a implies b iff a AND NOT b is unsatisfiable. This replaces the
// reference implementation's recursive checker, which invoked its helper
// by an unbound name and so never actually recursed; ApplyAnd/ApplyNot
// are already memoized, so expressing the check this way is both correct
// and no more expensive.
func (m *Manager) CheckImply(a, b *Node) bool {
	return m.ApplyAnd(a, m.ApplyNot(b)).IsZero()
}

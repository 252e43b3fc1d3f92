package bdd

import (
	"sort"
	"strconv"

	"github.com/xDarkicex/pgbdd/resolver"
)

// tautologySentinel marks a BuildClause validation id as "not needed": the
// clause reduced to the true leaf directly.
const tautologySentinel = resolver.TautologyID

// BuildClause constructs the BDD for a single CNF clause as a right
// leaning chain ordered by variable level, the standard direct
// construction for a disjunction (no Apply needed: each link's high or
// low branch goes straight to the true leaf). clauseID is the id the
// clause was registered under via Prover.CreateInputClause; when justify
// is set, a unit clause asserting the chain's root is derived from
// clauseID by resolving away each literal against that link's own
// ITE axiom, so later proof steps can cite the root node's id as a
// literal without re-deriving its connection to the original input.
// The returned int is the id of the unit clause asserting the root node's
// id as a literal (resolver.TautologyID if the clause reduced to the true
// leaf and so needs no such clause).
func (m *Manager) BuildClause(literals []int, clauseID int, justify bool) (*Node, int) {
	lits := append([]int(nil), literals...)
	sort.Slice(lits, func(i, j int) bool { return abs(lits[i]) < abs(lits[j]) })

	node := m.leaf0
	var chainAxioms []int
	for i := len(lits) - 1; i >= 0; i-- {
		lit := lits[i]
		v := m.variables[abs(lit)-1]
		var next *Node
		if lit > 0 {
			next = m.findOrMake(v, m.leaf1, node, justify)
		} else {
			next = m.findOrMake(v, node, m.leaf1, justify)
		}
		node = next
		if justify && !node.IsLeaf() {
			chainAxioms = append(chainAxioms, node.InferTrueDown, node.InferFalseDown)
		}
	}

	if node.IsOne() {
		return node, tautologySentinel
	}
	if !justify || m.Prover == nil {
		return node, tautologySentinel
	}
	antecedents := append([]int{clauseID}, chainAxioms...)
	validation := m.Prover.CreateClause([]int{node.ID}, antecedents, "clause chain root")
	return node, validation
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// GetSupport returns the sorted list of variable levels node's function
// actually depends on.
func (m *Manager) GetSupport(node *Node) []int {
	seen := map[int]bool{}
	var walk func(n *Node)
	visited := map[int]bool{}
	walk = func(n *Node) {
		if n.IsLeaf() || visited[n.ID] {
			return
		}
		visited[n.ID] = true
		seen[n.Var.Level] = true
		walk(n.high)
		walk(n.low)
	}
	walk(node)
	return sortedInts(seen)
}

// GetSize returns the number of distinct internal nodes reachable from
// node (the BDD's size, excluding the two constant leaves).
func (m *Manager) GetSize(node *Node) int {
	visited := map[int]bool{}
	var count int
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsLeaf() || visited[n.ID] {
			return
		}
		visited[n.ID] = true
		count++
		walk(n.high)
		walk(n.low)
	}
	walk(node)
	return count
}

// SatisfyCount returns the number of satisfying assignments of node over
// its declared support (totalVars variables), using the standard
// leaf-to-root weighted count that accounts for skipped "don't care"
// levels between a node and its children.
func (m *Manager) SatisfyCount(node *Node, totalVars int) int64 {
	memo := map[int]int64{}
	var count func(n *Node, level int) int64
	count = func(n *Node, level int) int64 {
		if n.IsZero() {
			return 0
		}
		if n.IsOne() {
			return 1 << uint(totalVars-level+1)
		}
		if v, ok := memo[n.ID]; ok {
			return v << uint(n.Var.Level-level)
		}
		c := count(n.high, n.Var.Level+1) + count(n.low, n.Var.Level+1)
		memo[n.ID] = c
		return c << uint(n.Var.Level-level)
	}
	return count(node, 1)
}

// Satisfy returns one satisfying assignment of node as level -> phase,
// or nil if node is the false leaf. Unconstrained variables are omitted.
func (m *Manager) Satisfy(node *Node) map[int]bool {
	if node.IsZero() {
		return nil
	}
	assignment := map[int]bool{}
	n := node
	for !n.IsLeaf() {
		if !n.high.IsZero() {
			assignment[n.Var.Level] = true
			n = n.high
		} else {
			assignment[n.Var.Level] = false
			n = n.low
		}
	}
	return assignment
}

// SatisfyStrings renders Satisfy's assignment as DIMACS-style signed
// literal strings ("1", "-2", ...), one per assigned variable, sorted by
// level, using each level's declared Variable.ID as the literal number.
func (m *Manager) SatisfyStrings(node *Node) []string {
	assignment := m.Satisfy(node)
	if assignment == nil {
		return nil
	}
	levels := make([]int, 0, len(assignment))
	for lvl := range assignment {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	out := make([]string, 0, len(levels))
	for _, lvl := range levels {
		v := m.VariableAt(lvl)
		if assignment[lvl] {
			out = append(out, strconv.Itoa(v.ID))
		} else {
			out = append(out, strconv.Itoa(-v.ID))
		}
	}
	return out
}

// Package bdd implements a reduced ordered binary decision diagram engine
// whose every internal node carries a resolution-proof justification: the
// manager doesn't just build BDDs, it proves each one equivalent to the
// CNF clause it was built from, via the resolver package, and registers
// every clause it needs with a prover.Prover.
package bdd

import (
	"fmt"
	"sort"

	"github.com/xDarkicex/pgbdd/prover"
	"github.com/xDarkicex/pgbdd/resolver"
)

type uniqueKey struct {
	level, highID, lowID int
}

type pairKey struct{ a, b int }

type justifyEntry struct {
	result  *Node
	justID  int
	clauses []int
}

// Manager owns the unique table (hash-consing every internal node by
// (level, high.id, low.id)), the apply operation caches, and the two
// resolution-proof builders wired to the shared Prover.
type Manager struct {
	Prover *prover.Prover

	variables []Variable
	byName    map[string]Variable
	leaf0     *Node
	leaf1     *Node

	firstNodeID int
	nextNodeID  int
	unique      map[uniqueKey]*Node

	andJustifyCache map[pairKey]justifyEntry
	andCache        map[pairKey]*Node
	notCache        map[int]*Node
	orCache         map[pairKey]*Node
	xorCache        map[pairKey]*Node
	equantCache     map[pairKey]*Node // key.b holds the variable level
	implyCache      map[pairKey]justifyEntry

	andResolver   *resolver.AndResolver
	implyResolver *resolver.ImplyResolver

	Verbosity int

	// Garbage collection bookkeeping, see gc.go.
	quantifiedSinceGC int
	gcThreshold       int
	gcCount           int64
	nodesCollected    int64
	rootGenerator     func() []*Node

	maxLiveNodeCount int
}

// New creates a Manager whose internal node ids start at firstNodeID (the
// caller is expected to pass nvars+1, leaving the low ids for CNF
// variables themselves) and that registers justification clauses with p.
func New(p *prover.Prover, firstNodeID int, gcThreshold int) *Manager {
	m := &Manager{
		Prover:          p,
		byName:          make(map[string]Variable),
		firstNodeID:     firstNodeID,
		nextNodeID:      firstNodeID,
		unique:          make(map[uniqueKey]*Node),
		andJustifyCache: make(map[pairKey]justifyEntry),
		andCache:        make(map[pairKey]*Node),
		notCache:        make(map[int]*Node),
		orCache:         make(map[pairKey]*Node),
		xorCache:        make(map[pairKey]*Node),
		equantCache:     make(map[pairKey]*Node),
		implyCache:      make(map[pairKey]justifyEntry),
		andResolver:     resolver.NewAndResolver(p),
		implyResolver:   resolver.NewImplyResolver(p),
		gcThreshold:     gcThreshold,
	}
	m.leaf0 = &Node{ID: -resolver.TautologyID, Var: Variable{Level: LeafLevel}, isLeaf: true, leafValue: 0}
	m.leaf1 = &Node{ID: resolver.TautologyID, Var: Variable{Level: LeafLevel}, isLeaf: true, leafValue: 1}
	return m
}

// Leaf0 returns the constant-false BDD.
func (m *Manager) Leaf0() *Node { return m.leaf0 }

// Leaf1 returns the constant-true BDD.
func (m *Manager) Leaf1() *Node { return m.leaf1 }

// SetRootGenerator registers the callback the manager calls during
// CollectGarbage to learn which nodes are currently reachable from live
// terms (the Solver Driver's live register set). Without one, GC never
// collects anything, since nothing is known to be garbage.
func (m *Manager) SetRootGenerator(f func() []*Node) { m.rootGenerator = f }

// NewVariable allocates the next CNF variable in level order. level and id
// coincide here: the manager's own variable order is the identity
// permutation unless the caller applies one before construction (the solver
// package's Permuter does this by choosing which DIMACS variable becomes
// level k).
func (m *Manager) NewVariable(name string) Variable {
	level := len(m.variables) + 1
	v := Variable{Level: level, ID: level, Name: name}
	m.variables = append(m.variables, v)
	if name != "" {
		m.byName[name] = v
	}
	return v
}

// VariableAt returns the variable at the given level, added via
// NewVariable.
func (m *Manager) VariableAt(level int) Variable {
	return m.variables[level-1]
}

// VariableCount reports how many real variables the manager has allocated.
func (m *Manager) VariableCount() int { return len(m.variables) }

// Literal returns the two-node BDD representing the variable v taken
// positively (phase=true) or negated (phase=false).
func (m *Manager) Literal(v Variable, phase bool) *Node {
	if phase {
		return m.findOrMake(v, m.leaf1, m.leaf0, true)
	}
	return m.findOrMake(v, m.leaf0, m.leaf1, true)
}

// findOrMake is the unique table: it returns the existing node for
// (v, high, low) if one exists, applies the reduction rule when high and
// low are the same node, or else mints a fresh node id and, if justify is
// set, writes its four ITE-axiom clauses to the prover.
func (m *Manager) findOrMake(v Variable, high, low *Node, justify bool) *Node {
	if high.ID == low.ID {
		return high
	}
	key := uniqueKey{level: v.Level, highID: high.ID, lowID: low.ID}
	if n, ok := m.unique[key]; ok {
		return n
	}
	n := &Node{ID: m.nextNodeID, Var: v, high: high, low: low}
	m.nextNodeID++
	m.unique[key] = n
	if len(m.unique) > m.maxLiveNodeCount {
		m.maxLiveNodeCount = len(m.unique)
	}
	if justify && m.Prover != nil {
		comment := fmt.Sprintf("ITE axioms for node %d", n.ID)
		n.InferTrueUp = m.Prover.CreateClause([]int{-n.ID, -v.ID, high.ID}, nil, comment)
		n.InferFalseUp = m.Prover.CreateClause([]int{-n.ID, v.ID, low.ID}, nil, "")

		// Under LRAT, the two "down" clauses are implied by the two "up"
		// clauses (each Up clause's negation is a unit antecedent), so they
		// cite them; tracecheck has no use for real antecedents here and
		// gets none, matching VariableNode.__init__'s prover.doLrat guard
		// in the reference solver.
		var downAntecedents []int
		if m.Prover.IsLRAT() {
			if n.InferTrueUp != resolver.TautologyID {
				downAntecedents = append(downAntecedents, -n.InferTrueUp)
			}
			if n.InferFalseUp != resolver.TautologyID {
				downAntecedents = append(downAntecedents, -n.InferFalseUp)
			}
		}
		n.InferTrueDown = m.Prover.CreateClause([]int{n.ID, -v.ID, -high.ID}, downAntecedents, "")
		n.InferFalseDown = m.Prover.CreateClause([]int{n.ID, v.ID, -low.ID}, downAntecedents, "")
	} else {
		n.InferTrueUp = resolver.TautologyID
		n.InferFalseUp = resolver.TautologyID
		n.InferTrueDown = resolver.TautologyID
		n.InferFalseDown = resolver.TautologyID
	}
	return n
}

// Summarize reports node and proof production statistics, mirroring the
// reference solver's end-of-run summary.
func (m *Manager) Summarize() string {
	andRuns, andSteps := m.andResolver.Summarize()
	implyRuns, implySteps := m.implyResolver.Summarize()
	return fmt.Sprintf(
		"Nodes created: %d\nMax live nodes: %d\nGarbage collections: %d\nNodes collected: %d\nAnd-justify calls: %d (clauses: %d)\nImply-justify calls: %d (clauses: %d)\n",
		m.nextNodeID-m.firstNodeID, m.maxLiveNodeCount, m.gcCount, m.nodesCollected, andRuns, andSteps, implyRuns, implySteps)
}

// sortedInts is a small helper used by support/size walks that need stable
// output for tests and for the -v diagnostic dump.
func sortedInts(s map[int]bool) []int {
	out := make([]int, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

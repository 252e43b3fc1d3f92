package bdd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/pgbdd/prover"
)

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func newTestManager(t *testing.T, nvars int) (*Manager, []Variable) {
	t.Helper()
	p := prover.New(nopCloser{&bytes.Buffer{}}, prover.Tracecheck, false)
	m := New(p, nvars+1, 0)
	vars := make([]Variable, nvars)
	for i := 0; i < nvars; i++ {
		vars[i] = m.NewVariable("")
	}
	return m, vars
}

func newLRATTestManager(t *testing.T, nvars int) (*Manager, []Variable) {
	t.Helper()
	p := prover.New(nopCloser{&bytes.Buffer{}}, prover.LRATText, false)
	m := New(p, nvars+1, 0)
	vars := make([]Variable, nvars)
	for i := 0; i < nvars; i++ {
		vars[i] = m.NewVariable("")
	}
	return m, vars
}

func TestLiteralAndReductionRule(t *testing.T) {
	m, vars := newTestManager(t, 1)
	pos := m.Literal(vars[0], true)
	neg := m.Literal(vars[0], false)
	require.False(t, pos.IsLeaf())
	require.False(t, neg.IsLeaf())

	// ite(v, 1, 1) reduces directly to the true leaf.
	same := m.findOrMake(vars[0], m.leaf1, m.leaf1, false)
	assert.True(t, same.IsOne())
}

func TestApplyAndOrNotTruthTable(t *testing.T) {
	m, vars := newTestManager(t, 2)
	a := m.Literal(vars[0], true)
	b := m.Literal(vars[1], true)

	and := m.ApplyAnd(a, b)
	or := m.ApplyOr(a, b)
	not := m.ApplyNot(a)

	// a=1,b=1: and=1, or=1
	assert.True(t, and.BranchHigh(vars[0]).BranchHigh(vars[1]).IsOne())
	assert.True(t, or.BranchHigh(vars[0]).BranchHigh(vars[1]).IsOne())
	// a=0,b=0: and=0, or=0
	assert.True(t, and.BranchLow(vars[0]).BranchLow(vars[1]).IsZero())
	assert.True(t, or.BranchLow(vars[0]).BranchLow(vars[1]).IsZero())
	// not(a) at a=1 is 0, at a=0 is 1
	assert.True(t, not.BranchHigh(vars[0]).IsZero())
	assert.True(t, not.BranchLow(vars[0]).IsOne())
}

func TestApplyXorMatchesTruthTable(t *testing.T) {
	m, vars := newTestManager(t, 2)
	a := m.Literal(vars[0], true)
	b := m.Literal(vars[1], true)
	xor := m.ApplyXor(a, b)

	assert.True(t, xor.BranchHigh(vars[0]).BranchHigh(vars[1]).IsZero())  // 1^1=0
	assert.True(t, xor.BranchHigh(vars[0]).BranchLow(vars[1]).IsOne())    // 1^0=1
	assert.True(t, xor.BranchLow(vars[0]).BranchHigh(vars[1]).IsOne())    // 0^1=1
	assert.True(t, xor.BranchLow(vars[0]).BranchLow(vars[1]).IsZero())    // 0^0=0
}

func TestCheckImply(t *testing.T) {
	m, vars := newTestManager(t, 2)
	a := m.Literal(vars[0], true)
	and := m.ApplyAnd(a, m.Literal(vars[1], true))

	assert.True(t, m.CheckImply(and, a))  // a&b => a
	assert.False(t, m.CheckImply(a, and)) // a does not imply a&b
}

func TestApplyAndJustifyProducesClauseAndAgreesWithApplyAnd(t *testing.T) {
	m, vars := newTestManager(t, 2)
	a := m.Literal(vars[0], true)
	b := m.Literal(vars[1], true)

	structural := m.ApplyAnd(a, b)
	justified, justID := m.ApplyAndJustify(a, b)

	assert.Equal(t, structural.ID, justified.ID)
	assert.NotEqual(t, 0, justID)
}

func TestBuildClauseMatchesDisjunction(t *testing.T) {
	m, vars := newTestManager(t, 3)
	clauseID := m.Prover.CreateInputClause([]int{vars[0].ID, -vars[1].ID}, "")
	node, validation := m.BuildClause([]int{vars[0].ID, -vars[1].ID}, clauseID, true)
	assert.NotEqual(t, 0, validation)

	// (x1 or not x2): false only when x1=0 and x2=1.
	assert.True(t, node.BranchLow(vars[0]).BranchHigh(vars[1]).IsZero())
	assert.True(t, node.BranchHigh(vars[0]).BranchHigh(vars[1]).IsOne())
	assert.True(t, node.BranchLow(vars[0]).BranchLow(vars[1]).IsOne())
}

func TestGetSupportAndSize(t *testing.T) {
	m, vars := newTestManager(t, 2)
	and := m.ApplyAnd(m.Literal(vars[0], true), m.Literal(vars[1], true))
	assert.Equal(t, []int{1, 2}, m.GetSupport(and))
	assert.Equal(t, 2, m.GetSize(and))
}

func TestCollectGarbageRemovesUnreachableNodes(t *testing.T) {
	m, vars := newTestManager(t, 2)
	live := m.Literal(vars[0], true)
	_ = m.Literal(vars[1], true) // becomes unreachable once not in any root

	m.SetRootGenerator(func() []*Node { return []*Node{live} })
	before := len(m.unique)
	m.CollectGarbage()
	assert.Less(t, len(m.unique), before)
	assert.Contains(t, m.unique, uniqueKey{live.Var.Level, live.high.ID, live.low.ID})
}

func TestFindOrMakeCitesUpClausesAsDownAntecedentsUnderLRAT(t *testing.T) {
	m, vars := newLRATTestManager(t, 2)
	hi := m.Literal(vars[1], true)
	lo := m.Literal(vars[1], false)
	n := m.findOrMake(vars[0], hi, lo, true)

	// Neither child is a leaf, so no ITE clause of n cites a leaf id (which
	// CleanClause would turn into the tautology sentinel): both Up clauses
	// are real and must show up, negated, as antecedents of both Down clauses.
	assert.Equal(t, []int{-n.InferTrueUp, -n.InferFalseUp}, m.Prover.Antecedents(n.InferTrueDown))
	assert.Equal(t, []int{-n.InferTrueUp, -n.InferFalseUp}, m.Prover.Antecedents(n.InferFalseDown))
}

func TestFindOrMakePassesNoAntecedentsUnderTracecheck(t *testing.T) {
	m, vars := newTestManager(t, 1)
	n := m.Literal(vars[0], true)

	assert.Empty(t, m.Prover.Antecedents(n.InferTrueDown))
	assert.Empty(t, m.Prover.Antecedents(n.InferFalseDown))
}

func TestSatisfyAndCount(t *testing.T) {
	m, vars := newTestManager(t, 2)
	and := m.ApplyAnd(m.Literal(vars[0], true), m.Literal(vars[1], true))
	assignment := m.Satisfy(and)
	require.NotNil(t, assignment)
	assert.True(t, assignment[1])
	assert.True(t, assignment[2])
	assert.Equal(t, int64(1), m.SatisfyCount(and, 2))

	assert.Nil(t, m.Satisfy(m.leaf0))
}

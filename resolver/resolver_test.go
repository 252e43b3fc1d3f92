package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProver is a minimal Prover that mints sequential ids and records the
// literals/antecedents it was given, so tests can assert on what the
// resolver actually derived.
type fakeProver struct {
	next    int
	clauses map[int][]int
}

func newFakeProver(start int) *fakeProver {
	return &fakeProver{next: start, clauses: map[int][]int{}}
}

func (p *fakeProver) CreateClause(literals []int, antecedents []int, comment string) int {
	cleaned := CleanClause(literals)
	if IsTautology(cleaned) {
		return TautologyID
	}
	p.next++
	p.clauses[p.next] = cleaned
	return p.next
}

func TestCleanClauseDedupAndTautology(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, CleanClause([]int{1, 2, 3, 2, 1}))
	assert.True(t, IsTautology(CleanClause([]int{1, -1, 2})))
	assert.False(t, IsTautology(CleanClause([]int{1, 2})))
}

func TestAndResolverFullLadder(t *testing.T) {
	// A node with id 10, var v=5, Ah=11, Al=12 (A genuinely branches).
	// B node with id 20, Bh=21, Bl=22 (B genuinely branches).
	// New node W=30, Wh=31, Wl=32 (a fresh node is created).
	p := newFakeProver(100)
	rules := RuleSet{
		"UHD":  {ID: 1, Literal: []int{-10, -5, 11}},
		"ULD":  {ID: 2, Literal: []int{-10, 5, 12}},
		"VHD":  {ID: 3, Literal: []int{-20, -5, 21}},
		"VLD":  {ID: 4, Literal: []int{-20, 5, 22}},
		"ANDH": {ID: 5, Literal: []int{-11, -21, 31}},
		"ANDL": {ID: 6, Literal: []int{-12, -22, 32}},
		"WHU":  {ID: 7, Literal: []int{30, -5, -31}},
		"WLU":  {ID: 8, Literal: []int{30, 5, -32}},
	}
	pivots := AndPivots{HighA: 11, HighB: 21, NewHigh: 31, LowA: 12, LowB: 22, NewLow: 32, Split: 5}
	target := CleanClause([]int{-10, -20, 30})

	r := NewAndResolver(p)
	final, created := r.Run(target, rules, pivots, "test and")

	require.NotEqual(t, TautologyID, final)
	require.Contains(t, p.clauses, final)
	assert.ElementsMatch(t, []int{-10, -20, 30}, p.clauses[final])
	assert.NotEmpty(t, created)
	runs, steps := r.Summarize()
	assert.Equal(t, int64(1), runs)
	assert.Equal(t, int64(len(created)), steps)
}

func TestAndResolverNonBranchingOperand(t *testing.T) {
	// A does not branch at the split variable: Ah == Al == A itself (id 10),
	// so UHD/ULD are never populated by the manager.
	p := newFakeProver(100)
	rules := RuleSet{
		"VHD":  {ID: 3, Literal: []int{-20, -5, 21}},
		"VLD":  {ID: 4, Literal: []int{-20, 5, 22}},
		"ANDH": {ID: 5, Literal: []int{-10, -21, 31}},
		"ANDL": {ID: 6, Literal: []int{-10, -22, 32}},
		"WHU":  {ID: 7, Literal: []int{30, -5, -31}},
		"WLU":  {ID: 8, Literal: []int{30, 5, -32}},
	}
	pivots := AndPivots{HighB: 21, NewHigh: 31, LowB: 22, NewLow: 32, Split: 5}
	target := CleanClause([]int{-10, -20, 30})

	r := NewAndResolver(p)
	final, _ := r.Run(target, rules, pivots, "test and, non-branching A")
	require.NotEqual(t, TautologyID, final)
	assert.ElementsMatch(t, []int{-10, -20, 30}, p.clauses[final])
}

func TestAndResolverTautologyTargetSkipsEverything(t *testing.T) {
	p := newFakeProver(100)
	r := NewAndResolver(p)
	target := CleanClause([]int{-10, 10})
	final, created := r.Run(target, RuleSet{}, AndPivots{}, "tautological and")
	assert.Equal(t, TautologyID, final)
	assert.Nil(t, created)
	assert.Empty(t, p.clauses)
}

func TestImplyResolverFullLadder(t *testing.T) {
	// A=10 branches (Ah=11,Al=12), B=20 branches (Bh=21,Bl=22).
	p := newFakeProver(200)
	rules := RuleSet{
		"UHD": {ID: 1, Literal: []int{-10, -5, 11}},
		"ULD": {ID: 2, Literal: []int{-10, 5, 12}},
		"VHU": {ID: 3, Literal: []int{20, -5, -21}},
		"VLU": {ID: 4, Literal: []int{20, 5, -22}},
		"IMH": {ID: 5, Literal: []int{-11, 21}},
		"IML": {ID: 6, Literal: []int{-12, 22}},
	}
	pivots := ImplyPivots{HighA: 11, HighB: 21, LowA: 12, LowB: 22, Split: 5}
	target := CleanClause([]int{-10, 20})

	r := NewImplyResolver(p)
	final, created := r.Run(target, rules, pivots, "test imply")
	require.NotEqual(t, TautologyID, final)
	assert.ElementsMatch(t, []int{-10, 20}, p.clauses[final])
	assert.NotEmpty(t, created)
}

func TestImplyResolverTautologyTarget(t *testing.T) {
	p := newFakeProver(200)
	r := NewImplyResolver(p)
	final, created := r.Run(CleanClause([]int{-10, 10}), RuleSet{}, ImplyPivots{}, "")
	assert.Equal(t, TautologyID, final)
	assert.Nil(t, created)
}

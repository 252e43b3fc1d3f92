package prover

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/pgbdd/codec"
	"github.com/xDarkicex/pgbdd/resolver"
)

type buf struct{ *bytes.Buffer }

func (buf) Close() error { return nil }

func newBuf() buf { return buf{&bytes.Buffer{}} }

func TestTracecheckSortsAntecedentsAndKeepsInputs(t *testing.T) {
	out := newBuf()
	p := New(out, Tracecheck, true, WithVerbosity(2))
	id1 := p.CreateInputClause([]int{1, 2}, "input")
	id2 := p.CreateClause([]int{3}, []int{5, 1, 3}, "derived")
	require.Equal(t, 1, id1)
	require.Equal(t, 2, id2)
	text := out.String()
	assert.Contains(t, text, "1 1 2 0 0")
	assert.Contains(t, text, "2 3 0 1 3 5 0") // antecedents sorted ascending
	assert.Contains(t, text, "c input")
}

func TestLRATTextRecordsInputsAsCommentsOnly(t *testing.T) {
	out := newBuf()
	p := New(out, LRATText, true, WithVerbosity(2))
	p.CreateInputClause([]int{1, 2}, "input clause 1")
	id2 := p.CreateClause([]int{3}, []int{3, 1, 5}, "derived") // unsorted, LRAT order preserved
	text := out.String()
	assert.NotContains(t, text, "\n1 1 2 0 0\n")
	assert.Contains(t, text, strings.TrimSpace("2 3 0 3 1 5 0"))
	_ = id2
}

func TestDeletionSuppressedInTracecheckEmittedInLRAT(t *testing.T) {
	tc := newBuf()
	ptc := New(tc, Tracecheck, true)
	id := ptc.CreateClause([]int{1}, nil, "")
	ptc.DeleteClauses([]int{id})
	assert.NotContains(t, tc.String(), " d ")

	lr := newBuf()
	plr := New(lr, LRATText, true)
	id2 := plr.CreateClause([]int{1}, nil, "")
	plr.DeleteClauses([]int{id2})
	assert.Contains(t, lr.String(), " d ")
}

func TestTautologyDoesNotConsumeId(t *testing.T) {
	out := newBuf()
	p := New(out, Tracecheck, true)
	id1 := p.CreateClause([]int{1}, nil, "")
	tid := p.CreateClause([]int{2, -2}, nil, "")
	id2 := p.CreateClause([]int{3}, nil, "")
	assert.Equal(t, resolver.TautologyID, tid)
	assert.Equal(t, id1+1, id2)
}

func TestBinaryRoundTripsThroughCodec(t *testing.T) {
	out := newBuf()
	p := New(out, LRATBinary, true)
	p.CreateClause([]int{1, -2}, []int{}, "")
	p.CreateClause([]int{3}, []int{1}, "")
	decoded := codec.DecodeInts(out.Bytes())
	assert.Equal(t, []int{1, int('a'), 1, -2, 0, 0, 2, int('a'), 3, 0, 1, 0}, decoded)
}

func TestSummarizeCounts(t *testing.T) {
	out := newBuf()
	p := New(out, Tracecheck, true)
	p.CreateInputClause([]int{1}, "")
	p.CreateInputClause([]int{2}, "")
	p.InputDone()
	p.CreateClause([]int{3}, []int{1, 2}, "")
	s := p.Summarize()
	assert.Contains(t, s, "Total Clauses: 3")
	assert.Contains(t, s, "Input clauses: 2")
	assert.Contains(t, s, "Added clauses requiring proofs: 1")
}

package bdd

import (
	"fmt"

	"github.com/xDarkicex/pgbdd/resolver"
)

// Node is a single vertex of a reduced ordered BDD. It is a tagged union
// (leaf/internal) rather than a class hierarchy: Go has no inheritance, and
// the two cases share enough fields that a single struct with an isLeaf
// flag reads more plainly than an interface with two implementations.
type Node struct {
	// ID is the literal this node stands for in emitted clauses. For a
	// leaf it is the tautology sentinel (positive for the true leaf,
	// negative for the false leaf, matching the "UNSAT proved by deriving
	// the empty clause from -TautologyID" convention); for an internal
	// node it is a small sequential integer assigned by the Manager.
	ID  int
	Var Variable

	isLeaf    bool
	leafValue int // 0 or 1, meaningful only when isLeaf

	high, low *Node

	// Clause ids of the four ITE-axiom unit implications this node
	// contributes to the proof, valid only for internal nodes:
	//   InferTrueUp:    (-node -var  high)
	//   InferFalseUp:   (-node  var  low)
	//   InferTrueDown:  ( node -var -high)
	//   InferFalseDown: ( node  var -low)
	InferTrueUp, InferFalseUp, InferTrueDown, InferFalseDown int
}

// IsLeaf reports whether n is one of the two constant leaves.
func (n *Node) IsLeaf() bool { return n.isLeaf }

// IsZero reports whether n is the constant-false leaf.
func (n *Node) IsZero() bool { return n.isLeaf && n.leafValue == 0 }

// IsOne reports whether n is the constant-true leaf.
func (n *Node) IsOne() bool { return n.isLeaf && n.leafValue == 1 }

// High returns the cofactor taken with the node's own variable true. Only
// valid for internal nodes.
func (n *Node) High() *Node { return n.high }

// Low returns the cofactor taken with the node's own variable false. Only
// valid for internal nodes.
func (n *Node) Low() *Node { return n.low }

func (n *Node) String() string {
	if n.isLeaf {
		return fmt.Sprintf("leaf(%d)", n.leafValue)
	}
	return fmt.Sprintf("node(id=%d, var=%s)", n.ID, n.Var)
}

// InvariantError reports a violation of a BDD structural invariant: a
// cofactor requested at a variable above the node's own position, or a
// unique-table collision that should have been prevented by findOrMake.
// These indicate an engine or caller bug rather than a malformed input, so
// they are raised as panics carrying this type; nothing in this package
// recovers them.
type InvariantError struct {
	Op      string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("bdd invariant violation in %s: %s", e.Op, e.Message)
}

func invariantf(op, format string, args ...interface{}) {
	panic(&InvariantError{Op: op, Message: fmt.Sprintf(format, args...)})
}

// branch returns the high (wantHigh=true) or low cofactor of n with
// respect to v. Leaves cofactor to themselves. A node whose own variable
// is strictly past v (sorts after it) also cofactors to itself: it simply
// doesn't depend on v yet. A node whose variable sorts strictly before v
// cannot be asked to cofactor on v at all -- this is the invariant
// violation case, since every caller is expected to only ever cofactor on
// min(a.Var, b.Var) over the pair currently being combined.
func (n *Node) branch(v Variable, wantHigh bool) *Node {
	if n.Var.Less(v) {
		invariantf("branch", "node at level %d cannot branch on variable at level %d", n.Var.Level, v.Level)
	}
	if n.isLeaf {
		return n
	}
	if n.Var == v {
		if wantHigh {
			return n.high
		}
		return n.low
	}
	return n
}

// BranchHigh cofactors n with v assigned true.
func (n *Node) BranchHigh(v Variable) *Node { return n.branch(v, true) }

// BranchLow cofactors n with v assigned false.
func (n *Node) BranchLow(v Variable) *Node { return n.branch(v, false) }

// The four ITE-axiom rules below reconstruct the clausal content of a
// node's defining implications on demand from its fields, rather than
// caching the literal slices: the pattern is fixed, so recomputing it is
// cheaper and can't drift from the node's actual id, variable, and
// children.

func (n *Node) inferTrueUpRule() resolver.Rule {
	return resolver.Rule{ID: n.InferTrueUp, Literal: []int{-n.ID, -n.Var.ID, n.high.ID}}
}

func (n *Node) inferFalseUpRule() resolver.Rule {
	return resolver.Rule{ID: n.InferFalseUp, Literal: []int{-n.ID, n.Var.ID, n.low.ID}}
}

func (n *Node) inferTrueDownRule() resolver.Rule {
	return resolver.Rule{ID: n.InferTrueDown, Literal: []int{n.ID, -n.Var.ID, -n.high.ID}}
}

func (n *Node) inferFalseDownRule() resolver.Rule {
	return resolver.Rule{ID: n.InferFalseDown, Literal: []int{n.ID, n.Var.ID, -n.low.ID}}
}

// restoreUnit reinterprets a prover unit-clause literal that may be the
// tautology sentinel used by leaf nodes back into the []int form
// resolver.CleanClause expects, namely the empty clause for -TautologyID.
func restoreUnit(lit int) []int {
	if lit == -resolver.TautologyID {
		return nil
	}
	return []int{lit}
}

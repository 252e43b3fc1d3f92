// Package term wraps a BDD node with the resolution clause that proves it
// equivalent to (or implied by) the set of input clauses it was built
// from, so the solver driver can combine and quantify terms together
// while keeping a continuous chain of antecedents back to the CNF.
package term

import (
	"github.com/xDarkicex/pgbdd/bdd"
	"github.com/xDarkicex/pgbdd/resolver"
)

// Term is one node of the elimination algebra: a BDD together with the
// clause id of the unit clause asserting its root's id as a literal.
type Term struct {
	manager    *bdd.Manager
	Root       *bdd.Node
	Validation int
}

// FromClause builds the Term for a single input clause, registered under
// clauseID.
func FromClause(m *bdd.Manager, literals []int, clauseID int) *Term {
	root, validation := m.BuildClause(literals, clauseID, true)
	return &Term{manager: m, Root: root, Validation: validation}
}

// Manager returns the BDD manager the term was built against, for callers
// that need to inspect or further combine its root directly.
func (t *Term) Manager() *bdd.Manager { return t.manager }

func rule(id int, literal []int) resolver.Rule {
	return resolver.Rule{ID: id, Literal: literal}
}

// Combine conjoins t and other, returning a new Term whose Validation
// proves the combined root's id, resolved from t's and other's own
// validations against the AND-justification clause.
func (t *Term) Combine(other *Term) *Term {
	newRoot, andJust := t.manager.ApplyAndJustify(t.Root, other.Root)
	if newRoot.IsOne() {
		return &Term{manager: t.manager, Root: newRoot, Validation: resolver.TautologyID}
	}

	tRule := rule(t.Validation, []int{t.Root.ID})
	oRule := rule(other.Validation, []int{other.Root.ID})
	andRule := rule(andJust, resolver.CleanClause([]int{-t.Root.ID, -other.Root.ID, newRoot.ID}))

	step := resolver.Resolve(t.manager.Prover, tRule, andRule, t.Root.ID, "combine terms")
	final := resolver.Resolve(t.manager.Prover, oRule, step, other.Root.ID, "combine terms")

	return &Term{manager: t.manager, Root: newRoot, Validation: final.ID}
}

// Quantify existentially removes v from t, carrying the validation proof
// through the (always sound) implication from the old root to the new
// one.
func (t *Term) Quantify(v bdd.Variable) *Term {
	newRoot, implyJust := t.manager.QuantifyJustify(t.Root, v)
	if newRoot.ID == t.Root.ID {
		return t
	}
	if newRoot.IsOne() {
		return &Term{manager: t.manager, Root: newRoot, Validation: resolver.TautologyID}
	}

	tRule := rule(t.Validation, []int{t.Root.ID})
	implyRule := rule(implyJust, resolver.CleanClause([]int{-t.Root.ID, newRoot.ID}))
	final := resolver.Resolve(t.manager.Prover, tRule, implyRule, t.Root.ID, "quantify term")

	return &Term{manager: t.manager, Root: newRoot, Validation: final.ID}
}

// EqualityTest reports whether t and other have the same BDD root, the
// canonical-form test for logical equivalence: two terms are equivalent
// iff reduction produced the identical node.
func (t *Term) EqualityTest(other *Term) bool {
	return t.Root.ID == other.Root.ID
}

// IsFalse reports whether the term has collapsed to the false leaf,
// meaning the clauses combined into it are jointly unsatisfiable.
func (t *Term) IsFalse() bool { return t.Root.IsZero() }

// IsTrue reports whether the term has collapsed to the true leaf.
func (t *Term) IsTrue() bool { return t.Root.IsOne() }

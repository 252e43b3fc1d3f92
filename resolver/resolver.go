// Package resolver builds resolution-style justifications for BDD apply
// operations. It knows nothing about BDD nodes; it only combines clauses
// (sets of signed literals) over a pivot literal and registers the results
// with a Prover.
package resolver

import "math"

// TautologyID is the sentinel clause id meaning "this clause is a
// tautology and was never registered with the prover". It is a large
// value distinguishable from any real clause id.
const TautologyID = math.MaxInt32

// Prover is the subset of prover.Prover the resolver needs: it can mint a
// new clause from a set of literals and a set of antecedent clause ids.
type Prover interface {
	CreateClause(literals []int, antecedents []int, comment string) int
}

// CleanClause removes duplicate literals and detects tautologies (a clause
// containing both a literal and its negation). A tautological clause is
// reported as []int{TautologyID} so callers can test with IsTautology.
//
// The true leaf's id doubles as the tautology sentinel, so a literal equal
// to +TautologyID (the constant "true" is asserted true) makes the whole
// clause trivially satisfied, and a literal equal to -TautologyID (the
// constant "true" is asserted false) can never hold and is dropped as if
// it were never there.
func CleanClause(literals []int) []int {
	seen := make(map[int]bool, len(literals))
	out := make([]int, 0, len(literals))
	for _, lit := range literals {
		if lit == TautologyID {
			return []int{TautologyID}
		}
		if lit == -TautologyID {
			continue
		}
		if seen[-lit] {
			return []int{TautologyID}
		}
		if seen[lit] {
			continue
		}
		seen[lit] = true
		out = append(out, lit)
	}
	return out
}

// IsTautology reports whether a cleaned clause is the tautology sentinel.
func IsTautology(clause []int) bool {
	return len(clause) == 1 && clause[0] == TautologyID
}

// Rule pairs a named antecedent clause's id with its literal content. The
// resolver needs the literal content to pick the correct pivot at each
// resolution step; the id is what gets threaded through as an antecedent.
type Rule struct {
	ID      int
	Literal []int
}

// RuleSet is the mapping from short rule names (e.g. "UHD", "ANDH") to the
// antecedent clauses a client has assembled for one resolution run. Names
// absent from the set are treated as "not applicable" (the corresponding
// resolution step is skipped, see AndResolver/ImplyResolver).
type RuleSet map[string]Rule

// database accumulates clauses created while resolving a single target, so
// every clause id minted in the course of a run can be reported back (for
// eventual GC deletion) alongside the final justification id.
type database struct {
	prover  Prover
	created []int
}

// resolve drops pivot from a and -pivot from b, unions what's left
// (deduplicated, tautology-checked), and registers the result with the
// prover. Tautology elision: if either side is already the sentinel, the
// other side passes through unchanged and no new clause is created.
func (d *database) resolve(a, b Rule, pivot int, comment string) Rule {
	if a.ID == TautologyID {
		return b
	}
	if b.ID == TautologyID {
		return a
	}
	merged := getLiteralSlice(len(a.Literal) + len(b.Literal))
	for _, l := range a.Literal {
		if l != pivot {
			merged = append(merged, l)
		}
	}
	for _, l := range b.Literal {
		if l != -pivot {
			merged = append(merged, l)
		}
	}
	cleaned := CleanClause(merged)
	putLiteralSlice(merged)
	if IsTautology(cleaned) {
		return Rule{ID: TautologyID}
	}
	id := d.prover.CreateClause(cleaned, []int{a.ID, b.ID}, comment)
	d.created = append(d.created, id)
	return Rule{ID: id, Literal: cleaned}
}

// Resolve is a standalone single-step resolution, for callers (the term
// package's combine/quantify) that only ever need one or two pivot
// eliminations and so have no use for AndResolver/ImplyResolver's fixed
// ladders.
func Resolve(prover Prover, a, b Rule, pivot int, comment string) Rule {
	d := &database{prover: prover}
	return d.resolve(a, b, pivot, comment)
}

// tautology is the pass-through Rule used when a named antecedent was
// never populated (its branch doesn't apply at this node).
var tautology = Rule{ID: TautologyID}

func lookup(rules RuleSet, name string) Rule {
	if r, ok := rules[name]; ok {
		return r
	}
	return tautology
}

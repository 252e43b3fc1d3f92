package resolver

// ImplyPivots names the node ids used as pivot literals while resolving
// an implication justification (nodeA ==> nodeB).
type ImplyPivots struct {
	HighA, HighB int
	LowA, LowB   int
	Split        int
}

// ImplyResolver derives the resolution proof that nodeA ==> nodeB from the
// recursive per-cofactor implication justifications (IMH, IML) and the
// operand nodes' ITE axioms (UHD/ULD from A, VHU/VLU from B).
type ImplyResolver struct {
	prover Prover
	runs   int64
	steps  int64
}

// NewImplyResolver creates an ImplyResolver that registers intermediate
// clauses with prover.
func NewImplyResolver(prover Prover) *ImplyResolver {
	return &ImplyResolver{prover: prover}
}

// Run resolves target (expected to be the cleaned clause
// (-nodeA.id, nodeB.id)) from rules, returning the id of the clause
// proving it and the ids of every intermediate clause created.
func (r *ImplyResolver) Run(target []int, rules RuleSet, pivots ImplyPivots, comment string) (int, []int) {
	r.runs++
	if IsTautology(target) {
		return TautologyID, nil
	}

	d := &database{prover: r.prover}

	highChain := lookup(rules, "IMH")
	if u, ok := rules["UHD"]; ok {
		highChain = d.resolve(u, highChain, pivots.HighA, comment)
	}
	if v, ok := rules["VHU"]; ok {
		highChain = d.resolve(highChain, v, pivots.HighB, comment)
	}

	lowChain := lookup(rules, "IML")
	if u, ok := rules["ULD"]; ok {
		lowChain = d.resolve(u, lowChain, pivots.LowA, comment)
	}
	if v, ok := rules["VLU"]; ok {
		lowChain = d.resolve(lowChain, v, pivots.LowB, comment)
	}

	final := d.resolve(lowChain, highChain, pivots.Split, comment)
	r.steps += int64(len(d.created))
	if final.ID == TautologyID {
		return TautologyID, d.created
	}
	return final.ID, d.created
}

// Summarize reports the resolver's lifetime activity.
func (r *ImplyResolver) Summarize() (runs, clausesCreated int64) {
	return r.runs, r.steps
}

package resolver

// AndPivots names the BDD node ids used as pivot literals while resolving
// an AND-justification. Each pivot only matters when the corresponding
// optional rule (UHD/VHD/WHU, ULD/VLD/WLU) is present in the RuleSet
// supplied to Run; when a rule is absent its pivot is ignored.
type AndPivots struct {
	HighA, HighB, NewHigh int
	LowA, LowB, NewLow    int
	Split                 int
}

// AndResolver derives the resolution proof that nodeA & nodeB ==> newNode,
// walking the fixed ladder described in the BDD package's applyAndJustify:
// eliminate the high-cofactor node ids first (UHD, VHD, WHU), then the
// low-cofactor ids (ULD, VLD, WLU), then merge across the split variable.
type AndResolver struct {
	prover Prover
	runs   int64
	steps  int64
}

// NewAndResolver creates an AndResolver that registers intermediate
// clauses with prover.
func NewAndResolver(prover Prover) *AndResolver {
	return &AndResolver{prover: prover}
}

// Run resolves target (expected to be the cleaned clause
// (-nodeA.id, -nodeB.id, newNode.id)) from rules, returning the id of the
// clause proving it and the ids of every intermediate clause created along
// the way (for later GC bookkeeping). If target is already a tautology,
// Run returns (TautologyID, nil) without registering anything.
func (r *AndResolver) Run(target []int, rules RuleSet, pivots AndPivots, comment string) (int, []int) {
	r.runs++
	if IsTautology(target) {
		return TautologyID, nil
	}

	d := &database{prover: r.prover}

	highChain := lookup(rules, "ANDH")
	if u, ok := rules["UHD"]; ok {
		highChain = d.resolve(u, highChain, pivots.HighA, comment)
	}
	if v, ok := rules["VHD"]; ok {
		highChain = d.resolve(v, highChain, pivots.HighB, comment)
	}
	if w, ok := rules["WHU"]; ok {
		highChain = d.resolve(highChain, w, pivots.NewHigh, comment)
	}

	lowChain := lookup(rules, "ANDL")
	if u, ok := rules["ULD"]; ok {
		lowChain = d.resolve(u, lowChain, pivots.LowA, comment)
	}
	if v, ok := rules["VLD"]; ok {
		lowChain = d.resolve(v, lowChain, pivots.LowB, comment)
	}
	if w, ok := rules["WLU"]; ok {
		lowChain = d.resolve(lowChain, w, pivots.NewLow, comment)
	}

	final := d.resolve(lowChain, highChain, pivots.Split, comment)
	r.steps += int64(len(d.created))
	if final.ID == TautologyID {
		return TautologyID, d.created
	}
	return final.ID, d.created
}

// Summarize reports the resolver's lifetime activity.
func (r *AndResolver) Summarize() (runs, clausesCreated int64) {
	return r.runs, r.steps
}

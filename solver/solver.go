package solver

import (
	"fmt"
	"sort"

	"github.com/xDarkicex/pgbdd/bdd"
	"github.com/xDarkicex/pgbdd/logging"
	"github.com/xDarkicex/pgbdd/term"
)

// Solver drives proof-generating CNF satisfiability checking: it owns the
// input terms (one BDD per CNF clause), the schedule-machine's stack and
// registers, and the bucket-elimination state, all built on a shared
// bdd.Manager so every combine/quantify step is justified.
type Solver struct {
	Manager  *bdd.Manager
	Permuter *Permuter
	Logger   *logging.Logger

	terms     []*term.Term
	registers map[string]*term.Term
	stack     []*term.Term
	buckets   map[int][]*term.Term

	stackWarnings int
}

// NewSolver creates a Solver over an already-constructed Manager and
// Permuter. logger may be nil, in which case warnings are discarded.
func NewSolver(m *bdd.Manager, p *Permuter, logger *logging.Logger) *Solver {
	s := &Solver{
		Manager:   m,
		Permuter:  p,
		Logger:    logger,
		registers: make(map[string]*term.Term),
		buckets:   make(map[int][]*term.Term),
	}
	m.SetRootGenerator(s.liveRoots)
	return s
}

func (s *Solver) warn(format string, args ...interface{}) {
	s.stackWarnings++
	if s.Logger != nil {
		s.Logger.Warn(format, args...)
	}
}

// liveRoots reports every node currently reachable from solver state, for
// the manager's garbage collector.
func (s *Solver) liveRoots() []*bdd.Node {
	var roots []*bdd.Node
	for _, t := range s.terms {
		if t != nil {
			roots = append(roots, t.Root)
		}
	}
	for _, t := range s.registers {
		roots = append(roots, t.Root)
	}
	for _, t := range s.stack {
		roots = append(roots, t.Root)
	}
	for _, bucket := range s.buckets {
		for _, t := range bucket {
			roots = append(roots, t.Root)
		}
	}
	return roots
}

// LoadCNF registers every clause with the prover (in external variable
// numbering, so the proof's preamble lines up with the original DIMACS
// file) and builds its Term (in permuted/internal numbering).
func (s *Solver) LoadCNF(cnf *CNF) error {
	for i := 0; i < cnf.VarCount; i++ {
		s.Manager.NewVariable("")
	}
	s.terms = make([]*term.Term, len(cnf.Clauses))
	for i, clause := range cnf.Clauses {
		clauseID := s.Manager.Prover.CreateInputClause(clause, "")
		permuted := s.Permuter.Permute(clause)
		s.terms[i] = term.FromClause(s.Manager, permuted, clauseID)
	}
	s.Manager.Prover.InputDone()
	return nil
}

// RunNoSchedule implements the simplest strategy named in the schedule
// surface: combine every clause term into one accumulator in input order,
// then quantify out every variable in level order. It is the baseline
// every other strategy should agree with on small instances.
func (s *Solver) RunNoSchedule() (*term.Term, error) {
	if len(s.terms) == 0 {
		return nil, &Error{"RunNoSchedule", "no clauses loaded"}
	}
	acc := s.terms[0]
	for _, t := range s.terms[1:] {
		acc = acc.Combine(t)
		s.Manager.CheckGC()
		if acc.IsFalse() {
			return acc, nil
		}
	}
	for level := 1; level <= s.Manager.VariableCount(); level++ {
		acc = acc.Quantify(s.Manager.VariableAt(level))
		s.Manager.CheckGC()
	}
	return acc, nil
}

// RunBucketSchedule implements bucket elimination: every term starts in
// the bucket of the lowest-level variable in its support (placeInBucket);
// buckets are processed in level order, combining everything placed in a
// bucket, quantifying out that bucket's variable, and re-placing the
// result in the bucket of its new lowest support variable (or keeping it
// as the running result once no variables remain).
func (s *Solver) RunBucketSchedule() (*term.Term, error) {
	for _, t := range s.terms {
		s.placeInBucket(t)
	}

	var result *term.Term
	for level := 1; level <= s.Manager.VariableCount(); level++ {
		bucket := s.buckets[level]
		delete(s.buckets, level)
		if len(bucket) == 0 {
			continue
		}
		acc := bucket[0]
		for _, t := range bucket[1:] {
			acc = acc.Combine(t)
			if acc.IsFalse() {
				return acc, nil
			}
		}
		acc = acc.Quantify(s.Manager.VariableAt(level))
		s.Manager.CheckGC()
		s.placeInBucket(acc)
	}

	for _, remaining := range s.buckets {
		for _, t := range remaining {
			if result == nil {
				result = t
			} else {
				result = result.Combine(t)
			}
		}
	}
	if result == nil {
		return nil, &Error{"RunBucketSchedule", "no clauses loaded"}
	}
	return result, nil
}

// placeInBucket files t under the lowest level in its current support, or
// treats it as fully eliminated (stored back into the bucket map under
// level 0) once its support is empty.
func (s *Solver) placeInBucket(t *term.Term) {
	support := s.Manager.GetSupport(t.Root)
	level := 0
	if len(support) > 0 {
		level = support[0]
	}
	s.buckets[level] = append(s.buckets[level], t)
}

// RunSchedule drives the explicit stack machine described by sched,
// following the command set: 'c' pushes input terms by id, 'a' conjoins the
// top n+1 entries, 'q' quantifies a list of variables out of the top
// entry, 's'/'r'/'d' manage named GC-protected registers, 'e' reports an
// equality test between the top two entries, and 'i' reports a diagnostic
// about the top entry. There is no explicit halt opcode: the run ends when
// the instruction stream is exhausted, or immediately if a combine ever
// produces the zero leaf. A stack underflow on 'a', 'q', 's', or 'e', or a
// reference to an unset register on 'r', is a recoverable warning: the
// instruction is skipped and the run continues, matching the reference
// scheduler's tolerance for slightly malformed hand-written schedules.
func (s *Solver) RunSchedule(sched Schedule) (*term.Term, error) {
	for _, cmd := range sched {
		switch cmd.Op {
		case 'c':
			for _, id := range cmd.Ints {
				t, ok := s.termByID(id)
				if !ok {
					s.warn("schedule: 'c' referenced unknown term id %d", id)
					continue
				}
				s.stack = append(s.stack, t)
			}

		case 'a':
			n := cmd.Ints[0]
			if len(s.stack) < n+1 {
				s.warn("schedule: 'a %d' needs %d terms on the stack, found %d", n, n+1, len(s.stack))
				continue
			}
			popped := make([]*term.Term, n+1)
			for i := n; i >= 0; i-- {
				popped[i] = s.pop()
			}
			acc := popped[0]
			for _, t := range popped[1:] {
				acc = acc.Combine(t)
				if acc.IsFalse() {
					return acc, nil
				}
			}
			s.stack = append(s.stack, acc)

		case 'q':
			if len(s.stack) < 1 {
				s.warn("schedule: 'q' needs 1 term on the stack, found 0")
				continue
			}
			t := s.pop()
			for _, extID := range cmd.Ints {
				level := s.Permuter.Forward(extID)
				t = t.Quantify(s.Manager.VariableAt(level))
			}
			s.stack = append(s.stack, t)
			s.Manager.CheckGC()

		case 's':
			if len(s.stack) < 1 {
				s.warn("schedule: 's' needs 1 term on the stack, found 0")
				continue
			}
			s.registers[cmd.Name] = s.stack[len(s.stack)-1]

		case 'r':
			t, ok := s.registers[cmd.Name]
			if !ok {
				s.warn("schedule: 'r' referenced unset register %q", cmd.Name)
				continue
			}
			s.stack = append(s.stack, t)

		case 'd':
			delete(s.registers, cmd.Name)

		case 'e':
			if len(s.stack) < 2 {
				s.warn("schedule: 'e' needs 2 terms on the stack, found %d", len(s.stack))
				continue
			}
			b := s.pop()
			a := s.pop()
			if s.Logger != nil {
				s.Logger.Info("schedule: equality test %v", a.EqualityTest(b))
			}

		case 'i':
			if len(s.stack) < 1 {
				s.warn("schedule: 'i' needs 1 term on the stack, found 0")
				continue
			}
			top := s.stack[len(s.stack)-1]
			if s.Logger != nil {
				s.Logger.Info("schedule: %s node=%d size=%d", cmd.Name, top.Root.ID, s.Manager.GetSize(top.Root))
			}
		}
	}
	return s.finish()
}

// termByID resolves a schedule's 1-based term id, as assigned to input
// clauses during LoadCNF, to its Term.
func (s *Solver) termByID(id int) (*term.Term, bool) {
	if id < 1 || id > len(s.terms) {
		return nil, false
	}
	return s.terms[id-1], true
}

func (s *Solver) finish() (*term.Term, error) {
	if len(s.stack) != 1 {
		s.warn("schedule finished with stack depth %d, expected 1", len(s.stack))
	}
	if len(s.stack) == 0 {
		return nil, &Error{"RunSchedule", "schedule produced no result"}
	}
	return s.stack[len(s.stack)-1], nil
}

func (s *Solver) pop() *term.Term {
	n := len(s.stack) - 1
	t := s.stack[n]
	s.stack = s.stack[:n]
	return t
}

// StackWarnings reports how many recoverable schedule anomalies RunSchedule
// has logged since the Solver was created.
func (s *Solver) StackWarnings() int { return s.stackWarnings }

// Result describes the decision procedure's outcome in human terms.
type Result struct {
	Satisfiable bool
	Assignment  []string
}

// Decide interprets a finished Term as SAT/UNSAT and, if satisfiable,
// extracts one satisfying assignment over the original (external)
// variable numbering.
func (s *Solver) Decide(t *term.Term) Result {
	if t.IsFalse() {
		return Result{Satisfiable: false}
	}
	assignment := s.Manager.Satisfy(t.Root)
	levels := make([]int, 0, len(assignment))
	for lvl := range assignment {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	strs := make([]string, 0, len(levels))
	for _, lvl := range levels {
		ext := s.Permuter.Reverse(lvl)
		if assignment[lvl] {
			strs = append(strs, fmt.Sprintf("%d", ext))
		} else {
			strs = append(strs, fmt.Sprintf("-%d", ext))
		}
	}
	return Result{Satisfiable: true, Assignment: strs}
}

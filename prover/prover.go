// Package prover owns the proof output stream: it allocates monotonically
// increasing clause ids and writes clauses and deletion records in one of
// three formats (text tracecheck, text LRAT, binary LRAT).
package prover

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/xDarkicex/pgbdd/codec"
	"github.com/xDarkicex/pgbdd/resolver"
)

// Format selects the on-disk/on-stream shape of the proof.
type Format int

const (
	// Tracecheck is the text format with sorted antecedents and no
	// deletion records.
	Tracecheck Format = iota
	// LRATText is the text LRAT format: antecedents in emission order,
	// explicit deletion records, input clauses recorded only as comments.
	LRATText
	// LRATBinary is LRATText's field sequence, varint-zigzag encoded.
	LRATBinary
)

// Error reports a Prover construction or IO failure (spec's "Prover IO
// error", fatal).
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("prover error in %s: %s", e.Op, e.Message)
}

// Sink receives diagnostic comments and, in binary mode, accepts no
// comments at all (the format has no room for them).
type Sink interface {
	io.Writer
}

// Prover owns the clause id counter, the live-clause dictionary, and the
// output stream. Verbosity controls whether comments are written at all.
type Prover struct {
	format      Format
	out         io.WriteCloser
	ownsOut     bool
	comments    Sink
	verbosity   int
	doLrat      bool
	doBinary    bool
	clauseSeq   int
	inputCount  int
	proofCount  int
	clauses     map[int][]int
	antecedents map[int][]int
}

// Option configures a Prover at construction time.
type Option func(*Prover)

// WithVerbosity sets the comment/statistics verbosity level (spec's -v).
func WithVerbosity(level int) Option {
	return func(p *Prover) { p.verbosity = level }
}

// WithCommentSink redirects comment lines away from the proof stream
// itself (used when piping the proof to stdout). Binary LRAT writes no
// comments at all, so in that format the sink receives nothing.
func WithCommentSink(sink Sink) Option {
	return func(p *Prover) { p.comments = sink }
}

// New creates a Prover writing to out in the given format. ownsOut
// indicates out should be Close()d when the Prover is closed (a real file,
// as opposed to stdout).
func New(out io.WriteCloser, format Format, ownsOut bool, opts ...Option) *Prover {
	p := &Prover{
		format:      format,
		out:         out,
		ownsOut:     ownsOut,
		doLrat:      format != Tracecheck,
		doBinary:    format == LRATBinary,
		clauses:     make(map[int][]int),
		antecedents: make(map[int][]int),
	}
	p.comments = out
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewNull creates a Prover that discards its output entirely, used by
// BDD-only tests and by Manager instances that don't want a live proof
// stream (the port of the reference's DummyProver).
func NewNull() *Prover {
	return New(nopWriteCloser{io.Discard}, Tracecheck, false)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// FileOutput reports whether the proof is going to a real, caller-owned
// file (as opposed to being discarded or going to stdout).
func (p *Prover) FileOutput() bool { return p.ownsOut }

// IsLRAT reports whether the proof format requires LRAT-style antecedents
// (as opposed to tracecheck, where antecedents are cosmetic and sorted).
// Callers that derive one clause's antecedents from another's id, such as
// the BDD manager's ITE-axiom clauses, consult this before bothering to
// compute them.
func (p *Prover) IsLRAT() bool { return p.doLrat }

// InputDone marks the end of CNF ingestion; clause ids created before this
// call are counted as input clauses in Summarize.
func (p *Prover) InputDone() { p.inputCount = p.clauseSeq }

// Comment writes a diagnostic comment line if verbosity allows and the
// format has room for one (binary has none).
func (p *Prover) Comment(comment string) {
	if comment == "" || p.verbosity <= 1 || p.doBinary {
		return
	}
	fmt.Fprintf(p.comments, "c %s\n", comment)
}

// CreateClause cleans literals, and if they are not tautological, mints a
// new clause id, records it, and writes it to the proof stream. A
// tautological clause is reported as resolver.TautologyID without
// consuming an id.
func (p *Prover) CreateClause(literals []int, antecedents []int, comment string) int {
	return p.createClause(literals, antecedents, comment, false)
}

// CreateInputClause registers one of the CNF's original clauses. In LRAT
// modes the clause is recorded only as a comment (LRAT's preamble is the
// CNF itself, so inputs are not re-emitted as additions); in tracecheck
// mode it is written exactly like any other clause.
func (p *Prover) CreateInputClause(literals []int, comment string) int {
	return p.createClause(literals, nil, comment, true)
}

func (p *Prover) createClause(literals []int, antecedents []int, comment string, isInput bool) int {
	p.Comment(comment)
	cleaned := resolver.CleanClause(literals)
	if resolver.IsTautology(cleaned) {
		return resolver.TautologyID
	}
	p.clauseSeq++
	id := p.clauseSeq
	ants := append([]int(nil), antecedents...)
	if !p.doLrat {
		sort.Ints(ants)
	}
	if len(ants) > 0 {
		p.proofCount++
	}

	if isInput && p.doLrat {
		p.Comment(formatClauseLine(id, cleaned, ants))
	} else {
		p.writeAddition(id, cleaned, ants)
	}

	p.clauses[id] = cleaned
	p.antecedents[id] = ants
	return id
}

// Literals returns the literal content registered under id, for callers
// (the resolver) that need to inspect a previously created clause.
func (p *Prover) Literals(id int) []int { return p.clauses[id] }

// Antecedents returns the antecedent clause ids registered under id, in the
// order they were supplied to CreateClause (sorted ascending in tracecheck
// mode, emission order in LRAT modes). Returns nil for a clause created
// with no antecedents.
func (p *Prover) Antecedents(id int) []int { return p.antecedents[id] }

func (p *Prover) writeAddition(id int, literals []int, antecedents []int) {
	if p.doBinary {
		fields := make([]int, 0, len(literals)+len(antecedents)+3)
		fields = append(fields, id, int('a'))
		fields = append(fields, literals...)
		fields = append(fields, 0)
		fields = append(fields, antecedents...)
		fields = append(fields, 0)
		p.out.Write(codec.EncodeInts(fields))
		return
	}
	fmt.Fprintln(p.out, formatClauseLine(id, literals, antecedents))
}

func formatClauseLine(id int, literals []int, antecedents []int) string {
	parts := make([]string, 0, len(literals)+len(antecedents)+3)
	parts = append(parts, strconv.Itoa(id))
	for _, l := range literals {
		parts = append(parts, strconv.Itoa(l))
	}
	parts = append(parts, "0")
	for _, a := range antecedents {
		parts = append(parts, strconv.Itoa(a))
	}
	parts = append(parts, "0")
	return strings.Join(parts, " ")
}

// DeleteClauses removes ids from the live-clause dictionary and, in LRAT
// modes, writes a deletion record. Tracecheck mode silently discards
// deletions (the format has no deletion record).
func (p *Prover) DeleteClauses(ids []int) {
	for _, id := range ids {
		delete(p.clauses, id)
		delete(p.antecedents, id)
	}
	if !p.doLrat || len(ids) == 0 {
		return
	}
	if p.doBinary {
		fields := make([]int, 0, len(ids)+3)
		fields = append(fields, p.clauseSeq, int('d'))
		fields = append(fields, ids...)
		fields = append(fields, 0)
		p.out.Write(codec.EncodeInts(fields))
		return
	}
	parts := make([]string, 0, len(ids)+3)
	parts = append(parts, strconv.Itoa(p.clauseSeq), "d")
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	parts = append(parts, "0")
	fmt.Fprintln(p.out, strings.Join(parts, " "))
}

// Summarize reports clause-production statistics, shown at verbosity >= 1.
func (p *Prover) Summarize() string {
	added := p.clauseSeq - p.inputCount - p.proofCount
	return fmt.Sprintf(
		"Total Clauses: %d\nInput clauses: %d\nAdded clauses without antecedents: %d\nAdded clauses requiring proofs: %d\n",
		p.clauseSeq, p.inputCount, added, p.proofCount)
}

// Close releases the underlying stream if the Prover owns it.
func (p *Prover) Close() error {
	if !p.ownsOut {
		return nil
	}
	if err := p.out.Close(); err != nil {
		return errors.Wrap(err, "closing proof output")
	}
	return nil
}

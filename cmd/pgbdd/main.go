// Command pgbdd reads a DIMACS CNF file, decides its satisfiability with
// reduced ordered binary decision diagrams, and emits a checkable
// resolution proof.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xDarkicex/pgbdd/bdd"
	"github.com/xDarkicex/pgbdd/logging"
	"github.com/xDarkicex/pgbdd/prover"
	"github.com/xDarkicex/pgbdd/solver"
)

var (
	flagVerbosity   int
	flagInput       string
	flagOutput      string
	flagPermutation string
	flagSchedule    string
	flagBucket      bool
	flagStdoutMode  string
	flagLogPath     string
)

var rootCmd = &cobra.Command{
	Use:   "pgbdd [cnf file]",
	Short: "Proof-generating BDD-based SAT solver",
	Long: `pgbdd decides the satisfiability of a DIMACS CNF file by conjoining and
quantifying reduced ordered binary decision diagrams (in input order by
default, by bucket elimination with -b, or as a schedule file directs with
-s), emitting a
resolution proof (tracecheck or LRAT, text or binary) that an external
checker can verify independently of this program.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	flags.IntVarP(&flagVerbosity, "verbose", "v", 1, "verbosity level")
	flags.StringVarP(&flagInput, "input", "i", "", "input CNF file (default: stdin)")
	flags.StringVarP(&flagOutput, "output", "o", "", "proof output file (format inferred from extension: .proof, .lrat, .lratb)")
	flags.StringVarP(&flagPermutation, "permutation", "p", "", "variable permutation file")
	flags.StringVarP(&flagSchedule, "schedule", "s", "", "explicit schedule file")
	flags.BoolVarP(&flagBucket, "bucket", "b", false, "use the built-in bucket-elimination strategy instead of a schedule file")
	flags.StringVarP(&flagStdoutMode, "mode", "m", "", "proof format when piping to stdout: t(racecheck), b(inary lrat), p(lain lrat text)")
	flags.StringVarP(&flagLogPath, "log", "L", "", "append diagnostics to this file in addition to stderr")
}

var exitCode int

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		flagInput = args[0]
	}

	logger, err := logging.New(flagLogPath)
	if err != nil {
		return err
	}
	defer logger.Close()

	start := time.Now()

	in := os.Stdin
	if flagInput != "" {
		f, err := os.Open(flagInput)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	cnf, err := solver.ReadCNF(in)
	if err != nil {
		return err
	}

	p, err := buildProver(logger)
	if err != nil {
		return err
	}
	defer p.Close()

	m := bdd.New(p, cnf.VarCount+1, 10000)

	var perm *solver.Permuter
	if flagPermutation != "" {
		f, err := os.Open(flagPermutation)
		if err != nil {
			return fmt.Errorf("opening permutation file: %w", err)
		}
		defer f.Close()
		perm, err = solver.ReadPermutation(f, cnf.VarCount)
		if err != nil {
			return err
		}
	} else {
		perm = solver.NewIdentityPermuter(cnf.VarCount)
	}

	s := solver.NewSolver(m, perm, logger)
	if err := s.LoadCNF(cnf); err != nil {
		return err
	}

	decision, err := decide(s)
	if err != nil {
		return err
	}

	if decision.Satisfiable {
		fmt.Println("SATISFIABLE")
		if len(decision.Assignment) > 0 {
			fmt.Println(strings.Join(decision.Assignment, " "))
		}
	} else {
		fmt.Println("UNSATISFIABLE")
	}

	if flagVerbosity >= 1 {
		logger.Info("elapsed: %s", time.Since(start))
		logger.Info(m.Summarize())
		logger.Info(p.Summarize())
	}
	if decision.Satisfiable {
		exitCode = 10
	} else {
		exitCode = 20
	}
	return nil
}

// decide runs whichever strategy the flags selected and interprets the
// result.
func decide(s *solver.Solver) (solver.Result, error) {
	switch {
	case flagSchedule != "":
		f, err := os.Open(flagSchedule)
		if err != nil {
			return solver.Result{}, fmt.Errorf("opening schedule file: %w", err)
		}
		defer f.Close()
		sched, err := solver.ReadSchedule(f)
		if err != nil {
			return solver.Result{}, err
		}
		t, err := s.RunSchedule(sched)
		if err != nil {
			return solver.Result{}, err
		}
		return s.Decide(t), nil
	case flagBucket:
		t, err := s.RunBucketSchedule()
		if err != nil {
			return solver.Result{}, err
		}
		return s.Decide(t), nil
	default:
		t, err := s.RunNoSchedule()
		if err != nil {
			return solver.Result{}, err
		}
		return s.Decide(t), nil
	}
}

// buildProver picks a proof Format from -o's extension, or from -m when
// piping to stdout, defaulting to a discarded null prover when neither is
// given.
func buildProver(logger *logging.Logger) (*prover.Prover, error) {
	if flagOutput != "" {
		format, err := formatFromExtension(flagOutput)
		if err != nil {
			return nil, err
		}
		f, err := os.Create(flagOutput)
		if err != nil {
			return nil, fmt.Errorf("creating proof output: %w", err)
		}
		return prover.New(f, format, true, prover.WithVerbosity(flagVerbosity)), nil
	}
	if flagStdoutMode != "" {
		format, err := formatFromMode(flagStdoutMode)
		if err != nil {
			return nil, err
		}
		return prover.New(nopCloser{os.Stdout}, format, false,
			prover.WithVerbosity(flagVerbosity), prover.WithCommentSink(logger)), nil
	}
	return prover.NewNull(), nil
}

type nopCloser struct{ *os.File }

func (nopCloser) Close() error { return nil }

func formatFromExtension(path string) (prover.Format, error) {
	switch filepath.Ext(path) {
	case ".proof":
		return prover.Tracecheck, nil
	case ".lrat":
		return prover.LRATText, nil
	case ".lratb":
		return prover.LRATBinary, nil
	default:
		return 0, fmt.Errorf("unrecognized proof extension %q (want .proof, .lrat, or .lratb)", filepath.Ext(path))
	}
}

func formatFromMode(mode string) (prover.Format, error) {
	switch mode {
	case "t":
		return prover.Tracecheck, nil
	case "b":
		return prover.LRATBinary, nil
	case "p":
		return prover.LRATText, nil
	default:
		return 0, fmt.Errorf("unrecognized -m mode %q (want t, b, or p)", mode)
	}
}

package ilp

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/internal/exec"
)

// timeLimitSeconds bounds one solver invocation.
const timeLimitSeconds = 3600

// SolverError reports an external MIP solver failure. The solver's output
// is carried verbatim; callers never retry.
type SolverError struct {
	Output string
	Err    error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("mip solver failed: %v\n%s", e.Err, e.Output)
}

func (e *SolverError) Unwrap() error {
	return e.Err
}

// Binding locates and invokes the external MIP solver binary.
type Binding struct {
	// Runner executes the solver process.
	Runner exec.CommandRunner
	// SolverPath overrides binary discovery when non-empty.
	SolverPath string
}

// NewBinding creates a binding with the default process runner.
func NewBinding(solverPath string) Binding {
	return Binding{Runner: exec.NewRunner(), SolverPath: solverPath}
}

// binary resolves the gurobi_cl executable: explicit path first, then
// $GUROBI_HOME/bin, then PATH.
func (b Binding) binary() (string, error) {
	if b.SolverPath != "" {
		return b.SolverPath, nil
	}
	if home := os.Getenv("GUROBI_HOME"); home != "" {
		return filepath.Join(home, "bin", "gurobi_cl"), nil
	}
	path, err := b.Runner.LookPath("gurobi_cl")
	if err != nil {
		return "", fmt.Errorf("locate mip solver: %w", err)
	}
	return path, nil
}

// Available reports whether the external solver binary can be located,
// letting the bench runner skip the ILP formulations gracefully.
func (b Binding) Available() bool {
	path, err := b.binary()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// solve writes the model to a scratch LP file, runs the solver and parses
// the solution file back into a variable map.
func (b Binding) solve(ctx context.Context, m *model) (map[string]float64, error) {
	binary, err := b.binary()
	if err != nil {
		return nil, err
	}

	scratch := filepath.Join(os.TempDir(), "cspc-"+uuid.NewString())
	modelPath := scratch + ".lp"
	solutionPath := scratch + ".sol"
	defer os.Remove(modelPath)
	defer os.Remove(solutionPath)

	file, err := os.Create(modelPath)
	if err != nil {
		return nil, fmt.Errorf("write model: %w", err)
	}
	if err := m.writeLP(file); err != nil {
		file.Close()
		return nil, fmt.Errorf("write model: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("write model: %w", err)
	}

	args := []string{
		fmt.Sprintf("TimeLimit=%d", timeLimitSeconds),
		"LogToConsole=0",
		"ResultFile=" + solutionPath,
		modelPath,
	}
	output, err := b.Runner.Run(ctx, "", binary, args...)
	if err != nil {
		return nil, &SolverError{Output: string(output), Err: err}
	}

	solution, err := parseSolution(solutionPath)
	if err != nil {
		return nil, &SolverError{Output: string(output), Err: err}
	}
	return solution, nil
}

// parseSolution reads a solver .sol file: one "name value" pair per line,
// comments starting with '#'.
func parseSolution(path string) (map[string]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read solution: %w", err)
	}
	defer file.Close()

	solution := make(map[string]float64)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("read solution: malformed line %q", line)
		}
		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("read solution: %w", err)
		}
		solution[fields[0]] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read solution: %w", err)
	}
	return solution, nil
}

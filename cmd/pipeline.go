package cmd

import (
	"errors"
	"fmt"
	"io/ioutil"
	"kiln/config"
	"kiln/demos"
	"kiln/generate"
	"kiln/interp"
	"kiln/logging"
	"kiln/verify"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/llir/llvm/ir"
)

// lowerCorpus checks and lowers the demo corpus into a fresh module
func lowerCorpus() (*ir.Module, bool) {
	logging.BeginPhase("Lowering")

	mod, err := generate.Generate(demos.Program())
	if err != nil {
		logging.LogEmitError("Check", err.Error())
		return nil, false
	}

	logging.EndPhase(true)
	return mod, true
}

// verifyModule runs the structural IR checks and logs every problem found
func verifyModule(mod *ir.Module) bool {
	logging.BeginPhase("Verifying")

	if err := verify.Module(mod); err != nil {
		var verr *verify.Error
		if errors.As(err, &verr) {
			for _, problem := range verr.Problems {
				logging.LogEmitError("Verify", fmt.Sprintf("@%s: %s", verr.Func, problem))
			}
		} else {
			logging.LogEmitError("Verify", err.Error())
		}

		return false
	}

	logging.EndPhase(true)
	return true
}

// emitProject lowers the corpus for a project and writes the IR text to the
// output path of its profile
func emitProject(proj *config.Project) bool {
	target := proj.Profile.TargetTriple
	if target == "" {
		target = "host"
	}
	logging.ReportHeader(target)

	outputPath := proj.ResolveOutputPath()
	success := func() bool {
		mod, ok := lowerCorpus()
		if !ok {
			return false
		}

		mod.TargetTriple = proj.Profile.TargetTriple

		if proj.Profile.Verify && !verifyModule(mod) {
			return false
		}

		logging.BeginPhase("Writing")
		if err := writeModule(mod, outputPath); err != nil {
			logging.LogEmitError("Output", err.Error())
			return false
		}

		logging.EndPhase(true)
		return true
	}()

	logging.ReportFinished(outputPath)
	return success && logging.ShouldProceed()
}

// writeModule writes the textual LLVM IR of a module to a file, creating the
// enclosing directory as necessary
func writeModule(mod *ir.Module, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	if err := ioutil.WriteFile(outputPath, []byte(mod.String()), 0644); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

// runFunction lowers the corpus and evaluates a single function
func runFunction(funcName string, args []int64) bool {
	mod, ok := lowerCorpus()
	if !ok {
		return false
	}

	result, err := interp.Run(mod, funcName, args...)
	if err != nil {
		logging.PrintErrorMessage("Evaluation Error", err)
		return false
	}

	logging.PrintInfoMessage("Result", strconv.FormatInt(result, 10))
	return true
}

// checkCorpus lowers and verifies the corpus and then evaluates every case
// against its expected result
func checkCorpus() bool {
	logging.ReportHeader("host")

	success := func() bool {
		mod, ok := lowerCorpus()
		if !ok || !verifyModule(mod) {
			return false
		}

		logging.BeginPhase("Evaluating")
		for _, c := range demos.Cases {
			if msg := evalCase(mod, c); msg != "" {
				logging.LogEmitError("Eval", msg)
			}
		}

		if logging.ShouldProceed() {
			logging.EndPhase(true)
		}

		return logging.ShouldProceed()
	}()

	logging.ReportFinished("")
	return success
}

// evalCase evaluates a single corpus case and returns a description of the
// mismatch if there is one
func evalCase(mod *ir.Module, c demos.Case) string {
	call := fmt.Sprintf("%s(%s)", c.Func, formatIntArgs(c.Args))
	result, err := interp.Run(mod, c.Func, c.Args...)

	var trap *interp.TrapError
	switch {
	case c.Trap && errors.As(err, &trap):
		return ""
	case c.Trap && err == nil:
		return fmt.Sprintf("%s returned %d; expected a trap", call, result)
	case err != nil:
		return fmt.Sprintf("%s: %s", call, err.Error())
	case result != c.Want:
		return fmt.Sprintf("%s returned %d; expected %d", call, result, c.Want)
	}

	return ""
}

// -----------------------------------------------------------------------------

// parseIntArgs parses a comma separated list of integers
func parseIntArgs(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	fields := strings.Split(s, ",")
	args := make([]int64, len(fields))
	for i, field := range fields {
		x, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid argument `%s`: must be an integer", field)
		}

		args[i] = x
	}

	return args, nil
}

// formatIntArgs formats arguments the way parseIntArgs reads them
func formatIntArgs(args []int64) string {
	strs := make([]string, len(args))
	for i, arg := range args {
		strs[i] = strconv.FormatInt(arg, 10)
	}

	return strings.Join(strs, ", ")
}

package cmd

import (
	"kiln/common"
	"kiln/config"
	"kiln/logging"
	"os"
	"path/filepath"

	"github.com/ComedicChimera/olive"
)

// Execute runs the main `kiln` application
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("kiln", "kiln lowers structured control flow into LLVM IR", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	emitCmd := cli.AddSubcommand("emit", "lower the demo corpus and write LLVM IR", true)
	emitCmd.AddPrimaryArg("project-path", "the path to the project directory", false)
	emitCmd.AddStringArg("profile", "p", "the name of the profile to emit with", false)
	emitCmd.AddStringArg("output", "o", "the output path (overrides the profile)", false)
	emitCmd.AddFlag("watch", "w", "re-emit whenever the project file changes")

	runCmd := cli.AddSubcommand("run", "lower the demo corpus and evaluate one function", true)
	runCmd.AddPrimaryArg("function", "the name of the function to evaluate", true)
	runCmd.AddStringArg("args", "a", "comma separated integer arguments", false)

	cli.AddSubcommand("check", "lower, verify and evaluate the demo corpus", false)

	initCmd := cli.AddSubcommand("init", "create a project file", true)
	initCmd.AddPrimaryArg("project-name", "the name of the project", true)
	initCmd.AddFlag("no-profiles", "np", "indicates whether kiln should generate default profiles for this project")

	cli.AddSubcommand("version", "print the kiln version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return
	}

	// any internal compiler error past this point is fatal
	defer logging.HandleICE()

	logging.Initialize(result.Arguments["loglevel"].(string))

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "emit":
		execEmitCommand(subResult, result.Arguments["loglevel"].(string))
	case "run":
		execRunCommand(subResult)
	case "check":
		execCheckCommand()
	case "init":
		execInitCommand(subResult)
	case "version":
		logging.PrintInfoMessage("Kiln Version", common.KilnVersion)
	}
}

// execEmitCommand executes the emit subcommand and handles all errors
func execEmitCommand(result *olive.ArgParseResult, loglevel string) {
	projectPath, err := resolveProjectPath(result)
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return
	}

	profileName := stringArg(result, "profile")
	outputOverride := stringArg(result, "output")

	emit := func() bool {
		proj, err := config.Load(projectPath, profileName)
		if err != nil {
			logging.PrintErrorMessage("Project Load Error", err)
			return false
		}

		if outputOverride != "" {
			proj.Profile.OutputPath = outputOverride
		}

		return emitProject(proj)
	}

	if !emit() && !result.HasFlag("watch") {
		os.Exit(1)
	}

	if result.HasFlag("watch") {
		if err := watchProject(projectPath, func() {
			// each re-emission starts with a fresh error count
			logging.Initialize(loglevel)
			emit()
		}); err != nil {
			logging.PrintErrorMessage("Watch Error", err)
		}
	}
}

// execRunCommand executes the run subcommand
func execRunCommand(result *olive.ArgParseResult) {
	funcName, _ := result.PrimaryArg()

	args, err := parseIntArgs(stringArg(result, "args"))
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return
	}

	if !runFunction(funcName, args) {
		os.Exit(1)
	}
}

// execCheckCommand executes the check subcommand
func execCheckCommand() {
	if !checkCorpus() {
		os.Exit(1)
	}
}

// execInitCommand executes the init subcommand
func execInitCommand(result *olive.ArgParseResult) {
	workDir, err := os.Getwd()
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return
	}

	projName, _ := result.PrimaryArg()
	if err := config.InitProject(projName, workDir, result.HasFlag("no-profiles")); err != nil {
		logging.PrintErrorMessage("Project Init Error", err)
	}
}

// -----------------------------------------------------------------------------

// resolveProjectPath determines the project directory: the primary argument
// if one is given, otherwise the nearest enclosing directory of the working
// directory holding a project file (or the working directory itself).
func resolveProjectPath(result *olive.ArgParseResult) (string, error) {
	if relPath, ok := result.PrimaryArg(); ok {
		return filepath.Abs(relPath)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	if root, ok := config.FindProjectRoot(workDir); ok {
		return root, nil
	}

	return workDir, nil
}

// stringArg returns the value of an optional string argument
func stringArg(result *olive.ArgParseResult, name string) string {
	if argVal, ok := result.Arguments[name]; ok {
		return argVal.(string)
	}

	return ""
}

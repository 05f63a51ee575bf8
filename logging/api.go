package logging

import "os"

// logger is a global reference to a shared Logger (created/initialized by the
// command line driver, but separated for general usage)
var logger = newLogger(LogLevelVerbose)

// exit is the process exit hook used for fatal errors.
var exit = os.Exit

// Initialize initializes the global logger with the provided log level
func Initialize(loglevelname string) {
	var loglevel int
	switch loglevelname {
	case "silent":
		loglevel = LogLevelSilent
	case "error":
		loglevel = LogLevelError
	case "warn", "warning":
		loglevel = LogLevelWarning
	// everything else (including invalid log levels) should default to verbose
	default:
		loglevel = LogLevelVerbose
	}

	logger = newLogger(loglevel)
}

// ShouldProceed indicates whether or not the log module has encountered any
// errors.
func ShouldProceed() bool {
	logger.m.Lock()
	defer logger.m.Unlock()

	return logger.errorCount == 0
}

// -----------------------------------------------------------------------------
// NOTE: All log functions will only display if the appropriate log level is
// set.  Most log functions will simply fail silently if below their appropriate
// log level.

// LogConfigError logs an error related to project or tool configuration
func LogConfigError(kind, message string) {
	logger.handleMsg(&ConfigError{Kind: kind, Message: message})
}

// LogEmitError logs an error raised while lowering, verifying or evaluating
func LogEmitError(kind, message string) {
	logger.handleMsg(&EmitError{Kind: kind, Message: message})
}

// LogBuildWarning buffers a warning to be displayed when the run finishes
func LogBuildWarning(kind, warning string) {
	logger.handleMsg(&BuildWarning{Kind: kind, Message: warning})
}

// -----------------------------------------------------------------------------

// ReportHeader displays the version and target before emission begins.
func ReportHeader(target string) {
	if logger.LogLevel == LogLevelVerbose {
		displayHeader(target)
	}
}

// BeginPhase starts the progress spinner for a named phase.
func BeginPhase(phase string) {
	if logger.LogLevel == LogLevelVerbose {
		displayBeginPhase(phase)
	}
}

// EndPhase stops the current phase spinner.
func EndPhase(success bool) {
	if logger.LogLevel == LogLevelVerbose {
		displayEndPhase(success)
	}
}

// ReportFinished displays the buffered warnings and the closing message.
func ReportFinished(outputPath string) {
	warnings := logger.flushWarnings()

	if logger.LogLevel >= LogLevelWarning {
		for _, warning := range warnings {
			warning.display()
		}
	}

	if logger.LogLevel > LogLevelSilent {
		logger.m.Lock()
		errorCount := logger.errorCount
		logger.m.Unlock()

		displayFinished(errorCount == 0, errorCount, len(warnings), outputPath)
	}
}

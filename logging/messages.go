package logging

import "fmt"

// LogMessage is the interface for all messages the logger buffers or displays.
type LogMessage interface {
	isError() bool
	display()
}

// ConfigError is an error in the project file or the command line setup.
type ConfigError struct {
	Kind    string
	Message string
}

func (ce *ConfigError) isError() bool { return true }

// EmitError is a failure of one of the emission phases: a program rejected by
// the checker, IR that fails verification, or an evaluation that disagrees
// with its expected result.
type EmitError struct {
	Kind    string
	Message string
}

func (ee *EmitError) isError() bool { return true }

// BuildWarning is a non-fatal problem noticed while emitting.
type BuildWarning struct {
	Kind    string
	Message string
}

func (bw *BuildWarning) isError() bool { return false }

// -----------------------------------------------------------------------------

// InternalError is the panic value raised by LogICE.  It represents a bug in
// the lowering pipeline itself: an earlier stage handed the control-flow
// lowering something structurally impossible.  There is no recovery from these
// except to stop.
type InternalError struct {
	Message string
}

func (ie *InternalError) Error() string {
	return "internal compiler error: " + ie.Message
}

// LogICE raises an internal compiler error.  It never returns.
func LogICE(format string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(format, args...)})
}

// HandleICE must be deferred at the top of every command.  It displays an
// internal compiler error and exits; any other panic is propagated.
func HandleICE() {
	if r := recover(); r != nil {
		ie, ok := r.(*InternalError)
		if !ok {
			panic(r)
		}

		displayEndPhase(false)
		displayFatalError(ie.Message)
		exit(-1)
	}
}

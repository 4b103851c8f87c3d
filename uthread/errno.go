package uthread

import (
	"fmt"
	"log"
	"os"
)

func init() {
	log.SetOutput(os.Stderr)
	log.SetFlags(0)
}

// LibraryError reports a user-facing misuse of the library: a bad
// argument, an unknown thread id, a full thread table, blocking the main
// thread, and so on. Library state is left unchanged whenever one of
// these is returned.
type LibraryError struct {
	msg string
}

func (e *LibraryError) Error() string { return e.msg }

func libErrorf(format string, args ...any) *LibraryError {
	return &LibraryError{msg: fmt.Sprintf(format, args...)}
}

// SystemError reports the failure of an underlying OS facility: arming the
// interval timer or installing the signal handler. It is always fatal —
// every live descriptor's owned memory is released and the process exits
// with status 1.
type SystemError struct {
	msg string
}

func (e *SystemError) Error() string { return e.msg }

func sysErrorf(format string, args ...any) *SystemError {
	return &SystemError{msg: fmt.Sprintf(format, args...)}
}

func logLibraryError(err *LibraryError) {
	log.Print("thread library error: " + err.Error())
}

func logSystemError(err *SystemError) {
	log.Print("system error: " + err.Error())
}

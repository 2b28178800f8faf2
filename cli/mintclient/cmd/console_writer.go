package cmd

import "fmt"

// consoleWriter is where the commands print their results, logs go to the
// logger. Tests replace it to capture the output.
var consoleWriter consoleWrapper = &stdoutWrapper{}

type (
	consoleWrapper interface {
		Println(a ...any)
	}

	stdoutWrapper struct{}
)

func (w *stdoutWrapper) Println(a ...any) {
	fmt.Println(a...)
}

func printf(format string, a ...any) {
	consoleWriter.Println(fmt.Sprintf(format, a...))
}

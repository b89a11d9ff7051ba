// Package cli wires the todo command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/ui"
)

// exitError carries a process exit code (1 runtime error, 2 usage).
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErr(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

// Run executes the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string) int {
	return run(args, os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	a := &app{in: in, out: out, errOut: errOut}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.Execute()
	if err == nil {
		return 0
	}
	ui.Fail(errOut, err.Error())
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// app is the state shared by every command.
type app struct {
	in          io.Reader
	out, errOut io.Writer

	configPath string
	userID     int
	apiURL     string
	theme      string
	logFile    string
	logLevel   string

	cfg config.Config
}

// newLogger returns a stderr logger for one-shot commands.
func (a *app) newLogger() *log.Logger {
	logger, _, err := logging.New(logging.Options{
		Level:    a.cfg.LogLevel,
		Prefix:   "tada",
		Fallback: a.errOut,
	})
	if err != nil {
		return logging.Discard()
	}
	return logger
}

// client builds the API client; it refuses to run without an owner.
func (a *app) client(logger *log.Logger) (*api.Client, error) {
	if !a.cfg.Configured() {
		return nil, usageErr("user id is not set (use --user-id, TADA_USER_ID or user_id in %s)", "tada.toml")
	}
	return api.New(api.Options{
		BaseURL: a.cfg.APIURL,
		UserID:  a.cfg.UserID,
		Token:   auth.Bearer(a.cfg.APIURL),
		Timeout: a.cfg.Timeout.Duration,
		Logger:  logger,
	})
}

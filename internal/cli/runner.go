package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/liste/internal/model"
	"github.com/idilsaglam/liste/internal/ui"
)

// usageError marks errors that exit with status 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// Run executes the command line and returns an exit code (0 ok, 1 error,
// 2 usage).
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	s := &State{}
	root := NewCmdRoot(s)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	ui.SetOutput(stdout, stderr)
	ui.Fail(err.Error())
	var ue *usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		ui.Hint("Run `liste --help` for usage.")
		return 2
	}
	return 1
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func parseID(what, s string) (model.ID, error) {
	id, err := model.ParseID(s)
	if err != nil || id <= 0 {
		return 0, usagef("%s: not an id: %s", what, s)
	}
	return id, nil
}

// text joins the words of a free-text argument.
func text(what string, words []string) (string, error) {
	t := strings.TrimSpace(strings.Join(words, " "))
	if t == "" {
		return "", usagef("%s: empty text", what)
	}
	return t, nil
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/faults"
	"github.com/crmarques/shopctl/internal/cli/common"
)

type Dependencies struct {
	Contexts   config.ContextService
	NewSession common.SessionFactory
}

func (d Dependencies) commandDependencies() common.CommandDependencies {
	return common.CommandDependencies{
		Contexts:   d.Contexts,
		NewSession: d.NewSession,
	}
}

// Execute runs the command line. Mutating commands end with an [OK] or
// [ERROR] status line on stderr unless --no-status is given; every other
// command only prints the error.
func Execute(deps Dependencies) error {
	root := NewRootCommand(deps)
	command, err := root.ExecuteC()
	stderr := root.ErrOrStderr()

	if !reportsStatus(command) {
		if err != nil {
			_, _ = fmt.Fprintln(stderr, strings.TrimSpace(err.Error()))
		}
		return err
	}

	writeStatus(stderr, err, colorEnabled(command.Flags(), stderr))
	return err
}

// ExitCodeForError maps fault categories to process exit codes.
func ExitCodeForError(err error) int {
	if err == nil {
		return 0
	}

	var typedErr *faults.TypedError
	if !errors.As(err, &typedErr) {
		return 1
	}

	switch typedErr.Category {
	case faults.ValidationError:
		return 2
	case faults.NotFoundError:
		return 3
	case faults.AuthError:
		return 4
	case faults.ConflictError:
		return 5
	case faults.TransportError:
		return 6
	default:
		return 1
	}
}

var statusCommands = map[string]bool{
	"shopctl resource create": true,
	"shopctl resource update": true,
	"shopctl resource delete": true,
}

func reportsStatus(command *cobra.Command) bool {
	if command == nil || !statusCommands[command.CommandPath()] {
		return false
	}
	flags := command.Flags()
	return !boolFlag(flags, "help") && !boolFlag(flags, "no-status")
}

func writeStatus(w io.Writer, err error, color bool) {
	label, message := "[OK]", "command executed successfully"
	code := "\x1b[1;32m"
	if err != nil {
		label, message = "[ERROR]", "command execution failed: "+strings.TrimSpace(err.Error())
		code = "\x1b[1;31m"
	}
	if color {
		label = code + label + "\x1b[0m"
	}
	_, _ = fmt.Fprintf(w, "%s %s.\n", label, message)
}

// colorEnabled honours NO_COLOR and --no-color, and only colours terminals.
func colorEnabled(flags *pflag.FlagSet, w io.Writer) bool {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" || boolFlag(flags, "no-color") {
		return false
	}

	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return false
	}

	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	return term != "" && term != "dumb"
}

func boolFlag(flags *pflag.FlagSet, name string) bool {
	value, err := flags.GetBool(name)
	return err == nil && value
}

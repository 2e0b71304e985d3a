package testkit

import (
	"bytes"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

var executeMu sync.Mutex

// Execute runs command with args and stdin and returns what it wrote.
// Cobra mutates shared flag annotations while executing, so runs are
// serialized.
func Execute(command *cobra.Command, stdin string, args ...string) (string, string, error) {
	executeMu.Lock()
	defer executeMu.Unlock()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	command.SetOut(stdout)
	command.SetErr(stderr)
	command.SetIn(strings.NewReader(stdin))
	command.SetArgs(args)

	err := command.Execute()
	return stdout.String(), stderr.String(), err
}

// CommandPaths lists every user-facing subcommand path below command.
func CommandPaths(command *cobra.Command) []string {
	paths := make([]string, 0)
	var walk func(*cobra.Command, string)
	walk = func(current *cobra.Command, prefix string) {
		for _, child := range current.Commands() {
			name := child.Name()
			if name == "help" || strings.HasPrefix(name, "__") {
				continue
			}
			path := strings.TrimSpace(prefix + " " + name)
			paths = append(paths, path)
			walk(child, path)
		}
	}
	walk(command, "")
	return paths
}

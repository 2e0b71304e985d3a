package common

import (
	"github.com/spf13/cobra"

	"github.com/crmarques/shopctl/config"
)

type GlobalFlags struct {
	Context    string
	APIVersion string
	Debug      bool
	NoStatus   bool
	NoColor    bool
	Output     string
}

// Selection turns the global flags into a context selection; --api-version
// becomes a shop.api-version override.
func (f GlobalFlags) Selection() config.ContextSelection {
	selection := config.ContextSelection{Name: f.Context}
	if f.APIVersion != "" {
		selection.Overrides = map[string]string{"shop.api-version": f.APIVersion}
	}
	return selection
}

type InputFlags struct {
	Payload string
	Format  string
}

func BindGlobalFlags(command *cobra.Command, flags *GlobalFlags) {
	command.PersistentFlags().StringVarP(&flags.Context, "context", "c", "", "context name")
	command.PersistentFlags().StringVar(&flags.APIVersion, "api-version", "", "Admin API version for this invocation, e.g. 2024-10")
	command.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", false, "enable debug output")
	command.PersistentFlags().BoolVarP(&flags.NoStatus, "no-status", "n", false, "hide status output")
	command.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "disable color output")
	command.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputAuto, "output format: auto|text|json|yaml")
	RegisterFlagValueCompletions(command, "output", []string{OutputAuto, OutputText, OutputJSON, OutputYAML})
}

func BindInputFlags(command *cobra.Command, flags *InputFlags) {
	command.Flags().StringVarP(&flags.Payload, "payload", "f", "", "payload file path (use '-' to read object from stdin)")
	command.Flags().StringVarP(&flags.Format, "format", "i", "", "input format: json|yaml (inferred when empty)")
	RegisterFlagValueCompletions(command, "format", []string{OutputJSON, OutputYAML})
}

// BindParamFlag registers the repeatable --param name=value flag.
func BindParamFlag(command *cobra.Command, params *[]string) {
	command.Flags().StringArrayVarP(params, "param", "p", nil, "path parameter as name=value (repeatable)")
}

func RegisterFlagValueCompletions(command *cobra.Command, flagName string, values []string) {
	_ = command.RegisterFlagCompletionFunc(flagName, func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return CompleteValues(values, toComplete)
	})
}

func CompleteValues(values []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	matches := make([]string, 0, len(values))
	for _, value := range values {
		if len(toComplete) <= len(value) && value[:len(toComplete)] == toComplete {
			matches = append(matches, value)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

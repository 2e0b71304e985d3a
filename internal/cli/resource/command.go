package resource

import (
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/shopctl/internal/cli/common"
	"github.com/crmarques/shopctl/resources"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "resource",
		Short: "Read and write Admin API resources",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newKindsCommand(globalFlags),
		newPathsCommand(globalFlags),
		newResolveCommand(globalFlags),
		newGetCommand(deps, globalFlags),
		newListCommand(deps, globalFlags),
		newCountCommand(deps, globalFlags),
		newCreateCommand(deps, globalFlags),
		newUpdateCommand(deps, globalFlags),
		newDeleteCommand(deps, globalFlags),
	)

	return command
}

func lookupKind(name string) (resources.Kind, error) {
	kind, ok := resources.Lookup(name)
	if !ok {
		return nil, common.ValidationError("unknown resource kind "+strings.TrimSpace(name)+"; run 'shopctl resource kinds'", nil)
	}
	return kind, nil
}

func kindNames() []string {
	kinds := resources.Kinds()
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, kind.Name())
	}
	return names
}

func completeKindArg(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return common.CompleteValues(kindNames(), toComplete)
}

func completeKindArgs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return common.CompleteValues(kindNames(), toComplete)
}

func fieldsQuery(fields []string) url.Values {
	if len(fields) == 0 {
		return nil
	}
	return url.Values{"fields": {strings.Join(fields, ",")}}
}

package cli

import (
	"context"

	"github.com/spf13/cobra"

	debugctx "github.com/crmarques/shopctl/debugctx"
	authcmd "github.com/crmarques/shopctl/internal/cli/auth"
	"github.com/crmarques/shopctl/internal/cli/common"
	contextcmd "github.com/crmarques/shopctl/internal/cli/config"
	graphqlcmd "github.com/crmarques/shopctl/internal/cli/graphql"
	resourcecmd "github.com/crmarques/shopctl/internal/cli/resource"
	"github.com/crmarques/shopctl/internal/cli/version"
)

func NewRootCommand(deps Dependencies) *cobra.Command {
	commandDeps := deps.commandDependencies()
	var globalFlags common.GlobalFlags

	root := &cobra.Command{
		Use:   "shopctl",
		Short: "Work with the Shopify Admin API from the command line",
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
		Args: cobra.NoArgs,
		PersistentPreRunE: func(command *cobra.Command, _ []string) error {
			if err := common.ValidateOutputFormat(globalFlags.Output); err != nil {
				return err
			}

			commandContext := command.Context()
			if commandContext == nil {
				commandContext = context.Background()
			}
			commandContext = common.WithSelection(commandContext, globalFlags.Selection())
			commandContext = debugctx.WithEnabled(commandContext, globalFlags.Debug)
			commandContext = debugctx.WithWriter(commandContext, command.ErrOrStderr())
			command.SetContext(commandContext)

			debugctx.Printf(
				command.Context(),
				"root flags context=%q output=%q no_status=%t command=%q",
				globalFlags.Context,
				globalFlags.Output,
				globalFlags.NoStatus,
				command.CommandPath(),
			)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	common.BindGlobalFlags(root, &globalFlags)
	registerContextFlagCompletion(root, commandDeps)

	root.AddGroup(
		&cobra.Group{ID: "basic", Title: "Basic Commands:"},
		&cobra.Group{ID: "other", Title: "Other Commands:"},
	)

	basicCommands := []*cobra.Command{
		resourcecmd.NewCommand(commandDeps, &globalFlags),
		graphqlcmd.NewCommand(commandDeps, &globalFlags),
		contextcmd.NewCommand(commandDeps, &globalFlags),
		authcmd.NewCommand(commandDeps, &globalFlags),
	}
	for _, command := range basicCommands {
		command.GroupID = "basic"
		root.AddCommand(command)
	}

	versionCommand := version.NewCommand(&globalFlags)
	versionCommand.GroupID = "other"
	root.AddCommand(versionCommand)
	root.SetCompletionCommandGroupID("other")
	root.SetHelpCommandGroupID("other")

	return root
}

func registerContextFlagCompletion(root *cobra.Command, deps common.CommandDependencies) {
	_ = root.RegisterFlagCompletionFunc("context", func(command *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if deps.Contexts == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		items, err := deps.Contexts.List(command.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names := make([]string, 0, len(items))
		for _, item := range items {
			names = append(names, item.Name)
		}
		return common.CompleteValues(names, toComplete)
	})
}

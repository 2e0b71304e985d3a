package resource

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	debugctx "github.com/crmarques/shopctl/debugctx"
	"github.com/crmarques/shopctl/internal/cli/common"
	"github.com/crmarques/shopctl/restpath"
)

func newCreateCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var rawParams []string
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "create <kind>",
		Short: "Create a resource from a JSON or YAML payload",
		Example: strings.Join([]string{
			"  shopctl resource create products -f product.json",
			"  echo '{\"title\":\"News\"}' | shopctl resource create articles -p blog_id=3",
		}, "\n"),
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKindArg,
		RunE: func(command *cobra.Command, args []string) error {
			kind, err := lookupKind(args[0])
			if err != nil {
				return err
			}
			params, err := common.ParseParams(rawParams)
			if err != nil {
				return err
			}
			payload, err := common.ReadJSONPayload(command, input)
			if err != nil {
				return err
			}
			session, err := common.RequireSession(command.Context(), deps)
			if err != nil {
				return err
			}

			debugctx.Printf(command.Context(), "resource create kind=%q params=%v", kind.Name(), params.Names())
			created, err := kind.Create(command.Context(), session.Transport, params, payload)
			if err != nil {
				return err
			}
			return common.WriteOutput[any](command, globalFlags.Output, created, nil)
		},
	}
	common.BindParamFlag(command, &rawParams)
	common.BindInputFlags(command, &input)

	return command
}

func newUpdateCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var rawParams []string
	var input common.InputFlags
	var dryRun bool

	command := &cobra.Command{
		Use:   "update <kind>",
		Short: "Apply a partial payload and send only the fields that changed",
		Long: strings.Join([]string{
			"Fetches the resource, applies the payload on top of it, and sends only",
			"the fields whose values differ from what the shop returned.",
		}, "\n"),
		Example:           "  shopctl resource update products -p id=632910392 -f - <<<'{\"title\":\"New\"}'",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKindArg,
		RunE: func(command *cobra.Command, args []string) error {
			kind, err := lookupKind(args[0])
			if err != nil {
				return err
			}
			params, err := common.ParseParams(rawParams)
			if err != nil {
				return err
			}
			payload, err := common.ReadJSONPayload(command, input)
			if err != nil {
				return err
			}
			session, err := common.RequireSession(command.Context(), deps)
			if err != nil {
				return err
			}

			debugctx.Printf(command.Context(), "resource update kind=%q params=%v dry_run=%t", kind.Name(), params.Names(), dryRun)
			result, err := kind.Update(command.Context(), session.Transport, params, payload, dryRun)
			if err != nil {
				return err
			}
			if dryRun {
				return common.WriteOutput[any](command, globalFlags.Output, map[string]any{"changes": result.Changes}, nil)
			}
			return common.WriteOutput[any](command, globalFlags.Output, result.Value, nil)
		},
	}
	common.BindParamFlag(command, &rawParams)
	common.BindInputFlags(command, &input)
	command.Flags().BoolVar(&dryRun, "dry-run", false, "print the changed fields without sending them")

	return command
}

func newDeleteCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var rawParams []string

	command := &cobra.Command{
		Use:               "delete <kind>",
		Short:             "Delete one resource",
		Example:           "  shopctl resource delete webhooks -p id=4759306",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKindArg,
		RunE: func(command *cobra.Command, args []string) error {
			kind, err := lookupKind(args[0])
			if err != nil {
				return err
			}
			params, err := common.ParseParams(rawParams)
			if err != nil {
				return err
			}
			session, err := common.RequireSession(command.Context(), deps)
			if err != nil {
				return err
			}

			debugctx.Printf(command.Context(), "resource delete kind=%q params=%v", kind.Name(), params.Names())
			if err := kind.Delete(command.Context(), session.Transport, params); err != nil {
				return err
			}
			if globalFlags.Output == common.OutputJSON || globalFlags.Output == common.OutputYAML {
				return common.WriteOutput(command, globalFlags.Output, map[string]any{"deleted": kind.Name(), "params": params}, nil)
			}
			return common.WriteOutput(command, common.OutputText, kind.Name(), func(w io.Writer, name string) error {
				_, err := fmt.Fprintf(w, "deleted %s %s\n", name, formatParams(params))
				return err
			})
		},
	}
	common.BindParamFlag(command, &rawParams)

	return command
}

func formatParams(params restpath.Params) string {
	names := params.Names()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+params[name])
	}
	return strings.Join(parts, " ")
}

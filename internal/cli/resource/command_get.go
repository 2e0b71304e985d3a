package resource

import (
	"github.com/spf13/cobra"

	debugctx "github.com/crmarques/shopctl/debugctx"
	"github.com/crmarques/shopctl/internal/cli/common"
)

func newGetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var rawParams []string
	var fields []string

	command := &cobra.Command{
		Use:               "get <kind>",
		Short:             "Fetch one resource",
		Example:           "  shopctl resource get articles --param blog_id=3 --param id=9",
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

			debugctx.Printf(command.Context(), "resource get kind=%q params=%v", kind.Name(), params.Names())
			value, err := kind.Find(command.Context(), session.Transport, params, fieldsQuery(fields))
			if err != nil {
				return err
			}
			return common.WriteOutput[any](command, globalFlags.Output, value, nil)
		},
	}
	common.BindParamFlag(command, &rawParams)
	command.Flags().StringSliceVar(&fields, "fields", nil, "only return these fields")

	return command
}

package resource

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	debugctx "github.com/crmarques/shopctl/debugctx"
	"github.com/crmarques/shopctl/internal/cli/common"
	"github.com/crmarques/shopctl/resources"
)

const maxConcurrentCounts = 4

type countResult struct {
	Kind  string `json:"kind"`
	Count int64  `json:"count"`
}

func newCountCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var rawParams []string
	var rawQuery []string

	command := &cobra.Command{
		Use:               "count <kind> [kind...]",
		Short:             "Count resources of one or more kinds",
		Example:           "  shopctl resource count products orders customers",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeKindArgs,
		RunE: func(command *cobra.Command, args []string) error {
			kinds := make([]resources.Kind, 0, len(args))
			for _, arg := range args {
				kind, err := lookupKind(arg)
				if err != nil {
					return err
				}
				kinds = append(kinds, kind)
			}
			params, err := common.ParseParams(rawParams)
			if err != nil {
				return err
			}
			query, err := parseQuery(rawQuery)
			if err != nil {
				return err
			}
			session, err := common.RequireSession(command.Context(), deps)
			if err != nil {
				return err
			}

			results := make([]countResult, len(kinds))
			group, groupContext := errgroup.WithContext(command.Context())
			group.SetLimit(maxConcurrentCounts)
			for index, kind := range kinds {
				index, kind := index, kind
				group.Go(func() error {
					count, err := kind.Count(groupContext, session.Transport, params, query)
					if err != nil {
						return fmt.Errorf("count %s: %w", kind.Name(), err)
					}
					debugctx.Printf(groupContext, "resource count kind=%q count=%d", kind.Name(), count)
					results[index] = countResult{Kind: kind.Name(), Count: count}
					return nil
				})
			}
			if err := group.Wait(); err != nil {
				return err
			}

			return common.WriteOutput(command, globalFlags.Output, results, func(w io.Writer, items []countResult) error {
				writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, item := range items {
					_, _ = fmt.Fprintf(writer, "%s\t%d\n", item.Kind, item.Count)
				}
				return writer.Flush()
			})
		},
	}
	common.BindParamFlag(command, &rawParams)
	command.Flags().StringArrayVarP(&rawQuery, "query", "q", nil, "extra query filter as name=value (repeatable)")

	return command
}

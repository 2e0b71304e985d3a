package resource

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	debugctx "github.com/crmarques/shopctl/debugctx"
	"github.com/crmarques/shopctl/internal/cli/common"
	"github.com/crmarques/shopctl/resource"
)

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var rawParams []string
	var rawQuery []string
	var options resource.ListOptions
	var all bool
	var maxPages int

	command := &cobra.Command{
		Use:   "list <kind>",
		Short: "List resources, one page or following Link cursors",
		Example: strings.Join([]string{
			"  shopctl resource list products --limit 50 --fields id,title",
			"  shopctl resource list articles -p blog_id=3 --all",
			"  shopctl resource list orders --query status=any --jq '[.[] | select(.total_price | tonumber > 100)]'",
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
			query, err := parseQuery(rawQuery)
			if err != nil {
				return err
			}
			if maxPages < 0 {
				return common.ValidationError("flag --max-pages must not be negative", nil)
			}
			options.Query = query

			pages := maxPages
			switch {
			case all:
				pages = 0
			case pages == 0:
				pages = 1
			}

			session, err := common.RequireSession(command.Context(), deps)
			if err != nil {
				return err
			}

			debugctx.Printf(command.Context(), "resource list kind=%q params=%v pages=%d", kind.Name(), params.Names(), pages)
			result, err := kind.List(command.Context(), session.Transport, params, options, pages)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, result, nil)
		},
	}
	common.BindParamFlag(command, &rawParams)
	command.Flags().IntVar(&options.Limit, "limit", 0, "page size (the API caps it at 250)")
	command.Flags().StringVar(&options.PageInfo, "page-info", "", "cursor from a previous page")
	command.Flags().StringSliceVar(&options.Fields, "fields", nil, "only return these fields")
	command.Flags().StringVar(&options.JQ, "jq", "", "jq expression applied to the decoded list")
	command.Flags().StringArrayVarP(&rawQuery, "query", "q", nil, "extra query filter as name=value (repeatable)")
	command.Flags().BoolVar(&all, "all", false, "follow next cursors until the last page")
	command.Flags().IntVar(&maxPages, "max-pages", 0, "follow next cursors up to this many pages")
	command.MarkFlagsMutuallyExclusive("all", "max-pages")

	return command
}

func parseQuery(raw []string) (url.Values, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	query := url.Values{}
	for _, item := range raw {
		name, value, ok := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, common.ValidationError(fmt.Sprintf("invalid --query %q: expected name=value", item), nil)
		}
		query.Add(name, value)
	}
	return query, nil
}

package resource

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crmarques/shopctl/internal/cli/common"
	"github.com/crmarques/shopctl/resources"
	"github.com/crmarques/shopctl/restpath"
)

type kindSummary struct {
	Name       string   `json:"name"`
	Singular   string   `json:"singular"`
	Plural     string   `json:"plural"`
	Operations []string `json:"operations"`
}

type routeSummary struct {
	Method    string   `json:"method"`
	Operation string   `json:"operation"`
	Params    []string `json:"params"`
	Template  string   `json:"template"`
}

type resolvedRoute struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

func newKindsCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the resource kinds this client knows",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			kinds := resources.Kinds()
			summaries := make([]kindSummary, 0, len(kinds))
			for _, kind := range kinds {
				descriptor := kind.Descriptor()
				operations := make([]string, 0)
				for _, operation := range descriptor.Paths.Operations() {
					operations = append(operations, string(operation))
				}
				summaries = append(summaries, kindSummary{
					Name:       kind.Name(),
					Singular:   descriptor.Singular,
					Plural:     descriptor.Plural,
					Operations: operations,
				})
			}

			return common.WriteOutput(command, globalFlags.Output, summaries, func(w io.Writer, items []kindSummary) error {
				table := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				_, _ = fmt.Fprintln(table, "KIND\tOPERATIONS")
				for _, item := range items {
					_, _ = fmt.Fprintf(table, "%s\t%s\n", item.Name, strings.Join(item.Operations, ","))
				}
				return table.Flush()
			})
		},
	}
}

func newPathsCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "paths <kind>",
		Short:             "Show the route table of a resource kind",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKindArg,
		RunE: func(command *cobra.Command, args []string) error {
			kind, err := lookupKind(args[0])
			if err != nil {
				return err
			}

			table := kind.Descriptor().Paths
			routes := make([]routeSummary, 0, len(table))
			for _, entry := range table {
				params := entry.Params
				if params == nil {
					params = []string{}
				}
				routes = append(routes, routeSummary{
					Method:    entry.Method,
					Operation: string(entry.Operation),
					Params:    params,
					Template:  entry.Template,
				})
			}

			return common.WriteOutput(command, globalFlags.Output, routes, func(w io.Writer, items []routeSummary) error {
				writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				_, _ = fmt.Fprintln(writer, "OPERATION\tMETHOD\tTEMPLATE\tPARAMS")
				for _, item := range items {
					_, _ = fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", item.Operation, item.Method, item.Template, strings.Join(item.Params, ","))
				}
				return writer.Flush()
			})
		},
	}
}

func newResolveCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	var rawParams []string

	command := &cobra.Command{
		Use:   "resolve <kind> <operation>",
		Short: "Resolve the method and path an operation would use, without sending it",
		Example: strings.Join([]string{
			"  shopctl resource resolve articles find --param blog_id=3 --param id=9",
			"  shopctl resource resolve variants update -p id=12",
		}, "\n"),
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(command *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				return completeKindArg(command, args, toComplete)
			case 1:
				return common.CompleteValues([]string{
					string(restpath.OperationFind),
					string(restpath.OperationAll),
					string(restpath.OperationCount),
					string(restpath.OperationCreate),
					string(restpath.OperationUpdate),
					string(restpath.OperationDelete),
				}, toComplete)
			default:
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
		},
		RunE: func(command *cobra.Command, args []string) error {
			kind, err := lookupKind(args[0])
			if err != nil {
				return err
			}
			operation, ok := restpath.ParseOperation(args[1])
			if !ok {
				return common.ValidationError(fmt.Sprintf("unknown operation %q", args[1]), nil)
			}
			params, err := common.ParseParams(rawParams)
			if err != nil {
				return err
			}

			method, path, err := kind.Route(operation, params)
			if err != nil {
				return err
			}
			route := resolvedRoute{Method: method, Path: path}
			return common.WriteOutput(command, globalFlags.Output, route, func(w io.Writer, item resolvedRoute) error {
				_, err := fmt.Fprintf(w, "%s %s\n", item.Method, item.Path)
				return err
			})
		},
	}
	common.BindParamFlag(command, &rawParams)

	return command
}

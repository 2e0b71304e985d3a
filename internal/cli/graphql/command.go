package graphql

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	debugctx "github.com/crmarques/shopctl/debugctx"
	"github.com/crmarques/shopctl/internal/cli/common"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var input common.InputFlags
	var rawVars []string
	var variablesJSON string

	command := &cobra.Command{
		Use:   "graphql [query]",
		Short: "Run a GraphQL Admin API query or mutation",
		Example: strings.Join([]string{
			"  shopctl graphql '{ shop { name } }'",
			"  shopctl graphql -f products.graphql --var first=10",
			"  shopctl graphql -f mutation.graphql --variables '{\"input\":{\"title\":\"Boots\"}}'",
		}, "\n"),
		Args: cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			document, err := readDocument(command, input, args)
			if err != nil {
				return err
			}
			variables, err := parseVariables(variablesJSON, rawVars)
			if err != nil {
				return err
			}
			session, err := common.RequireSession(command.Context(), deps)
			if err != nil {
				return err
			}
			if session.GraphQL == nil {
				return common.ValidationError("graphql client is not configured", nil)
			}

			debugctx.Printf(command.Context(), "graphql variables=%d", len(variables))
			response, err := session.GraphQL.Raw(command.Context(), document, variables)
			if err != nil {
				if len(response.Errors) > 0 {
					_ = common.WriteOutput(command, common.OutputJSON, response, nil)
				}
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, response, nil)
		},
	}
	command.Flags().StringVarP(&input.Payload, "file", "f", "", "query document file (use '-' for stdin)")
	command.Flags().StringArrayVar(&rawVars, "var", nil, "variable as name=value; JSON values are decoded (repeatable)")
	command.Flags().StringVar(&variablesJSON, "variables", "", "variables as a JSON object")

	return command
}

func readDocument(command *cobra.Command, input common.InputFlags, args []string) (string, error) {
	if len(args) == 1 {
		if input.Payload != "" {
			return "", common.ValidationError("provide the query as an argument or with --file, not both", nil)
		}
		return args[0], nil
	}
	data, err := common.ReadInput(command, input)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseVariables merges --variables with --var pairs; --var wins.
func parseVariables(variablesJSON string, rawVars []string) (map[string]any, error) {
	variables := map[string]any{}
	if strings.TrimSpace(variablesJSON) != "" {
		if err := json.Unmarshal([]byte(variablesJSON), &variables); err != nil {
			return nil, common.ValidationError("flag --variables must be a JSON object", err)
		}
	}

	for _, item := range rawVars {
		name, raw, ok := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, common.ValidationError(fmt.Sprintf("invalid --var %q: expected name=value", item), nil)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		variables[name] = value
	}

	if len(variables) == 0 {
		return nil, nil
	}
	return variables, nil
}

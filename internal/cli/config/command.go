package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	configdomain "github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/core"
	"github.com/crmarques/shopctl/internal/cli/common"
)

const redactedValue = "<redacted>"

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:     "context",
		Aliases: []string{"config"},
		Short:   "Manage shop contexts",
		Args:    cobra.NoArgs,
	}

	command.AddCommand(
		newListCommand(deps, globalFlags),
		newCurrentCommand(deps, globalFlags),
		newUseCommand(deps),
		newShowCommand(deps, globalFlags),
		newAddCommand(deps),
		newValidateCommand(deps),
		newDeleteCommand(deps),
		newSecretCommand(deps, globalFlags),
		newOverridesCommand(globalFlags),
	)

	return command
}

type contextListItem struct {
	Name    string `json:"name"`
	Shop    string `json:"shop"`
	Current bool   `json:"current"`
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contexts",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			items, err := contexts.List(command.Context())
			if err != nil {
				return err
			}

			currentName := ""
			if current, err := contexts.GetCurrent(command.Context()); err == nil {
				currentName = current.Name
			}

			listed := make([]contextListItem, 0, len(items))
			for _, item := range items {
				listed = append(listed, contextListItem{
					Name:    item.Name,
					Shop:    item.Shop.Domain,
					Current: item.Name == currentName,
				})
			}

			return common.WriteOutput(command, globalFlags.Output, listed, func(w io.Writer, values []contextListItem) error {
				for _, value := range values {
					marker := " "
					if value.Current {
						marker = "*"
					}
					if _, err := fmt.Fprintf(w, "%s %s\t%s\n", marker, value.Name, value.Shop); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newCurrentCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the current context name",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			current, err := contexts.GetCurrent(command.Context())
			if err != nil {
				return err
			}
			return common.WriteText(command, globalFlags.Output, current.Name)
		},
	}
}

func newUseCommand(deps common.CommandDependencies) *cobra.Command {
	return &cobra.Command{
		Use:               "use <name>",
		Short:             "Make a context the current one",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeContextNames(deps),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			if err := contexts.SetCurrent(command.Context(), strings.TrimSpace(args[0])); err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), "switched to context %q\n", strings.TrimSpace(args[0]))
			return err
		},
	}
}

func newShowCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var showSecrets bool
	var overrides []string

	command := &cobra.Command{
		Use:               "show [name]",
		Short:             "Show a context after defaults and overrides are applied",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeContextNames(deps),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := strings.TrimSpace(globalFlags.Context)
			if len(args) == 1 {
				name = strings.TrimSpace(args[0])
			}
			overrideValues, err := parseOverrides(overrides)
			if err != nil {
				return err
			}

			shown, err := contexts.ResolveContext(command.Context(), configdomain.ContextSelection{Name: name, Overrides: overrideValues})
			if err != nil {
				return err
			}
			if !showSecrets {
				shown = redactContext(shown)
			}
			return common.WriteYAML(command, shown)
		},
	}
	command.Flags().BoolVar(&showSecrets, "show-secrets", false, "print tokens and passwords")
	command.Flags().StringArrayVar(&overrides, "set", nil, "override as key=value, e.g. shop.api-version=2024-10 (repeatable)")

	return command
}

func newAddCommand(deps common.CommandDependencies) *cobra.Command {
	var input common.InputFlags
	var setCurrent bool

	command := &cobra.Command{
		Use:   "add",
		Short: "Add a context from a YAML or JSON document",
		Example: strings.Join([]string{
			"  shopctl context add -f acme.yaml --use",
			"  cat acme.yaml | shopctl context add",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			data, err := common.ReadInput(command, input)
			if err != nil {
				return err
			}
			// JSON documents decode too, since JSON is a YAML subset.
			cfg, err := common.DecodeInput[configdomain.Context](data, common.OutputYAML)
			if err != nil {
				return err
			}
			if err := contexts.Create(command.Context(), cfg); err != nil {
				return err
			}
			if setCurrent {
				if err := contexts.SetCurrent(command.Context(), cfg.Name); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), "added context %q\n", cfg.Name)
			return err
		},
	}
	command.Flags().StringVarP(&input.Payload, "payload", "f", "", "context file path (use '-' for stdin)")
	command.Flags().BoolVar(&setCurrent, "use", false, "make the new context current")

	return command
}

func newValidateCommand(deps common.CommandDependencies) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "validate",
		Short: "Check a context document without saving it",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			data, err := common.ReadInput(command, input)
			if err != nil {
				return err
			}
			cfg, err := common.DecodeInput[configdomain.Context](data, common.OutputYAML)
			if err != nil {
				return err
			}
			if err := contexts.Validate(command.Context(), cfg); err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), "context %q is valid\n", cfg.Name)
			return err
		},
	}
	command.Flags().StringVarP(&input.Payload, "payload", "f", "", "context file path (use '-' for stdin)")

	return command
}

func newDeleteCommand(deps common.CommandDependencies) *cobra.Command {
	return &cobra.Command{
		Use:               "delete <name>",
		Short:             "Delete a context",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeContextNames(deps),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			if err := contexts.Delete(command.Context(), strings.TrimSpace(args[0])); err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), "deleted context %q\n", strings.TrimSpace(args[0]))
			return err
		},
	}
}

func newOverridesCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "overrides",
		Short: "List the keys accepted by --set and SHOPCTL_CTX_* variables",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return common.WriteOutput(command, globalFlags.Output, core.OverrideKeys(), func(w io.Writer, keys []string) error {
				_, err := fmt.Fprintln(w, strings.Join(keys, "\n"))
				return err
			})
		},
	}
}

func parseOverrides(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	overrides := make(map[string]string, len(raw))
	for _, item := range raw {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, common.ValidationError(fmt.Sprintf("invalid --set %q: expected key=value", item), nil)
		}
		overrides[key] = value
	}
	return overrides, nil
}

func redactContext(cfg configdomain.Context) configdomain.Context {
	if cfg.Auth != nil {
		auth := *cfg.Auth
		if auth.AccessToken != nil {
			auth.AccessToken = &configdomain.AccessTokenAuth{Token: redactedValue}
		}
		if auth.PrivateApp != nil {
			privateApp := *auth.PrivateApp
			privateApp.Password = redactedValue
			auth.PrivateApp = &privateApp
		}
		cfg.Auth = &auth
	}
	if cfg.App != nil && cfg.App.APISecret != "" {
		app := *cfg.App
		app.APISecret = redactedValue
		cfg.App = &app
	}
	if cfg.SecretStore != nil {
		store := *cfg.SecretStore
		if store.Key != "" {
			store.Key = redactedValue
		}
		if store.Passphrase != "" {
			store.Passphrase = redactedValue
		}
		cfg.SecretStore = &store
	}
	return cfg
}

func completeContextNames(deps common.CommandDependencies) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(command *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 || deps.Contexts == nil {
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
	}
}

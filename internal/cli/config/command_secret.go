package config

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	configdomain "github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/core"
	"github.com/crmarques/shopctl/faults"
	"github.com/crmarques/shopctl/internal/cli/common"
)

func newSecretCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "secret",
		Short: "Manage the encrypted secret store of a context",
		Long: strings.Join([]string{
			"Credentials kept in the store are referenced from the context as",
			`{{secret "key"}} in auth.access-token.token, auth.private-app.password`,
			"and app.api-secret.",
		}, "\n"),
		Args: cobra.NoArgs,
	}

	command.AddCommand(
		newSecretSetCommand(deps, globalFlags),
		newSecretListCommand(deps, globalFlags),
		newSecretDeleteCommand(deps, globalFlags),
	)
	return command
}

func newSecretSetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var value string

	command := &cobra.Command{
		Use:   "set <key>",
		Short: "Store a secret, read from --value or stdin",
		Example: strings.Join([]string{
			"  printf %s \"$TOKEN\" | shopctl context secret set acme/token",
		}, "\n"),
		Args: cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			store, err := openSecretStore(command.Context(), deps, globalFlags)
			if err != nil {
				return err
			}

			if !command.Flags().Changed("value") {
				data, err := common.ReadInput(command, common.InputFlags{})
				if err != nil {
					return err
				}
				value = strings.TrimRight(string(data), "\r\n")
			}
			if value == "" {
				return common.ValidationError("secret value must not be empty", nil)
			}

			key := strings.TrimSpace(args[0])
			if err := store.Set(command.Context(), key, value); err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), "stored secret %q; reference it as %s\n", key, core.SecretReference(key))
			return err
		},
	}
	command.Flags().StringVar(&value, "value", "", "secret value (prefer stdin so it stays out of shell history)")

	return command
}

func newSecretListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored secret keys",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			store, err := openSecretStore(command.Context(), deps, globalFlags)
			if err != nil {
				return err
			}
			keys, err := store.List(command.Context())
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, keys, func(w io.Writer, values []string) error {
				for _, key := range values {
					if _, err := fmt.Fprintln(w, key); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newSecretDeleteCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a stored secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			store, err := openSecretStore(command.Context(), deps, globalFlags)
			if err != nil {
				return err
			}
			key := strings.TrimSpace(args[0])
			if err := store.Delete(command.Context(), key); err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), "deleted secret %q\n", key)
			return err
		},
	}
}

// openSecretStore uses the stored context named by --context, or the
// current one. The context is not resolved, so it may still reference
// secrets that do not exist yet.
func openSecretStore(ctx context.Context, deps common.CommandDependencies, globalFlags *common.GlobalFlags) (core.SecretStore, error) {
	contexts, err := common.RequireContexts(deps)
	if err != nil {
		return nil, err
	}

	var selected configdomain.Context
	name := strings.TrimSpace(globalFlags.Context)
	if name == "" {
		selected, err = contexts.GetCurrent(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		items, err := contexts.List(ctx)
		if err != nil {
			return nil, err
		}
		found := false
		for _, item := range items {
			if item.Name == name {
				selected, found = item, true
				break
			}
		}
		if !found {
			return nil, faults.Errorf(faults.NotFoundError, "context %q not found", name)
		}
	}

	return core.OpenSecretStore(selected)
}

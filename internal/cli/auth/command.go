package auth

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	shopauth "github.com/crmarques/shopctl/auth"
	configdomain "github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/core"
	"github.com/crmarques/shopctl/faults"
	"github.com/crmarques/shopctl/internal/cli/common"
)

type appFlags struct {
	APIKey      string
	APISecret   string
	Scopes      []string
	RedirectURL string
}

func bindAppFlags(command *cobra.Command, flags *appFlags, withScopes bool) {
	command.Flags().StringVar(&flags.APIKey, "api-key", "", "app api key (defaults to the context app)")
	command.Flags().StringVar(&flags.APISecret, "api-secret", "", "app api secret (defaults to the context app)")
	if withScopes {
		command.Flags().StringSliceVar(&flags.Scopes, "scopes", nil, "access scopes to request")
		command.Flags().StringVar(&flags.RedirectURL, "redirect-url", "", "OAuth redirect URL")
	}
}

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "auth",
		Short: "Run the app OAuth handshake and verify Shopify signatures",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newAuthorizeURLCommand(deps, globalFlags),
		newExchangeCodeCommand(deps, globalFlags),
		newVerifyCallbackCommand(deps, globalFlags),
		newVerifyWebhookCommand(deps, globalFlags),
		newSessionTokenCommand(deps, globalFlags),
	)

	return command
}

type authorizeOutput struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

func newAuthorizeURLCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var flags appFlags
	var shop string
	var state string

	command := &cobra.Command{
		Use:     "authorize-url",
		Short:   "Print the URL that asks a merchant to install the app",
		Example: "  shopctl auth authorize-url --shop acme --scopes read_products,write_orders",
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			app, shopDomain, err := resolveApp(command.Context(), deps, globalFlags, flags, shop)
			if err != nil {
				return err
			}
			if strings.TrimSpace(state) == "" {
				state = shopauth.NewState()
			}
			authorizeURL, err := shopauth.AuthorizeURL(app, shopDomain, state)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, authorizeOutput{URL: authorizeURL, State: state}, func(w io.Writer, value authorizeOutput) error {
				_, err := fmt.Fprintln(w, value.URL)
				return err
			})
		},
	}
	bindAppFlags(command, &flags, true)
	command.Flags().StringVar(&shop, "shop", "", "shop domain or handle (defaults to the context shop)")
	command.Flags().StringVar(&state, "state", "", "OAuth state value (a random one is generated when empty)")

	return command
}

func newExchangeCodeCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var flags appFlags
	var shop string
	var code string

	command := &cobra.Command{
		Use:   "exchange-code",
		Short: "Trade an authorization code for an access token",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			app, shopDomain, err := resolveApp(command.Context(), deps, globalFlags, flags, shop)
			if err != nil {
				return err
			}
			token, err := shopauth.NewExchanger().ExchangeCode(command.Context(), app, shopDomain, code)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, token, func(w io.Writer, value shopauth.Token) error {
				_, err := fmt.Fprintln(w, value.AccessToken)
				return err
			})
		},
	}
	bindAppFlags(command, &flags, false)
	command.Flags().StringVar(&shop, "shop", "", "shop domain or handle (defaults to the context shop)")
	command.Flags().StringVar(&code, "code", "", "authorization code from the callback")

	return command
}

func newVerifyCallbackCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var flags appFlags

	command := &cobra.Command{
		Use:     "verify-callback <url-or-query>",
		Short:   "Check the hmac parameter of an OAuth callback",
		Example: "  shopctl auth verify-callback 'https://app.example.com/callback?code=...&hmac=...&shop=acme.myshopify.com'",
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			app, _, err := resolveApp(command.Context(), deps, globalFlags, flags, "")
			if err != nil {
				return err
			}
			query, err := callbackQuery(args[0])
			if err != nil {
				return err
			}
			if err := shopauth.VerifyCallback(query, app.APISecret); err != nil {
				return err
			}
			return common.WriteText(command, common.OutputText, "callback hmac is valid")
		},
	}
	bindAppFlags(command, &flags, false)

	return command
}

func newVerifyWebhookCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var flags appFlags
	var signature string
	input := common.InputFlags{}

	command := &cobra.Command{
		Use:   "verify-webhook",
		Short: "Check the " + shopauth.WebhookHMACHeader + " signature of a webhook body",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			app, _, err := resolveApp(command.Context(), deps, globalFlags, flags, "")
			if err != nil {
				return err
			}
			body, err := common.ReadInput(command, input)
			if err != nil {
				return err
			}
			if err := shopauth.VerifyWebhook(body, signature, app.APISecret); err != nil {
				return err
			}
			return common.WriteText(command, common.OutputText, "webhook hmac is valid")
		},
	}
	bindAppFlags(command, &flags, false)
	command.Flags().StringVar(&signature, "signature", "", "value of the "+shopauth.WebhookHMACHeader+" header")
	command.Flags().StringVarP(&input.Payload, "payload", "f", "", "raw webhook body file (use '-' for stdin)")

	return command
}

func newSessionTokenCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var flags appFlags

	command := &cobra.Command{
		Use:   "session-token <token>",
		Short: "Verify an embedded app session token and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			app, _, err := resolveApp(command.Context(), deps, globalFlags, flags, "")
			if err != nil {
				return err
			}
			claims, err := shopauth.ParseSessionToken(strings.TrimSpace(args[0]), app)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, claims, func(w io.Writer, value *shopauth.SessionClaims) error {
				_, err := fmt.Fprintf(w, "shop=%s sub=%s sid=%s\n", value.Shop(), value.Subject, value.Sid)
				return err
			})
		},
	}
	bindAppFlags(command, &flags, false)

	return command
}

// resolveApp merges the app credentials of the selected context with the
// flags. The context is optional so the handshake works before any token
// exists.
func resolveApp(
	ctx context.Context,
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	flags appFlags,
	shop string,
) (configdomain.App, string, error) {
	var app configdomain.App
	shopDomain := strings.TrimSpace(shop)

	selected, ok, err := selectedContext(ctx, deps, globalFlags)
	if err != nil {
		return configdomain.App{}, "", err
	}
	if ok {
		if selected.App != nil {
			app = *selected.App
			if flags.APISecret == "" {
				app.APISecret, err = core.ResolveSecret(ctx, selected, app.APISecret)
				if err != nil {
					return configdomain.App{}, "", err
				}
			}
		}
		if shopDomain == "" {
			shopDomain = selected.Shop.Domain
		}
	}

	if flags.APIKey != "" {
		app.APIKey = flags.APIKey
	}
	if flags.APISecret != "" {
		app.APISecret = flags.APISecret
	}
	if len(flags.Scopes) > 0 {
		app.Scopes = flags.Scopes
	}
	if flags.RedirectURL != "" {
		app.RedirectURL = flags.RedirectURL
	}
	return app, shopDomain, nil
}

func selectedContext(ctx context.Context, deps common.CommandDependencies, globalFlags *common.GlobalFlags) (configdomain.Context, bool, error) {
	if deps.Contexts == nil {
		return configdomain.Context{}, false, nil
	}

	name := ""
	if globalFlags != nil {
		name = strings.TrimSpace(globalFlags.Context)
	}
	if name == "" {
		current, err := deps.Contexts.GetCurrent(ctx)
		if err != nil {
			return configdomain.Context{}, false, nil
		}
		return current, true, nil
	}

	items, err := deps.Contexts.List(ctx)
	if err != nil {
		return configdomain.Context{}, false, err
	}
	for _, item := range items {
		if item.Name == name {
			return item, true, nil
		}
	}
	return configdomain.Context{}, false, faults.Errorf(faults.NotFoundError, "context %q not found", name)
}

func callbackQuery(raw string) (url.Values, error) {
	raw = strings.TrimSpace(raw)
	if index := strings.Index(raw, "?"); index >= 0 {
		raw = raw[index+1:]
	}
	query, err := url.ParseQuery(raw)
	if err != nil {
		return nil, common.ValidationError("invalid callback query", err)
	}
	return query, nil
}

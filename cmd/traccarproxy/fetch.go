package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/awantoch/traccarproxy/constants"
	"github.com/awantoch/traccarproxy/proxy"
	"github.com/awantoch/traccarproxy/secrets"
	"github.com/awantoch/traccarproxy/utils"
)

// overrideProvider answers keys from overrides first, then from the base provider.
type overrideProvider struct {
	secrets.SecretsProvider
	overrides map[string]string
}

func (o overrideProvider) GetSecret(ctx context.Context, key string) (string, error) {
	if v, ok := o.overrides[key]; ok {
		return v, nil
	}
	return o.SecretsProvider.GetSecret(ctx, key)
}

// newFetchCmd creates the 'fetch' subcommand: one proxy invocation, body on stdout.
func newFetchCmd() *cobra.Command {
	var (
		url    string
		user   string
		pass   string
		pretty bool
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch positions once and print the proxied JSON body",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return utils.Errorf("failed to load config: %w", err)
			}
			if url != "" {
				cfg.Traccar.URL = url
			}

			base, err := secrets.NewSecretsProvider(cmd.Context(), &cfg.Secrets)
			if err != nil {
				return utils.Errorf("failed to initialize secrets: %w", err)
			}
			defer base.Close()

			overrides := map[string]string{}
			if cmd.Flags().Changed("user") {
				overrides[constants.EnvTraccarUser] = user
			}
			if cmd.Flags().Changed("pass") {
				overrides[constants.EnvTraccarPass] = pass
			}

			h, err := proxy.New(cfg, overrideProvider{SecretsProvider: base, overrides: overrides})
			if err != nil {
				return err
			}
			resp := h.Handle(cmd.Context())

			body := resp.Body
			if pretty {
				var buf bytes.Buffer
				if json.Indent(&buf, []byte(body), "", "  ") == nil {
					body = buf.String()
				}
			}
			utils.User("%s", body)
			if resp.StatusCode >= http.StatusBadRequest {
				utils.Error("fetch failed with status %d", resp.StatusCode)
				exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "positions URL (overrides config and "+constants.EnvTraccarURL+")")
	cmd.Flags().StringVar(&user, "user", "", "Traccar username (overrides "+constants.EnvTraccarUser+")")
	cmd.Flags().StringVar(&pass, "pass", "", "Traccar password (overrides "+constants.EnvTraccarPass+")")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexiflow/translation-platform/internal/clientconfig"
	"github.com/lexiflow/translation-platform/internal/submit"
)

func newConfigureCommand(deps *Deps) *cobra.Command {
	var (
		endpoint     string
		apiKey       string
		outputBucket string
		region       string
		skipTest     bool
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Store the API endpoint and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint = strings.TrimSpace(endpoint)
			if endpoint == "" {
				return fmt.Errorf("--endpoint is required")
			}
			if strings.TrimSpace(apiKey) == "" {
				return fmt.Errorf("--api-key is required")
			}
			if region == "" {
				region = clientconfig.DefaultRegion
			}

			cfg := clientconfig.Config{
				APIEndpoint:  endpoint,
				APIKey:       apiKey,
				OutputBucket: outputBucket,
				AWSRegion:    region,
				ConfiguredAt: time.Now().UTC(),
			}
			if err := deps.Config.Save(cfg); err != nil {
				return fmt.Errorf("save configuration: %w", err)
			}
			fmt.Fprintln(deps.Out, "Configuration saved.")

			if !skipTest {
				client := submit.NewClient(endpoint, apiKey, deps.Log)
				if client.TestConnection(cmd.Context()) {
					fmt.Fprintln(deps.Out, "Connection test: OK")
				} else {
					fmt.Fprintln(deps.Out, "Connection test: FAILED (configuration was saved anyway)")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Translation API endpoint URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key sent as X-API-Key")
	cmd.Flags().StringVar(&outputBucket, "output-bucket", "", "S3 bucket holding result documents (enables polling and show)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region of the output bucket (default "+clientconfig.DefaultRegion+")")
	cmd.Flags().BoolVar(&skipTest, "skip-test", false, "Skip the connection self-test")

	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health and the online count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			// A degraded server answers 503
			if err := client.Get("/api/v1/health", &result); err != nil {
				return fmt.Errorf("server unhealthy: %w", err)
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

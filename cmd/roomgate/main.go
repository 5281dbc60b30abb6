package main

import (
	"context"
	"fmt"
	"os"

	"github.com/longregen/roomgate/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "roomgate",
		Short: "roomgate - LiveKit room access and agent dispatch",
		Long: `roomgate issues LiveKit room credentials to participants and makes sure
each room gets exactly one agent dispatched, however many people join at once.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configPath != "" {
				cfg, err = config.LoadFrom(configPath)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file (default $ROOMGATE_CONFIG or ~/.config/roomgate/config.json)")

	rootCmd.AddCommand(
		serveCmd(),
		tokenCmd(),
		configCmd(),
		versionCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// configCmd shows current configuration
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Current configuration:")
			fmt.Println()

			fmt.Println("Server:")
			fmt.Printf("  Address:      %s:%d\n", cfg.Server.Host, cfg.Server.Port)
			fmt.Printf("  CORS Origins: %v\n", cfg.Server.CORSOrigins)
			fmt.Printf("  Admin Token:  %s\n", maskSecret(cfg.Server.AdminToken))
			fmt.Println()

			fmt.Println("LiveKit:")
			fmt.Printf("  URL:        %s\n", cfg.LiveKit.URL)
			fmt.Printf("  API Key:    %s\n", maskSecret(cfg.LiveKit.APIKey))
			fmt.Printf("  API Secret: %s\n", maskSecret(cfg.LiveKit.APISecret))
			fmt.Printf("  Agent:      %s\n", valueOrDefault(cfg.LiveKit.AgentName, "(default worker)"))
			fmt.Printf("  Retries:    %d\n", cfg.LiveKit.MaxRetries)
			fmt.Printf("  Status:     %s\n", boolStatus(cfg.IsLiveKitConfigured()))
			fmt.Println()

			fmt.Println("Credentials:")
			fmt.Printf("  TTL: %s\n", cfg.Credential.TTL.Std())
			fmt.Println()

			fmt.Println("Dispatch:")
			fmt.Printf("  Retention:      %s\n", cfg.Dispatch.Retention.Std())
			fmt.Printf("  Sweep Interval: %s\n", cfg.Dispatch.SweepInterval.Std())
			fmt.Printf("  Async:          %t\n", cfg.Dispatch.Async)
			fmt.Println()

			fmt.Println("Telemetry:")
			fmt.Printf("  Service:   %s (%s)\n", cfg.Telemetry.ServiceName, cfg.Telemetry.Environment)
			fmt.Printf("  OTLP:      %s\n", valueOrDefault(cfg.Telemetry.OTLPEndpoint, "(disabled)"))
			fmt.Printf("  Log Level: %s\n", cfg.SlogLevel())
			fmt.Println()

			fmt.Println("Environment variables:")
			fmt.Println("  LIVEKIT_URL, LIVEKIT_API_KEY, LIVEKIT_API_SECRET, PORT")
			fmt.Println("  ROOMGATE_LIVEKIT_URL, ROOMGATE_LIVEKIT_API_KEY, ROOMGATE_LIVEKIT_API_SECRET, ROOMGATE_AGENT_NAME")
			fmt.Println("  ROOMGATE_SERVER_HOST, ROOMGATE_SERVER_PORT, ROOMGATE_CORS_ORIGINS, ROOMGATE_ADMIN_TOKEN")
			fmt.Println("  ROOMGATE_CREDENTIAL_TTL, ROOMGATE_DISPATCH_RETENTION, ROOMGATE_DISPATCH_SWEEP_INTERVAL")
			fmt.Println("  ROOMGATE_OTLP_ENDPOINT, ROOMGATE_LOG_LEVEL")

			return nil
		},
	}
}

// versionCmd shows version information
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("roomgate %s\n", version)
			fmt.Printf("  Commit:     %s\n", commit)
			fmt.Printf("  Build Date: %s\n", buildDate)
		},
	}
}

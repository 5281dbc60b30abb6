package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/longregen/roomgate/internal/adapters/livekit"
	"github.com/longregen/roomgate/internal/application/services"
	"github.com/spf13/cobra"
)

// tokenCmd mints a credential locally, without touching the LiveKit server
func tokenCmd() *cobra.Command {
	var (
		room     string
		identity string
		ttl      time.Duration
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a room credential offline",
		Long: `Mint a participant credential with the configured API key pair.

No room is created and no agent is dispatched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl == 0 {
				ttl = cfg.Credential.TTL.Std()
			}

			minter, err := livekit.NewMinter(cfg.LiveKit.APIKey, cfg.LiveKit.APISecret)
			if err != nil {
				return err
			}

			cred, err := services.NewCredentialService(minter, ttl).IssueCredential(room, identity)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(cred)
			}

			fmt.Println(cred.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&room, "room", "", "room name")
	cmd.Flags().StringVar(&identity, "identity", "", "participant identity")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "credential lifetime (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full credential as JSON")
	_ = cmd.MarkFlagRequired("room")
	_ = cmd.MarkFlagRequired("identity")

	return cmd
}

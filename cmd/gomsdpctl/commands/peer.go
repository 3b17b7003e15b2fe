package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	msdpv1 "github.com/dantte-lp/gomsdp/pkg/msdppb/msdp/v1"
)

func peerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peer",
		Short: "Inspect MSDP peers",
	}

	cmd.AddCommand(peerListCmd())

	return cmd
}

// --- peer list ---

func peerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all MSDP peers",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			resp, err := client.ListPeers(context.Background(), &msdpv1.ListPeersRequest{})
			if err != nil {
				return fmt.Errorf("list peers: %w", err)
			}

			out, err := formatPeers(resp.GetPeers(), outputFormat)
			if err != nil {
				return fmt.Errorf("format peers: %w", err)
			}

			fmt.Print(out)

			return nil
		},
	}
}

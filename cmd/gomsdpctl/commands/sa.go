package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	msdpv1 "github.com/dantte-lp/gomsdp/pkg/msdppb/msdp/v1"
)

func saCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sa",
		Short: "Inspect the Source-Active cache",
	}

	cmd.AddCommand(saListCmd())
	cmd.AddCommand(saClearCmd())

	return cmd
}

// --- sa list ---

func saListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List Source-Active cache entries",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			resp, err := client.ListSACache(context.Background(), &msdpv1.ListSACacheRequest{})
			if err != nil {
				return fmt.Errorf("list sa cache: %w", err)
			}

			out, err := formatSACache(resp.GetEntries(), outputFormat)
			if err != nil {
				return fmt.Errorf("format sa cache: %w", err)
			}

			fmt.Print(out)

			return nil
		},
	}
}

// --- sa clear ---

func saClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Flush remote Source-Active cache entries",
		Long:  "Flushes every remote entry from the daemon's Source-Active cache. Locally originated entries are kept.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			resp, err := client.ClearSACache(context.Background(), &msdpv1.ClearSACacheRequest{})
			if err != nil {
				return fmt.Errorf("clear sa cache: %w", err)
			}

			fmt.Printf("Flushed %d remote SA entries.\n", resp.GetFlushed())

			return nil
		},
	}
}

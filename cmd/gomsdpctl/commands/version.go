package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	appversion "github.com/dantte-lp/gomsdp/internal/version"
	msdpv1 "github.com/dantte-lp/gomsdp/pkg/msdppb/msdp/v1"
)

func versionCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print gomsdpctl build information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println(appversion.Full("gomsdpctl"))

			if !remote {
				return nil
			}

			resp, err := client.GetVersion(context.Background(), &msdpv1.GetVersionRequest{})
			if err != nil {
				return fmt.Errorf("fetch daemon version: %w", err)
			}
			fmt.Printf("gomsdpd %s\n  commit:  %s\n  built:   %s\n",
				resp.GetVersion(), resp.GetCommit(), resp.GetBuilt())

			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "also print the daemon's build information")

	return cmd
}

package commands

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/dantte-lp/gomsdp/pkg/msdppb/msdp/v1/msdpv1connect"
)

var (
	// client is the ConnectRPC MSDP service client, initialized in PersistentPreRunE.
	client msdpv1connect.MsdpServiceClient

	// outputFormat controls the output format for all commands (table or json).
	outputFormat string

	// serverAddr is the daemon address (host:port) for the ConnectRPC connection.
	serverAddr string
)

// rootCmd is the top-level cobra command for gomsdpctl.
var rootCmd = &cobra.Command{
	Use:   "gomsdpctl",
	Short: "CLI client for the gomsdp daemon",
	Long:  "gomsdpctl communicates with the gomsdp daemon via ConnectRPC to inspect MSDP peers and the Source-Active cache.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		client = msdpv1connect.NewMsdpServiceClient(
			http.DefaultClient,
			"http://"+serverAddr,
		)

		return nil
	},
	// Silence cobra's built-in usage/error printing so we control it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "localhost:8639",
		"gomsdp daemon address (host:port)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table",
		"output format: table, json")

	rootCmd.AddCommand(peerCmd())
	rootCmd.AddCommand(saCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(shellCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

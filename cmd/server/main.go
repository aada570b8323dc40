package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	tenantFlag string
	dateFlag   string
	rootCmd    = &cobra.Command{
		Use:   "officeboard",
		Short: "Office TV agenda backend",
	}
)

func main() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the live boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	rootCmd.AddCommand(serveCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print one dashboard as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.Context(), tenantFlag, dateFlag, os.Stdout)
		},
	}
	snapshotCmd.Flags().StringVarP(&tenantFlag, "tenant", "t", "", "Tenant ID (required)")
	snapshotCmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Reference day, YYYY-MM-DD (default today)")
	_ = snapshotCmd.MarkFlagRequired("tenant")
	rootCmd.AddCommand(snapshotCmd)

	// bare invocation keeps the container entrypoint working
	rootCmd.RunE = serveCmd.RunE

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

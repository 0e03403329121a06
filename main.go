package main

import (
	"fmt"
	"os"

	"github.com/helmcode/cricshot/cmd"
	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cricshot",
		Short: "AI-powered cricket shot selection",
		Long: `cricshot asks an AI coach for the best shot against a delivery and draws
where it goes on the field, in the terminal or an interactive browser view.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(
		cmd.NewServeCmd(),
		cmd.NewAnalyzeCmd(),
		cmd.NewRenderCmd(),
		cmd.NewOptionsCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cricshot version %s\n", version)
		},
	}
}

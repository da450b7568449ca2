package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voxmail",
	Short: "Voice-driven email assistant",
	Long: `Voxmail is a hands-free email assistant. You speak (or type) in natural
language; it checks your inbox, drafts emails in your style, and sends
them only after you approve.

With no arguments, launches a local chat session in the terminal.

Core behavior:
- Every utterance is classified before anything else happens
- Drafts are previewed and sent only on explicit approval
- "Send an email to ..." phrasing can skip the preview (configurable)
- Rejections with feedback become revisions, not new drafts
- Sent drafts feed the style memory for future composing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLocalChat()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <file> [question]",
	Short: "Ask a language model about a dataset (in preparation)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.New("LLM-assisted analysis is in preparation and not available yet")
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

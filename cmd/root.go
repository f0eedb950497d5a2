package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "loneton",
	Short: "Loneton daily matchmaking server",
	Long: `Loneton pairs every user with at most one compatible person a day,
tracks the conversation towards a video call and handles unpinning.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reconcileCmd)
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

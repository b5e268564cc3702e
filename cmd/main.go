// negotiation runs a two-team classroom negotiation game over websockets.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "negotiation",
	Short: "Two-team negotiation game server",
	Long: `negotiation hosts a ten-round negotiation game between team A and team B.
A facilitator opens the host page, each team joins from its own browser and
the server scores every round.

  negotiation serve                       Start the server (default)
  negotiation bot --session S1 --team A   Play one team from the terminal`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

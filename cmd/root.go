package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/btcalls/newsdesk/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "TUI news reader backed by NewsAPI",
	Long: "newsdesk fetches headlines from the sources you pick, keeps a local\n" +
		"reading list, and caches thumbnails, all from the terminal.",
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	versionCmd.Flags().BoolVar(&flagCheckUpdate, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(savedCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(pruneCmd)
}

var flagCheckUpdate bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsdesk %s (commit: %s, built: %s)\n", version, commit, date)
		if flagCheckUpdate {
			if res := update.Check(cmd.Context(), version); res != nil {
				fmt.Printf("Update available: v%s\n", res.LatestVersion)
			} else {
				fmt.Println("Up to date.")
			}
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"
)

var (
	configDir string
	envFile   string
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "mapsnap",
	Short: "Cursor snapping and axis guides for map drawing",
	Long: `mapsnap corrects the cursor of an interactive map drawing session.
It snaps to nearby features, aligns to placed vertices with guide lines
and replays recorded pointer events against a GeoJSON scene.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", CurrentVersion, BuildDate)

	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory containing mapsnap.cfg.json")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with MAPSNAP_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

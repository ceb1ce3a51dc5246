package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/OCAP2/mapsnap/internal/config"
	"github.com/OCAP2/mapsnap/internal/snap"
	"github.com/spf13/cobra"
)

var optionsWatch bool

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Print the resolved snapping options as JSON",
	Long: `Options prints the snapping options after applying mapsnap.cfg.json on
top of the defaults. With --watch it keeps running and prints them again
each time the file changes.`,
	Args: cobra.NoArgs,
	RunE: runOptions,
}

func init() {
	rootCmd.AddCommand(optionsCmd)

	optionsCmd.Flags().BoolVarP(&optionsWatch, "watch", "w", false, "print the options again whenever the config file changes")
}

func runOptions(cmd *cobra.Command, args []string) error {
	env, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	defer env.close()

	out := cmd.OutOrStdout()
	if err := printOptions(out, env.options); err != nil {
		return err
	}
	if !optionsWatch {
		return nil
	}
	if configDir == "" {
		return errors.New("--watch needs --config")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.Watch(func(opts snap.Options, err error) {
		if err != nil {
			env.logger.Error("config reload failed", "error", err)
			return
		}
		if err := printOptions(out, opts); err != nil {
			env.logger.Error("printing options", "error", err)
		}
	})
	env.logger.Info("watching config", "dir", configDir)

	<-ctx.Done()
	return nil
}

func printOptions(w io.Writer, opts snap.Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(opts)
}

// Package cli implements the gridnik command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mattlean/gridnik/pkg/config"
	"github.com/mattlean/gridnik/pkg/observability"
)

// Version is set at build time with -ldflags "-X github.com/mattlean/gridnik/pkg/cli.Version=...".
var Version = "dev"

// state is shared by every command of one root.
type state struct {
	cfgFile string
	output  string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	s := &state{}

	root := &cobra.Command{
		Use:           "gridnik",
		Short:         "Parametric grid layout calculator.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(s.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if _, err := parseFormat(s.output); err != nil {
				return err
			}
			s.cfg = cfg

			observability.InitializeLogger(cfg.Logger)
			s.logger = observability.GetLogger()
			s.logger.Debug("starting gridnik", zap.String("version", Version), zap.String("command", cmd.Name()))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&s.cfgFile, "config", "c", "", "config file (default is ./gridnik.yaml)")
	root.PersistentFlags().StringVarP(&s.output, "output", "o", "text", "output format: text, json or yaml")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newCalcCmd(s),
		newEvalCmd(s),
		newExportCmd(s),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	defer observability.Sync()

	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gridnik version.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "gridnik %s\n", Version)
			return err
		},
	}
}

// Package cmd implements the dynd command tree.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/born-ml/dynd/nd"
)

// Version is the dynd release, set at build time with -ldflags.
var Version = "v0.1.0-dev"

// Output formats accepted by --output.
const (
	outputJSON  = "json"
	outputRepr  = "repr"
	outputTable = "table"
	outputCBOR  = "cbor"
)

// app holds the state shared by one command tree.
type app struct {
	cfgFile string
	v       *viper.Viper
	log     *zap.Logger
}

// Execute builds the command tree and runs it against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "dynd",
		Short: "Inspect and convert dynamically typed arrays",
		Long: `dynd parses JSON into typed n-dimensional arrays, inspects raw binary
files through memory maps, and exercises the scalar index and truth rules.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.log.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.dynd/config.yaml)")
	flags.String("output", outputJSON, "output format: json, repr, table or cbor")
	flags.Int("workers", runtime.NumCPU(), "goroutines used by element-wise kernels")
	flags.Int("min-chunk", 1024, "minimum elements per kernel goroutine")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")

	_ = a.v.BindPFlag("output", flags.Lookup("output"))
	_ = a.v.BindPFlag("workers", flags.Lookup("workers"))
	_ = a.v.BindPFlag("min_chunk", flags.Lookup("min-chunk"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(
		newVersionCmd(),
		newParseCmd(a),
		newInfoCmd(a),
		newTruthCmd(a),
		newIndexCmd(a),
	)
	return root
}

// initConfig reads the config file and DYND_* environment variables, then
// applies logging and kernel settings.
func (a *app) initConfig(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(filepath.Join(home, ".dynd"))
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("DYND")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger, err := newLogger(a.v.GetString("log_level"))
	if err != nil {
		return err
	}
	a.log = logger
	nd.SetLogger(logger)

	workers := a.v.GetInt("workers")
	nd.SetKernelConfig(nd.KernelConfig{
		Enabled:      workers > 1,
		NumWorkers:   workers,
		MinChunkSize: a.v.GetInt("min_chunk"),
	})

	switch a.output() {
	case outputJSON, outputRepr, outputTable, outputCBOR:
	default:
		return fmt.Errorf("unknown output format %q", a.output())
	}
	a.log.Debug("config loaded",
		zap.String("command", cmd.Name()),
		zap.String("config", a.v.ConfigFileUsed()),
		zap.Int("workers", workers))
	return nil
}

func (a *app) output() string {
	return a.v.GetString("output")
}

// newLogger builds a production logger writing to stderr at level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dynd version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dynd %s\n", Version)
		},
	}
}

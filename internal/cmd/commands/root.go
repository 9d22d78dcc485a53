package commands

import (
	"fmt"

	cfgpkg "github.com/rzbill/uidgen/internal/config"
	logpkg "github.com/rzbill/uidgen/pkg/log"
	"github.com/spf13/cobra"
)

// state is filled by the root command before any subcommand runs.
type state struct {
	cfg    cfgpkg.Config
	logger logpkg.Logger
}

// NewRoot constructs the uidgen root command with every subcommand attached.
func NewRoot() *cobra.Command {
	st := &state{}
	root := &cobra.Command{
		Use:           "uidgen",
		Short:         "Snowflake-style 63-bit unique ID generator",
		Long:          "uidgen generates time-ordered 63-bit IDs from a timestamp, a node id and a per-millisecond sequence.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (JSON or YAML)")
	pf.Uint64("node-id", 0, "Node id of this generator")
	pf.Uint("timestamp-bits", 42, "Width of the timestamp field")
	pf.Uint("node-bits", 11, "Width of the node id field")
	pf.Int64("epoch-ms", 0, "Custom epoch in Unix milliseconds (0 = Unix epoch)")
	pf.Bool("full-capacity", false, "Use the whole sequence field before waiting for the next millisecond")
	pf.String("data-dir", "", "Data directory for the ledger (default: OS data dir)")
	pf.String("log-level", "", "Log level: debug|info|warn|error")
	pf.String("log-format", "", "Log format: text|json")

	root.AddCommand(
		newDescribeCommand(st),
		newGenerateCommand(st),
		newDecomposeCommand(st),
		newBenchCommand(st),
		newVerifyCommand(st),
	)
	return root
}

// load resolves configuration as file, then env, then explicitly set flags.
func (st *state) load(cmd *cobra.Command) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := cfgpkg.Load(path)
	if err != nil {
		return err
	}
	cfgpkg.FromEnv(&cfg)

	if flags.Changed("node-id") {
		cfg.NodeID, _ = flags.GetUint64("node-id")
	}
	if flags.Changed("timestamp-bits") {
		cfg.TimestampBits, _ = flags.GetUint("timestamp-bits")
	}
	if flags.Changed("node-bits") {
		cfg.NodeBits, _ = flags.GetUint("node-bits")
	}
	if flags.Changed("epoch-ms") {
		cfg.EpochMs, _ = flags.GetInt64("epoch-ms")
	}
	if flags.Changed("full-capacity") {
		cfg.FullCapacity, _ = flags.GetBool("full-capacity")
	}
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := logpkg.ApplyConfig(&cfg.Log)
	if err != nil {
		return err
	}
	logpkg.RedirectStdLog(logger)

	st.cfg = cfg
	st.logger = logger
	return nil
}

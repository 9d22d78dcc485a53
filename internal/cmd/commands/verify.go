package commands

import (
	"encoding/json"
	"fmt"

	"github.com/rzbill/uidgen/internal/runtime"
	pebblestore "github.com/rzbill/uidgen/internal/storage/pebble"
	logpkg "github.com/rzbill/uidgen/pkg/log"
	"github.com/spf13/cobra"
)

func newVerifyCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Record generated IDs in the ledger and audit the whole ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("count")
			batch, _ := cmd.Flags().GetInt("batch")
			fsyncName, _ := cmd.Flags().GetString("fsync")
			if count < 0 || batch <= 0 {
				return fmt.Errorf("--count must be >= 0 and --batch positive")
			}
			fsync, err := pebblestore.ParseFsyncMode(fsyncName)
			if err != nil {
				return err
			}

			rt, err := runtime.Open(runtime.Options{Config: st.cfg, Logger: st.logger, Ledger: true, Fsync: fsync})
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := cmd.Context()
			for left := count; left > 0; left -= batch {
				n := batch
				if left < n {
					n = left
				}
				if _, err := rt.Record(ctx, n); err != nil {
					return err
				}
			}

			rep, err := rt.Verify(ctx)
			if err != nil {
				return err
			}
			st.logger.Info("ledger verified",
				logpkg.Uint64("count", rep.Count),
				logpkg.Int("violations", len(rep.Violations)),
			)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return err
			}
			if !rep.OK() {
				return fmt.Errorf("ledger has %d violations", len(rep.Violations))
			}
			return nil
		},
	}
	cmd.Flags().IntP("count", "c", 10000, "IDs to generate and record before auditing (0 = audit only)")
	cmd.Flags().Int("batch", 1000, "IDs per ledger batch")
	cmd.Flags().String("fsync", "interval", "Ledger fsync mode: always|interval|never")
	return cmd
}

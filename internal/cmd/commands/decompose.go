package commands

import (
	"encoding/json"
	"time"

	"github.com/rzbill/uidgen/pkg/id"
	"github.com/spf13/cobra"
)

type decomposed struct {
	ID          uint64 `json:"id"`
	TimestampMs uint64 `json:"timestampMs"`
	Time        string `json:"time"`
	NodeID      uint64 `json:"nodeId"`
	Sequence    uint64 `json:"sequence"`
}

func newDecomposeCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decompose <id>...",
		Short: "Split IDs into timestamp, node id and sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			format, err := id.ParseFormat(formatName)
			if err != nil {
				return err
			}
			layout, err := st.cfg.Layout()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, arg := range args {
				v, err := id.Decode(arg, format)
				if err != nil {
					return err
				}
				p := layout.Decompose(v)
				at := time.UnixMilli(st.cfg.EpochMs + int64(p.TimestampMs)).UTC()
				if err := enc.Encode(decomposed{
					ID:          v,
					TimestampMs: p.TimestampMs,
					Time:        at.Format(time.RFC3339Nano),
					NodeID:      p.NodeID,
					Sequence:    p.Sequence,
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", string(id.FormatDecimal), "Input format of the IDs")
	return cmd
}

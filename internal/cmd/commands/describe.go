package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rzbill/uidgen/pkg/id"
	"github.com/spf13/cobra"
)

func newDescribeCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the ID layout and its capacity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			layout, err := st.cfg.Layout()
			if err != nil {
				return err
			}
			seq, err := id.NewSequencer(layout, st.cfg.NodeID, st.cfg.SequencerOptions()...)
			if err != nil {
				return err
			}
			summary := layout.Describe()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					id.Summary
					OverflowPolicy    string    `json:"overflowPolicy"`
					OverflowThreshold uint64    `json:"overflowThreshold"`
					TimestampEnd      time.Time `json:"timestampEnd"`
				}{summary, st.cfg.OverflowPolicy().String(), seq.OverflowThreshold(), st.cfg.TimestampEnd(layout).UTC()})
			}
			printSummary(cmd.OutOrStdout(), summary, st.cfg.OverflowPolicy(), seq.OverflowThreshold(), st.cfg.TimestampEnd(layout))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	return cmd
}

func printSummary(w io.Writer, s id.Summary, policy id.OverflowPolicy, threshold uint64, end time.Time) {
	const rule = "=============================================================================="
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Snowflake Unique ID Generator Config")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Layout (64 bit ID)")
	fmt.Fprintf(w, "| 1 Bit Unused | %d Bit Timestamp | %d Bit NodeID | %d Bit Sequence ID |\n",
		s.TimestampBits, s.NodeBits, s.SequenceBits)
	fmt.Fprintln(w, "Capacity (load = IDs per millisecond)")
	fmt.Fprintf(w, "| %d Years of uniqueness lifetime | %d load across %d nodes | %d load per node |\n",
		s.MaxLifetimeYears, s.MaxLoadTotal, s.MaxNodes, s.MaxLoadPerNode)
	fmt.Fprintf(w, "Usable load per node: %d (%s-capacity overflow policy)\n", threshold, policy)
	fmt.Fprintf(w, "Timestamp space ends: %s\n", end.UTC().Format(time.RFC3339))
	fmt.Fprintln(w, rule)
}

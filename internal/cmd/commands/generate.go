package commands

import (
	"fmt"

	"github.com/rzbill/uidgen/internal/runtime"
	"github.com/rzbill/uidgen/pkg/id"
	"github.com/spf13/cobra"
)

func newGenerateCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate IDs and print them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("count")
			formatName, _ := cmd.Flags().GetString("format")
			plain, _ := cmd.Flags().GetBool("plain")
			if count < 0 {
				return fmt.Errorf("invalid --count %d", count)
			}
			format, err := id.ParseFormat(formatName)
			if err != nil {
				return err
			}

			rt, err := runtime.Open(runtime.Options{Config: st.cfg, Logger: st.logger})
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			for i, v := range rt.NextN(count) {
				s, err := id.Encode(v, format)
				if err != nil {
					return err
				}
				if plain {
					fmt.Fprintln(out, s)
				} else {
					fmt.Fprintf(out, "Id #%d: %s\n", i, s)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntP("count", "c", 21, "Number of IDs to generate")
	cmd.Flags().StringP("format", "f", string(id.FormatDecimal), "Output format: decimal|hex|base2|base32|base36|base58|base64")
	cmd.Flags().Bool("plain", false, "Print bare IDs, one per line")
	return cmd
}

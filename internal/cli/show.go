package cli

import (
	"fmt"

	"dmxMapper/internal/domain/dmxmap"

	"github.com/spf13/cobra"
)

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the channel assignments and the maps that are not identity.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.loadMapper()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			assigned := 0
			for c, idx := range m.Assignments() {
				if idx == 0 {
					continue
				}
				fmt.Fprintf(out, "channel %d -> map %d\n", c+1, idx)
				assigned++
			}
			if assigned == 0 {
				fmt.Fprintln(out, "all channels use map 0 (identity)")
			}

			for i := 1; i < dmxmap.MaxMaps; i++ {
				if m.IsIdentity(i) {
					continue
				}
				table, _ := m.Map(i)
				fmt.Fprintf(out, "map %d: %d of %d values remapped\n", i, dmxmap.RemappedValues(table), dmxmap.MaxValues)
			}
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"dmxMapper/internal/domain/dmxmap"

	"github.com/spf13/cobra"
)

func newApplyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply [value...]",
		Short: "Remap channel values given as arguments or on stdin.",
		Long: "Values are read in channel order starting at channel 1, separated by " +
			"blanks or commas. The mapped values are printed comma separated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				input = string(data)
			}

			frame, err := parseFrame(input)
			if err != nil {
				return err
			}

			m, err := opts.loadMapper()
			if err != nil {
				return err
			}
			m.Apply(frame, len(frame))

			fmt.Fprintln(cmd.OutOrStdout(), formatFrame(frame))
			return nil
		},
	}
}

// parseFrame reads up to 512 byte values separated by blanks or commas.
func parseFrame(input string) ([]byte, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) > dmxmap.MaxChans {
		return nil, fmt.Errorf("%d values given, a frame holds at most %d", len(fields), dmxmap.MaxChans)
	}

	frame := make([]byte, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 || v > 255 {
			return nil, fmt.Errorf("channel %d: %q is not a DMX value (0-255)", i+1, f)
		}
		frame[i] = byte(v)
	}
	return frame, nil
}

func formatFrame(frame []byte) string {
	parts := make([]string, len(frame))
	for i, v := range frame {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, ",")
}

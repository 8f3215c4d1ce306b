package cli

import (
	"fmt"

	"dmxMapper/internal/config"
	"dmxMapper/internal/domain/dmxmap"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write the loaded tables to a spreadsheet.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.loadMapper()
			if err != nil {
				return err
			}
			if err := config.SaveWorkbook(m, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tables exported to %s\n", args[0])
			return nil
		},
	}
}

func newImportCmd(opts *options) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Convert a spreadsheet into mappings.txt and .map files.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := dmxmap.New()
			if err := config.LoadWorkbook(args[0], m); err != nil {
				return err
			}

			dir := outDir
			if dir == "" {
				dir = opts.settings.MappingDir
			}
			if err := config.WriteMappingFiles(dir, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mapping files written to %s\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: the mapping directory)")
	return cmd
}

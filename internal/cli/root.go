// Package cli provides the command-line interface of the DMX mapper.
package cli

import (
	"errors"
	"io/fs"
	"os"

	"dmxMapper/internal/config"
	"dmxMapper/internal/domain/dmxmap"
	"dmxMapper/internal/logging"

	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	mappingDir string
	debug      bool
	settings   *config.Settings
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "dmxmapper",
		Short: "Per-channel DMX value remapping.",
		Long: `dmxmapper remaps the values of DMX512 channels through lookup tables ` +
			`read from mappings.txt and <N>.map files, standalone or inside an ` +
			`Art-Net forwarding pipeline.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.prepare()
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "settings file (default dmxmapper.yaml if present)")
	root.PersistentFlags().StringVarP(&opts.mappingDir, "mapping-dir", "d", "", "directory holding mappings.txt and the .map files")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log every ignored line and every remapped channel")

	root.AddCommand(
		newServeCmd(opts),
		newApplyCmd(opts),
		newShowCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
	)
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	err := NewRootCmd().Execute()
	logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func (o *options) prepare() error {
	settings, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.mappingDir != "" {
		settings.MappingDir = o.mappingDir
	}
	o.settings = settings

	logging.Setup(logging.Options{
		Level:      settings.Log.Level,
		File:       settings.Log.File,
		MaxSizeMB:  settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
		MaxAgeDays: settings.Log.MaxAgeDays,
	})
	if o.debug {
		logging.SetDebugMode(true)
	}
	return nil
}

// loadMapper reads the tables of the mapping directory. A missing mappings.txt
// only logs a warning: every channel stays on the identity map.
func (o *options) loadMapper() (*dmxmap.Mapper, error) {
	m := dmxmap.New()
	err := config.LoadTables(os.DirFS(o.settings.MappingDir), m)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err != nil {
		logging.LogWarn("CLI: no channel assignments, all channels use the identity map", "dir", o.settings.MappingDir)
	}
	return m, nil
}

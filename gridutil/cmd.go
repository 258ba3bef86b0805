/*
Copyright © 2024 the om3utils authors.
This file is part of om3utils.

om3utils is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

om3utils is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with om3utils.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package gridutil holds the command-line interface of the cicegrid tool:
// configuration, input download, output staging and upload, and logging.
package gridutil

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/COSIMA/om3utils"
	"github.com/COSIMA/om3utils/cice"
	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds the configuration and commands of one invocation of the tool.
type Cfg struct {
	*viper.Viper

	// Root is the main command.
	Root *cobra.Command

	// History is the command line recorded in the outputs. It defaults to
	// the arguments the program was started with.
	History string

	verifyCmd, versionCmd *cobra.Command
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig creates the commands of the tool and binds their flags
// to a new configuration.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper:   viper.New(),
		History: strings.Join(os.Args, " "),
	}

	cfg.Root = &cobra.Command{
		Use:   "cicegrid [flags] <ocean_hgrid> <ocean_mask>",
		Short: "Create CICE grid and mask files from a MOM super-grid.",
		Long: `cicegrid converts a MOM ocean super-grid file and ocean mask file into the
grid file and land mask (kmt) file used by the CICE sea ice model.

The input files can be local paths, http(s) URLs or blob storage URLs
(file://, gs:// or s3://). Output files can be local paths or blob storage URLs.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CICEGRID_var' where 'var' is
the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
		Args:              cobra.ExactArgs(2),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return cfg.setConfig() },
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := cfg.runOptions(args)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.GetString("log_level"), cmd.OutOrStderr())
			if err != nil {
				return err
			}
			return Run(context.TODO(), log, o)
		},
	}

	cfg.verifyCmd = &cobra.Command{
		Use:   "verify [flags] <ocean_hgrid> <ocean_mask>",
		Short: "Check existing CICE files against their inputs.",
		Long: `verify derives the CICE grid from the given MOM inputs and compares it with
the existing grid_file and mask_file. Every grid variable must agree within
rtol, the mask must agree exactly, all metadata must be present, and the
recorded input checksums must match the inputs. Every mismatch is reported.`,
		Args:              cobra.ExactArgs(2),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := cfg.runOptions(args)
			if err != nil {
				return err
			}
			rtol, err := checkTolerance(cfg.Get("rtol"))
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.GetString("log_level"), cmd.OutOrStderr())
			if err != nil {
				return err
			}
			return Verify(context.TODO(), log, o, rtol)
		},
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of cicegrid.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("cicegrid v%s\n", om3utils.Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(cfg.verifyCmd, cfg.versionCmd)

	options := []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "grid_file",
			usage: `
              grid_file is the location of the CICE grid file. It can
              include environment variables and can be a blob storage URL.`,
			shorthand:  "g",
			defaultVal: "grid.nc",
			flagsets:   []*pflag.FlagSet{cfg.Root.Flags(), cfg.verifyCmd.Flags()},
		},
		{
			name: "mask_file",
			usage: `
              mask_file is the location of the CICE land mask (kmt) file. It can
              include environment variables and can be a blob storage URL.`,
			shorthand:  "m",
			defaultVal: "kmt.nc",
			flagsets:   []*pflag.FlagSet{cfg.Root.Flags(), cfg.verifyCmd.Flags()},
		},
		{
			name: "crs_proj4",
			usage: `
              crs_proj4 is the PROJ.4 description of the geographic coordinate
              reference system recorded in the output files.`,
			defaultVal: cice.DefaultProj4,
			flagsets:   []*pflag.FlagSet{cfg.Root.Flags(), cfg.verifyCmd.Flags()},
		},
		{
			name: "log_level",
			usage: `
              log_level is the minimum level of log messages to print: one of
              panic, fatal, error, warn, info or debug.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "rtol",
			usage: `
              rtol is the relative tolerance used when comparing grid variables.`,
			defaultVal: 1e-13,
			flagsets:   []*pflag.FlagSet{cfg.verifyCmd.Flags()},
		},
	}

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("CICEGRID")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
		}
		cfg.BindPFlag(option.name, option.flagsets[0].Lookup(option.name))
		cfg.BindEnv(option.name)
	}
	return cfg
}

// setConfig finds and reads in the configuration file, if there is one.
func (cfg *Cfg) setConfig() error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("cicegrid: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// runOptions collects the options of a conversion from the configuration
// and the positional arguments.
func (cfg *Cfg) runOptions(args []string) (*Options, error) {
	gridFile, err := checkOutputFile("grid_file", cfg.GetString("grid_file"))
	if err != nil {
		return nil, err
	}
	maskFile, err := checkOutputFile("mask_file", cfg.GetString("mask_file"))
	if err != nil {
		return nil, err
	}
	if gridFile == maskFile {
		return nil, fmt.Errorf("cicegrid: grid_file and mask_file are both %s", gridFile)
	}
	crs, err := cice.NewCRS(cfg.GetString("crs_proj4"))
	if err != nil {
		return nil, err
	}
	return &Options{
		HGrid:    os.ExpandEnv(args[0]),
		Mask:     os.ExpandEnv(args[1]),
		GridFile: gridFile,
		MaskFile: maskFile,
		CRS:      crs,
		History:  cfg.History,
	}, nil
}

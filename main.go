package main

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// execute runs cmd and logs any error as is, since not every failure comes from generation.
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		log.Error(err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	var (
		logLevel   string
		configFile string
	)
	generator := &Generator{}

	cmd := &cobra.Command{
		Use:   "cligen [table] [output_file]",
		Short: "Generate a dispatch runtime from a declarative command table",
		Long: `cligen turns a package-level []dispatch.Command table into a
dispatch.Runtime constructor and, in package main, a main function.

This tool should be run via go generate with a comment like:
  //go:generate cligen commands
  //go:generate cligen --table=commands --default=serve --builtins`,
		Args:          cobra.MaximumNArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if level, err := log.ParseLevel(logLevel); err == nil {
				log.SetLevel(level)
			} else {
				log.Warnf("invalid log level %s, defaulting to info", logLevel)
			}

			// Get the source file from GOFILE environment variable (set by go generate)
			generator.SourceFile = os.Getenv("GOFILE")
			if generator.SourceFile == "" {
				return fmt.Errorf("GOFILE environment variable not set. This tool should be run via go generate")
			}
			generator.Package = os.Getenv("GOPACKAGE")

			required := configFile != ""
			if !required {
				configFile = filepath.Join(filepath.Dir(generator.SourceFile), defaultConfigName)
			}
			cfg, err := ReadConfig(configFile, required)
			if err != nil {
				return fmt.Errorf("failed to read config %s: %w", configFile, err)
			}
			cfg.Apply(cmd.Flags(), generator)

			// Short form: cligen <table> [output_file], applied after the config so it wins
			if len(args) > 0 {
				if cmd.Flags().Changed("table") {
					return fmt.Errorf("table given both as argument and --table")
				}
				generator.Table = args[0]
			}
			if len(args) > 1 {
				if cmd.Flags().Changed("output") {
					return fmt.Errorf("output given both as argument and --output")
				}
				generator.OutputFile = args[1]
			}

			if generator.Table == "" {
				return fmt.Errorf("table name is required")
			}
			if generator.OutputFile == "" {
				generator.OutputFile = fmt.Sprintf("cmd_%s.go", generator.Table)
			}

			if err := generator.Generate(); err != nil {
				return err
			}

			log.WithField("table", generator.Table).Infof("Generated CLI code in %s", generator.OutputFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&configFile, "config", "", "YAML config file (default: "+defaultConfigName+" next to GOFILE)")
	bindFlags(cmd.Flags(), generator)

	return cmd
}

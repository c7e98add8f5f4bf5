package main

import (
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// defaultConfigName is looked up next to GOFILE when --config is not given.
const defaultConfigName = "cligen.yaml"

// Config holds generator settings shared by every table of a package.
type Config struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Author   string `yaml:"author"`
	Default  string `yaml:"default"`
	Output   string `yaml:"output"`
	Builtins *bool  `yaml:"builtins"`
}

// ReadConfig loads path. A missing file is only an error when required is set.
func ReadConfig(path string, required bool) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Apply copies config values into g for every flag not set on the command line.
func (c Config) Apply(fs *pflag.FlagSet, g *Generator) {
	setString := func(flag, value string, dst *string) {
		if value != "" && !fs.Changed(flag) {
			*dst = value
		}
	}
	setString("program-name", c.Name, &g.Name)
	setString("program-version", c.Version, &g.Version)
	setString("author", c.Author, &g.Author)
	setString("default", c.Default, &g.Default)
	setString("output", c.Output, &g.OutputFile)

	if c.Builtins != nil && !fs.Changed("builtins") {
		g.Builtins = *c.Builtins
	}
}

// bindFlags registers the generator flags on fs.
func bindFlags(fs *pflag.FlagSet, g *Generator) {
	fs.StringVar(&g.Table, "table", "", "Name of the []dispatch.Command variable")
	fs.StringVar(&g.Default, "default", "", "Function run when no argument is given (default: help)")
	fs.BoolVar(&g.Builtins, "builtins", false, "Prepend the -h/--help and -v/--version commands")
	fs.BoolVar(&g.NoMain, "no-main", false, "Do not emit a main function")
	fs.StringVar(&g.Name, "program-name", "", "Program name for --version (default: main package name)")
	fs.StringVar(&g.Version, "program-version", "", "Program version for --version (default: module version)")
	fs.StringVar(&g.Author, "author", "", "Author for --version")
	fs.StringVarP(&g.OutputFile, "output", "o", "", "Output file (default: cmd_<table>.go)")
}

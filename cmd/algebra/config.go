package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// config holds settings for the command. A config file supplies defaults;
// flags given on the command line take precedence.
type config struct {
	Mode           string   `yaml:"mode"`
	Format         string   `yaml:"format"`
	Precision      int      `yaml:"precision"`
	Var            string   `yaml:"var"`
	Complex        bool     `yaml:"complex"`
	Range          string   `yaml:"range"`
	MaxDenominator int64    `yaml:"max_denominator"`
	PercentPlaces  int      `yaml:"percent_places"`
	Digits         int      `yaml:"digits"`
	Given          []string `yaml:"given"`
}

// loadConfig reads a YAML config file.
func loadConfig(name string) (*config, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*config, error) {
	var c config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for _, g := range c.Given {
		if _, _, err := splitGiven(g); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return &c, nil
}

// merge fills settings from the config file into cfg wherever the
// corresponding flag was not set explicitly. Config definitions of variables
// come before those from flags so that flags override them.
func (c *config) merge(cfg *config, fs *flag.FlagSet) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["mode"] && c.Mode != "" {
		cfg.Mode = c.Mode
	}
	if !set["fmt"] && c.Format != "" {
		cfg.Format = c.Format
	}
	if !set["p"] && c.Precision != 0 {
		cfg.Precision = c.Precision
	}
	if !set["var"] && c.Var != "" {
		cfg.Var = c.Var
	}
	if !set["complex"] && c.Complex {
		cfg.Complex = true
	}
	if !set["range"] && c.Range != "" {
		cfg.Range = c.Range
	}
	if !set["maxden"] && c.MaxDenominator != 0 {
		cfg.MaxDenominator = c.MaxDenominator
	}
	if !set["places"] && c.PercentPlaces != 0 {
		cfg.PercentPlaces = c.PercentPlaces
	}
	if !set["digits"] && c.Digits != 0 {
		cfg.Digits = c.Digits
	}
	cfg.Given = append(append([]string(nil), c.Given...), cfg.Given...)
}

// splitGiven splits a "name=value" variable definition.
func splitGiven(s string) (name, value string, err error) {
	d := strings.SplitN(s, "=", 2)
	if len(d) != 2 {
		return "", "", fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
	}
	return strings.TrimSpace(d[0]), strings.TrimSpace(d[1]), nil
}

// parseRange parses "min,max,n". n may be omitted for integer tables.
func parseRange(s string) (min, max float64, n int, err error) {
	f := strings.Split(s, ",")
	if len(f) < 2 || len(f) > 3 {
		return 0, 0, 0, fmt.Errorf(`range must be "min,max,n", not %q`, s)
	}
	if min, err = strconv.ParseFloat(strings.TrimSpace(f[0]), 64); err != nil {
		return 0, 0, 0, fmt.Errorf("range minimum: %w", err)
	}
	if max, err = strconv.ParseFloat(strings.TrimSpace(f[1]), 64); err != nil {
		return 0, 0, 0, fmt.Errorf("range maximum: %w", err)
	}
	n = 200
	if len(f) == 3 {
		if n, err = strconv.Atoi(strings.TrimSpace(f[2])); err != nil {
			return 0, 0, 0, fmt.Errorf("range points: %w", err)
		}
	}
	return min, max, n, nil
}

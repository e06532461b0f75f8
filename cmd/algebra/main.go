package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/zephyrtronium/algebra"
)

func main() {
	log.SetFlags(0)
	cfg := config{
		Mode:           "eval",
		Format:         "%g",
		Precision:      64,
		Range:          "-10,10,200",
		MaxDenominator: algebra.DefaultMaxDenominator,
		PercentPlaces:  algebra.PercentPlaces,
		Digits:         algebra.DefaultSignificantDigits,
	}
	var (
		inname, cfgname   string
		echo, interactive bool
	)
	addwith := func(s string) error {
		if _, _, err := splitGiven(s); err != nil {
			return err
		}
		cfg.Given = append(cfg.Given, s)
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file, one item per line (default stdin if no args given)")
	flag.StringVar(&cfg.Format, "fmt", cfg.Format, "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.IntVar(&cfg.Precision, "p", cfg.Precision, "precision of calculations in bits")
	flag.BoolVar(&echo, "echo", false, "print parsed input")
	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "what to do with each item: "+modeNames())
	flag.StringVar(&cfg.Var, "var", "", `variable to solve or sample for ("x,y" for systems)`)
	flag.BoolVar(&cfg.Complex, "complex", false, "report complex roots of quadratics")
	flag.StringVar(&cfg.Range, "range", cfg.Range, "sample range as min,max,n")
	flag.Int64Var(&cfg.MaxDenominator, "maxden", cfg.MaxDenominator, "largest denominator for fractions")
	flag.IntVar(&cfg.PercentPlaces, "places", cfg.PercentPlaces, "decimal places in percentages")
	flag.IntVar(&cfg.Digits, "digits", cfg.Digits, "significant digits in scientific notation")
	flag.StringVar(&cfgname, "config", "", "YAML file of default settings")
	flag.BoolVar(&interactive, "i", false, "read items interactively")
	flag.Parse()
	if cfgname != "" {
		c, err := loadConfig(cfgname)
		if err != nil {
			log.Fatal(err)
		}
		c.merge(&cfg, flag.CommandLine)
	}

	r, err := newRunner(&cfg)
	if err != nil {
		log.Fatal(err)
	}
	r.echo = echo
	if interactive {
		os.Exit(repl(r))
	}

	var items []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		items, err = lines(f)
		if err != nil {
			log.Fatal(err)
		}
	}
	items = append(items, flag.Args()...)

	for _, item := range items {
		out, err := r.do(item)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(out)
	}
}

func infile(inname string, std bool) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}

// lines reads the non-blank lines of r.
func lines(r io.Reader) ([]string, error) {
	var v []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		if t := strings.TrimSpace(s.Text()); t != "" {
			v = append(v, t)
		}
	}
	return v, s.Err()
}

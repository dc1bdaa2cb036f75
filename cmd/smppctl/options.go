package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/smppctl/internal/segment"
)

const defaultConfigPath = "cmd/smppctl/config.toml"

type options struct {
	ConfigPath  string
	To          string
	From        string
	Text        string
	Coding      segment.Coding
	Listen      bool
	MetricsAddr string
	PrintConfig string
}

func (o options) sending() bool { return o.To != "" }

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var opts options
	var coding string
	fs := flag.NewFlagSet("smppctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.ConfigPath, "config", defaultConfigPath, "client config (.toml, .yaml or .yml)")
	fs.StringVar(&opts.To, "to", "", "destination address; sends one message when set")
	fs.StringVar(&opts.From, "from", "", "source address (overrides config source.addr)")
	fs.StringVar(&opts.Text, "text", "", "message text")
	fs.StringVar(&coding, "coding", "gsm7", "data coding: gsm7|latin1|ucs2")
	fs.BoolVar(&opts.Listen, "listen", false, "stay bound and handle deliveries until interrupted")
	fs.StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve /health and /metrics on this address")
	fs.StringVar(&opts.PrintConfig, "print-config", "", "print the effective config as toml|yaml and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	c, err := segment.ParseCoding(strings.ToLower(strings.TrimSpace(coding)))
	if err != nil {
		return options{}, err
	}
	opts.Coding = c

	if opts.To == "" && opts.Text != "" {
		return options{}, errors.New("-text requires -to")
	}
	if opts.To != "" && opts.Text == "" {
		return options{}, errors.New("-to requires -text")
	}
	return opts, nil
}

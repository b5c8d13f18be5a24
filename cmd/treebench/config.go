// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"slices"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultStrategy   = "all"
	defaultCount      = 100000
	defaultKeyRange   = 1000000
	defaultDeletes    = 0.25
	defaultCheckEvery = 10000
	defaultDebugLevel = "info"
)

var strategies = []string{"redblack", "splay", "treap"}

// config defines the configuration options for treebench.
//
// See loadConfig for details on the configuration load process.
type config struct {
	Strategy   string  `long:"strategy" description:"Tree to exercise {redblack, splay, treap, all}"`
	Count      int     `short:"n" long:"count" description:"Number of operations to run against each tree"`
	KeyRange   int     `long:"keyrange" description:"Keys are drawn uniformly from [0, keyrange)"`
	Deletes    float64 `long:"deletes" description:"Fraction of operations that are deletes {0-1}"`
	Seed       uint64  `long:"seed" description:"Seed for the workload and treap priorities; 0 picks one at random"`
	CheckEvery int     `long:"checkevery" description:"Verify tree invariants every N operations; 0 disables"`
	DebugLevel string  `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	LogFile    string  `long:"logfile" description:"Also write the log to this file, rotating it as it grows"`
}

// selected returns the strategies named by cfg.Strategy.
func (cfg *config) selected() []string {
	if cfg.Strategy == "all" {
		return strategies
	}
	return []string{cfg.Strategy}
}

// loadConfig initializes and parses the config using command line options.
func loadConfig() (*config, []string, error) {
	// Default config.
	cfg := config{
		Strategy:   defaultStrategy,
		Count:      defaultCount,
		KeyRange:   defaultKeyRange,
		Deletes:    defaultDeletes,
		CheckEvery: defaultCheckEvery,
		DebugLevel: defaultDebugLevel,
	}

	// Parse command line options.
	parser := flags.NewParser(&cfg, flags.Default)
	remainingArgs, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	if err := cfg.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	return &cfg, remainingArgs, nil
}

// validate checks the parsed options for consistency.
func (cfg *config) validate() error {
	funcName := "loadConfig"
	if cfg.Strategy != "all" && !slices.Contains(strategies, cfg.Strategy) {
		str := "%s: the specified strategy [%v] is invalid -- " +
			"supported strategies %v"
		return fmt.Errorf(str, funcName, cfg.Strategy, append(slices.Clone(strategies), "all"))
	}
	if cfg.Count <= 0 {
		str := "%s: the operation count must be positive -- parsed [%v]"
		return fmt.Errorf(str, funcName, cfg.Count)
	}
	if cfg.KeyRange <= 0 {
		str := "%s: the key range must be positive -- parsed [%v]"
		return fmt.Errorf(str, funcName, cfg.KeyRange)
	}
	if cfg.Deletes < 0 || cfg.Deletes > 1 {
		str := "%s: the delete fraction is out of range -- parsed [%v]"
		return fmt.Errorf(str, funcName, cfg.Deletes)
	}
	if cfg.CheckEvery < 0 {
		str := "%s: the check interval must not be negative -- parsed [%v]"
		return fmt.Errorf(str, funcName, cfg.CheckEvery)
	}
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return fmt.Errorf("%s: %w", funcName, err)
	}
	return nil
}

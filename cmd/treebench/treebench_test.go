// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/require"
)

func validConfig() *config {
	return &config{
		Strategy:   defaultStrategy,
		Count:      2000,
		KeyRange:   500,
		Deletes:    defaultDeletes,
		Seed:       1,
		CheckEvery: 100,
		DebugLevel: "off",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().validate())

	for name, mutate := range map[string]func(*config){
		"strategy":   func(c *config) { c.Strategy = "avl" },
		"count":      func(c *config) { c.Count = 0 },
		"keyrange":   func(c *config) { c.KeyRange = -1 },
		"deletes":    func(c *config) { c.Deletes = 1.5 },
		"checkevery": func(c *config) { c.CheckEvery = -1 },
		"debuglevel": func(c *config) { c.DebugLevel = "loud" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			require.Error(t, cfg.validate())
		})
	}
}

func TestSelected(t *testing.T) {
	cfg := validConfig()
	require.Equal(t, []string{"redblack", "splay", "treap"}, cfg.selected())
	cfg.Strategy = "splay"
	require.Equal(t, []string{"splay"}, cfg.selected())
}

func TestParseAndSetDebugLevels(t *testing.T) {
	defer setLogLevels("off")

	require.NoError(t, parseAndSetDebugLevels("debug"))
	require.Equal(t, btclog.LevelDebug, tbchLog.Level())
	require.Equal(t, btclog.LevelDebug, omapLog.Level())

	require.NoError(t, parseAndSetDebugLevels("TBCH=warn,OMAP=trace"))
	require.Equal(t, btclog.LevelWarn, tbchLog.Level())
	require.Equal(t, btclog.LevelTrace, omapLog.Level())

	require.ErrorContains(t, parseAndSetDebugLevels("XXXX=info"), "supported subsystems [OMAP TBCH]")
	require.Error(t, parseAndSetDebugLevels("verbose"))
	require.Error(t, parseAndSetDebugLevels("TBCH=info,OMAP"))
	require.Error(t, parseAndSetDebugLevels("TBCH=loud"))
}

func TestRunStrategy(t *testing.T) {
	setLogLevels("off")
	cfg := validConfig()
	for _, name := range strategies {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, runStrategy(cfg, name, cfg.Seed))
		})
	}
}

func TestLogRotator(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "treebench.log")
	require.NoError(t, initLogRotator(logFile))
	defer func() {
		logRotator.Close()
		logRotator = nil
	}()

	setLogLevels("info")
	defer setLogLevels("off")
	tbchLog.Info("rotating")
	require.DirExists(t, filepath.Dir(logFile))
}

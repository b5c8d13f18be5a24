// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Treebench runs a randomized workload against the omap trees,
// verifying their invariants as it goes and reporting size, height
// and timing for each.
//
// Usage:
//
//	treebench [--strategy=redblack|splay|treap|all] [-n count] [--seed n] ...
package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/ordtree/omap"
)

// tree is the view of an omap tree the workload needs.
type tree interface {
	omap.Mapper[int, int]
	Check() error
}

func main() {
	os.Exit(treebenchMain())
}

func treebenchMain() int {
	cfg, _, err := loadConfig()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			return 0
		}
		return 1
	}
	if cfg.LogFile != "" {
		if err := initLogRotator(cfg.LogFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer logRotator.Close()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	tbchLog.Infof("Seed %d, %d operations per tree over keys [0, %d)",
		seed, cfg.Count, cfg.KeyRange)

	status := 0
	for _, name := range cfg.selected() {
		if err := runStrategy(cfg, name, seed); err != nil {
			tbchLog.Errorf("%s: %v", name, err)
			status = 1
		}
	}
	return status
}

// newTree returns an empty tree of the named strategy.
func newTree(name string, seed uint64) tree {
	switch name {
	case "redblack":
		return omap.NewRedBlack[int, int]()
	case "splay":
		return omap.NewSplay[int, int]()
	case "treap":
		return omap.NewTreap[int, int](omap.WithSource(rand.New(rand.NewPCG(seed, 1))))
	}
	panic("treebench: unknown strategy " + name)
}

func runStrategy(cfg *config, name string, seed uint64) error {
	t := newTree(name, seed)
	r := rand.New(rand.NewPCG(seed, 0))

	var sets, deletes int
	start := time.Now()
	for i := 1; i <= cfg.Count; i++ {
		k := r.IntN(cfg.KeyRange)
		if r.Float64() < cfg.Deletes {
			t.Delete(k)
			deletes++
		} else {
			t.Set(k, i)
			sets++
		}
		if cfg.CheckEvery > 0 && i%cfg.CheckEvery == 0 {
			if err := t.Check(); err != nil {
				return fmt.Errorf("after %d operations: %w", i, err)
			}
			tbchLog.Debugf("%s: %d operations, %d keys, height %d",
				name, i, t.Len(), t.Height())
		}
	}
	elapsed := time.Since(start)

	hits := 0
	lookupStart := time.Now()
	for range cfg.Count {
		if _, ok := t.Get(r.IntN(cfg.KeyRange)); ok {
			hits++
		}
	}
	lookups := time.Since(lookupStart)

	if err := t.Check(); err != nil {
		return err
	}
	tbchLog.Infof("%s: %d sets and %d deletes in %v (%v/op)",
		name, sets, deletes, elapsed, elapsed/time.Duration(cfg.Count))
	tbchLog.Infof("%s: %d lookups (%d hits) in %v (%v/op)",
		name, cfg.Count, hits, lookups, lookups/time.Duration(cfg.Count))
	tbchLog.Infof("%s: %d keys, height %d", name, t.Len(), t.Height())

	switch t := t.(type) {
	case *omap.Splay[int, int]:
		return exerciseSplay(t, r)
	case *omap.Treap[int, int]:
		return exerciseTreap(t, r)
	}
	return nil
}

// exerciseSplay splits the tree at one of its keys, joins it back, and samples it.
func exerciseSplay(t *omap.Splay[int, int], r *rand.Rand) error {
	if t.Len() == 0 {
		return nil
	}
	at, _ := t.Root()
	val, _ := t.Get(at)
	n := t.Len()
	start := time.Now()
	lo, hi := t.Split(at)
	nlo, nhi := lo.Len(), hi.Len()
	if nlo+nhi != n-1 {
		return fmt.Errorf("split at %d: %d + %d keys, want %d", at, nlo, nhi, n-1)
	}
	if err := lo.Join(hi); err != nil {
		return err
	}
	lo.Set(at, val)
	if err := lo.Check(); err != nil {
		return err
	}
	if lo.Len() != n {
		return fmt.Errorf("rejoined tree has %d keys, want %d", lo.Len(), n)
	}
	tbchLog.Infof("splay: split at %d into %d and %d keys and rejoined in %v",
		at, nlo, nhi, time.Since(start))

	k, v, ok := lo.Choose(r)
	if got, found := lo.Get(k); !ok || !found || got != v {
		return fmt.Errorf("Choose returned %d:%d, map holds %d, %v", k, v, got, found)
	}

	// Joining in the wrong order must be refused.
	other := omap.NewSplay[int, int]()
	other.Set(-1-r.IntN(10), 0)
	if err := lo.Join(other); !errors.Is(err, omap.ErrInvalidOrder) {
		return fmt.Errorf("join of unordered trees returned %v", err)
	}
	return nil
}

// exerciseTreap splits the tree at its median, joins it back, and samples it.
func exerciseTreap(t *omap.Treap[int, int], r *rand.Rand) error {
	n := t.Len()
	if n == 0 {
		return nil
	}
	median, _, _ := t.Kth(n / 2)
	start := time.Now()
	lo, hi := t.Split(median)
	if lo.Len() != n/2+1 || hi.Len() != n-n/2-1 {
		return fmt.Errorf("split at median %d: %d + %d keys", median, lo.Len(), hi.Len())
	}
	if err := lo.Join(hi); err != nil {
		return err
	}
	if err := lo.Check(); err != nil {
		return err
	}
	tbchLog.Infof("treap: split at median %d and rejoined in %v", median, time.Since(start))

	const draws = 1000
	start = time.Now()
	for range draws {
		k, v, ok := lo.Choose()
		if !ok {
			return fmt.Errorf("Choose of %d keys failed", lo.Len())
		}
		if got, ok := lo.Get(k); !ok || got != v {
			return fmt.Errorf("Choose returned %d:%d, map holds %d, %v", k, v, got, ok)
		}
	}
	tbchLog.Infof("treap: %d samples in %v", draws, time.Since(start))

	i := r.IntN(n)
	k, _, _ := lo.Kth(i)
	tbchLog.Debugf("treap: key %d has rank %d", k, i)
	return nil
}

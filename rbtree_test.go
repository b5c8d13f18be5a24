// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package omap

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedBlackDelete(t *testing.T) {
	m := NewRedBlack[int, string]()
	for _, k := range []int{5, 3, 8, 1, 4, 7, 9} {
		m.Set(k, "")
		require.NoError(t, m.Check(), "after Set(%d): %s", k, m.Dump())
	}
	m.Delete(3)
	require.NoError(t, m.Check(), "after Delete(3): %s", m.Dump())
	require.Equal(t, []int{1, 4, 5, 7, 8, 9}, slices.Collect(m.Keys()))
	require.Equal(t, 6, m.Len())
}

func TestRedBlackAscending(t *testing.T) {
	m := NewRedBlack[int, int]()
	for i := 1; i <= 7; i++ {
		m.Set(i, i)
	}
	require.NoError(t, m.Check())
	root, ok := m.Root()
	require.True(t, ok)
	require.Equal(t, 2, root, "tree: %s", m.Dump())
	require.Equal(t, 4, m.Height(), "tree: %s", m.Dump())
}

func TestRedBlackHeightBound(t *testing.T) {
	m := NewRedBlack[int, int]()
	const N = 1 << 12
	for i := range N {
		m.Set(i, i)
	}
	require.NoError(t, m.Check())
	// A red-black tree of n keys has height at most 2 log2(n+1).
	require.LessOrEqual(t, m.Height(), 2*13)

	for i := 0; i < N; i += 2 {
		m.Delete(i)
	}
	require.NoError(t, m.Check())
	require.Equal(t, N/2, m.Len())
	require.LessOrEqual(t, m.Height(), 2*12)
}

func TestRedBlackEveryDelete(t *testing.T) {
	// Delete each key in turn from a fresh tree, covering every
	// position a removed node can occupy.
	const N = 64
	perm := rand.New(rand.NewPCG(3, 4)).Perm(N)
	for _, k := range perm {
		m := NewRedBlack[int, int]()
		for _, x := range perm {
			m.Set(x, x)
		}
		m.Delete(k)
		require.NoError(t, m.Check(), "after Delete(%d): %s", k, m.Dump())
		_, ok := m.Get(k)
		require.False(t, ok)
		require.Equal(t, N-1, m.Len())
	}
}

func TestRedBlackCheck(t *testing.T) {
	m := NewRedBlack[int, int]()
	for _, k := range []int{2, 1, 3} {
		m.Set(k, k)
	}
	require.NoError(t, m.Check())

	m.root.red = true
	require.ErrorContains(t, m.Check(), "is red")
	m.root.red = false

	m.root.left.red = false
	require.ErrorContains(t, m.Check(), "black heights")
	m.root.left.red = true

	m.root.red = true
	m.root.parent = m.root.left
	require.ErrorContains(t, m.Check(), "has a parent")
}

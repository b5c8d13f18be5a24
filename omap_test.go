// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build go1.23

package omap

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// checkedMapper is a Mapper that can verify its own structure.
type checkedMapper[K, V any] interface {
	Mapper[K, V]
	Check() error
	Dump() string
}

var maps = []struct {
	name string
	new  func() checkedMapper[int, int]
}{
	{"redblack", func() checkedMapper[int, int] { return NewRedBlack[int, int]() }},
	{"splay", func() checkedMapper[int, int] { return NewSplay[int, int]() }},
	{"treap", func() checkedMapper[int, int] {
		return NewTreap[int, int](WithSource(rand.New(rand.NewPCG(1, 2))))
	}},
}

func forEachMap(t *testing.T, f func(t *testing.T, newMap func() checkedMapper[int, int])) {
	for _, m := range maps {
		t.Run(m.name, func(t *testing.T) { f(t, m.new) })
	}
}

func mustCheck[K, V any](t *testing.T, m checkedMapper[K, V]) {
	t.Helper()
	require.NoError(t, m.Check(), "tree: %s", m.Dump())
}

func Test(t *testing.T) {
	forEachMap(t, func(t *testing.T, newMap func() checkedMapper[int, int]) {
		for range 10 {
			const N = 10
			tr := newMap()
			perm := rand.Perm(N)
			inv := make([]int, N)
			for i, x := range perm {
				tr.Set(x, i)
				inv[x] = i
				mustCheck(t, tr)
			}
			require.Equal(t, N, tr.Len())

			for i, x := range perm {
				v, ok := tr.Get(x)
				require.True(t, ok, "Get(%d) missing", x)
				require.Equal(t, i, v, "Get(%d)", x)
			}

			var all []int
			for k, v := range tr.All() {
				require.Equal(t, inv[k], v, "All() value for %d", k)
				all = append(all, k)
				if len(all) > N+5 {
					break
				}
			}
			require.True(t, match(all, 0, N-1), "All() = %v, want 0..%d", all, N-1)

			for lo := -1; lo <= N; lo++ {
				for hi := lo; hi <= N; hi++ {
					var got []int
					for k, v := range tr.Scan(lo, hi) {
						require.Equal(t, inv[k], v, "Scan() value for %d", k)
						got = append(got, k)
						if len(got) > N+5 {
							break
						}
					}
					require.True(t, match(got, max(lo, 0), min(hi, N-1)),
						"Scan(%d, %d) = %v", lo, hi, got)
				}
			}

			for i, x := range perm {
				tr.Delete(x)
				mustCheck(t, tr)
				list := slices.Collect(tr.Keys())
				want := slices.Clone(perm[i+1:])
				slices.Sort(want)
				require.Equal(t, want, orEmpty(list), "after Delete %v", perm[:i+1])
				require.Equal(t, len(want), tr.Len())
			}
			require.Zero(t, tr.Height())
		}
	})
}

func match(xs []int, lo, hi int) bool {
	if len(xs) != hi+1-lo {
		return false
	}
	for i, x := range xs {
		if x != lo+i {
			return false
		}
	}
	return true
}

func orEmpty(xs []int) []int {
	if len(xs) == 0 {
		return []int{}
	}
	return xs
}

func TestOverwrite(t *testing.T) {
	forEachMap(t, func(t *testing.T, newMap func() checkedMapper[int, int]) {
		m := newMap()
		for _, k := range []int{5, 3, 8, 1, 4, 7, 9} {
			m.Set(k, k)
		}
		m.Set(4, 40)
		m.Set(9, 90)
		mustCheck(t, m)
		require.Equal(t, 7, m.Len())
		v, ok := m.Get(4)
		require.True(t, ok)
		require.Equal(t, 40, v)
		require.Equal(t, []Item[int, int]{
			{1, 1}, {3, 3}, {4, 40}, {5, 5}, {7, 7}, {8, 8}, {9, 90},
		}, Items[int, int](m))
	})
}

func TestMissing(t *testing.T) {
	forEachMap(t, func(t *testing.T, newMap func() checkedMapper[int, int]) {
		m := newMap()
		_, ok := m.Get(1)
		require.False(t, ok)
		m.Delete(1)
		require.Zero(t, m.Len())
		require.Zero(t, m.Height())
		_, _, ok = m.Min()
		require.False(t, ok)
		_, _, ok = m.Max()
		require.False(t, ok)

		for _, k := range []int{2, 4, 6} {
			m.Set(k, -k)
		}
		m.Delete(3)
		m.Delete(7)
		mustCheck(t, m)
		require.Equal(t, 3, m.Len())
		_, ok = m.Get(5)
		require.False(t, ok)
		require.Equal(t, []int{2, 4, 6}, slices.Collect(m.Keys()))

		k, v, ok := m.Min()
		require.True(t, ok)
		require.Equal(t, 2, k)
		require.Equal(t, -2, v)
		k, v, ok = m.Max()
		require.True(t, ok)
		require.Equal(t, 6, k)
		require.Equal(t, -6, v)
	})
}

func TestRandomOps(t *testing.T) {
	forEachMap(t, func(t *testing.T, newMap func() checkedMapper[int, int]) {
		r := rand.New(rand.NewPCG(7, 7))
		m := newMap()
		want := make(map[int]int)
		for i := range 5000 {
			k := r.IntN(500)
			switch r.IntN(3) {
			case 0, 1:
				m.Set(k, i)
				want[k] = i
			case 2:
				m.Delete(k)
				delete(want, k)
			}
			if i%97 == 0 {
				mustCheck(t, m)
			}
		}
		mustCheck(t, m)
		require.Equal(t, len(want), m.Len())
		for k, v := range m.All() {
			require.Equal(t, want[k], v, "value for %d", k)
		}
		keys := slices.Collect(m.Keys())
		require.True(t, slices.IsSorted(keys), "keys not sorted: %s", spew.Sdump(keys))
		require.Len(t, keys, len(want))
	})
}

func TestHeight(t *testing.T) {
	forEachMap(t, func(t *testing.T, newMap func() checkedMapper[int, int]) {
		m := newMap()
		require.Zero(t, m.Height())
		m.Set(1, 1)
		require.Equal(t, 1, m.Height())
		for i := range 1000 {
			m.Set(i, i)
		}
		h := m.Height()
		require.GreaterOrEqual(t, h, 10) // ceil(log2(1001))
		require.LessOrEqual(t, h, 1000)
	})
}

func TestFuncOrder(t *testing.T) {
	byLen := func(a, b string) int {
		if c := len(a) - len(b); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	}
	words := []string{"pear", "fig", "banana", "kiwi", "apple", "plum", "date"}
	want := slices.Clone(words)
	slices.SortFunc(want, byLen)

	for name, m := range map[string]checkedMapper[string, int]{
		"redblack": NewRedBlackFunc[string, int](byLen),
		"splay":    NewSplayFunc[string, int](byLen),
		"treap":    NewTreapFunc[string, int](byLen),
	} {
		t.Run(name, func(t *testing.T) {
			for i, w := range words {
				m.Set(w, i)
			}
			mustCheck(t, m)
			require.Equal(t, want, slices.Collect(m.Keys()))

			var got []string
			for k := range m.Scan("fig", "kiwi") {
				got = append(got, k)
			}
			require.Equal(t, []string{"fig", "date", "kiwi"}, got)
		})
	}
}

func TestIterStop(t *testing.T) {
	forEachMap(t, func(t *testing.T, newMap func() checkedMapper[int, int]) {
		m := newMap()
		for i := range 100 {
			m.Set(i, i)
		}
		n := 0
		for k := range m.Keys() {
			if k == 9 {
				break
			}
			n++
		}
		require.Equal(t, 9, n)
	})
}

func TestNilDelete(t *testing.T) {
	for name, m := range map[string]Mapper[int, int]{
		"redblack": (*RedBlack[int, int])(nil),
		"splay":    (*Splay[int, int])(nil),
		"treap":    (*Treap[int, int])(nil),
	} {
		t.Run(name, func(t *testing.T) {
			require.NotPanics(t, func() { m.Delete(1) })
			_, ok := m.Get(1)
			require.False(t, ok)
			require.Zero(t, m.Len())
			require.Zero(t, m.Height())
			require.Empty(t, Items(m))
		})
	}
}

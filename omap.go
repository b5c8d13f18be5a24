// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package omap implements in-memory ordered maps backed by three
// self-balancing binary search trees:
//
//   - [RedBlack] keeps every operation O(log n) in the worst case.
//   - [Splay] moves each accessed key to the root, giving amortized O(log n),
//     and supports [Splay.Split] and [Splay.Join].
//   - [Treap] balances through random heap priorities, giving expected
//     O(log n), and adds [Treap.Kth] and [Treap.Choose] on top of
//     split and join.
//
// All three implement [Mapper]. The New* constructors order keys by their
// standard Go ordering; the New*Func constructors take a comparison function
// and accept arbitrary key types.
//
// Deleting a key may move another key's entry into the deleted key's node,
// so no node identity is stable across deletes. None is exposed.
//
// Maps are not safe for concurrent use.
package omap

import (
	"fmt"
	"iter"
)

// A Mapper is an ordered map from K to V.
type Mapper[K, V any] interface {
	// Set sets m[key] = val, replacing any existing value.
	Set(key K, val V)
	// Delete deletes m[key]. Deleting a missing key is a no-op.
	Delete(key K)
	// Get returns m[key] and whether it was present.
	Get(key K) (val V, ok bool)
	// Len returns the number of keys.
	Len() int
	// All returns an iterator over the map in ascending key order.
	All() iter.Seq2[K, V]
	// Keys returns an iterator over the keys in ascending order.
	Keys() iter.Seq[K]
	// Scan returns an iterator over keys k with lo ≤ k ≤ hi.
	Scan(lo, hi K) iter.Seq2[K, V]
	// Min returns the smallest key and its value.
	Min() (key K, val V, ok bool)
	// Max returns the largest key and its value.
	Max() (key K, val V, ok bool)
	// Height returns the number of nodes on the longest root-to-leaf path,
	// or 0 for an empty map.
	Height() int
}

var (
	_ Mapper[int, int] = (*RedBlack[int, int])(nil)
	_ Mapper[int, int] = (*Splay[int, int])(nil)
	_ Mapper[int, int] = (*Treap[int, int])(nil)
)

// An Item is a key-value pair.
type Item[K, V any] struct {
	Key K
	Val V
}

// Items returns a snapshot of m's entries in ascending key order.
func Items[K, V any](m Mapper[K, V]) []Item[K, V] {
	items := make([]Item[K, V], 0, m.Len())
	for k, v := range m.All() {
		items = append(items, Item[K, V]{k, v})
	}
	return items
}

// The helpers below are shared by the three trees. N is a node pointer type,
// its zero value is the empty subtree, and kids returns a node's children.
// They never recurse, so long unbalanced chains (a splay tree before it
// adjusts) cannot exhaust the goroutine stack.

// inorder calls yield on each node of the tree rooted at root in ascending
// order until yield returns false.
func inorder[N comparable](root N, kids func(N) (N, N), yield func(N) bool) {
	var zero N
	var stack []N
	for x := root; x != zero; x, _ = kids(x) {
		stack = append(stack, x)
	}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !yield(x) {
			return
		}
		_, right := kids(x)
		for y := right; y != zero; y, _ = kids(y) {
			stack = append(stack, y)
		}
	}
}

// scan is inorder restricted to nodes whose key lies in [lo, hi].
func scan[N comparable, K any](root N, kids func(N) (N, N), key func(N) K, cmp func(K, K) int, lo, hi K, yield func(N) bool) {
	var zero N
	var stack []N
	for x := root; x != zero; {
		left, right := kids(x)
		if cmp(key(x), lo) >= 0 {
			stack = append(stack, x)
			x = left
		} else {
			x = right
		}
	}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cmp(key(x), hi) > 0 || !yield(x) {
			return
		}
		_, right := kids(x)
		for y := right; y != zero; y, _ = kids(y) {
			stack = append(stack, y)
		}
	}
}

// height returns the number of levels in the tree rooted at root.
func height[N comparable](root N, kids func(N) (N, N)) int {
	var zero N
	h := 0
	var next []N
	for level := []N{root}; root != zero && len(level) > 0; level, next = next, level[:0] {
		h++
		for _, x := range level {
			left, right := kids(x)
			if left != zero {
				next = append(next, left)
			}
			if right != zero {
				next = append(next, right)
			}
		}
	}
	return h
}

// keys adapts an All iterator to a key-only iterator.
func keys[K, V any](all iter.Seq2[K, V]) iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range all {
			if !yield(k) {
				return
			}
		}
	}
}

// checkOrder verifies that all yields exactly n keys in strictly ascending
// order.
func checkOrder[K, V any](all iter.Seq2[K, V], cmp func(K, K) int, n int) error {
	count := 0
	var prev K
	for k := range all {
		if count > 0 && cmp(prev, k) >= 0 {
			return fmt.Errorf("keys %v and %v out of order", prev, k)
		}
		prev = k
		count++
	}
	if count != n {
		return fmt.Errorf("tree holds %d keys, want %d", count, n)
	}
	return nil
}

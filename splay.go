// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package omap

// The implementation is a bottom-up splay tree. See:
// https://en.wikipedia.org/wiki/Splay_tree
// https://www.cs.cmu.edu/~sleator/papers/self-adjusting.pdf

import (
	"bytes"
	"cmp"
	"fmt"
	"iter"
)

// A Splay is an ordered map stored as a splay tree.
// Set, Delete and Get move the accessed key (or the last key examined
// on a miss) to the root, so a sequence of m operations on a map of
// n keys takes O(m log n) time.
// All, Keys, Scan, Min and Max do not restructure the tree.
type Splay[K, V any] struct {
	root *snode[K, V]
	size int
	cmp  func(K, K) int
}

type snode[K, V any] struct {
	parent *snode[K, V]
	left   *snode[K, V]
	right  *snode[K, V]
	key    K
	val    V
}

// NewSplay returns an empty Splay ordered by K's standard ordering.
func NewSplay[K cmp.Ordered, V any]() *Splay[K, V] {
	return &Splay[K, V]{cmp: cmp.Compare[K]}
}

// NewSplayFunc returns an empty Splay ordered by cmp.
func NewSplayFunc[K, V any](cmp func(K, K) int) *Splay[K, V] {
	return &Splay[K, V]{cmp: cmp}
}

func (x *snode[K, V]) kids() (left, right *snode[K, V]) {
	return x.left, x.right
}

func (t *Splay[K, V]) setRoot(x *snode[K, V]) {
	t.root = x
	if x != nil {
		x.parent = nil
	}
}

func (x *snode[K, V]) setLeft(y *snode[K, V]) {
	x.left = y
	if y != nil {
		y.parent = x
	}
}

func (x *snode[K, V]) setRight(y *snode[K, V]) {
	x.right = y
	if y != nil {
		y.parent = x
	}
}

func (t *Splay[K, V]) replaceChild(p, old, x *snode[K, V]) {
	switch {
	case p == nil:
		if t.root != old {
			panic("omap: corrupt splay tree")
		}
		t.setRoot(x)
	case p.left == old:
		p.setLeft(x)
	case p.right == old:
		p.setRight(x)
	default:
		panic("omap: corrupt splay tree")
	}
}

// rotateLeft rotates the subtree rooted at node x,
// turning (x a (y b c)) into (y (x a b) c).
func (t *Splay[K, V]) rotateLeft(x *snode[K, V]) {
	p := x.parent
	y := x.right
	b := y.left

	y.setLeft(x)
	x.setRight(b)
	t.replaceChild(p, x, y)
}

// rotateRight rotates the subtree rooted at node y,
// turning (y (x a b) c) into (x a (y b c)).
func (t *Splay[K, V]) rotateRight(y *snode[K, V]) {
	p := y.parent
	x := y.left
	b := x.right

	x.setRight(y)
	y.setLeft(b)
	t.replaceChild(p, y, x)
}

// splay rotates x up to the root.
func (t *Splay[K, V]) splay(x *snode[K, V]) {
	for p := x.parent; p != nil; p = x.parent {
		g := p.parent
		switch {
		case g == nil: // zig
			if p.left == x {
				t.rotateRight(p)
			} else {
				t.rotateLeft(p)
			}
		case g.left == p && p.left == x: // zig-zig
			t.rotateRight(g)
			t.rotateRight(p)
		case g.right == p && p.right == x: // zig-zig
			t.rotateLeft(g)
			t.rotateLeft(p)
		case g.left == p && p.right == x: // zig-zag
			t.rotateLeft(p)
			t.rotateRight(g)
		case g.right == p && p.left == x: // zig-zag
			t.rotateRight(p)
			t.rotateLeft(g)
		default:
			panic("omap: corrupt splay tree")
		}
	}
}

// search returns the node holding key, or nil, along with the last node
// examined before the search ended.
func (t *Splay[K, V]) search(key K) (x, last *snode[K, V]) {
	for x = t.root; x != nil; {
		c := t.cmp(key, x.key)
		if c == 0 {
			return x, last
		}
		last = x
		if c < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}
	return nil, last
}

// Get returns m[key] and whether it was present.
// The key, or the last key examined when it is missing, becomes the root.
func (t *Splay[K, V]) Get(key K) (val V, ok bool) {
	if t == nil {
		return
	}
	x, last := t.search(key)
	if x == nil {
		if last != nil {
			t.splay(last)
		}
		return
	}
	t.splay(x)
	return x.val, true
}

// Set sets m[key] = val and moves key to the root.
func (t *Splay[K, V]) Set(key K, val V) {
	x, parent := t.search(key)
	if x != nil {
		x.val = val
		t.splay(x)
		return
	}
	x = &snode[K, V]{key: key, val: val}
	switch {
	case parent == nil:
		t.setRoot(x)
	case t.cmp(key, parent.key) < 0:
		parent.setLeft(x)
	default:
		parent.setRight(x)
	}
	t.size++
	t.splay(x)
}

// Delete deletes m[key]. Afterward the parent of the deleted key's node,
// or the last key examined when key is missing, becomes the root.
func (t *Splay[K, V]) Delete(key K) {
	if t == nil {
		return
	}
	x, last := t.search(key)
	if x == nil {
		if last != nil {
			t.splay(last)
		}
		return
	}
	t.size--

	// Replace x's entry with its successor's (or predecessor's) and
	// unlink that node instead; it has at most one child.
	y, child := x.right, (*snode[K, V])(nil)
	if y != nil {
		for y.left != nil {
			y = y.left
		}
		child = y.right
	} else if y = x.left; y != nil {
		for y.right != nil {
			y = y.right
		}
		child = y.left
	} else {
		y = x
	}
	x.key, x.val = y.key, y.val
	t.replaceChild(y.parent, y, child)

	if last != nil {
		t.splay(last)
	}
}

// Split splits the map around key. The returned lo holds the keys less
// than key and hi the keys greater than key; key itself and any value it
// had are dropped. m is left empty.
//
// Split counts the keys in lo, so it takes time proportional to lo's size
// in addition to the splay.
func (t *Splay[K, V]) Split(key K) (lo, hi *Splay[K, V]) {
	var zero V
	t.Set(key, zero)

	mid := t.root
	lo = &Splay[K, V]{cmp: t.cmp}
	hi = &Splay[K, V]{cmp: t.cmp}
	lo.setRoot(mid.left)
	hi.setRoot(mid.right)
	mid.left, mid.right = nil, nil

	inorder(lo.root, (*snode[K, V]).kids, func(*snode[K, V]) bool {
		lo.size++
		return true
	})
	hi.size = t.size - 1 - lo.size
	t.root, t.size = nil, 0

	log.Tracef("Split splay tree at %v into %d and %d keys", key, lo.size, hi.size)
	log.Tracef("Split halves: %v %v", newLogClosure(lo.Dump), newLogClosure(hi.Dump))
	return lo, hi
}

// Join moves all of more's keys into m, leaving more empty.
// Every key in m must be less than every key in more;
// otherwise Join returns an error wrapping ErrInvalidOrder
// and changes neither map.
func (t *Splay[K, V]) Join(more *Splay[K, V]) error {
	if t == more {
		panic("omap: Join of Splay with itself")
	}
	maxKey, _, ok := t.Max()
	minKey, _, moreOK := more.Min()
	if err := checkJoin(t.cmp, maxKey, ok, minKey, moreOK); err != nil {
		return err
	}
	if more.root == nil {
		return nil
	}

	x := more.root
	for x.left != nil {
		x = x.left
	}
	more.splay(x)
	x.setLeft(t.root)
	t.setRoot(x)
	t.size += more.size
	more.root, more.size = nil, 0

	log.Tracef("Joined splay trees into %d keys", t.size)
	return nil
}

// Choose returns a key and its value chosen uniformly at random using src.
// It reports false if the map is empty. The tree is not restructured.
//
// Splay nodes do not track subtree sizes, so Choose walks the tree in order
// to the chosen index and takes time proportional to that index.
func (t *Splay[K, V]) Choose(src Source) (key K, val V, ok bool) {
	n := t.Len()
	if n == 0 {
		return
	}
	i := src.IntN(n)
	inorder(t.root, (*snode[K, V]).kids, func(x *snode[K, V]) bool {
		if i > 0 {
			i--
			return true
		}
		key, val, ok = x.key, x.val, true
		return false
	})
	return
}

// Len returns the number of keys in the map.
func (t *Splay[K, V]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Height returns the height of the tree.
func (t *Splay[K, V]) Height() int {
	if t == nil {
		return 0
	}
	return height(t.root, (*snode[K, V]).kids)
}

// Root returns the key stored at the root of the tree,
// which is the most recently accessed key.
func (t *Splay[K, V]) Root() (key K, ok bool) {
	if t == nil || t.root == nil {
		return
	}
	return t.root.key, true
}

// Min returns the smallest key in the map.
func (t *Splay[K, V]) Min() (key K, val V, ok bool) {
	if t == nil || t.root == nil {
		return
	}
	x := t.root
	for x.left != nil {
		x = x.left
	}
	return x.key, x.val, true
}

// Max returns the largest key in the map.
func (t *Splay[K, V]) Max() (key K, val V, ok bool) {
	if t == nil || t.root == nil {
		return
	}
	x := t.root
	for x.right != nil {
		x = x.right
	}
	return x.key, x.val, true
}

// All returns an iterator over the map in ascending key order.
// The map must not be modified during the iteration.
func (t *Splay[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t == nil {
			return
		}
		inorder(t.root, (*snode[K, V]).kids, func(x *snode[K, V]) bool {
			return yield(x.key, x.val)
		})
	}
}

// Keys returns an iterator over the keys in ascending order.
func (t *Splay[K, V]) Keys() iter.Seq[K] {
	return keys(t.All())
}

// Scan returns an iterator over the map
// limited to keys k satisfying lo ≤ k ≤ hi.
// The map must not be modified during the iteration.
func (t *Splay[K, V]) Scan(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t == nil {
			return
		}
		scan(t.root, (*snode[K, V]).kids, func(x *snode[K, V]) K { return x.key }, t.cmp, lo, hi,
			func(x *snode[K, V]) bool {
				return yield(x.key, x.val)
			})
	}
}

// Check verifies the search order and parent links of the tree.
func (t *Splay[K, V]) Check() error {
	if t.root != nil && t.root.parent != nil {
		return fmt.Errorf("root %v has a parent", t.root.key)
	}
	var err error
	inorder(t.root, (*snode[K, V]).kids, func(x *snode[K, V]) bool {
		if x.left != nil && x.left.parent != x {
			err = fmt.Errorf("left child %v of %v has wrong parent", x.left.key, x.key)
		}
		if x.right != nil && x.right.parent != x {
			err = fmt.Errorf("right child %v of %v has wrong parent", x.right.key, x.key)
		}
		return err == nil
	})
	if err != nil {
		return err
	}
	return checkOrder(t.All(), t.cmp, t.size)
}

// Dump returns a parenthesized rendering of the tree.
func (t *Splay[K, V]) Dump() string {
	var buf bytes.Buffer
	var walk func(*snode[K, V])
	walk = func(x *snode[K, V]) {
		if x == nil {
			fmt.Fprintf(&buf, "nil")
			return
		}
		fmt.Fprintf(&buf, "(%v:%v ", x.key, x.val)
		walk(x.left)
		fmt.Fprintf(&buf, " ")
		walk(x.right)
		fmt.Fprintf(&buf, ")")
	}
	walk(t.root)
	return buf.String()
}

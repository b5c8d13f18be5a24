// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package omap

import (
	"bytes"
	"cmp"
	"fmt"
	"iter"
)

// A RedBlack is an ordered map stored as a red-black tree.
// Set, Delete and Get take O(log n) time in the worst case.
type RedBlack[K, V any] struct {
	root *rbnode[K, V]
	size int
	cmp  func(K, K) int
}

// An rbnode is a node in the red-black tree.
type rbnode[K, V any] struct {
	parent *rbnode[K, V]
	left   *rbnode[K, V]
	right  *rbnode[K, V]
	red    bool
	key    K
	val    V
}

// NewRedBlack returns an empty RedBlack ordered by K's standard ordering.
func NewRedBlack[K cmp.Ordered, V any]() *RedBlack[K, V] {
	return &RedBlack[K, V]{cmp: cmp.Compare[K]}
}

// NewRedBlackFunc returns an empty RedBlack ordered by cmp.
func NewRedBlackFunc[K, V any](cmp func(K, K) int) *RedBlack[K, V] {
	return &RedBlack[K, V]{cmp: cmp}
}

func (x *rbnode[K, V]) kids() (left, right *rbnode[K, V]) {
	return x.left, x.right
}

func (x *rbnode[K, V]) isRed() bool {
	if x == nil {
		return false
	}
	return x.red
}

func (t *RedBlack[K, V]) setRoot(x *rbnode[K, V]) {
	t.root = x
	if x != nil {
		x.parent = nil
	}
}

func (x *rbnode[K, V]) setLeft(y *rbnode[K, V]) {
	x.left = y
	if y != nil {
		y.parent = x
	}
}

func (x *rbnode[K, V]) setRight(y *rbnode[K, V]) {
	x.right = y
	if y != nil {
		y.parent = x
	}
}

func (t *RedBlack[K, V]) replaceChild(p, old, x *rbnode[K, V]) {
	switch {
	case p == nil:
		if t.root != old {
			panic("omap: corrupt red-black tree")
		}
		t.setRoot(x)
	case p.left == old:
		p.setLeft(x)
	case p.right == old:
		p.setRight(x)
	default:
		panic("omap: corrupt red-black tree")
	}
}

// rotateLeft rotates the subtree rooted at node x,
// turning (x a (y b c)) into (y (x a b) c).
func (t *RedBlack[K, V]) rotateLeft(x *rbnode[K, V]) *rbnode[K, V] {
	p := x.parent
	y := x.right
	b := y.left

	y.setLeft(x)
	x.setRight(b)
	t.replaceChild(p, x, y)
	return y
}

// rotateRight rotates the subtree rooted at node y,
// turning (y (x a b) c) into (x a (y b c)).
func (t *RedBlack[K, V]) rotateRight(y *rbnode[K, V]) *rbnode[K, V] {
	p := y.parent
	x := y.left
	b := x.right

	x.setRight(y)
	y.setLeft(b)
	t.replaceChild(p, y, x)
	return x
}

func (t *RedBlack[K, V]) get(key K) *rbnode[K, V] {
	if t == nil {
		return nil
	}
	x := t.root
	for x != nil {
		c := t.cmp(key, x.key)
		if c == 0 {
			return x
		}
		if c < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}
	return nil
}

func (t *RedBlack[K, V]) locate(key K) (pos **rbnode[K, V], parent *rbnode[K, V]) {
	pos, x := &t.root, t.root
	for x != nil {
		c := t.cmp(key, x.key)
		if c == 0 {
			break
		}
		parent = x
		if c < 0 {
			pos, x = &x.left, x.left
		} else {
			pos, x = &x.right, x.right
		}
	}
	return pos, parent
}

// Get returns m[key] and whether it was present.
func (t *RedBlack[K, V]) Get(key K) (val V, ok bool) {
	x := t.get(key)
	if x == nil {
		return
	}
	return x.val, true
}

// Set sets m[key] = val.
func (t *RedBlack[K, V]) Set(key K, val V) {
	pos, parent := t.locate(key)
	if x := *pos; x != nil {
		x.val = val
		return
	}
	x := &rbnode[K, V]{key: key, val: val, parent: parent, red: true}
	*pos = x
	t.size++
	t.insertFixup(x)
}

// insertFixup restores the coloring after x was added as a red leaf.
func (t *RedBlack[K, V]) insertFixup(x *rbnode[K, V]) {
	for {
		p := x.parent
		if p == nil {
			x.red = false
			return
		}
		if !p.red {
			return
		}
		// A red parent is never the root.
		g := p.parent
		if g == nil {
			panic("omap: corrupt red-black tree: red root")
		}
		u := g.left
		if u == p {
			u = g.right
		}
		if u.isRed() {
			p.red = false
			u.red = false
			g.red = true
			x = g
			continue
		}

		// Turn an inner grandchild into an outer one.
		switch {
		case x == p.right && p == g.left:
			t.rotateLeft(p)
			x, p = p, x
		case x == p.left && p == g.right:
			t.rotateRight(p)
			x, p = p, x
		}

		p.red = false
		g.red = true
		switch {
		case x == p.left && p == g.left:
			t.rotateRight(g)
		case x == p.right && p == g.right:
			t.rotateLeft(g)
		default:
			panic("omap: corrupt red-black tree: bad insert shape")
		}
		return
	}
}

// Delete deletes m[key].
func (t *RedBlack[K, V]) Delete(key K) {
	x := t.get(key)
	if x == nil {
		return
	}
	t.size--

	// The node unlinked is x's successor, or x itself when x has no
	// right subtree. Its entry moves into x first.
	y := x.right
	if y == nil {
		y = x
	} else {
		for y.left != nil {
			y = y.left
		}
	}
	x.key, x.val = y.key, y.val
	t.unlink(y)
}

// unlink removes y, which has at most one child, from the tree.
func (t *RedBlack[K, V]) unlink(y *rbnode[K, V]) {
	if y.left != nil && y.right != nil {
		panic("omap: corrupt red-black tree: unlink of full node")
	}
	child := y.left
	if child == nil {
		child = y.right
	}
	if child != nil {
		// A lone child balances black height only if it is red
		// and y is black.
		if !child.red || y.red {
			panic("omap: corrupt red-black tree: bad lone child")
		}
		t.replaceChild(y.parent, y, child)
		child.red = false
		return
	}
	if y.parent == nil {
		t.setRoot(nil)
		return
	}
	if !y.red {
		t.deleteFixup(y)
	}
	t.replaceChild(y.parent, y, nil)
}

// deleteFixup resolves the missing black at x, a black node that is still
// linked into the tree and is about to be removed or absorb a deficit.
func (t *RedBlack[K, V]) deleteFixup(x *rbnode[K, V]) {
	for x != t.root && !x.red {
		p := x.parent
		if x == p.left {
			s := p.right
			if s == nil {
				panic("omap: corrupt red-black tree: missing sibling")
			}
			if s.red {
				s.red = false
				p.red = true
				t.rotateLeft(p)
				continue
			}
			if !s.left.isRed() && !s.right.isRed() {
				s.red = true
				if !p.red {
					x = p
					continue
				}
				p.red = false
				return
			}
			if !s.right.isRed() {
				s.left.red = false
				s.red = true
				s = t.rotateRight(s)
			}
			s.red = p.red
			p.red = false
			s.right.red = false
			t.rotateLeft(p)
			return
		}

		s := p.left
		if s == nil {
			panic("omap: corrupt red-black tree: missing sibling")
		}
		if s.red {
			s.red = false
			p.red = true
			t.rotateRight(p)
			continue
		}
		if !s.left.isRed() && !s.right.isRed() {
			s.red = true
			if !p.red {
				x = p
				continue
			}
			p.red = false
			return
		}
		if !s.left.isRed() {
			s.right.red = false
			s.red = true
			s = t.rotateLeft(s)
		}
		s.red = p.red
		p.red = false
		s.left.red = false
		t.rotateRight(p)
		return
	}
	x.red = false
}

// Len returns the number of keys in the map.
func (t *RedBlack[K, V]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Height returns the height of the tree.
func (t *RedBlack[K, V]) Height() int {
	if t == nil {
		return 0
	}
	return height(t.root, (*rbnode[K, V]).kids)
}

// Root returns the key stored at the root of the tree.
func (t *RedBlack[K, V]) Root() (key K, ok bool) {
	if t == nil || t.root == nil {
		return
	}
	return t.root.key, true
}

// Min returns the smallest key in the map.
func (t *RedBlack[K, V]) Min() (key K, val V, ok bool) {
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
func (t *RedBlack[K, V]) Max() (key K, val V, ok bool) {
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
func (t *RedBlack[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t == nil {
			return
		}
		inorder(t.root, (*rbnode[K, V]).kids, func(x *rbnode[K, V]) bool {
			return yield(x.key, x.val)
		})
	}
}

// Keys returns an iterator over the keys in ascending order.
func (t *RedBlack[K, V]) Keys() iter.Seq[K] {
	return keys(t.All())
}

// Scan returns an iterator over the map
// limited to keys k satisfying lo ≤ k ≤ hi.
// The map must not be modified during the iteration.
func (t *RedBlack[K, V]) Scan(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t == nil {
			return
		}
		scan(t.root, (*rbnode[K, V]).kids, func(x *rbnode[K, V]) K { return x.key }, t.cmp, lo, hi,
			func(x *rbnode[K, V]) bool {
				return yield(x.key, x.val)
			})
	}
}

// Check verifies the search order, parent links and red-black coloring of
// the tree and returns the first violation found.
func (t *RedBlack[K, V]) Check() error {
	if t.root == nil {
		if t.size != 0 {
			return fmt.Errorf("empty tree has size %d", t.size)
		}
		return nil
	}
	if t.root.parent != nil {
		return fmt.Errorf("root %v has a parent", t.root.key)
	}
	if t.root.red {
		return fmt.Errorf("root %v is red", t.root.key)
	}
	if _, err := t.root.check(); err != nil {
		return err
	}
	return checkOrder(t.All(), t.cmp, t.size)
}

// check returns the black height of the subtree rooted at x.
func (x *rbnode[K, V]) check() (int, error) {
	if x == nil {
		return 0, nil
	}
	for _, c := range []*rbnode[K, V]{x.left, x.right} {
		if c == nil {
			continue
		}
		if c.parent != x {
			return 0, fmt.Errorf("child %v of %v has wrong parent", c.key, x.key)
		}
		if x.red && c.red {
			return 0, fmt.Errorf("red node %v has red child %v", x.key, c.key)
		}
	}
	lh, err := x.left.check()
	if err != nil {
		return 0, err
	}
	rh, err := x.right.check()
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("node %v has black heights %d and %d", x.key, lh, rh)
	}
	if !x.red {
		lh++
	}
	return lh, nil
}

// Dump returns a parenthesized rendering of the tree.
func (t *RedBlack[K, V]) Dump() string {
	var buf bytes.Buffer
	var walk func(*rbnode[K, V])
	walk = func(x *rbnode[K, V]) {
		if x == nil {
			fmt.Fprintf(&buf, "nil")
			return
		}
		fmt.Fprintf(&buf, "(")
		if x.red {
			fmt.Fprintf(&buf, "RED ")
		}
		fmt.Fprintf(&buf, "%v:%v", x.key, x.val)
		if x.left != nil || x.right != nil {
			fmt.Fprintf(&buf, " ")
			walk(x.left)
			fmt.Fprintf(&buf, " ")
			walk(x.right)
		}
		fmt.Fprintf(&buf, ")")
	}
	walk(t.root)
	return buf.String()
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package omap

// The implementation is a treap. See:
// https://en.wikipedia.org/wiki/Treap
// https://faculty.washington.edu/aragon/pubs/rst89.pdf

import (
	"bytes"
	"cmp"
	"fmt"
	"iter"
	"math"
	"math/rand/v2"
)

// A Source supplies the randomness used by a Treap.
// *rand.Rand from math/rand/v2 implements Source.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	// A Treap panics on any other value, NaN included.
	Float64() float64
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

// globalSource draws from the math/rand/v2 top-level generator.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) IntN(n int) int   { return rand.IntN(n) }

// An Option configures a Treap.
type Option func(*treapOptions)

type treapOptions struct {
	src Source
}

// WithSource makes the Treap draw priorities and samples from src.
// A seeded source makes the tree shape reproducible.
func WithSource(src Source) Option {
	return func(o *treapOptions) {
		o.src = src
	}
}

// A Treap is an ordered map stored as a treap: a search tree on keys that
// is also a max-heap on random per-node priorities.
// Set, Delete and Get take expected O(log n) time.
// Every node tracks the size of its subtree, so Len, Min and Max are O(1)
// and Kth is O(log n).
type Treap[K, V any] struct {
	root *tnode[K, V]
	cmp  func(K, K) int
	src  Source
}

type tnode[K, V any] struct {
	left   *tnode[K, V]
	right  *tnode[K, V]
	min    *tnode[K, V] // leftmost node in subtree
	max    *tnode[K, V] // rightmost node in subtree
	weight int          // nodes in subtree
	pri    float64
	sep    bool // separator used by Split and Join; has no key
	key    K
	val    V
}

// NewTreap returns an empty Treap ordered by K's standard ordering.
func NewTreap[K cmp.Ordered, V any](opts ...Option) *Treap[K, V] {
	return NewTreapFunc[K, V](cmp.Compare[K], opts...)
}

// NewTreapFunc returns an empty Treap ordered by cmp.
func NewTreapFunc[K, V any](cmp func(K, K) int, opts ...Option) *Treap[K, V] {
	o := treapOptions{src: globalSource{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Treap[K, V]{cmp: cmp, src: o.src}
}

// empty returns a new empty Treap sharing t's ordering and randomness.
func (t *Treap[K, V]) empty() *Treap[K, V] {
	return &Treap[K, V]{cmp: t.cmp, src: t.src}
}

func (x *tnode[K, V]) kids() (left, right *tnode[K, V]) {
	return x.left, x.right
}

func (x *tnode[K, V]) size() int {
	if x == nil {
		return 0
	}
	return x.weight
}

// update recomputes x's summary fields from its children.
func (x *tnode[K, V]) update() {
	x.weight, x.min, x.max = 1, x, x
	if x.left != nil {
		x.weight += x.left.weight
		x.min = x.left.min
	}
	if x.right != nil {
		x.weight += x.right.weight
		x.max = x.right.max
	}
}

// rotateRight turns (y (x a b) c) into (x a (y b c)) and returns x.
func (y *tnode[K, V]) rotateRight() *tnode[K, V] {
	x := y.left
	y.left = x.right
	x.right = y
	y.update()
	x.update()
	return x
}

// rotateLeft turns (x a (y b c)) into (y (x a b) c) and returns y.
func (x *tnode[K, V]) rotateLeft() *tnode[K, V] {
	y := x.right
	x.right = y.left
	y.left = x
	x.update()
	y.update()
	return y
}

// balance restores the heap order at x after one of its children changed,
// rotating up a child whose priority is at least x's. The left child wins
// ties. It returns the new root of the subtree.
func (x *tnode[K, V]) balance() *tnode[K, V] {
	l, r := x.left, x.right
	switch {
	case l != nil && (r == nil || l.pri >= r.pri) && l.pri >= x.pri:
		return x.rotateRight()
	case r != nil && (l == nil || r.pri >= l.pri) && r.pri >= x.pri:
		return x.rotateLeft()
	}
	x.update()
	return x
}

// insert adds n to the subtree rooted at x. dir reports where n belongs
// relative to an existing node: < 0 left of it, > 0 right of it, 0 in its
// place. In the last case the existing node takes n's value and inserted
// is false.
func (t *Treap[K, V]) insert(x, n *tnode[K, V], dir func(*tnode[K, V]) int) (root *tnode[K, V], inserted bool) {
	if x == nil {
		n.update()
		return n, true
	}
	c := dir(x)
	switch {
	case c == 0:
		x.val = n.val
		return x, false
	case c < 0:
		x.left, inserted = t.insert(x.left, n, dir)
	default:
		x.right, inserted = t.insert(x.right, n, dir)
	}
	if !inserted {
		return x, false
	}
	return x.balance(), true
}

// removeRoot removes x from the subtree it roots by rotating it down
// toward its higher-priority child until it is a leaf.
// It returns the new root of the subtree.
func (x *tnode[K, V]) removeRoot() *tnode[K, V] {
	switch {
	case x.left == nil && x.right == nil:
		return nil
	case x.left != nil && (x.right == nil || x.left.pri >= x.right.pri):
		y := x.rotateRight()
		y.right = x.removeRoot()
		y.update()
		return y
	default:
		y := x.rotateLeft()
		y.left = x.removeRoot()
		y.update()
		return y
	}
}

func (t *Treap[K, V]) delete(x *tnode[K, V], key K) (root *tnode[K, V], deleted bool) {
	if x == nil {
		return nil, false
	}
	c := t.cmp(key, x.key)
	switch {
	case c == 0:
		return x.removeRoot(), true
	case c < 0:
		x.left, deleted = t.delete(x.left, key)
	default:
		x.right, deleted = t.delete(x.right, key)
	}
	if deleted {
		x.update()
	}
	return x, deleted
}

func (t *Treap[K, V]) get(key K) *tnode[K, V] {
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

// Get returns m[key] and whether it was present.
func (t *Treap[K, V]) Get(key K) (val V, ok bool) {
	x := t.get(key)
	if x == nil {
		return
	}
	return x.val, true
}

// Set sets m[key] = val. A new key gets a priority drawn from the
// treap's Source; an existing key keeps its priority and position.
// Set panics if the Source returns a value outside [0, 1).
func (t *Treap[K, V]) Set(key K, val V) {
	t.SetWithPriority(key, val, t.src.Float64())
}

// SetWithPriority is like Set but gives a new key the priority pri,
// which must be in [0, 1). Keys with higher priority sit nearer the root.
func (t *Treap[K, V]) SetWithPriority(key K, val V, pri float64) {
	if !(pri >= 0 && pri < 1) {
		panic(fmt.Sprintf("omap: treap priority %v out of range [0, 1)", pri))
	}
	t.set(key, val, pri)
}

func (t *Treap[K, V]) set(key K, val V, pri float64) {
	n := &tnode[K, V]{key: key, val: val, pri: pri}
	t.root, _ = t.insert(t.root, n, func(x *tnode[K, V]) int {
		return t.cmp(key, x.key)
	})
}

// Delete deletes m[key].
func (t *Treap[K, V]) Delete(key K) {
	if t == nil {
		return
	}
	t.root, _ = t.delete(t.root, key)
}

// Split splits the map after key. The returned lo holds the keys less than
// or equal to key and hi the keys greater than key. m is left empty.
func (t *Treap[K, V]) Split(key K) (lo, hi *Treap[K, V]) {
	// A separator placed just after key with a priority above any real
	// one rises to the root, leaving the two halves as its subtrees.
	sep := &tnode[K, V]{sep: true, pri: math.Inf(1)}
	t.root, _ = t.insert(t.root, sep, func(x *tnode[K, V]) int {
		if t.cmp(key, x.key) < 0 {
			return -1
		}
		return 1
	})
	if t.root != sep {
		panic("omap: corrupt treap: separator did not reach the root")
	}

	lo, hi = t.empty(), t.empty()
	lo.root, hi.root = sep.left, sep.right
	t.root = nil

	log.Tracef("Split treap at %v into %d and %d keys", key, lo.Len(), hi.Len())
	log.Tracef("Split halves: %v %v", newLogClosure(lo.Dump), newLogClosure(hi.Dump))
	return lo, hi
}

// Join moves all of more's keys into m, leaving more empty.
// Every key in m must be less than every key in more;
// otherwise Join returns an error wrapping ErrInvalidOrder
// and changes neither map.
func (t *Treap[K, V]) Join(more *Treap[K, V]) error {
	if t == more {
		panic("omap: Join of Treap with itself")
	}
	maxKey, _, ok := t.Max()
	minKey, _, moreOK := more.Min()
	if err := checkJoin(t.cmp, maxKey, ok, minKey, moreOK); err != nil {
		return err
	}

	// A separator between the two roots, rotated back out of the tree,
	// merges the two heaps.
	sep := &tnode[K, V]{sep: true, left: t.root, right: more.root}
	sep.update()
	t.root = sep.removeRoot()
	more.root = nil

	log.Tracef("Joined treaps into %d keys", t.Len())
	return nil
}

// Kth returns the k'th smallest key, counting from 0, and its value.
// It reports false if k is not in [0, Len()).
func (t *Treap[K, V]) Kth(k int) (key K, val V, ok bool) {
	if t == nil {
		return
	}
	x := t.root
	for x != nil {
		lw := x.left.size()
		switch {
		case k == lw:
			return x.key, x.val, true
		case k < lw:
			x = x.left
		default:
			k -= lw + 1
			x = x.right
		}
	}
	return
}

// Choose returns a key and its value chosen uniformly at random using the
// treap's Source. It reports false if the map is empty.
func (t *Treap[K, V]) Choose() (key K, val V, ok bool) {
	n := t.Len()
	if n == 0 {
		return
	}
	return t.Kth(t.src.IntN(n))
}

// Len returns the number of keys in the map.
func (t *Treap[K, V]) Len() int {
	if t == nil {
		return 0
	}
	return t.root.size()
}

// Height returns the height of the tree.
func (t *Treap[K, V]) Height() int {
	if t == nil {
		return 0
	}
	return height(t.root, (*tnode[K, V]).kids)
}

// Root returns the key stored at the root of the tree,
// which has the highest priority.
func (t *Treap[K, V]) Root() (key K, ok bool) {
	if t == nil || t.root == nil {
		return
	}
	return t.root.key, true
}

// Min returns the smallest key in the map.
func (t *Treap[K, V]) Min() (key K, val V, ok bool) {
	if t == nil || t.root == nil {
		return
	}
	x := t.root.min
	return x.key, x.val, true
}

// Max returns the largest key in the map.
func (t *Treap[K, V]) Max() (key K, val V, ok bool) {
	if t == nil || t.root == nil {
		return
	}
	x := t.root.max
	return x.key, x.val, true
}

// All returns an iterator over the map in ascending key order.
// The map must not be modified during the iteration.
func (t *Treap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t == nil {
			return
		}
		inorder(t.root, (*tnode[K, V]).kids, func(x *tnode[K, V]) bool {
			return yield(x.key, x.val)
		})
	}
}

// Keys returns an iterator over the keys in ascending order.
func (t *Treap[K, V]) Keys() iter.Seq[K] {
	return keys(t.All())
}

// Scan returns an iterator over the map
// limited to keys k satisfying lo ≤ k ≤ hi.
// The map must not be modified during the iteration.
func (t *Treap[K, V]) Scan(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t == nil {
			return
		}
		scan(t.root, (*tnode[K, V]).kids, func(x *tnode[K, V]) K { return x.key }, t.cmp, lo, hi,
			func(x *tnode[K, V]) bool {
				return yield(x.key, x.val)
			})
	}
}

// Check verifies the search order, heap order and subtree summaries of
// the treap.
func (t *Treap[K, V]) Check() error {
	var err error
	inorder(t.root, (*tnode[K, V]).kids, func(x *tnode[K, V]) bool {
		err = x.check()
		return err == nil
	})
	if err != nil {
		return err
	}
	return checkOrder(t.All(), t.cmp, t.Len())
}

func (x *tnode[K, V]) check() error {
	if x.sep {
		return fmt.Errorf("separator left in treap")
	}
	for _, c := range []*tnode[K, V]{x.left, x.right} {
		if c != nil && c.pri > x.pri {
			return fmt.Errorf("child %v (priority %v) above parent %v (priority %v)",
				c.key, c.pri, x.key, x.pri)
		}
	}
	if w := 1 + x.left.size() + x.right.size(); x.weight != w {
		return fmt.Errorf("node %v has weight %d, want %d", x.key, x.weight, w)
	}
	lo, hi := x, x
	if x.left != nil {
		lo = x.left.min
	}
	if x.right != nil {
		hi = x.right.max
	}
	if x.min != lo || x.max != hi {
		return fmt.Errorf("node %v has stale min/max", x.key)
	}
	return nil
}

// Dump returns a parenthesized rendering of the treap.
func (t *Treap[K, V]) Dump() string {
	var buf bytes.Buffer
	var walk func(*tnode[K, V])
	walk = func(x *tnode[K, V]) {
		if x == nil {
			fmt.Fprintf(&buf, "nil")
			return
		}
		fmt.Fprintf(&buf, "(%v:%v@%.3f ", x.key, x.val, x.pri)
		walk(x.left)
		fmt.Fprintf(&buf, " ")
		walk(x.right)
		fmt.Fprintf(&buf, ")")
	}
	walk(t.root)
	return buf.String()
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package omap

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/require"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := btclog.NewBackend(&buf).Logger("OMAP")
	logger.SetLevel(btclog.LevelTrace)
	UseLogger(logger)
	defer DisableLog()

	lo, hi := newTreap(1, 2, 3).Split(2)
	require.Contains(t, buf.String(), "Split treap at 2 into 2 and 1 keys")
	require.Contains(t, buf.String(), "Split halves: (")

	buf.Reset()
	require.ErrorIs(t, hi.Join(lo), ErrInvalidOrder)
	require.Contains(t, buf.String(), "Rejecting join")

	buf.Reset()
	DisableLog()
	newSplay(1, 2, 3).Split(2)
	require.Empty(t, buf.String())
}

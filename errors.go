// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package omap

import (
	"errors"
	"fmt"
)

// ErrInvalidOrder is returned by Join when some key of the receiver is not
// strictly less than every key of the joined map.
var ErrInvalidOrder = errors.New("omap: join of unordered maps")

// checkJoin reports whether a map whose largest key is hiOfLow may be joined
// with a map whose smallest key is loOfHigh. Either bound is absent when its
// map is empty.
func checkJoin[K any](cmp func(K, K) int, hiOfLow K, lowOK bool, loOfHigh K, highOK bool) error {
	if !lowOK || !highOK || cmp(hiOfLow, loOfHigh) < 0 {
		return nil
	}
	log.Debugf("Rejecting join: max %v of low map is not below min %v of high map",
		hiOfLow, loOfHigh)
	return fmt.Errorf("%w: max key %v is not less than min key %v",
		ErrInvalidOrder, hiOfLow, loOfHigh)
}

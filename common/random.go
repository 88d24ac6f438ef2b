// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

// RandomInInterval samples uniformly from [0, upperBound).
func RandomInInterval(upperBound *big.Int) *big.Int {
	if upperBound == nil || zero.Cmp(upperBound) != -1 {
		return nil
	}
	n, err := rand.Int(rand.Reader, upperBound)
	if err != nil {
		panic(errors.Wrap(err, "rand.Int failure in RandomInInterval!"))
	}
	return n
}

// RandomNonZeroInInterval samples uniformly from [1, upperBound), retrying on zero.
func RandomNonZeroInInterval(upperBound *big.Int) *big.Int {
	for {
		n := RandomInInterval(upperBound)
		if n.Sign() != 0 {
			return n
		}
	}
}

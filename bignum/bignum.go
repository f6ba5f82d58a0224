/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package bignum is the module's bignum facade: modular helpers over
// *big.Int shared by the layers built on top of it (field2, curve,
// pairing, params and the three schemes). Values stay plain *big.Int, and
// those layers also call math/big directly where no helper here applies.
// This mirrors gofe's own choice of bottoming arithmetic out on math/big
// rather than a bespoke multi-precision type.
package bignum

import (
	"math/big"

	"github.com/pkg/errors"
)

// Add returns a+b mod m.
func Add(a, b, m *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Add(a, b), m)
}

// Sub returns a-b mod m.
func Sub(a, b, m *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Sub(a, b), m)
}

// Neg returns -a mod m.
func Neg(a, m *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Neg(a), m)
}

// Mul returns a*b mod m.
func Mul(a, b, m *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(a, b), m)
}

// Inverse returns the multiplicative inverse of a mod m. It fails when a
// and m share a common factor (in particular when a ≡ 0 mod m).
func Inverse(a, m *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(a, m)
	if inv == nil {
		return nil, errors.New("bignum: no modular inverse exists")
	}
	return inv, nil
}

// Exp returns g^x mod m, for x, which, unlike math/big.Int.Exp, may be
// negative: a negative exponent is handled by inverting g^|x| mod m.
func Exp(g, x, m *big.Int) (*big.Int, error) {
	if x.Sign() >= 0 {
		return new(big.Int).Exp(g, x, m), nil
	}
	pos := new(big.Int).Exp(g, new(big.Int).Neg(x), m)
	return Inverse(pos, m)
}

// ProbablyPrime reports whether n passes a battery of probabilistic
// primality tests (Baillie-PSW plus random Miller-Rabin rounds, as
// implemented by math/big).
func ProbablyPrime(n *big.Int) bool {
	return n.ProbablyPrime(20)
}

// Bit reports the i-th least-significant bit of n.
func Bit(n *big.Int, i int) uint {
	return n.Bit(i)
}

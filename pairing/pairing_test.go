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

package pairing_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentec-project/cryptid/curve"
	"github.com/fentec-project/cryptid/field2"
	"github.com/fentec-project/cryptid/pairing"
)

// The toy curve y^2 = x^3+1 over F_167 has an order-7 subgroup generated
// by P=(8,43) (168 = 12*2*7), small enough to exercise the full Miller
// loop and final exponentiation directly in a test.
var c = curve.New(big.NewInt(0), big.NewInt(1), big.NewInt(167))
var q = big.NewInt(7)
var basePoint = curve.NewPoint(big.NewInt(8), big.NewInt(43))

func TestTateNonDegenerate(t *testing.T) {
	e, err := pairing.Tate(basePoint, basePoint, q, c)
	require.NoError(t, err)
	assert.False(t, e.Equal(field2.One()))
}

func TestTateBilinear(t *testing.T) {
	// e([a]P, [b]P) == e(P,P)^(a*b mod q)
	base, err := pairing.Tate(basePoint, basePoint, q, c)
	require.NoError(t, err)

	for a := int64(1); a < 7; a++ {
		for b := int64(1); b < 7; b++ {
			aP, err := basePoint.ScalarMult(big.NewInt(a), c)
			require.NoError(t, err)
			bP, err := basePoint.ScalarMult(big.NewInt(b), c)
			require.NoError(t, err)

			lhs, err := pairing.Tate(aP, bP, q, c)
			require.NoError(t, err)

			exp := new(big.Int).Mod(big.NewInt(a*b), q)
			rhs := base.Exp(exp, c.P)

			assert.Truef(t, lhs.Equal(rhs), "a=%d b=%d", a, b)
		}
	}
}

func TestTateOnInfinityFails(t *testing.T) {
	// the Miller loop's tangent evaluation is undefined at infinity; the
	// schemes built on Tate never pass it a non-subgroup point like this.
	_, err := pairing.Tate(curve.Inf(), basePoint, q, c)
	assert.Error(t, err)
}

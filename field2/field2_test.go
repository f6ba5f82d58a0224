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

package field2_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentec-project/cryptid/field2"
)

var p = big.NewInt(103) // prime, 103 mod 4 == 3

func TestAddSubNeg(t *testing.T) {
	a := field2.New(big.NewInt(10), big.NewInt(20))
	b := field2.New(big.NewInt(30), big.NewInt(40))

	sum := a.Add(b, p)
	assert.True(t, sum.Equal(field2.New(big.NewInt(40), big.NewInt(60))))

	diff := a.Sub(b, p)
	assert.True(t, diff.Equal(a.Add(b.Neg(p), p)))
}

func TestMulAndSquare(t *testing.T) {
	a := field2.New(big.NewInt(2), big.NewInt(3))
	square := a.Square(p)
	direct := a.Mul(a, p)
	assert.True(t, square.Equal(direct))

	// (2+3i)^2 = 4 + 12i + 9i^2 = -5 + 12i
	expected := field2.New(big.NewInt(-5), big.NewInt(12))
	normalized := field2.New(new(big.Int).Mod(expected.A, p), new(big.Int).Mod(expected.B, p))
	assert.True(t, square.Equal(normalized))
}

func TestInverseAndDiv(t *testing.T) {
	a := field2.New(big.NewInt(7), big.NewInt(11))
	inv, err := a.Inverse(p)
	require.NoError(t, err)

	product := a.Mul(inv, p)
	assert.True(t, product.Equal(field2.One()))

	quotient, err := a.Div(a, p)
	require.NoError(t, err)
	assert.True(t, quotient.Equal(field2.One()))
}

func TestInverseOfZeroFails(t *testing.T) {
	_, err := field2.Zero().Inverse(p)
	assert.Error(t, err)
}

func TestExp(t *testing.T) {
	a := field2.New(big.NewInt(3), big.NewInt(5))
	cubed := a.Exp(big.NewInt(3), p)
	manual := a.Mul(a, p).Mul(a, p)
	assert.True(t, cubed.Equal(manual))

	assert.True(t, a.Exp(big.NewInt(0), p).Equal(field2.One()))
}

func TestCanonicalRoundTrip(t *testing.T) {
	a := field2.New(big.NewInt(42), big.NewInt(99))

	for _, order := range []bool{false, true} {
		enc := field2.Canonical(a, p, order)
		assert.Len(t, enc, 2)

		dec, err := field2.ParseCanonical(enc, p, order)
		require.NoError(t, err)
		assert.True(t, a.Equal(dec))
	}
}

func TestParseCanonicalWrongLength(t *testing.T) {
	_, err := field2.ParseCanonical([]byte{1, 2, 3}, p, false)
	assert.Error(t, err)
}

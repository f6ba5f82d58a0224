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

package curve_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentec-project/cryptid/curve"
)

// The toy curve y^2 = x^3+1 over F_167 has 168 points; P=(8,43) generates
// the order-7 subgroup used throughout these tests (168 = 12*2*7).
var c = curve.New(big.NewInt(0), big.NewInt(1), big.NewInt(167))
var p = curve.NewPoint(big.NewInt(8), big.NewInt(43))

func TestPointOnCurve(t *testing.T) {
	// 43^2 mod 167 == 8^3+1 mod 167
	lhs := new(big.Int).Exp(p.Y, big.NewInt(2), c.P)
	rhs := new(big.Int).Mod(new(big.Int).Add(new(big.Int).Exp(p.X, big.NewInt(3), c.P), big.NewInt(1)), c.P)
	assert.Equal(t, rhs, lhs)
}

func TestDouble(t *testing.T) {
	d, err := p.Double(c)
	require.NoError(t, err)
	assert.True(t, d.Equal(curve.NewPoint(big.NewInt(84), big.NewInt(32))))
}

func TestAddMatchesScalarMult(t *testing.T) {
	sum, err := p.Add(p, c)
	require.NoError(t, err)
	scaled, err := p.ScalarMult(big.NewInt(2), c)
	require.NoError(t, err)
	assert.True(t, sum.Equal(scaled))
}

func TestScalarMultTable(t *testing.T) {
	expected := map[int64]curve.Point{
		1: curve.NewPoint(big.NewInt(8), big.NewInt(43)),
		2: curve.NewPoint(big.NewInt(84), big.NewInt(32)),
		3: curve.NewPoint(big.NewInt(20), big.NewInt(73)),
		4: curve.NewPoint(big.NewInt(20), big.NewInt(94)),
		5: curve.NewPoint(big.NewInt(84), big.NewInt(135)),
		6: curve.NewPoint(big.NewInt(8), big.NewInt(124)),
	}

	for k, want := range expected {
		got, err := p.ScalarMult(big.NewInt(k), c)
		require.NoError(t, err)
		assert.Truef(t, got.Equal(want), "k=%d: got (%s,%s)", k, got.X, got.Y)
	}
}

func TestScalarMultByOrderIsInfinity(t *testing.T) {
	result, err := p.ScalarMult(big.NewInt(7), c)
	require.NoError(t, err)
	assert.True(t, result.IsInfinity())
}

func TestScalarMultByZeroIsInfinity(t *testing.T) {
	result, err := p.ScalarMult(big.NewInt(0), c)
	require.NoError(t, err)
	assert.True(t, result.IsInfinity())
}

func TestNegAndAddYieldsInfinity(t *testing.T) {
	neg := p.Neg(c)
	sum, err := p.Add(neg, c)
	require.NoError(t, err)
	assert.True(t, sum.IsInfinity())
}

func TestPointFromX(t *testing.T) {
	got, ok := curve.PointFromX(big.NewInt(8), c)
	require.True(t, ok)
	assert.True(t, got.Y.Cmp(big.NewInt(43)) == 0 || got.Y.Cmp(big.NewInt(124)) == 0)
}

func TestAddInfinityIdentity(t *testing.T) {
	sum, err := p.Add(curve.Inf(), c)
	require.NoError(t, err)
	assert.True(t, sum.Equal(p))

	sum2, err := curve.Inf().Add(p, c)
	require.NoError(t, err)
	assert.True(t, sum2.Equal(p))
}

func TestScalarMultNegativeScalar(t *testing.T) {
	pos, err := p.ScalarMult(big.NewInt(3), c)
	require.NoError(t, err)
	neg, err := p.ScalarMult(big.NewInt(-3), c)
	require.NoError(t, err)
	assert.True(t, neg.Equal(pos.Neg(c)))
}

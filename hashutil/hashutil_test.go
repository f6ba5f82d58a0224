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

package hashutil_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentec-project/cryptid/curve"
	"github.com/fentec-project/cryptid/hashutil"
)

var c = curve.New(big.NewInt(0), big.NewInt(1), big.NewInt(167))
var q = big.NewInt(7)

func TestHashToRangeDeterministicAndInRange(t *testing.T) {
	r1 := hashutil.HashToRange([]byte("alice@example.org"), q, hashutil.SHA256)
	r2 := hashutil.HashToRange([]byte("alice@example.org"), q, hashutil.SHA256)
	assert.Equal(t, r1, r2)
	assert.True(t, r1.Sign() >= 0 && r1.Cmp(q) < 0)

	r3 := hashutil.HashToRange([]byte("bob@example.org"), q, hashutil.SHA256)
	assert.NotEqual(t, r1, r3)
}

func TestHashBytesDeterministicAndLength(t *testing.T) {
	out1 := hashutil.HashBytes(32, []byte("seed"), hashutil.SHA256)
	out2 := hashutil.HashBytes(32, []byte("seed"), hashutil.SHA256)
	assert.Equal(t, out1, out2)
	assert.Len(t, out1, 32)

	out3 := hashutil.HashBytes(32, []byte("other seed"), hashutil.SHA256)
	assert.NotEqual(t, out1, out3)
}

func TestHashToPointOnCurveAndOrder(t *testing.T) {
	pt, err := hashutil.HashToPoint([]byte("alice@example.org"), c, q, hashutil.SHA256)
	require.NoError(t, err)
	require.False(t, pt.IsInfinity())

	lhs := new(big.Int).Exp(pt.Y, big.NewInt(2), c.P)
	rhs := new(big.Int).Mod(new(big.Int).Add(new(big.Int).Exp(pt.X, big.NewInt(3), c.P), big.NewInt(1)), c.P)
	assert.Equal(t, rhs, lhs)

	order, err := pt.ScalarMult(q, c)
	require.NoError(t, err)
	assert.True(t, order.IsInfinity())
}

func TestHashToPointDeterministic(t *testing.T) {
	a, err := hashutil.HashToPoint([]byte("alice@example.org"), c, q, hashutil.SHA256)
	require.NoError(t, err)
	b, err := hashutil.HashToPoint([]byte("alice@example.org"), c, q, hashutil.SHA256)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

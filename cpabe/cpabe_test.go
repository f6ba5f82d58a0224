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

package cpabe_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentec-project/cryptid/cpabe"
	"github.com/fentec-project/cryptid/field2"
	"github.com/fentec-project/cryptid/params"
)

// S4/S5: AND(student, cs) — satisfied by {student, cs}, refused by
// {student} alone.
func TestAndPolicySatisfiedAndRefused(t *testing.T) {
	ctx := params.NewCryptoContext(rand.Reader)

	pk, mk, err := cpabe.Setup(params.L0, ctx)
	require.NoError(t, err)

	tree, err := cpabe.ParsePolicy("student AND cs")
	require.NoError(t, err)

	msg := field2.New(big.NewInt(424242), big.NewInt(131313))

	em, err := cpabe.Encrypt(msg, tree, pk, ctx)
	require.NoError(t, err)

	skBoth, err := cpabe.KeyGen(mk, []string{"student", "cs"}, ctx)
	require.NoError(t, err)
	recovered, err := cpabe.Decrypt(skBoth, em, pk)
	require.NoError(t, err)
	assert.True(t, msg.Equal(recovered))

	skPartial, err := cpabe.KeyGen(mk, []string{"student"}, ctx)
	require.NoError(t, err)
	_, err = cpabe.Decrypt(skPartial, em, pk)
	assert.Error(t, err)
}

// S6: 2-of-3 threshold over {a,b,c} — {a,c} decrypts, {a} alone is
// refused.
func TestThresholdPolicy(t *testing.T) {
	ctx := params.NewCryptoContext(rand.Reader)

	pk, mk, err := cpabe.Setup(params.L0, ctx)
	require.NoError(t, err)

	tree, err := cpabe.ParsePolicy("2-OF(a, b, c)")
	require.NoError(t, err)

	msg := field2.New(big.NewInt(7), big.NewInt(11))

	em, err := cpabe.Encrypt(msg, tree, pk, ctx)
	require.NoError(t, err)

	skAC, err := cpabe.KeyGen(mk, []string{"a", "c"}, ctx)
	require.NoError(t, err)
	recovered, err := cpabe.Decrypt(skAC, em, pk)
	require.NoError(t, err)
	assert.True(t, msg.Equal(recovered))

	skA, err := cpabe.KeyGen(mk, []string{"a"}, ctx)
	require.NoError(t, err)
	_, err = cpabe.Decrypt(skA, em, pk)
	assert.Error(t, err)
}

func TestOrPolicyEitherAttributeDecrypts(t *testing.T) {
	ctx := params.NewCryptoContext(rand.Reader)

	pk, mk, err := cpabe.Setup(params.L0, ctx)
	require.NoError(t, err)

	tree, err := cpabe.ParsePolicy("admin OR auditor")
	require.NoError(t, err)

	msg := field2.New(big.NewInt(3), big.NewInt(99))
	em, err := cpabe.Encrypt(msg, tree, pk, ctx)
	require.NoError(t, err)

	skAuditor, err := cpabe.KeyGen(mk, []string{"auditor"}, ctx)
	require.NoError(t, err)
	recovered, err := cpabe.Decrypt(skAuditor, em, pk)
	require.NoError(t, err)
	assert.True(t, msg.Equal(recovered))
}

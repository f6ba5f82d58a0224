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

// Package ibs implements the Hess identity-based signature scheme over
// the same Type-1 curve and public parameters as package ibe.
package ibs

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/fentec-project/cryptid/curve"
	"github.com/fentec-project/cryptid/hashutil"
	"github.com/fentec-project/cryptid/internal"
	"github.com/fentec-project/cryptid/pairing"
	"github.com/fentec-project/cryptid/params"
	"github.com/fentec-project/cryptid/sample"
)

// PrivateKey is the identity private key [s]Q_id, structurally identical
// to ibe.PrivateKey but kept as its own type since the two schemes are
// independent collaborators sharing only the arithmetic core.
type PrivateKey struct {
	point curve.Point
}

// Signature is (U, v) as produced by Sign.
type Signature struct {
	U curve.Point
	V *big.Int
}

// Setup generates fresh public parameters and the master secret at the
// given security level.
func Setup(level params.SecurityLevel, ctx *params.CryptoContext) (*params.PublicParameters, *big.Int, error) {
	return params.GenerateCurve(level, ctx)
}

// Extract derives the private key for id from the master secret.
func Extract(id []byte, masterSecret *big.Int, pp *params.PublicParameters) (*PrivateKey, error) {
	if len(id) == 0 {
		return nil, internal.ErrLengthZero
	}

	qID, err := hashutil.HashToPoint(id, pp.Curve(), pp.Q(), pp.Hash())
	if err != nil {
		return nil, errors.Wrap(err, "ibs: extract")
	}

	skPoint, err := qID.ScalarMult(masterSecret, pp.Curve())
	if err != nil {
		return nil, errors.Wrap(err, "ibs: extract")
	}

	return &PrivateKey{point: skPoint}, nil
}

// Sign produces a signature on msg under sk. A fresh nonce k is drawn
// from ctx on every call — never cached or derived from msg, since
// reusing k across two signatures under the same key leaks sk (Design
// Note on per-signature nonce freshness).
func Sign(msg []byte, sk *PrivateKey, pp *params.PublicParameters, ctx *params.CryptoContext) (*Signature, error) {
	if len(msg) == 0 {
		return nil, internal.ErrLengthZero
	}
	if sk == nil {
		return nil, internal.ErrNullArgument
	}

	kSampler := sample.NewUniformRange(big.NewInt(1), pp.Q())
	k, err := kSampler.Sample(ctx.Rand)
	if err != nil {
		return nil, errors.Wrap(err, "ibs: sign: sampling nonce")
	}

	r, err := pairing.Tate(pp.P(), pp.P(), pp.Q(), pp.Curve())
	if err != nil {
		return nil, errors.Wrap(err, "ibs: sign")
	}
	r = r.Exp(k, pp.Curve().P)

	canon := hashutil.Canonical(r, pp.Curve().P, false)
	v := hashutil.HashToRange(append(append([]byte{}, msg...), canon...), pp.Q(), pp.Hash())

	vSk, err := sk.point.ScalarMult(v, pp.Curve())
	if err != nil {
		return nil, errors.Wrap(err, "ibs: sign")
	}
	kP, err := pp.P().ScalarMult(k, pp.Curve())
	if err != nil {
		return nil, errors.Wrap(err, "ibs: sign")
	}
	u, err := vSk.Add(kP, pp.Curve())
	if err != nil {
		return nil, errors.Wrap(err, "ibs: sign")
	}

	return &Signature{U: u, V: v}, nil
}

// Verify reports whether sig is a valid signature on msg for id under pp.
func Verify(msg []byte, sig *Signature, id []byte, pp *params.PublicParameters) (bool, error) {
	if sig == nil {
		return false, internal.ErrNullArgument
	}
	if len(msg) == 0 || len(id) == 0 {
		return false, internal.ErrLengthZero
	}

	qID, err := hashutil.HashToPoint(id, pp.Curve(), pp.Q(), pp.Hash())
	if err != nil {
		return false, errors.Wrap(err, "ibs: verify")
	}

	lhs, err := pairing.Tate(sig.U, pp.P(), pp.Q(), pp.Curve())
	if err != nil {
		return false, errors.Wrap(err, "ibs: verify")
	}

	rhsBase, err := pairing.Tate(qID, pp.PPub(), pp.Q(), pp.Curve())
	if err != nil {
		return false, errors.Wrap(err, "ibs: verify")
	}
	negV := new(big.Int).Mod(new(big.Int).Neg(sig.V), pp.Q())
	rhsInv := rhsBase.Exp(negV, pp.Curve().P)

	rPrime := lhs.Mul(rhsInv, pp.Curve().P)

	canon := hashutil.Canonical(rPrime, pp.Curve().P, false)
	vCheck := hashutil.HashToRange(append(append([]byte{}, msg...), canon...), pp.Q(), pp.Hash())

	return vCheck.Cmp(sig.V) == 0, nil
}

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

// Package ibe implements the Boneh-Franklin identity-based encryption
// scheme over the Type-1 curve built by package params.
package ibe

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/fentec-project/cryptid/curve"
	"github.com/fentec-project/cryptid/hashutil"
	"github.com/fentec-project/cryptid/internal"
	"github.com/fentec-project/cryptid/pairing"
	"github.com/fentec-project/cryptid/params"
)

// PrivateKey is the identity private key [s]Q_id extracted by the PKG.
type PrivateKey struct {
	point curve.Point
}

// Ciphertext is (U, V, W) as produced by Encrypt.
type Ciphertext struct {
	U curve.Point
	V []byte
	W []byte
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
		return nil, errors.Wrap(err, "ibe: extract")
	}

	skPoint, err := qID.ScalarMult(masterSecret, pp.Curve())
	if err != nil {
		return nil, errors.Wrap(err, "ibe: extract")
	}

	return &PrivateKey{point: skPoint}, nil
}

// Encrypt encrypts msg to the identity id under pp, drawing its own
// random blinding factor ρ from ctx.
func Encrypt(msg, id []byte, pp *params.PublicParameters, ctx *params.CryptoContext) (*Ciphertext, error) {
	if len(msg) == 0 || len(id) == 0 {
		return nil, internal.ErrLengthZero
	}

	qID, err := hashutil.HashToPoint(id, pp.Curve(), pp.Q(), pp.Hash())
	if err != nil {
		return nil, errors.Wrap(err, "ibe: encrypt")
	}

	h := pp.Hash()
	rho := make([]byte, h.Size)
	if _, err := ctx.Rand.Read(rho); err != nil {
		return nil, errors.Wrap(err, "ibe: encrypt: sampling rho")
	}

	t := h.Sum(msg)
	ell := hashutil.HashToRange(append(append([]byte{}, rho...), t...), pp.Q(), h)

	u, err := pp.P().ScalarMult(ell, pp.Curve())
	if err != nil {
		return nil, errors.Wrap(err, "ibe: encrypt")
	}

	theta, err := pairing.Tate(pp.PPub(), qID, pp.Q(), pp.Curve())
	if err != nil {
		return nil, errors.Wrap(err, "ibe: encrypt")
	}
	theta = theta.Exp(ell, pp.Curve().P)

	z := hashutil.Canonical(theta, pp.Curve().P, false)
	w := h.Sum(z)

	v, err := xorBytes(w, rho)
	if err != nil {
		return nil, errors.Wrap(err, "ibe: encrypt")
	}

	keystream := hashutil.HashBytes(len(msg), rho, h)
	wBytes, err := xorBytes(keystream, msg)
	if err != nil {
		return nil, errors.Wrap(err, "ibe: encrypt")
	}

	return &Ciphertext{U: u, V: v, W: wBytes}, nil
}

// Decrypt recovers the plaintext from ct using the identity private key
// sk, failing with ErrDecryptionFailed if the ciphertext's consistency
// check does not hold.
func Decrypt(sk *PrivateKey, ct *Ciphertext, pp *params.PublicParameters) ([]byte, error) {
	if sk == nil || ct == nil {
		return nil, internal.ErrNullArgument
	}

	theta, err := pairing.Tate(ct.U, sk.point, pp.Q(), pp.Curve())
	if err != nil {
		return nil, errors.Wrap(err, "ibe: decrypt")
	}

	h := pp.Hash()
	z := hashutil.Canonical(theta, pp.Curve().P, false)
	w := h.Sum(z)

	rho, err := xorBytes(w, ct.V)
	if err != nil {
		return nil, errors.Wrap(err, "ibe: decrypt")
	}

	keystream := hashutil.HashBytes(len(ct.W), rho, h)
	m, err := xorBytes(keystream, ct.W)
	if err != nil {
		return nil, errors.Wrap(err, "ibe: decrypt")
	}

	t := h.Sum(m)
	ell := hashutil.HashToRange(append(append([]byte{}, rho...), t...), pp.Q(), h)

	check, err := pp.P().ScalarMult(ell, pp.Curve())
	if err != nil {
		return nil, errors.Wrap(err, "ibe: decrypt")
	}

	if !ct.U.Equal(check) {
		return nil, internal.ErrDecryptionFailed
	}

	return m, nil
}

// xorBytes XORs a and b, which must be the same length.
func xorBytes(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, errors.New("ibe: xor operands have mismatched lengths")
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out, nil
}

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

// Package hashutil implements the hash-to-range and hash-to-point
// primitives and the keyed pseudo-random byte stream that the schemes
// build on, plus the Function descriptor selecting a digest from the
// SHA family by security level. The digest algorithms themselves are
// treated as an opaque collaborator (crypto/sha1, crypto/sha256,
// crypto/sha512 from the standard library) per the module's scope.
package hashutil

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"hash"
	"math/big"

	"github.com/pkg/errors"

	"github.com/fentec-project/cryptid/curve"
	"github.com/fentec-project/cryptid/field2"
	"github.com/fentec-project/cryptid/internal"
)

// Function identifies one of {SHA1, SHA224, SHA256, SHA384, SHA512} by
// its digest length in bytes and a constructor for the underlying
// hash.Hash.
type Function struct {
	Name string
	Size int
	New  func() hash.Hash
}

var SHA1 = Function{Name: "SHA1", Size: sha1.Size, New: sha1.New}
var SHA224 = Function{Name: "SHA224", Size: sha256.Size224, New: sha256.New224}
var SHA256 = Function{Name: "SHA256", Size: sha256.Size, New: sha256.New}
var SHA384 = Function{Name: "SHA384", Size: sha512.Size384, New: sha512.New384}
var SHA512 = Function{Name: "SHA512", Size: sha512.Size, New: sha512.New}

// Sum hashes data with f in one shot.
func (f Function) Sum(data []byte) []byte {
	h := f.New()
	h.Write(data)
	return h.Sum(nil)
}

// Canonical re-exports field2's fixed-width encoding so callers that only
// import hashutil (as the spec names it: "canonical(v, p, order)") don't
// also need to import field2 directly.
func Canonical(v field2.Elem, p *big.Int, order bool) []byte {
	return field2.Canonical(v, p, order)
}

// HashToRange hashes s deterministically to an integer in [0, p), via an
// iterated digest construction: H(0||s), H(1||s), ... concatenated until
// there are enough bytes to cover ⌈log2(p)/8⌉, then reduced mod p.
func HashToRange(s []byte, p *big.Int, f Function) *big.Int {
	needed := (p.BitLen() + 7) / 8
	buf := iteratedDigest(s, needed, f)
	return new(big.Int).Mod(new(big.Int).SetBytes(buf), p)
}

// HashBytes is a keyed pseudo-random byte stream: b bytes produced by
// iterated hashing of a counter prefixed to key.
func HashBytes(b int, key []byte, f Function) []byte {
	return iteratedDigest(key, b, f)
}

// iteratedDigest produces at least n bytes by hashing successive
// 4-byte-counter-prefixed copies of seed and concatenating the digests,
// then truncating to exactly n bytes.
func iteratedDigest(seed []byte, n int, f Function) []byte {
	out := make([]byte, 0, n+f.Size)
	var counter uint32
	for len(out) < n {
		var ctrBytes [4]byte
		binary.BigEndian.PutUint32(ctrBytes[:], counter)
		h := f.New()
		h.Write(ctrBytes[:])
		h.Write(seed)
		out = h.Sum(out)
		counter++
	}
	return out[:n]
}

// HashToPoint hashes id to a point of order q in E(F_p): a candidate
// x-coordinate is derived from HashToRange(id || counter, p, f), y is
// solved via curve.PointFromX, and on success the point is cofactor
// cleared by scalar-multiplying by (p+1)/q = 12r. If the candidate
// misses the curve, or cofactor-clearing happens to yield infinity, the
// counter is advanced and the process repeats.
func HashToPoint(id []byte, c *curve.Curve, q *big.Int, f Function) (curve.Point, error) {
	cofactor := new(big.Int).Div(new(big.Int).Add(c.P, big.NewInt(1)), q)

	var counter uint32
	for {
		var ctrBytes [4]byte
		binary.BigEndian.PutUint32(ctrBytes[:], counter)
		candidate := append(append([]byte{}, id...), ctrBytes[:]...)

		x := HashToRange(candidate, c.P, f)
		pt, ok := curve.PointFromX(x, c)
		if ok {
			cleared, err := pt.ScalarMult(cofactor, c)
			if err != nil {
				return curve.Point{}, errors.Wrap(internal.ErrArithmeticFailure, "hashutil: cofactor clearing")
			}
			if !cleared.IsInfinity() {
				return cleared, nil
			}
		}

		counter++
		if counter == 0 {
			return curve.Point{}, errors.Wrap(internal.ErrPointGenerationFailed, "hashutil: hash-to-point exhausted counter space")
		}
	}
}

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

// Package pairing implements divisor evaluation and the Tate pairing on
// the Type-1 supersingular family y^2 = x^3 + 1, embedding degree 2, via
// Miller's algorithm. Grounded on the pseudocode in original_source's
// elliptic/TatePairing.h and elliptic/Divisor.h headers and on the Miller
// loop structure CryptID.c's callers expect (pairing(P, Q)^l consistency
// used by BF-IBE and Hess-IBS below).
package pairing

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/fentec-project/cryptid/bignum"
	"github.com/fentec-project/cryptid/curve"
	"github.com/fentec-project/cryptid/field2"
	"github.com/fentec-project/cryptid/internal"
)

// EvaluateVertical returns the F_p^2-value of the vertical line through a
// (a point of E(F_p)) evaluated at b (a point of E(F_p^2)): B.x - A.x,
// with A.x shifted into F_p^2 with zero imaginary part.
func EvaluateVertical(a curve.Point, b curve.Point2, c *curve.Curve) field2.Elem {
	aX := field2.New(a.X, big.NewInt(0))
	return b.X.Sub(aX, c.P)
}

// EvaluateTangent returns the F_p^2-value of the line tangent to a
// (a point of E(F_p)) evaluated at b (a point of E(F_p^2)). Fails if a is
// infinity or a.Y = 0, since the tangent is then vertical and the result
// is not a well-defined element of the function field's affine chart.
func EvaluateTangent(a curve.Point, b curve.Point2, c *curve.Curve) (field2.Elem, error) {
	if a.IsInfinity() || a.Y.Sign() == 0 {
		return field2.Elem{}, errors.Wrap(internal.ErrArithmeticFailure, "pairing: tangent at infinity or vertical")
	}

	num := bignum.Mul(big.NewInt(3), bignum.Mul(a.X, a.X, c.P), c.P)
	den := bignum.Mul(big.NewInt(2), a.Y, c.P)
	denInv, err := bignum.Inverse(den, c.P)
	if err != nil {
		return field2.Elem{}, errors.Wrap(internal.ErrArithmeticFailure, "pairing: tangent slope")
	}
	m := field2.New(bignum.Mul(num, denInv, c.P), big.NewInt(0))

	aX := field2.New(a.X, big.NewInt(0))
	aY := field2.New(a.Y, big.NewInt(0))

	return b.Y.Sub(aY, c.P).Sub(m.Mul(b.X.Sub(aX, c.P), c.P), c.P), nil
}

// EvaluateLine returns the F_p^2-value of the line through a and aPrime
// (both points of E(F_p)) evaluated at b (a point of E(F_p^2)). When
// a == aPrime this dispatches to the tangent.
func EvaluateLine(a, aPrime curve.Point, b curve.Point2, c *curve.Curve) (field2.Elem, error) {
	if a.Equal(aPrime) {
		return EvaluateTangent(a, b, c)
	}
	if a.IsInfinity() || aPrime.IsInfinity() {
		return field2.Elem{}, errors.Wrap(internal.ErrArithmeticFailure, "pairing: line through infinity")
	}

	num := bignum.Sub(aPrime.Y, a.Y, c.P)
	den := bignum.Sub(aPrime.X, a.X, c.P)
	denInv, err := bignum.Inverse(den, c.P)
	if err != nil {
		return field2.Elem{}, errors.Wrap(internal.ErrArithmeticFailure, "pairing: line slope")
	}
	m := field2.New(bignum.Mul(num, denInv, c.P), big.NewInt(0))

	aX := field2.New(a.X, big.NewInt(0))
	aY := field2.New(a.Y, big.NewInt(0))

	return b.Y.Sub(aY, c.P).Sub(m.Mul(b.X.Sub(aX, c.P), c.P), c.P), nil
}

// cubeRootOfUnity returns a non-trivial cube root of unity ζ in F_p^2,
// used by the distortion map. Since the curve's p ≡ 3 mod 4, -1 is a
// quadratic non-residue mod p, so solving ζ^2+ζ+1=0 via
// ζ = (-1 ± sqrt(-3))/2 either finds sqrt(-3) in F_p (when -3 is a
// residue) or as c*i with c = sqrt(3) (when it is not, which is then
// guaranteed to succeed because -1 being a non-residue forces exactly one
// of 3, -3 to be a residue).
func cubeRootOfUnity(p *big.Int) (field2.Elem, error) {
	exp := new(big.Int).Rsh(new(big.Int).Add(p, big.NewInt(1)), 2)
	inv2, err := bignum.Inverse(big.NewInt(2), p)
	if err != nil {
		return field2.Elem{}, errors.Wrap(internal.ErrArithmeticFailure, "pairing: no inverse of 2")
	}

	negThree := bignum.Neg(big.NewInt(3), p)
	t, err := bignum.Exp(negThree, exp, p)
	if err != nil {
		return field2.Elem{}, errors.Wrap(internal.ErrArithmeticFailure, "pairing: exponentiation failed")
	}
	if bignum.Mul(t, t, p).Cmp(negThree) == 0 {
		real := bignum.Mul(bignum.Add(bignum.Neg(big.NewInt(1), p), t, p), inv2, p)
		return field2.New(real, big.NewInt(0)), nil
	}

	three := big.NewInt(3)
	cRoot, err := bignum.Exp(three, exp, p)
	if err != nil {
		return field2.Elem{}, errors.Wrap(internal.ErrArithmeticFailure, "pairing: exponentiation failed")
	}
	if bignum.Mul(cRoot, cRoot, p).Cmp(three) != 0 {
		return field2.Elem{}, errors.Wrap(internal.ErrArithmeticFailure, "pairing: could not find cube root of unity")
	}

	real := bignum.Mul(bignum.Neg(big.NewInt(1), p), inv2, p)
	imag := bignum.Mul(cRoot, inv2, p)
	return field2.New(real, imag), nil
}

// distort maps a point of E(F_p) into E(F_p^2) via the twist
// φ(x, y) = (ζ*x, y) for a fixed non-trivial cube root of unity ζ.
func distort(p curve.Point, zeta field2.Elem, c *curve.Curve) curve.Point2 {
	if p.IsInfinity() {
		return curve.Inf2()
	}
	x := zeta.Mul(field2.New(p.X, big.NewInt(0)), c.P)
	y := field2.New(p.Y, big.NewInt(0))
	return curve.NewPoint2(x, y)
}

// Tate computes the (embedding-degree-2) Tate pairing e(p, b) of two
// points of the prime-order-q subgroup of E(F_p), via Miller's algorithm
// over the binary expansion of q followed by the final exponentiation
// (p^2-1)/q. b is distorted into E(F_p^2) internally.
func Tate(p, b curve.Point, q *big.Int, c *curve.Curve) (field2.Elem, error) {
	zeta, err := cubeRootOfUnity(c.P)
	if err != nil {
		return field2.Elem{}, err
	}
	bDist := distort(b, zeta, c)

	f := field2.One()
	v := p

	for i := q.BitLen() - 2; i >= 0; i-- {
		doubledV, err := v.Double(c)
		if err != nil {
			return field2.Elem{}, err
		}

		g, err := EvaluateLine(v, v, bDist, c)
		if err != nil {
			return field2.Elem{}, err
		}
		vert := EvaluateVertical(doubledV, bDist, c)
		vertInv, err := vert.Inverse(c.P)
		if err != nil {
			return field2.Elem{}, errors.Wrap(internal.ErrArithmeticFailure, "pairing: vertical divisor at doubling")
		}

		f = f.Square(c.P).Mul(g, c.P).Mul(vertInv, c.P)
		v = doubledV

		if bignum.Bit(q, i) == 1 {
			sum, err := v.Add(p, c)
			if err != nil {
				return field2.Elem{}, err
			}
			if sum.IsInfinity() {
				// V = -P: the line through V and P is the vertical at P.x,
				// and the vertical through infinity is the constant 1.
				f = f.Mul(EvaluateVertical(p, bDist, c), c.P)
				v = sum
				continue
			}
			g2, err := EvaluateLine(v, p, bDist, c)
			if err != nil {
				return field2.Elem{}, err
			}
			vert2 := EvaluateVertical(sum, bDist, c)
			vert2Inv, err := vert2.Inverse(c.P)
			if err != nil {
				return field2.Elem{}, errors.Wrap(internal.ErrArithmeticFailure, "pairing: vertical divisor at addition")
			}

			f = f.Mul(g2, c.P).Mul(vert2Inv, c.P)
			v = sum
		}
	}

	pSquared := new(big.Int).Mul(c.P, c.P)
	finalExp := new(big.Int).Div(new(big.Int).Sub(pSquared, big.NewInt(1)), q)
	return f.Exp(finalExp, c.P), nil
}

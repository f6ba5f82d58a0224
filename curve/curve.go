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

// Package curve implements affine elliptic-curve arithmetic over F_p and,
// via Point2, over F_p^2, for the Type-1 supersingular family
// y^2 = x^3 + 1 (A = 0, B = 1) used throughout this module. There is no
// existing Go package for this curve family's group law (the pack's other
// pairing libraries target BN/BLS curves of a different embedding
// degree), so, per the module's scope, this is newly built arithmetic
// rather than a wrapped dependency.
package curve

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/fentec-project/cryptid/bignum"
	"github.com/fentec-project/cryptid/field2"
	"github.com/fentec-project/cryptid/internal"
)

// Curve is y^2 = x^3 + A*x + B over F_p.
type Curve struct {
	A *big.Int
	B *big.Int
	P *big.Int
}

// New builds the curve y^2 = x^3 + A*x + B over F_p.
func New(a, b, p *big.Int) *Curve {
	return &Curve{A: a, B: b, P: p}
}

// Point is an affine point of E(F_p), or the point at infinity.
type Point struct {
	X         *big.Int
	Y         *big.Int
	Infinity bool
}

// Inf is the point at infinity.
func Inf() Point {
	return Point{Infinity: true}
}

// NewPoint builds the affine point (x, y). The caller is responsible for
// it actually lying on the curve.
func NewPoint(x, y *big.Int) Point {
	return Point{X: x, Y: y}
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.Infinity
}

// Equal reports whether p and q are the same point.
func (p Point) Equal(q Point) bool {
	if p.Infinity || q.Infinity {
		return p.Infinity == q.Infinity
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// Neg returns -p = (x, -y mod p). The negation of infinity is infinity.
func (p Point) Neg(c *Curve) Point {
	if p.Infinity {
		return Inf()
	}
	return NewPoint(new(big.Int).Set(p.X), bignum.Neg(p.Y, c.P))
}

// Add computes p+q using the standard affine chord-and-tangent law.
// Equal x with opposite y yields infinity; p == q dispatches to Double.
func (p Point) Add(q Point, c *Curve) (Point, error) {
	if p.Infinity {
		return q, nil
	}
	if q.Infinity {
		return p, nil
	}
	if p.X.Cmp(q.X) == 0 {
		if bignum.Add(p.Y, q.Y, c.P).Sign() == 0 {
			return Inf(), nil
		}
		return p.Double(c)
	}

	num := bignum.Sub(q.Y, p.Y, c.P)
	den := bignum.Sub(q.X, p.X, c.P)
	denInv, err := bignum.Inverse(den, c.P)
	if err != nil {
		return Point{}, errors.Wrap(internal.ErrArithmeticFailure, "curve: add")
	}
	m := bignum.Mul(num, denInv, c.P)

	x3 := bignum.Sub(bignum.Sub(bignum.Mul(m, m, c.P), p.X, c.P), q.X, c.P)
	y3 := bignum.Sub(bignum.Mul(m, bignum.Sub(p.X, x3, c.P), c.P), p.Y, c.P)
	return NewPoint(x3, y3), nil
}

// Double computes 2p using the tangent slope (3x^2+A)/(2y).
func (p Point) Double(c *Curve) (Point, error) {
	if p.Infinity {
		return Inf(), nil
	}
	if p.Y.Sign() == 0 {
		return Inf(), nil
	}

	num := bignum.Add(bignum.Mul(big.NewInt(3), bignum.Mul(p.X, p.X, c.P), c.P), c.A, c.P)
	den := bignum.Mul(big.NewInt(2), p.Y, c.P)
	denInv, err := bignum.Inverse(den, c.P)
	if err != nil {
		return Point{}, errors.Wrap(internal.ErrArithmeticFailure, "curve: double")
	}
	m := bignum.Mul(num, denInv, c.P)

	x3 := bignum.Sub(bignum.Mul(m, m, c.P), bignum.Mul(big.NewInt(2), p.X, c.P), c.P)
	y3 := bignum.Sub(bignum.Mul(m, bignum.Sub(p.X, x3, c.P), c.P), p.Y, c.P)
	return NewPoint(x3, y3), nil
}

// ScalarMult computes [k]p using window-NAF scalar recoding with window
// width 4 (precomputing the odd multiples P, 3P, 5P, 7P; a negative digit
// uses the negation of its table entry). Returns infinity when k = 0; a negative k is handled by
// negating p before multiplying by |k|.
func (p Point) ScalarMult(k *big.Int, c *Curve) (Point, error) {
	if k.Sign() == 0 || p.Infinity {
		return Inf(), nil
	}

	base := p
	absK := k
	if k.Sign() < 0 {
		base = p.Neg(c)
		absK = new(big.Int).Neg(k)
	}

	const w = 4
	naf, err := wNAF(absK, w)
	if err != nil {
		return Point{}, err
	}

	// Precompute odd multiples 1P, 3P, 5P, ..., (2^(w-1)-1)P.
	maxDigit := (1 << (w - 1)) - 1
	table := make(map[int]Point, maxDigit/2+1)
	table[1] = base
	doubleBase, err := base.Double(c)
	if err != nil {
		return Point{}, err
	}
	for d := 3; d <= maxDigit; d += 2 {
		prev := table[d-2]
		next, err := prev.Add(doubleBase, c)
		if err != nil {
			return Point{}, err
		}
		table[d] = next
	}

	result := Inf()
	for i := len(naf) - 1; i >= 0; i-- {
		result, err = result.Double(c)
		if err != nil {
			return Point{}, err
		}
		digit := naf[i]
		if digit == 0 {
			continue
		}
		var term Point
		if digit > 0 {
			term = table[digit]
		} else {
			term = table[-digit].Neg(c)
		}
		result, err = result.Add(term, c)
		if err != nil {
			return Point{}, err
		}
	}

	return result, nil
}

// wNAF computes the window-NAF signed-digit representation of k, least
// significant digit first, with window width w (w >= 2).
func wNAF(k *big.Int, w int) ([]int, error) {
	if w < 2 {
		return nil, errors.New("curve: wNAF window width must be >= 2")
	}

	n := new(big.Int).Set(k)
	modulus := big.NewInt(1 << uint(w))
	half := big.NewInt(1 << uint(w-1))

	var digits []int
	for n.Sign() > 0 {
		if bignum.Bit(n, 0) == 1 {
			di := new(big.Int).Mod(n, modulus)
			if di.Cmp(half) >= 0 {
				di.Sub(di, modulus)
			}
			digits = append(digits, int(di.Int64()))
			n.Sub(n, di)
		} else {
			digits = append(digits, 0)
		}
		n.Rsh(n, 1)
	}
	return digits, nil
}

// PointFromX solves y^2 = x^3+1 mod p for y via modular square root,
// valid since the module's curves always have p ≡ 3 mod 4, so that
// y = (x^3+1)^((p+1)/4) mod p. Reports ok=false when x^3+1 is a
// non-residue, i.e. there is no point with that x-coordinate.
func PointFromX(x *big.Int, c *Curve) (Point, bool) {
	rhs := bignum.Add(bignum.Mul(bignum.Mul(x, x, c.P), x, c.P), c.B, c.P)
	if rhs.Sign() == 0 {
		return NewPoint(new(big.Int).Set(x), big.NewInt(0)), true
	}

	exp := new(big.Int).Rsh(new(big.Int).Add(c.P, big.NewInt(1)), 2)
	y, err := bignum.Exp(rhs, exp, c.P)
	if err != nil {
		return Point{}, false
	}

	check := bignum.Mul(y, y, c.P)
	if check.Cmp(rhs) != 0 {
		return Point{}, false
	}
	return NewPoint(x, y), true
}

// Point2 is an affine point of E(F_p^2), or the point at infinity.
type Point2 struct {
	X         field2.Elem
	Y         field2.Elem
	Infinity bool
}

// Inf2 is the point at infinity in E(F_p^2).
func Inf2() Point2 {
	return Point2{Infinity: true}
}

// NewPoint2 builds the affine point (x, y) in F_p^2.
func NewPoint2(x, y field2.Elem) Point2 {
	return Point2{X: x, Y: y}
}

// Lift embeds an F_p point into E(F_p^2) with zero imaginary parts.
func Lift(p Point) Point2 {
	if p.Infinity {
		return Inf2()
	}
	return NewPoint2(field2.New(p.X, big.NewInt(0)), field2.New(p.Y, big.NewInt(0)))
}

// IsInfinity reports whether p is the point at infinity.
func (p Point2) IsInfinity() bool {
	return p.Infinity
}

// Equal reports whether p and q are the same point.
func (p Point2) Equal(q Point2) bool {
	if p.Infinity || q.Infinity {
		return p.Infinity == q.Infinity
	}
	return p.X.Equal(q.X) && p.Y.Equal(q.Y)
}

// Neg returns -p.
func (p Point2) Neg(c *Curve) Point2 {
	if p.Infinity {
		return Inf2()
	}
	return NewPoint2(p.X, p.Y.Neg(c.P))
}

// Add computes p+q over F_p^2, using the same branch structure as Point.Add.
func (p Point2) Add(q Point2, c *Curve) (Point2, error) {
	if p.Infinity {
		return q, nil
	}
	if q.Infinity {
		return p, nil
	}
	if p.X.Equal(q.X) {
		if p.Y.Add(q.Y, c.P).IsZero() {
			return Inf2(), nil
		}
		return p.Double(c)
	}

	num := q.Y.Sub(p.Y, c.P)
	den := q.X.Sub(p.X, c.P)
	m, err := num.Div(den, c.P)
	if err != nil {
		return Point2{}, errors.Wrap(internal.ErrArithmeticFailure, "curve: add2")
	}

	x3 := m.Square(c.P).Sub(p.X, c.P).Sub(q.X, c.P)
	y3 := m.Mul(p.X.Sub(x3, c.P), c.P).Sub(p.Y, c.P)
	return NewPoint2(x3, y3), nil
}

// Double computes 2p over F_p^2.
func (p Point2) Double(c *Curve) (Point2, error) {
	if p.Infinity {
		return Inf2(), nil
	}
	if p.Y.IsZero() {
		return Inf2(), nil
	}

	three := field2.New(big.NewInt(3), big.NewInt(0))
	two := field2.New(big.NewInt(2), big.NewInt(0))
	aElem := field2.New(c.A, big.NewInt(0))

	num := three.Mul(p.X.Square(c.P), c.P).Add(aElem, c.P)
	den := two.Mul(p.Y, c.P)
	m, err := num.Div(den, c.P)
	if err != nil {
		return Point2{}, errors.Wrap(internal.ErrArithmeticFailure, "curve: double2")
	}

	x3 := m.Square(c.P).Sub(two.Mul(p.X, c.P), c.P)
	y3 := m.Mul(p.X.Sub(x3, c.P), c.P).Sub(p.Y, c.P)
	return NewPoint2(x3, y3), nil
}

// ScalarMult computes [k]p over F_p^2 via plain double-and-add, not the
// w-NAF recoding used by Point.ScalarMult. A negative k is handled by
// negating p before multiplying by |k|.
func (p Point2) ScalarMult(k *big.Int, c *Curve) (Point2, error) {
	if k.Sign() == 0 || p.Infinity {
		return Inf2(), nil
	}

	base := p
	absK := k
	if k.Sign() < 0 {
		base = p.Neg(c)
		absK = new(big.Int).Neg(k)
	}

	result := Inf2()
	addend := base
	n := new(big.Int).Set(absK)
	var err error
	for n.Sign() > 0 {
		if bignum.Bit(n, 0) == 1 {
			result, err = result.Add(addend, c)
			if err != nil {
				return Point2{}, err
			}
		}
		addend, err = addend.Double(c)
		if err != nil {
			return Point2{}, err
		}
		n.Rsh(n, 1)
	}
	return result, nil
}

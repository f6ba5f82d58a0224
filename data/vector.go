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

// Package data holds the Vector helper cpabe uses to represent the
// coefficients of a Shamir secret-sharing polynomial over Z_p.
package data

import (
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// sampler draws a single value given an entropy source, matching
// sample.UniformRange's Sample method.
type sampler interface {
	Sample(io.Reader) (*big.Int, error)
}

// Vector wraps a slice of *big.Int elements.
type Vector []*big.Int

// NewVector returns a new Vector instance.
func NewVector(coordinates []*big.Int) Vector {
	return Vector(coordinates)
}

// NewConstantVector returns a new Vector instance with all elements set
// to constant c.
func NewConstantVector(n int, c *big.Int) Vector {
	vec := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		vec[i] = new(big.Int).Set(c)
	}

	return vec
}

// NewRandomVector returns a new Vector instance with n elements drawn
// from s using rand as the entropy source.
func NewRandomVector(n int, s sampler, rand io.Reader) (Vector, error) {
	vec := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		v, err := s.Sample(rand)
		if err != nil {
			return nil, errors.Wrap(err, "data: sampling vector coordinate")
		}
		vec[i] = v
	}

	return NewVector(vec), nil
}

// Copy creates a new vector with the same values.
func (v Vector) Copy() Vector {
	newVec := make(Vector, len(v))
	for i, c := range v {
		newVec[i] = new(big.Int).Set(c)
	}

	return newVec
}

// MulScalar multiplies vector v by scalar x, returning a new Vector.
func (v Vector) MulScalar(x *big.Int) Vector {
	res := make(Vector, len(v))
	for i, vi := range v {
		res[i] = new(big.Int).Mul(x, vi)
	}

	return res
}

// Mod reduces every element of v modulo m, returning a new Vector.
func (v Vector) Mod(m *big.Int) Vector {
	newCoords := make([]*big.Int, len(v))
	for i, c := range v {
		newCoords[i] = new(big.Int).Mod(c, m)
	}

	return NewVector(newCoords)
}

// Apply applies f element-wise to v, returning a new Vector.
func (v Vector) Apply(f func(*big.Int) *big.Int) Vector {
	res := make(Vector, len(v))
	for i, vi := range v {
		res[i] = f(vi)
	}

	return res
}

// Add adds v and other element-wise, returning a new Vector.
func (v Vector) Add(other Vector) Vector {
	sum := make([]*big.Int, len(v))
	for i, c := range v {
		sum[i] = new(big.Int).Add(c, other[i])
	}

	return NewVector(sum)
}

// Dot computes the dot product of v and other, erroring if their
// lengths differ.
func (v Vector) Dot(other Vector) (*big.Int, error) {
	if len(v) != len(other) {
		return nil, errors.New("data: vectors should be of same length")
	}

	prod := big.NewInt(0)
	for i, c := range v {
		prod.Add(prod, new(big.Int).Mul(c, other[i]))
	}

	return prod, nil
}

// EvalPoly evaluates, mod p, the polynomial whose constant term is
// constant and whose remaining coefficients (lowest degree first) are
// coeffs, at point x. Used by cpabe to evaluate a node's sharing
// polynomial at a child's index.
func (v Vector) EvalPoly(constant, x, p *big.Int) *big.Int {
	result := new(big.Int).Set(constant)
	xPow := new(big.Int).Set(x)

	for _, coeff := range v {
		term := new(big.Int).Mul(coeff, xPow)
		result.Add(result, term)
		result.Mod(result, p)
		xPow.Mul(xPow, x)
		xPow.Mod(xPow, p)
	}

	return result.Mod(result, p)
}

// String produces a string representation of a vector.
func (v Vector) String() string {
	s := ""
	for _, yi := range v {
		s = s + " " + yi.String()
	}
	return s
}

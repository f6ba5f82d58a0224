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

// Package sample provides samplers for the randomness the core draws on:
// modular integers uniform over a range. Unlike the upstream sampler this one never
// reaches for crypto/rand.Reader itself — every Sample call takes the
// entropy source explicitly, so the whole core can be driven from a single
// injected io.Reader (see params.CryptoContext).
package sample

import (
	cryptorand "crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// UniformRange samples random values from the interval [min, max).
type UniformRange struct {
	min *big.Int
	max *big.Int
}

// NewUniformRange returns an instance of the UniformRange sampler.
// It accepts lower and upper bounds on the sampled values.
func NewUniformRange(min, max *big.Int) *UniformRange {
	return &UniformRange{
		min: min,
		max: max,
	}
}

// NewUniform returns a sampler over the interval [0, max).
func NewUniform(max *big.Int) *UniformRange {
	return NewUniformRange(big.NewInt(0), max)
}

// Sample draws a value from [min, max) using randSource as the entropy source.
func (u *UniformRange) Sample(randSource io.Reader) (*big.Int, error) {
	span := new(big.Int).Sub(u.max, u.min)
	if span.Sign() <= 0 {
		return nil, errors.New("sample: empty range")
	}

	res, err := cryptorand.Int(randSource, span)
	if err != nil {
		return nil, errors.Wrap(err, "sample: failed to draw randomness")
	}

	return res.Add(res, u.min), nil
}

// NewBit returns a sampler over {0, 1}.
func NewBit() *UniformRange {
	return NewUniform(big.NewInt(2))
}

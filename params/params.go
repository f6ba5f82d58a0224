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

// Package params generates the Type-1 curve and public parameters shared
// by BF-IBE, Hess-IBS and BSW CP-ABE: a Solinas prime subgroup order q, a
// prime p = 12rq-1 defining E(F_p): y^2 = x^3+1, and a base point P of
// order q together with the master secret's public half P_pub.
package params

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/fentec-project/cryptid/bignum"
	"github.com/fentec-project/cryptid/curve"
	"github.com/fentec-project/cryptid/hashutil"
	"github.com/fentec-project/cryptid/internal"
	"github.com/fentec-project/cryptid/sample"
)

// SecurityLevel selects the (n_q, n_p, hash) table entry used by
// RandomSolinasPrime and GenerateCurve.
type SecurityLevel int

const (
	L0 SecurityLevel = iota
	L1
	L2
	L3
	L4
)

type levelParams struct {
	nq   int
	np   int
	hash hashutil.Function
}

var levelTable = map[SecurityLevel]levelParams{
	L0: {nq: 160, np: 512, hash: hashutil.SHA1},
	L1: {nq: 224, np: 1024, hash: hashutil.SHA224},
	L2: {nq: 256, np: 1536, hash: hashutil.SHA256},
	L3: {nq: 384, np: 3840, hash: hashutil.SHA384},
	L4: {nq: 512, np: 7680, hash: hashutil.SHA512},
}

// attempt caps for the bounded-retry primitives below.
const (
	solinasAttempts = 100
	pointAttempts   = 100
)

// CryptoContext carries the single injected entropy source every
// randomness-consuming operation in the module draws from.
type CryptoContext struct {
	Rand io.Reader
}

// NewCryptoContext builds a context reading randomness from rand.
func NewCryptoContext(rand io.Reader) *CryptoContext {
	return &CryptoContext{Rand: rand}
}

// PublicParameters is (curve, q, P, P_pub, hash), shared by BF-IBE and
// Hess-IBS. Fields are unexported; once constructed by GenerateCurve the
// value is never mutated.
type PublicParameters struct {
	curve     *curve.Curve
	q         *big.Int
	basePoint curve.Point
	pPub      curve.Point
	hash      hashutil.Function
}

func (pp *PublicParameters) Curve() *curve.Curve     { return pp.curve }
func (pp *PublicParameters) Q() *big.Int             { return pp.q }
func (pp *PublicParameters) P() curve.Point          { return pp.basePoint }
func (pp *PublicParameters) PPub() curve.Point       { return pp.pPub }
func (pp *PublicParameters) Hash() hashutil.Function { return pp.hash }

// RandomSolinasPrime samples an n-bit Solinas prime 2^a ± 2^b ± 1, with
// a = n-1 and b drawn uniformly in (1, a), retrying up to solinasAttempts
// times.
func RandomSolinasPrime(n int, ctx *CryptoContext) (*big.Int, error) {
	a := n - 1
	if a < 3 {
		return nil, errors.New("params: Solinas prime bit length too small")
	}

	bSampler := sample.NewUniformRange(big.NewInt(2), big.NewInt(int64(a)))
	signs := []struct{ s1, s2 int64 }{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	for attempt := 0; attempt < solinasAttempts; attempt++ {
		bBig, err := bSampler.Sample(ctx.Rand)
		if err != nil {
			return nil, errors.Wrap(err, "params: sampling Solinas exponent")
		}
		b := int(bBig.Int64())

		twoA := new(big.Int).Lsh(big.NewInt(1), uint(a))
		twoB := new(big.Int).Lsh(big.NewInt(1), uint(b))

		for _, sg := range signs {
			candidate := new(big.Int).Set(twoA)
			if sg.s1 > 0 {
				candidate.Add(candidate, twoB)
			} else {
				candidate.Sub(candidate, twoB)
			}
			if sg.s2 > 0 {
				candidate.Add(candidate, big.NewInt(1))
			} else {
				candidate.Sub(candidate, big.NewInt(1))
			}

			if candidate.BitLen() == n && bignum.ProbablyPrime(candidate) {
				return candidate, nil
			}
		}
	}

	return nil, errors.Wrap(internal.ErrSolinasPrimeGenerationFailed, "params: RandomSolinasPrime")
}

// GenerateCurve runs the full parameter-generation algorithm for the
// given security level: a Solinas prime q, a prime p = 12rq-1, the curve
// y^2 = x^3+1 over F_p, a base point P of order q, and the master secret
// s with public half P_pub = [s]P. Returns the public parameters and the
// master secret.
func GenerateCurve(level SecurityLevel, ctx *CryptoContext) (*PublicParameters, *big.Int, error) {
	lp, ok := levelTable[level]
	if !ok {
		return nil, nil, errors.New("params: unknown security level")
	}

	q, err := RandomSolinasPrime(lp.nq, ctx)
	if err != nil {
		return nil, nil, err
	}

	p, r, err := findP(q, lp.np, ctx)
	if err != nil {
		return nil, nil, err
	}

	c := curve.New(big.NewInt(0), big.NewInt(1), p)

	base, err := randomBasePoint(c, r, ctx)
	if err != nil {
		return nil, nil, err
	}

	sSampler := sample.NewUniformRange(big.NewInt(2), q)
	s, err := sSampler.Sample(ctx.Rand)
	if err != nil {
		return nil, nil, errors.Wrap(err, "params: sampling master secret")
	}

	pPub, err := base.ScalarMult(s, c)
	if err != nil {
		return nil, nil, err
	}

	return &PublicParameters{
		curve:     c,
		q:         q,
		basePoint: base,
		pPub:      pPub,
		hash:      lp.hash,
	}, s, nil
}

// findP searches for a random r such that p = 12rq-1 is an nBits-bit
// probable prime, drawing fresh candidates for r until one succeeds.
func findP(q *big.Int, nBits int, ctx *CryptoContext) (p *big.Int, r *big.Int, err error) {
	twelveQ := new(big.Int).Mul(big.NewInt(12), q)

	rBits := nBits - twelveQ.BitLen()
	if rBits < 1 {
		rBits = 1
	}
	rMax := new(big.Int).Lsh(big.NewInt(1), uint(rBits+1))
	rSampler := sample.NewUniform(rMax)

	for {
		rCandidate, sampleErr := rSampler.Sample(ctx.Rand)
		if sampleErr != nil {
			return nil, nil, errors.Wrap(sampleErr, "params: sampling r")
		}
		if rCandidate.Sign() == 0 {
			continue
		}

		pCandidate := new(big.Int).Mul(twelveQ, rCandidate)
		pCandidate.Sub(pCandidate, big.NewInt(1))

		if pCandidate.BitLen() == nBits && bignum.ProbablyPrime(pCandidate) {
			return pCandidate, rCandidate, nil
		}
	}
}

// randomBasePoint samples a random affine point P' by solving y^2=x^3+1
// for a random x, then sets P = [12r]P', retrying whenever P' does not
// lie on the curve or the cofactor-cleared result is infinity.
func randomBasePoint(c *curve.Curve, r *big.Int, ctx *CryptoContext) (curve.Point, error) {
	cofactor := new(big.Int).Mul(big.NewInt(12), r)
	xSampler := sample.NewUniform(c.P)

	for attempt := 0; attempt < pointAttempts; attempt++ {
		x, err := xSampler.Sample(ctx.Rand)
		if err != nil {
			return curve.Point{}, errors.Wrap(err, "params: sampling candidate x")
		}

		candidate, ok := curve.PointFromX(x, c)
		if !ok {
			continue
		}

		p, err := candidate.ScalarMult(cofactor, c)
		if err != nil {
			return curve.Point{}, err
		}
		if !p.IsInfinity() {
			return p, nil
		}
	}

	return curve.Point{}, errors.Wrap(internal.ErrPointGenerationFailed, "params: randomBasePoint exhausted attempts")
}

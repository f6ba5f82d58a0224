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

// Package cpabe implements Bethencourt-Sahai-Waters ciphertext-policy
// attribute-based encryption over a monotone AccessTree, built on the
// same Type-1 curve and Tate pairing as packages ibe and ibs.
package cpabe

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/fentec-project/cryptid/bignum"
	"github.com/fentec-project/cryptid/curve"
	"github.com/fentec-project/cryptid/data"
	"github.com/fentec-project/cryptid/field2"
	"github.com/fentec-project/cryptid/hashutil"
	"github.com/fentec-project/cryptid/internal"
	"github.com/fentec-project/cryptid/pairing"
	"github.com/fentec-project/cryptid/params"
	"github.com/fentec-project/cryptid/sample"
)

// PublicKey is (curve, g, h=[β]g, f=[1/β]g, e(g,g)^α, hash, q).
type PublicKey struct {
	curve    *curve.Curve
	q        *big.Int
	g        curve.Point
	h        curve.Point
	f        curve.Point
	eggAlpha field2.Elem
	hash     hashutil.Function
}

// MasterKey is (β, g^α), held only by the attribute authority. α itself
// is retained alongside its published curve image gAlpha since KeyGen
// needs to fold α into a scalar exponent (α+r)/β before lifting to the
// curve — a discrete log of gAlpha is not something the authority can or
// should compute.
type MasterKey struct {
	alpha  *big.Int
	beta   *big.Int
	gAlpha curve.Point
	pk     *PublicKey
}

// attrKeyComponent is one attribute's contribution (D_j, D'_j) to a
// SecretKey.
type attrKeyComponent struct {
	Dj      curve.Point
	DjPrime curve.Point
}

// SecretKey is (D, {D_j, D'_j, attr_j}_j) for a fixed attribute set.
type SecretKey struct {
	D     curve.Point
	attrs map[string]attrKeyComponent
}

// EncryptedMessage is (tree with C_y/C'_y at leaves, C̃ in F_p², C on the
// curve).
type EncryptedMessage struct {
	Tree   AccessTree
	CTilde field2.Elem
	C      curve.Point
}

// Setup generates the public key and master key for the given security
// level. It reuses params.GenerateCurve for the curve, base point, and
// hash table, then draws α and β itself since CP-ABE's master secret is
// a pair, unlike BF-IBE/Hess-IBS's single scalar s.
func Setup(level params.SecurityLevel, ctx *params.CryptoContext) (*PublicKey, *MasterKey, error) {
	pp, _, err := params.GenerateCurve(level, ctx)
	if err != nil {
		return nil, nil, err
	}

	c := pp.Curve()
	sampler := sample.NewUniformRange(big.NewInt(1), c.P)

	alpha, err := sampler.Sample(ctx.Rand)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cpabe: setup: sampling alpha")
	}
	beta, err := sampler.Sample(ctx.Rand)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cpabe: setup: sampling beta")
	}

	g := pp.P()
	h, err := g.ScalarMult(beta, c)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cpabe: setup")
	}

	betaInv, err := bignum.Inverse(beta, c.P)
	if err != nil {
		return nil, nil, errors.Wrap(internal.ErrArithmeticFailure, "cpabe: setup: beta has no inverse mod p")
	}
	f, err := g.ScalarMult(betaInv, c)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cpabe: setup")
	}

	gAlpha, err := g.ScalarMult(alpha, c)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cpabe: setup")
	}

	egg, err := pairing.Tate(g, g, pp.Q(), c)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cpabe: setup")
	}
	eggAlpha := egg.Exp(alpha, c.P)

	pk := &PublicKey{
		curve:    c,
		q:        pp.Q(),
		g:        g,
		h:        h,
		f:        f,
		eggAlpha: eggAlpha,
		hash:     pp.Hash(),
	}
	mk := &MasterKey{alpha: alpha, beta: beta, gAlpha: gAlpha, pk: pk}

	return pk, mk, nil
}

// KeyGen derives a SecretKey binding a fresh random r to each attribute
// in attrs, per mk. D is computed as the canonical BSW
// D = g^{(α+r)/β}, with the exponent reduced mod q, the order of g, and
// the division carried out as a modular inverse of β mod q (not the
// source's [r·α]g expression).
func KeyGen(mk *MasterKey, attrs []string, ctx *params.CryptoContext) (*SecretKey, error) {
	if len(attrs) == 0 {
		return nil, internal.ErrLengthZero
	}

	c := mk.pk.curve
	sampler := sample.NewUniformRange(big.NewInt(0), c.P)

	r, err := sampler.Sample(ctx.Rand)
	if err != nil {
		return nil, errors.Wrap(err, "cpabe: keygen: sampling r")
	}

	betaInv, err := bignum.Inverse(mk.beta, mk.pk.q)
	if err != nil {
		return nil, errors.Wrap(internal.ErrArithmeticFailure, "cpabe: keygen: beta has no inverse mod q")
	}

	alphaPlusR := bignum.Add(mk.alpha, r, mk.pk.q)
	exponent := bignum.Mul(alphaPlusR, betaInv, mk.pk.q)

	d, err := mk.pk.g.ScalarMult(exponent, c)
	if err != nil {
		return nil, errors.Wrap(err, "cpabe: keygen")
	}

	rg, err := mk.pk.g.ScalarMult(r, c)
	if err != nil {
		return nil, errors.Wrap(err, "cpabe: keygen")
	}

	components := make(map[string]attrKeyComponent, len(attrs))
	for _, attr := range attrs {
		rj, err := sampler.Sample(ctx.Rand)
		if err != nil {
			return nil, errors.Wrap(err, "cpabe: keygen: sampling r_j")
		}

		hj, err := hashutil.HashToPoint([]byte(attr), c, mk.pk.q, mk.pk.hash)
		if err != nil {
			return nil, errors.Wrap(err, "cpabe: keygen")
		}

		rjHj, err := hj.ScalarMult(rj, c)
		if err != nil {
			return nil, errors.Wrap(err, "cpabe: keygen")
		}
		dj, err := rg.Add(rjHj, c)
		if err != nil {
			return nil, errors.Wrap(err, "cpabe: keygen")
		}

		djPrime, err := mk.pk.g.ScalarMult(rj, c)
		if err != nil {
			return nil, errors.Wrap(err, "cpabe: keygen")
		}

		components[attr] = attrKeyComponent{Dj: dj, DjPrime: djPrime}
	}

	return &SecretKey{D: d, attrs: components}, nil
}

// Encrypt encrypts msg (an element of F_p²) under tree, a policy over pk.
// A fresh root secret s is drawn from ctx; per-node polynomials are
// sampled top-down following the scheme's Shamir sharing. Random
// coefficients are drawn in [0, p-1], matching the original
// implementation's ABE_randomNumber range; the shares themselves are
// evaluated mod q, the order of g, the same modulus Decrypt's Lagrange
// recovery works in.
func Encrypt(msg field2.Elem, tree AccessTree, pk *PublicKey, ctx *params.CryptoContext) (*EncryptedMessage, error) {
	if tree == nil {
		return nil, internal.ErrNullArgument
	}

	sampler := sample.NewUniformRange(big.NewInt(0), pk.curve.P)
	s, err := sampler.Sample(ctx.Rand)
	if err != nil {
		return nil, errors.Wrap(err, "cpabe: encrypt: sampling s")
	}

	encTree, err := shareSecret(tree, s, pk, sampler, ctx)
	if err != nil {
		return nil, errors.Wrap(err, "cpabe: encrypt")
	}

	eggAlphaS := pk.eggAlpha.Exp(s, pk.curve.P)
	cTilde := msg.Mul(eggAlphaS, pk.curve.P)

	c, err := pk.h.ScalarMult(s, pk.curve)
	if err != nil {
		return nil, errors.Wrap(err, "cpabe: encrypt")
	}

	return &EncryptedMessage{Tree: encTree, CTilde: cTilde, C: c}, nil
}

// shareSecret recursively assigns a fresh random polynomial of degree
// Threshold-1 to every interior node, with q_x(0) fixed to value (the
// share handed down from the parent; the root's value is the encryption
// secret s), evaluates it at each child's 1-based slot, and recurses.
// Leaves receive their assigned value directly as C_y/C'_y. The function
// returns a new tree rather than mutating its input.
func shareSecret(node AccessTree, value *big.Int, pk *PublicKey, sampler *sample.UniformRange, ctx *params.CryptoContext) (AccessTree, error) {
	switch n := node.(type) {
	case *Leaf:
		cy, err := pk.g.ScalarMult(value, pk.curve)
		if err != nil {
			return nil, err
		}
		hy, err := hashutil.HashToPoint([]byte(n.Attribute), pk.curve, pk.q, pk.hash)
		if err != nil {
			return nil, err
		}
		cyA, err := hy.ScalarMult(value, pk.curve)
		if err != nil {
			return nil, err
		}
		return &Leaf{Attribute: n.Attribute, Cy: cy, CyA: cyA}, nil

	case *Interior:
		if n.Threshold < 1 || n.Threshold > len(n.Children) {
			return nil, errors.Errorf("cpabe: threshold %d invalid for %d children", n.Threshold, len(n.Children))
		}

		coeffs, err := data.NewRandomVector(n.Threshold-1, sampler, ctx.Rand)
		if err != nil {
			return nil, err
		}

		children := make([]AccessTree, len(n.Children))
		for i, child := range n.Children {
			childValue := coeffs.EvalPoly(value, big.NewInt(int64(i+1)), pk.q)
			encChild, err := shareSecret(child, childValue, pk, sampler, ctx)
			if err != nil {
				return nil, err
			}
			children[i] = encChild
		}

		return &Interior{Threshold: n.Threshold, Children: children}, nil

	default:
		return nil, errors.New("cpabe: unknown access tree node type")
	}
}

// Decrypt recovers msg from em using sk, or ErrPolicyNotSatisfied if
// sk's attribute set does not satisfy em's tree.
func Decrypt(sk *SecretKey, em *EncryptedMessage, pk *PublicKey) (field2.Elem, error) {
	if sk == nil || em == nil {
		return field2.Elem{}, internal.ErrNullArgument
	}

	a, satisfied, err := decryptNode(em.Tree, sk, pk)
	if err != nil {
		return field2.Elem{}, errors.Wrap(err, "cpabe: decrypt")
	}
	if !satisfied {
		return field2.Elem{}, internal.ErrPolicyNotSatisfied
	}

	tateCD, err := pairing.Tate(em.C, sk.D, pk.q, pk.curve)
	if err != nil {
		return field2.Elem{}, errors.Wrap(err, "cpabe: decrypt")
	}
	tateCDInv, err := tateCD.Inverse(pk.curve.P)
	if err != nil {
		return field2.Elem{}, errors.Wrap(internal.ErrArithmeticFailure, "cpabe: decrypt")
	}

	m := em.CTilde.Mul(a, pk.curve.P).Mul(tateCDInv, pk.curve.P)
	return m, nil
}

// childShare is one satisfied child's index (its Lagrange x-coordinate)
// and recovered value, used only within decryptNode's local combination.
type childShare struct {
	index int
	value field2.Elem
}

// decryptNode recursively evaluates the access tree bottom-up, returning
// the node's recovered e(g,g)^{r·q_x(0)} value and whether the node (and
// hence its subtree) is satisfied by sk's attribute set. It returns
// plain values rather than pointers into a mutable shared structure, so
// there is no stale-counter indexing or dangling child-result pointer
// across calls.
func decryptNode(node AccessTree, sk *SecretKey, pk *PublicKey) (field2.Elem, bool, error) {
	switch n := node.(type) {
	case *Leaf:
		comp, ok := sk.attrs[n.Attribute]
		if !ok {
			return field2.Elem{}, false, nil
		}

		num, err := pairing.Tate(comp.Dj, n.Cy, pk.q, pk.curve)
		if err != nil {
			return field2.Elem{}, false, err
		}
		den, err := pairing.Tate(comp.DjPrime, n.CyA, pk.q, pk.curve)
		if err != nil {
			return field2.Elem{}, false, err
		}
		denInv, err := den.Inverse(pk.curve.P)
		if err != nil {
			return field2.Elem{}, false, errors.Wrap(internal.ErrArithmeticFailure, "cpabe: leaf division")
		}

		return num.Mul(denInv, pk.curve.P), true, nil

	case *Interior:
		var satisfied []childShare
		for i, child := range n.Children {
			value, ok, err := decryptNode(child, sk, pk)
			if err != nil {
				return field2.Elem{}, false, err
			}
			if !ok {
				continue
			}
			satisfied = append(satisfied, childShare{index: i + 1, value: value})
			if len(satisfied) == n.Threshold {
				break
			}
		}

		if len(satisfied) < n.Threshold {
			return field2.Elem{}, false, nil
		}

		result := field2.One()
		for _, s := range satisfied {
			coeff, err := lagrangeCoefficientAtZero(s.index, satisfied, pk.q)
			if err != nil {
				return field2.Elem{}, false, err
			}
			result = result.Mul(s.value.Exp(coeff, pk.curve.P), pk.curve.P)
		}
		return result, true, nil

	default:
		return field2.Elem{}, false, errors.New("cpabe: unknown access tree node type")
	}
}

// lagrangeCoefficientAtZero computes Δ_{i,S}(0) = ∏_{j∈S,j≠i} (0-j)/(i-j)
// as a rational in ℤ/qℤ via modular inverse — never plain integer
// division, which would silently truncate and corrupt the combination.
func lagrangeCoefficientAtZero(i int, set []childShare, q *big.Int) (*big.Int, error) {
	num := big.NewInt(1)
	den := big.NewInt(1)
	bigI := big.NewInt(int64(i))

	for _, s := range set {
		if s.index == i {
			continue
		}
		bigJ := big.NewInt(int64(s.index))

		num = bignum.Mul(num, bignum.Neg(bigJ, q), q)
		den = bignum.Mul(den, bignum.Sub(bigI, bigJ, q), q)
	}

	denInv, err := bignum.Inverse(den, q)
	if err != nil {
		return nil, errors.Wrap(internal.ErrArithmeticFailure, "cpabe: Lagrange coefficient")
	}
	return bignum.Mul(num, denInv, q), nil
}

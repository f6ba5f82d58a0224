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

package cpabe

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/fentec-project/cryptid/curve"
)

// AccessTree is a rooted monotone access structure: a Leaf names a single
// attribute, an Interior demands that at least Threshold of its Children
// are satisfied. Position in Children matters — slots are the
// 1, 2, ... x-coordinates Shamir sharing and Lagrange recovery interpolate
// over. Cy/CyA on a Leaf are unset on a bare policy (as returned by
// ParsePolicy) and populated by Encrypt, which returns a new tree rather
// than mutating the one it was given.
type AccessTree interface {
	isAccessTree()
}

// Leaf is a policy leaf naming a single attribute.
type Leaf struct {
	Attribute string
	Cy        curve.Point
	CyA       curve.Point
}

func (*Leaf) isAccessTree() {}

// Interior is a k_x-of-n threshold gate over its children.
type Interior struct {
	Threshold int
	Children  []AccessTree
}

func (*Interior) isAccessTree() {}

// ParsePolicy parses a boolean policy string into an AccessTree. The
// grammar recognizes AND and OR infix gates, a "k-OF(e1, e2, ...)"
// threshold gate, parenthesized sub-expressions, and bare attribute
// names as leaves. Modeled on the recursive-descent, paren-depth-tracked
// scan gofe's boolean-expression-to-MSP parser uses to find the governing
// gate of an expression, adapted here to build a tree directly instead of
// a span-program matrix, and extended with the k-OF construct the spec's
// scenarios need that a pure AND/OR grammar cannot express.
func ParsePolicy(expr string) (AccessTree, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("cpabe: empty policy expression")
	}

	if unwrapped, ok := stripOuterParens(expr); ok {
		return ParsePolicy(unwrapped)
	}

	if gate, left, right, ok := findTopLevelGate(expr); ok {
		leftTree, err := ParsePolicy(left)
		if err != nil {
			return nil, err
		}
		rightTree, err := ParsePolicy(right)
		if err != nil {
			return nil, err
		}
		threshold := 2
		if gate == "OR" {
			threshold = 1
		}
		return &Interior{Threshold: threshold, Children: []AccessTree{leftTree, rightTree}}, nil
	}

	if k, inner, ok := splitThresholdGate(expr); ok {
		parts := splitTopLevelCommas(inner)
		if k < 1 || k > len(parts) {
			return nil, errors.Errorf("cpabe: threshold %d out of range for %d children", k, len(parts))
		}
		children := make([]AccessTree, len(parts))
		for i, part := range parts {
			child, err := ParsePolicy(part)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return &Interior{Threshold: k, Children: children}, nil
	}

	if strings.ContainsAny(expr, "()") {
		return nil, errors.Errorf("cpabe: malformed policy expression %q", expr)
	}
	return &Leaf{Attribute: expr}, nil
}

// stripOuterParens removes a single pair of parentheses wrapping the
// entire expression, if the opening paren's match is the final character.
func stripOuterParens(expr string) (string, bool) {
	if len(expr) < 2 || expr[0] != '(' {
		return "", false
	}
	depth := 0
	for i, r := range expr {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				if i == len(expr)-1 {
					return strings.TrimSpace(expr[1 : len(expr)-1]), true
				}
				return "", false
			}
		}
	}
	return "", false
}

// findTopLevelGate scans expr left to right for the first paren-depth-zero
// occurrence of "AND" or "OR" and splits the expression there.
func findTopLevelGate(expr string) (gate, left, right string, ok bool) {
	depth := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
			continue
		case ')':
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		if matchKeyword(expr, i, "AND") {
			return "AND", expr[:i], expr[i+3:], true
		}
		if matchKeyword(expr, i, "OR") {
			return "OR", expr[:i], expr[i+2:], true
		}
	}
	return "", "", "", false
}

// matchKeyword reports whether keyword occurs at expr[i:] bounded by
// whitespace (so "ANDROID" is not mistaken for the AND gate).
func matchKeyword(expr string, i int, keyword string) bool {
	if i+len(keyword) > len(expr) {
		return false
	}
	if expr[i:i+len(keyword)] != keyword {
		return false
	}
	if i > 0 && expr[i-1] != ' ' {
		return false
	}
	if i+len(keyword) < len(expr) && expr[i+len(keyword)] != ' ' {
		return false
	}
	return true
}

// splitThresholdGate recognizes the "k-OF(...)" construct at the top
// level of expr.
func splitThresholdGate(expr string) (k int, inner string, ok bool) {
	idx := strings.Index(expr, "-OF(")
	if idx <= 0 || !strings.HasSuffix(expr, ")") {
		return 0, "", false
	}
	kVal, err := strconv.Atoi(strings.TrimSpace(expr[:idx]))
	if err != nil {
		return 0, "", false
	}
	return kVal, expr[idx+4 : len(expr)-1], true
}

// splitTopLevelCommas splits s on commas that occur at paren-depth zero.
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

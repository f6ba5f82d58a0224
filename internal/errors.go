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

package internal

import (
	"errors"
	"fmt"
)

var malformedStr = "is not of the proper form"

// Sentinel errors shared by every layer of the core. Exported operations
// wrap these with github.com/pkg/errors to attach call-site context;
// callers compare with errors.Is against the variables below.
var ErrNullArgument = errors.New("required argument is nil")
var ErrLengthZero = errors.New("message or identity has zero length")
var ErrIllegalPublicParameters = errors.New(fmt.Sprintf("public parameters %s", malformedStr))
var ErrIllegalPrivateKey = errors.New(fmt.Sprintf("private key %s", malformedStr))
var ErrIllegalCiphertext = errors.New(fmt.Sprintf("ciphertext %s", malformedStr))
var ErrSolinasPrimeGenerationFailed = errors.New("could not find a Solinas prime within the attempt limit")
var ErrPrimeGenerationFailed = errors.New("could not find a suitable prime within the attempt limit")
var ErrPointGenerationFailed = errors.New("could not find a suitable curve point within the attempt limit")
var ErrHashFailure = errors.New("hash backend reported failure")
var ErrDecryptionFailed = errors.New("ciphertext consistency check failed")
var ErrPolicyNotSatisfied = errors.New("attribute set does not satisfy the access policy")
var ErrArithmeticFailure = errors.New("zero divisor encountered during field or curve arithmetic")

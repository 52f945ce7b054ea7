/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package document

import (
	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the canonical extended JSON form of v. Values that are
// structurally equal and carry the same number types hash identically.
func Fingerprint(v any) (uint64, error) {
	b, err := Marshal(v, Canonical(true))
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(b), nil
}

// FingerprintAll hashes a sequence of documents, e.g. a rendered pipeline.
func FingerprintAll(docs []D) (uint64, error) {
	h := xxhash.New()
	for _, d := range docs {
		b, err := Marshal(d, Canonical(true))
		if err != nil {
			return 0, err
		}
		_, _ = h.Write(b)
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64(), nil
}

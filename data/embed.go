// Package data embeds test fixtures shared across packages.
package data

import _ "embed"

// GoldenLemma holds the golden word/script/lemma cases, a JSON array.
//
//go:embed golden/lemma.json
var GoldenLemma []byte

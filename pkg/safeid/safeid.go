// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

// Package safeid derives document keys from tag and actor names.
//
// # Usage
//
// Aggregate documents are keyed by the name they count so that lookups and
// idempotent upserts need no extra index. Document keys forbid a small set
// of characters, which this package replaces deterministically — the same
// name always yields the same key.
package safeid

import "strings"

// replacer maps every character that is illegal in a document key to '_'.
// The name itself is stored verbatim inside the document, so the mapping
// does not need to be reversible.
var replacer = strings.NewReplacer(
	"/", "_",
	".", "_",
	"[", "_",
	"]", "_",
	"*", "_",
	`"`, "_",
	"`", "_",
)

// From converts a tag or actor name into a document-key-safe identifier.
func From(name string) string {
	return replacer.Replace(name)
}

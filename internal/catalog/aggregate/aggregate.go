// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

// Package aggregate maintains the denormalized tag and voice-actor counters
// that drive the catalog's filter pages.
package aggregate

// Kind selects which aggregate family an operation targets.
type Kind string

const (
	// KindTags counts distinct tag names across the catalog.
	KindTags Kind = "tags"
	// KindActors counts distinct cast names across the catalog.
	KindActors Kind = "actors"
)

// IsValid reports whether k is a recognised [Kind] value.
func (k Kind) IsValid() bool {
	return k == KindTags || k == KindActors
}

// Aggregate is one counter document: how many catalog entries reference the
// name. The document id is derived from the name via safeid, so the raw name
// is stored alongside for display.
type Aggregate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"` // Always >= 1 while stored; zero means delete.
}

// RecalcStats summarises one full rebuild.
type RecalcStats struct {
	// Created is the number of counters that did not exist before the run.
	Created int `json:"created"`
	// Updated is the number of counters whose stored count was stale.
	Updated int `json:"updated"`
	// Deleted is the number of counters no entry references anymore.
	Deleted int `json:"deleted"`
	// Total is the number of distinct names observed in the catalog.
	Total int `json:"total"`
}

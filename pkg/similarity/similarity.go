// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

// Package similarity scores how close two drama titles are to each other.
//
// # Overview
//
// Externally sourced CSV rows rarely carry titles byte-identical to the
// catalog: storefronts append cast credits, edition markers, and media-type
// suffixes. This package normalizes both titles into a comparable core form
// and scores them with a bounded edit-distance ratio in [0, 1].
//
// Scoring is a pure function with no I/O; callers decide what a score means
// (see pkg/match for the threshold and tie policy).
package similarity

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// Options tunes title normalization.
type Options struct {
	// RemovePatterns are caller-supplied regular expressions stripped from
	// the raw title before any other normalization step. They carry
	// domain-specific noise such as cast-credit parentheticals
	// (e.g. `（CV：...）`) or edition markers.
	RemovePatterns []*regexp.Regexp
}

var (
	// bracketRunes are decorative bracket characters stripped from titles.
	// Both full-width and ASCII variants appear in storefront data.
	bracketRunes = "「」【】『』（）()［］[]"

	// noiseLiterals are media-type suffixes that carry no identity.
	// Matched after NFKC folding and lower-casing, so ＣＤ/CD/cd all hit.
	noiseLiterals = []string{"ドラマcd", "シチュエーションcd"}

	// whitespaceRun collapses any run of whitespace to a single space.
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Normalize reduces a raw title to its comparable core form.
//
// # Pipeline
//
//  1. Apply every RemovePatterns regexp against the raw title. This runs
//     first so patterns can anchor on brackets and casing that later steps
//     destroy.
//  2. NFKC fold (full-width ASCII and ideographic spaces become their
//     half-width forms) and lower-case.
//  3. Strip media-type noise literals and all bracket characters.
//  4. Collapse whitespace runs and trim.
func Normalize(title string, opts Options) string {
	s := title
	for _, pattern := range opts.RemovePatterns {
		s = pattern.ReplaceAllString(s, "")
	}

	s = strings.ToLower(norm.NFKC.String(s))

	for _, literal := range noiseLiterals {
		s = strings.ReplaceAll(s, literal, "")
	}
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(bracketRunes, r) {
			return -1
		}
		return r
	}, s)

	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Score computes the normalized similarity of two titles in [0, 1].
//
// # Policy
//
//   - Either title normalizing to empty scores 0. Two all-noise titles are
//     not a match; treating them as identical is exactly the kind of silent
//     corruption the migration engine must avoid.
//   - Identical normalized forms score exactly 1.0.
//   - Otherwise 1 - distance/maxLen, where distance is the rune-wise
//     Levenshtein distance (unit costs) and maxLen the longer rune count.
//     The distance is bounded by maxLen, so the score never goes negative.
//
// Score is symmetric: Score(a, b, o) == Score(b, a, o).
func Score(titleA, titleB string, opts Options) float64 {
	a := Normalize(titleA, opts)
	b := Normalize(titleB, opts)

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

// Package match ranks catalog candidates against a target title.
//
// # Policy
//
// The matcher is deliberately conservative: when the two best candidates
// score exactly the same it refuses to guess and reports an ambiguous
// outcome for manual resolution. Silently picking between equally good
// candidates risks updating the wrong record, which is far worse than
// leaving a row unmatched.
package match

import (
	"sort"

	"github.com/sohayama/kikira/pkg/similarity"
)

// Outcome classifies a matching attempt.
type Outcome int

const (
	// NoMatch means no candidate reached the threshold.
	NoMatch Outcome = iota
	// Matched means exactly one candidate ranked best.
	Matched
	// Ambiguous means the top two candidates tied on score.
	Ambiguous
)

// Candidate is one catalog entry offered to the matcher.
type Candidate struct {
	ID    string
	Title string
}

// Scored pairs a candidate with its similarity score.
type Scored struct {
	Candidate Candidate
	Score     float64
}

// Result is the outcome of one matching attempt.
//
// Best is set when Outcome is Matched or Ambiguous; RunnerUp is set when a
// second candidate cleared the threshold (always set for Ambiguous) so the
// caller can log the competing titles and scores.
type Result struct {
	Outcome  Outcome
	Best     *Scored
	RunnerUp *Scored
}

// Best scores every candidate against the target title, keeps those at or
// above threshold, and ranks them by score descending.
//
// The sort is stable, so candidates with equal scores keep their input
// order — the tie check compares the top two retained scores for exact
// numeric equality.
func Best(target string, candidates []Candidate, threshold float64, opts similarity.Options) Result {
	retained := make([]Scored, 0, len(candidates))
	for _, candidate := range candidates {
		score := similarity.Score(candidate.Title, target, opts)
		if score >= threshold {
			retained = append(retained, Scored{Candidate: candidate, Score: score})
		}
	}

	if len(retained) == 0 {
		return Result{Outcome: NoMatch}
	}

	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].Score > retained[j].Score
	})

	best := retained[0]
	if len(retained) == 1 {
		return Result{Outcome: Matched, Best: &best}
	}

	runnerUp := retained[1]
	if best.Score == runnerUp.Score {
		return Result{Outcome: Ambiguous, Best: &best, RunnerUp: &runnerUp}
	}

	return Result{Outcome: Matched, Best: &best, RunnerUp: &runnerUp}
}

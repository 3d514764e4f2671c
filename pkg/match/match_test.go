// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohayama/kikira/pkg/match"
	"github.com/sohayama/kikira/pkg/similarity"
)

/*
TestBest_SingleWinner verifies that a clearly closer candidate wins.
*/
func TestBest_SingleWinner(t *testing.T) {
	candidates := []match.Candidate{
		{ID: "p1", Title: "蛇香のライラ"},
		{ID: "p2", Title: "全く関係のない作品"},
	}

	result := match.Best("蛇香のライラ", candidates, 0.7, similarity.Options{})

	require.Equal(t, match.Matched, result.Outcome)
	require.NotNil(t, result.Best)
	assert.Equal(t, "p1", result.Best.Candidate.ID)
	assert.Equal(t, 1.0, result.Best.Score)
}

/*
TestBest_NoMatch verifies that candidates below the threshold are rejected.
*/
func TestBest_NoMatch(t *testing.T) {
	candidates := []match.Candidate{
		{ID: "p1", Title: "ある日の出来事"},
		{ID: "p2", Title: "別の物語"},
	}

	result := match.Best("蛇香のライラ", candidates, 0.9, similarity.Options{})

	assert.Equal(t, match.NoMatch, result.Outcome)
	assert.Nil(t, result.Best)
}

/*
TestBest_Ambiguous verifies that an exact tie at the top is surfaced rather
than guessed, even when both candidates clear the threshold.
*/
func TestBest_Ambiguous(t *testing.T) {
	// Both candidates are one edit away from the 7-rune target, so both
	// score exactly 1 - 1/7 against "蛇香のライラ?".
	candidates := []match.Candidate{
		{ID: "p1", Title: "蛇香のライラ"},
		{ID: "p2", Title: "蛇香のライラ２"},
	}

	result := match.Best("蛇香のライラ?", candidates, 0.7, similarity.Options{})

	require.Equal(t, match.Ambiguous, result.Outcome)
	require.NotNil(t, result.Best)
	require.NotNil(t, result.RunnerUp)
	assert.Equal(t, result.Best.Score, result.RunnerUp.Score)
}

/*
TestBest_RunnerUpReported verifies that a beaten second candidate is still
carried in the result for logging.
*/
func TestBest_RunnerUpReported(t *testing.T) {
	candidates := []match.Candidate{
		{ID: "p1", Title: "蛇香のライラ"},
		{ID: "p2", Title: "蛇香のライラ 第2巻"},
	}

	result := match.Best("蛇香のライラ", candidates, 0.5, similarity.Options{})

	require.Equal(t, match.Matched, result.Outcome)
	assert.Equal(t, "p1", result.Best.Candidate.ID)
	require.NotNil(t, result.RunnerUp)
	assert.Equal(t, "p2", result.RunnerUp.Candidate.ID)
	assert.Greater(t, result.Best.Score, result.RunnerUp.Score)
}

/*
TestBest_EmptyCandidates verifies the trivial no-candidate case.
*/
func TestBest_EmptyCandidates(t *testing.T) {
	result := match.Best("蛇香のライラ", nil, 0.5, similarity.Options{})
	assert.Equal(t, match.NoMatch, result.Outcome)
}

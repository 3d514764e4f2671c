// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package similarity_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sohayama/kikira/pkg/similarity"
)

/*
TestNormalize checks the title normalization pipeline step by step.
*/
func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  similarity.Options
		want  string
	}{
		{"plain", "蛇香のライラ", similarity.Options{}, "蛇香のライラ"},
		{"brackets_stripped", "「蛇香のライラ」", similarity.Options{}, "蛇香のライラ"},
		{"fullwidth_parens", "（初回限定）ライラ", similarity.Options{}, "初回限定ライラ"},
		{"drama_cd_literal", "ドラマCD 蛇香のライラ", similarity.Options{}, "蛇香のライラ"},
		{"situation_cd_fullwidth", "シチュエーションＣＤ ライラ", similarity.Options{}, "ライラ"},
		{"whitespace_collapsed", "ライラ　 　第2巻", similarity.Options{}, "ライラ 第2巻"},
		{"lowercased", "LYLA Vol.2", similarity.Options{}, "lyla vol.2"},
		{
			"remove_pattern_before_brackets",
			"「蛇香のライラ」(CV：紫苑ヨウ)",
			similarity.Options{RemovePatterns: []*regexp.Regexp{regexp.MustCompile(`\(CV：[^)]*\)`)}},
			"蛇香のライラ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, similarity.Normalize(tt.input, tt.opts))
		})
	}
}

/*
TestScore_Reflexive verifies that any non-empty title scores 1.0 against itself.
*/
func TestScore_Reflexive(t *testing.T) {
	for _, title := range []string{"蛇香のライラ", "a", "Lyla ～蛇香～ 第2巻"} {
		assert.Equal(t, 1.0, similarity.Score(title, title, similarity.Options{}))
	}
}

/*
TestScore_Symmetric verifies Score(a,b) == Score(b,a).
*/
func TestScore_Symmetric(t *testing.T) {
	opts := similarity.Options{}
	a, b := "蛇香のライラ", "蛇香のライラ２"
	assert.Equal(t, similarity.Score(a, b, opts), similarity.Score(b, a, opts))
}

/*
TestScore_PatternStrippedEquality checks that titles differing only by a
removable cast credit normalize to the same core and score exactly 1.0.
*/
func TestScore_PatternStrippedEquality(t *testing.T) {
	opts := similarity.Options{
		RemovePatterns: []*regexp.Regexp{regexp.MustCompile(`\(CV：[^)]*\)`)},
	}

	score := similarity.Score("「蛇香のライラ」(CV：紫苑ヨウ)", "蛇香のライラ", opts)
	assert.Equal(t, 1.0, score)
}

/*
TestScore_EmptyInputs pins the empty-title policy: if either side normalizes
to empty, the score is 0 — including the both-empty case.
*/
func TestScore_EmptyInputs(t *testing.T) {
	opts := similarity.Options{}

	assert.Equal(t, 0.0, similarity.Score("", "", opts))
	assert.Equal(t, 0.0, similarity.Score("", "蛇香のライラ", opts))
	assert.Equal(t, 0.0, similarity.Score("蛇香のライラ", "", opts))

	// All-noise titles normalize to empty and must not match each other.
	assert.Equal(t, 0.0, similarity.Score("「」", "ドラマCD", opts))
}

/*
TestScore_Distance verifies the edit-distance ratio on a known pair.
*/
func TestScore_Distance(t *testing.T) {
	// 6 runes vs 7 runes, one insertion: 1 - 1/7.
	score := similarity.Score("蛇香のライラ", "蛇香のライラ２", similarity.Options{})
	assert.InDelta(t, 1.0-1.0/7.0, score, 1e-9)

	// Completely different strings stay within [0, 1].
	low := similarity.Score("あいうえお", "xyzxyzxyz", similarity.Options{})
	assert.GreaterOrEqual(t, low, 0.0)
	assert.Less(t, low, 0.5)
}

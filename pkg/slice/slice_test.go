// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package slice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sohayama/kikira/pkg/slice"
)

/*
TestClean verifies trimming, empty-drop, and order-preserving de-duplication.
*/
func TestClean(t *testing.T) {
	input := []string{" 紫苑ヨウ ", "", "佐和真中", "紫苑ヨウ", "  "}
	assert.Equal(t, []string{"紫苑ヨウ", "佐和真中"}, slice.Clean(input))
	assert.Nil(t, slice.Clean(nil))
}

/*
TestUnion verifies set-union accumulation across multiple mapped columns.
*/
func TestUnion(t *testing.T) {
	base := []string{"乙女向け", "シチュエーション"}
	got := slice.Union(base, []string{"R18", "乙女向け"})
	assert.Equal(t, []string{"乙女向け", "シチュエーション", "R18"}, got)
}

/*
TestDiff verifies the asymmetric difference used by aggregate maintenance.
*/
func TestDiff(t *testing.T) {
	before := []string{"a", "b", "c"}
	after := []string{"b", "c", "d"}

	assert.Equal(t, []string{"d"}, slice.Diff(after, before))
	assert.Equal(t, []string{"a"}, slice.Diff(before, after))
	assert.Nil(t, slice.Diff(before, before))
}

/*
TestMapFilter sanity-checks the generic helpers.
*/
func TestMapFilter(t *testing.T) {
	doubled := slice.Map([]int{1, 2, 3}, func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4, 6}, doubled)

	odd := slice.Filter([]int{1, 2, 3, 4}, func(v int) bool { return v%2 == 1 })
	assert.Equal(t, []int{1, 3}, odd)
}

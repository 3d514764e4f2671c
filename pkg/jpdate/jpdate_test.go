// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package jpdate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sohayama/kikira/pkg/jpdate"
)

/*
TestNormalize covers the three accepted formats and the pass-through policy.
*/
func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"kanji", "2023年11月10日", "2023-11-10"},
		{"kanji_single_digits", "2023年1月5日", "2023-01-05"},
		{"slash", "2023/11/10", "2023-11-10"},
		{"slash_single_digits", "2023/1/5", "2023-01-05"},
		{"already_canonical", "2023-11-10", "2023-11-10"},
		{"empty", "", ""},
		{"unrecognized_passthrough", "発売日未定", "発売日未定"},
		{"partial_passthrough", "2023年11月", "2023年11月"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jpdate.Normalize(tt.input))
		})
	}
}

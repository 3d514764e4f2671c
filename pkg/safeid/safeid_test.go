// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package safeid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sohayama/kikira/pkg/safeid"
)

/*
TestFrom verifies the illegal-character replacement table.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain_japanese", "紫苑ヨウ", "紫苑ヨウ"},
		{"slash", "乙女向け/R18", "乙女向け_R18"},
		{"dot", "vol.2", "vol_2"},
		{"brackets", "[限定]", "_限定_"},
		{"asterisk_quote_backtick", "a*b\"c`d", "a_b_c_d"},
		{"unchanged_spaces", "佐和 真中", "佐和 真中"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safeid.From(tt.input))
		})
	}
}

/*
TestFrom_Deterministic verifies that equal names derive equal keys.
*/
func TestFrom_Deterministic(t *testing.T) {
	assert.Equal(t, safeid.From("シチュエーションCD"), safeid.From("シチュエーションCD"))
}

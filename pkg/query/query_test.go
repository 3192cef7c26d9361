// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/stockify/pkg/query"
)

func TestStringSlice(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"new", []string{"new"}},
		{"new, pending,,", []string{"new", "pending"}},
		{" , ", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, query.StringSlice(tt.input), tt.input)
	}
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumbers(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		want    string
	}{
		{"empty", nil, ""},
		{"single", []int{4}, "4"},
		{"run", []int{1, 2, 3}, "1-3"},
		{"two stay separate", []int{1, 2}, "1, 2"},
		{"mixed", []int{4, 6, 7, 8, 9, 10, 11, 12}, "4, 6-12"},
		{"trailing single", []int{1, 2, 3, 7}, "1-3, 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatNumbers(tt.numbers))
		})
	}
}

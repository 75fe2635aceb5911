package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAmount(t *testing.T) {
	for _, tc := range []struct {
		in string
		ok bool
	}{
		{"0", true},
		{"42.50", true},
		{"1e3", true},
		{"-1", false},
		{"ten", false},
		{"", false},
		{"NaN", false},
		{"nan", false},
		{"Inf", false},
		{"+Inf", false},
		{"-Inf", false},
		{"infinity", false},
		{"1e400", false},
	} {
		t.Run(tc.in, func(t *testing.T) {
			err := isAmount(tc.in)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestIsDate(t *testing.T) {
	assert.NoError(t, isDate(""))
	assert.NoError(t, isDate("2026-02-27"))
	assert.Error(t, isDate("27/02/2026"))
	assert.Error(t, isDate("2026-02-30"))
}

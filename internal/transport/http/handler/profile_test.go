package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile(t *testing.T) {
	cases := []struct {
		name   string
		active []string
		want   string
	}{
		{"real profile wins", []string{"oauth", "real", "real-db"}, "real"},
		{"real1 after others", []string{"local", "real1"}, "real1"},
		{"real2", []string{"real2"}, "real2"},
		{"first active otherwise", []string{"oauth", "local"}, "oauth"},
		{"default when none", nil, "default"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Profile(tc.active))
		})
	}
}

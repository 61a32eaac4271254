package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchKey(t *testing.T) {
	tests := []struct {
		name       string
		version    int64
		skill      string
		searchType string
		want       string
	}{
		{"basic", 0, "go", "both", "cache:search:v0:both:go"},
		{"skill lowercased", 3, "Photoshop", "offered", "cache:search:v3:offered:photoshop"},
		{"empty skill", 1, "", "wanted", "cache:search:v1:wanted:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchKey(tt.version, tt.skill, tt.searchType))
		})
	}
}

func TestSearchKey_VersionBumpChangesKey(t *testing.T) {
	// Invalidation relies on the version prefix: the same query maps to a
	// different key after a bump, leaving old entries to expire by TTL.
	before := SearchKey(1, "go", "both")
	after := SearchKey(2, "go", "both")
	assert.NotEqual(t, before, after)
}

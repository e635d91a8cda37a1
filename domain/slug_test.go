package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name     string
		expected string
	}{
		{"Royal Boys PG", "royal-boys-pg"},
		{"Sunshine PG & Hostel", "sunshine-pg-hostel"},
		{"  Padded  Name  ", "padded-name"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER CASE", "upper-case"},
		{"café élite", "caf-lite"},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, Slugify(c.name))
	}
}

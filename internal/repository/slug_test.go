package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Sky High Media Ltd.":  "sky-high-media-ltd",
		"  Jane   Doe  ":       "jane-doe",
		"A&B Aerial (North)":   "a-b-aerial-north",
		"DRONES4U":             "drones4u",
		"---":                  "",
		"Éire Drones":          "ire-drones",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestNextSlug(t *testing.T) {
	assert.Equal(t, "jane-doe", NextSlug("jane-doe", nil))
	assert.Equal(t, "jane-doe-2", NextSlug("jane-doe", []string{"jane-doe"}))
	assert.Equal(t, "jane-doe-3", NextSlug("jane-doe", []string{"jane-doe", "jane-doe-2"}))

	// Gaps do not get reused; the suffix always moves past the highest.
	assert.Equal(t, "jane-doe-8", NextSlug("jane-doe", []string{"jane-doe", "jane-doe-7"}))

	// Non-numeric suffixes from unrelated slugs are ignored.
	assert.Equal(t, "jane-doe-2", NextSlug("jane-doe", []string{"jane-doe", "jane-doe-films"}))
}

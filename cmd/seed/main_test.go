package main

import (
	"os"
	"testing"

	"github.com/lessonforge/lessonforge/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleContentParses(t *testing.T) {
	f, err := os.Open("testdata/content.yaml")
	require.NoError(t, err)
	defer f.Close()

	content, err := seed.Parse(f)
	require.NoError(t, err)
	assert.Len(t, content.Badges, 3)
	assert.Len(t, content.Modules, 2)
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weekly = `
defaults:
  run: 2b2i
relics:
  - name: Lith A1
    order: [Braton Prime Receiver, Akstiletto Prime Barrel]
  - name: Meso B2
    run: 4b4r
    amount: 2
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "plans"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plans", "weekly.yaml"), []byte(weekly), 0o644))

	var buf bytes.Buffer
	err := run(context.Background(), &buf, options{
		catalogSrc: "../../internal/catalog/testdata/relics.json",
		planDir:    dir,
		planName:   "weekly",
		locale:     "en",
		trials:     200,
		seed:       1,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Lith A1")
	assert.Contains(t, out, "Meso B2")
	assert.Contains(t, out, "Simulated")
	assert.Contains(t, out, "Akstiletto Prime Barrel")
	assert.Contains(t, out, "0.079")
}

func TestRunMissingPlan(t *testing.T) {
	err := run(context.Background(), &bytes.Buffer{}, options{
		catalogSrc: "../../internal/catalog/testdata/relics.json",
		planDir:    t.TempDir(),
		planName:   "missing",
	})
	assert.Error(t, err)
}

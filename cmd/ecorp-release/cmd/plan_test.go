package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/drkarl/live-wallpaper-ecorp/internal/config"
	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/engine"
	"github.com/drkarl/live-wallpaper-ecorp/internal/service/pipeline"
)

// TestPrintPlan lists every selected platform and flags the ones without a deployer.
func TestPrintPlan(t *testing.T) {
	t.Parallel()

	desc, err := config.Parse([]byte(`{
		"name": "ecorp",
		"version": "1.0.0",
		"build": {"productName": "E Corp", "platforms": ["darwin", "freebsd"]}
	}`), "package.json", "/app")
	require.NoError(t, err)

	engines, err := engine.NewCommandSet(nil, &engine.ExecRunner{}, nil)
	require.NoError(t, err)

	options := &pipeline.Options{
		Descriptor: desc,
		Engines:    engines,
		Clock:      func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) },
		Host:       func() release.Kind { return release.Darwin },
	}

	plan, err := pipeline.NewPlan(options)
	require.NoError(t, err)

	var out bytes.Buffer
	printPlan(&out, options, plan)

	require.Contains(t, out.String(), "E Corp 1.0.0")
	require.Contains(t, out.String(), "darwin")
	require.Contains(t, out.String(), "/app/icons/darwin/icon-app.icns")
	require.Contains(t, out.String(), "20261016000000000")
	require.Contains(t, out.String(), "packaged only, no deployer for this platform")
}

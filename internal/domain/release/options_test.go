package release

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validParams() BuildParams {
	return BuildParams{
		SourceDir:    "/src/app",
		OutDir:       "/src/app/staging",
		Icon:         "/src/app/icons/darwin/icon-app.icns",
		Platform:     "darwin",
		Name:         "ecorp",
		ProductName:  "E Corp",
		AppVersion:   "1.0.0",
		BuildVersion: "20261016101010000",
		Company:      "E Corp",
		Ignore:       []string{"staging($|/)", `/\.DS_Store($|/)`},
	}
}

// TestNewBuildOptions_Valid freezes params and defaults the architecture.
func TestNewBuildOptions_Valid(t *testing.T) {
	t.Parallel()

	params := validParams()

	opts, err := NewBuildOptions(params)
	require.NoError(t, err)
	require.Equal(t, ArchAll, opts.Arch())
	require.Equal(t, Darwin, opts.Kind())

	// Mutating the source slice or the returned copy must not leak in.
	params.Ignore[0] = "changed"
	ignore := opts.Ignore()
	ignore[1] = "changed"

	require.Equal(t, []string{"staging($|/)", `/\.DS_Store($|/)`}, opts.Ignore())
}

// TestNewBuildOptions_RequiredFields rejects each missing required field.
func TestNewBuildOptions_RequiredFields(t *testing.T) {
	t.Parallel()

	mutations := map[string]func(*BuildParams){
		"name":      func(p *BuildParams) { p.Name = "" },
		"version":   func(p *BuildParams) { p.AppVersion = "" },
		"platform":  func(p *BuildParams) { p.Platform = "" },
		"company":   func(p *BuildParams) { p.Company = "" },
		"relative":  func(p *BuildParams) { p.OutDir = "staging" },
		"bad regex": func(p *BuildParams) { p.Ignore = []string{"(["} },
	}

	for name, mutate := range mutations {
		params := validParams()
		mutate(&params)

		_, err := NewBuildOptions(params)
		require.Error(t, err, name)
	}
}

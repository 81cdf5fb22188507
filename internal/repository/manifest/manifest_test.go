package manifest

import (
	"context"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestStore_RecordAndSave records archives concurrently and writes them sorted.
func TestStore_RecordAndSave(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/release", Manifest{
		Product:      "E Corp",
		Version:      "1.0.0",
		BuildVersion: "20261016101010000",
		CreatedAt:    time.Date(2026, 10, 16, 10, 10, 10, 0, time.UTC),
	})

	archives := []string{"ecorp-linux-x64-v1.0.0.zip", "ecorp-linux-ia32-v1.0.0.zip", "ecorp-darwin-x64-v1.0.0.zip"}
	for i, name := range archives {
		require.NoError(t, afero.WriteFile(fs, "/release/"+name, []byte(fmt.Sprint("zip", i)), 0o644))
	}

	var wg sync.WaitGroup

	for _, name := range archives {
		name := name
		wg.Add(1)

		go func() {
			defer wg.Done()

			platform := strings.Split(name, "-")[1]
			require.NoError(t, store.Record(platform, strings.Split(name, "-")[2], "/release/"+name))
		}()
	}

	wg.Wait()
	require.NoError(t, store.Save(context.Background()))

	contents, err := afero.ReadFile(fs, "/release/"+Filename)
	require.NoError(t, err)

	var saved Manifest
	require.NoError(t, yaml.Unmarshal(contents, &saved))
	require.Equal(t, "E Corp", saved.Product)
	require.Len(t, saved.Archives, 3)
	require.Equal(t, "ecorp-darwin-x64-v1.0.0.zip", saved.Archives[0].File)
	require.Equal(t, "darwin", saved.Archives[0].Platform)
	require.Equal(t, "x64", saved.Archives[0].Arch)

	sum := sha512.Sum512([]byte("zip2"))
	require.Equal(t, base64.StdEncoding.EncodeToString(sum[:]), saved.Archives[0].Checksum)
	require.Equal(t, int64(4), saved.Archives[0].Size)
}

// TestStore_RecordMissing fails for an absent archive.
func TestStore_RecordMissing(t *testing.T) {
	t.Parallel()

	store := NewStore(afero.NewMemMapFs(), "/release", Manifest{})
	require.Error(t, store.Record("linux", "x64", "/release/none.zip"))
	require.Empty(t, store.Snapshot().Archives)
}

// TestDetectActor ensures user and host are detected and non-empty.
func TestDetectActor(t *testing.T) {
	t.Parallel()

	actor, err := DetectActor()
	require.NoError(t, err)

	user, host, found := strings.Cut(actor, "@")
	require.True(t, found)
	require.NotEmpty(t, user)
	require.NotEmpty(t, host)
}

package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `distretto,nome,descrizione,link_video,difficoltà,serie,ripetizioni
schiena,Ponte glutei,Solleva il bacino da supino,https://youtu.be/ponte,media,3,12
schiena,Bird dog,Estendi braccio e gamba opposti,https://youtu.be/birddog,facile,3,10
spalla,Pendolo di Codman,Oscilla il braccio rilassato,,facile,3,15
generale,Plank,Tieni la posizione,https://youtu.be/plank,media,,
ginocchio,Squat,,https://youtu.be/squat,media,abc,12
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "esercizi.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderParsesCatalog(t *testing.T) {
	loader := NewLoader(writeCatalog(t, sampleCSV))
	entries, err := loader.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 5)

	ponte, ok := loader.Find("Ponte glutei")
	require.True(t, ok)
	assert.Equal(t, "schiena", ponte.Region)
	assert.Equal(t, "media", ponte.Difficulty)
	assert.Equal(t, 3, ponte.DefaultSets)
	assert.Equal(t, 12, ponte.DefaultReps)

	// Missing cells default to empty strings.
	pendolo, ok := loader.Find("Pendolo di Codman")
	require.True(t, ok)
	assert.Equal(t, "", pendolo.DemoLink)
}

func TestDefaultsForBlankOrUnparsableSetsReps(t *testing.T) {
	loader := NewLoader(writeCatalog(t, sampleCSV))

	plank, ok := loader.Find("Plank")
	require.True(t, ok)
	assert.Equal(t, DefaultSets, plank.DefaultSets)
	assert.Equal(t, DefaultReps, plank.DefaultReps)

	squat, ok := loader.Find("Squat")
	require.True(t, ok)
	assert.Equal(t, DefaultSets, squat.DefaultSets, "unparsable serie falls back")
	assert.Equal(t, 12, squat.DefaultReps)
}

func TestGeneralEntriesBelongToEveryRegion(t *testing.T) {
	loader := NewLoader(writeCatalog(t, sampleCSV))

	schiena, err := loader.ForRegion("schiena")
	require.NoError(t, err)
	names := make([]string, 0, len(schiena))
	for _, e := range schiena {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"Ponte glutei", "Bird dog", "Plank"}, names)

	spalla, err := loader.ForRegion("spalla")
	require.NoError(t, err)
	assert.Len(t, spalla, 2, "Pendolo plus the general Plank")

	assert.True(t, EligibleForRegion(Entry{Region: "generale"}, "anything"))
	assert.True(t, EligibleForRegion(Entry{Region: "general"}, "anything"))
	assert.False(t, EligibleForRegion(Entry{Region: "spalla"}, "schiena"))
}

func TestRegionsExcludeGeneralSentinel(t *testing.T) {
	loader := NewLoader(writeCatalog(t, sampleCSV))
	regions, err := loader.Regions()
	require.NoError(t, err)
	assert.Equal(t, []string{"ginocchio", "schiena", "spalla"}, regions)
}

func TestCacheRefreshesAfterTTL(t *testing.T) {
	path := writeCatalog(t, sampleCSV)
	loader := NewLoaderTTL(path, 10*time.Millisecond)

	entries, err := loader.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 5)

	extra := sampleCSV + "caviglia,Calf raise,Sollevati sulle punte,,facile,3,15\n"
	require.NoError(t, os.WriteFile(path, []byte(extra), 0o644))

	// Still within the cache window.
	entries, err = loader.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	time.Sleep(20 * time.Millisecond)
	entries, err = loader.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 6)
}

func TestMissingCatalogFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := loader.Entries()
	assert.Error(t, err)
}

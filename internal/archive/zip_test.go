package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/censusalign/censusalign/pkg/errors"
)

func writeTestZip(t *testing.T, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range members {
		member, err := w.Create(name)
		require.NoError(t, err)
		_, err = member.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestIsZip(t *testing.T) {
	archive := writeTestZip(t, map[string]string{"a.csv": "x"})
	assert.True(t, IsZip(archive))

	plain := filepath.Join(t.TempDir(), "plain.csv")
	require.NoError(t, os.WriteFile(plain, []byte("SRPREC_KEY,GOVDEM01\n"), 0o644))
	assert.False(t, IsZip(plain))
	assert.False(t, IsZip(filepath.Join(t.TempDir(), "missing")))
}

func TestExtractFirst(t *testing.T) {
	archive := writeTestZip(t, map[string]string{
		"readme.txt":             "notes",
		"sov/state_g22_sov.csv":  "SRPREC_KEY,GOVDEM01\n60750001,10\n",
		"__MACOSX/._g22_sov.csv": "junk",
	})

	dest := t.TempDir()
	out, err := ExtractFirst(archive, dest, ".csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "state_g22_sov.csv"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SRPREC_KEY")
}

func TestExtractFirstNoMatch(t *testing.T) {
	archive := writeTestZip(t, map[string]string{"readme.txt": "notes"})
	_, err := ExtractFirst(archive, t.TempDir(), ".csv")
	require.Error(t, err)

	var nfErr *errors.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestExtractShapefile(t *testing.T) {
	archive := writeTestZip(t, map[string]string{
		"tl_2022_06_bg.shp": "shp",
		"tl_2022_06_bg.dbf": "dbf",
		"tl_2022_06_bg.shx": "shx",
		"tl_2022_06_bg.prj": "prj",
		"tl_2022_06_bg.xml": "metadata",
	})

	dest := t.TempDir()
	shpPath, err := ExtractShapefile(archive, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "tl_2022_06_bg.shp"), shpPath)

	for _, sidecar := range []string{".dbf", ".shx", ".prj"} {
		_, err := os.Stat(filepath.Join(dest, "tl_2022_06_bg"+sidecar))
		assert.NoError(t, err, sidecar)
	}
	_, err = os.Stat(filepath.Join(dest, "tl_2022_06_bg.xml"))
	assert.True(t, os.IsNotExist(err), "metadata must not be extracted")
}

func TestExtractShapefileMissing(t *testing.T) {
	archive := writeTestZip(t, map[string]string{"only.csv": "x"})
	_, err := ExtractShapefile(archive, t.TempDir())
	require.Error(t, err)
}

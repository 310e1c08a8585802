package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/hge_sampler/internal/geometry"
)

func TestParseList(t *testing.T) {
	input := strings.Join([]string{
		"# map of the hall",
		"",
		"scan_000.ply 1.5 -2 3e1 1 0 0 0",
		"   ",
		"sub/scan_001.ply\t0 0 0\t0.5 0.5 0.5 0.5\r",
	}, "\n")

	entries, err := ParseList(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "scan_000.ply", entries[0].Filename)
	assert.Equal(t, mgl32.Vec3{1.5, -2, 30}, entries[0].Transform.Translation)
	assert.Equal(t, geometry.IdentityQuaternion(), entries[0].Transform.Rotation)

	assert.Equal(t, "sub/scan_001.ply", entries[1].Filename)
	assert.Equal(t, geometry.Quaternion{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5}, entries[1].Transform.Rotation)
}

func TestParseListErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		reason string
	}{
		{"too few fields", "a.ply 1 2 3 1 0 0", 1, "expected 8 fields, found 7"},
		{"too many fields", "\na.ply 1 2 3 1 0 0 0 9", 2, "expected 8 fields, found 9"},
		{"not a number", "a.ply 1 2 x 1 0 0 0", 1, `invalid number "x"`},
		{"after comment", "# c\na.ply 0 0 0 1 0 0 0\nb.ply 0 0 0 1 0 0 nan?", 3, `invalid number "nan?"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseList(strings.NewReader(tt.input))
			var listErr *ListError
			require.True(t, errors.As(err, &listErr), "got %v", err)
			assert.Equal(t, tt.line, listErr.Line)
			assert.Equal(t, tt.reason, listErr.Reason)
		})
	}
}

func TestReadListFileResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	absolute := filepath.Join(dir, "elsewhere", "abs.ply")
	content := "rel.ply 0 0 0 1 0 0 0\n" + absolute + " 0 0 0 1 0 0 0\n"
	listPath := filepath.Join(dir, "list.txt")
	require.NoError(t, os.WriteFile(listPath, []byte(content), 0o644))

	entries, err := ReadListFile(listPath)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, filepath.Join(dir, "rel.ply"), entries[0].Filename)
	assert.Equal(t, absolute, entries[1].Filename)
}

func TestReadListFileMissing(t *testing.T) {
	_, err := ReadListFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadListFileReportsPath(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(listPath, []byte("broken\n"), 0o644))

	_, err := ReadListFile(listPath)
	var listErr *ListError
	require.True(t, errors.As(err, &listErr))
	assert.Contains(t, err.Error(), listPath)
}

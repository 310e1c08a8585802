package export

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/hge_sampler/internal/data"
)

func readAll(t *testing.T, input string) ([]*data.Point, error) {
	t.Helper()
	r := NewTextReader(strings.NewReader(input))
	var points []*data.Point
	for {
		p, err := r.Next()
		if err == io.EOF {
			return points, nil
		}
		if err != nil {
			return points, err
		}
		points = append(points, p)
	}
}

func TestTextReaderReadsWriterOutput(t *testing.T) {
	for _, input := range []string{
		writeAll(t, FormatText, samplePoints),
		"1.5 -2 0.25 255 0 7 0 1 0 1.23457e+06 0.0001 1e-05 1 22 128 -1 0 0 ",
	} {
		points, err := readAll(t, input)
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.Equal(t, samplePoints[0], points[0])
		assert.Equal(t, samplePoints[1].Color, points[1].Color)
		assert.InDelta(t, 1234570, points[1].Position[0], 1)
	}
}

func TestTextReaderDropsPartialRecord(t *testing.T) {
	points, err := readAll(t, "1 2 3 4 5 6 7 8 9\n1 2 3")
	require.NoError(t, err)
	assert.Len(t, points, 1)

	points, err = readAll(t, "  \n")
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestTextReaderErrors(t *testing.T) {
	for name, input := range map[string]string{
		"bad float":     "1 2 x 4 5 6 7 8 9",
		"color too big": "1 2 3 256 5 6 7 8 9",
		"float color":   "1 2 3 4.5 5 6 7 8 9",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := readAll(t, "0 0 0 0 0 0 0 0 1\n"+input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "record 1")
		})
	}
}

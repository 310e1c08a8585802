package export

import (
	"bufio"
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ecopia-map/hge_sampler/internal/data"
)

const textFields = 9

// TextReader reads points written in the text format. Records are sequences of nine
// whitespace separated fields; line breaks carry no meaning.
type TextReader struct {
	scanner *bufio.Scanner
	records int
	tokens  [textFields]string
}

func NewTextReader(r io.Reader) *TextReader {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return &TextReader{scanner: scanner}
}

// Next returns the next point, or io.EOF after the last complete record. A trailing partial
// record is dropped with a warning.
func (t *TextReader) Next() (*data.Point, error) {
	n := 0
	for n < textFields && t.scanner.Scan() {
		t.tokens[n] = t.scanner.Text()
		n++
	}
	if err := t.scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read text points")
	}
	if n == 0 {
		return nil, io.EOF
	}
	if n < textFields {
		glog.Warningf("dropping incomplete record %d with %d of %d fields", t.records, n, textFields)
		return nil, io.EOF
	}

	p, err := t.parse()
	if err != nil {
		return nil, errors.WithMessagef(err, "record %d", t.records)
	}
	t.records++
	return p, nil
}

func (t *TextReader) parse() (*data.Point, error) {
	var floats [6]float32
	for i, index := range []int{0, 1, 2, 6, 7, 8} {
		v, err := strconv.ParseFloat(t.tokens[index], 32)
		if err != nil {
			return nil, err
		}
		floats[i] = float32(v)
	}

	var colors [3]uint8
	for i := range colors {
		v, err := strconv.ParseUint(t.tokens[3+i], 10, 8)
		if err != nil {
			return nil, err
		}
		colors[i] = uint8(v)
	}

	return data.NewPoint(
		mgl32.Vec3{floats[0], floats[1], floats[2]},
		data.Color{R: colors[0], G: colors[1], B: colors[2]},
		mgl32.Vec3{floats[3], floats[4], floats[5]},
	), nil
}

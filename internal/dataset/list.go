package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/ecopia-map/hge_sampler/internal/geometry"
)

// number of whitespace separated fields in a list record: filename tx ty tz qw qx qy qz
const recordFields = 8

// Entry is a point cloud file together with the transform placing it in the shared frame
type Entry struct {
	Filename  string
	Transform geometry.RigidTransform
}

// ListError reports a malformed record of a transform list
type ListError struct {
	Line   int
	Reason string
}

func (e *ListError) Error() string {
	return fmt.Sprintf("transform list line %d: %s", e.Line, e.Reason)
}

// ParseList reads transform list records from r. Blank lines and lines starting with # are skipped.
// Filenames are returned as written.
func ParseList(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	entries := make([]Entry, 0)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseRecord(line, lineNumber)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read transform list")
	}

	return entries, nil
}

// ReadListFile parses the list at path. Relative filenames are resolved against the directory
// containing the list.
func ReadListFile(path string) (entries []Entry, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open transform list %s", path)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	entries, err = ParseList(f)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}

	base := filepath.Dir(path)
	for i := range entries {
		if !filepath.IsAbs(entries[i].Filename) {
			entries[i].Filename = filepath.Join(base, entries[i].Filename)
		}
	}
	glog.V(2).Infof("read %d entries from %s", len(entries), path)

	return entries, nil
}

func parseRecord(line string, lineNumber int) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) != recordFields {
		return Entry{}, &ListError{
			Line:   lineNumber,
			Reason: fmt.Sprintf("expected %d fields, found %d", recordFields, len(fields)),
		}
	}

	values := make([]float32, recordFields-1)
	for i, token := range fields[1:] {
		d, err := decimal.NewFromString(token)
		if err != nil {
			return Entry{}, &ListError{Line: lineNumber, Reason: fmt.Sprintf("invalid number %q", token)}
		}
		f, _ := d.Float64()
		values[i] = float32(f)
	}

	// the list stores the quaternion scalar first
	translation := mgl32.Vec3{values[0], values[1], values[2]}
	rotation := geometry.Quaternion{W: values[3], X: values[4], Y: values[5], Z: values[6]}

	return Entry{
		Filename:  fields[0],
		Transform: geometry.NewRigidTransform(translation, rotation),
	}, nil
}

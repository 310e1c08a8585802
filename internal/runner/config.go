package runner

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// LoadConfigFile reads a YAML run file mapping option names, as used on the command line, to
// values. Values are returned in their textual form so they can be fed to the flag parser.
//
//	list: point_clouds.txt
//	workers: 8
//	keep-going: true
func LoadConfigFile(path string) (values map[string]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open config file %s", path)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	var raw map[string]interface{}
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrapf(err, "cannot parse config file %s", path)
	}

	values = make(map[string]string, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case map[string]interface{}, []interface{}:
			return nil, errors.Errorf("config option %q must be a scalar", name)
		case nil:
			continue
		default:
			values[name] = fmt.Sprint(v)
		}
	}
	return values, nil
}

// SortedNames returns the option names of a config in a stable order
func SortedNames(values map[string]string) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

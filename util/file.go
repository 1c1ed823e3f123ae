package util

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// ReadFileYAML decodes a YAML file into target. JSON documents are valid
// YAML, so record and action files may use either format.
func ReadFileYAML(path string, target interface{}) error {
	if !FileExists(path) {
		return errors.Errorf("file '%s' does not exist", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading file '%s'", path)
	}

	return errors.Wrapf(yaml.Unmarshal(data, target), "parsing yaml/json from file '%s'", path)
}

// FileExists returns false for the empty path.
func FileExists(path string) bool {
	if path == "" {
		return false
	}

	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

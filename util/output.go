package util

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// EncodeJSON writes data to w as indented JSON followed by a newline.
func EncodeJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "   ")
	return errors.Wrap(enc.Encode(data), "encoding json")
}

// WriteJSON replaces fn with the JSON encoding of data. The document is
// written next to fn and renamed into place, so readers never observe a
// partial file.
func WriteJSON(fn string, data interface{}) error {
	tmp, err := os.CreateTemp(filepath.Dir(fn), filepath.Base(fn)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "creating temporary file for '%s'", fn)
	}

	catcher := grip.NewBasicCatcher()
	catcher.Add(EncodeJSON(tmp, data))
	catcher.Wrap(tmp.Sync(), "syncing file")
	catcher.Wrap(tmp.Close(), "closing file")
	if !catcher.HasErrors() {
		catcher.Wrapf(os.Rename(tmp.Name(), fn), "renaming output to '%s'", fn)
	}
	if catcher.HasErrors() {
		grip.Warning(os.Remove(tmp.Name()))
	}

	return catcher.Resolve()
}

// PrintJSON writes data to standard output.
func PrintJSON(data interface{}) error {
	return EncodeJSON(os.Stdout, data)
}

// Package output serializes gridcore results.
package output

import (
	"encoding/json"
	"io"
	"os"
)

// ToJSON serializes v to JSON. Pretty output is indented with two spaces.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// WriteJSON writes v to w followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	data, err := ToJSON(v, pretty)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteJSONFile writes v to the file at path, or to stdout when path is empty.
func WriteJSONFile(path string, v any, pretty bool) error {
	if path == "" {
		return WriteJSON(os.Stdout, v, pretty)
	}
	data, err := ToJSON(v, pretty)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

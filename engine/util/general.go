package util

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// FromJsonFile decodes filename into msg.
func FromJsonFile(filename string, msg any) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return errors.Wrapf(err, "parse %s", filename)
	}
	return nil
}

func ToJson(msg any) string {
	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

package testsupport

import (
	"encoding/json"
	"os"
)

// LoadFixture reads a fixture file.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadJSON decodes a JSON fixture into v.
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

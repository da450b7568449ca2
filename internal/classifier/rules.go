package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadKeywords reads a keyword override file and overlays it onto the
// defaults. Lists absent from the file keep their default values, so a rules
// file only needs to name the tables it changes.
func LoadKeywords(path string) (Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("read keyword rules %s: %w", path, err)
	}

	var override Keywords
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Keywords{}, fmt.Errorf("parse keyword rules %s: %w", path, err)
	}

	return DefaultKeywords.merge(override), nil
}

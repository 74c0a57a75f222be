package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// readSentences loads the sentences to translate from a file. Three formats
// are accepted: a JSON array of strings, a JSON object with a "sentences"
// array, or plain text with one sentence per line. Blank lines are skipped.
func readSentences(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var sentences []string
		if err := json.Unmarshal(data, &sentences); err != nil {
			return nil, fmt.Errorf("parse JSON array in %s: %w", path, err)
		}
		return sentences, nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var doc struct {
			Sentences []string `json:"sentences"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse JSON object in %s: %w", path, err)
		}
		if doc.Sentences == nil {
			return nil, fmt.Errorf("%s: JSON object has no \"sentences\" array", path)
		}
		return doc.Sentences, nil
	}

	var sentences []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sentences = append(sentences, line)
		}
	}
	return sentences, nil
}

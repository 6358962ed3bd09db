package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/wealthdesk/internal/core/checklist"
)

// LoadAnswersFile reads checklist answers from a YAML or JSON file.
// Unknown keys are rejected so typos do not silently drop fields.
func LoadAnswersFile(path string) (checklist.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return checklist.Answers{}, fmt.Errorf("failed to read answers file: %w", err)
	}
	return ParseAnswers(data)
}

// ParseAnswers decodes YAML (or JSON, a YAML subset) into answers and validates ranges.
func ParseAnswers(data []byte) (checklist.Answers, error) {
	var answers checklist.Answers
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&answers); err != nil {
		return checklist.Answers{}, fmt.Errorf("failed to parse answers: %w", err)
	}
	answers.EnsureIDs()
	if err := answers.Validate(); err != nil {
		return checklist.Answers{}, err
	}
	return answers, nil
}

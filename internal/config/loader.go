package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"survey-agent/internal/catalog"
	"survey-agent/internal/survey"
)

// LoadCatalog reads a question catalog from a YAML file. An empty path yields the built-in
// catalog.
func LoadCatalog(filename string) (*catalog.Catalog, error) {
	if strings.TrimSpace(filename) == "" {
		return catalog.Default(), nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, survey.NewError(survey.CodeConfig, "catalog file could not be read", fmt.Errorf("read %s: %w", filename, err))
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates catalog YAML. Unknown keys are rejected.
func ParseCatalog(data []byte) (*catalog.Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, survey.NewError(survey.CodeConfig, "catalog file is not valid YAML", err)
	}

	questions := make([]catalog.Question, 0, len(file.Questions))
	for _, q := range file.Questions {
		questions = append(questions, catalog.Question{
			ID:        strings.TrimSpace(q.ID),
			Text:      strings.TrimSpace(q.Text),
			ResultTag: strings.TrimSpace(q.SolutionID),
		})
	}

	cat, err := catalog.New(questions)
	if err != nil {
		return nil, survey.NewError(survey.CodeConfig, "catalog file is invalid", err)
	}
	return cat, nil
}

// Package storage keeps completed console surveys as JSON files.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	filePrefix = "survey_"
	fileSuffix = ".json"
)

// Store writes results into a single directory, one file per conversation.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the results directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes result and returns the file path.
func (s *Store) Save(result *SurveyResult) (string, error) {
	if result.ConversationID == "" {
		return "", fmt.Errorf("result has no conversation id")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", s.dir, err)
	}

	path := s.path(result.ConversationID)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Load reads the result saved for conversationID.
func (s *Store) Load(conversationID string) (*SurveyResult, error) {
	path := s.path(conversationID)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var result SurveyResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &result, nil
}

// List returns the conversation ids of saved results, sorted. A missing directory is empty.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", s.dir, err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) path(conversationID string) string {
	return filepath.Join(s.dir, filePrefix+filepath.Base(conversationID)+fileSuffix)
}

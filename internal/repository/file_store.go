package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
)

// FileStore persists the collection as an indented JSON array in a single file.
// Writes go straight to the target path; a failed write may leave it truncated.
type FileStore struct {
	path string
}

// NewFileStore constructs a FileStore for path. The file is not touched until
// the first Load or Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and decodes the whole file.
func (s *FileStore) Load(ctx context.Context) ([]model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorage, s.path, err)
	}

	var activities []model.Activity
	if err := json.Unmarshal(data, &activities); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrStorage, s.path, err)
	}
	if activities == nil {
		activities = []model.Activity{}
	}
	return activities, nil
}

// Save encodes activities and overwrites the file.
func (s *FileStore) Save(ctx context.Context, activities []model.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if activities == nil {
		activities = []model.Activity{}
	}

	data, err := json.MarshalIndent(activities, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode activities: %w", ErrStorage, err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorage, s.path, err)
	}
	return nil
}

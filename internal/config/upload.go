// internal/config/upload.go
package config

import (
	"fmt"

	"github.com/docker/go-units"
)

type UploadConfig struct {
	Folder        string   `toml:"folder"`
	MaxSize       string   `toml:"max_size"` // human readable, e.g. "20MB"
	AllowedTypes  []string `toml:"allowed_types"`
	LocalDir      string   `toml:"local_dir"`
	PublicBaseURL string   `toml:"public_base_url"`
	FileFields    []string `toml:"file_fields"`
}

func (u *UploadConfig) MaxSizeBytes() (int64, error) {
	size, err := units.FromHumanSize(u.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("invalid upload max size %q: %w", u.MaxSize, err)
	}
	if size <= 0 {
		return 0, fmt.Errorf("upload max size must be positive")
	}
	return size, nil
}

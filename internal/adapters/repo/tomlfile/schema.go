package tomlfile

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int          `toml:"version"`
	Titles  []seenSchema `toml:"titles"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported seen-set schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type seenSchema struct {
	Identity    string `toml:"identity"`
	Title       string `toml:"title"`
	Platform    string `toml:"platform,omitempty"`
	FirstSeenAt string `toml:"first_seen_at"`
}

package store

import (
	"fmt"
)

// Setting keys.
const (
	SettingTheme = "theme"
)

func (s *Store) GetSetting(key string) (string, error) {
	data, err := s.kv.Read(settingsPrefix + key)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return string(data), nil
}

func (s *Store) SetSetting(key, value string) error {
	return s.write(settingsPrefix+key, []byte(value))
}

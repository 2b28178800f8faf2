package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func ReadJsonFile[T any](path string, res *T) (*T, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, res); err != nil {
		return nil, err
	}
	return res, nil
}

func WriteJsonFile[T any](path string, obj *T) error {
	b, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0600) // -rw-------
}

func ReadTOMLFile[T any](path string, res *T) (*T, error) {
	if _, err := toml.DecodeFile(filepath.Clean(path), res); err != nil {
		return nil, err
	}
	return res, nil
}

func WriteTOMLFile[T any](path string, obj *T) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(obj); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0600) // -rw-------
}

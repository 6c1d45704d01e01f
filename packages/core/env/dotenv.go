package env

import (
	"fmt"

	"github.com/joho/godotenv"
)

// LoadEnvFile parses a .env file and returns its key-value pairs.
// The OS environment is not modified; combine the result with Environ via
// Merge so that file values take precedence.
func LoadEnvFile(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read env file %s: %w", path, err)
	}
	return vars, nil
}

// Load returns the process environment overlaid with the given env file.
// An empty path returns the process environment only.
func Load(envFile string) (map[string]string, error) {
	vars := Environ()
	if envFile == "" {
		return vars, nil
	}
	fileVars, err := LoadEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	return Merge(vars, fileVars), nil
}

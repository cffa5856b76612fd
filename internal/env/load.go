// Package env reads the search API credential from a local key-value file.
package env

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
)

// APIKeyVar is the key looked up in the credential file.
const APIKeyVar = "SHODAN_API_KEY"

var (
	// ErrCredentialsNotFound is returned when the credential file does not exist.
	ErrCredentialsNotFound = errors.New("credential file not found")
	// ErrMissingAPIKey is returned when the file exists but has no usable key.
	ErrMissingAPIKey = errors.New("SHODAN_API_KEY not set in credential file")
)

// LoadAPIKey reads path as a dotenv file and returns the SHODAN_API_KEY value.
// The process environment is deliberately not consulted.
func LoadAPIKey(path string) (string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", eris.Wrapf(ErrCredentialsNotFound, "env: %s", path)
		}
		return "", eris.Wrapf(err, "env: read %s", path)
	}

	key := strings.TrimSpace(vars[APIKeyVar])
	if key == "" {
		return "", eris.Wrapf(ErrMissingAPIKey, "env: %s", path)
	}
	return key, nil
}

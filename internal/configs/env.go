package configs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFileName is the file of environment settings loaded at startup. A
// project's .env is never loaded; upload-env reads it as secrets only.
const EnvFileName = ".ghsecrets.env"

// LoadEnvFile loads dir/.ghsecrets.env into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(dir string) error {
	path := filepath.Join(dir, EnvFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

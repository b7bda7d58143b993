package configs

import (
	"os"
	"path/filepath"

	"github.com/PolarWolf314/ghsecrets/internal/utils"
)

type UserSettings struct {
	UserConfigsPath string
	UserDataPath    string
	Username        string
}

var UserGhsecretsSettings *UserSettings

func init() {
	UserGhsecretsSettings = DefaultUserSettings()
}

// DefaultUserSettings resolves the XDG locations for the current user.
func DefaultUserSettings() *UserSettings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			configDir = dir
		} else {
			configDir = filepath.Join(homeDir, ".config")
		}
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "ghsecrets"),
		UserDataPath:    filepath.Join(dataDir, "ghsecrets"),
		Username:        utils.Username(),
	}
}

// ConfigPath returns the path of config.toml.
func ConfigPath() string {
	return filepath.Join(UserGhsecretsSettings.UserConfigsPath, "config.toml")
}

// AuditLogPath returns the path of the audit log, or "" when no data
// directory is configured.
func AuditLogPath() string {
	if UserGhsecretsSettings == nil || UserGhsecretsSettings.UserDataPath == "" {
		return ""
	}
	return filepath.Join(UserGhsecretsSettings.UserDataPath, "audit.jsonl")
}

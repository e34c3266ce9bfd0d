package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into an empty directory so no .env file from the repository is loaded.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, 10*time.Second, cfg.ServerShutdownTimeout)
				assert.Equal(t, StorageDriverBlob, cfg.StorageDriver)
				assert.Equal(t, "SECURE_STORAGE_PREFS", cfg.StorageNamespace)
				assert.Equal(t, "SECURE_STORAGE_MASTER_KEY", cfg.MasterKeyAlias)
				assert.Equal(t, "aes-gcm", cfg.CipherAlgorithm)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.True(t, cfg.RateLimitEnabled)
				assert.False(t, cfg.CORSEnabled)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "securestore", cfg.MetricsNamespace)
				assert.Empty(t, cfg.KMSKeyURI)
			},
		},
		{
			name: "load custom storage configuration",
			envVars: map[string]string{
				"STORAGE_DRIVER":          "mysql",
				"STORAGE_NAMESPACE":       "APP_PREFS",
				"DB_CONNECTION_STRING":    "user:password@tcp(localhost:3306)/testdb",
				"DB_MAX_OPEN_CONNECTIONS": "50",
				"DB_MAX_IDLE_CONNECTIONS": "10",
				"DB_CONN_MAX_LIFETIME":    "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, StorageDriverMySQL, cfg.StorageDriver)
				assert.Equal(t, "APP_PREFS", cfg.StorageNamespace)
				assert.Equal(t, "user:password@tcp(localhost:3306)/testdb", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10, cfg.DBMaxIdleConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
				assert.True(t, cfg.IsSQL())
			},
		},
		{
			name: "load custom key configuration",
			envVars: map[string]string{
				"KMS_KEY_URI":      "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4=",
				"MASTER_KEY_ALIAS": "APP_MASTER_KEY",
				"CIPHER_ALGORITHM": "chacha20-poly1305",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4=", cfg.KMSKeyURI)
				assert.Equal(t, "APP_MASTER_KEY", cfg.MasterKeyAlias)
				assert.Equal(t, "chacha20-poly1305", cfg.CipherAlgorithm)
			},
		},
		{
			name: "load custom rate limit and cors configuration",
			envVars: map[string]string{
				"RATE_LIMIT_ENABLED":          "false",
				"RATE_LIMIT_REQUESTS_PER_SEC": "2.5",
				"RATE_LIMIT_BURST":            "3",
				"CORS_ENABLED":                "true",
				"CORS_ALLOW_ORIGINS":          "https://app.example.com",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.RateLimitEnabled)
				assert.Equal(t, 2.5, cfg.RateLimitRequestsPerSec)
				assert.Equal(t, 3, cfg.RateLimitBurst)
				assert.True(t, cfg.CORSEnabled)
				assert.Equal(t, "https://app.example.com", cfg.CORSAllowOrigins)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			tt.validate(t, Load())
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORAGE_NAMESPACE=FROM_DOTENV\n"), 0o600))

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	// Setenv registers a cleanup restoring the variable godotenv is about to set
	t.Setenv("STORAGE_NAMESPACE", "")
	require.NoError(t, os.Unsetenv("STORAGE_NAMESPACE"))

	cfg := Load()
	assert.Equal(t, "FROM_DOTENV", cfg.StorageNamespace)
}

func validConfig() *Config {
	return &Config{
		ServerPort:       8080,
		MetricsPort:      8081,
		StorageDriver:    StorageDriverBlob,
		StorageNamespace: "SECURE_STORAGE_PREFS",
		BlobBucketURL:    "mem://",
		KMSKeyURI:        "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4=",
		MasterKeyAlias:   "SECURE_STORAGE_MASTER_KEY",
		CipherAlgorithm:  "aes-gcm",
		LogLevel:         "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(cfg *Config)
		shouldErr bool
		errMsg    string
	}{
		{name: "valid blob configuration", mutate: func(cfg *Config) {}},
		{
			name: "valid postgres configuration",
			mutate: func(cfg *Config) {
				cfg.StorageDriver = StorageDriverPostgres
				cfg.BlobBucketURL = ""
				cfg.DBConnectionString = "postgres://localhost/db"
			},
		},
		{
			name:      "unknown driver",
			mutate:    func(cfg *Config) { cfg.StorageDriver = "sqlite" },
			shouldErr: true,
			errMsg:    "StorageDriver",
		},
		{
			name: "sql driver without connection string",
			mutate: func(cfg *Config) {
				cfg.StorageDriver = StorageDriverMySQL
				cfg.DBConnectionString = ""
			},
			shouldErr: true,
			errMsg:    "DBConnectionString",
		},
		{
			name:      "blob driver without bucket",
			mutate:    func(cfg *Config) { cfg.BlobBucketURL = "" },
			shouldErr: true,
			errMsg:    "BlobBucketURL",
		},
		{
			name:      "missing kms key",
			mutate:    func(cfg *Config) { cfg.KMSKeyURI = "" },
			shouldErr: true,
			errMsg:    "KMSKeyURI",
		},
		{
			name:      "unsupported algorithm",
			mutate:    func(cfg *Config) { cfg.CipherAlgorithm = "aes-cbc" },
			shouldErr: true,
			errMsg:    "CipherAlgorithm",
		},
		{
			name:      "empty namespace",
			mutate:    func(cfg *Config) { cfg.StorageNamespace = "" },
			shouldErr: true,
			errMsg:    "StorageNamespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.shouldErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_GetGinMode(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "info"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "error"}).GetGinMode())
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "APP_ENV", "LOG_LEVEL", "STORAGE_BACKEND", "STORAGE_DIR", "REDIS_URL",
		"DATABASE_URL", "ADMIN_USERNAME", "ADMIN_PASSWORD_HASH", "ADMIN_PASSWORD",
		"STRICT_DECODING", "CORS_ALLOW_ORIGINS", "SHUTDOWN_TIMEOUT", "DB_MAX_CONNS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.Development())
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "./data", cfg.Storage.Dir)
	assert.False(t, cfg.Storage.StrictDecoding)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10, cfg.DBMaxConns)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STRICT_DECODING", "true")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("REDIS_MAX_RETRIES", "3")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.True(t, cfg.Storage.StrictDecoding)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.Equal(t, 3, cfg.Storage.RedisMaxRetries)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "memory", cfg: Config{Storage: StorageConfig{Backend: BackendMemory}}},
		{name: "file with dir", cfg: Config{Storage: StorageConfig{Backend: BackendFile, Dir: "/tmp/x"}}},
		{name: "file without dir", cfg: Config{Storage: StorageConfig{Backend: BackendFile}}, wantErr: true},
		{name: "postgres without url", cfg: Config{Storage: StorageConfig{Backend: BackendPostgres}}, wantErr: true},
		{name: "redis without url", cfg: Config{Storage: StorageConfig{Backend: BackendRedis}}, wantErr: true},
		{name: "unknown", cfg: Config{Storage: StorageConfig{Backend: "sqlite"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdminConfig_Hash(t *testing.T) {
	h, err := AdminConfig{}.Hash()
	require.NoError(t, err)
	assert.Nil(t, h)

	h, err = AdminConfig{Password: "s3cret"}.Hash()
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(h, []byte("s3cret")))

	pre, err := bcrypt.GenerateFromPassword([]byte("other"), bcrypt.MinCost)
	require.NoError(t, err)
	h, err = AdminConfig{PasswordHash: string(pre), Password: "ignored"}.Hash()
	require.NoError(t, err)
	assert.Equal(t, pre, h)

	_, err = AdminConfig{PasswordHash: "plain-text"}.Hash()
	assert.Error(t, err)
}

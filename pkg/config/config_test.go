package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cr3t")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Invitation.TTLMinutes)
	assert.Equal(t, 3, cfg.Invitation.BootstrapTTLMinutes)
	assert.False(t, cfg.Invitation.RollbackOnFailure)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "storage", cfg.Storage.LocalDir)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_SobrescribeDesdeEnv(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cr3t")
	v.Set("INVITATION_TTL_MINUTES", "15")
	v.Set("INVITATION_ROLLBACK_ON_FAILURE", "true")
	v.Set("HTTP_PORT", "9090")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Invitation.TTLMinutes)
	assert.True(t, cfg.Invitation.RollbackOnFailure)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestFromViper_SinSecretJWT(t *testing.T) {
	_, err := fromViper(viper.New())
	assert.Error(t, err)
}

func TestFromViper_S3SinBucket(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cr3t")
	v.Set("STORAGE_DRIVER", "s3")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/word", DBName: "cot", SSLMode: "disable"}

	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/cot?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())
}

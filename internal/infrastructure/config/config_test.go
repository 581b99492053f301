package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host: "localhost",
			Port: 5432,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Settlement: SettlementConfig{
			Backend:       "mock",
			ApprovalLimit: "10000.00",
			NotifyDelay:   10 * time.Second,
		},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mock", cfg.Settlement.Backend)
	assert.Equal(t, 10*time.Second, cfg.Settlement.NotifyDelay)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)

	limit, err := cfg.Settlement.ApprovalLimitDecimal()
	require.NoError(t, err)
	assert.True(t, limit.Equal(decimal.RequireFromString("10000.00")))
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_MissingDatabaseHost(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Settlement.Backend = "sandbox"
	assert.Error(t, cfg.Validate())
}

func TestValidate_GatewayBackendRequiresURL(t *testing.T) {
	cfg := validConfig()
	cfg.Settlement.Backend = "gateway"
	cfg.Settlement.GatewayURL = ""
	assert.Error(t, cfg.Validate())

	cfg.Settlement.GatewayURL = "http://gateway:9000"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MockBackendApprovalLimit(t *testing.T) {
	tests := []struct {
		name    string
		limit   string
		wantErr bool
	}{
		{"valid", "5000.00", false},
		{"not a number", "abc", true},
		{"zero", "0", true},
		{"negative", "-1.00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Settlement.ApprovalLimit = tt.limit
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_NegativeNotifyDelay(t *testing.T) {
	cfg := validConfig()
	cfg.Settlement.NotifyDelay = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{
		Host: "db", Port: 5432, User: "paygate", Password: "secret",
		Database: "paygate", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=paygate password=secret dbname=paygate sslmode=disable",
		db.DatabaseDSN(),
	)
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6379}
	assert.Equal(t, "cache:6379", r.RedisAddr())
}

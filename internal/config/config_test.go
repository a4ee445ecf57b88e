package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{
			name:        "Development defaults pass",
			cfg:         Config{Env: "development", Port: "8443", DBPassword: "password"},
			expectError: false,
		},
		{
			name:        "Missing port fails",
			cfg:         Config{Env: "development", DBPassword: "password"},
			expectError: true,
		},
		{
			name: "Production without bot token fails",
			cfg: Config{
				Env: "production", Port: "8443",
				WebhookBase: "https://bot.example.com", DBPassword: "s3cure",
			},
			expectError: true,
		},
		{
			name: "Production with default db password fails",
			cfg: Config{
				Env: "production", Port: "8443", BotToken: "12345:token",
				WebhookBase: "https://bot.example.com", WebhookToken: "hook-secret",
				DBPassword: "password",
			},
			expectError: true,
		},
		{
			name: "Production without webhook token fails",
			cfg: Config{
				Env: "production", Port: "8443", BotToken: "12345:token",
				WebhookBase: "https://bot.example.com", DBPassword: "s3cure",
			},
			expectError: true,
		},
		{
			name: "Production fully configured passes",
			cfg: Config{
				Env: "production", Port: "8443", BotToken: "12345:token",
				WebhookBase: "https://bot.example.com", WebhookToken: "hook-secret",
				DBPassword: "s3cure",
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	c := Config{
		DBHost: "localhost", DBPort: "5432", DBUser: "user",
		DBPassword: "password", DBName: "hayami", DBSSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=user password=password dbname=hayami sslmode=disable",
		c.DSN(),
	)
}

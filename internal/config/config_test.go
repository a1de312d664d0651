package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		setVal   *string // nil means unset
		fallback string
		want     string
	}{
		{"unset_uses_fallback", nil, "default", "default"},
		{"empty_uses_fallback", strPtr(""), "default", "default"},
		{"set_uses_value", strPtr("custom"), "default", "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "WEEKPLAN_TEST_STR"
			if tt.setVal != nil {
				t.Setenv(key, *tt.setVal)
			}
			assert.Equal(t, tt.want, getEnv(key, tt.fallback))
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		setVal   *string
		fallback int
		want     int
		wantErr  bool
	}{
		{"unset_uses_fallback", nil, 42, 42, false},
		{"empty_uses_fallback", strPtr(""), 42, 42, false},
		{"valid_int", strPtr("7"), 42, 7, false},
		{"negative_int", strPtr("-3"), 42, -3, false},
		{"not_an_int", strPtr("seven"), 42, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "WEEKPLAN_TEST_INT"
			if tt.setVal != nil {
				t.Setenv(key, *tt.setVal)
			}
			got, err := getEnvInt(key, tt.fallback)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), key, "error should name the offending variable")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name    string
		setVal  *string
		want    time.Duration
		wantErr bool
	}{
		{"unset_uses_fallback", nil, 5 * time.Second, false},
		{"valid_duration", strPtr("1m30s"), 90 * time.Second, false},
		{"bare_number_rejected", strPtr("30"), 0, true},
		{"garbage_rejected", strPtr("soon"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "WEEKPLAN_TEST_DUR"
			if tt.setVal != nil {
				t.Setenv(key, *tt.setVal)
			}
			got, err := getEnvDuration(key, 5*time.Second)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetEnvList(t *testing.T) {
	tests := []struct {
		name   string
		setVal *string
		want   []string
	}{
		{"unset_uses_fallback", nil, []string{"http://localhost:3000"}},
		{"single_value", strPtr("https://a.example"), []string{"https://a.example"}},
		{"comma_separated", strPtr("https://a.example,https://b.example"), []string{"https://a.example", "https://b.example"}},
		{"trims_and_drops_empties", strPtr(" https://a.example , ,https://b.example "), []string{"https://a.example", "https://b.example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "WEEKPLAN_TEST_LIST"
			if tt.setVal != nil {
				t.Setenv(key, *tt.setVal)
			}
			assert.Equal(t, tt.want, getEnvList(key, []string{"http://localhost:3000"}))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "weekplan_dev", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxConns)
	assert.Empty(t, cfg.Redis.Addr, "live feed is off by default")
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Empty(t, cfg.Feedback.APIKey, "canned feedback is the default")
	assert.Equal(t, "gpt-4o-mini", cfg.Feedback.Model)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		errPart string
	}{
		{"port_zero", "WEEKPLAN_DB_PORT", "0", "WEEKPLAN_DB_PORT"},
		{"port_too_large", "WEEKPLAN_DB_PORT", "70000", "WEEKPLAN_DB_PORT"},
		{"port_not_int", "WEEKPLAN_DB_PORT", "abc", "WEEKPLAN_DB_PORT"},
		{"max_conns_zero", "WEEKPLAN_DB_MAX_CONNS", "0", "WEEKPLAN_DB_MAX_CONNS"},
		{"read_timeout_negative", "WEEKPLAN_SERVER_READ_TIMEOUT", "-5s", "WEEKPLAN_SERVER_READ_TIMEOUT"},
		{"write_timeout_zero", "WEEKPLAN_SERVER_WRITE_TIMEOUT", "0s", "WEEKPLAN_SERVER_WRITE_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestDSN(t *testing.T) {
	t.Parallel()

	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "planner",
		Password: "secret",
		DBName:   "weekplan",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=planner password=secret dbname=weekplan sslmode=require",
		db.DSN(),
	)
}

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigString(t *testing.T) {
	testCases := []struct {
		name     string
		config   Config
		expected string
	}{
		{
			name:     "defaults",
			expected: "host=127.0.0.1 port=5432 dbname=postgres sslmode=prefer",
		},
		{
			name:     "credentials",
			config:   Config{Host: "db", Port: "6543", DBName: "grc20", SSLMode: "disable", User: "gaze", Password: "secret"},
			expected: "host=db port=6543 dbname=grc20 sslmode=disable user=gaze password=secret",
		},
		{
			name:     "url wins",
			config:   Config{Host: "db", URL: "postgres://gaze@db:5432/grc20"},
			expected: "postgres://gaze@db:5432/grc20",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.config.String())
		})
	}
}

func TestConfigRedacted(t *testing.T) {
	assert.Equal(t, "db:5432/grc20", Config{URL: "postgres://gaze:secret@db:5432/grc20"}.redacted())
	assert.Equal(t, "127.0.0.1:5432/postgres", Config{Password: "secret"}.redacted())
}

package config

import (
	"time"

	"github.com/gaze-network/grc20-indexer/internal/postgres"
)

type Config struct {
	Datasource  string   `mapstructure:"datasource"`   // Datasource to fetch inscription transfers from. e.g. `postgres` (ordinals main index)
	Database    string   `mapstructure:"database"`     // Database to store data.
	APIHandlers []string `mapstructure:"api_handlers"` // List of API handlers to enable. (e.g. `http`)

	Postgres         postgres.Config `mapstructure:"postgres"`
	OrdinalsPostgres postgres.Config `mapstructure:"ordinals_postgres"` // Connection to the ordinals main index database

	PollingInterval time.Duration `mapstructure:"polling_interval"` // Wait between polls when caught up. Default is 5s
	RetryInterval   time.Duration `mapstructure:"retry_interval"`   // Wait before retrying a failed block. Default is 10s
}

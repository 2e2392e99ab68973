package postgres

import (
	"github.com/gaze-network/grc20-indexer/internal/postgres"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/datagateway"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/repository/postgres/gen"
	"github.com/jackc/pgx/v5"
)

var _ datagateway.GRC20DataGateway = (*Repository)(nil)

type Repository struct {
	db      postgres.DB
	queries *gen.Queries
	tx      pgx.Tx
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db:      db,
		queries: gen.New(db),
	}
}

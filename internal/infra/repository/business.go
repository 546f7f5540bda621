package repository

import (
	"context"

	"unified-checkout/internal/infra"
	"unified-checkout/internal/pkg/pgconv"
	"unified-checkout/internal/usecase/commands"
	"unified-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BusinessRepository struct {
	pool *pgxpool.Pool
}

func NewBusinessRepository(pool *pgxpool.Pool) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

const businessPaymentConfigQuery = `
SELECT id, name, square_location_id, admin_email
FROM businesses
WHERE id = $1
`

func (r *BusinessRepository) PaymentConfig(ctx context.Context, businessID uuid.UUID) (*commands.BusinessPaymentConfig, error) {
	var (
		id         uuid.UUID
		name       string
		locationID pgtype.Text
		adminEmail pgtype.Text
	)
	err := r.pool.QueryRow(ctx, businessPaymentConfigQuery, businessID).
		Scan(&id, &name, &locationID, &adminEmail)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("business not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load business payment config", err)
	}

	cfg := &commands.BusinessPaymentConfig{
		BusinessID: id,
		Name:       name,
		AdminEmail: pgconv.StringPtrFromPgtype(adminEmail),
	}
	if locationID.Valid {
		cfg.SquareLocationID = locationID.String
	}

	return cfg, nil
}

const businessViewQuery = `
SELECT id, name, admin_email
FROM businesses
WHERE id = $1
`

func (r *BusinessRepository) FindViewByID(ctx context.Context, businessID uuid.UUID) (*queries.BusinessView, error) {
	var (
		view       queries.BusinessView
		adminEmail pgtype.Text
	)
	err := r.pool.QueryRow(ctx, businessViewQuery, businessID).
		Scan(&view.ID, &view.Name, &adminEmail)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("business not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find business", err)
	}
	view.AdminEmail = pgconv.StringPtrFromPgtype(adminEmail)

	return &view, nil
}

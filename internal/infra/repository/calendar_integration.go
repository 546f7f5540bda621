package repository

import (
	"context"
	"time"

	"unified-checkout/internal/infra"
	"unified-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CalendarIntegration is the per-business OAuth link to the external
// calendar. A business without a row (or with connected = false) simply has
// no calendar sync; that is expected, not an error.
type CalendarIntegration struct {
	ID             uuid.UUID
	BusinessID     uuid.UUID
	Connected      bool
	AccessToken    string
	RefreshToken   string
	TokenExpiresAt time.Time
	CalendarID     string
	Timezone       string
}

func (i *CalendarIntegration) TokenExpired(now time.Time) bool {
	// Refresh a little early so an in-flight request doesn't straddle expiry.
	return now.After(i.TokenExpiresAt.Add(-1 * time.Minute))
}

type CalendarIntegrationRepository struct {
	pool *pgxpool.Pool
}

func NewCalendarIntegrationRepository(pool *pgxpool.Pool) *CalendarIntegrationRepository {
	return &CalendarIntegrationRepository{pool: pool}
}

const findIntegrationQuery = `
SELECT id, business_id, connected, access_token, refresh_token, token_expires_at, calendar_id, timezone
FROM calendar_integrations
WHERE business_id = $1
`

func (r *CalendarIntegrationRepository) FindByBusinessID(ctx context.Context, businessID uuid.UUID) (*CalendarIntegration, error) {
	var integration CalendarIntegration
	err := r.pool.QueryRow(ctx, findIntegrationQuery, businessID).Scan(
		&integration.ID,
		&integration.BusinessID,
		&integration.Connected,
		&integration.AccessToken,
		&integration.RefreshToken,
		&integration.TokenExpiresAt,
		&integration.CalendarID,
		&integration.Timezone,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("calendar integration not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find calendar integration", err)
	}

	return &integration, nil
}

const updateIntegrationTokenQuery = `
UPDATE calendar_integrations
SET access_token = $2, token_expires_at = $3, updated_at = now()
WHERE id = $1
`

func (r *CalendarIntegrationRepository) UpdateToken(ctx context.Context, id uuid.UUID, accessToken string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, updateIntegrationTokenQuery, id, accessToken, expiresAt)
	if err != nil {
		return infra.WrapRepoErr("failed to persist refreshed calendar token", err)
	}
	return nil
}

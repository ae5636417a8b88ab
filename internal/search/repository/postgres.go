package repository

import (
	"context"
	"time"

	"delivery_admin_backend/internal/search/domain"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgxpool.Pool the postgres source uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the searchable_items table.
type PostgresSource struct {
	db Querier
}

// NewPostgresSource reads records through db.
func NewPostgresSource(db Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string {
	return "postgres"
}

const selectSearchableItems = `
	SELECT id, type, title, subtitle, highlight, updated_at, tags,
	       status, total::float8, amount::float8, online, zones, phone, email, category
	FROM searchable_items
	ORDER BY position, id`

type itemRow struct {
	ID        string
	Type      string
	Title     string
	Subtitle  *string
	Highlight *string
	UpdatedAt time.Time
	Tags      []string
	Status    *string
	Total     *float64
	Amount    *float64
	Online    *bool
	Zones     []string
	Phone     *string
	Email     *string
	Category  *string
}

func (s *PostgresSource) FetchRecords(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.Query(ctx, selectSearchableItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	for rows.Next() {
		var r itemRow
		if err := rows.Scan(
			&r.ID, &r.Type, &r.Title, &r.Subtitle, &r.Highlight, &r.UpdatedAt, &r.Tags,
			&r.Status, &r.Total, &r.Amount, &r.Online, &r.Zones, &r.Phone, &r.Email, &r.Category,
		); err != nil {
			return nil, err
		}
		records = append(records, r.toRecord())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r itemRow) toRecord() domain.Record {
	return domain.Record{
		ID:        r.ID,
		Type:      r.Type,
		Title:     r.Title,
		Subtitle:  str(r.Subtitle),
		Highlight: str(r.Highlight),
		UpdatedAt: r.UpdatedAt,
		Tags:      r.Tags,
		Status:    str(r.Status),
		Total:     r.Total,
		Amount:    r.Amount,
		Online:    r.Online,
		Zones:     r.Zones,
		Phone:     str(r.Phone),
		Email:     str(r.Email),
		Category:  str(r.Category),
	}
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

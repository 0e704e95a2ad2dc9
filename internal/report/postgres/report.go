package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/frahmantamala/resource-management/internal/report"
	"github.com/jmoiron/sqlx"
)

// ReportRepository runs the hour aggregation with squirrel-built SQL over sqlx.
type ReportRepository struct {
	db *sqlx.DB
	sq sq.StatementBuilderType
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(placeholderFor(db.DriverName())),
	}
}

func placeholderFor(driver string) sq.PlaceholderFormat {
	switch driver {
	case "pgx", "postgres":
		return sq.Dollar
	default:
		return sq.Question
	}
}

func (r *ReportRepository) ActualHours(ctx context.Context, period report.Period, activeOnly bool) ([]report.Row, error) {
	q := r.sq.
		Select(
			"c.id AS change_id",
			"c.title AS change_title",
			"c.status AS change_status",
			"res.id AS resource_id",
			"res.name AS resource_name",
			"COALESCE(res.role, '') AS role",
			"COALESCE(c.director, '') AS director",
			"COALESCE(c.change_lead, '') AS change_lead",
			"COALESCE(c.stream, '') AS stream",
			"SUM(te.hours) AS total_actual_hours",
		).
		From("time_entries te").
		Join("changes c ON c.id = te.change_id").
		Join("resources res ON res.id = te.resource_id").
		Where(sq.GtOrEq{"te.entry_date": period.Start}).
		Where(sq.LtOrEq{"te.entry_date": period.End})

	if activeOnly {
		q = q.
			Where(sq.LtOrEq{"c.start_date": period.End}).
			Where(sq.Or{
				sq.Eq{"c.end_date": nil},
				sq.GtOrEq{"c.end_date": period.Start},
			})
	}

	q = q.
		GroupBy("c.id", "c.title", "c.status", "res.id", "res.name", "res.role", "c.director", "c.change_lead", "c.stream").
		OrderBy("c.title ASC", "res.name ASC")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build report query: %w", err)
	}

	var rows []report.Row
	if err := r.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("query actual hours: %w", err)
	}

	month := period.Month()
	for i := range rows {
		rows[i].Month = month
	}
	return rows, nil
}

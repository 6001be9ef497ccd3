package restaurant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/sarafti/sarafti/pkg/adapters"
	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/sarafti/sarafti/pkg/models/store"
)

// Store owns the restaurants table, including the denormalized aggregate
// columns the recalculation orchestrator overwrites.
type Store interface {
	CreateRestaurant(ctx context.Context, draft store.RestaurantDraft) (domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	RestaurantExists(ctx context.Context, id string) (bool, error)
	ListLiveRestaurantIDs(ctx context.Context) ([]string, error)
	SoftDeleteRestaurant(ctx context.Context, id string) error

	PersistAggregate(ctx context.Context, restaurantID string, result domain.AggregateResult) error
}

type restaurantStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &restaurantStore{db: db, now: time.Now}, nil
}

const restaurantColumns = `id, name, city, cuisine, address, created_by, soft_deleted, created_at,
	score, community_negative_rate, total_submissions, average_rating, top_issues`

// CreateRestaurant rejects duplicates by case-insensitive (name, city)
// among live restaurants. The idx_restaurants_live_name_city unique index
// enforces this under concurrent inserts; its constraint violation maps to
// domain.ErrDuplicate just like the pre-check.
func (s *restaurantStore) CreateRestaurant(ctx context.Context, draft store.RestaurantDraft) (domain.Restaurant, error) {
	var existingID string
	dupQuery := `
		SELECT id FROM restaurants
		WHERE soft_deleted = 0 AND LOWER(name) = LOWER(?) AND LOWER(city) = LOWER(?)`
	err := s.db.QueryRowContext(ctx, dupQuery, draft.Name, draft.City).Scan(&existingID)
	if err == nil {
		return domain.Restaurant{}, fmt.Errorf("restaurant %q in %q: %w", draft.Name, draft.City, domain.ErrDuplicate)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Restaurant{}, fmt.Errorf("check duplicate restaurant: %w", err)
	}

	id := uuid.NewString()
	insert := `
		INSERT INTO restaurants (id, name, city, cuisine, address, created_by, soft_deleted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)`
	_, err = s.db.ExecContext(ctx, insert,
		id, draft.Name, draft.City, draft.Cuisine,
		nullString(draft.Address), nullString(draft.CreatedByID), s.now().UTC())
	if isUniqueViolation(err) {
		return domain.Restaurant{}, fmt.Errorf("restaurant %q in %q: %w", draft.Name, draft.City, domain.ErrDuplicate)
	}
	if err != nil {
		return domain.Restaurant{}, fmt.Errorf("insert restaurant: %w", err)
	}

	return s.GetRestaurant(ctx, id)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func (s *restaurantStore) GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	query := fmt.Sprintf(`SELECT %s FROM restaurants WHERE id = ? AND soft_deleted = 0`, restaurantColumns)
	row := s.db.QueryRowContext(ctx, query, id)

	restaurant, err := scanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Restaurant{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	return restaurant, nil
}

func (s *restaurantStore) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM restaurants WHERE soft_deleted = 0 ORDER BY score DESC, name ASC`, restaurantColumns)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := make([]domain.Restaurant, 0)
	for rows.Next() {
		var rec store.Restaurant
		if err := scanRestaurantRow(rows, &rec); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurant, err := adapters.MapRestaurantStoreToDomain(rec)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, rows.Err()
}

func (s *restaurantStore) RestaurantExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM restaurants WHERE id = ? AND soft_deleted = 0`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check restaurant: %w", err)
	}
	return true, nil
}

func (s *restaurantStore) ListLiveRestaurantIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM restaurants WHERE soft_deleted = 0`)
	if err != nil {
		return nil, fmt.Errorf("list restaurant ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan restaurant id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *restaurantStore) SoftDeleteRestaurant(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE restaurants SET soft_deleted = 1 WHERE id = ? AND soft_deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("soft-delete restaurant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft-delete restaurant: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PersistAggregate overwrites the stored aggregate columns wholesale; no
// column survives from the previous recomputation.
func (s *restaurantStore) PersistAggregate(ctx context.Context, restaurantID string, result domain.AggregateResult) error {
	record, err := adapters.MapAggregateDomainToStore(result)
	if err != nil {
		return err
	}

	query := `
		UPDATE restaurants
		SET score = ?, community_negative_rate = ?, total_submissions = ?, average_rating = ?, top_issues = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		record.Score,
		record.CommunityNegativeRate,
		record.TotalSubmissions,
		record.AverageRating,
		string(record.TopIssuesJSON),
		restaurantID,
	)
	if err != nil {
		return fmt.Errorf("persist aggregate: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("persist aggregate: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanRestaurant(row *sql.Row) (domain.Restaurant, error) {
	var rec store.Restaurant
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.City, &rec.Cuisine, &rec.Address, &rec.CreatedByID,
		&rec.SoftDeleted, &rec.CreatedAt, &rec.Score, &rec.CommunityNegativeRate,
		&rec.TotalSubmissions, &rec.AverageRating, &rec.TopIssuesJSON,
	)
	if err != nil {
		return domain.Restaurant{}, err
	}
	return adapters.MapRestaurantStoreToDomain(rec)
}

func scanRestaurantRow(rows *sql.Rows, rec *store.Restaurant) error {
	return rows.Scan(
		&rec.ID, &rec.Name, &rec.City, &rec.Cuisine, &rec.Address, &rec.CreatedByID,
		&rec.SoftDeleted, &rec.CreatedAt, &rec.Score, &rec.CommunityNegativeRate,
		&rec.TotalSubmissions, &rec.AverageRating, &rec.TopIssuesJSON,
	)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

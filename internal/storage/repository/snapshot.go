package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/calderondev/package-quoter/internal/models"
)

// ErrSnapshotNotFound возвращается, когда снапшот с указанным ID отсутствует.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// payload — часть снапшота, хранящаяся в JSONB-поле.
// Служебные поля (id, name, active, created_at) живут в колонках
// и в payload не дублируются.
type payload struct {
	BaseServices     []models.BaseService     `json:"base_services"`
	Package          models.Package           `json:"package"`
	OptionalServices []models.OptionalService `json:"optional_services,omitempty"`
	Costs            models.CostSummary       `json:"costs"`
}

func marshalPayload(snap models.Snapshot) ([]byte, error) {
	return json.Marshal(payload{
		BaseServices:     snap.BaseServices,
		Package:          snap.Package,
		OptionalServices: snap.OptionalServices,
		Costs:            snap.Costs,
	})
}

func scanSnapshot(row interface{ Scan(...any) error }) (*models.Snapshot, error) {
	var snap models.Snapshot
	var raw []byte
	if err := row.Scan(&snap.ID, &snap.Name, &snap.Active, &snap.CreatedAt, &raw); err != nil {
		return nil, err
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	snap.BaseServices = p.BaseServices
	snap.Package = p.Package
	snap.OptionalServices = p.OptionalServices
	snap.Costs = p.Costs
	return &snap, nil
}

// CreateSnapshot вставляет новый снапшот и возвращает его канонический ID.
func (s *Storage) CreateSnapshot(ctx context.Context, snap models.Snapshot) (string, error) {
	const op = "storage.CreateSnapshot"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	raw, err := marshalPayload(snap)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO snapshots (id, name, active, created_at, payload)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID string
	err = s.DB.QueryRowContext(ctx, query,
		snap.ID, snap.Name, snap.Active, snap.CreatedAt, raw).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSnapshot возвращает снапшот по его ID.
func (s *Storage) ReadSnapshot(ctx context.Context, id string) (*models.Snapshot, error) {
	const op = "storage.ReadSnapshot"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, active, created_at, payload
			  FROM snapshots WHERE id = $1`
	snap, err := scanSnapshot(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return snap, nil
}

// UpdateSnapshot целиком заменяет данные снапшота по его ID
// и возвращает количество изменённых строк.
func (s *Storage) UpdateSnapshot(ctx context.Context, snap models.Snapshot, id string) (int, error) {
	const op = "storage.UpdateSnapshot"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	raw, err := marshalPayload(snap)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE snapshots
			  SET name = $1, active = $2, payload = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, snap.Name, snap.Active, raw, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSnapshot удаляет снапшот по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveSnapshot(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveSnapshot"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM snapshots WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSnapshots возвращает активные снапшоты в порядке создания.
func (s *Storage) ListSnapshots(ctx context.Context) ([]*models.Snapshot, error) {
	const op = "storage.ListSnapshots"
	return s.list(ctx, op, `SELECT id, name, active, created_at, payload
			  FROM snapshots
			  WHERE active = true
			  ORDER BY created_at`)
}

// ListAllSnapshots возвращает все снапшоты, включая неактивные.
// Используется редактором предложений.
func (s *Storage) ListAllSnapshots(ctx context.Context) ([]*models.Snapshot, error) {
	const op = "storage.ListAllSnapshots"
	return s.list(ctx, op, `SELECT id, name, active, created_at, payload
			  FROM snapshots
			  ORDER BY created_at`)
}

func (s *Storage) list(ctx context.Context, op, query string) ([]*models.Snapshot, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, snap)
	}
	if err = rows.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

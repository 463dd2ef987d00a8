// Package activation реализует менеджер публикации снапшотов:
// оптимистичное переключение флага Active в отображаемом списке
// с немедленной записью и откатом при ошибке.
//
// Дебаунса здесь нет: переключение публикации — прямая запись,
// независимая от таймера контроллера автосохранения.
package activation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/calderondev/package-quoter/internal/lib/sl"
	"github.com/calderondev/package-quoter/internal/models"
	"github.com/calderondev/package-quoter/internal/pricing"
)

// ErrSnapshotNotFound возвращается, когда снапшота нет в отображаемом списке.
var ErrSnapshotNotFound = errors.New("snapshot not in list")

// Updater описывает операцию записи, потребляемую менеджером.
type Updater interface {
	Update(ctx context.Context, id string, snap models.Snapshot) (*models.Snapshot, error)
}

// Manager держит отображаемый список снапшотов и переключает
// флаг публикации с оптимистичным обновлением.
type Manager struct {
	updater Updater
	log     *slog.Logger

	mu        sync.Mutex
	snapshots []*models.Snapshot
}

// NewManager создаёт менеджер над загруженным списком снапшотов.
func NewManager(updater Updater, snapshots []*models.Snapshot, log *slog.Logger) *Manager {
	return &Manager{
		updater:   updater,
		log:       log,
		snapshots: snapshots,
	}
}

// Snapshots возвращает копию отображаемого списка.
func (m *Manager) Snapshots() []models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]models.Snapshot, 0, len(m.snapshots))
	for _, snap := range m.snapshots {
		result = append(result, *snap)
	}
	return result
}

// SetActive переключает флаг публикации снапшота.
// Список обновляется немедленно, стоимости пересчитываются для
// согласованности, затем выполняется запись. При ошибке записи флаг
// и стоимости откатываются к значениям до переключения,
// ошибка возвращается вызывающей стороне.
func (m *Manager) SetActive(ctx context.Context, id string, active bool) error {
	m.mu.Lock()
	snap := m.findLocked(id)
	if snap == nil {
		m.mu.Unlock()
		return ErrSnapshotNotFound
	}

	prevActive := snap.Active
	prevCosts := snap.Costs

	snap.Active = active
	snap.Costs = pricing.Summary(snap)
	outgoing := *snap
	m.mu.Unlock()

	canonical, err := m.updater.Update(ctx, id, outgoing)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Запись не удалась: возвращаем флаг и стоимости как были.
	if err != nil {
		if current := m.findLocked(id); current != nil {
			current.Active = prevActive
			current.Costs = prevCosts
		}
		m.log.Error("failed to toggle snapshot activation", sl.Err(err), slog.String("snapshot_id", id))
		return err
	}

	if current := m.findLocked(id); current != nil {
		*current = *canonical
	}
	return nil
}

func (m *Manager) findLocked(id string) *models.Snapshot {
	for _, snap := range m.snapshots {
		if snap.ID == id {
			return snap
		}
	}
	return nil
}

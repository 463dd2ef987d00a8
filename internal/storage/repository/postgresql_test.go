package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_CreateSnapshot(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	verify := NewTestVerification(storage)

	snap := GetTestSnapshotData()

	gotID, err := storage.CreateSnapshot(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, gotID)

	verify.VerifySnapshotExists(t, gotID)
	verify.VerifySnapshotData(t, gotID, "Plan Básico", true)
}

func TestStorage_ReadSnapshot(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	snap := GetTestSnapshotData()
	factory.InsertSnapshot(t, snap)

	tests := []struct {
		name      string
		id        string
		wantError error
	}{
		{
			name: "успешное чтение снапшота",
			id:   snap.ID,
		},
		{
			name:      "снапшот не найден",
			id:        uuid.New().String(),
			wantError: ErrSnapshotNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.ReadSnapshot(context.Background(), tt.id)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, snap.ID, got.ID)
			assert.Equal(t, snap.Name, got.Name)
			assert.Equal(t, snap.Active, got.Active)
			assert.Len(t, got.BaseServices, 2)
			assert.Equal(t, "Hosting", got.BaseServices[0].Name)
			assert.InDelta(t, snap.Package.DevelopmentCost, got.Package.DevelopmentCost, 0.001)
			assert.InDelta(t, snap.Costs.Initial, got.Costs.Initial, 0.001)
			assert.WithinDuration(t, snap.CreatedAt, got.CreatedAt, time.Second)
		})
	}
}

func TestStorage_UpdateSnapshot(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	snap := GetTestSnapshotData()
	factory.InsertSnapshot(t, snap)

	t.Run("успешное обновление снапшота", func(t *testing.T) {
		updated := snap
		updated.Name = "Plan Básico v2"
		updated.Active = false
		updated.Package.DevelopmentCost = 300

		count, err := storage.UpdateSnapshot(context.Background(), updated, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		verify.VerifySnapshotData(t, snap.ID, "Plan Básico v2", false)

		got, err := storage.ReadSnapshot(context.Background(), snap.ID)
		require.NoError(t, err)
		assert.InDelta(t, 300, got.Package.DevelopmentCost, 0.001)
		// Дата создания не меняется при обновлении
		assert.WithinDuration(t, snap.CreatedAt, got.CreatedAt, time.Second)
	})

	t.Run("несуществующий id", func(t *testing.T) {
		count, err := storage.UpdateSnapshot(context.Background(), snap, uuid.New().String())
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestStorage_RemoveSnapshot(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	snap := GetTestSnapshotData()
	factory.InsertSnapshot(t, snap)

	t.Run("успешное удаление снапшота", func(t *testing.T) {
		count, err := storage.RemoveSnapshot(context.Background(), snap.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		verify.VerifySnapshotDeleted(t, snap.ID)
	})

	t.Run("несуществующий id", func(t *testing.T) {
		count, err := storage.RemoveSnapshot(context.Background(), uuid.New().String())
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestStorage_ListSnapshots(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	active := GetTestSnapshotData()
	active.Name = "Activo"
	active.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	factory.InsertSnapshot(t, active)

	inactive := GetTestSnapshotData()
	inactive.Name = "Borrador"
	inactive.Active = false
	inactive.CreatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	factory.InsertSnapshot(t, inactive)

	t.Run("только активные", func(t *testing.T) {
		got, err := storage.ListSnapshots(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Activo", got[0].Name)
	})

	t.Run("все снапшоты в порядке создания", func(t *testing.T) {
		got, err := storage.ListAllSnapshots(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Activo", got[0].Name)
		assert.Equal(t, "Borrador", got[1].Name)
	})
}

func TestStorage_ContextCancelled(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.ListSnapshots(ctx)
	require.ErrorIs(t, err, context.Canceled)

	_, err = storage.CreateSnapshot(ctx, GetTestSnapshotData())
	require.ErrorIs(t, err, context.Canceled)
}

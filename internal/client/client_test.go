package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calderondev/package-quoter/internal/models"
)

func TestList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/snapshots", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("all"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"data": []models.Snapshot{
				{ID: "snap-1", Name: "Plan Básico", Active: true},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)

	snaps, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "snap-1", snaps[0].ID)
	assert.True(t, snaps[0].Active)
}

func TestListAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("all"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"data": []models.Snapshot{
				{ID: "snap-1", Active: true},
				{ID: "snap-2", Active: false},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)

	snaps, err := c.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var draft models.Snapshot
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, "Plan Básico", draft.Name)

		draft.ID = "server-id"
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"data":   draft,
		})
	}))
	defer server.Close()

	c := New(server.URL)

	created, err := c.Create(context.Background(), models.Snapshot{Name: "Plan Básico"})
	require.NoError(t, err)
	assert.Equal(t, "server-id", created.ID)
	assert.Equal(t, "Plan Básico", created.Name)
}

func TestUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/snapshots/snap-1", r.URL.Path)

		var snap models.Snapshot
		require.NoError(t, json.NewDecoder(r.Body).Decode(&snap))

		// Сервер остаётся источником истины для стоимостей
		snap.Costs = models.CostSummary{Initial: 230, Year1: 630, Year2: 600}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"data":   snap,
		})
	}))
	defer server.Close()

	c := New(server.URL)

	updated, err := c.Update(context.Background(), "snap-1", models.Snapshot{ID: "snap-1", Name: "Plan"})
	require.NoError(t, err)
	assert.InDelta(t, 230, updated.Costs.Initial, 0.001)
}

func TestSetActive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/snapshots/snap-1/activate", r.URL.Path)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["active"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"data":   models.Snapshot{ID: "snap-1", Active: true},
		})
	}))
	defer server.Close()

	c := New(server.URL)

	snap, err := c.SetActive(context.Background(), "snap-1", true)
	require.NoError(t, err)
	assert.True(t, snap.Active)
}

func TestDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/snapshots/snap-1", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]any{"status": "OK"})
	}))
	defer server.Close()

	c := New(server.URL)

	assert.NoError(t, c.Delete(context.Background(), "snap-1"))
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "Error",
			"error":  "snapshot not found",
		})
	}))
	defer server.Close()

	c := New(server.URL)

	_, err := c.Update(context.Background(), "absent", models.Snapshot{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot not found")
}

func TestMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	c := New(server.URL)

	// Неоднозначный ответ — всегда ошибка, а не тихий успех
	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response")
}

func TestContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := New(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.List(ctx)
	require.Error(t, err)
}

// Package client реализует типизированный HTTP-клиент Persistence API
// снапшотов. Используется редакторской стороной: контроллером
// автосохранения и менеджером публикации.
//
// Любая неуспешная операция возвращает ошибку: частичных
// или неоднозначных успехов у клиента не бывает.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/calderondev/package-quoter/internal/models"
)

// SnapshotClient — клиент Persistence API снапшотов.
type SnapshotClient struct {
	baseURL    string
	httpClient *http.Client
}

// New создаёт клиент API по базовому адресу сервиса,
// например http://localhost:8080/api/v1.
func New(baseURL string) *SnapshotClient {
	return &SnapshotClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope — стандартный конверт ответов сервера.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func (c *SnapshotClient) do(ctx context.Context, method, path string, body any, result any) error {
	const op = "client.do"

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: unexpected response %s: %w", op, resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK || env.Status != "OK" {
		if env.Error != "" {
			return fmt.Errorf("%s: server error: %s", op, env.Error)
		}
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
	if result != nil {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// List возвращает только активные снапшоты.
func (c *SnapshotClient) List(ctx context.Context) ([]models.Snapshot, error) {
	var result []models.Snapshot
	if err := c.do(ctx, http.MethodGet, "/snapshots", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListAll возвращает все снапшоты, включая неактивные.
func (c *SnapshotClient) ListAll(ctx context.Context) ([]models.Snapshot, error) {
	var result []models.Snapshot
	if err := c.do(ctx, http.MethodGet, "/snapshots?all=true", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Create создаёт снапшот из черновика и возвращает каноническую копию
// с назначенными сервером ID и датой создания.
func (c *SnapshotClient) Create(ctx context.Context, draft models.Snapshot) (*models.Snapshot, error) {
	var result models.Snapshot
	if err := c.do(ctx, http.MethodPost, "/snapshots", draft, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update целиком заменяет снапшот и возвращает каноническую копию.
// Клиент отправляет свои рассчитанные стоимости, но источником истины
// для поля costs после записи остаётся сервер.
func (c *SnapshotClient) Update(ctx context.Context, id string, snap models.Snapshot) (*models.Snapshot, error) {
	var result models.Snapshot
	if err := c.do(ctx, http.MethodPut, "/snapshots/"+id, snap, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetActive переключает флаг публикации снапшота через узкий путь активации.
func (c *SnapshotClient) SetActive(ctx context.Context, id string, active bool) (*models.Snapshot, error) {
	var result models.Snapshot
	body := map[string]bool{"active": active}
	if err := c.do(ctx, http.MethodPatch, "/snapshots/"+id+"/activate", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete удаляет снапшот по ID.
func (c *SnapshotClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/snapshots/"+id, nil, nil)
}

// Package legacy отвечает за импорт локального конфига дополнительных услуг,
// накопившего несколько поколений формата хранения. Импорт выполняется
// один раз при старте приложения: ранее сохранённые услуги не должны
// теряться при эволюции схемы.
package legacy

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/calderondev/package-quoter/internal/lib/months"
	"github.com/calderondev/package-quoter/internal/lib/sl"
	"github.com/calderondev/package-quoter/internal/models"
)

// Merge сливает списки услуг разных поколений формата в единый каталог.
// Ключ дедупликации — имя услуги без учёта регистра. Списки передаются
// в порядке убывания приоритета: запись из более раннего списка побеждает
// одноимённую запись из более позднего. Порядок первого появления сохраняется.
// Разбивка месяцев каждой услуги нормализуется.
func Merge(generations ...[]models.OptionalService) []models.OptionalService {
	seen := make(map[string]struct{})
	var result []models.OptionalService

	for _, generation := range generations {
		for _, svc := range generation {
			key := strings.ToLower(strings.TrimSpace(svc.Name))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			svc.FreeMonths, svc.PaidMonths = months.Normalize(svc.FreeMonths, svc.PaidMonths)
			result = append(result, svc)
		}
	}
	return result
}

// Load читает локальный конфиг услуг по указанному пути и возвращает
// объединённый каталог. Отсутствующий или повреждённый файл не считается
// фатальной ошибкой старта: проблема логируется, возвращается пустой каталог.
func Load(path string, log *slog.Logger) []models.OptionalService {
	const op = "legacy.Load"

	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("legacy service config not found, skipping import", slog.String("path", path))
		return nil
	}
	if err != nil {
		log.Error("failed to read legacy service config", sl.Err(fmt.Errorf("%s: %w", op, err)))
		return nil
	}

	var cfg models.LegacyServiceConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Error("failed to parse legacy service config, skipping import",
			sl.Err(fmt.Errorf("%s: %w", op, err)))
		return nil
	}

	catalog := Merge(cfg.OptionalServices, cfg.ServiciosOpcionales, cfg.OtrosServicios, cfg.Servicios)
	log.Info("legacy service config merged", slog.Int("services", len(catalog)))
	return catalog
}

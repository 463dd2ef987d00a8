// Package pricing реализует расчёт стоимостей коммерческого предложения.
// Все функции чистые: принимают снапшот и не изменяют его. Результаты
// расчёта записываются в Snapshot.Costs только сервисным слоем при сохранении.
package pricing

import (
	"strings"

	"github.com/calderondev/package-quoter/internal/models"
)

// ManagementServiceName — фиксированное имя услуги сопровождения.
// Услуга сопровождения по договорённости не входит в первый платёж:
// её оплата начинается после сдачи проекта. Сравнение имён
// выполняется без учёта регистра.
const ManagementServiceName = "mantenimiento"

// ClampPercent приводит процент к диапазону [0,100].
// Применяется на входе данных (конвертация запроса в доменную модель),
// а не в момент расчёта.
func ClampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// discountedDevelopment возвращает стоимость разработки
// с учётом основной скидки пакета.
func discountedDevelopment(pkg models.Package) float64 {
	return pkg.DevelopmentCost * (1 - pkg.DiscountPercent/100)
}

// InitialCost считает первый платёж: стоимость разработки со скидкой
// плюс месячная цена всех базовых услуг, кроме услуги сопровождения.
func InitialCost(s *models.Snapshot) float64 {
	total := discountedDevelopment(s.Package)
	for _, svc := range s.BaseServices {
		if strings.EqualFold(svc.Name, ManagementServiceName) {
			continue
		}
		total += svc.MonthlyPrice
	}
	return total
}

// Year1Cost считает стоимость первого года: стоимость разработки со скидкой
// плюс платные месяцы всех базовых услуг (включая сопровождение)
// и всех дополнительных услуг.
func Year1Cost(s *models.Snapshot) float64 {
	total := discountedDevelopment(s.Package)
	for _, svc := range s.BaseServices {
		total += svc.MonthlyPrice * float64(svc.PaidMonths)
	}
	for _, svc := range s.OptionalServices {
		total += svc.MonthlyPrice * float64(svc.PaidMonths)
	}
	return total
}

// Year2Cost считает стоимость второго и последующих лет.
// Разработка сюда не входит: это единоразовая стоимость первого года.
// Каждая услуга оплачивается полные 12 месяцев независимо от разбивки
// бесплатных месяцев: льготный период действует только в первый год.
func Year2Cost(s *models.Snapshot) float64 {
	var total float64
	for _, svc := range s.BaseServices {
		total += svc.MonthlyPrice * 12
	}
	for _, svc := range s.OptionalServices {
		total += svc.MonthlyPrice * 12
	}
	return total
}

// Summary возвращает все три итоговые стоимости снапшота.
func Summary(s *models.Snapshot) models.CostSummary {
	return models.CostSummary{
		Initial: InitialCost(s),
		Year1:   Year1Cost(s),
		Year2:   Year2Cost(s),
	}
}

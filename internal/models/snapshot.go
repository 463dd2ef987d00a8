// Package models содержит доменные структуры коммерческого предложения (снапшота),
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// BaseService представляет базовую инфраструктурную услугу пакета
// (хостинг, почта, домен, сопровождение), оплачиваемую помесячно.
type BaseService struct {
	ID           string  `json:"id"`
	Name         string  `json:"name" validate:"required"`
	MonthlyPrice float64 `json:"monthly_price" validate:"required,gt=0"` // Цена за месяц, всегда > 0
	FreeMonths   int     `json:"free_months" validate:"min=0"`           // Бесплатные месяцы первого года
	PaidMonths   int     `json:"paid_months" validate:"min=0"`           // Платные месяцы первого года
}

// OptionalService представляет дополнительную услугу пакета.
// Инвариант FreeMonths + PaidMonths == 12 поддерживается только через
// months.Normalize, прямое присваивание полей в обход нормализации запрещено.
type OptionalService struct {
	ID           string  `json:"id"`
	Name         string  `json:"name" validate:"required"`
	MonthlyPrice float64 `json:"monthly_price" validate:"required,gt=0"`
	FreeMonths   int     `json:"free_months"`
	PaidMonths   int     `json:"paid_months"`
}

// GeneralDiscountConfig описывает общую скидку, применяемую к выбранным
// категориям стоимости целиком.
type GeneralDiscountConfig struct {
	ApplyToDevelopment      bool    `json:"apply_to_development"`
	ApplyToBaseServices     bool    `json:"apply_to_base_services"`
	ApplyToOptionalServices bool    `json:"apply_to_optional_services"`
	Percent                 float64 `json:"percent"` // Всегда в диапазоне [0,100]
}

// ServiceDiscountOverride описывает индивидуальную скидку для одной услуги.
// Привязана к услуге по её ID и не зависит от общей скидки.
type ServiceDiscountOverride struct {
	ServiceID string  `json:"service_id"`
	Enabled   bool    `json:"enabled"`
	Percent   float64 `json:"percent"`
}

// PerServiceDiscountConfig описывает индивидуальные скидки по услугам.
// Переопределения имеют приоритет над общей скидкой для своей услуги.
type PerServiceDiscountConfig struct {
	ApplyToBaseServices      bool                      `json:"apply_to_base_services"`
	ApplyToOptionalServices  bool                      `json:"apply_to_optional_services"`
	BaseServiceOverrides     []ServiceDiscountOverride `json:"base_service_overrides,omitempty"`
	OptionalServiceOverrides []ServiceDiscountOverride `json:"optional_service_overrides,omitempty"`
}

// PaymentOption описывает один платёж плана оплаты разработки.
// Набор опций считается согласованным, когда сумма процентов равна 100,
// но это проверяется только предупреждением, не блокирует сохранение.
type PaymentOption struct {
	Name        string  `json:"name"`
	Percent     float64 `json:"percent"`
	Description string  `json:"description,omitempty"`
}

// Package представляет единоразовую стоимость разработки
// и всю конфигурацию скидок пакета.
type Package struct {
	Name                          string                   `json:"name"`
	DevelopmentCost               float64                  `json:"development_cost"`
	DiscountPercent               float64                  `json:"discount_percent"`
	Type                          string                   `json:"type,omitempty"`
	Description                   string                   `json:"description,omitempty"`
	GeneralDiscount               GeneralDiscountConfig    `json:"general_discount"`
	PerServiceDiscount            PerServiceDiscountConfig `json:"per_service_discount"`
	OneTimePaymentDiscountPercent float64                  `json:"one_time_payment_discount_percent,omitempty"`
	PaymentOptions                []PaymentOption          `json:"payment_options,omitempty"`
}

// CostSummary содержит три итоговые стоимости пакета.
// Значения всегда вычисляются заново при каждом сохранении
// и никогда не редактируются вручную.
type CostSummary struct {
	Initial float64 `json:"initial"` // Первый платёж
	Year1   float64 `json:"year1"`   // Стоимость первого года
	Year2   float64 `json:"year2"`   // Стоимость второго и последующих лет
}

// Snapshot — корневой агрегат: именованная версия полной конфигурации
// коммерческого предложения. Обновляется всегда целиком, частичных патчей нет.
// Поле Active меняется только через отдельный путь активации.
type Snapshot struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	BaseServices     []BaseService     `json:"base_services"`
	Package          Package           `json:"package"`
	OptionalServices []OptionalService `json:"optional_services,omitempty"`
	Costs            CostSummary       `json:"costs"`
	Active           bool              `json:"active"`
	CreatedAt        time.Time         `json:"created_at"`
}

// DummySnapshot используется для приёма черновика снапшота из JSON-запроса,
// прежде чем конвертировать его в Snapshot. ID, дата создания и стоимости
// назначаются сервером и в запросе игнорируются.
type DummySnapshot struct {
	Name             string            `json:"name" validate:"required"`
	BaseServices     []BaseService     `json:"base_services" validate:"required,min=1,dive"`
	Package          DummyPackage      `json:"package"`
	OptionalServices []OptionalService `json:"optional_services,omitempty" validate:"omitempty,dive"`
	Active           bool              `json:"active"`
}

// DummyPackage используется для приёма данных пакета из JSON-запроса.
// Проценты скидок не валидируются по диапазону: они приводятся
// к [0,100] при конвертации в доменную модель.
type DummyPackage struct {
	Name                          string                   `json:"name" validate:"required"`
	DevelopmentCost               float64                  `json:"development_cost" validate:"min=0"`
	DiscountPercent               float64                  `json:"discount_percent"`
	Type                          string                   `json:"type,omitempty"`
	Description                   string                   `json:"description,omitempty"`
	GeneralDiscount               GeneralDiscountConfig    `json:"general_discount"`
	PerServiceDiscount            PerServiceDiscountConfig `json:"per_service_discount"`
	OneTimePaymentDiscountPercent float64                  `json:"one_time_payment_discount_percent,omitempty"`
	PaymentOptions                []PaymentOption          `json:"payment_options,omitempty"`
}

package pricing

import "github.com/calderondev/package-quoter/internal/models"

// DiscountSource указывает, откуда взялась действующая скидка услуги.
type DiscountSource string

const (
	// SourceNone — скидка не применяется.
	SourceNone DiscountSource = "none"
	// SourceGeneral — применяется общая скидка категории.
	SourceGeneral DiscountSource = "general"
	// SourceOverride — применяется индивидуальная скидка услуги.
	SourceOverride DiscountSource = "override"
)

// DiscountLine — строка детализации скидки по одной услуге.
// Суммы считаются по платным месяцам первого года.
type DiscountLine struct {
	ServiceID string         `json:"service_id"`
	Name      string         `json:"name"`
	Source    DiscountSource `json:"source"`
	Percent   float64        `json:"percent"`
	Before    float64        `json:"before"`
	After     float64        `json:"after"`
}

// DiscountBucket — итог по одной категории стоимости
// до и после применения скидок.
type DiscountBucket struct {
	Before float64        `json:"before"`
	After  float64        `json:"after"`
	Lines  []DiscountLine `json:"lines,omitempty"`
}

// DiscountPreview — полный предпросмотр скидок по трём категориям
// с агрегированной экономией.
type DiscountPreview struct {
	Development      DiscountBucket `json:"development"`
	BaseServices     DiscountBucket `json:"base_services"`
	OptionalServices DiscountBucket `json:"optional_services"`
	TotalBefore      float64        `json:"total_before"`
	TotalAfter       float64        `json:"total_after"`
	Saved            float64        `json:"saved"`
	SavedPercent     float64        `json:"saved_percent"`
}

// PaymentPlanOption — один платёж плана оплаты с рассчитанной суммой.
type PaymentPlanOption struct {
	Name        string  `json:"name"`
	Percent     float64 `json:"percent"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}

// PaymentPlanPreview — предпросмотр плана оплаты разработки.
// Balanced показывает, что проценты платежей дают в сумме 100:
// это предупреждение оператору, сохранение при дисбалансе не блокируется.
// Скидка за единовременную оплату показывается только здесь
// и никогда не попадает в сохранённые стоимости.
type PaymentPlanPreview struct {
	Options              []PaymentPlanOption `json:"options,omitempty"`
	PercentSum           float64             `json:"percent_sum"`
	Balanced             bool                `json:"balanced"`
	OneTimePercent       float64             `json:"one_time_percent,omitempty"`
	OneTimeAmount        float64             `json:"one_time_amount,omitempty"`
	OneTimeSaved         float64             `json:"one_time_saved,omitempty"`
	DevelopmentReference float64             `json:"development_reference"`
}

// effectivePercent определяет действующую скидку услуги по правилу приоритета:
// индивидуальное переопределение побеждает общую скидку, общая скидка
// действует только для включённой категории, иначе скидки нет.
func effectivePercent(pkg models.Package, overrides []models.ServiceDiscountOverride,
	overridesEnabled, generalEnabled bool, serviceID string) (float64, DiscountSource) {
	if overridesEnabled {
		for _, o := range overrides {
			if o.ServiceID == serviceID && o.Enabled {
				return o.Percent, SourceOverride
			}
		}
	}
	if generalEnabled {
		return pkg.GeneralDiscount.Percent, SourceGeneral
	}
	return 0, SourceNone
}

func discountServices(pkg models.Package, services []models.BaseService,
	overrides []models.ServiceDiscountOverride, overridesEnabled, generalEnabled bool) DiscountBucket {
	var bucket DiscountBucket
	for _, svc := range services {
		percent, source := effectivePercent(pkg, overrides, overridesEnabled, generalEnabled, svc.ID)
		before := svc.MonthlyPrice * float64(svc.PaidMonths)
		after := before * (1 - percent/100)
		bucket.Before += before
		bucket.After += after
		bucket.Lines = append(bucket.Lines, DiscountLine{
			ServiceID: svc.ID,
			Name:      svc.Name,
			Source:    source,
			Percent:   percent,
			Before:    before,
			After:     after,
		})
	}
	return bucket
}

// PreviewDiscounts строит предпросмотр скидок по категориям стоимости.
// Для разработки действует общая скидка, если она включена для разработки,
// иначе основная скидка пакета; скидки не складываются.
func PreviewDiscounts(s *models.Snapshot) DiscountPreview {
	pkg := s.Package

	devPercent := pkg.DiscountPercent
	devSource := SourceNone
	if devPercent > 0 {
		devSource = SourceGeneral
	}
	if pkg.GeneralDiscount.ApplyToDevelopment {
		devPercent = pkg.GeneralDiscount.Percent
		devSource = SourceGeneral
	}
	development := DiscountBucket{
		Before: pkg.DevelopmentCost,
		After:  pkg.DevelopmentCost * (1 - devPercent/100),
		Lines: []DiscountLine{{
			Name:    pkg.Name,
			Source:  devSource,
			Percent: devPercent,
			Before:  pkg.DevelopmentCost,
			After:   pkg.DevelopmentCost * (1 - devPercent/100),
		}},
	}

	base := discountServices(pkg, s.BaseServices,
		pkg.PerServiceDiscount.BaseServiceOverrides,
		pkg.PerServiceDiscount.ApplyToBaseServices,
		pkg.GeneralDiscount.ApplyToBaseServices)

	optional := discountServices(pkg, asBaseServices(s.OptionalServices),
		pkg.PerServiceDiscount.OptionalServiceOverrides,
		pkg.PerServiceDiscount.ApplyToOptionalServices,
		pkg.GeneralDiscount.ApplyToOptionalServices)

	preview := DiscountPreview{
		Development:      development,
		BaseServices:     base,
		OptionalServices: optional,
	}
	preview.TotalBefore = development.Before + base.Before + optional.Before
	preview.TotalAfter = development.After + base.After + optional.After
	preview.Saved = preview.TotalBefore - preview.TotalAfter
	if preview.TotalBefore > 0 {
		preview.SavedPercent = preview.Saved / preview.TotalBefore * 100
	}
	return preview
}

// PreviewPaymentPlan строит предпросмотр плана оплаты разработки.
// Суммы платежей считаются от стоимости разработки с основной скидкой пакета.
// Скидка за единовременную оплату применяется к той же базе и не комбинируется
// с остальными скидками: оператору показываются оба варианта рядом.
func PreviewPaymentPlan(pkg models.Package) PaymentPlanPreview {
	dev := pkg.DevelopmentCost * (1 - pkg.DiscountPercent/100)

	preview := PaymentPlanPreview{DevelopmentReference: dev}
	for _, opt := range pkg.PaymentOptions {
		preview.Options = append(preview.Options, PaymentPlanOption{
			Name:        opt.Name,
			Percent:     opt.Percent,
			Description: opt.Description,
			Amount:      dev * opt.Percent / 100,
		})
		preview.PercentSum += opt.Percent
	}
	preview.Balanced = preview.PercentSum == 100

	if pkg.OneTimePaymentDiscountPercent > 0 {
		preview.OneTimePercent = pkg.OneTimePaymentDiscountPercent
		preview.OneTimeAmount = dev * (1 - pkg.OneTimePaymentDiscountPercent/100)
		preview.OneTimeSaved = dev - preview.OneTimeAmount
	}
	return preview
}

// asBaseServices приводит дополнительные услуги к форме базовых
// для переиспользования расчёта скидок: поля у типов совпадают.
func asBaseServices(services []models.OptionalService) []models.BaseService {
	result := make([]models.BaseService, 0, len(services))
	for _, svc := range services {
		result = append(result, models.BaseService(svc))
	}
	return result
}

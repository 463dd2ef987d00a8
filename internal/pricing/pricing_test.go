package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calderondev/package-quoter/internal/models"
)

// quoteSnapshot — типовой снапшот предложения:
// три базовые услуги, разработка 200 со скидкой 10%.
func quoteSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Name: "Plan Básico",
		BaseServices: []models.BaseService{
			{ID: "b1", Name: "Hosting", MonthlyPrice: 28, FreeMonths: 3, PaidMonths: 9},
			{ID: "b2", Name: "Mailbox", MonthlyPrice: 4, FreeMonths: 3, PaidMonths: 9},
			{ID: "b3", Name: "Dominio", MonthlyPrice: 18, FreeMonths: 3, PaidMonths: 9},
		},
		Package: models.Package{
			Name:            "Plan Básico",
			DevelopmentCost: 200,
			DiscountPercent: 10,
		},
	}
}

func TestCostScenario(t *testing.T) {
	snap := quoteSnapshot()

	assert.InDelta(t, 230.00, InitialCost(snap), 1e-9)
	assert.InDelta(t, 630.00, Year1Cost(snap), 1e-9)
	assert.InDelta(t, 600.00, Year2Cost(snap), 1e-9)
}

func TestInitialCost_ExcludesManagement(t *testing.T) {
	snap := quoteSnapshot()
	snap.BaseServices = append(snap.BaseServices, models.BaseService{
		ID: "b4", Name: "Mantenimiento", MonthlyPrice: 25, FreeMonths: 0, PaidMonths: 12,
	})

	// Сопровождение не входит в первый платёж, но входит в первый год.
	assert.InDelta(t, 230.00, InitialCost(snap), 1e-9)
	assert.InDelta(t, 630.00+25*12, Year1Cost(snap), 1e-9)
}

func TestInitialCost_ManagementMatchIsCaseInsensitive(t *testing.T) {
	snap := quoteSnapshot()
	snap.BaseServices = append(snap.BaseServices, models.BaseService{
		ID: "b4", Name: "MANTENIMIENTO", MonthlyPrice: 25, PaidMonths: 12,
	})

	assert.InDelta(t, 230.00, InitialCost(snap), 1e-9)
}

func TestYear2Cost_NeverIncludesDevelopment(t *testing.T) {
	tests := []struct {
		name            string
		developmentCost float64
		discountPercent float64
	}{
		{name: "без разработки", developmentCost: 0, discountPercent: 0},
		{name: "обычная разработка", developmentCost: 500, discountPercent: 0},
		{name: "разработка со скидкой", developmentCost: 1000, discountPercent: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := quoteSnapshot()
			snap.Package.DevelopmentCost = tt.developmentCost
			snap.Package.DiscountPercent = tt.discountPercent

			assert.InDelta(t, 600.00, Year2Cost(snap), 1e-9)
		})
	}
}

func TestYear2Cost_IgnoresFreeMonths(t *testing.T) {
	snap := quoteSnapshot()
	snap.OptionalServices = []models.OptionalService{
		{ID: "o1", Name: "SEO", MonthlyPrice: 10, FreeMonths: 12, PaidMonths: 0},
	}

	// Льготный период действует только в первый год:
	// со второго года услуга оплачивается все 12 месяцев.
	assert.InDelta(t, 600.00+120.00, Year2Cost(snap), 1e-9)
}

func TestCosts_Idempotent(t *testing.T) {
	snap := quoteSnapshot()
	snap.OptionalServices = []models.OptionalService{
		{ID: "o1", Name: "SEO", MonthlyPrice: 15, FreeMonths: 2, PaidMonths: 10},
	}

	first := Summary(snap)
	second := Summary(snap)

	assert.Equal(t, first, second)
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{name: "в диапазоне", input: 42, want: 42},
		{name: "выше диапазона", input: 150, want: 100},
		{name: "ниже диапазона", input: -5, want: 0},
		{name: "граница сверху", input: 100, want: 100},
		{name: "граница снизу", input: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPercent(tt.input))
		})
	}
}

// Package months нормализует разбивку двенадцати месяцев услуги
// на бесплатные и платные.
package months

// Normalize приводит пару (бесплатные, платные месяцы) к инварианту
// free + paid == 12. Оба значения сначала ограничиваются диапазоном [0,12].
// Если сумма уже равна 12, пара возвращается как есть. Иначе приоритет
// у ненулевого free, затем у ненулевого paid; если оба нулевые, услуга
// считается полностью платной. Если услуга не бесплатна весь год,
// гарантируется хотя бы один платный месяц.
//
// Функция чистая и тотальная: любая комбинация входных значений
// даёт корректный результат, ошибок не бывает.
func Normalize(free, paid int) (int, int) {
	free = clamp(free)
	paid = clamp(paid)

	if free+paid != 12 {
		switch {
		case free > 0:
			paid = 12 - free
		case paid > 0:
			free = 12 - paid
		default:
			paid = 12
		}
	}

	if free == 12 {
		paid = 0
	} else if paid == 0 {
		paid = 1
	}
	return free, paid
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 12 {
		return 12
	}
	return v
}

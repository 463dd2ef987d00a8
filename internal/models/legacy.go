package models

// LegacyServiceConfig описывает локальный конфиг дополнительных услуг,
// переживший несколько поколений формата хранения. Старые ключи
// (servicios, otrosServicios, serviciosOpcionales) сохраняются для
// обратной совместимости, новый формат пишется в optional_services.
// Все списки сливаются в единый каталог при старте, с дедупликацией
// по имени без учёта регистра: записи нового формата имеют приоритет.
type LegacyServiceConfig struct {
	OptionalServices    []OptionalService `json:"optional_services,omitempty"`
	Servicios           []OptionalService `json:"servicios,omitempty"`
	OtrosServicios      []OptionalService `json:"otrosServicios,omitempty"`
	ServiciosOpcionales []OptionalService `json:"serviciosOpcionales,omitempty"`
}

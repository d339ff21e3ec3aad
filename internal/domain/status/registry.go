package status

import "sort"

// Config agrupa la metadata de presentación de un estado canónico.
// Antes esta tabla estaba duplicada (con listas divergentes) en la card,
// el dropdown y los filtros de tabs; acá vive una sola vez.
type Config struct {
	Status       CanonicalStatus
	Label        string
	ColorToken   string
	IconKey      string
	SortPriority int // menor = más urgente/activo
	Description  string
}

// configs: exactamente una entrada por estado canónico, Unknown incluido.
var configs = map[CanonicalStatus]Config{
	InProgress: {
		Status:       InProgress,
		Label:        "En curso",
		ColorToken:   "green",
		IconKey:      "play",
		SortPriority: 1,
		Description:  "La consulta está ocurriendo ahora",
	},
	Pending: {
		Status:       Pending,
		Label:        "Pendiente",
		ColorToken:   "yellow",
		IconKey:      "clock",
		SortPriority: 2,
		Description:  "Reservada, a la espera de confirmación",
	},
	Confirmed: {
		Status:       Confirmed,
		Label:        "Confirmada",
		ColorToken:   "blue",
		IconKey:      "check",
		SortPriority: 3,
		Description:  "Confirmada por el consultorio",
	},
	Completed: {
		Status:       Completed,
		Label:        "Completada",
		ColorToken:   "gray",
		IconKey:      "check-circle",
		SortPriority: 4,
		Description:  "La consulta finalizó",
	},
	NoShow: {
		Status:       NoShow,
		Label:        "No asistió",
		ColorToken:   "orange",
		IconKey:      "user-x",
		SortPriority: 5,
		Description:  "El paciente no se presentó",
	},
	CancelledByPatient: {
		Status:       CancelledByPatient,
		Label:        "Cancelada por paciente",
		ColorToken:   "red",
		IconKey:      "x-circle",
		SortPriority: 6,
		Description:  "Cancelada a pedido del paciente",
	},
	CancelledByOrg: {
		Status:       CancelledByOrg,
		Label:        "Cancelada por consultorio",
		ColorToken:   "red",
		IconKey:      "building-x",
		SortPriority: 7,
		Description:  "Cancelada por el consultorio",
	},
	Unknown: {
		Status:       Unknown,
		Label:        "Estado desconocido",
		ColorToken:   "gray",
		IconKey:      "help-circle",
		SortPriority: 99,
		Description:  "Valor no reconocido en el registro persistido",
	},
}

// GetConfig es total: todo estado canónico tiene config.
// Para valores fuera del conjunto devuelve la config de Unknown.
func GetConfig(s CanonicalStatus) Config {
	if c, ok := configs[s]; ok {
		return c
	}
	return configs[Unknown]
}

// AllStatuses devuelve los estados canónicos ordenados por SortPriority
// ascendente. Se usa para renderizar leyendas y filtros.
func AllStatuses() []CanonicalStatus {
	out := make([]CanonicalStatus, 0, len(configs))
	for s := range configs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return configs[out[i]].SortPriority < configs[out[j]].SortPriority
	})
	return out
}

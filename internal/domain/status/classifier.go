package status

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultAliases: strings históricos/legacy que normalizan a un canónico.
// Cada alias mapea a exactamente un estado. La tabla es data versionable:
// se puede extender desde un archivo YAML sin tocar la lógica de
// autorización (ver LoadAliasesFile).
var defaultAliases = map[string]CanonicalStatus{
	// canónicos se mapean a sí mismos
	"pending":              Pending,
	"confirmed":            Confirmed,
	"in_progress":          InProgress,
	"completed":            Completed,
	"cancelled_by_patient": CancelledByPatient,
	"cancelled_by_org":     CancelledByOrg,
	"no_show":              NoShow,

	// legacy en inglés
	"scheduled":   Confirmed,
	"booked":      Pending,
	"in-progress": InProgress,
	"noshow":      NoShow,
	"no-show":     NoShow,

	// legacy en español (registros viejos del store)
	"pendiente":          Pending,
	"confirmada":         Confirmed,
	"en_curso":           InProgress,
	"completada":         Completed,
	"cancelada_paciente": CancelledByPatient,
	"cancelada_clinica":  CancelledByOrg,
	"no_asistio":         NoShow,
}

// Classifier normaliza strings crudos persistidos a estados canónicos.
// Es función total: nunca falla; input fuera de la tabla cae en Unknown.
type Classifier struct {
	aliases map[string]CanonicalStatus
}

// NewClassifier crea un clasificador con la tabla de aliases por defecto.
func NewClassifier() *Classifier {
	aliases := make(map[string]CanonicalStatus, len(defaultAliases))
	for k, v := range defaultAliases {
		aliases[k] = v
	}
	return &Classifier{aliases: aliases}
}

// Classify: match exacto case-insensitive contra la tabla de aliases.
// Input desconocido (vacío, basura, drift del store) => Unknown.
// El caller decide si loguea el fallback; acá no hay side effects.
func (c *Classifier) Classify(raw string) CanonicalStatus {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return Unknown
	}
	if s, ok := c.aliases[key]; ok {
		return s
	}
	return Unknown
}

// Known indica si el string crudo está en la tabla (sin clasificarlo).
func (c *Classifier) Known(raw string) bool {
	_, ok := c.aliases[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// AddAlias registra un alias adicional. Rechaza destinos fuera del
// conjunto canónico y el fallback Unknown (nunca es destino válido).
func (c *Classifier) AddAlias(raw string, target CanonicalStatus) error {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return fmt.Errorf("alias vacío")
	}
	if !target.IsValid() || target == Unknown {
		return fmt.Errorf("alias %q: destino inválido %q", raw, target)
	}
	c.aliases[key] = target
	return nil
}

// LoadAliasesFile mergea aliases desde un YAML plano alias->canónico.
// Formato:
//
//	agendada: confirmed
//	anulada_centro: cancelled_by_org
func (c *Classifier) LoadAliasesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("aliases %s: %w", path, err)
	}

	for alias, target := range raw {
		if err := c.AddAlias(alias, CanonicalStatus(strings.ToLower(strings.TrimSpace(target)))); err != nil {
			return fmt.Errorf("aliases %s: %w", path, err)
		}
	}
	return nil
}

// Package category maps raw categorical input onto fixed enumerations.
// The tables are static and exhaustive; nothing is inferred or fuzzy-matched.
package category

import (
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/textnorm"
)

// Kind selects a normalization table.
type Kind string

// Category kinds.
const (
	KindModality Kind = "modality"
	KindLevel    Kind = "level"
	KindStatus   Kind = "status"
)

// Value is a canonical enumeration member. The empty Value means unspecified.
type Value string

// Modality values.
const (
	ModalityRemote Value = "remoto"
	ModalityOnsite Value = "presencial"
	ModalityHybrid Value = "hibrido"
)

// Level values.
const (
	LevelJunior     Value = "junior"
	LevelPleno      Value = "pleno"
	LevelSenior     Value = "senior"
	LevelSpecialist Value = "especialista"
)

// Status values.
const (
	StatusActive   Value = "ativo"
	StatusInactive Value = "inativo"
)

// Unspecified is the default for modality and level.
const Unspecified Value = ""

// Keys are already normalized, so accented input converges through textnorm.
var modalityTable = map[string]Value{
	"remoto":     ModalityRemote,
	"remote":     ModalityRemote,
	"presencial": ModalityOnsite,
	"onsite":     ModalityOnsite,
	"local":      ModalityOnsite,
	"hibrido":    ModalityHybrid,
	"hybrid":     ModalityHybrid,
	"misto":      ModalityHybrid,
}

var levelTable = map[string]Value{
	"junior":       LevelJunior,
	"pleno":        LevelPleno,
	"senior":       LevelSenior,
	"especialista": LevelSpecialist,
}

// statusTable is the single definition of activity state used by every layer.
var statusTable = map[string]Value{
	"ativo":     StatusActive,
	"ativa":     StatusActive,
	"active":    StatusActive,
	"aberto":    StatusActive,
	"aberta":    StatusActive,
	"open":      StatusActive,
	"publicado": StatusActive,
	"publicada": StatusActive,

	"inativo":   StatusInactive,
	"inativa":   StatusInactive,
	"inactive":  StatusInactive,
	"fechado":   StatusInactive,
	"fechada":   StatusInactive,
	"closed":    StatusInactive,
	"pausado":   StatusInactive,
	"pausada":   StatusInactive,
	"paused":    StatusInactive,
	"encerrado": StatusInactive,
	"encerrada": StatusInactive,
	"arquivado": StatusInactive,
	"arquivada": StatusInactive,
	"archived":  StatusInactive,
}

func table(kind Kind) (map[string]Value, Value) {
	switch kind {
	case KindModality:
		return modalityTable, Unspecified
	case KindLevel:
		return levelTable, Unspecified
	case KindStatus:
		return statusTable, StatusActive
	default:
		return nil, Unspecified
	}
}

// Normalize maps raw onto the kind's enumeration. Unmapped or empty input
// returns the kind's default; it never fails.
func Normalize(kind Kind, raw string) Value {
	t, def := table(kind)
	if v, ok := t[textnorm.Normalize(raw)]; ok {
		return v
	}
	return def
}

// Lookup is the strict variant used for validating filters: ok is false when
// raw is not an enumerated spelling.
func Lookup(kind Kind, raw string) (Value, bool) {
	t, _ := table(kind)
	v, ok := t[textnorm.Normalize(raw)]
	return v, ok
}

// IsActive reports whether a raw status counts as active. Absent status is active.
func IsActive(raw string) bool {
	return Normalize(KindStatus, raw) == StatusActive
}

// Values lists the canonical members of kind.
func Values(kind Kind) []Value {
	switch kind {
	case KindModality:
		return []Value{ModalityRemote, ModalityOnsite, ModalityHybrid}
	case KindLevel:
		return []Value{LevelJunior, LevelPleno, LevelSenior, LevelSpecialist}
	case KindStatus:
		return []Value{StatusActive, StatusInactive}
	default:
		return nil
	}
}

package domain

import "strings"

// Culture es un código cultural soportado. Cualquier valor desconocido
// se resuelve al perfil global.
type Culture string

const (
	CultureGlobal   Culture = "global"
	CultureIndian   Culture = "indian"
	CultureJapanese Culture = "japanese"
	CultureAmerican Culture = "american"
)

// Modality identifica el canal de entrada de una observación.
type Modality string

const (
	ModalityFace  Modality = "face"
	ModalityVoice Modality = "voice"
	ModalityText  Modality = "text"
)

var cultureNames = map[Culture]string{
	CultureGlobal:   "Global",
	CultureIndian:   "Indian",
	CultureJapanese: "Japanese",
	CultureAmerican: "American",
}

// SupportedCultures lista los códigos en orden estable.
func SupportedCultures() []Culture {
	return []Culture{CultureGlobal, CultureIndian, CultureJapanese, CultureAmerican}
}

// ParseCulture normaliza un código cultural. Vacío o desconocido → global.
func ParseCulture(code string) Culture {
	lowered := Culture(strings.ToLower(strings.TrimSpace(code)))
	if _, ok := cultureNames[lowered]; ok {
		return lowered
	}
	return CultureGlobal
}

// DisplayName devuelve el nombre legible del código cultural.
func (c Culture) DisplayName() string {
	if name, ok := cultureNames[c]; ok {
		return name
	}
	return cultureNames[CultureGlobal]
}

// ParseModality normaliza el nombre de una modalidad. Desconocido → vacío.
func ParseModality(name string) (Modality, bool) {
	switch Modality(strings.ToLower(strings.TrimSpace(name))) {
	case ModalityFace:
		return ModalityFace, true
	case ModalityVoice:
		return ModalityVoice, true
	case ModalityText:
		return ModalityText, true
	}
	return "", false
}

package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical Regla labels shared by several types.
const (
	LabelLongitudMinima   = "Longitud minima"
	LabelLongitudMaxima   = "Longitud maxima"
	LabelValorMinimo      = "Valor mínimo"
	LabelValorMaximo      = "Valor máximo"
	LabelNumeroDecimales  = "Número de decimales"
	LabelCodigoPais       = "Código de país"
	LabelFormato          = "Formato"
	LabelLongitudMaximaAc = "Longitud máxima"
	LabelNombreCampos     = "Nombre de campos"
	LabelReglasEspecifica = "reglas especifica"
)

var canonicalHeaders = map[TipoDato][]string{
	TipoTexto:              {LabelLongitudMinima, LabelLongitudMaxima},
	TipoDocumento:          {LabelLongitudMinima, LabelLongitudMaxima},
	TipoNumero:             {LabelValorMinimo, LabelValorMaximo, LabelNumeroDecimales},
	TipoTelefono:           {LabelLongitudMinima, LabelCodigoPais},
	TipoCorreo:             {LabelFormato, LabelLongitudMaximaAc},
	TipoFecha:              {LabelFormato},
	TipoValidacionConjunta: {LabelNombreCampos},
}

// CanonicalHeader returns the authoritative Header labels for a simple type.
// List and dependency types derive their headers from Regla instead; for
// those (and unknown types) ok is false.
func CanonicalHeader(t TipoDato) ([]string, bool) {
	labels, ok := canonicalHeaders[t]
	if !ok {
		return nil, false
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return out, true
}

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// FoldLabel lowercases s and strips diacritics so "Longitud Mínima" and
// "longitud minima" compare equal. Used for alias resolution and for
// deduplicating dependency leaves; original casing is preserved elsewhere.
func FoldLabel(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

var tipoAliases = func() map[string]TipoDato {
	aliases := make(map[string]TipoDato)
	for _, t := range AllTipos() {
		aliases[FoldLabel(string(t))] = t
	}
	// Spellings that show up in model output but not in the enum.
	aliases["numerico"] = TipoNumero
	aliases["email"] = TipoCorreo
	aliases["texto libre"] = TipoTexto
	return aliases
}()

// ResolveTipo maps a raw type label (any casing, with or without diacritics)
// to its canonical TipoDato.
func ResolveTipo(raw string) (TipoDato, bool) {
	t, ok := tipoAliases[FoldLabel(raw)]
	return t, ok
}

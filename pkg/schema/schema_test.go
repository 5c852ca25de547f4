package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTipoDatoValid(t *testing.T) {
	for _, tipo := range AllTipos() {
		assert.True(t, tipo.Valid(), string(tipo))
	}
	assert.False(t, TipoDato("Binario").Valid())
	assert.False(t, TipoDato("").Valid())
}

func TestListFamily(t *testing.T) {
	assert.True(t, TipoLista.ListFamily())
	assert.True(t, TipoListaCompleja.ListFamily())
	assert.False(t, TipoTexto.ListFamily())
	assert.False(t, TipoDependencia.ListFamily())
}

func TestCanonicalHeader(t *testing.T) {
	tests := []struct {
		tipo TipoDato
		want []string
	}{
		{TipoTexto, []string{"Longitud minima", "Longitud maxima"}},
		{TipoDocumento, []string{"Longitud minima", "Longitud maxima"}},
		{TipoNumero, []string{"Valor mínimo", "Valor máximo", "Número de decimales"}},
		{TipoTelefono, []string{"Longitud minima", "Código de país"}},
		{TipoCorreo, []string{"Formato", "Longitud máxima"}},
		{TipoFecha, []string{"Formato"}},
		{TipoValidacionConjunta, []string{"Nombre de campos"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tipo), func(t *testing.T) {
			got, ok := CanonicalHeader(tt.tipo)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, tipo := range []TipoDato{TipoLista, TipoListaCompleja, TipoDependencia} {
		_, ok := CanonicalHeader(tipo)
		assert.False(t, ok, string(tipo))
	}
}

func TestCanonicalHeaderReturnsCopy(t *testing.T) {
	first, ok := CanonicalHeader(TipoTexto)
	require.True(t, ok)
	first[0] = "mutated"

	second, _ := CanonicalHeader(TipoTexto)
	assert.Equal(t, "Longitud minima", second[0])
}

func TestFoldLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Longitud Mínima", "longitud minima"},
		{"longitud minima", "longitud minima"},
		{"  Número de Decimales ", "numero de decimales"},
		{"Válido", "valido"},
		{"DNI", "dni"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FoldLabel(tt.in), tt.in)
	}
}

func TestResolveTipo(t *testing.T) {
	tests := []struct {
		raw  string
		want TipoDato
	}{
		{"Texto", TipoTexto},
		{"texto", TipoTexto},
		{"Número", TipoNumero},
		{"numero", TipoNumero},
		{"NUMERO", TipoNumero},
		{"lista compleja", TipoListaCompleja},
		{"Validacion conjunta", TipoValidacionConjunta},
		{"email", TipoCorreo},
	}

	for _, tt := range tests {
		got, ok := ResolveTipo(tt.raw)
		require.True(t, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	_, ok := ResolveTipo("binario")
	assert.False(t, ok)
}

func TestReglaDeCampoSchemaIsValidJSON(t *testing.T) {
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(ReglaDeCampoSchema(), &decoded))

	required, ok := decoded["required"].([]any)
	require.True(t, ok)
	assert.Len(t, required, len(RequiredFields()))
}

func TestNewRuleID(t *testing.T) {
	id, err := NewRuleID()
	require.NoError(t, err)
	assert.Regexp(t, `^RGL-.{10}$`, id)

	other, err := NewRuleID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestRuleDefinitionRoundTrip(t *testing.T) {
	def := RuleDefinition{
		Nombre:           "Longitud de nombre de asegurado",
		TipoDato:         TipoTexto,
		CampoObligatorio: true,
		MensajeError:     "El nombre debe tener entre 2 y 80 caracteres.",
		Descripcion:      "Valida la longitud del nombre del asegurado.",
		Ejemplo:          json.RawMessage(`{"válido": "Ana Pérez", "inválido": "A"}`),
		Header:           []string{"Longitud minima", "Longitud maxima"},
		Regla:            json.RawMessage(`{"Longitud minima": 2, "Longitud maxima": 80}`),
		Estado:           StateAccepted,
		NeedsReview:      true,
	}

	data, err := json.Marshal(def)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, field := range RequiredFields() {
		assert.Contains(t, decoded, field)
	}
	// Pipeline-internal state never reaches the wire.
	assert.NotContains(t, string(data), "Estado")
	assert.NotContains(t, string(data), "NeedsReview")

	var back RuleDefinition
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, def.Nombre, back.Nombre)
	assert.Equal(t, def.TipoDato, back.TipoDato)
	assert.Equal(t, def.Header, back.Header)
}

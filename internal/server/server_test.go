package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reglagen/internal/assistant"
	"reglagen/internal/core"
	"reglagen/pkg/schema"
)

type stubGenerator struct {
	def    *schema.RuleDefinition
	err    error
	recent []schema.RuleDefinition
	calls  int
}

func (g *stubGenerator) GenerateRuleDefinition(_ context.Context, _ string, recent []schema.RuleDefinition) (*schema.RuleDefinition, error) {
	g.calls++
	g.recent = recent
	if g.err != nil {
		return nil, g.err
	}
	return g.def, nil
}

type stubStore struct {
	saved   []*schema.RuleDefinition
	saveErr error
	rules   []schema.RuleDefinition
	listErr error
}

func (s *stubStore) Save(_ context.Context, def *schema.RuleDefinition) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	def.ID = "RGL-test000001"
	s.saved = append(s.saved, def)
	return nil
}

func (s *stubStore) ListRecent(_ context.Context, limit int) ([]schema.RuleDefinition, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if limit < len(s.rules) {
		return s.rules[:limit], nil
	}
	return s.rules, nil
}

func generatedRule() *schema.RuleDefinition {
	return &schema.RuleDefinition{
		Nombre:           "Longitud de nombre",
		TipoDato:         schema.TipoTexto,
		CampoObligatorio: true,
		MensajeError:     "mensaje",
		Descripcion:      "descripción",
		Ejemplo:          json.RawMessage(`{}`),
		Header:           []string{"Longitud minima", "Longitud maxima"},
		Regla:            json.RawMessage(`{"Longitud minima": 2, "Longitud maxima": 80}`),
		Estado:           schema.StateAccepted,
	}
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload["detail"]
}

func TestHealth(t *testing.T) {
	srv := New(&stubGenerator{}, &stubStore{}, core.NewNopLogger())

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestAnalyzeSuccess(t *testing.T) {
	gen := &stubGenerator{def: generatedRule()}
	srv := New(gen, &stubStore{}, core.NewNopLogger())

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/assistant/analyze",
		`{"message": "valida la longitud del nombre"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rule        *schema.RuleDefinition `json:"rule"`
		NeedsReview bool                   `json:"needs_review"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Rule)
	assert.Equal(t, "Longitud de nombre", resp.Rule.Nombre)
	assert.Equal(t, []string{"Longitud minima", "Longitud maxima"}, resp.Rule.Header)
	assert.False(t, resp.NeedsReview)
	assert.Equal(t, 1, gen.calls)
}

func TestAnalyzePassesRecentRulesToGenerator(t *testing.T) {
	store := &stubStore{rules: []schema.RuleDefinition{*generatedRule(), *generatedRule()}}
	gen := &stubGenerator{def: generatedRule()}
	srv := New(gen, store, core.NewNopLogger())

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/assistant/analyze",
		`{"message": "valida la longitud del apellido"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, gen.recent, 2)
}

func TestAnalyzeGroundingFailureIsBestEffort(t *testing.T) {
	store := &stubStore{listErr: errors.New("disk gone")}
	gen := &stubGenerator{def: generatedRule()}
	srv := New(gen, store, core.NewNopLogger())

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/assistant/analyze",
		`{"message": "valida la longitud del nombre"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gen.recent)
}

func TestAnalyzeMalformedBody(t *testing.T) {
	srv := New(&stubGenerator{}, &stubStore{}, core.NewNopLogger())

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/assistant/analyze", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEmptyMessage(t *testing.T) {
	gen := &stubGenerator{err: assistant.ErrEmptyMessage}
	srv := New(gen, &stubStore{}, core.NewNopLogger())

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/assistant/analyze", `{"message": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeDetail(t, rec), "vacío")
}

func TestAnalyzeOffTopicReturnsReason(t *testing.T) {
	gen := &stubGenerator{err: &assistant.OffTopicError{
		Reason: "La consulta está fuera del dominio de reglas de validación.",
	}}
	srv := New(gen, &stubStore{}, core.NewNopLogger())

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/assistant/analyze",
		`{"message": "¿Qué clima hace hoy?"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "La consulta está fuera del dominio de reglas de validación.", decodeDetail(t, rec))
}

func TestAnalyzeGenerationFailureIsOpaque(t *testing.T) {
	gen := &stubGenerator{err: &assistant.GenerationError{
		Stage:   assistant.StageValidate,
		Message: "missing required field 'Regla'",
	}}
	srv := New(gen, &stubStore{}, core.NewNopLogger())

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/assistant/analyze",
		`{"message": "valida el documento"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	detail := decodeDetail(t, rec)
	assert.Equal(t, generationFailureDetail, detail)
	assert.NotContains(t, detail, "Regla")
}

func TestSaveRule(t *testing.T) {
	store := &stubStore{}
	srv := New(&stubGenerator{}, store, core.NewNopLogger())

	body, err := json.Marshal(generatedRule())
	require.NoError(t, err)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/rules", string(body))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "RGL-test000001", resp["id"])

	require.Len(t, store.saved, 1)
	assert.Equal(t, schema.StateAccepted, store.saved[0].Estado)
}

func TestSaveRuleRejectsIncomplete(t *testing.T) {
	srv := New(&stubGenerator{}, &stubStore{}, core.NewNopLogger())

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/rules",
		`{"Nombre de la regla": "r"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeDetail(t, rec), "Header")
}

func TestSaveRuleStoreFailure(t *testing.T) {
	store := &stubStore{saveErr: errors.New("disk full")}
	srv := New(&stubGenerator{}, store, core.NewNopLogger())

	body, err := json.Marshal(generatedRule())
	require.NoError(t, err)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/rules", string(body))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListRecent(t *testing.T) {
	store := &stubStore{rules: []schema.RuleDefinition{
		*generatedRule(), *generatedRule(), *generatedRule(),
	}}
	srv := New(&stubGenerator{}, store, core.NewNopLogger())

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/rules/recent?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rules []schema.RuleDefinition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rules))
	assert.Len(t, rules, 2)
}

func TestListRecentEmptyIsJSONArray(t *testing.T) {
	srv := New(&stubGenerator{}, &stubStore{}, core.NewNopLogger())

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/rules/recent", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestListRecentRejectsBadLimit(t *testing.T) {
	srv := New(&stubGenerator{}, &stubStore{}, core.NewNopLogger())

	for _, raw := range []string{"abc", "-1", "0"} {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/rules/recent?limit="+raw, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
	}
}

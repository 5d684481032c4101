package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entitysearch/database"
	"entitysearch/server/types"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.NewSearchDB(filepath.Join(t.TempDir(), "test.db"), "testbase")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	seed := []struct {
		query string
		args  []interface{}
	}{
		{
			`INSERT INTO organizations (UNID, NameShort, INN, eMail, PhoneNum, BaseName)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			[]interface{}{"org-1", "ООО Ромашка", "7707083893", "info@romashka.ru", "74951234567", "testbase"},
		},
		{
			`INSERT INTO employees (fzUID, PersonUNID, FIO, fzINN, phOrgINN, BaseName)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			[]interface{}{"fz-1", "p-1", "Иванов Иван", "500100732259", "7707083893", "testbase"},
		},
	}
	for _, stmt := range seed {
		_, err := db.ExecContext(ctx, stmt.query, stmt.args...)
		require.NoError(t, err)
	}

	return NewRouter(db, nil)
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var health types.HealthResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.Database)
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(t)

	recorder := postJSON(t, router, "/api/search", types.SearchRequest{Query: "7707083893"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var response types.SearchResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	assert.Equal(t, "inn", response.QueryType)
	require.NotEmpty(t, response.Organizations)
	assert.Equal(t, "ООО Ромашка", response.Organizations[0].NameShort)
	// Сотрудник найден по ИНН работодателя
	assert.NotEmpty(t, response.Individuals)
}

func TestSearchEndpoint_WithConnections(t *testing.T) {
	router := newTestRouter(t)

	recorder := postJSON(t, router, "/api/search", types.SearchRequest{
		Query:           "7707083893",
		WithConnections: true,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var response types.SearchResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	require.NotEmpty(t, response.Organizations)
	org := response.Organizations[0]
	assert.Greater(t, org.ConnectionsCount, 0, "организация должна иметь связь с сотрудником по ИНН")
}

func TestSearchEndpoint_BadRequest(t *testing.T) {
	router := newTestRouter(t)

	recorder := postJSON(t, router, "/api/search", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestConnectionsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	recorder := postJSON(t, router, "/api/connections", map[string]interface{}{
		"entities": []map[string]interface{}{
			{"sourceTable": "organizations", "UNID": "org-1", "INN": "7707083893", "UrFiz": 1},
		},
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var response types.ConnectionsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	require.NotEmpty(t, response.Entities)
	target := response.Entities[0]
	assert.Equal(t, "organizations_UNID_org-1", target.Key())
	assert.Greater(t, target.ConnectionsCount, 0)
}

func TestConnectionsByINNEndpoint(t *testing.T) {
	router := newTestRouter(t)

	recorder := postJSON(t, router, "/api/connections/inn", map[string]interface{}{
		"entities": []map[string]interface{}{
			{"sourceTable": "organizations", "UNID": "org-1", "INN": "7707083893", "UrFiz": 1},
		},
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var response types.AttributeConnectionsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	conns, ok := response.Connections["organizations_UNID_org-1"]
	require.True(t, ok, "в результате нет записи для целевой сущности")
	require.NotEmpty(t, conns["7707083893"])
	assert.Equal(t, "person_inn_to_org_match", conns["7707083893"][0].Kind)
}

func TestExportEndpoint(t *testing.T) {
	router := newTestRouter(t)

	recorder := postJSON(t, router, "/api/export", map[string]interface{}{
		"entities": []map[string]interface{}{
			{"sourceTable": "organizations", "UNID": "org-1", "NameShort": "ООО Ромашка", "INN": "7707083893", "UrFiz": 1},
		},
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		recorder.Header().Get("Content-Type"))
	assert.NotZero(t, recorder.Body.Len())
}

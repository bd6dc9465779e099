package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MutexLabs01/double-excel-sub000/internal/config"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	return NewServer(cfg)
}

func do(t *testing.T, s *Server, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body=%s", w.Body.String())
	return w.Code, env
}

const budgetGrid = `{"data":{
	"0-0":{"value":"2","formula":null},
	"1-0":{"value":"3","formula":null},
	"2-0":{"value":"","formula":"=SUM(A1:A2)"},
	"3-0":{"value":"","formula":"=A4"},
	"4-0":{"value":"","formula":"=FOO(A1)"}
}}`

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, env := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, CodeOK, env.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestEvaluateFormula(t *testing.T) {
	s := newTestServer(t)

	status, env := do(t, s, http.MethodPost, "/api/evaluate", `{"grid":`+budgetGrid+`,"formula":"=A1*A2+1"}`)
	require.Equal(t, http.StatusOK, status)

	var res EvaluateResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "7", res.Display)
	require.NotNil(t, res.Number)
	assert.Equal(t, 7.0, *res.Number)
	assert.Empty(t, res.Error)
}

func TestEvaluateCell(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodPost, "/api/evaluate", `{"grid":`+budgetGrid+`,"cell":"A3"}`)
	var res EvaluateResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "A3", res.Cell)
	assert.Equal(t, "=SUM(A1:A2)", res.Formula)
	assert.Equal(t, "5", res.Display)

	status, env := do(t, s, http.MethodPost, "/api/evaluate", `{"grid":`+budgetGrid+`,"cell":"3A"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeBadReference, env.Code)
}

func TestEvaluateAll(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodPost, "/api/evaluate", `{"grid":`+budgetGrid+`,"all":true}`)
	var results []EvaluateResult
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 3)

	assert.Equal(t, "A3", results[0].Cell)
	assert.Equal(t, "5", results[0].Display)
	// A4 refers to itself.
	assert.Equal(t, "A4", results[1].Cell)
	assert.Equal(t, "#ERROR", results[1].Display)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, "A5", results[2].Cell)
	assert.Equal(t, "#ERROR", results[2].Display)
}

func TestEvaluateBadRequest(t *testing.T) {
	s := newTestServer(t)

	status, env := do(t, s, http.MethodPost, "/api/evaluate", `{"grid":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeBadRequest, env.Code)

	status, env = do(t, s, http.MethodPost, "/api/evaluate", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeBadRequest, env.Code)
}

func TestDiffSpreadsheets(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"old":{"data":{"0-0":{"value":"x","formula":null}}},
		"new":{"data":{"0-0":{"value":"x","formula":null},"0-1":{"value":"y","formula":null}}}
	}`
	status, env := do(t, s, http.MethodPost, "/api/diff/spreadsheets", body)
	require.Equal(t, http.StatusOK, status)

	var res struct {
		Rows []struct {
			Row   int    `json:"row"`
			Type  string `json:"type"`
			Cells []struct {
				Col  int    `json:"col"`
				Type string `json:"type"`
			} `json:"cells"`
		} `json:"rows"`
		ModifiedRows []int `json:"modifiedRows"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "modified", res.Rows[0].Type)
	assert.Equal(t, []int{0}, res.ModifiedRows)
	require.Len(t, res.Rows[0].Cells, 2)
	assert.Equal(t, "added", res.Rows[0].Cells[1].Type)
}

func TestDiffFiles(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"old":[{"id":"1","name":"b","type":"document","data":{"v":1}}],
		"new":[
			{"id":"1","name":"b","type":"document","data":{"v":2}},
			{"id":"2","name":"a","type":"spreadsheet","data":{"data":{}}}
		]
	}`
	_, env := do(t, s, http.MethodPost, "/api/diff/files", body)

	var diffs []struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Changes  int    `json:"changes"`
		Modified bool   `json:"modified"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &diffs))
	require.Len(t, diffs, 2)
	assert.Equal(t, "a", diffs[0].Name)
	assert.Equal(t, "added", diffs[0].Type)
	assert.Equal(t, "b", diffs[1].Name)
	assert.True(t, diffs[1].Modified)
	assert.Equal(t, 1, diffs[1].Changes)
}

func TestCheckpoints(t *testing.T) {
	s := newTestServer(t)

	create := func(label, grid string) string {
		body := `{"label":"` + label + `","files":[{"id":"s1","name":"budget","type":"spreadsheet","data":` + grid + `}]}`
		status, env := do(t, s, http.MethodPost, "/api/checkpoints", body)
		require.Equal(t, http.StatusOK, status)
		var info struct {
			ID        string `json:"id"`
			FileCount int    `json:"fileCount"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &info))
		require.NotEmpty(t, info.ID)
		assert.Equal(t, 1, info.FileCount)
		return info.ID
	}

	first := create("first", `{"data":{"0-0":{"value":"1","formula":null}}}`)
	second := create("second", `{"data":{"0-0":{"value":"1","formula":null},"1-0":{"value":"2","formula":null}}}`)

	_, env := do(t, s, http.MethodGet, "/api/checkpoints", "")
	var infos []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &infos))
	require.Len(t, infos, 2)
	assert.Len(t, s.Store().List(), 2)
	assert.Equal(t, first, infos[0].ID)
	assert.Equal(t, "second", infos[1].Label)

	status, env := do(t, s, http.MethodGet, "/api/checkpoints/"+first, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"budget"`)

	status, env = do(t, s, http.MethodGet, "/api/checkpoints/"+first+"/diff/"+second, "")
	require.Equal(t, http.StatusOK, status)
	var diffs []struct {
		FileID  string `json:"fileId"`
		Type    string `json:"type"`
		Changes int    `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &diffs))
	require.Len(t, diffs, 1)
	assert.Equal(t, "s1", diffs[0].FileID)
	assert.Equal(t, "modified", diffs[0].Type)
	assert.Equal(t, 1, diffs[0].Changes)

	status, env = do(t, s, http.MethodGet, "/api/checkpoints/"+first+"/diff/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeNotFound, env.Code)

	status, _ = do(t, s, http.MethodGet, "/api/checkpoints/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
}

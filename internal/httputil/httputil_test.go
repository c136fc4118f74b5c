package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalString(t *testing.T) {
	type patch struct {
		FolderID OptionalString `json:"folder_id"`
	}

	tests := []struct {
		name    string
		body    string
		present bool
		isNull  bool
		value   string
	}{
		{"absent", `{}`, false, false, ""},
		{"null", `{"folder_id":null}`, true, true, ""},
		{"empty", `{"folder_id":""}`, true, false, ""},
		{"value", `{"folder_id":"abc"}`, true, false, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.present, p.FolderID.Present)
			assert.Equal(t, tt.isNull, p.FolderID.IsNull())
			if tt.present && !tt.isNull {
				require.NotNil(t, p.FolderID.Value)
				assert.Equal(t, tt.value, *p.FolderID.Value)
			}
		})
	}

	var p patch
	assert.Error(t, json.Unmarshal([]byte(`{"folder_id":42}`), &p))
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusConflict, "cycle", map[string]any{"folder_id": "f-1"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Conflict", body["title"])
	assert.Equal(t, "cycle", body["detail"])
	assert.Equal(t, "f-1", body["folder_id"])
	assert.EqualValues(t, 409, body["status"])
}

func TestParseJSON(t *testing.T) {
	var dest struct{ Name string }

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"Name":"x"}`))
	require.NoError(t, ParseJSON(httptest.NewRecorder(), req, &dest))
	assert.Equal(t, "x", dest.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, ParseJSON(httptest.NewRecorder(), req, &dest))

	big := `{"Name":"` + strings.Repeat("a", maxJSONBodyBytes) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	assert.ErrorIs(t, ParseJSON(httptest.NewRecorder(), req, &dest), ErrBodyTooLarge)
}

func TestOptionalQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?folder_id=abc&empty=&nul=null", nil)

	require.NotNil(t, OptionalQuery(req, "folder_id"))
	assert.Equal(t, "abc", *OptionalQuery(req, "folder_id"))
	assert.Nil(t, OptionalQuery(req, "empty"))
	assert.Nil(t, OptionalQuery(req, "nul"))
	assert.Nil(t, OptionalQuery(req, "missing"))
}

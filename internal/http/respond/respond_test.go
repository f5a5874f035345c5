package respond_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/http/respond"
	"github.com/MrJamesThe3rd/warung/internal/page"
)

type createRequest struct {
	Name  string `json:"name" validate:"required,max=5"`
	Stock int    `json:"stock" validate:"min=0"`
}

func TestDecode(t *testing.T) {
	type testCase struct {
		name    string
		body    string
		wantErr string
	}

	tests := []testCase{
		{name: "valid", body: `{"name":"kopi","stock":3}`},
		{name: "missing required field", body: `{"stock":3}`, wantErr: "name is required"},
		{name: "too long", body: `{"name":"kopi susu"}`, wantErr: "name must be at most 5"},
		{name: "below minimum", body: `{"name":"kopi","stock":-1}`, wantErr: "stock must be at least 0"},
		{name: "unknown field", body: `{"name":"kopi","colour":"black"}`, wantErr: `invalid request body: unknown field "colour"`},
		{name: "malformed", body: `{"name":`, wantErr: "invalid request body: malformed JSON"},
		{name: "bad syntax", body: `{"name" "kopi"}`, wantErr: "invalid request body: malformed JSON"},
		{name: "empty", body: ``, wantErr: "invalid request body: body is empty"},
		{name: "wrong type", body: `{"name":"kopi","stock":"tiga"}`, wantErr: "invalid request body: stock must not be a string"},
		{name: "not an object", body: `[1,2]`, wantErr: "invalid request body: expected a JSON object"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))

			var req createRequest
			err := respond.Decode(r, &req)

			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "kopi", req.Name)

				return
			}

			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.NotContains(t, err.Error(), "json:")
		})
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, respond.StatusOf(apperr.Validation("bad")))
	assert.Equal(t, http.StatusBadRequest, respond.StatusOf(apperr.Conflict("taken")))
	assert.Equal(t, http.StatusNotFound, respond.StatusOf(apperr.NotFound("gone")))
	assert.Equal(t, http.StatusInternalServerError, respond.StatusOf(errors.New("boom")))
}

func TestError_HidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(w, r, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestPage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&limit=25", nil)
	assert.Equal(t, page.Request{Page: 3, Limit: 25}, respond.Page(r))

	r = httptest.NewRequest(http.MethodGet, "/?page=abc&limit=-4", nil)
	assert.Equal(t, page.Request{Page: 1, Limit: page.DefaultLimit}, respond.Page(r))
}

func TestQueryDate(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)

	r := httptest.NewRequest(http.MethodGet, "/?startDate=2026-03-01&endDate=01-03-2026", nil)

	start, err := respond.QueryDate(r, "startDate", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, loc), *start)

	_, err = respond.QueryDate(r, "endDate", loc)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	missing, err := respond.QueryDate(r, "other", loc)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNewList_EmptyDataIsArray(t *testing.T) {
	w := httptest.NewRecorder()

	respond.JSON(w, http.StatusOK, respond.NewList[string](nil, page.Request{Page: 1, Limit: 10}, 0))

	assert.Contains(t, w.Body.String(), `"data":[]`)
}

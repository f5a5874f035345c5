package product_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	productHandler "github.com/MrJamesThe3rd/warung/internal/http/product"
	"github.com/MrJamesThe3rd/warung/internal/importer"
	"github.com/MrJamesThe3rd/warung/internal/product"
)

func newRouter(repo product.Repository) http.Handler {
	svc := product.NewService(repo)
	h := productHandler.NewHandler(svc, importer.NewService(svc))

	r := chi.NewRouter()
	r.Route("/products", h.Routes)

	return r
}

func upload(t *testing.T, field, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "stok.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/products/import", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	return r
}

func TestHandler_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := product.NewMockRepository(ctrl)
	itx := product.NewMockImportTx(ctrl)

	var upserted []string

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().EnsureCategory(gomock.Any(), gomock.Any()).Return(uuid.New(), nil).Times(2)
	itx.EXPECT().UpsertProduct(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *product.Product) (bool, error) {
			upserted = append(upserted, p.Name)
			return p.Name == "Indomie Goreng", nil
		}).Times(2)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	content := "nama;kategori;stok;harga_beli;harga_jual\n" +
		"Indomie Goreng;Makanan;40;2.800;3.500\n" +
		"Teh Botol;Minuman;banyak;3.000;4.000\n" +
		"Beras 5kg;Sembako;10;62.000;68.500\n"

	w := httptest.NewRecorder()
	newRouter(repo).ServeHTTP(w, upload(t, "file", content))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Charset string          `json:"charset"`
		Created int             `json:"created"`
		Updated int             `json:"updated"`
		Skipped []importer.Skip `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, []string{"Indomie Goreng", "Beras 5kg"}, upserted)
	assert.Equal(t, 1, body.Created)
	assert.Equal(t, 1, body.Updated)
	require.Len(t, body.Skipped, 1)
	assert.Equal(t, 3, body.Skipped[0].Line)
}

func TestHandler_Import_MissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)

	w := httptest.NewRecorder()
	newRouter(product.NewMockRepository(ctrl)).ServeHTTP(w, upload(t, "attachment", "nama\n"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"file is required"}`, w.Body.String())
}

func TestHandler_Create_DuplicateName(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := product.NewMockRepository(ctrl)

	repo.EXPECT().NameTaken(gomock.Any(), "Aqua 600ml", gomock.Any()).Return(true, nil)

	r := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(`{"name":"Aqua 600ml","stock":3,"sellingPrice":"4000"}`))
	w := httptest.NewRecorder()
	newRouter(repo).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"product \"Aqua 600ml\" already exists"}`, w.Body.String())
}

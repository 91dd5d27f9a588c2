package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/funko-api/internal/application/auth"
	"github.com/jhoicas/funko-api/internal/application/dto"
	"github.com/jhoicas/funko-api/internal/application/usecase"
	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/infrastructure/cache"
	"github.com/jhoicas/funko-api/internal/infrastructure/memory"
	"github.com/jhoicas/funko-api/internal/infrastructure/pdf"
	"github.com/jhoicas/funko-api/internal/infrastructure/storage"
	"github.com/jhoicas/funko-api/internal/interfaces/graphql"
	apphttp "github.com/jhoicas/funko-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno: API completa sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app       *fiber.App
	imagesDir string
	admin     string // header Authorization de un ADMIN
	user      string // header Authorization de un USER
}

func newTestAPI(t *testing.T, policy usecase.CategoryDeletePolicy) *testAPI {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()

	catalogCache := usecase.NewCatalogCache(cache.NewMemoryStore(100, time.Minute), "test:", time.Minute, log)
	images, err := storage.NewLocalStorage(filepath.Join(t.TempDir(), "images"))
	require.NoError(t, err)

	categoryUC := usecase.NewCategoryUseCase(store.Categories(), store.Items(), store.TxRunner(), catalogCache, nil, policy, log)
	itemUC := usecase.NewItemUseCase(store.Items(), categoryUC, catalogCache, images, nil, log)
	reportUC := usecase.NewReportUseCase(itemUC, pdf.NewCatalogGenerator("test"))
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	exec, err := graphql.NewExecutor(categoryUC, itemUC, log)
	require.NoError(t, err)

	admin, err := auth.NewUser("admin", "admin@funko.com", "Admin123!", entity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(context.Background(), admin))

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		CategoryUC: categoryUC,
		ItemUC:     itemUC,
		ReportUC:   reportUC,
		GraphQL:    exec,
		JWTSecret:  testJWTSecret,
		ImagesDir:  images.Dir(),
		ImagesPath: "/images",
		Log:        log,
	})

	api := &testAPI{app: app, imagesDir: images.Dir()}
	api.admin = "Bearer " + api.login(t, "admin", "Admin123!")
	api.user = tokenForRole(t, entity.RoleUser)
	return api
}

func (a *testAPI) do(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testAPI) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (a *testAPI) createCategory(t *testing.T, name string) dto.CategoryResponse {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/categorias", a.admin, dto.CategoryRequest{Name: name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.CategoryResponse
	decode(t, resp, &out)
	return out
}

func (a *testAPI) createItem(t *testing.T, name, price string, categoryID string) dto.ItemResponse {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/funkos", a.admin, itemBody(name, price, categoryID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.ItemResponse
	decode(t, resp, &out)
	return out
}

func itemBody(name, price, categoryID string) map[string]any {
	return map[string]any{"name": name, "price": json.Number(price), "category_id": categoryID}
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var out dto.ErrorResponse
	decode(t, resp, &out)
	return out.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCategorias_ListaPublicaVacia(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)

	resp := api.do(t, http.MethodGet, "/api/categorias", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out []dto.CategoryResponse
	decode(t, resp, &out)
	assert.Empty(t, out, "una lista vacía no es un error")
}

func TestCategorias_EscrituraRequiereAdmin(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)

	resp := api.do(t, http.MethodPost, "/api/categorias", "", dto.CategoryRequest{Name: "Marvel"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/categorias", api.user, dto.CategoryRequest{Name: "Marvel"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCategorias_CrearYObtener(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)
	created := api.createCategory(t, "Marvel")

	resp := api.do(t, http.MethodGet, "/api/categorias/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.CategoryResponse
	decode(t, resp, &out)
	assert.Equal(t, created.ID, out.ID)
	assert.Equal(t, "Marvel", out.Name)
}

func TestCategorias_DuplicadoSinDistinguirMayusculas_Retorna409(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)
	api.createCategory(t, "Marvel")

	resp := api.do(t, http.MethodPost, "/api/categorias", api.admin, dto.CategoryRequest{Name: "marvel"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, resp))
}

func TestCategorias_NombreCorto_Retorna400(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)

	resp := api.do(t, http.MethodPost, "/api/categorias", api.admin, dto.CategoryRequest{Name: "ab"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BUSINESS_RULE", errorCode(t, resp))
}

func TestCategorias_IDInvalido_Retorna400(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)

	resp := api.do(t, http.MethodGet, "/api/categorias/no-es-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", errorCode(t, resp))
}

func TestCategorias_NoExiste_Retorna404(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)

	resp := api.do(t, http.MethodGet, "/api/categorias/00000000-0000-0000-0000-000000000001", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestCategorias_Renombrar_SeReflejaEnFunkos(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)
	c := api.createCategory(t, "Marvel")
	it := api.createItem(t, "Iron Man", "19.50", c.ID.String())

	// calienta la caché del Funko
	resp := api.do(t, http.MethodGet, "/api/funkos/"+itoa(it.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(t, http.MethodPut, "/api/categorias/"+c.ID.String(), api.admin, dto.CategoryRequest{Name: "Marvel Studios"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/funkos/"+itoa(it.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ItemResponse
	decode(t, resp, &out)
	require.NotNil(t, out.Category)
	assert.Equal(t, "Marvel Studios", out.Category.Name, "la caché del Funko debe invalidarse al renombrar su categoría")
}

func TestCategorias_BorrarConFunkos_Guarded_Retorna400(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)
	c := api.createCategory(t, "Disney")
	api.createItem(t, "Stitch", "18.99", c.ID.String())

	resp := api.do(t, http.MethodDelete, "/api/categorias/"+c.ID.String(), api.admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BUSINESS_RULE", errorCode(t, resp))
}

func TestCategorias_BorrarConFunkos_Cascade_BorraTodo(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyCascade)
	c := api.createCategory(t, "Disney")
	it := api.createItem(t, "Stitch", "18.99", c.ID.String())

	resp := api.do(t, http.MethodDelete, "/api/categorias/"+c.ID.String(), api.admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/funkos/"+itoa(it.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Funkos
// ──────────────────────────────────────────────────────────────────────────────

func TestFunkos_CrearListarYObtener(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)
	c := api.createCategory(t, "Anime")
	created := api.createItem(t, "Naruto Uzumaki", "14.99", c.ID.String())

	assert.Positive(t, created.ID)
	assert.Equal(t, entity.DefaultImage, created.Image)
	require.NotNil(t, created.Category)
	assert.Equal(t, "Anime", created.Category.Name)
	assert.Equal(t, "14.99", created.Price.StringFixed(2))

	resp := api.do(t, http.MethodGet, "/api/funkos", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.ItemResponse
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestFunkos_CategoriaInexistente_Retorna400(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)

	resp := api.do(t, http.MethodPost, "/api/funkos", api.admin,
		itemBody("Thor", "10", "00000000-0000-0000-0000-000000000001"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BUSINESS_RULE", errorCode(t, resp))
}

func TestFunkos_PrecioNoPositivo_Retorna400(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)
	c := api.createCategory(t, "Marvel")

	resp := api.do(t, http.MethodPost, "/api/funkos", api.admin, itemBody("Thor", "0", c.ID.String()))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFunkos_PrecioFueraDeEscala_Retorna400(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)
	c := api.createCategory(t, "Marvel")

	for _, p := range []string{"0.001", "1.005", "1000000000"} {
		resp := api.do(t, http.MethodPost, "/api/funkos", api.admin, itemBody("Thor", p, c.ID.String()))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "precio %s", p)
		assert.Equal(t, "BUSINESS_RULE", errorCode(t, resp))
	}
}

func TestFunkos_IDs_InvalidoYNoExistente(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)

	resp := api.do(t, http.MethodGet, "/api/funkos/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", errorCode(t, resp))

	resp = api.do(t, http.MethodGet, "/api/funkos/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestFunkos_ActualizarYBorrar(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)
	c := api.createCategory(t, "Marvel")
	it := api.createItem(t, "Iron Man", "19.50", c.ID.String())

	resp := api.do(t, http.MethodPut, "/api/funkos/"+itoa(it.ID), api.user, itemBody("Iron Man MK50", "25", c.ID.String()))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(t, http.MethodPut, "/api/funkos/"+itoa(it.ID), api.admin, itemBody("Iron Man MK50", "25", c.ID.String()))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated dto.ItemResponse
	decode(t, resp, &updated)
	assert.Equal(t, "Iron Man MK50", updated.Name)

	resp = api.do(t, http.MethodDelete, "/api/funkos/"+itoa(it.ID), api.admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(t, http.MethodDelete, "/api/funkos/"+itoa(it.ID), api.admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// sin Funkos, la categoría ya se puede borrar
	resp = api.do(t, http.MethodDelete, "/api/categorias/"+c.ID.String(), api.admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestFunkos_SubirImagen_GuardaYSirveArchivo(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)
	c := api.createCategory(t, "Disney")
	it := api.createItem(t, "Mickey Mouse", "15.99", c.ID.String())

	content := []byte("\x89PNG\r\n\x1a\nfake")
	resp := api.upload(t, "/api/funkos/"+itoa(it.ID)+"/imagen", "mickey.png", content)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.ItemResponse
	decode(t, resp, &out)
	assert.True(t, strings.HasSuffix(out.Image, ".png"))
	assert.NotEqual(t, entity.DefaultImage, out.Image)

	saved, err := os.ReadFile(filepath.Join(api.imagesDir, out.Image))
	require.NoError(t, err)
	assert.Equal(t, content, saved)

	resp = api.do(t, http.MethodGet, "/images/"+out.Image, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFunkos_SubirImagen_FormatoNoSoportado_Retorna400(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)
	c := api.createCategory(t, "Disney")
	it := api.createItem(t, "Mickey Mouse", "15.99", c.ID.String())

	resp := api.upload(t, "/api/funkos/"+itoa(it.ID)+"/imagen", "mickey.gif", []byte("GIF89a"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFunkos_SubirImagen_SinArchivo_Retorna400(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)

	resp := api.do(t, http.MethodPatch, "/api/funkos/1/imagen", api.admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FILE", errorCode(t, resp))
}

func (a *testAPI) upload(t *testing.T, path, filename string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPatch, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, a.admin)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestFunkos_InformePDF(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)
	c := api.createCategory(t, "Marvel")
	api.createItem(t, "Spider-Man No Way Home", "22.00", c.ID.String())

	resp := api.do(t, http.MethodGet, "/api/funkos/report.pdf", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth y GraphQL
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegistroYLogin(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)

	resp := api.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "fan", Email: "fan@funko.com", Password: "Secreta1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reg dto.RegisterResponse
	decode(t, resp, &reg)
	assert.Equal(t, entity.RoleUser, reg.User.Role)

	token := api.login(t, "fan", "Secreta1")

	// un USER registrado no puede escribir en el catálogo
	resp = api.do(t, http.MethodPost, "/api/categorias", "Bearer "+token, dto.CategoryRequest{Name: "Marvel"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuth_LoginIncorrecto_Retorna400(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)

	resp := api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "mala"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuth_CuerpoInvalido_Retorna400(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{no-json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, resp))
}

func TestGraphQL_ConsultaYMutacion(t *testing.T) {
	api := newTestAPI(t, usecase.DeletePolicyGuarded)
	c := api.createCategory(t, "Anime")
	api.createItem(t, "Naruto Uzumaki", "14.99", c.ID.String())

	resp := api.do(t, http.MethodPost, "/graphql", "", graphql.Request{Query: `{ funkos { nombre categoria { nombre } } }`})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Data struct {
			Funkos []struct {
				Nombre    string `json:"nombre"`
				Categoria struct {
					Nombre string `json:"nombre"`
				} `json:"categoria"`
			} `json:"funkos"`
		} `json:"data"`
	}
	decode(t, resp, &out)
	require.Len(t, out.Data.Funkos, 1)
	assert.Equal(t, "Naruto Uzumaki", out.Data.Funkos[0].Nombre)
	assert.Equal(t, "Anime", out.Data.Funkos[0].Categoria.Nombre)

	mutation := graphql.Request{
		Query:     `mutation($c: ID!) { createFunko(input: {nombre: "Goku", precio: 20, categoriaId: $c}) { id } }`,
		Variables: map[string]any{"c": c.ID.String()},
	}
	resp = api.do(t, http.MethodPost, "/graphql", api.admin, mutation)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `"errors"`)

	resp = api.do(t, http.MethodPost, "/graphql", "Bearer basura", mutation)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

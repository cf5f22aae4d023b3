package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tiendaonline-web/internal/core/auth"
	"tiendaonline-web/internal/core/server"
	"tiendaonline-web/internal/core/session"
	"tiendaonline-web/internal/domain"
	"tiendaonline-web/internal/transport/http/handler"
)

const cookieName = "TIENDASESSION"

var errDB = errors.New("mssql: connection refused")

type fakeAuth struct{ users map[string]domain.Identity }

func (f *fakeAuth) Login(_ context.Context, email, password string) (*domain.Identity, error) {
	if email == "boom@tienda.local" {
		return nil, errDB
	}
	id, ok := f.users[email]
	if !ok || password != "secreto" {
		return nil, nil
	}
	return &id, nil
}

type fakeCatalog struct {
	list []domain.Product
	err  error
}

func (f *fakeCatalog) GetCatalog(context.Context) ([]domain.Product, error) { return f.list, f.err }

func (f *fakeCatalog) GetProduct(_ context.Context, id int) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.list {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeDBTests struct{ calls []string }

func (f *fakeDBTests) record(name string) string {
	f.calls = append(f.calls, name)
	return name + " ejecutado correctamente."
}
func (f *fakeDBTests) RunDemoRegisterProduct(context.Context) string { return f.record("sp_RegistrarProducto") }
func (f *fakeDBTests) RunDemoInventoryEntry(context.Context) string {
	return f.record("sp_RegistrarEntradaInventario")
}
func (f *fakeDBTests) RunDemoSaleForDemoClient(context.Context) string {
	return f.record("sp_RegistrarVentaSimple")
}
func (f *fakeDBTests) RunDemoAgingReview(context.Context) string {
	return f.record("sp_RevisarInventarioEnvejecido")
}

type testApp struct {
	engine  *gin.Engine
	store   *session.MemoryStore
	catalog *fakeCatalog
	dbtests *fakeDBTests
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "login.html"), []byte(`<form action="/login"></form>`), 0o644))

	app := &testApp{
		store: session.NewMemoryStore(30 * time.Minute),
		catalog: &fakeCatalog{list: []domain.Product{
			{ID: 1, Name: "Blazer", Size: "M", Color: "Negro", Style: "Formal", Price: 45990, Stock: 5, FinalPrice: 45990},
			{ID: 2, Name: "Camisa", Size: "S", Color: "Blanco", Style: "Casual", Price: 19990, Stock: 3,
				ActiveDiscountPercent: 10, FinalPrice: 17991},
		}},
		dbtests: &fakeDBTests{},
	}
	signer, err := auth.NewSigner("test-secret", "tienda-test", 30*time.Minute)
	require.NoError(t, err)
	app.engine = NewAPIEngine(zap.NewNop(), APIDeps{
		Auth: &fakeAuth{users: map[string]domain.Identity{
			"owner@tienda.local":    {ID: 1, Email: "owner@tienda.local", RoleName: "OWNER"},
			"gestor@tienda.local":   {ID: 2, Email: "gestor@tienda.local", RoleName: "GESTORINVENTARIO"},
			"vendedor@tienda.local": {ID: 3, Email: "vendedor@tienda.local", RoleName: "VENDEDOR"},
			"cliente@tienda.local":  {ID: 4, Email: "cliente@tienda.local", RoleName: "CLIENTE"},
			"minus@tienda.local":    {ID: 5, Email: "minus@tienda.local", RoleName: "owner"},
			"raro@tienda.local":     {ID: 6, Email: "raro@tienda.local", RoleName: "AUDITOR"},
		}},
		Catalog:   app.catalog,
		DBTests:   app.dbtests,
		Store:     app.store,
		Signer:    signer,
		Cookie:    handler.CookieOptions{Name: cookieName},
		StaticDir: static,
		Server:    server.Options{Mode: gin.TestMode},
	})
	return app
}

func (a *testApp) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, nil)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", cookieName)
	return nil
}

func (a *testApp) loginAs(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rec := a.login(t, email, "secreto")
	require.Equal(t, http.StatusFound, rec.Code)
	return sessionCookie(t, rec)
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Message
}

func get(path string) *http.Request  { return httptest.NewRequest(http.MethodGet, path, nil) }
func post(path string) *http.Request { return httptest.NewRequest(http.MethodPost, path, nil) }

func TestRootRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(get("/"), nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login.html", rec.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(get("/health"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":1}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestStaticFiles(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(get("/login.html"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/login"`)

	rec = app.do(get("/owner.html"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(get("/../../etc/passwd"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogin_RedirectsByRole(t *testing.T) {
	cases := []struct {
		email, location string
	}{
		{"owner@tienda.local", "/owner.html"},
		{"gestor@tienda.local", "/gestor.html"},
		{"vendedor@tienda.local", "/vendedor.html"},
		{"cliente@tienda.local", "/cliente.html"},
		{"minus@tienda.local", "/owner.html"},
		{"raro@tienda.local", "/login.html"},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			app := newTestApp(t)
			rec := app.login(t, tc.email, "secreto")
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tc.location, rec.Header().Get("Location"))

			c := sessionCookie(t, rec)
			assert.True(t, c.HttpOnly)
			assert.Equal(t, "/", c.Path)
			assert.NotEmpty(t, c.Value)
		})
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	app := newTestApp(t)
	for _, form := range [][2]string{
		{"owner@tienda.local", "wrong"},
		{"nadie@tienda.local", "secreto"},
		{"", ""},
	} {
		rec := app.login(t, form[0], form[1])
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Credenciales inválidas", rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	}
}

func TestLogin_DatabaseError(t *testing.T) {
	app := newTestApp(t)
	rec := app.login(t, "boom@tienda.local", "secreto")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, message(t, rec))
}

func TestCatalog_RequiresSession(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(get("/api/catalogo"), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No autenticado", message(t, rec))

	forged := &http.Cookie{Name: cookieName, Value: "not-a-token"}
	rec = app.do(get("/api/catalogo"), forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalog_List(t *testing.T) {
	app := newTestApp(t)
	c := app.loginAs(t, "cliente@tienda.local")

	rec := app.do(get("/api/catalogo"), c)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	for _, k := range []string{"id", "name", "size", "color", "style", "price", "imageUrl", "stock", "activeDiscountPercent", "finalPrice"} {
		assert.Contains(t, list[1], k)
	}
	assert.EqualValues(t, 17991, list[1]["finalPrice"])
}

func TestCatalog_EmptyIsArray(t *testing.T) {
	app := newTestApp(t)
	app.catalog.list = nil
	c := app.loginAs(t, "cliente@tienda.local")

	rec := app.do(get("/api/catalogo"), c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCatalog_DatabaseError(t *testing.T) {
	app := newTestApp(t)
	c := app.loginAs(t, "cliente@tienda.local")
	app.catalog.err = errDB

	rec := app.do(get("/api/catalogo"), c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "No se pudo obtener el catálogo", message(t, rec))
}

func TestCatalog_ByID(t *testing.T) {
	app := newTestApp(t)
	c := app.loginAs(t, "vendedor@tienda.local")

	rec := app.do(get("/api/catalogo/2"), c)
	require.Equal(t, http.StatusOK, rec.Code)
	var p domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Camisa", p.Name)

	rec = app.do(get("/api/catalogo/99"), c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(get("/api/catalogo/abc"), c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe(t *testing.T) {
	app := newTestApp(t)
	c := app.loginAs(t, "gestor@tienda.local")

	rec := app.do(get("/api/me"), c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":2,"email":"gestor@tienda.local","roleName":"GESTORINVENTARIO"}`, rec.Body.String())
}

func TestDBTests_RoleGates(t *testing.T) {
	app := newTestApp(t)
	cookies := map[string]*http.Cookie{}
	for _, u := range []string{"owner", "gestor", "vendedor", "cliente", "minus"} {
		cookies[u] = app.loginAs(t, u+"@tienda.local")
	}

	allowed := map[string][]string{
		"/api/tests/owner/registrar-producto":  {"owner", "minus"},
		"/api/tests/owner/entrada-inventario":  {"owner", "minus"},
		"/api/tests/owner/revisar-envejecido":  {"owner", "minus"},
		"/api/tests/gestor/entrada-inventario": {"gestor", "owner", "minus"},
		"/api/tests/gestor/revisar-envejecido": {"gestor", "owner", "minus"},
		"/api/tests/vendedor/venta-demo":       {"vendedor", "owner", "minus"},
	}
	for path, ok := range allowed {
		rec := app.do(post(path), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "No autenticado", message(t, rec))

		for user, c := range cookies {
			rec := app.do(post(path), c)
			if contains(ok, user) {
				assert.Equal(t, http.StatusOK, rec.Code, "%s as %s", path, user)
				assert.Contains(t, message(t, rec), "ejecutado correctamente")
			} else {
				assert.Equal(t, http.StatusForbidden, rec.Code, "%s as %s", path, user)
				assert.Equal(t, "Acceso denegado", message(t, rec))
			}
		}
	}
}

func TestDBTests_CallsService(t *testing.T) {
	app := newTestApp(t)
	c := app.loginAs(t, "vendedor@tienda.local")

	rec := app.do(post("/api/tests/vendedor/venta-demo"), c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sp_RegistrarVentaSimple ejecutado correctamente.", message(t, rec))
	assert.Equal(t, []string{"sp_RegistrarVentaSimple"}, app.dbtests.calls)

	// GET 不在路由表里
	rec = app.do(get("/api/tests/vendedor/venta-demo"), c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	app := newTestApp(t)
	c := app.loginAs(t, "owner@tienda.local")
	require.Equal(t, http.StatusOK, app.do(get("/api/catalogo"), c).Code)

	rec := app.do(get("/logout"), c)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login.html", rec.Header().Get("Location"))
	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// 旧 cookie 已失效
	rec = app.do(get("/api/catalogo"), c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_Anonymous(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(get("/logout"), nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login.html", rec.Header().Get("Location"))
}

func TestRelogin_DropsPreviousSession(t *testing.T) {
	app := newTestApp(t)
	first := app.loginAs(t, "cliente@tienda.local")

	form := url.Values{"email": {"owner@tienda.local"}, "password": {"secreto"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := app.do(req, first)
	require.Equal(t, http.StatusFound, rec.Code)
	second := sessionCookie(t, rec)

	assert.Equal(t, http.StatusUnauthorized, app.do(get("/api/me"), first).Code)
	assert.Equal(t, http.StatusOK, app.do(get("/api/me"), second).Code)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

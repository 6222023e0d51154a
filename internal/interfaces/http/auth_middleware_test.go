package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	apphttp "github.com/jhoicas/bar-inventario-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/bar-inventario-api/pkg/jwt"
)

const secretPrueba = "secreto-de-pruebas"

func bearer(t *testing.T, userID int64, role string, minutes int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secretPrueba, userID, role, "bar-inventario-test", minutes)
	require.NoError(t, err)
	return "Bearer " + tok
}

// appConRoles expone GET /recurso protegido por JWT y por los roles dados.
func appConRoles(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/recurso",
		apphttp.AuthMiddleware(secretPrueba),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"id": apphttp.GetUserID(c), "rol": apphttp.GetRole(c)})
		},
	)
	return app
}

func TestAuthYRoles(t *testing.T) {
	lectura := []string{entity.RoleAdmin, entity.RoleConsulta}
	escritura := []string{entity.RoleAdmin}

	cases := []struct {
		name   string
		roles  []string
		header func(t *testing.T) string
		status int
		code   string
	}{
		{"admin escribe", escritura, func(t *testing.T) string { return bearer(t, 7, entity.RoleAdmin, 60) }, http.StatusOK, ""},
		{"consulta lee", lectura, func(t *testing.T) string { return bearer(t, 8, entity.RoleConsulta, 60) }, http.StatusOK, ""},
		{"consulta no escribe", escritura, func(t *testing.T) string { return bearer(t, 8, entity.RoleConsulta, 60) }, http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", escritura, func(t *testing.T) string { return bearer(t, 7, "", 60) }, http.StatusUnauthorized, "MISSING_ROLE"},
		{"token vencido", escritura, func(t *testing.T) string { return bearer(t, 7, entity.RoleAdmin, -1) }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"sin header", lectura, func(*testing.T) string { return "" }, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema Basic", lectura, func(*testing.T) string { return "Basic abc" }, http.StatusUnauthorized, ""},
		{"bearer vacío", lectura, func(*testing.T) string { return "Bearer " }, http.StatusUnauthorized, ""},
		{"firma ajena", lectura, func(*testing.T) string { return "Bearer a.b.c" }, http.StatusUnauthorized, "INVALID_TOKEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
			if h := tc.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			resp, err := appConRoles(tc.roles...).Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tc.code, errorCode(t, body))
			}
		})
	}
}

func TestAuthMiddleware_CargaClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", bearer(t, 42, entity.RoleConsulta, 60))
	resp, err := appConRoles(entity.RoleConsulta).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		ID  int64  `json:"id"`
		Rol string `json:"rol"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(42), body.ID)
	assert.Equal(t, entity.RoleConsulta, body.Rol)
}

package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/funko-api/internal/application/dto"
	"github.com/jhoicas/funko-api/internal/interfaces/graphql"
	"github.com/jhoicas/funko-api/pkg/jwt"
)

// GraphQLHandler atiende POST /graphql. El token es opcional: sin él sólo se pueden hacer consultas.
// Un token presente pero inválido es 401.
func GraphQLHandler(exec *graphql.Executor, jwtSecret string, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req graphql.Request
		if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Query) == "" {
			return badRequest(c, "INVALID_BODY", "se requiere un campo 'query'")
		}

		ctx := c.UserContext()
		if header := c.Get(fiber.HeaderAuthorization); header != "" {
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
			}
			claims, err := jwt.Parse(jwtSecret, strings.TrimSpace(token))
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
			}
			ctx = graphql.WithRole(ctx, claims.Role)
		}

		result := exec.Execute(ctx, req)
		if result.HasErrors() {
			log.Debug().Interface("errors", result.Errors).Msg("graphql: la operación devolvió errores")
		}
		return c.JSON(result)
	}
}

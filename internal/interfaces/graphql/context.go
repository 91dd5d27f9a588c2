package graphql

import "context"

type roleKey struct{}

// WithRole adjunta el rol del usuario autenticado al contexto de ejecución.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFrom devuelve el rol del contexto o "" si la petición es anónima.
func RoleFrom(ctx context.Context) string {
	role, _ := ctx.Value(roleKey{}).(string)
	return role
}

// Package graphql expone el catálogo como esquema GraphQL (graphql-go).
// Consultas públicas; las mutaciones requieren rol ADMIN en el contexto (ver WithRole).
package graphql

import (
	"context"
	"fmt"

	gql "github.com/graphql-go/graphql"
	"github.com/rs/zerolog"
)

// Request cuerpo estándar de una petición GraphQL sobre HTTP.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Executor ejecuta operaciones contra el esquema del catálogo.
type Executor struct {
	schema gql.Schema
}

// NewExecutor construye el esquema sobre los servicios del catálogo.
func NewExecutor(categories CategoryService, items ItemService, log zerolog.Logger) (*Executor, error) {
	schema, err := newSchema(&resolver{categories: categories, items: items, log: log})
	if err != nil {
		return nil, fmt.Errorf("graphql: construir esquema: %w", err)
	}
	return &Executor{schema: schema}, nil
}

// Execute ejecuta la operación. Los errores viajan dentro del resultado.
func (e *Executor) Execute(ctx context.Context, req Request) *gql.Result {
	return gql.Do(gql.Params{
		Schema:         e.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

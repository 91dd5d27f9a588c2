package graphql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	gql "github.com/graphql-go/graphql"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/funko-api/internal/application/dto"
)

// CategoryService lecturas de categorías que expone el esquema.
type CategoryService interface {
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
}

// ItemService operaciones de Funkos que expone el esquema.
type ItemService interface {
	List(ctx context.Context) ([]dto.ItemResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error)
	Create(ctx context.Context, in dto.ItemRequest) (*dto.ItemResponse, error)
	Update(ctx context.Context, id int64, in dto.ItemRequest) (*dto.ItemResponse, error)
	Delete(ctx context.Context, id int64) (*dto.ItemResponse, error)
}

type resolver struct {
	categories CategoryService
	items      ItemService
	log        zerolog.Logger
}

func newSchema(r *resolver) (gql.Schema, error) {
	categoryType := gql.NewObject(gql.ObjectConfig{
		Name: "Categoria",
		Fields: gql.Fields{
			"id":        &gql.Field{Type: gql.NewNonNull(gql.ID), Resolve: fromCategory(func(c dto.CategoryResponse) any { return c.ID.String() })},
			"nombre":    &gql.Field{Type: gql.NewNonNull(gql.String), Resolve: fromCategory(func(c dto.CategoryResponse) any { return c.Name })},
			"createdAt": &gql.Field{Type: gql.DateTime, Resolve: fromCategory(func(c dto.CategoryResponse) any { return c.CreatedAt })},
			"updatedAt": &gql.Field{Type: gql.DateTime, Resolve: fromCategory(func(c dto.CategoryResponse) any { return c.UpdatedAt })},
		},
	})

	itemType := gql.NewObject(gql.ObjectConfig{
		Name: "Funko",
		Fields: gql.Fields{
			"id":     &gql.Field{Type: gql.NewNonNull(gql.Int), Resolve: fromItem(func(it dto.ItemResponse) any { return it.ID })},
			"nombre": &gql.Field{Type: gql.NewNonNull(gql.String), Resolve: fromItem(func(it dto.ItemResponse) any { return it.Name })},
			"precio": &gql.Field{Type: gql.NewNonNull(gql.Float), Resolve: fromItem(func(it dto.ItemResponse) any { return it.Price.InexactFloat64() })},
			"imagen": &gql.Field{Type: gql.String, Resolve: fromItem(func(it dto.ItemResponse) any { return it.Image })},
			"categoria": &gql.Field{Type: categoryType, Resolve: fromItem(func(it dto.ItemResponse) any {
				if it.Category == nil {
					return nil
				}
				return *it.Category
			})},
			"createdAt": &gql.Field{Type: gql.DateTime, Resolve: fromItem(func(it dto.ItemResponse) any { return it.CreatedAt })},
			"updatedAt": &gql.Field{Type: gql.DateTime, Resolve: fromItem(func(it dto.ItemResponse) any { return it.UpdatedAt })},
		},
	})

	// Relación inversa; se añade después para evitar la referencia circular en la declaración.
	categoryType.AddFieldConfig("funkos", &gql.Field{
		Type:    gql.NewNonNull(gql.NewList(gql.NewNonNull(itemType))),
		Resolve: r.categoryItems,
	})

	funkoInput := gql.NewInputObject(gql.InputObjectConfig{
		Name: "FunkoInput",
		Fields: gql.InputObjectConfigFieldMap{
			"nombre":      &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
			"precio":      &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.Float)},
			"categoriaId": &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.ID)},
		},
	})

	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"funkos": &gql.Field{
				Type:    gql.NewNonNull(gql.NewList(gql.NewNonNull(itemType))),
				Resolve: r.listItems,
			},
			"funko": &gql.Field{
				Type:    itemType,
				Args:    gql.FieldConfigArgument{"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)}},
				Resolve: r.getItem,
			},
			"categorias": &gql.Field{
				Type:    gql.NewNonNull(gql.NewList(gql.NewNonNull(categoryType))),
				Resolve: r.listCategories,
			},
			"categoria": &gql.Field{
				Type:    categoryType,
				Args:    gql.FieldConfigArgument{"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)}},
				Resolve: r.getCategory,
			},
		},
	})

	mutation := gql.NewObject(gql.ObjectConfig{
		Name: "Mutation",
		Fields: gql.Fields{
			"createFunko": &gql.Field{
				Type:    itemType,
				Args:    gql.FieldConfigArgument{"input": &gql.ArgumentConfig{Type: gql.NewNonNull(funkoInput)}},
				Resolve: r.createItem,
			},
			"updateFunko": &gql.Field{
				Type: itemType,
				Args: gql.FieldConfigArgument{
					"id":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"input": &gql.ArgumentConfig{Type: gql.NewNonNull(funkoInput)},
				},
				Resolve: r.updateItem,
			},
			"deleteFunko": &gql.Field{
				Type:    itemType,
				Args:    gql.FieldConfigArgument{"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)}},
				Resolve: r.deleteItem,
			},
		},
	})

	return gql.NewSchema(gql.SchemaConfig{Query: query, Mutation: mutation})
}

// ── Resolvers ─────────────────────────────────────────────────────────────────

func (r *resolver) listItems(p gql.ResolveParams) (any, error) {
	list, err := r.items.List(p.Context)
	if err != nil {
		return nil, toGraphQLError(r.log, err)
	}
	return list, nil
}

func (r *resolver) getItem(p gql.ResolveParams) (any, error) {
	it, err := r.items.GetByID(p.Context, int64(p.Args["id"].(int)))
	if err != nil {
		return nil, toGraphQLError(r.log, err)
	}
	return *it, nil
}

func (r *resolver) listCategories(p gql.ResolveParams) (any, error) {
	list, err := r.categories.List(p.Context)
	if err != nil {
		return nil, toGraphQLError(r.log, err)
	}
	return list, nil
}

func (r *resolver) getCategory(p gql.ResolveParams) (any, error) {
	id, err := uuid.Parse(p.Args["id"].(string))
	if err != nil {
		return nil, &codedError{code: "BUSINESS_RULE", message: "id debe ser un UUID válido"}
	}
	c, err := r.categories.GetByID(p.Context, id)
	if err != nil {
		return nil, toGraphQLError(r.log, err)
	}
	return *c, nil
}

// categoryItems filtra el listado cacheado de Funkos por la categoría del padre.
func (r *resolver) categoryItems(p gql.ResolveParams) (any, error) {
	parent, ok := p.Source.(dto.CategoryResponse)
	if !ok {
		return nil, fmt.Errorf("categoria: fuente inesperada %T", p.Source)
	}
	all, err := r.items.List(p.Context)
	if err != nil {
		return nil, toGraphQLError(r.log, err)
	}
	out := make([]dto.ItemResponse, 0)
	for _, it := range all {
		if it.Category != nil && it.Category.ID == parent.ID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *resolver) createItem(p gql.ResolveParams) (any, error) {
	if err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	in, err := itemRequestFromArgs(p.Args["input"])
	if err != nil {
		return nil, err
	}
	it, err := r.items.Create(p.Context, in)
	if err != nil {
		return nil, toGraphQLError(r.log, err)
	}
	return *it, nil
}

func (r *resolver) updateItem(p gql.ResolveParams) (any, error) {
	if err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	in, err := itemRequestFromArgs(p.Args["input"])
	if err != nil {
		return nil, err
	}
	it, err := r.items.Update(p.Context, int64(p.Args["id"].(int)), in)
	if err != nil {
		return nil, toGraphQLError(r.log, err)
	}
	return *it, nil
}

func (r *resolver) deleteItem(p gql.ResolveParams) (any, error) {
	if err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	it, err := r.items.Delete(p.Context, int64(p.Args["id"].(int)))
	if err != nil {
		return nil, toGraphQLError(r.log, err)
	}
	return *it, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func itemRequestFromArgs(raw any) (dto.ItemRequest, error) {
	input, _ := raw.(map[string]any)
	categoryID, err := uuid.Parse(fmt.Sprint(input["categoriaId"]))
	if err != nil {
		return dto.ItemRequest{}, &codedError{code: "BUSINESS_RULE", message: "categoriaId debe ser un UUID válido"}
	}
	name, _ := input["nombre"].(string)
	price, _ := input["precio"].(float64)
	return dto.ItemRequest{
		Name:       name,
		Price:      decimal.NewFromFloat(price),
		CategoryID: categoryID,
	}, nil
}

func fromCategory(get func(dto.CategoryResponse) any) gql.FieldResolveFn {
	return func(p gql.ResolveParams) (any, error) {
		c, ok := p.Source.(dto.CategoryResponse)
		if !ok {
			return nil, fmt.Errorf("categoria: fuente inesperada %T", p.Source)
		}
		return get(c), nil
	}
}

func fromItem(get func(dto.ItemResponse) any) gql.FieldResolveFn {
	return func(p gql.ResolveParams) (any, error) {
		it, ok := p.Source.(dto.ItemResponse)
		if !ok {
			return nil, fmt.Errorf("funko: fuente inesperada %T", p.Source)
		}
		return get(it), nil
	}
}

package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/jhoicas/funko-api/docs"
)

func TestSwagger_RegistradoYValido(t *testing.T) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Info  struct{ Title string } `json:"info"`
		Paths map[string]any        `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "Funko API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/api/funkos/{id}/imagen")
	assert.Contains(t, doc.Paths, "/api/categorias/{id}")
}

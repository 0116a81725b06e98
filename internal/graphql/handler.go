// Package graphql exposes the hacker news scraper as a graphql api.
package graphql

import (
	_ "embed"
	"net/http"

	"hnreader/internal/components/assert"
	"hnreader/internal/components/telemetry"

	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

//go:embed schema.graphql
var schemaSource string

func NewSchema(src Source, tel telemetry.API) (*graphql.Schema, error) {
	assert.NotNil(src)
	assert.NotNil(tel)

	return graphql.ParseSchema(
		schemaSource,
		&resolver{src: src, tel: telemetry.NewScopedAPI("graphql", tel)},
		graphql.UseFieldResolvers(),
		graphql.MaxDepth(8),
	)
}

// NewHandler serves graphql queries sent as json POST requests.
func NewHandler(src Source, tel telemetry.API) (http.Handler, error) {
	schema, err := NewSchema(src, tel)
	if err != nil {
		return nil, err
	}
	return &relay.Handler{Schema: schema}, nil
}

// Package server wires the catalog services into the HTTP router.
package server

import (
	"context"

	"asset-catalog/internal/catalog"
	"asset-catalog/internal/entity"
	"asset-catalog/internal/events"
	"asset-catalog/internal/export"
	"asset-catalog/internal/handlers"
	"asset-catalog/internal/ports"
	"asset-catalog/internal/relationship"
	"asset-catalog/internal/schema"
	"asset-catalog/internal/tenant"
	"asset-catalog/internal/validation"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tagPortConfiguration = "port_configuration"

// NewHandler builds every catalog service on db. source serves equipment model
// lookups for the catalog linker; publisher receives change events.
func NewHandler(db *gorm.DB, source catalog.Source, publisher events.Publisher, log *zap.Logger) *handlers.Handler {
	v := validation.New()
	registry := schema.NewRegistry(db, v, log)
	entities := entity.NewStore(db, registry, v, catalog.NewLinker(source), publisher, log)
	portStore := ports.NewStore(db, publisher, log)

	graph := relationship.NewGraph(db, publisher, log)
	for tag, resolve := range entities.Resolvers() {
		graph.Register(tag, resolve)
	}
	graph.Register(tagPortConfiguration, func(ctx context.Context, org tenant.OrgID, id uint) error {
		_, err := portStore.Get(ctx, org, id)
		return err
	})

	return handlers.New(handlers.Deps{
		DB:       db,
		Registry: registry,
		Entities: entities,
		Graph:    graph,
		Ports:    portStore,
		Catalog:  catalog.NewDBSource(db),
		Exporter: export.NewExporter(registry, entities),
		Log:      log,
	})
}

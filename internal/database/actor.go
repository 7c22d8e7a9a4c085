package database

import (
	"context"

	"gorm.io/gorm"
)

type actorKey struct{}

// WithActor tags ctx with the name recorded in audit rows.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFrom(tx *gorm.DB) string {
	if tx.Statement == nil || tx.Statement.Context == nil {
		return ""
	}
	actor, _ := tx.Statement.Context.Value(actorKey{}).(string)
	return actor
}

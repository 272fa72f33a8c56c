package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/errs"
)

type keyType string

const (
	userIDKey keyType = "userID"
)

// ctxWithUserID adds a user ID to the context
func ctxWithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves the authenticated user ID from the context
func ctxGetUserID(ctx context.Context) (uuid.UUID, error) {
	if ctxValue := ctx.Value(userIDKey); ctxValue == nil {
		return uuid.Nil, errs.NewUnauthorizedError("no authenticated user in request")
	} else if id, ok := ctxValue.(uuid.UUID); !ok {
		return uuid.Nil, errs.NewInternalError("user id in context is not a uuid")
	} else {
		return id, nil
	}
}

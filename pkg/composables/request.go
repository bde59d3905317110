package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/atlas-hq/atlas-admin/pkg/constants"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
)

// WithPrincipal returns a new context carrying the resolved principal.
func WithPrincipal(ctx context.Context, p datascope.Principal) context.Context {
	return context.WithValue(ctx, constants.PrincipalKey, p)
}

// UsePrincipal returns the principal from the context. The second return
// value is false when no authentication middleware ran.
func UsePrincipal(ctx context.Context) (datascope.Principal, bool) {
	p, ok := ctx.Value(constants.PrincipalKey).(datascope.Principal)
	return p, ok
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger, falling back to the standard
// logger when middleware did not install one.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logger
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, id)
}

func UseRequestID(ctx context.Context) string {
	id, _ := ctx.Value(constants.RequestIDKey).(string)
	return id
}

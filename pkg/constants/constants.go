package constants

import "github.com/go-playground/validator/v10"

// Validate is the shared validator instance used by DTO Ok methods.
var Validate = validator.New()

type contextKey string

const (
	PoolKey      contextKey = "pool"
	TxKey        contextKey = "tx"
	LoggerKey    contextKey = "logger"
	PrincipalKey contextKey = "principal"
	RequestIDKey contextKey = "request-id"
)

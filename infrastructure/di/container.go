package di

import (
	"parkwise/application/services"
	"parkwise/infrastructure/config"
	"parkwise/infrastructure/persistence/store"
	"parkwise/interfaces/http/rest"
	"parkwise/pkg/auth"
	"parkwise/pkg/observability"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	LogLevel     zap.AtomicLevel
	Tracer       *observability.Tracer
	DynamoDB     *awsdynamodb.Client
	Store        store.KeyValueStore
	LoginLimiter auth.RateLimiter
	Auth         *services.AuthService
	Buildings    *services.BuildingService
	Offices      *services.OfficeService
	Router       *rest.Router
}

// AdminContainer holds what the operator CLI needs. It does not require a
// signing secret.
type AdminContainer struct {
	Config    *config.Config
	Logger    *zap.Logger
	DynamoDB  *awsdynamodb.Client
	Store     store.KeyValueStore
	Auth      *services.AuthService
	Buildings *services.BuildingService
	Offices   *services.OfficeService
}

package di

import (
	"context"
	"errors"
	"time"

	"parkwise/application/ports"
	"parkwise/application/services"
	"parkwise/domain/core/entities"
	"parkwise/domain/core/valueobjects"
	"parkwise/infrastructure/config"
	"parkwise/infrastructure/messaging"
	"parkwise/infrastructure/messaging/eventbridge"
	"parkwise/infrastructure/persistence/dynamodb"
	"parkwise/infrastructure/persistence/store"
	"parkwise/interfaces/http/rest"
	"parkwise/interfaces/http/rest/handlers"
	"parkwise/pkg/auth"
	pkgerrors "parkwise/pkg/errors"
	"parkwise/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

const serviceName = "parkwise"

// ProvideLogLevel parses the configured level into an adjustable level.
func ProvideLogLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	return zap.ParseAtomicLevel(cfg.LogLevel)
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName), zap.String("environment", cfg.Environment)), nil
}

// ProvideTracer creates the X-Ray tracer.
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config, tracer *observability.Tracer) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}
	tracer.InstrumentAWS(&awsCfg)
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at DynamoDBEndpoint
// when one is configured.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideStore selects the key-value backend. The DynamoDB backend sits behind
// a circuit breaker.
func ProvideStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) store.KeyValueStore {
	if cfg.StoreBackend == config.StoreMemory {
		logger.Warn("Using in-memory store; data is lost on restart")
		return store.NewMemoryStore()
	}
	table := store.NewDynamoDBStore(client, cfg.TableName, logger)
	return store.NewCircuitBreakerStore(table, cfg.Breaker(), logger)
}

// ProvideSlotLayout parses the floor plan new floors are provisioned with.
func ProvideSlotLayout(cfg *config.Config) (valueobjects.SlotLayout, error) {
	return valueobjects.NewSlotLayout(cfg.SlotLayout)
}

// ProvidePasswordHasher creates the bcrypt hasher.
func ProvidePasswordHasher(cfg *config.Config) *auth.BcryptHasher {
	return auth.NewBcryptHasher(cfg.BcryptCost)
}

// ProvideTokenService creates the JWT issuer and validator.
func ProvideTokenService(cfg *config.Config) (*auth.TokenService, error) {
	return auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.JWTTTL(),
	})
}

// ProvideEventPublisher publishes to EventBridge when a bus is configured and
// to the log otherwise.
func ProvideEventPublisher(awsCfg aws.Config, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return messaging.NewLogPublisher(logger)
	}
	return eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger)
}

// ProvideCollector returns the Prometheus collector, or nil when metrics are
// disabled.
func ProvideCollector(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(serviceName)
}

// ProvideMetricsRecorder fans operation metrics out to Prometheus and, inside
// Lambda where nothing scrapes the process, to CloudWatch.
func ProvideMetricsRecorder(awsCfg aws.Config, cfg *config.Config, collector *observability.Collector, logger *zap.Logger) ports.MetricsRecorder {
	var recorders observability.MultiRecorder
	if collector != nil {
		recorders = append(recorders, collector)
	}
	if cfg.EnableMetrics && cfg.IsLambda {
		recorders = append(recorders, observability.NewMetrics(cfg.MetricsNamespace, awscloudwatch.NewFromConfig(awsCfg), logger))
	}
	if len(recorders) == 0 {
		return observability.NopRecorder{}
	}
	return recorders
}

// ProvideLoginLimiter limits login attempts per client address. Lambda
// instances share the table-backed window; a long-running server keeps it in
// memory.
func ProvideLoginLimiter(kv store.KeyValueStore, cfg *config.Config) auth.RateLimiter {
	if cfg.IsLambda {
		return auth.NewStoreRateLimiter(kv, "login", cfg.LoginRateLimit, time.Minute)
	}
	return auth.NewSlidingWindowLimiter(cfg.LoginRateLimit, time.Minute)
}

// ProvideErrorHandler creates the HTTP error renderer. Development responses
// include stack traces.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

var readinessKey = store.Key{PK: "HEALTH", SK: "PROBE"}

// ProvideReadinessCheck probes the store with a point read.
func ProvideReadinessCheck(kv store.KeyValueStore) handlers.ReadinessCheck {
	return func(ctx context.Context) error {
		_, err := kv.GetItem(ctx, readinessKey)
		if err == nil || errors.Is(err, store.ErrItemNotFound) {
			return nil
		}
		return err
	}
}

// ProvideHandlers assembles the HTTP handlers.
func ProvideHandlers(
	authService *services.AuthService,
	buildingService *services.BuildingService,
	officeService *services.OfficeService,
	vehicleService *services.VehicleService,
	parkingService *services.ParkingService,
	billingService *services.BillingService,
	ready handlers.ReadinessCheck,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) rest.Handlers {
	return rest.Handlers{
		Auth:      handlers.NewAuthHandler(authService, errs, logger),
		Buildings: handlers.NewBuildingHandler(buildingService, errs, logger),
		Offices:   handlers.NewOfficeHandler(officeService, errs, logger),
		Vehicles:  handlers.NewVehicleHandler(vehicleService, errs, logger),
		Parkings:  handlers.NewParkingHandler(parkingService, errs, logger),
		Billing:   handlers.NewBillingHandler(billingService, errs, logger),
		Health:    handlers.NewHealthHandler(ready, logger),
	}
}

// ProvideRouter creates the HTTP router.
func ProvideRouter(
	h rest.Handlers,
	tokens *auth.TokenService,
	limiter auth.RateLimiter,
	collector *observability.Collector,
	tracer *observability.Tracer,
	cfg *config.Config,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(h, tokens, limiter, collector, tracer, cfg, errs, logger)
}

// Repository providers bind the table-backed repositories to their ports.

func ProvideBuildingRepository(kv store.KeyValueStore, logger *zap.Logger) ports.BuildingRepository {
	return dynamodb.NewBuildingRepository(kv, logger)
}

func ProvideFloorRepository(kv store.KeyValueStore, layout valueobjects.SlotLayout, logger *zap.Logger) ports.FloorRepository {
	return dynamodb.NewFloorRepository(kv, layout, logger)
}

func ProvideSlotRepository(kv store.KeyValueStore, logger *zap.Logger) ports.SlotRepository {
	return dynamodb.NewSlotRepository(kv, logger)
}

func ProvideOfficeRepository(kv store.KeyValueStore, logger *zap.Logger) ports.OfficeRepository {
	return dynamodb.NewOfficeRepository(kv, logger)
}

func ProvideUserRepository(kv store.KeyValueStore, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(kv, logger)
}

func ProvideVehicleRepository(kv store.KeyValueStore, logger *zap.Logger) ports.VehicleRepository {
	return dynamodb.NewVehicleRepository(kv, logger)
}

func ProvideParkingRepository(kv store.KeyValueStore, logger *zap.Logger) ports.ParkingRepository {
	return dynamodb.NewParkingRepository(kv, logger)
}

func ProvideBillingRepository(kv store.KeyValueStore, logger *zap.Logger) ports.BillingRepository {
	return dynamodb.NewBillingRepository(kv, logger)
}

var errNoSigningSecret = errors.New("JWT secret is not configured")

type unsignedIssuer struct{}

func (unsignedIssuer) Issue(*entities.User) (string, error) { return "", errNoSigningSecret }

// ProvideAdminTokenIssuer signs tokens when a secret is configured. Without one
// admin accounts can still be created but no token is minted.
func ProvideAdminTokenIssuer(cfg *config.Config) (ports.TokenIssuer, error) {
	if cfg.JWTSecret == "" {
		return unsignedIssuer{}, nil
	}
	return ProvideTokenService(cfg)
}

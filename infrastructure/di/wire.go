//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"parkwise/application/ports"
	"parkwise/application/services"
	"parkwise/infrastructure/config"
	"parkwise/pkg/auth"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideTracer,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideStore,
	ProvideSlotLayout,
	ProvideBuildingRepository,
	ProvideFloorRepository,
	ProvideSlotRepository,
	ProvideOfficeRepository,
	ProvideUserRepository,
	ProvideVehicleRepository,
	ProvideParkingRepository,
	ProvideBillingRepository,
	ProvidePasswordHasher,
	wire.Bind(new(ports.PasswordHasher), new(*auth.BcryptHasher)),
	ProvideTokenService,
	wire.Bind(new(ports.TokenIssuer), new(*auth.TokenService)),
	ProvideEventPublisher,
	ProvideCollector,
	ProvideMetricsRecorder,
	ProvideLoginLimiter,
	ProvideErrorHandler,
	ProvideReadinessCheck,
	services.NewAuthService,
	services.NewBuildingService,
	services.NewOfficeService,
	services.NewVehicleService,
	services.NewParkingService,
	services.NewBillingService,
	ProvideHandlers,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// AdminSet wires the provisioning services used by parkctl.
var AdminSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideTracer,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideStore,
	ProvideSlotLayout,
	ProvideBuildingRepository,
	ProvideFloorRepository,
	ProvideSlotRepository,
	ProvideOfficeRepository,
	ProvideUserRepository,
	ProvidePasswordHasher,
	wire.Bind(new(ports.PasswordHasher), new(*auth.BcryptHasher)),
	ProvideAdminTokenIssuer,
	ProvideEventPublisher,
	ProvideCollector,
	ProvideMetricsRecorder,
	services.NewAuthService,
	services.NewBuildingService,
	services.NewOfficeService,
	wire.Struct(new(AdminContainer), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}

// InitializeAdmin creates the container used by parkctl.
func InitializeAdmin(ctx context.Context, cfg *config.Config) (*AdminContainer, error) {
	wire.Build(AdminSet)
	return nil, nil
}

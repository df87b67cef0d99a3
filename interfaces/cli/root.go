// Package cli implements parkctl, the operator tool for provisioning a
// parkwise table.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/domain/core/entities"
	"parkwise/infrastructure/config"
	"parkwise/infrastructure/persistence/store"
)

// AdminAuth creates administrators and mints their tokens.
type AdminAuth interface {
	CreateAdmin(ctx context.Context, name, email, password, officeID string) (*entities.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
}

// BuildingAdmin provisions buildings and floors.
type BuildingAdmin interface {
	AddBuilding(ctx context.Context, req dto.AddBuildingRequest) (*dto.BuildingResponse, error)
	AddFloor(ctx context.Context, buildingID string, req dto.AddFloorRequest) (*dto.FloorResponse, error)
	GetBuildings(ctx context.Context) ([]dto.BuildingResponse, error)
	GetFloors(ctx context.Context, buildingID string) ([]dto.FloorResponse, error)
}

// OfficeAdmin provisions offices.
type OfficeAdmin interface {
	AddOffice(ctx context.Context, buildingID string, req dto.AddOfficeRequest) (*dto.OfficeResponse, error)
	GetOffices(ctx context.Context) ([]dto.OfficeResponse, error)
}

// Backend is everything a command may touch.
type Backend struct {
	Tables    store.TableAPI
	Auth      AdminAuth
	Buildings BuildingAdmin
	Offices   OfficeAdmin
	Logger    *zap.Logger
}

// BackendFactory builds a Backend for the resolved configuration.
type BackendFactory func(ctx context.Context, cfg *config.Config) (*Backend, error)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

const commandTimeout = 2 * time.Minute

type app struct {
	factory    BackendFactory
	viper      *viper.Viper
	configFile string
	jsonOutput bool
	out        io.Writer
	errOut     io.Writer
}

// NewRootCommand builds the parkctl command tree.
func NewRootCommand(factory BackendFactory) *cobra.Command {
	a := &app{factory: factory, viper: viper.New()}

	root := &cobra.Command{
		Use:   "parkctl",
		Short: "parkctl provisions parkwise buildings, offices and administrators",
		Long: `parkctl talks to the parkwise table directly and is meant for operators.

Configuration can be provided via:
  - Command-line flags (highest priority)
  - Environment variables (PARKCTL_TABLE_NAME, PARKCTL_REGION, PARKCTL_DYNAMODB_ENDPOINT, ...)
  - Config file (~/.parkctl/config.yaml or --config)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.out = cmd.OutOrStdout()
			a.errOut = cmd.ErrOrStderr()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ~/.parkctl/config.yaml)")
	flags.BoolVar(&a.jsonOutput, "json", false, "print raw JSON")
	flags.String("table", "", "table name")
	flags.String("region", "", "AWS region")
	flags.String("endpoint", "", "DynamoDB endpoint override, e.g. http://localhost:8000")
	_ = a.viper.BindPFlag(keyTableName, flags.Lookup("table"))
	_ = a.viper.BindPFlag(keyRegion, flags.Lookup("region"))
	_ = a.viper.BindPFlag(keyEndpoint, flags.Lookup("endpoint"))

	root.AddCommand(
		a.tableCommand(),
		a.buildingCommand(),
		a.floorCommand(),
		a.officeCommand(),
		a.adminCommand(),
	)
	return root
}

// backend resolves configuration and builds the backend for one command run.
func (a *app) backend(ctx context.Context) (*Backend, *config.Config, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	b, err := a.factory(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return b, cfg, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, commandTimeout)
}

// Output helpers

func (a *app) printSuccess(format string, args ...interface{}) {
	if a.jsonOutput {
		return
	}
	successColor.Fprintf(a.out, "✓ "+format+"\n", args...)
}

func (a *app) printWarn(format string, args ...interface{}) {
	warnColor.Fprintf(a.errOut, "⚠ "+format+"\n", args...)
}

func (a *app) printKeyValue(key string, value interface{}) {
	if a.jsonOutput {
		return
	}
	fmt.Fprintf(a.out, "  %-16s %v\n", key+":", value)
}

func (a *app) printHeader(format string, args ...interface{}) {
	infoColor.Fprintf(a.out, format+"\n", args...)
}

// printJSON writes v when --json is set and reports whether it did.
func (a *app) printJSON(v interface{}) (bool, error) {
	if !a.jsonOutput {
		return false, nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return true, err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return true, err
}

// PrintError renders a command failure for main.
func PrintError(w io.Writer, err error) {
	errorColor.Fprintf(w, "✗ %v\n", err)
}

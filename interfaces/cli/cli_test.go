package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parkwise/application/ports"
	"parkwise/application/services"
	"parkwise/domain/core/entities"
	"parkwise/domain/core/valueobjects"
	"parkwise/infrastructure/config"
	dynamorepo "parkwise/infrastructure/persistence/dynamodb"
	"parkwise/infrastructure/persistence/store"
	"parkwise/pkg/auth"
	"parkwise/pkg/observability"
)

type mockTables struct {
	mock.Mock
}

func (m *mockTables) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.DescribeTableOutput)
	return out, args.Error(1)
}

func (m *mockTables) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.CreateTableOutput)
	return out, args.Error(1)
}

type unsigned struct{}

func (unsigned) Issue(*entities.User) (string, error) { return "", assert.AnError }

func newMemoryBackend(t *testing.T, tokens bool) *Backend {
	t.Helper()
	logger := zap.NewNop()
	kv := store.NewMemoryStore()
	buildings := dynamorepo.NewBuildingRepository(kv, logger)
	floors := dynamorepo.NewFloorRepository(kv, valueobjects.MustSlotLayout(valueobjects.DefaultSlotLayout), logger)
	slots := dynamorepo.NewSlotRepository(kv, logger)
	offices := dynamorepo.NewOfficeRepository(kv, logger)
	users := dynamorepo.NewUserRepository(kv, logger)
	metrics := observability.NopRecorder{}

	var issuer ports.TokenIssuer = unsigned{}
	if tokens {
		ts, err := auth.NewTokenService(auth.TokenConfig{Secret: "cli-secret", TTL: time.Hour})
		require.NoError(t, err)
		issuer = ts
	}

	return &Backend{
		Auth:      services.NewAuthService(users, offices, auth.NewBcryptHasher(4), issuer, metrics, logger),
		Buildings: services.NewBuildingService(buildings, floors, slots, offices, nil, metrics, logger),
		Offices:   services.NewOfficeService(offices, buildings, floors, nil, metrics, logger),
		Logger:    logger,
	}
}

type harness struct {
	backend *Backend
	lastCfg *config.Config
}

func newHarness(t *testing.T, backend *Backend) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return &harness{backend: backend}
}

func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand(func(ctx context.Context, cfg *config.Config) (*Backend, error) {
		h.lastCfg = cfg
		return h.backend, nil
	})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestProvisioningFlow(t *testing.T) {
	h := newHarness(t, newMemoryBackend(t, true))

	out, _, err := h.run(t, "building", "add", "--name", "Tower A", "--json")
	require.NoError(t, err)
	var building struct {
		BuildingID string `json:"buildingId"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &building))
	require.NotEmpty(t, building.BuildingID)

	out, _, err = h.run(t, "floor", "add", "--building", building.BuildingID, "--number", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Floor 2 added")

	out, _, err = h.run(t, "office", "add", "--building", building.BuildingID, "--floor", "2", "--name", "Acme", "--json")
	require.NoError(t, err)
	var office struct {
		OfficeID string `json:"officeId"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &office))

	out, _, err = h.run(t, "floor", "list", "--building", building.BuildingID)
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")

	out, _, err = h.run(t, "building", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Tower A")

	out, _, err = h.run(t, "admin", "create", "--name", "root", "--email", "Root@Example.com",
		"--password", "administrator", "--office", office.OfficeID, "--json")
	require.NoError(t, err)
	var admin map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &admin))
	assert.Equal(t, "root@example.com", admin["email"])
	assert.NotEmpty(t, admin["jwt"])
}

func TestAdminCreate_WithoutSigningSecret(t *testing.T) {
	h := newHarness(t, newMemoryBackend(t, false))

	out, errOut, err := h.run(t, "admin", "create", "--name", "root", "--email", "root@example.com", "--password", "administrator")

	require.NoError(t, err)
	assert.Contains(t, out, "Administrator created")
	assert.NotContains(t, out, "Token")
	assert.Contains(t, errOut, "No token issued")
}

func TestCommands_ValidateBeforeTouchingTheTable(t *testing.T) {
	h := newHarness(t, nil)

	_, _, err := h.run(t, "admin", "create", "--name", "root", "--email", "not-an-email", "--password", "short")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
	assert.Nil(t, h.lastCfg, "backend must not be built for invalid input")
}

func TestCommands_DomainErrorsSurface(t *testing.T) {
	h := newHarness(t, newMemoryBackend(t, false))

	_, _, err := h.run(t, "floor", "add", "--building", "missing", "--number", "1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTableCreate_ExistingTable(t *testing.T) {
	tables := new(mockTables)
	tables.On("DescribeTable", mock.Anything, mock.MatchedBy(func(in *dynamodb.DescribeTableInput) bool {
		return *in.TableName == "from-file"
	})).Return(&dynamodb.DescribeTableOutput{}, nil)
	backend := newMemoryBackend(t, false)
	backend.Tables = tables
	h := newHarness(t, backend)

	cfgPath := filepath.Join(t.TempDir(), "parkctl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("table_name: from-file\nregion: eu-west-1\n"), 0o600))

	out, _, err := h.run(t, "--config", cfgPath, "table", "create")

	require.NoError(t, err)
	assert.Contains(t, out, "Table from-file already exists")
	assert.Equal(t, "eu-west-1", h.lastCfg.AWSRegion)
	tables.AssertExpectations(t)
	tables.AssertNotCalled(t, "CreateTable", mock.Anything, mock.Anything)
}

func TestTableCreate_NeedsTableClient(t *testing.T) {
	h := newHarness(t, newMemoryBackend(t, false))

	_, _, err := h.run(t, "table", "create")

	assert.Error(t, err)
}

func TestSettingsPrecedence(t *testing.T) {
	h := newHarness(t, newMemoryBackend(t, false))
	t.Setenv("PARKCTL_TABLE_NAME", "from-env")
	t.Setenv("PARKCTL_DYNAMODB_ENDPOINT", "http://localhost:8000")

	_, _, err := h.run(t, "office", "list")
	require.NoError(t, err)
	assert.Equal(t, "from-env", h.lastCfg.TableName)
	assert.Equal(t, "http://localhost:8000", h.lastCfg.DynamoDBEndpoint)
	assert.False(t, h.lastCfg.EnableMetrics)

	_, _, err = h.run(t, "--table", "from-flag", "office", "list")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", h.lastCfg.TableName)
}

func TestMissingConfigFileIsAnError(t *testing.T) {
	h := newHarness(t, newMemoryBackend(t, false))

	_, _, err := h.run(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "office", "list")

	assert.Error(t, err)
}

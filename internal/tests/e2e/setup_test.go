package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/storefront/internal/app"
	"github.com/you/storefront/internal/config"
	"github.com/you/storefront/internal/mocks"
	testconfig "github.com/you/storefront/internal/tests/config"
)

// TestSuite holds one isolated in-process deployment
type TestSuite struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *miniredis.Miniredis
	Sender    *mocks.MockNotificationSender
	Container *app.Container
	Server    *httptest.Server
}

// SetupTestSuite wires the real container against SQLite and miniredis and
// serves it over a local HTTP server
func SetupTestSuite(t *testing.T, overrides ...func(*config.ConfigFile)) *TestSuite {
	t.Helper()

	gin.SetMode(gin.TestMode)
	cfg := testconfig.LoadTestConfig(t, overrides...)

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	sender := mocks.NewMockNotificationSender()
	container := app.NewContainer(cfg, zerolog.Nop(),
		app.WithDatabase(db),
		app.WithRedis(client),
		app.WithSender(sender),
	)

	router, err := container.Router()
	require.NoError(t, err)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		_ = container.Close()
		mr.Close()
	})

	return &TestSuite{
		Config:    cfg,
		DB:        db,
		Redis:     mr,
		Sender:    sender,
		Container: container,
		Server:    server,
	}
}

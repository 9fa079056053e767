package server

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/podkidnoy/durak-server/internal/config"
	"github.com/podkidnoy/durak-server/internal/logger"
	"github.com/podkidnoy/durak-server/internal/monitor"
	"github.com/podkidnoy/durak-server/internal/network/server/storage"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

// a single monitor for the whole package; Prometheus collectors can only
// be registered once per process
var (
	testMonitorOnce sync.Once
	testMonitorInst *monitor.Monitor
)

func testMonitor() *monitor.Monitor {
	testMonitorOnce.Do(func() {
		testMonitorInst = monitor.NewMonitor("durak_test")
	})
	return testMonitorInst
}

// newTestServer wires a server against miniredis without listening.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := config.Default()
	s := &Server{
		config:         cfg,
		redis:          rdb,
		redisStore:     storage.NewRedisStore(rdb),
		leaderboard:    storage.NewLeaderboardManager(rdb),
		sessionManager: NewSessionManager(),
		monitor:        testMonitor(),
		clients:        make(map[string]*Client),
		rateLimiter:    NewRateLimiter(cfg.Security.ConnPerIPPerMinute, time.Minute),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MsgPerSecond),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}
	s.roomManager = NewRoomManager(s)
	s.handler = NewHandler(s)
	return s
}

// newTestClient seats a fake connection that only buffers frames.
func newTestClient(s *Server, id, name string) *Client {
	c := &Client{
		ID:     id,
		Name:   name,
		server: s,
		send:   make(chan []byte, 256),
	}
	s.registerClient(c)
	s.sessionManager.CreateSession(c.ID, c.Name)
	return c
}

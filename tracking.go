package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/metrics"
	"github.com/Zachkp/folio/internal/store"
)

// tracker records privacy-conscious page views: client addresses are salted
// and hashed before they reach the database, and DNT is honoured.
type tracker struct {
	store   *store.Store
	metrics *metrics.Metrics
	logger  *zap.Logger
	salt    string
	wg      sync.WaitGroup
}

func newTracker(st *store.Store, m *metrics.Metrics, logger *zap.Logger) *tracker {
	return &tracker{
		store:   st,
		metrics: m,
		logger:  logger,
		salt:    randomToken(),
	}
}

// randomToken returns 32 random bytes, hex encoded.
func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic("folio: read random bytes: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// hashIP is stable per address for the life of the process.
func (t *tracker) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + t.salt))
	return hex.EncodeToString(sum[:])[:16]
}

var untrackedPrefixes = []string{"/static/", "/admin", "/favicon", "/privacy", "/metrics", "/healthz", "/api/"}

func tracked(path string, method string) bool {
	if method != "GET" {
		return false
	}
	for _, p := range untrackedPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

// Privacy-conscious visitor tracking middleware
func (t *tracker) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !tracked(path, c.Request.Method) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		hashed := t.hashIP(c.ClientIP())
		ua := c.GetHeader("User-Agent")

		// Record in the background so the page is never slowed by SQLite.
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := t.store.RecordVisit(ctx, hashed, ua, path); err != nil {
				t.logger.Warn("error recording visitor", zap.Error(err))
				return
			}
			t.metrics.Visit()
		}()
		c.Next()
	}
}

// Wait blocks until in-flight visit inserts finish.
func (t *tracker) Wait() {
	t.wg.Wait()
}

// cleanup removes visits older than retention.
func (t *tracker) cleanup(ctx context.Context, retention time.Duration) {
	n, err := t.store.CleanupVisits(ctx, retention)
	if err != nil {
		t.logger.Error("error cleaning up old visitor data", zap.Error(err))
		return
	}
	if n > 0 {
		t.logger.Info("privacy cleanup removed old visitor records",
			zap.Int64("rows", n), zap.Duration("retention", retention))
	}
}

// retentionLoop runs cleanup at start and then daily until ctx is done.
func (t *tracker) retentionLoop(ctx context.Context, retention time.Duration) {
	t.cleanup(ctx, retention)
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.cleanup(ctx, retention)
		}
	}
}

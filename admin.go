// admin.go - privacy-conscious admin pages: visit stats and the contact inbox
package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/store"
)

const adminCookie = "admin_token"

type admin struct {
	username  string
	password  string
	token     string
	store     *store.Store
	tracker   *tracker
	retention time.Duration
	logger    *zap.Logger
	secure    bool
}

func newAdmin(cfg *config.Config, st *store.Store, t *tracker, logger *zap.Logger) (*admin, error) {
	if cfg.AdminPassword == "" {
		return nil, errors.New("admin: password not configured")
	}
	a := &admin{
		username:  cfg.AdminUsername,
		password:  cfg.AdminPassword,
		token:     randomToken(),
		store:     st,
		tracker:   t,
		retention: cfg.VisitorRetention,
		logger:    logger,
		secure:    cfg.Env == "prod",
	}
	logger.Info("Admin access available at: /admin/login")
	return a, nil
}

func equalConstantTime(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// clientRef identifies a client in logs without recording its address.
func (a *admin) clientRef(c *gin.Context) string {
	if a.tracker == nil {
		return "-"
	}
	return a.tracker.hashIP(c.ClientIP())
}

// Middleware to check admin authentication
func (a *admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !equalConstantTime(token, a.token) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Setup all admin routes
func (a *admin) routes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		userOK := equalConstantTime(c.PostForm("username"), a.username)
		passOK := equalConstantTime(c.PostForm("password"), a.password)
		if !userOK || !passOK {
			a.logger.Warn("failed admin login attempt", zap.String("client", a.clientRef(c)))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		// Session cookie for 24 hours
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, a.token, 3600*24, "/admin", "", a.secure, true)
		a.logger.Info("admin login successful", zap.String("client", a.clientRef(c)))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", a.secure, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	group := r.Group("/admin")
	group.Use(a.authMiddleware())

	group.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			a.logger.Error("error loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"title": "Admin",
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"title": "Admin Dashboard",
			"stats": stats,
		})
	})

	group.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	group.GET("/api/messages", func(c *gin.Context) {
		msgs, err := a.store.Messages(c.Request.Context(), 200)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, msgs)
	})

	group.DELETE("/messages/:id", func(c *gin.Context) {
		id := c.Param("id")
		err := a.store.DeleteMessage(c.Request.Context(), id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		case err != nil:
			a.logger.Error("error deleting message", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}
		a.logger.Info("message deleted by admin", zap.String("id", id), zap.String("client", a.clientRef(c)))
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
	})

	// Privacy compliance: purge visits past the retention window now
	group.POST("/privacy/cleanup", func(c *gin.Context) {
		if a.tracker == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Visitor tracking is disabled"})
			return
		}
		a.tracker.wg.Add(1)
		go func() {
			defer a.tracker.wg.Done()
			a.tracker.cleanup(context.Background(), a.retention)
		}()
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	// Admin statistics export (for backups or analysis)
	group.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		c.JSON(http.StatusOK, stats)
	})
}

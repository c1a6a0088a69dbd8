// Package web provides API routes for the web server.
package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/guru"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

type WarningReader interface {
	FindByCase(ctx context.Context, ref string) (*models.Warning, error)
	ListByPlayer(ctx context.Context, name string, page, perPage int) ([]models.Warning, int64, error)
}

type BanReader interface {
	FindActive(ctx context.Context, uuid string, now time.Time) (*models.ServerBan, error)
	ActiveUUIDs(ctx context.Context) ([]string, error)
}

type GuruReader interface {
	ListWeek(ctx context.Context, guildID string, weekStart time.Time) ([]models.GuruPerformance, error)
}

// API holds what the read-only endpoints serve from. Nil members leave
// their routes unregistered.
type API struct {
	GuildID  string
	Warnings WarningReader
	Bans     BanReader
	Guru     GuruReader
	Hub      *Hub
	Now      func() time.Time
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, a API) {
	if a.Now == nil {
		a.Now = time.Now
	}
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)

		if a.Warnings != nil {
			api.GET("/cases/warnings/:case", a.warningCaseHandler)
			api.GET("/players/:name/warnings", a.playerWarningsHandler)
		}
		if a.Bans != nil {
			api.GET("/players/:name/ban", a.playerBanHandler)
			api.GET("/bans/active", a.activeBansHandler)
		}
		if a.Guru != nil {
			api.GET("/guru/week", a.guruWeekHandler)
		}
		if a.Hub != nil {
			api.GET("/live", a.Hub.ServeLive)
		}
	}
}

// statusHandler returns the bot and database status
func statusHandler(c *gin.Context) {
	dbStatus, dbOnline := "disconnected", false
	if db := database.Get(); db != nil {
		dbStatus, dbOnline = db.GetStatus()
	}

	botOnline := false
	if client := discord.Get(); client != nil {
		botOnline = client.IsReady()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "NewLife Bot is running",
	})
}

// botInfoHandler returns information about the bot
func botInfoHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "The bot is not available right now.",
		})
		return
	}

	user := client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"avatar":   user.Avatar,
		"guilds":   client.GuildCount(),
		"isReady":  client.IsReady(),
	})
}

// respondErr maps store errors onto status codes.
func respondErr(c *gin.Context, err error) {
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "status": 404})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "status": 500})
}

func (a API) warningCaseHandler(c *gin.Context) {
	w, err := a.Warnings.FindByCase(c.Request.Context(), c.Param("case"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (a API) playerWarningsHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	list, total, err := a.Warnings.ListByPlayer(c.Request.Context(), c.Param("name"), page, 10)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warnings": list, "total": total, "page": page})
}

// playerBanHandler takes a uuid in the :name segment.
func (a API) playerBanHandler(c *gin.Context) {
	ban, err := a.Bans.FindActive(c.Request.Context(), c.Param("name"), a.Now())
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"banned": false})
		return
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banned": true, "ban": ban})
}

// activeBansHandler lists every uuid the proxy must refuse.
func (a API) activeBansHandler(c *gin.Context) {
	uuids, err := a.Bans.ActiveUUIDs(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uuids": uuids, "count": len(uuids)})
}

// guruWeekHandler serves the current week, or the previous one with
// ?week=last.
func (a API) guruWeekHandler(c *gin.Context) {
	start, end := guru.WeekBounds(a.Now())
	if c.Query("week") == "last" {
		start, end = guru.LastWeekBounds(a.Now())
	}
	records, err := a.Guru.ListWeek(c.Request.Context(), a.GuildID, start)
	if err != nil {
		respondErr(c, err)
		return
	}
	whitelists, claimed, diamonds := guru.Totals(records)
	c.JSON(http.StatusOK, gin.H{
		"weekStart":  start,
		"weekEnd":    end,
		"records":    records,
		"whitelists": whitelists,
		"claimed":    claimed,
		"diamonds":   diamonds,
	})
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/visit-point/api-go/models"
	"github.com/visit-point/api-go/services"
	"github.com/visit-point/api-go/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type LiveController struct {
	DB     *gorm.DB
	Hub    *services.LiveHub
	Points *services.PointsService
	Logger *zap.Logger
}

func NewLiveController(db *gorm.DB, hub *services.LiveHub, points *services.PointsService, logger *zap.Logger) *LiveController {
	return &LiveController{DB: db, Hub: hub, Points: points, Logger: logger}
}

// Subscribe handles GET /places/:placeId/live?token=...
//
// Browsers cannot set headers on websocket requests, so the bearer token
// rides in the query string. Authentication and the place lookup both happen
// before the upgrade; no subscription state exists for a rejected request.
func (lc *LiveController) Subscribe(c *gin.Context) {
	ctx := c.Request.Context()

	claims, err := utils.VerifyAccessToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	placeID, err := strconv.ParseUint(c.Param("placeId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place id"})
		return
	}

	var place models.Place
	err = lc.DB.WithContext(ctx).First(&place, uint(placeID)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch place"})
		return
	}

	summary, err := lc.Points.PlaceSummary(ctx, place.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		lc.Logger.Error("websocket upgrade failed",
			zap.Uint("place_id", place.ID), zap.Error(err))
		return
	}

	lc.Hub.Subscribe(place.ID, conn)
	lc.Logger.Info("live subscriber connected",
		zap.Uint("place_id", place.ID), zap.Uint("user_id", claims.UserID))

	defer func() {
		lc.Hub.Unsubscribe(conn)
		conn.Close()
		lc.Logger.Info("live subscriber disconnected",
			zap.Uint("place_id", place.ID), zap.Uint("user_id", claims.UserID))
	}()

	// Ack with the summary as of subscribe time. The hub serializes this
	// against any fan-out already in flight for the place.
	if err := lc.Hub.Push(conn, summary); err != nil {
		return
	}

	// Clients don't send anything; the read loop just detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				lc.Logger.Warn("websocket closed unexpectedly",
					zap.Uint("place_id", place.ID), zap.Error(err))
			}
			return
		}
	}
}

// Package api exposes the room operations over HTTP. Every mutation returns
// the room snapshot the operation produced, so clients that skip the
// websocket can still poll their way through a game.
package api

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/templegold/server/internal/game"
)

// Handler binds the game registry to HTTP routes.
type Handler struct {
	registry *game.Registry
	logger   *log.Logger
}

// NewHandler creates an API handler around a registry.
func NewHandler(registry *game.Registry, logger *log.Logger) *Handler {
	return &Handler{
		registry: registry,
		logger:   logger.WithPrefix("api"),
	}
}

// Register attaches all routes to the router.
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/health", h.health)

	rooms := router.Group("/api/rooms")
	{
		rooms.POST("", h.createRoom)
		rooms.POST("/join", h.joinRoom)
		rooms.POST("/start", h.startGame)
		rooms.POST("/decide", h.submitDecision)
		rooms.GET("/:code", h.getRoom)
	}
}

type createRoomRequest struct {
	PlayerName string `json:"playerName" binding:"required"`
	PlayerID   string `json:"playerId" binding:"required"`
}

type joinRoomRequest struct {
	RoomCode   string `json:"roomCode" binding:"required"`
	PlayerName string `json:"playerName" binding:"required"`
	PlayerID   string `json:"playerId" binding:"required"`
}

type startGameRequest struct {
	RoomCode string `json:"roomCode" binding:"required"`
	PlayerID string `json:"playerId" binding:"required"`
}

type decideRequest struct {
	RoomCode string `json:"roomCode" binding:"required"`
	PlayerID string `json:"playerId" binding:"required"`
	Decision string `json:"decision" binding:"required"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) createRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	snap, err := h.registry.CreateRoom(req.PlayerName, req.PlayerID)
	if err != nil {
		h.respondGameError(c, err)
		return
	}
	respondOK(c, snap)
}

func (h *Handler) joinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	snap, err := h.registry.JoinRoom(req.RoomCode, req.PlayerName, req.PlayerID)
	if err != nil {
		h.respondGameError(c, err)
		return
	}
	respondOK(c, snap)
}

func (h *Handler) startGame(c *gin.Context) {
	var req startGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	snap, err := h.registry.StartGame(req.RoomCode, req.PlayerID)
	if err != nil {
		h.respondGameError(c, err)
		return
	}
	respondOK(c, snap)
}

func (h *Handler) submitDecision(c *gin.Context) {
	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	snap, err := h.registry.SubmitDecision(req.RoomCode, req.PlayerID, game.Decision(req.Decision))
	if err != nil {
		h.respondGameError(c, err)
		return
	}
	respondOK(c, snap)
}

func (h *Handler) getRoom(c *gin.Context) {
	snap, err := h.registry.GetRoom(c.Param("code"))
	if err != nil {
		h.respondGameError(c, err)
		return
	}
	respondOK(c, snap)
}

func respondOK(c *gin.Context, snap *game.RoomSnapshot) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": snap})
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

// respondGameError maps the engine's sentinel errors to HTTP status codes.
func (h *Handler) respondGameError(c *gin.Context, err error) {
	respondError(c, statusFor(err), err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrEmptyName),
		errors.Is(err, game.ErrInvalidPlayerID),
		errors.Is(err, game.ErrInvalidDecision):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrRoomNotFound),
		errors.Is(err, game.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, game.ErrGameInProgress),
		errors.Is(err, game.ErrRoomFull),
		errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrRoundNotActive),
		errors.Is(err, game.ErrAlreadyLeft),
		errors.Is(err, game.ErrNoDecisionWindow),
		errors.Is(err, game.ErrAlreadyDecided):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

package handlers

import (
	"net/http"
	"strconv"

	"gamestore/middleware"
	"gamestore/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

func (h *GameHandler) GetGames(c *gin.Context) {
	var filter services.GameFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	games, err := h.gameService.GetGames(&filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, games)
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.CreateGame(userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, game)
}

// ApproveGame applies the admin verification decision. Denying returns the
// game to the unpublished, not-sent-for-verification state.
func (h *GameHandler) ApproveGame(c *gin.Context) {
	if !middleware.RequireAdmin(c) {
		return
	}

	gameID, err := strconv.ParseUint(c.Param("game_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	var req services.ApproveGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.gameService.ManageApproving(uint(gameID), *req.Approved); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gamestore/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const gameCacheTTL = 2 * time.Hour

type GameService struct {
	db       *gorm.DB
	redis    *redis.Client
	statuses *StatusService
	assets   *AssetService
}

func NewGameService(db *gorm.DB, redisClient *redis.Client, statuses *StatusService, assets *AssetService) *GameService {
	return &GameService{
		db:       db,
		redis:    redisClient,
		statuses: statuses,
		assets:   assets,
	}
}

type CreateGameRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
}

type GameFilter struct {
	Status  string `form:"status"`
	OwnerID uint   `form:"owner_id"`
}

type ApproveGameRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// CreateGame persists a new game behind the company-approval gate. The row is
// written inside a transaction and the asset directory is provisioned before
// commit: a failed mkdir rolls the row back, a failed commit removes the
// directory again, so a Game row never exists without its folder.
func (s *GameService) CreateGame(ownerID uint, req *CreateGameRequest) (*models.Game, error) {
	var company models.Company
	if err := s.db.Where("owner_id = ?", ownerID).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCompanyNotFound
		}
		return nil, err
	}

	if !company.IsApproved {
		return nil, models.ErrCompanyNotApproved
	}

	directory := uuid.NewString()
	game := models.Game{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		OwnerID:     ownerID,
		StatusID:    s.statuses.ID(models.StatusNotSend),
		Directory:   directory,
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if err := tx.Create(&game).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.assets.CreateGameDir(directory); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if rmErr := s.assets.RemoveGameDir(directory); rmErr != nil {
			slog.Error("failed to remove asset directory after commit failure",
				"directory", directory, "error", rmErr)
		}
		return nil, err
	}

	s.invalidateListCache()

	return s.GetGameByID(game.ID)
}

func (s *GameService) GetGames(filter *GameFilter) ([]models.Game, error) {
	if filter == nil || (filter.Status == "" && filter.OwnerID == 0) {
		if games, ok := s.cachedGameList(); ok {
			return games, nil
		}
	}

	query := s.db.Preload("Status").Preload("Owner")
	if filter != nil && filter.Status != "" {
		query = query.Where("status_id = ?", s.statuses.ID(filter.Status))
	}
	if filter != nil && filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}

	var games []models.Game
	if err := query.Find(&games).Error; err != nil {
		return nil, err
	}

	if filter == nil || (filter.Status == "" && filter.OwnerID == 0) {
		s.cacheGameList(games)
	}

	return games, nil
}

func (s *GameService) GetGameByID(gameID uint) (*models.Game, error) {
	if game, ok := s.cachedGame(gameID); ok {
		return game, nil
	}

	var game models.Game
	err := s.db.Preload("Status").Preload("Owner").First(&game, gameID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrGameNotFound
		}
		return nil, err
	}

	s.cacheGame(&game)
	return &game, nil
}

// ManageApproving applies an admin verification decision. Approval publishes
// the game; denial returns it to NOT_SEND, i.e. unpublished and not waiting
// for another review round.
func (s *GameService) ManageApproving(gameID uint, approved bool) error {
	target := models.StatusApproved
	if !approved {
		target = models.StatusNotSend
	}
	return s.setStatus(gameID, target)
}

// Unpublish resets a game's status after an asset upload: fresh binary
// content always invalidates a prior approval.
func (s *GameService) Unpublish(gameID uint) error {
	return s.setStatus(gameID, models.StatusUnpublished)
}

func (s *GameService) setStatus(gameID uint, statusTitle string) error {
	var game models.Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrGameNotFound
		}
		return err
	}

	err := s.db.Model(&game).Update("status_id", s.statuses.ID(statusTitle)).Error
	if err != nil {
		return err
	}

	s.invalidateGame(gameID)
	s.invalidateListCache()
	return nil
}

// Redis caching for single games and the unfiltered game list. The cache is
// best-effort: a nil client or a redis error falls through to the database.

func gameCacheKey(gameID uint) string {
	return fmt.Sprintf("game:%d", gameID)
}

func (s *GameService) cacheGame(game *models.Game) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(game)
	if err != nil {
		return
	}
	if err := s.redis.Set(context.Background(), gameCacheKey(game.ID), data, gameCacheTTL).Err(); err != nil {
		slog.Warn("failed to cache game", "game_id", game.ID, "error", err)
	}
}

func (s *GameService) cachedGame(gameID uint) (*models.Game, bool) {
	if s.redis == nil {
		return nil, false
	}
	data, err := s.redis.Get(context.Background(), gameCacheKey(gameID)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("failed to read game cache", "game_id", gameID, "error", err)
		}
		return nil, false
	}
	var game models.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, false
	}
	return &game, true
}

func (s *GameService) invalidateGame(gameID uint) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(context.Background(), gameCacheKey(gameID)).Err(); err != nil {
		slog.Warn("failed to invalidate game cache", "game_id", gameID, "error", err)
	}
}

func (s *GameService) cacheGameList(games []models.Game) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(games)
	if err != nil {
		return
	}
	if err := s.redis.Set(context.Background(), "games:all", data, gameCacheTTL).Err(); err != nil {
		slog.Warn("failed to cache game list", "error", err)
	}
}

func (s *GameService) cachedGameList() ([]models.Game, bool) {
	if s.redis == nil {
		return nil, false
	}
	data, err := s.redis.Get(context.Background(), "games:all").Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("failed to read game list cache", "error", err)
		}
		return nil, false
	}
	var games []models.Game
	if err := json.Unmarshal([]byte(data), &games); err != nil {
		return nil, false
	}
	return games, true
}

func (s *GameService) invalidateListCache() {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(context.Background(), "games:all").Err(); err != nil {
		slog.Warn("failed to invalidate game list cache", "error", err)
	}
}

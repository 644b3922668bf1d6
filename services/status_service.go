package services

import (
	"fmt"

	"gamestore/models"

	"gorm.io/gorm"
)

// StatusService holds the closed set of game verification statuses. The table
// is seeded on startup and loaded once into memory, so status lookups never
// cost a database round-trip.
type StatusService struct {
	byTitle map[string]uint
	byID    map[uint]string
}

func NewStatusService(db *gorm.DB) (*StatusService, error) {
	for _, title := range models.AllGameStatuses {
		status := models.GameStatus{Title: title}
		if err := db.Where("title = ?", title).FirstOrCreate(&status).Error; err != nil {
			return nil, fmt.Errorf("failed to seed game status %q: %w", title, err)
		}
	}

	var statuses []models.GameStatus
	if err := db.Find(&statuses).Error; err != nil {
		return nil, fmt.Errorf("failed to load game statuses: %w", err)
	}

	s := &StatusService{
		byTitle: make(map[string]uint, len(statuses)),
		byID:    make(map[uint]string, len(statuses)),
	}
	for _, status := range statuses {
		s.byTitle[status.Title] = status.ID
		s.byID[status.ID] = status.Title
	}

	return s, nil
}

// ID returns the row id for a status title. Titles outside the seeded set
// indicate a programming error, so the zero id is returned and callers relying
// on foreign keys will fail loudly.
func (s *StatusService) ID(title string) uint {
	return s.byTitle[title]
}

func (s *StatusService) Title(id uint) string {
	return s.byID[id]
}

// Known reports whether the title belongs to the seeded status set.
func (s *StatusService) Known(title string) bool {
	_, ok := s.byTitle[title]
	return ok
}

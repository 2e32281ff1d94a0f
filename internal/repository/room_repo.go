package repository

import (
	"github.com/flintchat/flint/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomRepository handles database operations for Room
type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// CreateIfAbsent inserts a room by name if it does not exist yet.
// Calling it twice with the same name leaves exactly one row.
func (r *RoomRepository) CreateIfAbsent(name string) (*model.Room, error) {
	room := model.Room{Name: name}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&room).Error
	if err != nil {
		return nil, err
	}
	// On conflict the insert assigns no ID; reload by name either way.
	if err := r.db.Where("name = ?", name).First(&room).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &room, nil
}

// List returns all room names, sorted
func (r *RoomRepository) List() ([]string, error) {
	var names []string
	err := r.db.Model(&model.Room{}).
		Order("name ASC").
		Pluck("name", &names).Error
	return names, err
}

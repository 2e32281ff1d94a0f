package repository

import (
	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRepository handles database operations for Message
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message
func (r *MessageRepository) Create(msg *model.Message) error {
	return r.db.Create(msg).Error
}

// FindByID finds a message by ID
func (r *MessageRepository) FindByID(id uuid.UUID) (*model.Message, error) {
	var msg model.Message
	if err := r.db.Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &msg, nil
}

// ScopeWindow returns the current message window for a scope in ascending
// timestamp order. limit > 0 bounds the window to the most recent N
// messages; limit <= 0 returns everything.
func (r *MessageRepository) ScopeWindow(scope string, limit int) ([]model.Message, error) {
	messages := []model.Message{}

	if limit > 0 {
		// Take the newest N, then flip to ascending.
		err := r.db.
			Where("scope = ?", scope).
			Order("created_at DESC").
			Limit(limit).
			Find(&messages).Error
		if err != nil {
			return nil, err
		}
		for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
			messages[i], messages[j] = messages[j], messages[i]
		}
		return messages, nil
	}

	err := r.db.
		Where("scope = ?", scope).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// Delete removes a message; deleting an absent row is not an error
func (r *MessageRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&model.Message{}).Error
}

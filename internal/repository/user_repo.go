package repository

import (
	"errors"
	"time"

	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository handles database operations for User
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by UUID
func (r *UserRepository) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

// FindByUsername finds a user by exact username
func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

// SearchUsers searches users by username (partial match)
func (r *UserRepository) SearchUsers(query string, excludeUserID uuid.UUID, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Where("username ILIKE ? AND id != ?", "%"+query+"%", excludeUserID).
		Limit(limit).
		Find(&users).Error
	return users, err
}

// ListOnline returns all users currently flagged online
func (r *UserRepository) ListOnline() ([]model.User, error) {
	var users []model.User
	err := r.db.Where("is_online = ?", true).Find(&users).Error
	return users, err
}

// UpdateOnlineStatus sets a user's online status and last seen time
func (r *UserRepository) UpdateOnlineStatus(id uuid.UUID, isOnline bool) error {
	updates := map[string]interface{}{
		"is_online": isOnline,
	}
	if !isOnline {
		updates["last_seen"] = gorm.Expr("NOW()")
	}
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(updates).Error
}

// UpdatePassword updates a user's password
func (r *UserRepository) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("password", hashedPassword).Error
}

// UpdateProfile updates user's username and/or avatar
func (r *UserRepository) UpdateProfile(userID uuid.UUID, username, avatar string) error {
	updates := map[string]interface{}{}
	if username != "" {
		updates["username"] = username
	}
	if avatar != "" {
		updates["avatar"] = avatar
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error
}

// UpdateLastRoom persists the user's last-selected room
func (r *UserRepository) UpdateLastRoom(userID uuid.UUID, room string) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_room", room).Error
}

// AddDevice adds or refreshes a device token
func (r *UserRepository) AddDevice(userID uuid.UUID, token string, deviceType string) error {
	device := model.UserDevice{
		UserID:       userID,
		FCMToken:     token,
		DeviceType:   deviceType,
		LastActiveAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "fcm_token"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_active_at": time.Now(),
			"device_type":    deviceType,
		}),
	}).Create(&device).Error
}

// GetUserDevices gets all devices for a user
func (r *UserRepository) GetUserDevices(userID uuid.UUID) ([]model.UserDevice, error) {
	var devices []model.UserDevice
	err := r.db.Where("user_id = ?", userID).Find(&devices).Error
	return devices, err
}

// mapNotFound converts gorm's record-not-found into the domain sentinel so
// callers never depend on the storage driver.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrNotFound
	}
	return err
}

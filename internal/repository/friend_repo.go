package repository

import (
	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRepository handles database operations for the relationship graph:
// friend requests, friendships and blocks.
type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// ========== Friend requests ==========

// CreateRequest inserts a new pending friend request. The partial unique
// index on pending (sender, recipient) pairs makes concurrent duplicate
// sends lose cleanly: the conflicting insert writes nothing and surfaces
// as ErrDuplicateRequest.
func (r *FriendRepository) CreateRequest(req *model.FriendRequest) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:     []clause.Column{{Name: "sender_id"}, {Name: "recipient_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Eq{Column: "status", Value: string(model.RequestStatusPending)}}},
		DoNothing:   true,
	}).Create(req).Error
	if err != nil {
		return err
	}
	// On conflict nothing is inserted and no ID comes back
	if req.ID == uuid.Nil {
		return model.ErrDuplicateRequest
	}
	return nil
}

// FindRequestByID finds a friend request by ID
func (r *FriendRepository) FindRequestByID(id uuid.UUID) (*model.FriendRequest, error) {
	var req model.FriendRequest
	if err := r.db.Preload("Sender").Where("id = ?", id).First(&req).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &req, nil
}

// FindPendingRequest finds the pending request for an ordered (sender, recipient) pair
func (r *FriendRepository) FindPendingRequest(senderID, recipientID uuid.UUID) (*model.FriendRequest, error) {
	var req model.FriendRequest
	err := r.db.
		Where("sender_id = ? AND recipient_id = ? AND status = ?",
			senderID, recipientID, model.RequestStatusPending).
		First(&req).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &req, nil
}

// PendingRequestsFor returns all pending requests addressed to a user
func (r *FriendRepository) PendingRequestsFor(recipientID uuid.UUID) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	err := r.db.
		Preload("Sender").
		Where("recipient_id = ? AND status = ?", recipientID, model.RequestStatusPending).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

// MarkRequestAccepted transitions a request from pending to accepted
func (r *FriendRepository) MarkRequestAccepted(id uuid.UUID) error {
	return r.db.Model(&model.FriendRequest{}).
		Where("id = ?", id).
		Update("status", model.RequestStatusAccepted).Error
}

// DeleteRequest removes a request; deleting an absent row is not an error
func (r *FriendRepository) DeleteRequest(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&model.FriendRequest{}).Error
}

// DeleteRequestsBetween removes pending requests in either direction between a pair
func (r *FriendRepository) DeleteRequestsBetween(a, b uuid.UUID) error {
	return r.db.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			a, b, b, a).
		Where("status = ?", model.RequestStatusPending).
		Delete(&model.FriendRequest{}).Error
}

// ========== Friendships ==========

// AddFriendship inserts one direction of a friend relation. Upsert on the
// (user, friend) pair so retrying a half-applied accept completes it.
func (r *FriendRepository) AddFriendship(userID, friendID uuid.UUID) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "friend_id"}},
		DoNothing: true,
	}).Create(&model.Friendship{UserID: userID, FriendID: friendID}).Error
}

// RemoveFriendship removes one direction of a friend relation
func (r *FriendRepository) RemoveFriendship(userID, friendID uuid.UUID) error {
	return r.db.
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&model.Friendship{}).Error
}

// FriendsOf returns the friend set of a user
func (r *FriendRepository) FriendsOf(userID uuid.UUID) ([]model.User, error) {
	var friends []model.User
	err := r.db.
		Table("users").
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", userID).
		Order("users.username ASC").
		Find(&friends).Error
	return friends, err
}

// AreFriends checks one direction of the friend relation
func (r *FriendRepository) AreFriends(userID, friendID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

// ========== Blocks ==========

// CreateBlock records a block; repeating it is a no-op
func (r *FriendRepository) CreateBlock(blockerID, blockedID uuid.UUID) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blocker_id"}, {Name: "blocked_id"}},
		DoNothing: true,
	}).Create(&model.Block{BlockerID: blockerID, BlockedID: blockedID}).Error
}

// DeleteBlock removes a block; idempotent
func (r *FriendRepository) DeleteBlock(blockerID, blockedID uuid.UUID) error {
	return r.db.
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.Block{}).Error
}

// BlocksOf returns the users blocked by blocker
func (r *FriendRepository) BlocksOf(blockerID uuid.UUID) ([]model.User, error) {
	var blocked []model.User
	err := r.db.
		Table("users").
		Joins("JOIN blocks ON blocks.blocked_id = users.id").
		Where("blocks.blocker_id = ?", blockerID).
		Order("users.username ASC").
		Find(&blocked).Error
	return blocked, err
}

// IsBlocked checks whether blocker has blocked blocked
func (r *FriendRepository) IsBlocked(blockerID, blockedID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, err
}

package service

import (
	"errors"
	"log"

	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
)

// FriendService maintains the relationship graph: friend requests, the
// symmetric friend relation, and blocks. Multi-write operations (accept,
// block) are sequential independent writes with no rollback; the inserts
// are idempotent so a retry after partial failure converges instead of
// erroring.
type FriendService struct {
	users  UserStore
	rels   RelationshipStore
	notify Notifier
}

func NewFriendService(users UserStore, rels RelationshipStore, notify Notifier) *FriendService {
	return &FriendService{users: users, rels: rels, notify: notify}
}

// SendFriendRequest resolves targetUsername and creates a pending request.
// Fire-and-forget relative to the recipient: success means the write
// landed, nothing more.
func (s *FriendService) SendFriendRequest(senderID uuid.UUID, targetUsername string) (*model.FriendRequest, error) {
	target, err := s.users.FindByUsername(targetUsername)
	if err != nil {
		return nil, err
	}
	if target.ID == senderID {
		return nil, model.ErrSelfReferential
	}

	if friends, err := s.rels.AreFriends(senderID, target.ID); err != nil {
		return nil, err
	} else if friends {
		return nil, model.ErrAlreadyFriends
	}

	// Blocked in either direction forbids a new request
	if blocked, err := s.rels.IsBlocked(senderID, target.ID); err != nil {
		return nil, err
	} else if blocked {
		return nil, model.ErrBlocked
	}
	if blocked, err := s.rels.IsBlocked(target.ID, senderID); err != nil {
		return nil, err
	} else if blocked {
		return nil, model.ErrBlocked
	}

	if _, err := s.rels.FindPendingRequest(senderID, target.ID); err == nil {
		return nil, model.ErrDuplicateRequest
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	req := &model.FriendRequest{
		SenderID:    senderID,
		RecipientID: target.ID,
		Status:      model.RequestStatusPending,
	}
	if err := s.rels.CreateRequest(req); err != nil {
		return nil, err
	}

	s.pushRequests(target.ID)
	return req, nil
}

// AcceptFriendRequest marks the request accepted and adds each party to the
// other's friend set. Two independent writes; a partial failure leaves a
// half-applied friendship that the next accept attempt completes.
func (s *FriendService) AcceptFriendRequest(userID, requestID uuid.UUID) error {
	req, err := s.rels.FindRequestByID(requestID)
	if err != nil {
		return err
	}
	if req.RecipientID != userID {
		return model.ErrForbidden
	}

	if err := s.rels.MarkRequestAccepted(req.ID); err != nil {
		return err
	}
	if err := s.rels.AddFriendship(req.RecipientID, req.SenderID); err != nil {
		return err
	}
	if err := s.rels.AddFriendship(req.SenderID, req.RecipientID); err != nil {
		return err
	}

	s.pushRequests(req.RecipientID)
	s.pushFriends(req.RecipientID)
	s.pushFriends(req.SenderID)
	return nil
}

// RejectFriendRequest deletes the request. Idempotent: rejecting a request
// that is already gone succeeds.
func (s *FriendService) RejectFriendRequest(userID, requestID uuid.UUID) error {
	req, err := s.rels.FindRequestByID(requestID)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if req.RecipientID != userID {
		return model.ErrForbidden
	}

	if err := s.rels.DeleteRequest(req.ID); err != nil {
		return err
	}
	s.pushRequests(userID)
	return nil
}

// BlockUser adds target to the actor's block set, severs the friendship on
// both sides, and deletes pending requests in either direction. Four
// related writes, no atomic guarantee; every write is idempotent.
func (s *FriendService) BlockUser(actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return model.ErrSelfReferential
	}
	if _, err := s.users.FindByID(targetID); err != nil {
		return err
	}

	if err := s.rels.CreateBlock(actorID, targetID); err != nil {
		return err
	}
	if err := s.rels.RemoveFriendship(actorID, targetID); err != nil {
		return err
	}
	if err := s.rels.RemoveFriendship(targetID, actorID); err != nil {
		return err
	}
	if err := s.rels.DeleteRequestsBetween(actorID, targetID); err != nil {
		return err
	}

	s.pushBlocks(actorID)
	s.pushFriends(actorID)
	s.pushFriends(targetID)
	s.pushRequests(actorID)
	s.pushRequests(targetID)
	return nil
}

// UnblockUser removes target from the actor's block set only. It does not
// restore any prior friendship. Idempotent.
func (s *FriendService) UnblockUser(actorID, targetID uuid.UUID) error {
	if err := s.rels.DeleteBlock(actorID, targetID); err != nil {
		return err
	}
	s.pushBlocks(actorID)
	return nil
}

// PendingRequests returns the incoming pending requests addressed to userID
func (s *FriendService) PendingRequests(userID uuid.UUID) ([]model.FriendRequest, error) {
	return s.rels.PendingRequestsFor(userID)
}

// Friends returns userID's friend set
func (s *FriendService) Friends(userID uuid.UUID) ([]model.UserResponse, error) {
	friends, err := s.rels.FriendsOf(userID)
	if err != nil {
		return nil, err
	}
	return toResponses(friends), nil
}

// Blocks returns the users blocked by userID
func (s *FriendService) Blocks(userID uuid.UUID) ([]model.UserResponse, error) {
	blocked, err := s.rels.BlocksOf(userID)
	if err != nil {
		return nil, err
	}
	return toResponses(blocked), nil
}

// ========== Live view pushes ==========

// Each mutation re-delivers the affected user's full view (snapshot, not a
// diff), mirroring how message subscriptions behave.

func (s *FriendService) pushRequests(userID uuid.UUID) {
	if s.notify == nil {
		return
	}
	reqs, err := s.rels.PendingRequestsFor(userID)
	if err != nil {
		log.Printf("Error loading pending requests for %s: %v", userID, err)
		return
	}
	s.notify.SendToUser(userID, &model.WSEvent{Type: model.WSEventFriendRequests, Payload: reqs})
}

func (s *FriendService) pushFriends(userID uuid.UUID) {
	if s.notify == nil {
		return
	}
	friends, err := s.Friends(userID)
	if err != nil {
		log.Printf("Error loading friends for %s: %v", userID, err)
		return
	}
	s.notify.SendToUser(userID, &model.WSEvent{Type: model.WSEventFriends, Payload: friends})
}

func (s *FriendService) pushBlocks(userID uuid.UUID) {
	if s.notify == nil {
		return
	}
	blocks, err := s.Blocks(userID)
	if err != nil {
		log.Printf("Error loading blocks for %s: %v", userID, err)
		return
	}
	s.notify.SendToUser(userID, &model.WSEvent{Type: model.WSEventBlocks, Payload: blocks})
}

func toResponses(users []model.User) []model.UserResponse {
	result := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, u.ToResponse())
	}
	return result
}

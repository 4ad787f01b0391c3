package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leon37/Hamhama/internal/infrastructure/events"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/policy"
	"github.com/leon37/Hamhama/internal/repository"
)

// SocialService 关注 / 拉黑 以及主页可见性
type SocialService struct {
	userRepo   repository.UserRepo
	socialRepo repository.SocialRepo
	publisher  events.Publisher
}

func NewSocialService(userRepo repository.UserRepo, socialRepo repository.SocialRepo, publisher events.Publisher) *SocialService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &SocialService{
		userRepo:   userRepo,
		socialRepo: socialRepo,
		publisher:  publisher,
	}
}

// Follow 关注。重复关注是幂等成功
func (s *SocialService) Follow(ctx context.Context, actor *model.Principal, targetID uint) error {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return err
	}
	// 1. 不能关注自己
	if actor.UserID == targetID {
		return fmt.Errorf("%w: cannot follow yourself", model.ErrInvalidOperation)
	}
	// 2. 目标必须存在
	if _, err := s.userRepo.FindByID(ctx, targetID); err != nil {
		return err
	}
	// 3. 被对方拉黑时不能关注
	blockedByTarget, err := s.socialRepo.IsBlocked(ctx, targetID, actor.UserID)
	if err != nil {
		return err
	}
	if blockedByTarget {
		return fmt.Errorf("%w: user %d has blocked you", model.ErrAccessDenied, targetID)
	}

	// 4. 写边
	if err := s.socialRepo.AddFollow(ctx, actor.UserID, targetID); err != nil {
		return err
	}
	slog.Info("user followed", "follower", actor.UserID, "target", targetID)
	s.publish(ctx, events.UserFollowed, actor.UserID, targetID)
	return nil
}

// Unfollow 取消关注。边不存在时什么也不做
func (s *SocialService) Unfollow(ctx context.Context, actor *model.Principal, targetID uint) error {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return err
	}
	if err := s.socialRepo.RemoveFollow(ctx, actor.UserID, targetID); err != nil {
		return err
	}
	s.publish(ctx, events.UserUnfollowed, actor.UserID, targetID)
	return nil
}

// Block 拉黑并切断双向关注。重复拉黑返回 ErrAlreadyBlocked
func (s *SocialService) Block(ctx context.Context, actor *model.Principal, targetID uint) error {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.UserID == targetID {
		return fmt.Errorf("%w: cannot block yourself", model.ErrInvalidOperation)
	}
	if _, err := s.userRepo.FindByID(ctx, targetID); err != nil {
		return err
	}

	already, err := s.socialRepo.IsBlocked(ctx, actor.UserID, targetID)
	if err != nil {
		return err
	}
	if already {
		return fmt.Errorf("%w: user %d", model.ErrAlreadyBlocked, targetID)
	}

	// 拉黑边和两条关注边的删除在同一事务里
	if err := s.socialRepo.BlockAndSever(ctx, actor.UserID, targetID); err != nil {
		return err
	}
	slog.Info("user blocked", "user", actor.UserID, "target", targetID)
	s.publish(ctx, events.UserBlocked, actor.UserID, targetID)
	return nil
}

// Unblock 解除拉黑，不恢复之前被切断的关注
func (s *SocialService) Unblock(ctx context.Context, actor *model.Principal, targetID uint) error {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return err
	}
	if _, err := s.userRepo.FindByID(ctx, targetID); err != nil {
		return err
	}

	removed, err := s.socialRepo.RemoveBlock(ctx, actor.UserID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: user %d", model.ErrNotBlocked, targetID)
	}
	slog.Info("user unblocked", "user", actor.UserID, "target", targetID)
	s.publish(ctx, events.UserUnblocked, actor.UserID, targetID)
	return nil
}

// GetFollowers 粉丝列表，受主页可见性约束
func (s *SocialService) GetFollowers(ctx context.Context, actor *model.Principal, userID uint) ([]model.UserSummary, error) {
	if err := s.requireVisible(ctx, actor, userID); err != nil {
		return nil, err
	}
	return s.socialRepo.Followers(ctx, userID)
}

// GetFollowing 关注列表，受主页可见性约束
func (s *SocialService) GetFollowing(ctx context.Context, actor *model.Principal, userID uint) ([]model.UserSummary, error) {
	if err := s.requireVisible(ctx, actor, userID); err != nil {
		return nil, err
	}
	return s.socialRepo.Following(ctx, userID)
}

// GetBlockedUsers 黑名单，仅本人或管理员
func (s *SocialService) GetBlockedUsers(ctx context.Context, actor *model.Principal, ownerID uint) ([]model.UserSummary, error) {
	if err := policy.RequireSelfOrRole(actor, ownerID, model.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.socialRepo.BlockedUsers(ctx, ownerID)
}

// IsProfileAccessible 判断 viewer (nil 为匿名) 能否查看 ownerID 的主页
func (s *SocialService) IsProfileAccessible(ctx context.Context, ownerID uint, viewer *model.Principal) (bool, error) {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return s.canView(ctx, owner, viewer)
}

func (s *SocialService) canView(ctx context.Context, owner *model.User, viewer *model.Principal) (bool, error) {
	view := policy.ProfileView{
		OwnerID:      owner.ID,
		OwnerPrivate: owner.IsPrivate,
		Viewer:       viewer,
	}
	// 只有私密主页 + 非本人时才需要查关注边
	if owner.IsPrivate && viewer != nil && viewer.UserID != owner.ID {
		follows, err := s.socialRepo.IsFollowing(ctx, viewer.UserID, owner.ID)
		if err != nil {
			return false, err
		}
		view.ViewerFollowsOwner = follows
	}
	return policy.CanViewProfile(view), nil
}

func (s *SocialService) requireVisible(ctx context.Context, actor *model.Principal, userID uint) error {
	ok, err := s.IsProfileAccessible(ctx, userID, actor)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: profile of user %d is private", model.ErrAccessDenied, userID)
	}
	return nil
}

// publish 事件是尽力而为的，失败只记日志
func (s *SocialService) publish(ctx context.Context, eventType string, actorID, targetID uint) {
	event := events.SocialEvent{Type: eventType, ActorID: actorID, TargetID: targetID, At: time.Now().UTC()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("publish social event failed", "type", eventType, "err", err)
	}
}

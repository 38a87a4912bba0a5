package service

import (
	"Zuno/internal/model"
	"Zuno/internal/repository"
	"context"
	"time"
)

// Viewer 当前请求者，ID 为 0 表示匿名
type Viewer struct {
	ID   uint64
	Role string
}

func (v Viewer) IsAnonymous() bool {
	return v.ID == 0
}

func (v Viewer) IsAdmin() bool {
	return v.Role == model.RoleAdmin
}

func (v Viewer) IsStaff() bool {
	return v.Role == model.RoleModerator || v.Role == model.RoleAdmin
}

// checkVisible 单条内容的可见性
// 未发布、未审核、已过期仅作者与审核员可见；private 需作者、粉丝或管理员；community 需登录
func checkVisible(ctx context.Context, follows repository.UserFollowRepo, viewer Viewer, c *model.Content) error {
	if !viewer.IsAnonymous() && viewer.ID == c.CreatorID {
		return nil
	}

	if c.Status != model.ContentStatusPublished || !c.IsApproved {
		if viewer.IsStaff() {
			return nil
		}
		return ErrContentNotFound
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(time.Now()) && !viewer.IsStaff() {
		return ErrContentNotFound
	}

	switch c.Visibility {
	case model.VisibilityPrivate:
		if viewer.IsAdmin() {
			return nil
		}
		if viewer.IsAnonymous() {
			return ErrPrivateContent
		}
		follow, err := follows.GetUserFollow(ctx, viewer.ID, c.CreatorID)
		if err != nil {
			return err
		}
		if follow == nil {
			return ErrPrivateContent
		}
	case model.VisibilityCommunity:
		if viewer.IsAnonymous() {
			return ErrUnauthorized
		}
	}
	return nil
}

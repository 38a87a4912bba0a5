package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/mongo"
	"Zuno/internal/pkg/util"
	"Zuno/internal/repository"
	"context"
	"errors"
	"time"
)

type SysBoxService interface {
	Notify(ctx context.Context, msg *mongo.SysBoxModel) error
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.SysBoxDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
}

type sysBoxServiceImpl struct {
	sysBoxRepo mongo.SysBoxRepo
	userRepo   repository.UserRepo
}

func NewSysBoxService(sysBox mongo.SysBoxRepo, user repository.UserRepo) SysBoxService {
	return &sysBoxServiceImpl{
		sysBoxRepo: sysBox,
		userRepo:   user,
	}
}

// Notify 写入一条通知，自己触发的事件不通知自己
func (s *sysBoxServiceImpl) Notify(ctx context.Context, msg *mongo.SysBoxModel) error {
	if msg.ReceiverID == 0 || msg.ReceiverID == msg.SenderID {
		return nil
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	return s.sysBoxRepo.CreateNotification(ctx, msg)
}

// GetNotificationList 获取通知列表并补全用户信息
func (s *sysBoxServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.SysBoxDTO, error) {
	_, limit, offset := util.Page(page, pageSize, 20, 100)

	list, err := s.sysBoxRepo.GetNotificationList(ctx, userID, int64(limit), int64(offset))
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint64, 0, len(list))
	for _, m := range list {
		if m.SenderID > 0 {
			senderIDs = append(senderIDs, m.SenderID)
		}
	}
	senders, err := s.userRepo.GetUserByIds(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.User, len(senders))
	for _, u := range senders {
		byID[u.ID] = u
	}

	res := make([]*dto.SysBoxDTO, 0, len(list))
	for _, m := range list {
		d := &dto.SysBoxDTO{
			ID:        m.ID.Hex(),
			SenderID:  m.SenderID,
			Type:      m.Type,
			TargetID:  m.TargetID,
			Content:   m.Content,
			Payload:   m.Payload,
			IsRead:    m.IsRead,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		}

		// SenderID 为 0 代表系统发送
		if u, ok := byID[m.SenderID]; ok {
			d.SenderName = u.DisplayName
			if d.SenderName == "" {
				d.SenderName = u.Username
			}
			d.AvatarURL = u.AvatarURL
		} else if m.SenderID == 0 {
			d.SenderName = "ZUNO"
		}
		res = append(res, d)
	}
	return res, nil
}

// GetUnreadCount 获取未读数
func (s *sysBoxServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error) {
	count, err := s.sysBoxRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.SysBoxUnreadDTO{UnreadCount: count}, nil
}

// MarkRead 标记单条已读
func (s *sysBoxServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	err := s.sysBoxRepo.MarkAsRead(ctx, userID, msgID)
	if errors.Is(err, mongo.ErrNotificationNotFound) {
		return ErrSysBoxNotFound
	}
	return err
}

// MarkAllRead 一键已读
func (s *sysBoxServiceImpl) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	return s.sysBoxRepo.MarkAllAsRead(ctx, userID)
}

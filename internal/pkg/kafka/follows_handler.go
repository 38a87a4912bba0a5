package kafka

import (
	"Zuno/internal/pkg/consts"
	"Zuno/internal/pkg/mongo"
	"Zuno/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// FollowsHandler user_follows 与 follow_requests 共用一个 topic
type FollowsHandler struct {
	userRepo repository.UserRepo
	notifier Notifier
}

func NewFollowsHandler(userRepo repository.UserRepo, notifier Notifier) *FollowsHandler {
	return &FollowsHandler{userRepo: userRepo, notifier: notifier}
}

func (s *FollowsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("follows consumer setup")
	return nil
}

func (s *FollowsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("follows consumer cleanup")
	return nil
}

func (s *FollowsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-follows consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-follows process batch error", "err", err)
		return err
	}
	log.Info("topic-follows consume claim end")
	return nil
}

func (s *FollowsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "user_follows", "follow_requests")
	if err != nil || canalMsg.Type != INSERT {
		return nil
	}

	for _, row := range canalMsg.Data {
		var n *mongo.SysBoxModel
		if canalMsg.Table == "follow_requests" {
			n, err = s.requestNotice(row)
		} else {
			n, err = s.followNotice(ctx, row)
		}
		if err != nil {
			return err
		}
		if n == nil {
			continue
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (s *FollowsHandler) requestNotice(row map[string]interface{}) (*mongo.SysBoxModel, error) {
	requesterID := StrToUint64(row["requester_id"])
	return &mongo.SysBoxModel{
		ReceiverID: StrToUint64(row["target_id"]),
		SenderID:   requesterID,
		Type:       consts.SysBoxTypeFollowRequest,
		TargetID:   requesterID,
		Content:    "requested to follow you",
	}, nil
}

// followNotice 私密账号的关注边只能由接受申请产生，此时通知申请者
func (s *FollowsHandler) followNotice(ctx context.Context, row map[string]interface{}) (*mongo.SysBoxModel, error) {
	followerID := StrToUint64(row["follower_id"])
	followingID := StrToUint64(row["following_id"])

	target, err := s.userRepo.GetUserById(ctx, followingID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, nil
	}

	if target.IsPrivate {
		return &mongo.SysBoxModel{
			ReceiverID: followerID,
			SenderID:   followingID,
			Type:       consts.SysBoxTypeRequestAccepted,
			TargetID:   followingID,
			Content:    "accepted your follow request",
		}, nil
	}
	return &mongo.SysBoxModel{
		ReceiverID: followingID,
		SenderID:   followerID,
		Type:       consts.SysBoxTypeFollow,
		TargetID:   followerID,
		Content:    "started following you",
	}, nil
}

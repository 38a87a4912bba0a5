package kafka

import (
	"Zuno/internal/model"
	"Zuno/internal/pkg/consts"
	"Zuno/internal/pkg/es"
	"Zuno/internal/pkg/mongo"
	"Zuno/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ContentsHandler contents 表变更：同步搜索索引，下架时通知作者
type ContentsHandler struct {
	contentRepo repository.ContentRepo
	searcher    es.ContentRepo
	notifier    Notifier
}

// NewContentsHandler searcher 为 nil 时只处理通知
func NewContentsHandler(contentRepo repository.ContentRepo, searcher es.ContentRepo, notifier Notifier) *ContentsHandler {
	return &ContentsHandler{contentRepo: contentRepo, searcher: searcher, notifier: notifier}
}

func (s *ContentsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("contents consumer setup")
	return nil
}

func (s *ContentsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("contents consumer cleanup")
	return nil
}

func (s *ContentsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-contents consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-contents process batch error", "err", err)
		return err
	}
	log.Info("topic-contents consume claim end")
	return nil
}

func (s *ContentsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "contents")
	if err != nil {
		return nil
	}

	for i, row := range canalMsg.Data {
		id := StrToUint64(row["id"])
		if id == 0 {
			continue
		}

		if canalMsg.Type == DELETE {
			if err := s.deleteIndex(ctx, id); err != nil {
				return err
			}
			continue
		}

		// 以数据库当前状态为准，话题与作者信息不在 contents 行内
		content, err := s.contentRepo.GetContentById(ctx, id)
		if err != nil {
			return err
		}
		if content == nil {
			if err := s.deleteIndex(ctx, id); err != nil {
				return err
			}
			continue
		}

		if s.searcher != nil {
			if err := s.searcher.IndexContent(ctx, toContentES(content), canalMsg.TS); err != nil {
				return err
			}
		}

		if canalMsg.Changed(i, "status") && StrToString(row["status"]) == model.ContentStatusRemoved {
			err = s.notifier.Notify(ctx, &mongo.SysBoxModel{
				ReceiverID: content.CreatorID,
				Type:       consts.SysBoxTypeModeration,
				TargetID:   content.ID,
				Content:    "Your content was removed after review",
				Payload:    map[string]any{"title": content.Title},
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ContentsHandler) deleteIndex(ctx context.Context, id uint64) error {
	if s.searcher == nil {
		return nil
	}
	return s.searcher.DeleteContent(ctx, id)
}

func toContentES(c *model.Content) *es.ContentES {
	topics := make([]string, 0, len(c.Topics))
	for _, t := range c.Topics {
		topics = append(topics, t.Topic)
	}
	name := c.Creator.DisplayName
	if name == "" {
		name = c.Creator.Username
	}
	return &es.ContentES{
		ID:            c.ID,
		CreatorID:     c.CreatorID,
		CreatorName:   name,
		CreatorAvatar: c.Creator.AvatarURL,
		ContentType:   c.ContentType,
		Purpose:       c.Purpose,
		Topics:        topics,
		Title:         c.Title,
		Body:          c.Body,
		Visibility:    c.Visibility,
		Status:        c.Status,
		IsApproved:    c.IsApproved,
		QualityScore:  c.QualityScore,
		ExpiresAt:     c.ExpiresAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

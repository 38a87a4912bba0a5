package kafka

import (
	"Zuno/internal/model"
	"Zuno/internal/pkg/consts"
	"Zuno/internal/pkg/mongo"
	"Zuno/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// InteractionsHandler 有人标记 helpful 时通知作者
type InteractionsHandler struct {
	contentRepo repository.ContentRepo
	notifier    Notifier
}

func NewInteractionsHandler(contentRepo repository.ContentRepo, notifier Notifier) *InteractionsHandler {
	return &InteractionsHandler{contentRepo: contentRepo, notifier: notifier}
}

func (s *InteractionsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("interactions consumer setup")
	return nil
}

func (s *InteractionsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("interactions consumer cleanup")
	return nil
}

func (s *InteractionsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-interactions consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-interactions process batch error", "err", err)
		return err
	}
	log.Info("topic-interactions consume claim end")
	return nil
}

func (s *InteractionsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "interactions")
	if err != nil {
		return nil
	}

	for i, row := range canalMsg.Data {
		if StrToString(row["type"]) != model.InteractionHelpful {
			continue
		}
		// 新增或由 not-useful 翻转为 helpful
		if canalMsg.Type != INSERT && !(canalMsg.Type == UPDATE && canalMsg.Changed(i, "type")) {
			continue
		}

		content, err := s.contentRepo.GetContentById(ctx, StrToUint64(row["content_id"]))
		if err != nil {
			return err
		}
		if content == nil {
			continue
		}

		err = s.notifier.Notify(ctx, &mongo.SysBoxModel{
			ReceiverID: content.CreatorID,
			SenderID:   StrToUint64(row["user_id"]),
			Type:       consts.SysBoxTypeHelpful,
			TargetID:   content.ID,
			Content:    "found your content helpful",
			Payload:    map[string]any{"title": content.Title},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

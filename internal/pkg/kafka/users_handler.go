package kafka

import (
	"Zuno/internal/pkg/es"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// UsersHandler 作者资料变化时刷新索引中的冗余字段
type UsersHandler struct {
	searcher es.ContentRepo
}

func NewUsersHandler(searcher es.ContentRepo) *UsersHandler {
	return &UsersHandler{searcher: searcher}
}

func (s *UsersHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("users consumer setup")
	return nil
}

func (s *UsersHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("users consumer cleanup")
	return nil
}

func (s *UsersHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-users consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-users process batch error", "err", err)
		return err
	}
	log.Info("topic-users consume claim end")
	return nil
}

func (s *UsersHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "users")
	if err != nil || canalMsg.Type != UPDATE {
		return nil
	}

	for i, row := range canalMsg.Data {
		if !canalMsg.Changed(i, "display_name") && !canalMsg.Changed(i, "avatar_url") && !canalMsg.Changed(i, "username") {
			continue
		}
		name := StrToString(row["display_name"])
		if name == "" {
			name = StrToString(row["username"])
		}
		err := s.searcher.UpdateCreatorDetail(ctx, StrToUint64(row["id"]), name, StrToString(row["avatar_url"]))
		if err != nil {
			return err
		}
	}
	return nil
}

package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/mongo"
	"Zuno/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"sync"
	"time"
)

const (
	MsgTypeText  = 1
	MsgTypeImage = 2
	MsgTypeShare = 3
)

const maxIMPageSize = 100

// IMService 私信服务，客户端轮询拉取
type IMService interface {
	SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	GetOrCreateConversation(ctx context.Context, userID, targetUserID uint64) (uint64, error)
	GetChatHistory(ctx context.Context, userID uint64, convID uint64, lastSeq uint64, pageSize int) ([]*dto.MessageDTO, error)
	SyncMessages(ctx context.Context, userID uint64, convID uint64, lastSeq uint64, pageSize int) ([]*dto.MessageDTO, error)
	GetConversationList(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error)
	GetTotalUnread(ctx context.Context, userID uint64) (int64, error)
	MarkAsRead(ctx context.Context, userID uint64, convID uint64, seq uint64) error
	Close()
}

type imServiceImpl struct {
	convRepo    repository.ConversationRepo
	userRepo    repository.UserRepo
	messageRepo mongo.MessageRepo
	retryChan   chan *mongo.Message
	wg          sync.WaitGroup
	stopChan    chan struct{}
	closeOnce   sync.Once
}

// NewIMService 初始化服务并启动消息补写工作池
func NewIMService(convRepo repository.ConversationRepo, userRepo repository.UserRepo, messageRepo mongo.MessageRepo) IMService {
	s := &imServiceImpl{
		convRepo:    convRepo,
		userRepo:    userRepo,
		messageRepo: messageRepo,
		retryChan:   make(chan *mongo.Message, 2048),
		stopChan:    make(chan struct{}),
	}

	workerCount := 3
	s.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go s.calibrationWorker()
	}
	return s
}

// SendMessage 发送消息，序号由 MySQL 会话表分配
func (s *imServiceImpl) SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	switch req.MsgType {
	case MsgTypeImage:
		if req.MediaURL == "" {
			return nil, fmt.Errorf("%w: media_url is required for image messages", ErrParamInvalid)
		}
	case MsgTypeShare:
		if req.ContentID == 0 {
			return nil, fmt.Errorf("%w: content_id is required for share messages", ErrParamInvalid)
		}
	}

	convID := req.ConversationID
	if convID == 0 {
		if req.TargetUserID == 0 {
			return nil, fmt.Errorf("%w: target_user_id is required for new conversation", ErrParamInvalid)
		}
		id, err := s.GetOrCreateConversation(ctx, senderID, req.TargetUserID)
		if err != nil {
			return nil, err
		}
		convID = id
	} else {
		isMember, err := s.convRepo.IsMember(ctx, convID, senderID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, ErrConversation
		}
	}

	newSeq, err := s.convRepo.IncrMaxSeq(ctx, convID, preview(req), int8(req.MsgType), senderID)
	if err != nil {
		return nil, err
	}

	msg := &mongo.Message{
		ConversationID: convID,
		SenderID:       senderID,
		MsgType:        req.MsgType,
		Content:        req.Content,
		Seq:            newSeq,
		CreatedAt:      time.Now(),
	}
	if req.MediaURL != "" || req.ContentID != 0 {
		msg.Payload = []mongo.Payload{{MediaURL: req.MediaURL, ContentID: req.ContentID}}
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err = s.messageRepo.SaveMessage(writeCtx, msg); err != nil {
		log.WarnContext(ctx, "failed to save message, queued for retry", "conv_id", convID, "seq", newSeq, "err", err)
		select {
		case s.retryChan <- msg:
		default:
			log.ErrorContext(ctx, "message retry queue is full, message dropped", "conv_id", convID, "seq", newSeq)
		}
	}

	return toMessageDTO(msg), nil
}

// GetOrCreateConversation 单聊会话按 PeerKey 唯一
func (s *imServiceImpl) GetOrCreateConversation(ctx context.Context, userID, targetUserID uint64) (uint64, error) {
	if userID == targetUserID {
		return 0, ErrMessageSelf
	}
	target, err := s.userRepo.GetUserById(ctx, targetUserID)
	if err != nil {
		return 0, err
	}
	if target == nil || !target.IsActive {
		return 0, ErrUserNotFound
	}

	key := peerKey(userID, targetUserID)
	conv, err := s.convRepo.GetConversationByPeerKey(ctx, key)
	if err != nil {
		return 0, err
	}
	if conv != nil {
		return conv.ID, nil
	}

	newConv := &model.Conversation{
		PeerKey:       key,
		LastMessageAt: time.Now(),
	}
	if err = s.convRepo.CreateConversation(ctx, newConv, []uint64{userID, targetUserID}); err != nil {
		if !isDuplicateError(err) {
			return 0, err
		}
		conv, err = s.convRepo.GetConversationByPeerKey(ctx, key)
		if err != nil {
			return 0, err
		}
		if conv == nil {
			return 0, ErrConversation
		}
		return conv.ID, nil
	}
	return newConv.ID, nil
}

// GetChatHistory 向前翻页，lastSeq 为 0 时从最新开始；消息尚未落库时用会话摘要补位
func (s *imServiceImpl) GetChatHistory(ctx context.Context, userID uint64, convID uint64, lastSeq uint64, pageSize int) ([]*dto.MessageDTO, error) {
	if err := s.checkMember(ctx, convID, userID); err != nil {
		return nil, err
	}

	models, err := s.messageRepo.GetHistory(ctx, convID, lastSeq, clampPageSize(pageSize))
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(models)+1)
	if lastSeq == 0 {
		conv, err := s.convRepo.GetConversation(ctx, convID)
		if err == nil && conv != nil {
			hasGap := (len(models) == 0 && conv.MaxMsgSeq > 0) || (len(models) > 0 && models[0].Seq < conv.MaxMsgSeq)
			if hasGap {
				res = append(res, &dto.MessageDTO{
					ConversationID: conv.ID,
					Content:        conv.LastMsgContent,
					MsgType:        int(conv.LastMsgType),
					SenderID:       conv.LastSenderID,
					Seq:            conv.MaxMsgSeq,
					CreatedAt:      conv.LastMessageAt,
				})
			}
		}
	}
	for _, m := range models {
		res = append(res, toMessageDTO(m))
	}
	return res, nil
}

// SyncMessages 轮询 lastSeq 之后的新消息
func (s *imServiceImpl) SyncMessages(ctx context.Context, userID uint64, convID uint64, lastSeq uint64, pageSize int) ([]*dto.MessageDTO, error) {
	if err := s.checkMember(ctx, convID, userID); err != nil {
		return nil, err
	}

	models, err := s.messageRepo.GetAfter(ctx, convID, lastSeq, clampPageSize(pageSize))
	if err != nil {
		return nil, err
	}
	res := make([]*dto.MessageDTO, 0, len(models))
	for _, m := range models {
		res = append(res, toMessageDTO(m))
	}
	return res, nil
}

// GetConversationList 获取会话列表
func (s *imServiceImpl) GetConversationList(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error) {
	members, err := s.convRepo.GetUserConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	peerIDs := make([]uint64, 0, len(members))
	for _, m := range members {
		if peerID, err := parsePeerID(m.Conversation.PeerKey, userID); err == nil {
			peerIDs = append(peerIDs, peerID)
		}
	}
	peers, err := s.userRepo.GetUserByIds(ctx, peerIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.User, len(peers))
	for _, u := range peers {
		byID[u.ID] = u
	}

	res := make([]*dto.ConversationDTO, 0, len(members))
	for _, m := range members {
		d := &dto.ConversationDTO{
			ConversationID: m.ConversationID,
			LastMsgContent: m.Conversation.LastMsgContent,
			LastMsgType:    m.Conversation.LastMsgType,
			LastSenderID:   m.Conversation.LastSenderID,
			LastMessageAt:  m.Conversation.LastMessageAt,
			MaxSeq:         m.Conversation.MaxMsgSeq,
			UnreadCount:    m.UnreadCount,
		}
		if peerID, err := parsePeerID(m.Conversation.PeerKey, userID); err == nil {
			if u, ok := byID[peerID]; ok {
				brief := toUserBrief(u)
				d.Peer = &brief
			}
		}
		res = append(res, d)
	}
	return res, nil
}

func (s *imServiceImpl) GetTotalUnread(ctx context.Context, userID uint64) (int64, error) {
	return s.convRepo.GetTotalUnreadCount(ctx, userID)
}

// MarkAsRead 已读进度只前进，不超过会话最大序号
func (s *imServiceImpl) MarkAsRead(ctx context.Context, userID uint64, convID uint64, seq uint64) error {
	if err := s.checkMember(ctx, convID, userID); err != nil {
		return err
	}

	conv, err := s.convRepo.GetConversation(ctx, convID)
	if err != nil {
		return err
	}
	if conv == nil {
		return ErrConversation
	}

	targetSeq := seq
	if targetSeq > conv.MaxMsgSeq {
		targetSeq = conv.MaxMsgSeq
	}
	return s.convRepo.UpdateReadSeq(ctx, convID, userID, targetSeq)
}

func (s *imServiceImpl) Close() {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		log.Info("IMService shut down gracefully")
	})
}

func (s *imServiceImpl) checkMember(ctx context.Context, convID, userID uint64) error {
	isMember, err := s.convRepo.IsMember(ctx, convID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrConversation
	}
	return nil
}

func (s *imServiceImpl) calibrationWorker() {
	defer s.wg.Done()
	for {
		select {
		case msg := <-s.retryChan:
			backoff := time.Second
			for i := 0; i < 3; i++ {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := s.messageRepo.SaveMessage(ctx, msg)
				cancel()
				if err == nil {
					break
				}
				log.Warn("message retry failed", "conv_id", msg.ConversationID, "seq", msg.Seq, "attempt", i+1, "err", err)
				time.Sleep(backoff)
				backoff *= 2
			}
		case <-s.stopChan:
			return
		}
	}
}

func peerKey(a, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

func parsePeerID(peerKey string, currentUserID uint64) (uint64, error) {
	var u1, u2 uint64
	if _, err := fmt.Sscanf(peerKey, "%d_%d", &u1, &u2); err != nil {
		return 0, err
	}
	if u1 == currentUserID {
		return u2, nil
	}
	return u1, nil
}

func preview(req *dto.SendMessageReq) string {
	switch req.MsgType {
	case MsgTypeImage:
		return "[image]"
	case MsgTypeShare:
		return "[shared content]"
	}
	runes := []rune(req.Content)
	if len(runes) > 100 {
		return string(runes[:100])
	}
	return req.Content
}

func clampPageSize(pageSize int) int {
	if pageSize <= 0 {
		return 20
	}
	if pageSize > maxIMPageSize {
		return maxIMPageSize
	}
	return pageSize
}

func toMessageDTO(m *mongo.Message) *dto.MessageDTO {
	d := &dto.MessageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		MsgType:        m.MsgType,
		Content:        m.Content,
		Seq:            m.Seq,
		CreatedAt:      m.CreatedAt,
	}
	if len(m.Payload) > 0 {
		d.MediaURL = m.Payload[0].MediaURL
		d.ContentID = m.Payload[0].ContentID
	}
	return d
}

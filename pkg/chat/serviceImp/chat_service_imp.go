package serviceImp

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kisansetu/entities"
	"kisansetu/pkg/ai"
	"kisansetu/pkg/chat/repository"
	svc "kisansetu/pkg/chat/service"
	"kisansetu/pkg/i18n"
	knowledge "kisansetu/pkg/knowledge/service"
)

// snippets passed to the model per question
const snippetCount = 3

// Searcher is the slice of the knowledge service the chat needs.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]knowledge.Hit, error)
}

type service struct {
	repo repository.ChatLogRepository
	llm  ai.Client
	kb   Searcher
	tr   *i18n.Bundle
	log  *zap.Logger
	now  func() time.Time
}

// New wires the chat service. kb may be nil.
func New(r repository.ChatLogRepository, llm ai.Client, kb Searcher, tr *i18n.Bundle, log *zap.Logger) svc.ChatService {
	return &service{repo: r, llm: llm, kb: kb, tr: tr, log: log, now: time.Now}
}

func (s *service) Ask(ctx context.Context, in svc.Request) (*svc.Reply, error) {
	lang := s.tr.Normalize(in.Language)
	msg := strings.TrimSpace(in.Message)
	conv := in.ConversationID
	if conv == "" {
		conv = uuid.NewString()
	}

	start := s.now()
	req := ai.Request{Message: msg, Language: lang, Context: strings.TrimSpace(in.Context), Snippets: s.snippets(ctx, msg)}
	text, err := s.llm.Reply(ctx, req)
	fallback := false
	if err != nil || strings.TrimSpace(text) == "" {
		s.log.Warn("chat: model reply failed, using fallback",
			zap.String("provider", s.llm.Name()), zap.String("conversation", conv), zap.Error(err))
		text = s.tr.T(lang, "chat.fallback")
		fallback = true
	}

	entry := &entities.ChatLog{
		ID:             uuid.NewString(),
		ConversationID: conv,
		Language:       lang,
		Context:        req.Context,
		Message:        msg,
		Response:       text,
		Provider:       s.llm.Name(),
		Fallback:       fallback,
		LatencyMS:      s.now().Sub(start).Milliseconds(),
	}
	if err := s.repo.Create(entry); err != nil {
		// the farmer still gets the answer
		s.log.Error("chat: log exchange", zap.Error(err))
	}
	return &svc.Reply{Response: text, ConversationID: conv, Fallback: fallback}, nil
}

func (s *service) History(conversationID string) ([]entities.ChatLog, error) {
	return s.repo.Conversation(conversationID)
}

func (s *service) snippets(ctx context.Context, msg string) []string {
	if s.kb == nil {
		return nil
	}
	hits, err := s.kb.Search(ctx, msg, snippetCount)
	if err != nil {
		s.log.Warn("chat: knowledge search", zap.Error(err))
		return nil
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Text)
	}
	return out
}

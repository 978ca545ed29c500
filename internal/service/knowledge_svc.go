package service

import (
	"context"
	"errors"
	"strings"

	"lineboost_console/internal/api/dto"
	"lineboost_console/pkg/net"
)

type KnowledgeService struct {
	api *net.Client
}

func NewKnowledgeService(api *net.Client) *KnowledgeService {
	return &KnowledgeService{api: api}
}

// List GET /knowledge/{storeId}
func (s *KnowledgeService) List(ctx context.Context, sc Scope) ([]dto.KnowledgeDoc, error) {
	if err := sc.requireStore(); err != nil {
		return []dto.KnowledgeDoc{}, err
	}
	docs, err := net.Data[[]dto.KnowledgeDoc](ctx, s.api, net.Get(net.JoinPath("knowledge", sc.StoreID), sc.Token))
	if err != nil || docs == nil {
		return []dto.KnowledgeDoc{}, err
	}
	return docs, nil
}

// Trainer AI 训练页：问答和店铺介绍，文档不存在视为空
func (s *KnowledgeService) Trainer(ctx context.Context, sc Scope) (dto.TrainerState, error) {
	out := dto.TrainerState{QA: []dto.QAItem{}}
	if err := sc.requireStore(); err != nil {
		return out, err
	}

	qa, err := s.doc(ctx, sc, dto.QADocID)
	if err != nil {
		return out, err
	}
	if qa.Items != nil {
		out.QA = qa.Items
	}

	about, err := s.doc(ctx, sc, dto.AboutDocID)
	if err != nil {
		return out, err
	}
	out.About = about.Content
	return out, nil
}

// SaveQA 保存问答，问题或答案为空的条目丢弃
func (s *KnowledgeService) SaveQA(ctx context.Context, sc Scope, inputs []dto.QAItemInput) ([]dto.QAItem, error) {
	if err := sc.requireStore(); err != nil {
		return nil, err
	}
	items := make([]dto.QAItem, 0, len(inputs))
	for _, in := range inputs {
		q := strings.TrimSpace(in.Question)
		a := strings.TrimSpace(in.Answer)
		if q == "" || a == "" {
			continue
		}
		items = append(items, dto.QAItem{Question: q, Answer: a, Keywords: ParseKeywords(in.Keywords)})
	}

	doc := dto.KnowledgeDoc{Type: "qa", Title: "Q&A", Items: items}
	if err := s.api.Exec(ctx, net.Post(net.JoinPath("knowledge", sc.StoreID, dto.QADocID), doc, sc.Token)); err != nil {
		return nil, err
	}
	return items, nil
}

// SaveAbout 保存店铺介绍
func (s *KnowledgeService) SaveAbout(ctx context.Context, sc Scope, content string) error {
	if err := sc.requireStore(); err != nil {
		return err
	}
	doc := dto.KnowledgeDoc{Type: "about", Title: "About Us", Content: strings.TrimSpace(content)}
	return s.api.Exec(ctx, net.Post(net.JoinPath("knowledge", sc.StoreID, dto.AboutDocID), doc, sc.Token))
}

// Delete 删除文档
func (s *KnowledgeService) Delete(ctx context.Context, sc Scope, docID string) error {
	if err := sc.requireStore(); err != nil {
		return err
	}
	return s.api.Exec(ctx, net.Delete(net.JoinPath("knowledge", sc.StoreID, docID), sc.Token))
}

// ParseKeywords 逗号或换行分隔，去空白，丢弃空项
func ParseKeywords(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *KnowledgeService) doc(ctx context.Context, sc Scope, docID string) (dto.KnowledgeDoc, error) {
	doc, err := net.Data[dto.KnowledgeDoc](ctx, s.api, net.Get(net.JoinPath("knowledge", sc.StoreID, docID), sc.Token))
	if net.StatusCode(err) == 404 || errors.Is(err, net.ErrContract) {
		return dto.KnowledgeDoc{}, nil
	}
	return doc, err
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"lineboost_console/internal/api/dto"
)

func TestParseKeywords(t *testing.T) {
	assert.Equal(t, []string{"ราคา", "ส่งฟรี", "COD"}, ParseKeywords(" ราคา, ส่งฟรี\n\nCOD ,"))
	assert.Equal(t, []string{}, ParseKeywords(""))
	assert.Equal(t, []string{}, ParseKeywords(" , \r\n"))
}

func TestKnowledgeService_TrainerMissingDocs(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/knowledge/s1/about", 200, `{"success":true,"data":{"type":"about","content":"ร้านชาไทย"}}`)
	svc := NewKnowledgeService(api)

	// qa 文档 404 视为空
	got, err := svc.Trainer(context.Background(), Scope{Token: "tok", StoreID: "s1"})

	assert.NoError(t, err)
	assert.Equal(t, []dto.QAItem{}, got.QA)
	assert.Equal(t, "ร้านชาไทย", got.About)
}

func TestKnowledgeService_SaveQADropsBlank(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("POST", "/knowledge/s1/qa", 200, `{"success":true}`)
	svc := NewKnowledgeService(api)

	items, err := svc.SaveQA(context.Background(), Scope{Token: "tok", StoreID: "s1"}, []dto.QAItemInput{
		{Question: " ส่งกี่วัน ", Answer: "2-3 วัน", Keywords: "ส่ง,วัน"},
		{Question: "ไม่มีคำตอบ", Answer: " "},
	})

	assert.NoError(t, err)
	assert.Equal(t, []dto.QAItem{{Question: "ส่งกี่วัน", Answer: "2-3 วัน", Keywords: []string{"ส่ง", "วัน"}}}, items)
	rec, _ := b.last("POST", "/knowledge/s1/qa")
	assert.Equal(t, "qa", rec.Body["type"])
	assert.Len(t, rec.Body["items"], 1)
}

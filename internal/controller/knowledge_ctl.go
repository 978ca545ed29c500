package controller

import (
	"github.com/gin-gonic/gin"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/service"
)

// KnowledgeController AI 训练页
type KnowledgeController struct {
	knowledgeSvc *service.KnowledgeService
}

func NewKnowledgeController(knowledgeSvc *service.KnowledgeService) *KnowledgeController {
	return &KnowledgeController{knowledgeSvc: knowledgeSvc}
}

func (c *KnowledgeController) GetDocs(ctx *gin.Context) {
	docs, err := c.knowledgeSvc.List(ctx.Request.Context(), scopeOf(ctx))
	page(ctx, docs, err, "โหลดข้อมูลความรู้ไม่สำเร็จ")
}

// GetTrainer 问答 + 店铺介绍
func (c *KnowledgeController) GetTrainer(ctx *gin.Context) {
	state, err := c.knowledgeSvc.Trainer(ctx.Request.Context(), scopeOf(ctx))
	page(ctx, state, err, "โหลดข้อมูลการฝึก AI ไม่สำเร็จ")
}

func (c *KnowledgeController) SaveQA(ctx *gin.Context) {
	var req dto.SaveQAReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	items, err := c.knowledgeSvc.SaveQA(ctx.Request.Context(), scopeOf(ctx), req.Items)
	done(ctx, items, err, "บันทึก Q&A แล้ว", "บันทึก Q&A ไม่สำเร็จ")
}

func (c *KnowledgeController) SaveAbout(ctx *gin.Context) {
	var req dto.SaveAboutReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	err := c.knowledgeSvc.SaveAbout(ctx.Request.Context(), scopeOf(ctx), req.Content)
	done(ctx, nil, err, "บันทึกข้อมูลร้านแล้ว", "บันทึกข้อมูลร้านไม่สำเร็จ")
}

func (c *KnowledgeController) DeleteDoc(ctx *gin.Context) {
	err := c.knowledgeSvc.Delete(ctx.Request.Context(), scopeOf(ctx), ctx.Param("docId"))
	done(ctx, nil, err, "ลบแล้ว", "ลบไม่สำเร็จ")
}

package dto

// ================== 知识库 DTO ==================

// 固定文档 ID
const (
	QADocID    = "qa"
	AboutDocID = "about"
)

// QAItem 问答条目
type QAItem struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords"`
}

// KnowledgeDoc 知识库文档
type KnowledgeDoc struct {
	ID      string   `json:"id,omitempty"`
	Type    string   `json:"type,omitempty"`
	Title   string   `json:"title,omitempty"`
	Items   []QAItem `json:"items,omitempty"`
	Content string   `json:"content,omitempty"`
}

// QAItemInput 编辑器提交的条目，关键词为逗号或换行分隔的字符串
type QAItemInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Keywords string `json:"keywords"`
}

// SaveQAReq 保存问答
type SaveQAReq struct {
	Items []QAItemInput `json:"items"`
}

// SaveAboutReq 保存店铺介绍
type SaveAboutReq struct {
	Content string `json:"content"`
}

// TrainerState AI 训练页
type TrainerState struct {
	QA    []QAItem `json:"qa"`
	About string   `json:"about"`
}

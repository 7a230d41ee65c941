package model

import "encoding/json"

type QuestionKind string

const (
	SingleChoice   QuestionKind = "single"
	MultipleChoice QuestionKind = "multiple"
)

// Question 题库题目。options 为有序的 JSON 字符串数组，顺序必须原样返回给前端；
// answer 为标准答案：单选存选项原文，多选存逗号拼接的选项集合
// swagger:model Question
type Question struct {
	BaseModel
	Kind     QuestionKind    `gorm:"column:type;size:20;not null;index" json:"type"`
	Content  string          `gorm:"type:text;not null" json:"content"`
	Options  json.RawMessage `gorm:"type:json" json:"options"`
	Answer   string          `gorm:"type:text;not null" json:"answer"`
	Analysis string          `gorm:"type:text" json:"analysis"`
}

func (Question) TableName() string {
	return "questions"
}

// PublicQuestion 发给答题端的视图，不含答案与解析
// swagger:model PublicQuestion
type PublicQuestion struct {
	ID      uint            `json:"id"`
	Kind    QuestionKind    `json:"type"`
	Content string          `json:"content"`
	Options json.RawMessage `json:"options"`
}

func (q *Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:      q.ID,
		Kind:    q.Kind,
		Content: q.Content,
		Options: q.Options,
	}
}

package model

import "time"

// ExamPurpose 区分一次性资格考试与可反复参加的练习测验
type ExamPurpose string

const (
	PurposeQualification ExamPurpose = "qualification"
	PurposePractice      ExamPurpose = "practice"
)

// ExamRecord 资格考试成绩，每个用户至多一行，新提交覆盖旧成绩
// swagger:model ExamRecord
type ExamRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Score     float64   `gorm:"not null" json:"score"`
	Passed    bool      `gorm:"not null" json:"passed"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ExamRecord) TableName() string {
	return "exam_records"
}

// QuizRecord 练习测验成绩，只追加，同一用户可有任意多行
type QuizRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Score     float64   `gorm:"not null" json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

func (QuizRecord) TableName() string {
	return "quiz_records"
}

// LeaderboardEntry 排行榜行，由 quiz_records 联 users 聚合而来
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	Username  string    `json:"username"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

package repository

import (
	"fmt"
	"time"

	"heritage_backend/internal/model"
	"heritage_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamRecordRepository struct {
	DB *gorm.DB
}

func NewExamRecordRepository(db *gorm.DB) *ExamRecordRepository {
	return &ExamRecordRepository{DB: db}
}

// UpsertQualification 按 user_id 原子写入资格成绩。同一用户并发提交时
// 由数据库的唯一索引裁决，最终恰好一行、来自其中一次提交，不做读改写
func (r *ExamRecordRepository) UpsertQualification(record *model.ExamRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "passed", "created_at"}),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("%w: upsert qualification for user %d: %v", util.ErrPersistenceFailed, record.UserID, err)
	}
	return nil
}

func (r *ExamRecordRepository) FindQualificationByUserID(userID uint) (*model.ExamRecord, error) {
	var record model.ExamRecord
	err := r.DB.Where("user_id = ?", userID).First(&record).Error
	return &record, err
}

// CreatePracticeRecord 练习成绩只追加，不设唯一约束
func (r *ExamRecordRepository) CreatePracticeRecord(record *model.QuizRecord) error {
	if err := r.DB.Create(record).Error; err != nil {
		return fmt.Errorf("%w: insert practice record for user %d: %v", util.ErrPersistenceFailed, record.UserID, err)
	}
	return nil
}

func (r *ExamRecordRepository) Leaderboard(limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := r.DB.Model(&model.QuizRecord{}).
		Select("users.username, quiz_records.score, quiz_records.created_at").
		Joins("JOIN users ON users.id = quiz_records.user_id").
		Order("quiz_records.score DESC, quiz_records.created_at DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("%w: load leaderboard: %v", util.ErrPersistenceFailed, err)
	}
	return entries, nil
}

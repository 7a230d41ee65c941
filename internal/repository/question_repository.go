package repository

import (
	"heritage_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// FindEligible 取出全部可出题的题目。kind 为空表示不限题型。
// 题库在百千量级，全量取回后在内存里抽样即可
func (r *QuestionRepository) FindEligible(kind model.QuestionKind) ([]model.Question, error) {
	var questions []model.Question
	tx := r.DB
	if kind != "" {
		tx = tx.Where("type = ?", kind)
	}
	err := tx.Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	return &question, err
}

func (r *QuestionRepository) List(page, limit int) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	if err := r.DB.Model(&model.Question{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&questions).Error
	return questions, total, err
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

package service

import (
	"encoding/json"
	"errors"
	"strings"

	"heritage_backend/internal/model"
	"heritage_backend/internal/repository"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

// QuestionRequest 后台录题载荷。字段名用 question_type，与答题端
// 视图里的 type 不同——两侧命名历史如此，接口上保持原样
type QuestionRequest struct {
	QuestionType string   `json:"question_type" binding:"required"`
	Content      string   `json:"content" binding:"required"`
	Options      []string `json:"options" binding:"required"`
	Answer       string   `json:"answer" binding:"required"`
	Analysis     string   `json:"analysis"`
}

func (req *QuestionRequest) validate() (model.QuestionKind, error) {
	kind := model.QuestionKind(req.QuestionType)
	if kind != model.SingleChoice && kind != model.MultipleChoice {
		return "", errors.New("question_type must be 'single' or 'multiple'")
	}
	if len(req.Options) < 2 {
		return "", errors.New("at least two options are required")
	}

	optionSet := make(map[string]bool, len(req.Options))
	for _, opt := range req.Options {
		if strings.TrimSpace(opt) == "" {
			return "", errors.New("options must not be blank")
		}
		optionSet[opt] = true
	}

	// 标准答案必须指向已有选项
	if kind == model.SingleChoice {
		if !optionSet[req.Answer] {
			return "", errors.New("answer must be one of the options")
		}
	} else {
		parts := strings.Split(req.Answer, ",")
		if len(parts) == 0 {
			return "", errors.New("answer must list at least one option")
		}
		for _, part := range parts {
			if !optionSet[strings.TrimSpace(part)] {
				return "", errors.New("answer must be a comma-separated subset of the options")
			}
		}
	}

	return kind, nil
}

func (s *QuestionService) CreateQuestion(req QuestionRequest) (*model.Question, error) {
	kind, err := req.validate()
	if err != nil {
		return nil, err
	}

	options, err := json.Marshal(req.Options)
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		Kind:     kind,
		Content:  req.Content,
		Options:  options,
		Answer:   req.Answer,
		Analysis: req.Analysis,
	}
	if err := s.Repo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) UpdateQuestion(id uint, req QuestionRequest) (*model.Question, error) {
	kind, err := req.validate()
	if err != nil {
		return nil, err
	}

	question, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	options, err := json.Marshal(req.Options)
	if err != nil {
		return nil, err
	}

	question.Kind = kind
	question.Content = req.Content
	question.Options = options
	question.Answer = req.Answer
	question.Analysis = req.Analysis

	if err := s.Repo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) DeleteQuestion(id uint) error {
	return s.Repo.Delete(id)
}

func (s *QuestionService) GetQuestion(id uint) (*model.Question, error) {
	return s.Repo.FindByID(id)
}

func (s *QuestionService) ListQuestions(page, limit int) ([]model.Question, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(page, limit)
}

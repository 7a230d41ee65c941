package service

import (
	"path/filepath"
	"testing"

	"heritage_backend/internal/model"
	"heritage_backend/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newQuestionService(t *testing.T) *QuestionService {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "questions.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Question{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewQuestionService(repository.NewQuestionRepository(db))
}

func validRequest() QuestionRequest {
	return QuestionRequest{
		QuestionType: "single",
		Content:      "《营造法式》的作者是谁？",
		Options:      []string{"李诫", "梁思成", "宇文恺", "蒯祥"},
		Answer:       "李诫",
		Analysis:     "北宋李诫编修。",
	}
}

func TestCreateQuestion(t *testing.T) {
	svc := newQuestionService(t)

	question, err := svc.CreateQuestion(validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if question.ID == 0 {
		t.Error("question should have an id after create")
	}
	if question.Kind != model.SingleChoice {
		t.Errorf("kind = %s", question.Kind)
	}

	loaded, err := svc.GetQuestion(question.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Answer != "李诫" {
		t.Errorf("answer = %s", loaded.Answer)
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	svc := newQuestionService(t)

	tests := []struct {
		name   string
		mutate func(*QuestionRequest)
	}{
		{"unknown type", func(r *QuestionRequest) { r.QuestionType = "essay" }},
		{"single option", func(r *QuestionRequest) { r.Options = []string{"李诫"} }},
		{"blank option", func(r *QuestionRequest) { r.Options = []string{"李诫", "  "} }},
		{"answer not among options", func(r *QuestionRequest) { r.Answer = "鲁班" }},
		{
			"multiple answer outside options",
			func(r *QuestionRequest) {
				r.QuestionType = "multiple"
				r.Answer = "李诫,鲁班"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			if _, err := svc.CreateQuestion(req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateMultipleChoiceQuestion(t *testing.T) {
	svc := newQuestionService(t)

	req := validRequest()
	req.QuestionType = "multiple"
	req.Answer = "李诫,梁思成"

	question, err := svc.CreateQuestion(req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if question.Kind != model.MultipleChoice {
		t.Errorf("kind = %s", question.Kind)
	}
}

func TestUpdateQuestion(t *testing.T) {
	svc := newQuestionService(t)

	question, err := svc.CreateQuestion(validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := validRequest()
	req.Content = "改过的题面"
	req.Answer = "梁思成"
	updated, err := svc.UpdateQuestion(question.ID, req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "改过的题面" || updated.Answer != "梁思成" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestDeleteQuestionExcludesFromDraws(t *testing.T) {
	svc := newQuestionService(t)

	question, err := svc.CreateQuestion(validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteQuestion(question.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.GetQuestion(question.ID); err == nil {
		t.Error("deleted question must not be retrievable")
	}

	eligible, err := svc.Repo.FindEligible("")
	if err != nil {
		t.Fatalf("find eligible: %v", err)
	}
	if len(eligible) != 0 {
		t.Errorf("eligible = %d, deleted questions must not be drawn", len(eligible))
	}
}

func TestListQuestionsPaging(t *testing.T) {
	svc := newQuestionService(t)

	for i := 0; i < 25; i++ {
		if _, err := svc.CreateQuestion(validRequest()); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page, total, err := svc.ListQuestions(2, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(page) != 10 {
		t.Errorf("page size = %d, want 10", len(page))
	}

	// 非法分页参数回落到默认值
	page, _, err = svc.ListQuestions(0, 1000)
	if err != nil {
		t.Fatalf("list with bad params: %v", err)
	}
	if len(page) != 20 {
		t.Errorf("page size = %d, want default 20", len(page))
	}
}

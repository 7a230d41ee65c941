package service

import (
	"encoding/json"
	"reflect"
	"testing"

	"heritage_backend/internal/model"
	"heritage_backend/internal/util"
)

func gradingSession(purpose model.ExamPurpose) *util.ExamSession {
	return &util.ExamSession{
		UserID:      7,
		Purpose:     purpose,
		QuestionIDs: []uint{1, 2, 3, 4},
		AnswerKey: map[uint]util.AnswerKeyEntry{
			1: {Kind: model.SingleChoice, Answer: "明"},
			2: {Kind: model.SingleChoice, Answer: "Ming"},
			3: {Kind: model.MultipleChoice, Answer: "A,B"},
			4: {Kind: model.SingleChoice, Answer: "李诫"},
		},
	}
}

func TestGradeAllCorrect(t *testing.T) {
	grader := Grader{PassScore: 80}

	result := grader.Grade(gradingSession(model.PurposeQualification), map[string]SubmittedAnswer{
		"1": AnswerOf("明"),
		"2": AnswerOf(" Ming "), // 首尾空白会被剔除
		"3": AnswersOf("B", "A"), // 多选不看顺序
		"4": AnswerOf("李诫"),
	})

	want := GradeResult{CorrectCount: 4, TotalCount: 4, Score: 100, Passed: true}
	if result != want {
		t.Fatalf("result = %+v, want %+v", result, want)
	}
}

func TestGradeTableCases(t *testing.T) {
	tests := []struct {
		name        string
		caseFold    bool
		answers     map[string]SubmittedAnswer
		wantCorrect int
	}{
		{
			name:        "missing answers count as wrong",
			answers:     map[string]SubmittedAnswer{"1": AnswerOf("明")},
			wantCorrect: 1,
		},
		{
			name: "case mismatch fails when case sensitive",
			answers: map[string]SubmittedAnswer{
				"2": AnswerOf("ming"),
			},
			wantCorrect: 0,
		},
		{
			name:     "case mismatch passes when case insensitive",
			caseFold: true,
			answers: map[string]SubmittedAnswer{
				"2": AnswerOf("ming"),
			},
			wantCorrect: 1,
		},
		{
			name: "unknown question ids are ignored",
			answers: map[string]SubmittedAnswer{
				"1":   AnswerOf("明"),
				"999": AnswerOf("明"),
				"998": AnswerOf("清"),
			},
			wantCorrect: 1,
		},
		{
			name: "multiple choice duplicates collapse",
			answers: map[string]SubmittedAnswer{
				"3": AnswersOf("A", "B", "B", " A"),
			},
			wantCorrect: 1,
		},
		{
			name: "multiple choice as comma string",
			answers: map[string]SubmittedAnswer{
				"3": AnswerOf("B,A"),
			},
			wantCorrect: 1,
		},
		{
			name: "multiple choice subset fails",
			answers: map[string]SubmittedAnswer{
				"3": AnswersOf("A"),
			},
			wantCorrect: 0,
		},
		{
			name: "multiple choice superset fails",
			answers: map[string]SubmittedAnswer{
				"3": AnswersOf("A", "B", "C"),
			},
			wantCorrect: 0,
		},
		{
			name: "array answer on single choice fails",
			answers: map[string]SubmittedAnswer{
				"1": AnswersOf("明", "清"),
			},
			wantCorrect: 0,
		},
		{
			name:        "empty submission scores zero",
			answers:     map[string]SubmittedAnswer{},
			wantCorrect: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grader := Grader{CaseInsensitive: tt.caseFold, PassScore: 60}
			result := grader.Grade(gradingSession(model.PurposeQualification), tt.answers)

			if result.CorrectCount != tt.wantCorrect {
				t.Errorf("correct = %d, want %d", result.CorrectCount, tt.wantCorrect)
			}
			if result.TotalCount != 4 {
				t.Errorf("total = %d, want 4", result.TotalCount)
			}
			wantScore := float64(tt.wantCorrect) / 4 * 100
			if result.Score != wantScore {
				t.Errorf("score = %v, want %v", result.Score, wantScore)
			}
		})
	}
}

func TestGradeDeterministic(t *testing.T) {
	grader := Grader{PassScore: 60}
	session := gradingSession(model.PurposeQualification)
	answers := map[string]SubmittedAnswer{
		"1": AnswerOf("明"),
		"3": AnswersOf("B", "A"),
	}

	first := grader.Grade(session, answers)
	for i := 0; i < 10; i++ {
		if got := grader.Grade(session, answers); got != first {
			t.Fatalf("run %d: result %+v differs from first %+v", i, got, first)
		}
	}
}

func TestGradePassedOnlyForQualification(t *testing.T) {
	grader := Grader{PassScore: 50}
	answers := map[string]SubmittedAnswer{
		"1": AnswerOf("明"),
		"2": AnswerOf("Ming"),
		"3": AnswersOf("A", "B"),
		"4": AnswerOf("李诫"),
	}

	if result := grader.Grade(gradingSession(model.PurposeQualification), answers); !result.Passed {
		t.Errorf("qualification full score should pass, got %+v", result)
	}
	if result := grader.Grade(gradingSession(model.PurposePractice), answers); result.Passed {
		t.Errorf("practice grading must not set passed, got %+v", result)
	}
}

func TestGradeScoreRounding(t *testing.T) {
	// 3 题对 1 题 = 33.333... 保留两位
	session := &util.ExamSession{
		Purpose:     model.PurposeQualification,
		QuestionIDs: []uint{1, 2, 3},
		AnswerKey: map[uint]util.AnswerKeyEntry{
			1: {Kind: model.SingleChoice, Answer: "a"},
			2: {Kind: model.SingleChoice, Answer: "b"},
			3: {Kind: model.SingleChoice, Answer: "c"},
		},
	}

	result := Grader{PassScore: 60}.Grade(session, map[string]SubmittedAnswer{"1": AnswerOf("a")})
	if result.Score != 33.33 {
		t.Fatalf("score = %v, want 33.33", result.Score)
	}
}

func TestSubmittedAnswerJSON(t *testing.T) {
	var req SubmitExamRequest
	payload := `{"exam_token":"tok","answers":{"1":"明","3":["A","B"]}}`
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := req.Answers["1"].options(); !reflect.DeepEqual(got, []string{"明"}) {
		t.Errorf("answers[1] = %v", got)
	}
	if got := req.Answers["3"].options(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("answers[3] = %v", got)
	}

	var bad SubmittedAnswer
	if err := json.Unmarshal([]byte(`{"answer":"x"}`), &bad); err == nil {
		t.Error("object answer should be rejected")
	}
	if err := json.Unmarshal([]byte(`42`), &bad); err == nil {
		t.Error("numeric answer should be rejected")
	}
}

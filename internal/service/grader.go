package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"heritage_backend/internal/model"
	"heritage_backend/internal/util"
)

// SubmittedAnswer 接受两种 JSON 形态："A" 或 ["A","B"]，多选也允许
// 直接传逗号拼接的字符串
type SubmittedAnswer struct {
	values []string
	isList bool
}

func (a *SubmittedAnswer) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		a.values = []string{single}
		a.isList = false
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		a.values = list
		a.isList = true
		return nil
	}

	return fmt.Errorf("answer must be a string or an array of strings")
}

func (a SubmittedAnswer) MarshalJSON() ([]byte, error) {
	if a.isList {
		return json.Marshal(a.values)
	}
	if len(a.values) == 1 {
		return json.Marshal(a.values[0])
	}
	return json.Marshal("")
}

// AnswerOf 测试与内部构造用
func AnswerOf(value string) SubmittedAnswer {
	return SubmittedAnswer{values: []string{value}}
}

func AnswersOf(values ...string) SubmittedAnswer {
	return SubmittedAnswer{values: values, isList: true}
}

// GradeResult 一次判卷的结果。Score 为百分制，保留两位小数；
// Passed 只对资格考试有意义，练习卷恒为 false
type GradeResult struct {
	CorrectCount int     `json:"correct_count"`
	TotalCount   int     `json:"total_questions"`
	Score        float64 `json:"score"`
	Passed       bool    `json:"passed"`
}

// Grader 纯函数判卷器。同一会话加同一答卷必然得到同一结果，
// 重试提交无需重新判卷
type Grader struct {
	CaseInsensitive bool
	PassScore       float64
}

// Grade 以会话内嵌的答案键为准：键里没有的题目一律忽略，
// 没作答的题目按答错计，总题数恒等于答案键大小
func (g Grader) Grade(session *util.ExamSession, answers map[string]SubmittedAnswer) GradeResult {
	total := len(session.AnswerKey)
	correct := 0

	for qid, entry := range session.AnswerKey {
		submitted, ok := answers[strconv.FormatUint(uint64(qid), 10)]
		if !ok {
			continue
		}
		if g.answerCorrect(entry, submitted) {
			correct++
		}
	}

	var score float64
	if total > 0 {
		score = math.Round(float64(correct)/float64(total)*100*100) / 100
	}

	return GradeResult{
		CorrectCount: correct,
		TotalCount:   total,
		Score:        score,
		Passed:       session.Purpose == model.PurposeQualification && score >= g.PassScore,
	}
}

func (g Grader) answerCorrect(entry util.AnswerKeyEntry, submitted SubmittedAnswer) bool {
	switch entry.Kind {
	case model.MultipleChoice:
		return setsEqual(g.answerSet(strings.Split(entry.Answer, ",")), g.answerSet(submitted.options()))
	default:
		// 单选只认单个值
		if len(submitted.values) != 1 {
			return false
		}
		return g.normalize(submitted.values[0]) == g.normalize(entry.Answer)
	}
}

// options 把答卷值摊平成选项集合：数组直接用，字符串按逗号拆
func (a SubmittedAnswer) options() []string {
	if a.isList {
		return a.values
	}
	if len(a.values) == 1 {
		return strings.Split(a.values[0], ",")
	}
	return nil
}

func (g Grader) answerSet(options []string) map[string]struct{} {
	set := make(map[string]struct{}, len(options))
	for _, opt := range options {
		opt = g.normalize(opt)
		if opt == "" {
			continue
		}
		set[opt] = struct{}{}
	}
	return set
}

func (g Grader) normalize(s string) string {
	s = strings.TrimSpace(s)
	if g.CaseInsensitive {
		s = strings.ToLower(s)
	}
	return s
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

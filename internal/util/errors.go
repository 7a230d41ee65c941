package util

import "errors"

var (
	ErrInsufficientQuestions = errors.New("题库题目不足，无法生成试卷")
	ErrExamTokenMalformed    = errors.New("exam token malformed")
	ErrExamTokenInvalid      = errors.New("exam token signature invalid")
	ErrExamTokenExpired      = errors.New("exam token expired")
	ErrEmptySubmission       = errors.New("no answers submitted")
	ErrPersistenceFailed     = errors.New("failed to persist exam result")
)

package util

import (
	"errors"
	"net/http"

	"heritage_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// ExamError 把考试引擎的错误固定映射成可区分的客户端文案。
// 令牌类错误绝不折算成 0 分返回，存储失败绝不报成功
func ExamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInsufficientQuestions):
		Error(c, http.StatusBadRequest, "题库题目不足，请稍后再试")
	case errors.Is(err, ErrExamTokenExpired):
		Error(c, http.StatusBadRequest, "考试已超时，请重新开始考试")
	case errors.Is(err, ErrExamTokenInvalid):
		Error(c, http.StatusBadRequest, "考试凭证校验失败，请重新开始考试")
	case errors.Is(err, ErrExamTokenMalformed):
		Error(c, http.StatusBadRequest, "考试凭证无法解析，请重新开始考试")
	case errors.Is(err, ErrEmptySubmission):
		Error(c, http.StatusBadRequest, "请先作答再提交")
	case errors.Is(err, ErrPersistenceFailed):
		logger.Log.Error("exam result persistence failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "成绩保存失败，请稍后重试")
	default:
		LogInternalError(c, err)
	}
}

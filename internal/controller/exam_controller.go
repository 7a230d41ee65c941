package controller

import (
	"heritage_backend/internal/service"
	"heritage_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Service *service.ExamService
}

func NewExamController(svc *service.ExamService) *ExamController {
	return &ExamController{Service: svc}
}

// @Summary 生成资格考试试卷
// @Description 随机抽题并签发考试令牌，题目不含答案
// @Tags 资格考试
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ExamPaperResponse}
// @Router /qualification/generate [get]
func (c *ExamController) GenerateQualification(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	paper, err := c.Service.GenerateQualification(claims.UserID)
	if err != nil {
		util.ExamError(ctx, err)
		return
	}

	util.Success(ctx, paper)
}

// @Summary 提交资格考试答卷
// @Description 校验考试令牌并判卷，通过后标记为认证用户
// @Tags 资格考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitExamRequest true "令牌与答案"
// @Success 200 {object} util.Response{data=service.SubmitExamResponse}
// @Router /qualification/submit [post]
func (c *ExamController) SubmitQualification(ctx *gin.Context) {
	c.submit(ctx)
}

// @Summary 生成练习测验试卷
// @Description 练习卷无需登录，成绩计入排行榜需登录提交
// @Tags 练习测验
// @Produce json
// @Success 200 {object} util.Response{data=service.ExamPaperResponse}
// @Router /quiz/generate [get]
func (c *ExamController) GeneratePractice(ctx *gin.Context) {
	userID := uint(0)
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	paper, err := c.Service.GeneratePractice(userID)
	if err != nil {
		util.ExamError(ctx, err)
		return
	}

	util.Success(ctx, paper)
}

// @Summary 提交练习测验答卷
// @Tags 练习测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitExamRequest true "令牌与答案"
// @Success 200 {object} util.Response{data=service.SubmitExamResponse}
// @Router /quiz/submit [post]
func (c *ExamController) SubmitPractice(ctx *gin.Context) {
	c.submit(ctx)
}

// submit 资格与练习共用：用途由令牌自述，服务端按令牌行事
func (c *ExamController) submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Submit(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		util.ExamError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 练习测验排行榜
// @Tags 练习测验
// @Produce json
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Router /quiz/leaderboard [get]
func (c *ExamController) Leaderboard(ctx *gin.Context) {
	entries, err := c.Service.Leaderboard(ctx.Request.Context())
	if err != nil {
		util.ExamError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

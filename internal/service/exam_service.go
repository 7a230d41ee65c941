package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"heritage_backend/internal/config"
	"heritage_backend/internal/model"
	"heritage_backend/internal/repository"
	"heritage_backend/internal/util"
	"heritage_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardCacheKey = "exam:leaderboard"
const leaderboardCacheTTL = 30 * time.Second

// UserVerifier 资格考试通过后的外部副作用，由用户模块实现
type UserVerifier interface {
	MarkVerified(userID uint) error
}

type ExamService struct {
	Questions *repository.QuestionRepository
	Records   *repository.ExamRecordRepository
	Verifier  UserVerifier
	Codec     *util.ExamTokenCodec
	Redis     *redis.Client

	mu   sync.RWMutex
	exam config.ExamConfig
}

func NewExamService(
	questions *repository.QuestionRepository,
	records *repository.ExamRecordRepository,
	verifier UserVerifier,
	codec *util.ExamTokenCodec,
	rdb *redis.Client,
	cfg *config.Config,
) *ExamService {
	return &ExamService{
		Questions: questions,
		Records:   records,
		Verifier:  verifier,
		Codec:     codec,
		Redis:     rdb,
		exam:      cfg.Exam,
	}
}

// ApplyConfig 配置热更新回调。出题数、及格线、判题策略即时生效，
// 已签发的令牌不受影响
func (s *ExamService) ApplyConfig(cfg *config.Config) {
	if err := cfg.Exam.Validate(); err != nil {
		logger.Log.Warn("ignoring invalid exam config on reload", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.exam = cfg.Exam
	s.mu.Unlock()
}

func (s *ExamService) examConfig() config.ExamConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exam
}

type ExamPaperResponse struct {
	Questions []model.PublicQuestion `json:"questions"`
	ExamToken string                 `json:"exam_token"`
	ExpiresIn int64                  `json:"expires_in"` // 秒
}

type SubmitExamRequest struct {
	ExamToken string                     `json:"exam_token" binding:"required"`
	Answers   map[string]SubmittedAnswer `json:"answers"`
}

type SubmitExamResponse struct {
	Score        float64 `json:"score"`
	CorrectCount int     `json:"correct_count"`
	TotalCount   int     `json:"total_questions"`
	Passed       bool    `json:"passed"`
	Message      string  `json:"message"`
}

// GenerateQualification 为认证考试出卷：从全题库均匀抽取固定数量的题目
func (s *ExamService) GenerateQualification(userID uint) (*ExamPaperResponse, error) {
	cfg := s.examConfig()

	questions, err := s.drawQuestions("", cfg.QuestionCount)
	if err != nil {
		return nil, err
	}
	return s.issuePaper(userID, model.PurposeQualification, questions, cfg.TokenTTL)
}

// GeneratePractice 练习卷沿用固定配比：若干单选加若干多选。
// 练习出卷无需登录，userID 可为 0
func (s *ExamService) GeneratePractice(userID uint) (*ExamPaperResponse, error) {
	cfg := s.examConfig()

	singles, err := s.drawQuestions(model.SingleChoice, cfg.PracticeSingleCount)
	if err != nil {
		return nil, err
	}
	multiples, err := s.drawQuestions(model.MultipleChoice, cfg.PracticeMultipleCount)
	if err != nil {
		return nil, err
	}

	return s.issuePaper(userID, model.PurposePractice, append(singles, multiples...), cfg.TokenTTL)
}

// drawQuestions 均匀无放回抽样：洗牌后取前 n 个
func (s *ExamService) drawQuestions(kind model.QuestionKind, n int) ([]model.Question, error) {
	if n == 0 {
		return nil, nil
	}

	eligible, err := s.Questions.FindEligible(kind)
	if err != nil {
		return nil, err
	}
	if len(eligible) < n {
		return nil, fmt.Errorf("%w: need %d, bank has %d", util.ErrInsufficientQuestions, n, len(eligible))
	}

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	return eligible[:n], nil
}

func (s *ExamService) issuePaper(userID uint, purpose model.ExamPurpose, questions []model.Question, ttl time.Duration) (*ExamPaperResponse, error) {
	session := &util.ExamSession{
		UserID:      userID,
		Purpose:     purpose,
		QuestionIDs: make([]uint, 0, len(questions)),
		AnswerKey:   make(map[uint]util.AnswerKeyEntry, len(questions)),
	}

	public := make([]model.PublicQuestion, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		session.QuestionIDs = append(session.QuestionIDs, q.ID)
		session.AnswerKey[q.ID] = util.AnswerKeyEntry{Kind: q.Kind, Answer: q.Answer}
		public = append(public, q.Public())
	}

	token, err := s.Codec.Encode(session, ttl)
	if err != nil {
		return nil, err
	}

	return &ExamPaperResponse{
		Questions: public,
		ExamToken: token,
		ExpiresIn: int64(ttl / time.Second),
	}, nil
}

// Submit 验令牌、判卷、落成绩。判卷纯函数先行，任何存储失败都会
// 原样上抛，绝不把失败报成成功
func (s *ExamService) Submit(ctx context.Context, userID uint, req SubmitExamRequest) (*SubmitExamResponse, error) {
	if len(req.Answers) == 0 {
		return nil, util.ErrEmptySubmission
	}

	session, err := s.Codec.Decode(req.ExamToken)
	if err != nil {
		return nil, err
	}

	// 令牌与登录身份绑定；匿名签发的练习令牌（uid=0）不限制提交人
	if session.UserID != 0 && session.UserID != userID {
		return nil, fmt.Errorf("%w: token was issued to another user", util.ErrExamTokenInvalid)
	}

	cfg := s.examConfig()
	grader := Grader{CaseInsensitive: cfg.CaseInsensitive, PassScore: cfg.PassScore}
	result := grader.Grade(session, req.Answers)

	switch session.Purpose {
	case model.PurposeQualification:
		if err := s.recordQualification(userID, result); err != nil {
			return nil, err
		}
	case model.PurposePractice:
		if err := s.recordPractice(ctx, userID, result); err != nil {
			return nil, err
		}
	}

	return &SubmitExamResponse{
		Score:        result.Score,
		CorrectCount: result.CorrectCount,
		TotalCount:   result.TotalCount,
		Passed:       result.Passed,
		Message:      submitMessage(session.Purpose, result),
	}, nil
}

func (s *ExamService) recordQualification(userID uint, result GradeResult) error {
	record := &model.ExamRecord{
		UserID: userID,
		Score:  result.Score,
		Passed: result.Passed,
	}
	if err := s.Records.UpsertQualification(record); err != nil {
		return err
	}

	// 只在本次通过时触发认证，之后的失败重考不撤销认证
	if result.Passed {
		if err := s.Verifier.MarkVerified(userID); err != nil {
			return fmt.Errorf("%w: mark user %d verified: %v", util.ErrPersistenceFailed, userID, err)
		}
	}
	return nil
}

func (s *ExamService) recordPractice(ctx context.Context, userID uint, result GradeResult) error {
	record := &model.QuizRecord{
		UserID: userID,
		Score:  result.Score,
	}
	if err := s.Records.CreatePracticeRecord(record); err != nil {
		return err
	}

	// 新成绩直接作废排行榜缓存，下次查询回源重建
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, leaderboardCacheKey).Err(); err != nil {
			logger.Log.Warn("failed to invalidate leaderboard cache", zap.Error(err))
		}
	}
	return nil
}

func submitMessage(purpose model.ExamPurpose, result GradeResult) string {
	if purpose == model.PurposePractice {
		return "提交成功，成绩已计入排行榜"
	}
	if result.Passed {
		return "恭喜通过资格考试，您已成为认证用户！"
	}
	return "未达到及格线，请温习后再来挑战。"
}

// Leaderboard 练习测验排行榜，带 30 秒 Redis 缓存
func (s *ExamService) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result()
		if err == nil {
			var entries []model.LeaderboardEntry
			if jsonErr := json.Unmarshal([]byte(cached), &entries); jsonErr == nil {
				return entries, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("leaderboard cache read failed", zap.Error(err))
		}
	}

	entries, err := s.Records.Leaderboard(s.examConfig().LeaderboardSize)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, jsonErr := json.Marshal(entries); jsonErr == nil {
			if err := s.Redis.Set(ctx, leaderboardCacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	return entries, nil
}

package util

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"heritage_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// AnswerKeyEntry 单题的标准答案。多选题的 Answer 是逗号拼接的选项集合
type AnswerKeyEntry struct {
	Kind   model.QuestionKind
	Answer string
}

// ExamSession 一次考试的全部真相：考生、用途、题目顺序与标准答案。
// 服务端不落库，整个会话只存在于签名后的令牌里
type ExamSession struct {
	UserID      uint
	Purpose     model.ExamPurpose
	QuestionIDs []uint // 与发给前端的题目顺序一致
	AnswerKey   map[uint]AnswerKeyEntry
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

type keyClaim struct {
	T string `json:"t"`
	A string `json:"a"`
}

type examClaims struct {
	UserID  uint                `json:"uid"`
	Purpose string              `json:"purpose"`
	Qids    []uint              `json:"qids"`
	Key     map[string]keyClaim `json:"key"`
	jwt.RegisteredClaims
}

// ExamTokenCodec 用 HS256 对考试会话做编解码。签名密钥是唯一的信任根，
// 泄露即可伪造任意会话，必须与登录 JWT 一样只存在于服务端配置
type ExamTokenCodec struct {
	secret []byte
	now    func() time.Time
}

func NewExamTokenCodec(secret string) *ExamTokenCodec {
	return &ExamTokenCodec{secret: []byte(secret), now: time.Now}
}

// WithTimeFunc 替换时钟，用于测试签发与过期
func (c *ExamTokenCodec) WithTimeFunc(now func() time.Time) *ExamTokenCodec {
	c.now = now
	return c
}

func (c *ExamTokenCodec) Encode(session *ExamSession, ttl time.Duration) (string, error) {
	if len(session.QuestionIDs) == 0 || len(session.QuestionIDs) != len(session.AnswerKey) {
		return "", fmt.Errorf("exam session inconsistent: %d question ids, %d answers",
			len(session.QuestionIDs), len(session.AnswerKey))
	}

	issuedAt := c.now()
	expiresAt := issuedAt.Add(ttl)

	key := make(map[string]keyClaim, len(session.AnswerKey))
	for qid, entry := range session.AnswerKey {
		key[strconv.FormatUint(uint64(qid), 10)] = keyClaim{
			T: string(entry.Kind),
			A: entry.Answer,
		}
	}

	claims := &examClaims{
		UserID:  session.UserID,
		Purpose: string(session.Purpose),
		Qids:    session.QuestionIDs,
		Key:     key,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode 校验签名与有效期并还原会话。错误固定映射为
// ErrExamTokenMalformed / ErrExamTokenInvalid / ErrExamTokenExpired，
// 调用方据此区分"解析不了"、"被篡改"和"超时"
func (c *ExamTokenCodec) Decode(tokenString string) (*ExamSession, error) {
	token, err := jwt.ParseWithClaims(tokenString, &examClaims{}, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: %v", ErrExamTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExamTokenExpired
	default:
		// 签名不符、算法不符等一律视为被篡改
		return nil, fmt.Errorf("%w: %v", ErrExamTokenInvalid, err)
	}

	claims, ok := token.Claims.(*examClaims)
	if !ok || !token.Valid {
		return nil, ErrExamTokenInvalid
	}

	purpose := model.ExamPurpose(claims.Purpose)
	if purpose != model.PurposeQualification && purpose != model.PurposePractice {
		return nil, fmt.Errorf("%w: unknown purpose %q", ErrExamTokenMalformed, claims.Purpose)
	}

	// 题目列表与答案键必须一一对应且无重复
	if len(claims.Qids) == 0 || len(claims.Qids) != len(claims.Key) {
		return nil, fmt.Errorf("%w: %d question ids, %d answers", ErrExamTokenMalformed, len(claims.Qids), len(claims.Key))
	}

	answerKey := make(map[uint]AnswerKeyEntry, len(claims.Qids))
	for _, qid := range claims.Qids {
		entry, present := claims.Key[strconv.FormatUint(uint64(qid), 10)]
		if !present {
			return nil, fmt.Errorf("%w: question %d missing from answer key", ErrExamTokenMalformed, qid)
		}
		if _, dup := answerKey[qid]; dup {
			return nil, fmt.Errorf("%w: duplicate question %d", ErrExamTokenMalformed, qid)
		}
		kind := model.QuestionKind(entry.T)
		if kind != model.SingleChoice && kind != model.MultipleChoice {
			return nil, fmt.Errorf("%w: question %d has unknown kind %q", ErrExamTokenMalformed, qid, entry.T)
		}
		answerKey[qid] = AnswerKeyEntry{Kind: kind, Answer: entry.A}
	}

	session := &ExamSession{
		UserID:      claims.UserID,
		Purpose:     purpose,
		QuestionIDs: claims.Qids,
		AnswerKey:   answerKey,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

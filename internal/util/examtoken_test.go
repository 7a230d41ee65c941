package util

import (
	"errors"
	"strings"
	"testing"
	"time"

	"heritage_backend/internal/model"
)

const testSecret = "unit-test-secret-keep-it-long-enough"

func testSession() *ExamSession {
	return &ExamSession{
		UserID:      42,
		Purpose:     model.PurposeQualification,
		QuestionIDs: []uint{3, 1, 7},
		AnswerKey: map[uint]AnswerKeyEntry{
			3: {Kind: model.SingleChoice, Answer: "明"},
			1: {Kind: model.SingleChoice, Answer: "李诫"},
			7: {Kind: model.MultipleChoice, Answer: "斗拱,梁"},
		},
	}
}

func TestExamTokenRoundTrip(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewExamTokenCodec(testSecret).WithTimeFunc(func() time.Time { return issued })

	token, err := codec.Encode(testSession(), 15*time.Minute)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.UserID != 42 {
		t.Errorf("user id = %d, want 42", decoded.UserID)
	}
	if decoded.Purpose != model.PurposeQualification {
		t.Errorf("purpose = %q, want qualification", decoded.Purpose)
	}
	if len(decoded.QuestionIDs) != 3 || decoded.QuestionIDs[0] != 3 || decoded.QuestionIDs[1] != 1 || decoded.QuestionIDs[2] != 7 {
		t.Errorf("question ids = %v, want [3 1 7]", decoded.QuestionIDs)
	}
	for qid, want := range testSession().AnswerKey {
		got, ok := decoded.AnswerKey[qid]
		if !ok {
			t.Fatalf("answer key missing question %d", qid)
		}
		if got != want {
			t.Errorf("answer key[%d] = %+v, want %+v", qid, got, want)
		}
	}
	if !decoded.IssuedAt.Equal(issued) {
		t.Errorf("issued at = %v, want %v", decoded.IssuedAt, issued)
	}
	if !decoded.ExpiresAt.Equal(issued.Add(15 * time.Minute)) {
		t.Errorf("expires at = %v, want %v", decoded.ExpiresAt, issued.Add(15*time.Minute))
	}
}

func TestExamTokenTamperDetection(t *testing.T) {
	codec := NewExamTokenCodec(testSecret)
	token, err := codec.Encode(testSession(), 15*time.Minute)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// 逐字符篡改。跳过分隔符和每段最后一个字符：base64url 末字符
	// 含填充位，改动可能解码出同样的字节
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		if i+1 >= len(token) || token[i+1] == '.' {
			continue
		}

		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		mutated := token[:i] + string(replacement) + token[i+1:]
		if mutated == token {
			continue
		}

		if _, err := codec.Decode(mutated); err == nil {
			t.Fatalf("decode accepted token tampered at byte %d", i)
		} else if errors.Is(err, ErrExamTokenExpired) {
			t.Fatalf("tampering at byte %d misreported as expiry", i)
		}
	}
}

func TestExamTokenWrongKey(t *testing.T) {
	token, err := NewExamTokenCodec(testSecret).Encode(testSession(), time.Minute)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	_, err = NewExamTokenCodec("a-completely-different-signing-key").Decode(token)
	if !errors.Is(err, ErrExamTokenInvalid) {
		t.Fatalf("decode with wrong key: got %v, want ErrExamTokenInvalid", err)
	}
}

func TestExamTokenExpiry(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	codec := NewExamTokenCodec(testSecret).WithTimeFunc(func() time.Time { return clock })

	token, err := codec.Encode(testSession(), 900*time.Second)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	clock = issued.Add(899 * time.Second)
	if _, err := codec.Decode(token); err != nil {
		t.Fatalf("decode before expiry: %v", err)
	}

	// 签名有效也必须判超时
	clock = issued.Add(901 * time.Second)
	if _, err := codec.Decode(token); !errors.Is(err, ErrExamTokenExpired) {
		t.Fatalf("decode after expiry: got %v, want ErrExamTokenExpired", err)
	}
}

func TestExamTokenMalformed(t *testing.T) {
	codec := NewExamTokenCodec(testSecret)

	for _, token := range []string{"", "garbage", "a.b", "....", strings.Repeat("x", 300)} {
		if _, err := codec.Decode(token); !errors.Is(err, ErrExamTokenMalformed) {
			t.Errorf("Decode(%q): got %v, want ErrExamTokenMalformed", token, err)
		}
	}
}

func TestExamTokenRejectsInconsistentSession(t *testing.T) {
	codec := NewExamTokenCodec(testSecret)

	session := testSession()
	session.QuestionIDs = append(session.QuestionIDs, 99) // 无对应答案
	if _, err := codec.Encode(session, time.Minute); err == nil {
		t.Fatal("encode accepted session with unmatched question id")
	}

	session = testSession()
	session.QuestionIDs = nil
	session.AnswerKey = nil
	if _, err := codec.Encode(session, time.Minute); err == nil {
		t.Fatal("encode accepted empty session")
	}
}

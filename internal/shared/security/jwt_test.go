package security

import (
	"errors"
	"testing"
	"time"
)

func TestAward_缺少密钥应失败(t *testing.T) {
	if _, err := Award("", "room-1", time.Minute); !errors.Is(err, ErrJWTSecretMissing) {
		t.Fatalf("期望密钥为空时 Award 返回 ErrJWTSecretMissing, got=%v", err)
	}
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	token, err := Award("test-secret-123", "room-42", 0)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if token == "" {
		t.Fatalf("期望 token 非空")
	}

	_, claims, err := ParseToken("test-secret-123", token)
	if err != nil {
		t.Fatalf("ParseToken err=%v", err)
	}
	if claims == nil || claims.Room != "room-42" {
		t.Fatalf("期望 claims.Room==room-42, got=%v", claims)
	}
	if err := VerifyRoom("test-secret-123", token, "room-42"); err != nil {
		t.Fatalf("VerifyRoom err=%v", err)
	}
}

func TestVerifyRoom_拒绝(t *testing.T) {
	token, _ := Award("s1", "room-1", time.Minute)

	if err := VerifyRoom("s1", token, "room-2"); !errors.Is(err, ErrRoomMismatch) {
		t.Fatalf("期望房间不匹配, got=%v", err)
	}
	if err := VerifyRoom("s2", token, "room-1"); err == nil {
		t.Fatalf("期望密钥不一致时校验失败")
	}

	expired, _ := Award("s1", "room-1", -time.Minute)
	// ttl <= 0 走默认值，所以这里仍然有效
	if err := VerifyRoom("s1", expired, "room-1"); err != nil {
		t.Fatalf("ttl<=0 应使用默认有效期, err=%v", err)
	}
}

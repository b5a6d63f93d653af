package utils

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	tok, exp, err := GenerateToken("secret", 7, "admin", "admin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("срок действия в прошлом: %v", exp)
	}

	c, err := ParseToken("secret", tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if c.UserID != 7 || c.Role != "admin" || c.Username != "admin" {
		t.Fatalf("неожиданные claims: %+v", c)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	tok, _, _ := GenerateToken("secret", 7, "admin", "admin", time.Hour)
	if _, err := ParseToken("other", tok); err == nil {
		t.Fatal("токен с чужой подписью должен отклоняться")
	}

	expired, _, _ := GenerateToken("secret", 7, "admin", "admin", -time.Minute)
	if _, err := ParseToken("secret", expired); err == nil {
		t.Fatal("просроченный токен должен отклоняться")
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPasswordHash("s3cret", h) || CheckPasswordHash("wrong", h) {
		t.Fatal("проверка хеша работает неверно")
	}
}

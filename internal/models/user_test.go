package models

import "testing"

func TestUserPasswordHashing(t *testing.T) {
	u := User{
		PhoneNumber: "9800011122",
		Password:    "monsoon-2026",
		UserType:    string(UserTypeFarmer),
	}
	if err := u.HashPassword(); err != nil {
		t.Fatalf("hash: %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "monsoon-2026" {
		t.Error("password not hashed")
	}
	if err := u.CheckPassword("monsoon-2026"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := u.CheckPassword("monsoon-2025"); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordSkipsEmpty(t *testing.T) {
	u := User{}
	if err := u.HashPassword(); err != nil {
		t.Fatalf("hash on empty password: %v", err)
	}
	if u.PasswordHash != "" {
		t.Error("empty password produced a hash")
	}
}

package utils

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword 校验 bcrypt 哈希，同时兼容从旧站点迁移过来的
// werkzeug 格式（pbkdf2:sha256:600000$salt$hex / scrypt:32768:8:1$salt$hex）
func CheckPassword(pw, hashed string) bool {
	if hashed == "" {
		return false
	}
	if strings.HasPrefix(hashed, "pbkdf2:") || strings.HasPrefix(hashed, "scrypt:") {
		return checkWerkzeug(pw, hashed)
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

func checkWerkzeug(pw, hashed string) bool {
	parts := strings.SplitN(hashed, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, want := parts[0], parts[1], parts[2]
	expected, err := hex.DecodeString(want)
	if err != nil || len(expected) == 0 {
		return false
	}

	var got []byte
	args := strings.Split(method, ":")
	switch args[0] {
	case "pbkdf2":
		if len(args) < 2 {
			return false
		}
		h := hashByName(args[1])
		if h == nil {
			return false
		}
		iter := 260000
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil || n <= 0 {
				return false
			}
			iter = n
		}
		got = pbkdf2.Key([]byte(pw), []byte(salt), iter, len(expected), h)
	case "scrypt":
		n, r, p := 32768, 8, 1
		if len(args) == 4 {
			var e1, e2, e3 error
			n, e1 = strconv.Atoi(args[1])
			r, e2 = strconv.Atoi(args[2])
			p, e3 = strconv.Atoi(args[3])
			if e1 != nil || e2 != nil || e3 != nil {
				return false
			}
		}
		got, err = scrypt.Key([]byte(pw), []byte(salt), n, r, p, len(expected))
		if err != nil {
			return false
		}
	default:
		return false
	}
	return hmac.Equal(got, expected)
}

func hashByName(name string) func() hash.Hash {
	switch name {
	case "sha256":
		return sha256.New
	case "sha512":
		return sha512.New
	case "sha1":
		return sha1.New
	}
	return nil
}

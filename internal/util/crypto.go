package util

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/serialcheck/serialcheck-server/internal/config"
)

// dummyHash is compared against when no account matches, so an unknown
// username costs the same as a wrong password. It uses the cost stored
// admin hashes are created with.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("serialcheck-dummy-password"), config.AdminBcryptCost)
	return hash
})

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// BurnPasswordCheck performs a bcrypt comparison whose result is discarded.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
}

package psswd

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher хеширует пароли юзеров bcrypt'ом с заданной стоимостью.
type BcryptHasher struct {
	cost int
}

// New создает хешер. При cost вне допустимого диапазона bcrypt используется bcrypt.DefaultCost.
func New(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (p *BcryptHasher) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(bytes), nil
}

func (p *BcryptHasher) ComparePassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

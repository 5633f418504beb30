package psswd

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type HashTestSuite struct {
	suite.Suite
}

func TestHashSuite(t *testing.T) {
	suite.Run(t, new(HashTestSuite))
}

func (s *HashTestSuite) TestHashAndCompare() {
	hasher := New(bcrypt.MinCost)
	hash, err := hasher.HashPassword("super_pass")
	s.Require().NoError(err)
	s.NotEqual("super_pass", hash)

	s.True(hasher.ComparePassword("super_pass", hash))
	s.False(hasher.ComparePassword("wrong", hash))
}

func (s *HashTestSuite) TestCostFallback() {
	s.Equal(bcrypt.DefaultCost, New(0).cost)
	s.Equal(bcrypt.MinCost, New(bcrypt.MinCost).cost)
}

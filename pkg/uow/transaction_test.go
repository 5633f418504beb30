package uow

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type fakeRepo struct {
	conn DBTX
}

type TransactionTestSuite struct {
	suite.Suite
	tx *Transaction
}

func TestTransactionSuite(t *testing.T) {
	suite.Run(t, new(TransactionTestSuite))
}

func (s *TransactionTestSuite) SetupTest() {
	repositories := map[RepositoryName]RepositoryFactory{
		"fake": func(conn DBTX) Repository {
			return &fakeRepo{conn: conn}
		},
	}
	s.tx = NewTransaction(nil, repositories)
}

func (s *TransactionTestSuite) TestGetAs() {
	repo, err := GetAs[*fakeRepo](s.tx, "fake")
	s.Require().NoError(err)
	s.NotNil(repo)

	_, notRegisteredErr := GetAs[*fakeRepo](s.tx, "unknown")
	s.Require().ErrorIs(notRegisteredErr, ErrRepositoryNotRegistered)

	_, invalidTypeErr := GetAs[string](s.tx, "fake")
	s.Require().ErrorIs(invalidTypeErr, ErrInvalidRepositoryType)
}

func (s *TransactionTestSuite) TestRegister() {
	u := NewUnitOfWork(nil)
	factory := func(conn DBTX) Repository { return &fakeRepo{conn: conn} }

	s.Require().NoError(u.Register("fake", factory))
	s.Require().ErrorIs(u.Register("fake", factory), ErrRepositoryAlreadyRegistered)

	repo, err := GetRepositoryAs[*fakeRepo](u, "fake")
	s.Require().NoError(err)
	s.NotNil(repo)
}

package repoargs

import (
	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/shopspring/decimal"
)

type CourseUpsert struct {
	Code  string
	Name  string
	Type  domain.CourseType
	Price decimal.Decimal
}

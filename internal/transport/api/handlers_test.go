package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/logger"
	"github.com/fsdevblog/study-billing/internal/service"
	"github.com/fsdevblog/study-billing/internal/service/tokens"
	"github.com/fsdevblog/study-billing/internal/transport/api/mocks"
	"github.com/fsdevblog/study-billing/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type HandlersTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockUserService    *mocks.MockUserServicer
	mockPaymentService *mocks.MockPaymentServicer
	mockTransService   *mocks.MockTransactionServicer
	mockCourseService  *mocks.MockCourseServicer
	jwtSecret          []byte
	userToken          string
	adminToken         string
}

const (
	testUserID  int64 = 1
	testAdminID int64 = 2
)

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.mockPaymentService = mocks.NewMockPaymentServicer(mockCtrl)
	s.mockTransService = mocks.NewMockTransactionServicer(mockCtrl)
	s.mockCourseService = mocks.NewMockCourseServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	router, err := New(RouterArgs{
		Logger:             logger.New(io.Discard),
		UserService:        s.mockUserService,
		PaymentService:     s.mockPaymentService,
		TransactionService: s.mockTransService,
		CourseService:      s.mockCourseService,
		JWTSecretKey:       s.jwtSecret,
	})
	s.Require().NoError(err)
	s.router = router

	userToken, uErr := tokens.GenerateUserJWT(testUserID, "user@example.com",
		[]string{domain.RoleUser}, time.Hour, s.jwtSecret)
	s.Require().NoError(uErr)
	s.userToken = userToken

	adminToken, aErr := tokens.GenerateUserJWT(testAdminID, "admin@example.com",
		[]string{domain.RoleSuperAdmin, domain.RoleUser}, time.Hour, s.jwtSecret)
	s.Require().NoError(aErr)
	s.adminToken = adminToken
}

// request выполняет запрос и декодирует JSON ответ в out (если out не nil).
func (s *HandlersTestSuite) request(method, url, body, jwtToken string, out any) int {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	var reqOpts []func(*testutils.RequestOptions)
	reqOpts = append(reqOpts, testutils.WithHeader("Content-Type", "application/json"))
	if jwtToken != "" {
		reqOpts = append(reqOpts, testutils.WithHeader("Authorization", fmt.Sprintf("Bearer %s", jwtToken)))
	}

	resp, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: method,
		URL:    url,
		Body:   reader,
	}, reqOpts...)
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *HandlersTestSuite) TestRegister() {
	s.mockUserService.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{Email: "new@example.com", Password: "secret1"}).
		Return(&domain.User{ID: 10}, &service.AuthTokens{Token: "jwt", RefreshToken: "refresh"}, nil)
	s.mockUserService.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{Email: "user@example.com", Password: "secret1"}).
		Return(nil, nil, domain.ErrDuplicateKey)

	cases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "created",
			body:       `{"email":"new@example.com","password":"secret1"}`,
			wantStatus: http.StatusCreated,
		}, {
			name:       "duplicate email",
			body:       `{"email":"user@example.com","password":"secret1"}`,
			wantStatus: http.StatusConflict,
		}, {
			name:       "invalid email",
			body:       `{"email":"not-an-email","password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "short password",
			body:       `{"email":"new@example.com","password":"123"}`,
			wantStatus: http.StatusBadRequest,
		}, {
			name: "email over bytes",
			body: fmt.Sprintf(`{"email":"%s@example.com","password":"secret1"}`,
				testutils.GenerateOverBytesUnderRunes(50)),
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "broken json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			var resp map[string]any
			status := s.request(http.MethodPost, RouteGroup+RegisterRoute, tc.body, "", &resp)
			s.Equal(tc.wantStatus, status)
			if tc.wantStatus == http.StatusCreated {
				s.Equal("jwt", resp["token"])
				s.Equal("refresh", resp["refresh_token"])
			} else {
				s.Contains(resp, "error")
			}
		})
	}
}

func (s *HandlersTestSuite) TestLogin() {
	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Email: "user@example.com", Password: "1234567"}).
		Return(&service.AuthTokens{Token: "jwt", RefreshToken: "refresh"}, nil)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Email: "user@example.com", Password: "wrong"}).
		Return(nil, fmt.Errorf("login: %w", domain.ErrPasswordMissMatch))
	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Email: "nobody@example.com", Password: "wrong"}).
		Return(nil, fmt.Errorf("login: %w", domain.ErrRecordNotFound))

	var okResp TokensResponse
	s.Equal(http.StatusOK, s.request(http.MethodPost, RouteGroup+LoginRoute,
		`{"username":"user@example.com","password":"1234567"}`, "", &okResp))
	s.Equal("jwt", okResp.Token)
	s.Equal("refresh", okResp.RefreshToken)

	s.Equal(http.StatusUnauthorized, s.request(http.MethodPost, RouteGroup+LoginRoute,
		`{"username":"user@example.com","password":"wrong"}`, "", nil))
	s.Equal(http.StatusUnauthorized, s.request(http.MethodPost, RouteGroup+LoginRoute,
		`{"username":"nobody@example.com","password":"wrong"}`, "", nil))
	s.Equal(http.StatusBadRequest, s.request(http.MethodPost, RouteGroup+LoginRoute,
		`{"username":"user@example.com"}`, "", nil))
}

func (s *HandlersTestSuite) TestRefresh() {
	s.mockUserService.EXPECT().Refresh(gomock.Any(), "valid").
		Return(&service.AuthTokens{Token: "jwt", RefreshToken: "valid"}, nil)
	s.mockUserService.EXPECT().Refresh(gomock.Any(), "expired").
		Return(nil, domain.ErrRefreshExpired)
	s.mockUserService.EXPECT().Refresh(gomock.Any(), "unknown").
		Return(nil, domain.ErrRecordNotFound)

	var okResp TokensResponse
	s.Equal(http.StatusOK, s.request(http.MethodPost, RouteGroup+RefreshRoute,
		`{"refresh_token":"valid"}`, "", &okResp))
	s.Equal("jwt", okResp.Token)
	s.Equal("valid", okResp.RefreshToken)

	s.Equal(http.StatusUnauthorized, s.request(http.MethodPost, RouteGroup+RefreshRoute,
		`{"refresh_token":"expired"}`, "", nil))
	s.Equal(http.StatusUnauthorized, s.request(http.MethodPost, RouteGroup+RefreshRoute,
		`{"refresh_token":"unknown"}`, "", nil))
}

func (s *HandlersTestSuite) TestCoursesIndex() {
	s.mockCourseService.EXPECT().List(gomock.Any()).Return([]domain.Course{
		{ID: 1, Code: "1course", Name: "Go", Type: domain.CourseTypeRent, Price: decimal.RequireFromString("99.9")},
		{ID: 2, Code: "2course", Name: "Git", Type: domain.CourseTypeFree, Price: decimal.Zero},
	}, nil)

	var resp []map[string]any
	s.Equal(http.StatusOK, s.request(http.MethodGet, RouteGroup+CoursesRoute, "", "", &resp))
	s.Require().Len(resp, 2)
	s.Equal("1course", resp[0]["code"])
	s.Equal("rent", resp[0]["type"])
	s.Equal("99.90", resp[0]["price"])
	s.Equal("free", resp[1]["type"])
	s.NotContains(resp[1], "price")
}

func (s *HandlersTestSuite) TestCourseShow() {
	s.mockCourseService.EXPECT().GetByCode(gomock.Any(), "3course").
		Return(&domain.Course{Code: "3course", Name: "SQL", Type: domain.CourseTypeBuy,
			Price: decimal.RequireFromString("159")}, nil)
	s.mockCourseService.EXPECT().GetByCode(gomock.Any(), "missing").
		Return(nil, domain.ErrRecordNotFound)

	var course CourseResponse
	s.Equal(http.StatusOK, s.request(http.MethodGet, RouteGroup+"/courses/3course", "", "", &course))
	s.Equal(CourseResponse{Code: "3course", Name: "SQL", Type: "buy", Price: "159.00"}, course)

	var errResp map[string]string
	s.Equal(http.StatusNotFound, s.request(http.MethodGet, RouteGroup+"/courses/missing", "", "", &errResp))
	s.Equal("course not found", errResp["error"])
}

func (s *HandlersTestSuite) TestCoursePay() {
	expiresAt := time.Date(2025, 5, 8, 12, 0, 0, 0, time.UTC)

	s.mockPaymentService.EXPECT().PayCourse(gomock.Any(), testUserID, "1course").
		Return(&service.Receipt{
			Transaction: &domain.Transaction{ID: 5, Type: domain.TransactionTypePayment, ExpiresAt: &expiresAt},
			Course:      &domain.Course{Code: "1course", Type: domain.CourseTypeRent},
		}, nil)
	s.mockPaymentService.EXPECT().PayCourse(gomock.Any(), testUserID, "3course").
		Return(nil, domain.NewPaymentError("3course", domain.ErrInsufficientFunds))
	s.mockPaymentService.EXPECT().PayCourse(gomock.Any(), testUserID, "2course").
		Return(nil, domain.NewPaymentError("2course", domain.ErrAlreadyPurchased))
	s.mockPaymentService.EXPECT().PayCourse(gomock.Any(), testUserID, "missing").
		Return(nil, fmt.Errorf("pay course: %w `missing`", domain.ErrCourseNotFound))
	s.mockPaymentService.EXPECT().PayCourse(gomock.Any(), testAdminID, "1course").
		Return(nil, fmt.Errorf("pay course: %w", domain.ErrRecordNotFound))

	var okResp PayResponse
	s.Equal(http.StatusOK, s.request(http.MethodPost, RouteGroup+"/courses/1course/pay", "", s.userToken, &okResp))
	s.True(okResp.Success)
	s.Equal("rent", okResp.CourseType)
	s.Equal("2025-05-08T12:00:00Z", okResp.ExpiresAt)

	cases := []struct {
		name       string
		code       string
		jwtToken   string
		wantStatus int
	}{
		{name: "insufficient funds", code: "3course", jwtToken: s.userToken, wantStatus: http.StatusNotAcceptable},
		{name: "already purchased", code: "2course", jwtToken: s.userToken, wantStatus: http.StatusConflict},
		{name: "unknown course", code: "missing", jwtToken: s.userToken, wantStatus: http.StatusNotFound},
		{name: "deleted user", code: "1course", jwtToken: s.adminToken, wantStatus: http.StatusUnauthorized},
		{name: "not authorized", code: "1course", wantStatus: http.StatusUnauthorized},
		{name: "broken token", code: "1course", jwtToken: "broken", wantStatus: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			var resp map[string]any
			s.Equal(tc.wantStatus, s.request(http.MethodPost, RouteGroup+"/courses/"+tc.code+"/pay",
				"", tc.jwtToken, &resp))
			s.Contains(resp, "error")
		})
	}
}

func (s *HandlersTestSuite) TestCourseAdmin() {
	price := decimal.RequireFromString("10.5")
	s.mockCourseService.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, args service.CourseArgs) (*domain.Course, error) {
			s.Equal("new", args.Code)
			s.Equal("rent", args.Type)
			s.True(price.Equal(args.Price))
			return &domain.Course{Code: args.Code}, nil
		})
	s.mockCourseService.EXPECT().
		Update(gomock.Any(), "1course", gomock.Any()).
		Return(&domain.Course{Code: "1course", Name: "Go 2", Type: domain.CourseTypeBuy, Price: price}, nil)
	s.mockCourseService.EXPECT().Delete(gomock.Any(), "1course").Return(domain.ErrCourseInUse)
	s.mockCourseService.EXPECT().Delete(gomock.Any(), "4course").Return(nil)

	body := `{"code":"new","name":"New","type":"rent","price":10.5}`

	s.Equal(http.StatusForbidden, s.request(http.MethodPost, RouteGroup+CourseCreateRoute, body, s.userToken, nil))
	s.Equal(http.StatusUnauthorized, s.request(http.MethodPost, RouteGroup+CourseCreateRoute, body, "", nil))

	var created map[string]bool
	s.Equal(http.StatusCreated, s.request(http.MethodPost, RouteGroup+CourseCreateRoute, body, s.adminToken, &created))
	s.True(created["success"])

	s.Equal(http.StatusBadRequest, s.request(http.MethodPost, RouteGroup+CourseCreateRoute,
		`{"code":"new","name":"New","type":"lease","price":10.5}`, s.adminToken, nil))

	var updated CourseResponse
	s.Equal(http.StatusOK, s.request(http.MethodPost, RouteGroup+"/courses/1course/edit",
		`{"name":"Go 2","type":"buy","price":"10.50"}`, s.adminToken, &updated))
	s.Equal("10.50", updated.Price)

	s.Equal(http.StatusConflict, s.request(http.MethodDelete, RouteGroup+"/courses/1course/delete",
		"", s.adminToken, nil))
	s.Equal(http.StatusOK, s.request(http.MethodDelete, RouteGroup+"/courses/4course/delete",
		"", s.adminToken, nil))
}

func (s *HandlersTestSuite) TestTransactionsIndex() {
	payment := domain.TransactionTypePayment
	createdAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	expiresAt := createdAt.AddDate(0, 0, 7)

	s.mockTransService.EXPECT().
		ListTransactions(gomock.Any(), testUserID, domain.TransactionFilter{
			Type:        &payment,
			CourseCode:  "1course",
			SkipExpired: true,
		}).
		Return([]domain.Transaction{{
			ID:         3,
			CreatedAt:  createdAt,
			Type:       domain.TransactionTypePayment,
			Amount:     decimal.RequireFromString("99.9"),
			CourseCode: "1course",
			ExpiresAt:  &expiresAt,
		}}, nil)
	s.mockTransService.EXPECT().
		ListTransactions(gomock.Any(), testUserID, domain.TransactionFilter{}).
		Return([]domain.Transaction{{
			ID:        1,
			CreatedAt: createdAt,
			Type:      domain.TransactionTypeDeposit,
			Amount:    decimal.RequireFromString("1000"),
		}}, nil)

	var filtered []map[string]any
	s.Equal(http.StatusOK, s.request(http.MethodGet,
		RouteGroup+TransactionsRoute+"?filter[type]=payment&filter[course_code]=1course&filter[skip_expired]=1",
		"", s.userToken, &filtered))
	s.Require().Len(filtered, 1)
	s.Equal("99.90", filtered[0]["amount"])
	s.Equal("1course", filtered[0]["course_code"])
	s.Equal("2025-05-08T10:00:00Z", filtered[0]["expires_at"])

	var all []map[string]any
	s.Equal(http.StatusOK, s.request(http.MethodGet, RouteGroup+TransactionsRoute, "", s.userToken, &all))
	s.Require().Len(all, 1)
	s.Equal("deposit", all[0]["type"])
	s.NotContains(all[0], "course_code")
	s.NotContains(all[0], "expires_at")

	s.Equal(http.StatusBadRequest, s.request(http.MethodGet,
		RouteGroup+TransactionsRoute+"?filter[type]=refund", "", s.userToken, nil))
	s.Equal(http.StatusUnauthorized, s.request(http.MethodGet, RouteGroup+TransactionsRoute, "", "", nil))
}

func (s *HandlersTestSuite) TestDeposit() {
	s.mockPaymentService.EXPECT().
		Deposit(gomock.Any(), testUserID, gomock.Any()).
		DoAndReturn(func(_ any, _ int64, amount decimal.Decimal) (*service.Receipt, error) {
			return &service.Receipt{
				Transaction: &domain.Transaction{ID: 7, Amount: amount},
				Balance:     decimal.RequireFromString("1100.5"),
			}, nil
		}).Times(1)

	var okResp DepositResponse
	s.Equal(http.StatusOK, s.request(http.MethodPost, RouteGroup+DepositRoute,
		`{"amount":"100.5"}`, s.userToken, &okResp))
	s.Equal(DepositResponse{TransactionID: 7, Amount: "100.50", Balance: "1100.50"}, okResp)

	var errResp map[string]string
	s.Equal(http.StatusBadRequest, s.request(http.MethodPost, RouteGroup+DepositRoute,
		`{"amount":-5}`, s.userToken, &errResp))
	s.Equal(domain.ErrInvalidAmount.Error(), errResp["error"])

	for _, amount := range []string{`"0.005"`, `"1e10"`} {
		s.Run(amount, func() {
			var resp map[string]string
			s.Equal(http.StatusBadRequest, s.request(http.MethodPost, RouteGroup+DepositRoute,
				`{"amount":`+amount+`}`, s.userToken, &resp))
			s.Equal(domain.ErrInvalidAmount.Error(), resp["error"])
		})
	}

	s.Equal(http.StatusBadRequest, s.request(http.MethodPost, RouteGroup+DepositRoute,
		`{"amount":"abc"}`, s.userToken, nil))
}

func (s *HandlersTestSuite) TestCurrentUser() {
	s.mockUserService.EXPECT().Current(gomock.Any(), testUserID).Return(&domain.User{
		ID:      testUserID,
		Email:   "user@example.com",
		Roles:   []string{domain.RoleUser},
		Balance: decimal.RequireFromString("900.1"),
	}, nil)

	var resp CurrentUserResponse
	s.Equal(http.StatusOK, s.request(http.MethodGet, RouteGroup+CurrentUserRoute, "", s.userToken, &resp))
	s.Equal(CurrentUserResponse{
		Username: "user@example.com",
		Roles:    []string{domain.RoleUser},
		Balance:  "900.10",
	}, resp)
}

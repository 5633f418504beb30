package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CourseHandler struct {
	courseService  CourseServicer
	paymentService PaymentServicer
}

func NewCourseHandler(courseService CourseServicer, paymentService PaymentServicer) *CourseHandler {
	return &CourseHandler{
		courseService:  courseService,
		paymentService: paymentService,
	}
}

type CourseResponse struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Price string `json:"price,omitempty"`
}

func newCourseResponse(course *domain.Course) CourseResponse {
	resp := CourseResponse{
		Code: course.Code,
		Name: course.Name,
		Type: string(course.Type),
	}
	if !course.Price.IsZero() {
		resp.Price = course.Price.StringFixed(2)
	}
	return resp
}

// Index GET RouteGroup + CoursesRoute. Каталог курсов.
func (h *CourseHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	courses, err := h.courseService.List(ctx)
	if err != nil {
		abortInternal(c, err)
		return
	}

	response := make([]CourseResponse, len(courses))
	for i := range courses {
		response[i] = newCourseResponse(&courses[i])
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + CourseRoute.
func (h *CourseHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	course, err := h.courseService.GetByCode(ctx, c.Param("code"))
	if err != nil {
		h.abortCourseErr(c, err)
		return
	}
	c.JSON(http.StatusOK, newCourseResponse(course))
}

type CourseParams struct {
	Code  string          `binding:"required,max_bytes=255" json:"code"`
	Name  string          `binding:"required,max_bytes=255" json:"name"`
	Type  string          `binding:"required,course_type"   json:"type"`
	Price decimal.Decimal `json:"price"`
}

type CourseUpdateParams struct {
	Name  string          `binding:"required,max_bytes=255" json:"name"`
	Type  string          `binding:"required,course_type"   json:"type"`
	Price decimal.Decimal `json:"price"`
}

// Create POST RouteGroup + CourseCreateRoute. Только для администратора.
func (h *CourseHandler) Create(c *gin.Context) {
	var params CourseParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortBind(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	_, err := h.courseService.Create(ctx, service.CourseArgs{
		Code:  params.Code,
		Name:  params.Name,
		Type:  params.Type,
		Price: params.Price,
	})
	if err != nil {
		h.abortCourseErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// Update POST RouteGroup + CourseEditRoute. Только для администратора.
func (h *CourseHandler) Update(c *gin.Context) {
	var params CourseUpdateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortBind(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	course, err := h.courseService.Update(ctx, c.Param("code"), service.CourseArgs{
		Name:  params.Name,
		Type:  params.Type,
		Price: params.Price,
	})
	if err != nil {
		h.abortCourseErr(c, err)
		return
	}
	c.JSON(http.StatusOK, newCourseResponse(course))
}

// Delete DELETE RouteGroup + CourseDeleteRoute. Только для администратора.
func (h *CourseHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.courseService.Delete(ctx, c.Param("code")); err != nil {
		h.abortCourseErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type PayResponse struct {
	Success    bool   `json:"success"`
	CourseType string `json:"course_type"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

// Pay POST RouteGroup + CoursePayRoute. Оплата курса с баланса текущего юзера.
func (h *CourseHandler) Pay(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	receipt, err := h.paymentService.PayCourse(ctx, currentUserID, c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCourseNotFound):
			abortPublic(c, http.StatusNotFound, errors.New("course not found"))
		case errors.Is(err, domain.ErrRecordNotFound):
			// юзер из токена удален.
			abortPublic(c, http.StatusUnauthorized, errors.New("user not found"))
		case errors.Is(err, domain.ErrInsufficientFunds):
			abortPublic(c, http.StatusNotAcceptable, domain.ErrInsufficientFunds)
		case errors.Is(err, domain.ErrAlreadyPurchased):
			abortPublic(c, http.StatusConflict, domain.ErrAlreadyPurchased)
		default:
			abortInternal(c, err)
		}
		return
	}

	resp := PayResponse{
		Success:    true,
		CourseType: string(receipt.Course.Type),
	}
	if receipt.Transaction.ExpiresAt != nil {
		resp.ExpiresAt = receipt.Transaction.ExpiresAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CourseHandler) abortCourseErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		abortPublic(c, http.StatusNotFound, errors.New("course not found"))
	case errors.Is(err, domain.ErrDuplicateKey):
		abortPublic(c, http.StatusConflict, errors.New("course with this code already exists"))
	case errors.Is(err, domain.ErrCourseInUse):
		abortPublic(c, http.StatusConflict, domain.ErrCourseInUse)
	case errors.Is(err, domain.ErrInvalidCourseType):
		abortPublic(c, http.StatusBadRequest, domain.ErrInvalidCourseType)
	case errors.Is(err, domain.ErrInvalidPrice):
		abortPublic(c, http.StatusBadRequest, domain.ErrInvalidPrice)
	default:
		abortInternal(c, err)
	}
}

package response

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultPageSize   = 15
	MaxPageSize       = 1000
	CountQueryTimeout = 5 * time.Second
	DataQueryTimeout  = 3 * time.Second
)

// Pagination represents the pagination details in a response.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedResponse is the standard structure for all paginated API responses.
type PaginatedResponse struct {
	Items      any        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Paginate runs a GORM query with page/page_size parameters from the request
// and returns a standardized paginated response. The query is cloned for the
// count so the data fetch is unaffected.
func Paginate(c *gin.Context, query *gorm.DB, dest any) (*PaginatedResponse, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset := (page - 1) * pageSize

	var totalItems int64
	countCtx, countCancel := context.WithTimeout(c.Request.Context(), CountQueryTimeout)
	defer countCancel()
	countQuery := query.Session(&gorm.Session{NewDB: true})
	if err := countQuery.WithContext(countCtx).Count(&totalItems).Error; err != nil {
		logrus.WithError(err).Warn("Pagination COUNT query failed")
		return nil, err
	}

	dataCtx, dataCancel := context.WithTimeout(c.Request.Context(), DataQueryTimeout)
	defer dataCancel()
	dataQuery := query.Session(&gorm.Session{NewDB: true})
	if err := dataQuery.WithContext(dataCtx).Limit(pageSize).Offset(offset).Find(dest).Error; err != nil {
		logrus.WithError(err).Warn("Pagination data query failed")
		return nil, err
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))

	return &PaginatedResponse{
		Items: dest,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: totalItems,
			TotalPages: totalPages,
		},
	}, nil
}

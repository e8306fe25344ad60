package handler

import (
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/acadreg/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// bindListFilter binds common pagination query parameters into a domain
// filter, applying defaults for anything the client omitted
func bindListFilter(c *gin.Context) (shared.Filter, error) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, err
	}

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter, nil
}

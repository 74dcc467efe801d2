package rest

import (
	"github.com/gin-gonic/gin"
)

const (
	DEFAULT_PAGE_SIZE = 20
	MAX_PAGE_SIZE     = 100
)

// LoadPageQueryParams holds query parameters for GET /wallets/:wallet/nfts
type LoadPageQueryParams struct {
	Page          int  `form:"page,default=1"`
	PageSize      int  `form:"page_size,default=20"`
	IncludeStaked bool `form:"include_staked,default=false"`
	Refresh       bool `form:"refresh,default=false"`
}

// ParseLoadPageQuery parses query parameters for GET /wallets/:wallet/nfts.
// Page bounds are left to the page cache; only the size is capped.
func ParseLoadPageQuery(c *gin.Context) (*LoadPageQueryParams, error) {
	var params LoadPageQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.PageSize > MAX_PAGE_SIZE {
		params.PageSize = MAX_PAGE_SIZE
	}

	return &params, nil
}

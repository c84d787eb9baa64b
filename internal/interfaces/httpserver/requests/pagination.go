package requests

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// GetPaginationFromQuery reads limit and offset query parameters.
func GetPaginationFromQuery(reqCtx *gin.Context) (*query.Pagination, error) {
	p := &query.Pagination{Limit: query.DefaultLimit}

	if limitStr := reqCtx.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid limit number", err, "04aecd25-bd32-428b-864d-aeb7ecb06e53")
		}
		p.Limit = limit
	}
	if offsetStr := reqCtx.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid offset number", err, "a3e0ea22-afc6-45df-b686-a194868af415")
		}
		p.Offset = offset
	}

	p.Normalize()
	return p, nil
}

// GetBoolQuery parses an optional boolean query parameter.
func GetBoolQuery(reqCtx *gin.Context, name string) (*bool, error) {
	raw := reqCtx.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, platformerrors.NewErrorWithContext(reqCtx.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid boolean query parameter "+name, err, "5e1c7a93-2f08-4b6d-a4e1-c9d3b7f0e582", map[string]any{"param": name})
	}
	return &value, nil
}

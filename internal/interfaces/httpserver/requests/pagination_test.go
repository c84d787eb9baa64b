package requests

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

func contextFor(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestGetPaginationFromQuery(t *testing.T) {
	p, err := GetPaginationFromQuery(contextFor("/x"))
	require.NoError(t, err)
	assert.Equal(t, query.Pagination{Limit: query.DefaultLimit}, *p)

	p, err = GetPaginationFromQuery(contextFor("/x?limit=5000&offset=40"))
	require.NoError(t, err)
	assert.Equal(t, query.MaxLimit, p.Limit)
	assert.Equal(t, 40, p.Offset)

	for _, target := range []string{"/x?limit=0", "/x?limit=abc", "/x?offset=-1"} {
		_, err = GetPaginationFromQuery(contextFor(target))
		assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation), target)
	}
}

func TestGetBoolQuery(t *testing.T) {
	v, err := GetBoolQuery(contextFor("/x?featured=true"), "featured")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, *v)

	v, err = GetBoolQuery(contextFor("/x"), "featured")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = GetBoolQuery(contextFor("/x?featured=maybe"), "featured")
	assert.Error(t, err)
}

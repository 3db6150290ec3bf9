package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rosterQuery struct {
	IncludeArchived bool `form:"include_archived"`
}

func newQueryRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation := NewValidationMiddleware()

	router := gin.New()
	router.GET("/members", validation.ValidateQuery(&rosterQuery{}), func(c *gin.Context) {
		validated, exists := c.Get("validated_query")
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query not bound"})
			return
		}
		q := validated.(*rosterQuery)
		c.JSON(http.StatusOK, gin.H{"include_archived": q.IncludeArchived})
	})
	return router
}

func TestValidateQueryBindsParams(t *testing.T) {
	router := newQueryRouter()

	tests := []struct {
		name     string
		url      string
		wantCode int
		wantBody string
	}{
		{"flag set", "/members?include_archived=true", http.StatusOK, `"include_archived":true`},
		{"flag omitted", "/members", http.StatusOK, `"include_archived":false`},
		{"flag malformed", "/members?include_archived=banana", http.StatusBadRequest, "invalid query parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tt.url, nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

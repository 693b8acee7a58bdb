package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adboard/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentForm struct {
	Amount string `json:"amount" binding:"required"`
	Mode   string `json:"pricing_mode" binding:"omitempty,oneof=months days"`
	Months int    `json:"duration_months" binding:"omitempty,max=120"`
}

func bindRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/bind", func(c *gin.Context) {
		var form paymentForm
		if err := c.ShouldBindJSON(&form); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestHandleValidationError(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantCode    string
		wantDetails map[string]string
	}{
		{
			name:     "field errors use json names",
			body:     `{"pricing_mode": "weeks", "duration_months": 200}`,
			wantCode: dto.ErrCodeValidation,
			wantDetails: map[string]string{
				"amount":          "This field is required",
				"pricing_mode":    "Must be one of: months days",
				"duration_months": "Must be at most 120",
			},
		},
		{
			name:     "broken json",
			body:     `{"amount": `,
			wantCode: dto.ErrCodeInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			bindRouter().ServeHTTP(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, w.Header().Get(RequestIDHeader), resp.Error.RequestID)

			got := make(map[string]string, len(resp.Error.Details))
			for _, d := range resp.Error.Details {
				got[d.Field] = d.Message
			}
			if tt.wantDetails == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.wantDetails, got)
		})
	}
}

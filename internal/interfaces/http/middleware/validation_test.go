package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/billing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineInput struct {
	Quantity int64 `json:"quantity" binding:"gt=0"`
}

type documentInput struct {
	CustomerID string      `json:"customer_id" binding:"required,uuid"`
	DueDate    string      `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Items      []lineInput `json:"items" binding:"required,min=1,dive"`
}

func newValidationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req documentInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
	})
	return router
}

func postJSON(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	t.Run("reports each field by its JSON path", func(t *testing.T) {
		w := postJSON(router, `{"customer_id":"nope","due_date":"15/10/2026","items":[{"quantity":0}]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Tag
		}
		assert.Equal(t, "uuid", fields["customer_id"])
		assert.Equal(t, "datetime", fields["due_date"])
		assert.Equal(t, "gt", fields["items[0].quantity"])
	})

	t.Run("empty item list", func(t *testing.T) {
		w := postJSON(router, `{"customer_id":"6f1c0b8e-2f43-4a57-9a55-3c1f8f6b2d10","items":[]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Must contain at least 1 item(s)")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w := postJSON(router, `{"customer_id":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidJSON)
	})

	t.Run("wrong JSON type", func(t *testing.T) {
		w := postJSON(router, `{"customer_id":"6f1c0b8e-2f43-4a57-9a55-3c1f8f6b2d10","items":[{"quantity":"two"}]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Contains(t, resp.Error.Details[0].Message, "int64")
	})

	t.Run("valid input passes", func(t *testing.T) {
		w := postJSON(router, `{"customer_id":"6f1c0b8e-2f43-4a57-9a55-3c1f8f6b2d10","items":[{"quantity":2}]}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Required string   `validate:"required"`
		Email    string   `validate:"omitempty,email"`
		Short    string   `validate:"min=5"`
		Status   string   `validate:"oneof=PAID CANCELLED"`
		Lines    []string `validate:"min=1"`
	}

	v := validator.New()
	err := v.Struct(sample{Email: "invalid", Short: "ab", Status: "OPEN"})
	require.Error(t, err)

	messages := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		messages[e.Field()] = getValidationMessage(e)
	}

	assert.Equal(t, "This field is required", messages["Required"])
	assert.Equal(t, "Invalid email format", messages["Email"])
	assert.Equal(t, "Must be at least 5 characters", messages["Short"])
	assert.Equal(t, "Must be one of: PAID CANCELLED", messages["Status"])
	assert.Equal(t, "Must contain at least 1 item(s)", messages["Lines"])
}

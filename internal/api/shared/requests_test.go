package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name string `json:"name" validate:"required,max=10"`
	Age  int    `json:"age"  validate:"gte=0"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
		isErr   bool
	}{
		{name: "valid json", body: `{"name":"ana","age":30}`},
		{name: "invalid json", body: `{"name":"ana",}`, isErr: true},
		{name: "empty body", body: "", wantErr: ErrEmptyBody, isErr: true},
		{name: "unknown field", body: `{"name":"ana","extra":1}`, isErr: true},
		{name: "trailing data", body: `{"name":"ana"} {"name":"bia"}`, isErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var v sampleRequest
			err := DecodeJSON(httptest.NewRecorder(), req, &v)
			if !tc.isErr {
				require.NoError(t, err)
				assert.Equal(t, "ana", v.Name)
				return
			}
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(sampleRequest{Name: "ana"}))

	err := ValidateRequest(sampleRequest{Name: "a very long name"})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "max", verrs[0].Tag())

	assert.Error(t, ValidateRequest(sampleRequest{}))
}

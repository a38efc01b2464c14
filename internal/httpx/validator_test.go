package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	ISBN     string `validate:"required"`
	Location string `validate:"max=8"`
}

func TestValidateStruct_ValidInput(t *testing.T) {
	errs := ValidateStruct(testRequest{ISBN: "9780130113024", Location: "A1"})
	assert.Empty(t, errs)
}

func TestValidateStruct_RequiredField(t *testing.T) {
	errs := ValidateStruct(testRequest{})
	require.Len(t, errs, 1)
	assert.Equal(t, "isbn", errs[0].Field)
	assert.Equal(t, "ISBN is required", errs[0].Message)
}

func TestValidateStruct_MaxLength(t *testing.T) {
	errs := ValidateStruct(testRequest{ISBN: "1", Location: "much too long"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Location must be at most 8 characters", errs[0].Message)
}

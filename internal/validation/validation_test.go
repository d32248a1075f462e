package validation

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thesrcielos/gamehub/internal/apperrors"
)

type sample struct {
	Mode    string `json:"mode" validate:"required,oneof=online offline"`
	Score   *int   `json:"score" validate:"required,min=0"`
	Message string `json:"message" validate:"max=5"`
}

func TestStruct_FieldMessages(t *testing.T) {
	neg := -1
	fields := Struct(&sample{Mode: "lan", Score: &neg, Message: "too long"})

	assert.Equal(t, "mode must be one of [online offline]", fields["mode"])
	assert.Equal(t, "score must be at least 0", fields["score"])
	assert.Equal(t, "message must be at most 5 characters", fields["message"])
}

func TestStruct_RequiredPointer(t *testing.T) {
	fields := Struct(&sample{Mode: "online"})
	assert.Equal(t, "score is required", fields["score"])
}

func TestCheck_Valid(t *testing.T) {
	zero := 0
	assert.NoError(t, Check(&sample{Mode: "offline", Score: &zero}))
}

func TestCheck_ReturnsValidationError(t *testing.T) {
	err := Check(&sample{})
	assert.True(t, apperrors.HasCode(err, http.StatusUnprocessableEntity))
}

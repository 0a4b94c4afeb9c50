package validation

import (
	"errors"
	"testing"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" binding:"required,email"`
	Vibe  string `json:"vibe" binding:"omitempty,oneof=tranquillo pratico collaborativo"`
}

func TestStruct(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(sample{Email: "a@b.it", Vibe: "pratico"}))
	require.NoError(t, v.Struct(sample{Email: "a@b.it"}))

	err := v.Struct(sample{Email: "a@b.it", Vibe: "chaotic"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "vibe", verr.Field)
	assert.Contains(t, verr.Message, "must be one of")

	err = v.Struct(sample{})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email is required", verr.Message)
}

func TestFromBindError(t *testing.T) {
	assert.NoError(t, FromBindError(nil))

	err := FromBindError(errors.New("unexpected EOF"))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "invalid request body", verr.Message)

	raw := New().validate.Struct(sample{Email: "not-an-email"})
	err = FromBindError(raw)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Field)
	assert.Equal(t, "email must be a valid email", verr.Message)
}

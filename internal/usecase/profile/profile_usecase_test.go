package profile

import (
	"context"
	"testing"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUseCase() *ProfileUseCase {
	return NewProfileUseCase(memory.NewProfileRepository(memory.NewStore()))
}

func strPtr(s string) *string { return &s }

func TestRequireProfile_Gate(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCase()

	_, err := uc.RequireProfile(ctx, "")
	assert.True(t, domain.IsPermissionError(err))

	_, err = uc.RequireProfile(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrOnboardingRequired)

	ok, err := uc.HasProfile(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = uc.UpsertProfile(ctx, "u1", &UpsertProfileRequest{
		Region: "Lombardia",
		City:   "Milano",
		Vibe:   domain.VibeCalm,
	})
	require.NoError(t, err)

	profile, err := uc.RequireProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Milano", profile.City)

	ok, err = uc.HasProfile(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpsertProfile_Validation(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCase()

	tests := []struct {
		name  string
		req   UpsertProfileRequest
		field string
	}{
		{
			name:  "missing region",
			req:   UpsertProfileRequest{City: "Milano"},
			field: "region",
		},
		{
			name:  "city outside region",
			req:   UpsertProfileRequest{Region: "Lazio", City: "Milano"},
			field: "city",
		},
		{
			name:  "unknown vibe",
			req:   UpsertProfileRequest{Region: "Lazio", City: "Roma", Vibe: "caotico"},
			field: "vibe",
		},
		{
			name:  "name too short",
			req:   UpsertProfileRequest{Region: "Lazio", City: "Roma", DisplayName: strPtr("A")},
			field: "display_name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := uc.UpsertProfile(ctx, "u1", &req)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	_, err := uc.UpsertProfile(ctx, "", &UpsertProfileRequest{Region: "Lazio", City: "Roma"})
	assert.True(t, domain.IsPermissionError(err))
}

func TestUpsertProfile_EditReplacesFields(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCase()

	_, err := uc.UpsertProfile(ctx, "u1", &UpsertProfileRequest{Region: "Lazio", City: "Roma"})
	require.NoError(t, err)

	resp, err := uc.UpsertProfile(ctx, "u1", &UpsertProfileRequest{
		DisplayName: strPtr("  Giulia  "),
		Region:      " Toscana ",
		City:        "Firenze",
		HasChildren: domain.ChildrenYes,
		Vibe:        domain.VibePractical,
	})
	require.NoError(t, err)
	assert.Equal(t, "Giulia", *resp.DisplayName)
	assert.Equal(t, 100, resp.Completion)

	got, err := uc.GetMyProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Toscana", got.Region)
	assert.Equal(t, domain.VibePractical, got.Vibe)
}

func TestCompletion(t *testing.T) {
	assert.Equal(t, 0, Completion(nil))
	assert.Equal(t, 10, Completion(&domain.Profile{}))
	assert.Equal(t, 35, Completion(&domain.Profile{Region: "Lazio", City: "Roma"}))
	assert.Equal(t, 60, Completion(&domain.Profile{Region: "Lazio", City: "Roma", Vibe: domain.VibeCalm}))
	assert.Equal(t, 80, Completion(&domain.Profile{Region: "Lazio", City: "Roma", Vibe: domain.VibeCalm, HasChildren: domain.ChildrenNo}))
}

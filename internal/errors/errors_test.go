package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shinobios/mission-api/internal/errors"
)

func TestNew(t *testing.T) {
	err := errors.New(errors.CodeNotFound, "mission not found")

	assert.Equal(t, errors.CodeNotFound, err.Code)
	assert.Equal(t, "NOT_FOUND: mission not found", err.Error())
}

func TestWrapPreservesCode(t *testing.T) {
	inner := errors.FailedPrecondition("mission already started")
	wrapped := errors.Wrap(inner, "cannot initialize battle")

	assert.Equal(t, errors.CodeFailedPrecondition, wrapped.Code)
	assert.ErrorIs(t, wrapped, inner)
	assert.Contains(t, wrapped.Error(), "cannot initialize battle")
}

func TestWrapForeignErrorDefaultsToInternal(t *testing.T) {
	wrapped := errors.Wrap(fmt.Errorf("connection reset"), "redis call failed")

	assert.Equal(t, errors.CodeInternal, wrapped.Code)
	assert.Contains(t, wrapped.Error(), "connection reset")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, "nothing"))
}

func TestUnwrap(t *testing.T) {
	inner := stderrors.New("boom")
	wrapped := errors.Wrap(inner, "outer")

	assert.Equal(t, inner, stderrors.Unwrap(wrapped))
}

func TestIsMatchesByCode(t *testing.T) {
	a := errors.NotFound("mission a")
	b := errors.NotFoundf("mission %s", "b")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, errors.Internal("oops"))
}

func TestWithMeta(t *testing.T) {
	err := errors.ResourceExhausted("cooling down").
		WithMeta("region", "Land of Rivers").
		WithMeta("retry_after", "2s")

	meta := errors.GetMeta(err)
	require.NotNil(t, meta)
	assert.Equal(t, "Land of Rivers", meta["region"])
}

func TestPredicates(t *testing.T) {
	assert.True(t, errors.IsNotFound(errors.NotFound("x")))
	assert.False(t, errors.IsNotFound(errors.Internal("x")))
	assert.False(t, errors.IsNotFound(nil))

	wrapped := errors.Wrap(errors.NotFound("x"), "outer")
	assert.True(t, errors.IsNotFound(wrapped))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeFailedPrecondition, errors.GetCode(errors.FailedPrecondition("x")))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(stderrors.New("plain")))
}

func TestValidationBuilder(t *testing.T) {
	t.Run("no errors builds nil", func(t *testing.T) {
		assert.NoError(t, errors.NewValidationBuilder().Build())
	})

	t.Run("collects field errors", func(t *testing.T) {
		err := errors.NewValidationBuilder().
			RequiredField("ActorID").
			InvalidField("Difficulty", "must be one of D, C, B, A, S").
			Build()

		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidArgument, errors.GetCode(err))
		assert.Contains(t, err.Error(), "ActorID")

		meta := errors.GetMeta(err)
		require.NotNil(t, meta)
		assert.Contains(t, meta, "validation_errors")
	})
}

func TestToGRPCError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"nil", nil, codes.OK},
		{"not found", errors.NotFound("x"), codes.NotFound},
		{"invalid argument", errors.InvalidArgument("x"), codes.InvalidArgument},
		{"already exists", errors.AlreadyExists("x"), codes.AlreadyExists},
		{"resource exhausted", errors.ResourceExhausted("x"), codes.ResourceExhausted},
		{"failed precondition", errors.FailedPrecondition("x"), codes.FailedPrecondition},
		{"unavailable", errors.Unavailable("x"), codes.Unavailable},
		{"unimplemented", errors.Unimplemented("x"), codes.Unimplemented},
		{"plain error", stderrors.New("plain"), codes.Internal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			grpcErr := errors.ToGRPCError(tc.err)
			if tc.want == codes.OK {
				assert.NoError(t, grpcErr)
				return
			}
			assert.Equal(t, tc.want, status.Code(grpcErr))
		})
	}
}

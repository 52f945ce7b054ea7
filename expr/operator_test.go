package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogComplete(t *testing.T) {
	ops := Operators()
	require.Len(t, ops, int(opCount)-1)

	seen := map[string]bool{}
	for _, op := range ops {
		assert.True(t, op.Valid(), op.String())
		assert.NotEmpty(t, op.Name())
		assert.Equal(t, "$"+op.Name(), op.Token())
		assert.NotZero(t, op.Class(), op.Name())
		assert.NotZero(t, op.Shape(), op.Name())
		assert.False(t, seen[op.Name()], "duplicate %s", op.Name())
		seen[op.Name()] = true

		found, ok := LookupOperator(op.Name())
		assert.True(t, ok)
		assert.Equal(t, op, found)
	}
}

func TestLookupOperator(t *testing.T) {
	op, ok := LookupOperator("$degreesToRadians")
	assert.True(t, ok)
	assert.Equal(t, OpDegreesToRadians, op)

	op, ok = LookupOperator("STDDEVPOP")
	assert.True(t, ok)
	assert.Equal(t, OpStdDevPop, op)

	_, ok = LookupOperator("median")
	assert.False(t, ok)
}

func TestOperatorMetadata(t *testing.T) {
	assert.Equal(t, ArityUnaryWithPlace, OpRound.Class())
	assert.Equal(t, ShapeList, OpRound.Shape())
	assert.Equal(t, ArityWindowed, OpDerivative.Class())
	assert.Equal(t, ShapeKeyed, OpIntegral.Shape())
	assert.Equal(t, ArityTrigonometric, OpTanh.Class())
	assert.True(t, OpDerivative.WindowOnly())
	assert.True(t, OpDerivative.RequiresSort())
	assert.True(t, OpCovariancePop.WindowOnly())
	assert.False(t, OpCovariancePop.RequiresSort())
	assert.False(t, OpSum.WindowOnly())

	assert.Equal(t, "invalid", opInvalid.String())
	assert.Equal(t, "", Operator(500).Token())
	assert.Equal(t, "unary-with-optional-place", ArityUnaryWithPlace.String())
	assert.Equal(t, "unknown", ArityClass(0).String())
}

func TestWindowUnits(t *testing.T) {
	tokens := map[WindowUnit]string{
		UnitWeek:        "week",
		UnitDay:         "day",
		UnitHour:        "hour",
		UnitMinute:      "minute",
		UnitSecond:      "second",
		UnitMillisecond: "millisecond",
	}
	for unit, token := range tokens {
		assert.Equal(t, token, unit.Token())
		parsed, err := ParseWindowUnit(token)
		require.NoError(t, err)
		assert.Equal(t, unit, parsed)
	}

	parsed, err := ParseWindowUnit("HOUR")
	require.NoError(t, err)
	assert.Equal(t, UnitHour, parsed)

	_, err = ParseWindowUnit("fortnight")
	assert.ErrorIs(t, err, ErrInvalidUnit)

	assert.Equal(t, "", WindowUnitUnset.Token())
	assert.Equal(t, "unset", WindowUnitUnset.String())
	assert.False(t, WindowUnit(99).Valid())
	assert.Equal(t, "unknown", WindowUnit(99).String())
}

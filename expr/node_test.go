package expr

import (
	"errors"
	"testing"

	"github.com/rulego/aggexpr/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeArity(t *testing.T) {
	a, b, c := Field("a"), Field("b"), Field("c")

	tests := []struct {
		name     string
		op       Operator
		operands []Expression
		wantErr  error
	}{
		{"一元正确", OpAbs, []Expression{a}, nil},
		{"一元过多", OpAbs, []Expression{a, b}, ErrInvalidArity},
		{"一元为空", OpSqrt, nil, ErrInvalidArity},
		{"round单参数", OpRound, []Expression{a}, nil},
		{"round带精度", OpRound, []Expression{a, Value(2)}, nil},
		{"round字段精度", OpRound, []Expression{a, b}, nil},
		{"round整数浮点精度", OpRound, []Expression{a, Value(2.0)}, nil},
		{"round字符串精度", OpRound, []Expression{a, Value("x")}, ErrInvalidOperand},
		{"round小数精度", OpRound, []Expression{a, Value(1.5)}, ErrInvalidOperand},
		{"round布尔精度", OpRound, []Expression{a, Value(true)}, ErrInvalidOperand},
		{"round空精度", OpRound, []Expression{a, Value(nil)}, ErrInvalidOperand},
		{"round过多", OpRound, []Expression{a, b, c}, ErrInvalidArity},
		{"二元缺少", OpSubtract, []Expression{a}, ErrInvalidArity},
		{"二元正确", OpSubtract, []Expression{a, b}, nil},
		{"可变参数缺少", OpAdd, []Expression{a}, ErrInvalidArity},
		{"可变参数多个", OpAdd, []Expression{a, b, c}, nil},
		{"累加器多个", OpSum, []Expression{a, b, c}, nil},
		{"累加器为空", OpSum, nil, ErrInvalidArity},
		{"三角函数过多", OpSin, []Expression{a, b}, ErrInvalidArity},
		{"窗口过多", OpDerivative, []Expression{a, b}, ErrInvalidArity},
		{"nil操作数", OpAbs, []Expression{nil}, ErrInvalidOperand},
		{"nil节点", OpAbs, []Expression{(*Node)(nil)}, ErrInvalidOperand},
		{"nil函数", OpAbs, []Expression{ExpressionFunc(nil)}, ErrInvalidOperand},
		{"未知操作符", Operator(999), []Expression{a}, ErrUnknownOperator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNode(tt.op, tt.operands)
			if tt.wantErr == nil {
				require.NoError(t, err)
				require.NotNil(t, n)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, n)
		})
	}
}

func TestRoundPlaceMustBeInteger(t *testing.T) {
	assert.PanicsWithError(t, "[INVALID_OPERAND] round: place must be an integer or an expression, got string", func() {
		ValueOf("a").Round().Place("x")
	})
	assert.NotPanics(t, func() {
		ValueOf("a").Round().Place(int64(2))
		ValueOf("a").Round().PlaceOf("digits")
	})
}

func TestNewNodeParameters(t *testing.T) {
	x := []Expression{Field("x")}

	_, err := NewNode(OpSin, x, WithAngularUnit(Degrees))
	assert.NoError(t, err)

	_, err = NewNode(OpAbs, x, WithAngularUnit(Degrees))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewNode(OpSin, x, WithAngularUnit(AngularUnit(7)))
	assert.ErrorIs(t, err, ErrInvalidUnit)

	_, err = NewNode(OpDerivative, x, WithWindowUnit(UnitSecond))
	assert.NoError(t, err)

	_, err = NewNode(OpSum, x, WithWindowUnit(UnitSecond))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewNode(OpIntegral, x, WithWindowUnit(WindowUnit(77)))
	assert.ErrorIs(t, err, ErrInvalidUnit)

	_, err = NewNode(OpExpMovingAvg, x)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewNode(OpExpMovingAvg, x, WithN(3), WithAlpha(0.5))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	n, err := NewNode(OpExpMovingAvg, x, WithN(3))
	require.NoError(t, err)
	count, ok := n.N()
	assert.True(t, ok)
	assert.Equal(t, 3, count)
	_, ok = n.Alpha()
	assert.False(t, ok)

	_, err = NewNode(OpAvg, x, WithN(3))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestNewNodeCopiesOperands(t *testing.T) {
	operands := []Expression{Field("a"), Field("b")}
	n, err := NewNode(OpAdd, operands)
	require.NoError(t, err)

	operands[0] = Field("changed")
	assert.Equal(t, Field("a"), n.Operands()[0])

	got := n.Operands()
	got[1] = Field("changed")
	assert.Equal(t, Field("b"), n.Operands()[1])
}

func TestErrorFormatting(t *testing.T) {
	_, err := NewNode(OpSubtract, []Expression{Field("a")})
	require.Error(t, err)

	var exprErr *Error
	require.True(t, errors.As(err, &exprErr))
	assert.Equal(t, CodeInvalidArity, exprErr.Code)
	assert.Equal(t, "subtract", exprErr.Operator)
	assert.Equal(t, "[INVALID_ARITY] subtract: binary operator requires exactly 2 operands, got 1", err.Error())

	_, err = NewNode(OpAdd, []Expression{Field("a")})
	assert.Contains(t, err.Error(), "at least 2")

	_, err = NewNode(OpRound, []Expression{Field("a"), Field("b"), Field("c")})
	assert.Contains(t, err.Error(), "1 to 2")

	wrapped := &Error{Code: CodeSyntax, Message: "bad", Position: 3, Err: errors.New("cause")}
	assert.Equal(t, "[SYNTAX] bad at position 3: cause", wrapped.Error())
	assert.Equal(t, "cause", errors.Unwrap(wrapped).Error())
	assert.False(t, errors.Is(wrapped, ErrInvalidArity))
	assert.False(t, wrapped.Is(errors.New("other")))
}

func TestRenderZeroNodePanics(t *testing.T) {
	assert.Panics(t, func() { Render(&Node{}, DefaultContext) })
	assert.Panics(t, func() { Render(Round{}, DefaultContext) })
	assert.Panics(t, func() { Render(nil, DefaultContext) })
	assert.Panics(t, func() { Render(ExpressionFunc(nil), DefaultContext) })
}

func TestNodeAccessors(t *testing.T) {
	n := ValueOf("miles").Derivative().Unit(UnitMinute)
	assert.Equal(t, OpDerivative, n.Operator())
	assert.Equal(t, UnitMinute, n.WindowUnit())
	assert.Equal(t, []Expression{Field("miles")}, n.Operands())

	op, ok := OperatorOf(n)
	assert.True(t, ok)
	assert.Equal(t, OpDerivative, op)

	_, ok = OperatorOf(Field("x"))
	assert.False(t, ok)
}

func TestNodeUsableAcrossContexts(t *testing.T) {
	n := ValueOf("state").Sum()
	root := n.ToDocument(nil)
	grouped := n.ToDocument(NewExposedFieldsContext([]ExposedField{{Name: "state", GroupID: true}}))

	assert.Equal(t, document.D{{Key: "$sum", Value: "$state"}}, root)
	assert.Equal(t, document.D{{Key: "$sum", Value: "$_id"}}, grouped)
}

func TestWalk(t *testing.T) {
	e := ValueOf("a").Add(ValueOf("b").Multiply(Value(2)))
	var visited []string
	Walk(e, func(x Expression) bool {
		switch v := x.(type) {
		case FieldReference:
			visited = append(visited, v.Name())
		case Literal:
			visited = append(visited, "literal")
		default:
			op, _ := OperatorOf(x)
			visited = append(visited, op.Name())
		}
		return true
	})
	assert.Equal(t, []string{"add", "a", "multiply", "b", "literal"}, visited)

	Walk(nil, func(Expression) bool {
		t.Fatal("must not visit nil")
		return true
	})
}

func TestWindowOnlyDetection(t *testing.T) {
	assert.True(t, IsWindowOnly(ValueOf("a").Derivative()))
	assert.True(t, IsWindowOnly(ValueOfExpression(ValueOf("a").CovariancePop(Field("b"))).Abs()))
	assert.False(t, IsWindowOnly(ValueOf("a").Sum()))

	assert.True(t, RequiresSort(ValueOfExpression(ValueOf("a").Integral()).Round()))
	assert.False(t, RequiresSort(ValueOf("a").CovarianceSamp(Field("b"))))
	assert.False(t, RequiresSort(Field("a")))
}

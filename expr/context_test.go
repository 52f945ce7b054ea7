package expr

import (
	"sync"
	"testing"

	"github.com/rulego/aggexpr/document"
	"github.com/stretchr/testify/assert"
)

func TestLiteralRendersUnchanged(t *testing.T) {
	values := []any{1, int64(2), 3.5, "text", "$notAField", true, nil, document.D{{Key: "a", Value: 1}}, []any{1, "x"}}
	ctx := NewExposedFieldsContext([]ExposedField{{Name: "a", GroupID: true}})
	for _, v := range values {
		assert.Equal(t, v, Render(Value(v), DefaultContext))
		assert.Equal(t, v, Render(Value(v), ctx))
	}
}

func TestFieldReferenceDefaultContext(t *testing.T) {
	for _, name := range []string{"field", "my-field", "a.b.c", "_id"} {
		assert.Equal(t, "$"+name, Render(Field(name), DefaultContext))
	}
	assert.Equal(t, "$total", Render(Field("$total"), nil))
	assert.Equal(t, "total", Field("$total").Name())
	assert.True(t, DefaultContext.IsRootStage())
}

func TestExposedFieldsContext(t *testing.T) {
	single := NewExposedFieldsContext([]ExposedField{
		{Name: "state", GroupID: true},
		{Name: "total"},
	})
	multi := NewExposedFieldsContext([]ExposedField{
		{Name: "state", GroupID: true},
		{Name: "city", GroupID: true},
		{Name: "total"},
	})

	tests := []struct {
		name     string
		ctx      Context
		field    string
		expected string
	}{
		{"单一分组字段", single, "state", "_id"},
		{"单一分组嵌套", single, "state.code", "_id.code"},
		{"普通字段", single, "total", "total"},
		{"未知字段降级", single, "unknown", "unknown"},
		{"多分组字段", multi, "city", "_id.city"},
		{"多分组嵌套", multi, "city.zip", "_id.city.zip"},
		{"多分组普通字段", multi, "total", "total"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ctx.Resolve(tt.field))
			assert.Equal(t, "$"+tt.expected, Render(Field(tt.field), tt.ctx))
		})
	}

	assert.False(t, single.IsRootStage())
	assert.True(t, single.Exposes("total.x"))
	assert.False(t, single.Exposes("unknown"))
}

func TestExposedFieldsContextDuplicates(t *testing.T) {
	ctx := NewExposedFieldsContext([]ExposedField{
		{Name: "a", GroupID: true},
		{Name: "b", GroupID: true},
		{Name: "b"},
	})
	// b was redeclared as a plain field, a is the only group field left
	assert.Equal(t, "_id", ctx.Resolve("a"))
	assert.Equal(t, "b", ctx.Resolve("b"))
}

func TestRenderIdempotent(t *testing.T) {
	e := ValueOfExpression(ValueOf("a").Add(Field("b"))).Sin().In(Degrees)
	ctx := NewExposedFieldsContext([]ExposedField{{Name: "a", GroupID: true}})

	first := Render(e, ctx)
	second := Render(e, ctx)
	assert.True(t, document.Equal(first, second))
	assert.Equal(t, first, second)
}

func TestConcurrentRender(t *testing.T) {
	e := ValueOf("kilowatts").Integral().Unit(UnitHour)
	want := Render(e, DefaultContext)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := NewExposedFieldsContext([]ExposedField{{Name: "other"}})
			assert.Equal(t, want, Render(e, ctx))
		}()
	}
	wg.Wait()
}

func TestExpressionFuncReceivesContext(t *testing.T) {
	ctx := NewExposedFieldsContext([]ExposedField{{Name: "source", GroupID: true}})
	first := ExpressionFunc(func(c Context) any {
		return document.D{{Key: "$first", Value: "$" + c.Resolve("source")}}
	})
	got := Render(ValueOf("field").Round().Place(first), ctx)
	assert.Equal(t,
		document.D{{Key: "$round", Value: []any{"$field", document.D{{Key: "$first", Value: "$_id"}}}}},
		got)
}

func TestOperand(t *testing.T) {
	f := Field("x")
	assert.Equal(t, f, Operand(f))
	assert.Equal(t, Literal{Value: 3}, Operand(3))
	assert.Equal(t, Literal{Value: "x"}, Operand("x"))
	assert.Equal(t, Literal{Value: nil}, Operand(nil))
}

func TestToDocumentScalar(t *testing.T) {
	_, ok := ToDocument(Field("a"), nil)
	assert.False(t, ok)
	_, ok = ToDocument(ValueOf("a").Abs(), nil)
	assert.True(t, ok)
}

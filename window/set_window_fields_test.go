package window

import (
	"testing"

	"github.com/rulego/aggexpr/document"
	"github.com/rulego/aggexpr/expr"
	"github.com/rulego/aggexpr/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertRenders(t *testing.T, expected string, s pipeline.Stage, ctx expr.Context) {
	t.Helper()
	got := s.ToDocument(ctx)
	want := document.MustParse(expected)
	assert.True(t, document.Equal(want, got), "want %s, got %s", want, got)
}

func TestDerivativeWithRange(t *testing.T) {
	stage, err := SetWindowFields().
		PartitionByField("truck").
		SortBy(pipeline.Asc("timestamp")).
		OutputWithin("speed", expr.ValueOf("miles").Derivative().Unit(expr.UnitHour),
			Range(-30, 0).Unit(expr.UnitSecond)).
		Build()
	require.NoError(t, err)

	assertRenders(t, `{"$setWindowFields": {
		"partitionBy": "$truck",
		"sortBy": {"timestamp": 1},
		"output": {"speed": {
			"$derivative": {"input": "$miles", "unit": "hour"},
			"window": {"range": [-30, 0], "unit": "second"}}}}}`, stage, nil)
}

func TestRunningTotal(t *testing.T) {
	stage, err := SetWindowFields().
		PartitionBy(expr.ValueOfExpression(expr.Field("state")).Abs()).
		SortBy(pipeline.Asc("orderDate")).
		OutputWithin("total", expr.ValueOf("quantity").Sum(), Documents(Unbounded, Current)).
		Output("covariance", expr.ValueOf("a").CovarianceSamp(expr.Field("b"))).
		Build()
	require.NoError(t, err)

	assertRenders(t, `{"$setWindowFields": {
		"partitionBy": {"$abs": "$state"},
		"sortBy": {"orderDate": 1},
		"output": {
			"total": {"$sum": "$quantity", "window": {"documents": ["unbounded", "current"]}},
			"covariance": {"$covarianceSamp": ["$a", "$b"]}}}}`, stage, expr.DefaultContext)
}

func TestIntegralWithoutUnitOmitsKey(t *testing.T) {
	stage, err := SetWindowFields().
		SortBy(pipeline.Asc("time")).
		Output("energy", expr.ValueOf("kilowatts").Integral()).
		Build()
	require.NoError(t, err)

	assertRenders(t, `{"$setWindowFields": {
		"sortBy": {"time": 1},
		"output": {"energy": {"$integral": {"input": "$kilowatts"}}}}}`, stage, nil)
}

func TestWindowValidation(t *testing.T) {
	sorted := SetWindowFields().SortBy(pipeline.Asc("t"))

	tests := []struct {
		name    string
		stage   Stage
		wantErr error
	}{
		{"无输出", SetWindowFields(), expr.ErrInvalidParameter},
		{"导数缺少排序", SetWindowFields().Output("d", expr.ValueOf("x").Derivative()), expr.ErrWindowSortRequired},
		{"嵌套积分缺少排序", SetWindowFields().Output("r", expr.ValueOfExpression(expr.ValueOf("x").Integral()).Round()), expr.ErrWindowSortRequired},
		{"指数均值缺少排序", SetWindowFields().Output("e", expr.ValueOf("x").ExpMovingAvgN(3)), expr.ErrWindowSortRequired},
		{"字段不是操作符", sorted.Output("f", expr.Field("x")), expr.ErrInvalidOperand},
		{"字面量不是操作符", sorted.Output("f", expr.Value(1)), expr.ErrInvalidOperand},
		{"空表达式", sorted.Output("f", nil), expr.ErrInvalidOperand},
		{"空输出名", sorted.Output("", expr.ValueOf("x").Sum()), expr.ErrInvalidParameter},
		{"重复输出", sorted.Output("a", expr.ValueOf("x").Sum()).Output("a", expr.ValueOf("y").Sum()), expr.ErrInvalidParameter},
		{"文档边界单位", sorted.OutputWithin("a", expr.ValueOf("x").Sum(), Documents(-1, 0).Unit(expr.UnitDay)), expr.ErrInvalidParameter},
		{"文档边界小数", sorted.OutputWithin("a", expr.ValueOf("x").Sum(), Documents(-1.5, 0)), expr.ErrInvalidParameter},
		{"文档边界颠倒", sorted.OutputWithin("a", expr.ValueOf("x").Sum(), Documents(2, 1)), expr.ErrInvalidParameter},
		{"范围边界非法关键字", sorted.OutputWithin("a", expr.ValueOf("x").Sum(), Range("now", 0)), expr.ErrInvalidParameter},
		{"范围非法单位", sorted.OutputWithin("a", expr.ValueOf("x").Sum(), Range(-1, 0).Unit(expr.WindowUnit(50))), expr.ErrInvalidUnit},
		{"范围多个排序", SetWindowFields().SortBy(pipeline.Asc("a"), pipeline.Asc("b")).OutputWithin("a", expr.ValueOf("x").Sum(), Range(-1, 0)), expr.ErrInvalidParameter},
		{"非法排序方向", SetWindowFields().SortBy(pipeline.SortField{Name: "a"}).Output("a", expr.ValueOf("x").Sum()), expr.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.stage.Build()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSortRequiredErrorNamesOperator(t *testing.T) {
	_, err := SetWindowFields().Output("speed", expr.ValueOf("miles").Derivative()).Build()
	require.Error(t, err)
	assert.Equal(t, "[WINDOW_SORT_REQUIRED] derivative: output speed requires sortBy", err.Error())
}

func TestCovarianceNeedsNoSort(t *testing.T) {
	_, err := SetWindowFields().Output("c", expr.ValueOf("a").CovariancePop(expr.Field("b"))).Build()
	assert.NoError(t, err)
}

func TestWindowInPipeline(t *testing.T) {
	stage := SetWindowFields().
		PartitionByField("state").
		SortBy(pipeline.Asc("state")).
		OutputWithin("avgTotal", expr.ValueOf("total").Avg(), Documents(-1, 1))

	p, err := pipeline.New(
		pipeline.Group("state").Sum("total", "pop"),
		stage,
		pipeline.Project("state", "avgTotal"),
	)
	require.NoError(t, err)

	docs := p.Render(nil)
	require.Len(t, docs, 3)
	assert.True(t, document.Equal(document.MustParse(`{"$setWindowFields": {
		"partitionBy": "$_id",
		"sortBy": {"_id": 1},
		"output": {"avgTotal": {"$avg": "$total", "window": {"documents": [-1, 1]}}}}}`), docs[1]), "got %s", docs[1])
	assert.True(t, document.Equal(document.MustParse(`{"$project": {"state": "$_id", "avgTotal": 1}}`), docs[2]), "got %s", docs[2])

	_, err = pipeline.New(SetWindowFields().Output("d", expr.ValueOf("x").Derivative()))
	assert.ErrorIs(t, err, expr.ErrWindowSortRequired)
}

func TestStageImmutable(t *testing.T) {
	base := SetWindowFields().SortBy(pipeline.Asc("t")).Output("a", expr.ValueOf("x").Sum())
	more := base.Output("b", expr.ValueOf("y").Sum())

	assert.Len(t, base.ExposedFields(), 1)
	assert.Len(t, more.ExposedFields(), 2)
	assert.True(t, more.InheritsFields())
}

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rulego/aggexpr/document"
	"github.com/rulego/aggexpr/expr"
	"github.com/rulego/aggexpr/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertStages(t *testing.T, docs []document.D, expected ...string) {
	t.Helper()
	require.Len(t, docs, len(expected))
	for i, e := range expected {
		want := document.MustParse(e)
		assert.True(t, document.Equal(want, docs[i]), "stage %d: want %s, got %s", i, want, docs[i])
	}
}

type fakeRunner struct {
	collection string
	pipeline   []document.D
	err        error
}

func (r *fakeRunner) Aggregate(_ context.Context, collection string, pipeline []document.D) error {
	r.collection = collection
	r.pipeline = pipeline
	return r.err
}

func TestGroupThenProjectResolvesID(t *testing.T) {
	p, err := New(
		Group("state").Sum("totalPop", "pop"),
		Project("state", "totalPop").ExcludeID(),
		Sort(Desc("totalPop")),
	)
	require.NoError(t, err)

	assertStages(t, p.WithLogger(logger.NewDiscardLogger()).Render(nil),
		`{"$group": {"_id": "$state", "totalPop": {"$sum": "$pop"}}}`,
		`{"$project": {"_id": 0, "state": "$_id", "totalPop": 1}}`,
		`{"$sort": {"totalPop": -1}}`,
	)
}

func TestMultiFieldGroupContext(t *testing.T) {
	p, err := New(
		Group("state", "city").Count("n"),
		AddFields().Field("sinCity", expr.ValueOf("city").Sin().In(expr.Degrees)),
		Sort(Asc("state"), Desc("n")),
	)
	require.NoError(t, err)

	assertStages(t, p.Render(expr.DefaultContext),
		`{"$group": {"_id": {"state": "$state", "city": "$city"}, "n": {"$sum": 1}}}`,
		`{"$addFields": {"sinCity": {"$sin": {"$degreesToRadians": "$_id.city"}}}}`,
		`{"$sort": {"_id.state": 1, "n": -1}}`,
	)
}

func TestGroupWithoutID(t *testing.T) {
	d := Group().Avg("avg", "price").Max("top", "price").Min("low", "price").ToDocument(expr.DefaultContext)
	want := document.MustParse(`{"$group": {"_id": null, "avg": {"$avg": "$price"}, "top": {"$max": "$price"}, "low": {"$min": "$price"}}}`)
	assert.True(t, document.Equal(want, d), "got %s", d)
}

func TestSetKeepsContext(t *testing.T) {
	p, err := New(
		Set().Field("rounded", expr.ValueOf("price").RoundToPlace(2)).Field("flag", true),
		Project().Alias("value", "rounded").Compute("twice", expr.ValueOf("rounded").Multiply(2)),
		Limit(10),
		Skip(5),
	)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Len())

	assertStages(t, p.Render(nil),
		`{"$set": {"rounded": {"$round": ["$price", 2]}, "flag": true}}`,
		`{"$project": {"value": "$rounded", "twice": {"$multiply": ["$rounded", 2]}}}`,
		`{"$limit": 10}`,
		`{"$skip": 5}`,
	)
}

func TestProjectReplacesContext(t *testing.T) {
	p, err := New(
		Group("state").Sum("total", "pop"),
		Project("total"),
		Project("state"),
	)
	require.NoError(t, err)

	docs := p.Render(nil)
	// state is no longer exposed as a group id after the first project
	assertStages(t, docs[2:], `{"$project": {"state": 1}}`)
}

type inheriting struct {
	fields []expr.ExposedField
}

func (s inheriting) ToDocument(expr.Context) document.D {
	return document.D{{Key: "$setWindowFields", Value: document.D{}}}
}
func (s inheriting) ExposedFields() []expr.ExposedField { return s.fields }
func (s inheriting) InheritsFields() bool               { return true }

func TestInheritingStageKeepsUpstreamFields(t *testing.T) {
	p, err := New(
		Group("state").Sum("total", "pop"),
		inheriting{fields: []expr.ExposedField{{Name: "running"}}},
		Project("state", "running"),
	)
	require.NoError(t, err)

	assertStages(t, p.Render(nil)[2:], `{"$project": {"state": "$_id", "running": 1}}`)
}

func TestNewValidatesStages(t *testing.T) {
	tests := []struct {
		name    string
		stage   Stage
		wantErr error
	}{
		{"nil阶段", nil, expr.ErrInvalidOperand},
		{"空addFields", AddFields(), expr.ErrInvalidParameter},
		{"空project", Project(), expr.ErrInvalidParameter},
		{"空字段名", Project(""), expr.ErrInvalidParameter},
		{"空sort", Sort(), expr.ErrInvalidParameter},
		{"非法方向", Sort(SortField{Name: "a", Direction: 2}), expr.ErrInvalidParameter},
		{"负数limit", Limit(-1), expr.ErrInvalidParameter},
		{"零limit", Limit(0), expr.ErrInvalidParameter},
		{"负数skip", Skip(-2), expr.ErrInvalidParameter},
		{"group输出_id", Group("a").Sum("_id", "b"), expr.ErrInvalidParameter},
		{"group空表达式", Group("a").Accumulate("x", nil), expr.ErrInvalidOperand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(Limit(1), tt.stage)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := New(Skip(0), Project().ExcludeID())
	assert.NoError(t, err)
}

func TestWindowOperatorsRejectedOutsideWindowStage(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
		token string
	}{
		{"addFields导数", AddFields().Field("rate", expr.ValueOf("miles").Derivative().Unit(expr.UnitHour)), "$derivative"},
		{"set积分", Set().Field("energy", expr.ValueOf("kw").Integral()), "$integral"},
		{"project指数均线", Project("a").Compute("ema", expr.ValueOf("price").ExpMovingAvgN(3)), "$expMovingAvg"},
		{"group协方差", Group("k").Accumulate("c", expr.ValueOf("a").CovariancePop(expr.Field("b"))), "$covariancePop"},
		{"嵌套协方差", AddFields().Field("x", expr.ValueOfExpression(expr.ValueOf("a").CovarianceSamp(expr.Field("b"))).Abs()), "$covarianceSamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.stage)
			assert.Nil(t, p)
			require.ErrorIs(t, err, expr.ErrInvalidOperand)
			assert.Contains(t, err.Error(), tt.token)
		})
	}

	_, err := New(AddFields().Field("total", expr.ValueOf("a").Sum()), Group("k").Avg("avg", "a"))
	assert.NoError(t, err)
}

func TestStagesAreImmutable(t *testing.T) {
	base := Group("a")
	withSum := base.Sum("s", "x")
	withAvg := base.Avg("v", "x")

	inner, _ := base.ToDocument(expr.DefaultContext).Get("$group")
	assert.Equal(t, []string{"_id"}, inner.(document.D).Keys())
	inner, _ = withSum.ToDocument(expr.DefaultContext).Get("$group")
	assert.Equal(t, []string{"_id", "s"}, inner.(document.D).Keys())
	inner, _ = withAvg.ToDocument(expr.DefaultContext).Get("$group")
	assert.Equal(t, []string{"_id", "v"}, inner.(document.D).Keys())

	p, err := New(Limit(1))
	require.NoError(t, err)
	stages := p.Stages()
	stages[0] = Skip(1)
	assert.Equal(t, Limit(1), p.Stages()[0])
}

func TestFingerprint(t *testing.T) {
	a, err := New(Group("state").Sum("total", "pop"), Limit(5))
	require.NoError(t, err)
	b, err := New(Group("state").Accumulate("total", expr.ValueOf("pop").Sum()), Limit(5))
	require.NoError(t, err)
	c, err := New(Group("state").Sum("total", "pop"), Limit(6))
	require.NoError(t, err)

	fa, err := a.Fingerprint(nil)
	require.NoError(t, err)
	fb, err := b.Fingerprint(nil)
	require.NoError(t, err)
	fc, err := c.Fingerprint(nil)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)
}

func TestRun(t *testing.T) {
	p, err := New(Group("state").Count("n"))
	require.NoError(t, err)
	p = p.WithLogger(nil)

	runner := &fakeRunner{}
	require.NoError(t, p.Run(context.Background(), runner, "zips", nil))
	assert.Equal(t, "zips", runner.collection)
	assertStages(t, runner.pipeline, `{"$group": {"_id": "$state", "n": {"$sum": 1}}}`)

	failing := &fakeRunner{err: errors.New("connection refused")}
	err = p.Run(context.Background(), failing, "zips", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggregate zips")
	assert.ErrorIs(t, err, failing.err)

	assert.Error(t, p.Run(context.Background(), nil, "zips", nil))
}

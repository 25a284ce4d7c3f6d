package integral_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/katalvlaran/quadsparse/assemble"
	"github.com/katalvlaran/quadsparse/function"
	"github.com/katalvlaran/quadsparse/integral"
	"github.com/katalvlaran/quadsparse/matrix"
	"github.com/katalvlaran/quadsparse/parallel"
	"github.com/katalvlaran/quadsparse/sample"
	"github.com/katalvlaran/quadsparse/sparse"
	"github.com/katalvlaran/quadsparse/tensor"
	"github.com/stretchr/testify/require"
)

func chain(n int) [][]int {
	dofs := make([][]int, n)
	for e := range dofs {
		dofs[e] = []int{e, e + 1}
	}
	return dofs
}

// hat returns the local P1 basis [1-ξ, ξ].
func hat() function.Node {
	xi := function.NewInsertAxis(function.NewSum(function.NewLocalCoords(1), 0), 0, 2)
	c0, _ := tensor.FromSlice([]int{2}, []float64{1, 0})
	c1, _ := tensor.FromSlice([]int{2}, []float64{-1, 1})
	return function.NewAdd(function.NewConstant(c0), function.NewMul(xi, function.NewConstant(c1)))
}

func mass(n int) function.Node {
	phi := hat()
	local := function.NewMul(function.NewInsertAxis(phi, 1, 2), function.NewInsertAxis(phi, 0, 2))
	dofs := chain(n)
	return function.NewInflate(function.NewInflate(local, dofs, n+1, 0), dofs, n+1, 1)
}

func load(n int) function.Node {
	return function.NewInflate(hat(), chain(n), n+1, 0)
}

func line(t *testing.T, n int) *sample.Sample {
	t.Helper()
	s, err := sample.Line(n, 0, float64(n), 2)
	require.NoError(t, err)
	return s
}

func constant(t *testing.T, shape []int, vals ...float64) function.Node {
	t.Helper()
	a, err := tensor.FromSlice(shape, vals)
	require.NoError(t, err)
	return function.NewConstant(a)
}

// countingExecutor counts how many times assembly ran.
type countingExecutor struct{ calls int }

func (c *countingExecutor) Range(ctx context.Context, n int, fn func(context.Context, int) error) error {
	c.calls++
	return parallel.Serial{}.Range(ctx, n, fn)
}

// TestEval_ByRank materializes a scalar, a vector and a CSR matrix.
func TestEval_ByRank(t *testing.T) {
	s := line(t, 3)
	ints := []*integral.Integral{
		integral.FromSample(s, function.Scalar(1)),
		integral.FromSample(s, load(3)),
		integral.FromSample(s, mass(3)),
	}

	res, err := integral.Eval(context.Background(), ints, nil)
	require.NoError(t, err)
	require.Len(t, res, 3)

	require.Equal(t, 0, res[0].Rank)
	require.InDelta(t, 3.0, res[0].Scalar, 1e-12)

	require.Equal(t, 1, res[1].Rank)
	require.InDeltaSlice(t, []float64{0.5, 1, 1, 0.5}, res[1].Vector, 1e-12)

	require.Equal(t, 2, res[2].Rank)
	require.IsType(t, &matrix.CSR{}, res[2].Matrix)
	want := [][]float64{
		{1.0 / 3, 1.0 / 6, 0, 0},
		{1.0 / 6, 2.0 / 3, 1.0 / 6, 0},
		{0, 1.0 / 6, 2.0 / 3, 1.0 / 6},
		{0, 0, 1.0 / 6, 1.0 / 3},
	}
	for i, row := range want {
		for j, v := range row {
			got, err := res[2].Matrix.At(i, j)
			require.NoError(t, err)
			require.InDelta(t, v, got, 1e-12, "(%d,%d)", i, j)
		}
	}
}

// TestEval_HigherRank deduplicates and prunes rank ≥3 results.
func TestEval_HigherRank(t *testing.T) {
	f := constant(t, []int{2, 2, 2}, 0, 1, 0, 2, 0, 0, 3, 0)
	r, err := integral.FromSample(line(t, 3), f).Eval(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 3, r.Rank)
	require.Equal(t, 3, r.Sparse.Len())
	require.InDeltaSlice(t, []float64{3, 6, 9}, sparse.Values(r.Sparse), 1e-12)
	require.Equal(t, [][]uint64{{0, 0, 1}, {0, 1, 1}, {1, 1, 0}}, sparse.IndexColumns(r.Sparse))
}

// TestEvalSparse_OneAssemblyPerSample shares samples across integrals.
func TestEvalSparse_OneAssemblyPerSample(t *testing.T) {
	s1, s2 := line(t, 3), line(t, 3)
	a := integral.FromSample(s1, mass(3))
	b, err := integral.FromSample(s1, load(3)).Add(integral.FromSample(s2, load(3)))
	require.NoError(t, err)
	c := integral.FromSample(s2, function.Scalar(1))

	ex := &countingExecutor{}
	res, err := integral.Eval(context.Background(), []*integral.Integral{a, b, c}, nil,
		integral.WithAssemble(assemble.WithExecutor(ex)))
	require.NoError(t, err)
	require.Equal(t, 2, ex.calls)
	require.InDeltaSlice(t, []float64{1, 2, 2, 1}, res[1].Vector, 1e-12)
	require.InDelta(t, 3.0, res[2].Scalar, 1e-12)

	datas, err := integral.EvalSparse(context.Background(), []*integral.Integral{b}, nil)
	require.NoError(t, err)
	require.Equal(t, 12, datas[0].Len())
	require.Equal(t, sparse.Float64, datas[0].Descriptor().Type())
}

// TestEvalSparse_NoTerms yields an empty collection of the right shape.
func TestEvalSparse_NoTerms(t *testing.T) {
	datas, err := integral.EvalSparse(context.Background(), []*integral.Integral{integral.Zero(4)}, nil)
	require.NoError(t, err)
	require.Zero(t, datas[0].Len())
	require.Equal(t, []int{4}, sparse.Shape(datas[0]))

	res, err := integral.Zero(4).Eval(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0, 0}, res.Vector)
}

// TestAlgebra covers sums on a shared sample, scaling and shape checks.
func TestAlgebra(t *testing.T) {
	s := line(t, 3)
	l := integral.FromSample(s, load(3))

	sum, err := l.Add(l)
	require.NoError(t, err)
	require.Len(t, sum.Terms(), 1)

	diff, err := sum.Sub(l.Scale(0.5))
	require.NoError(t, err)
	r, err := diff.Eval(context.Background(), nil)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0.75, 1.5, 1.5, 0.75}, r.Vector, 1e-12)

	r, err = l.Neg().Div(2).Eval(context.Background(), nil)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{-0.25, -0.5, -0.5, -0.25}, r.Vector, 1e-12)

	require.Empty(t, l.Scale(0).Terms())

	_, err = l.Add(integral.FromSample(s, mass(3)))
	require.ErrorIs(t, err, integral.ErrShapeMismatch)
	_, err = l.Sub(integral.Zero())
	require.ErrorIs(t, err, integral.ErrShapeMismatch)
	_, err = integral.New([]int{3}, integral.Term{Sample: s, Func: load(3)})
	require.ErrorIs(t, err, integral.ErrShapeMismatch)

	n, err := integral.New([]int{4}, integral.Term{Sample: s, Func: load(3)},
		integral.Term{Sample: s, Func: function.NewZeros([]int{4}, sparse.Float64)})
	require.NoError(t, err)
	require.True(t, n.Equal(l))
	require.Equal(t, []assemble.Sample{s}, n.Samples())
}

// TestTranspose swaps the axes of a rank-2 integral.
func TestTranspose(t *testing.T) {
	f := constant(t, []int{2, 3}, 1, 2, 3, 4, 5, 6)
	tr := integral.FromSample(line(t, 3), f).Transpose()
	require.Equal(t, []int{3, 2}, tr.Shape())
	require.Equal(t, 2, tr.Rank())

	r, err := tr.Eval(context.Background(), nil, integral.WithBackend(matrix.NewDenseBackend()))
	require.NoError(t, err)
	require.IsType(t, &matrix.Dense{}, r.Matrix)
	v, err := r.Matrix.At(2, 0)
	require.NoError(t, err)
	require.InDelta(t, 9.0, v, 1e-12)
	v, err = r.Matrix.At(0, 1)
	require.NoError(t, err)
	require.InDelta(t, 12.0, v, 1e-12)
}

// TestDerivativeAndSubstitute differentiates a load scaled by a scalar argument.
func TestDerivativeAndSubstitute(t *testing.T) {
	s := line(t, 3)
	c := function.NewArgument("c", nil, sparse.Float64)
	f := function.NewMul(load(3), function.NewInsertAxis(c, 0, 4))
	in := integral.FromSample(s, f)
	require.True(t, in.Contains("c"))
	require.False(t, in.Contains("u"))

	shape, err := in.ArgShape("c")
	require.NoError(t, err)
	require.Empty(t, shape)

	d, err := in.Derivative("c")
	require.NoError(t, err)
	require.Equal(t, []int{4}, d.Shape())
	r, err := d.Eval(context.Background(), nil)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0.5, 1, 1, 0.5}, r.Vector, 1e-12)

	args := map[string]*tensor.Array{"c": tensor.Scalar(2)}
	r, err = in.Eval(context.Background(), args)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, 2, 2, 1}, r.Vector, 1e-12)

	sub, err := in.Substitute(args)
	require.NoError(t, err)
	require.False(t, sub.Contains("c"))
	r, err = sub.Eval(context.Background(), nil)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, 2, 2, 1}, r.Vector, 1e-12)

	_, err = in.Derivative("u")
	require.ErrorIs(t, err, integral.ErrUnknownTarget)
	_, err = in.ArgShape("u")
	require.ErrorIs(t, err, integral.ErrUnknownTarget)

	_, err = in.Substitute(map[string]*tensor.Array{"c": tensor.MustNew(2)})
	require.ErrorIs(t, err, function.ErrShapeMismatch)
}

// TestEqual compares integrands structurally and samples by identity.
func TestEqual(t *testing.T) {
	s1, s2 := line(t, 3), line(t, 3)
	a := integral.FromSample(s1, mass(3))
	require.True(t, a.Equal(integral.FromSample(s1, mass(3))))
	require.False(t, a.Equal(integral.FromSample(s2, mass(3))))
	require.False(t, a.Equal(a.Scale(2)))
	require.False(t, a.Equal(a.Transpose().Transpose().Scale(3)))
}

// TestEval_Errors propagates assembly failures.
func TestEval_Errors(t *testing.T) {
	u := function.NewArgument("u", []int{4}, sparse.Float64)
	in := integral.FromSample(line(t, 3), u)
	_, err := in.Eval(context.Background(), nil)
	require.ErrorIs(t, err, assemble.ErrEvaluation)
	require.ErrorIs(t, err, function.ErrMissingArgument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = integral.FromSample(line(t, 3), load(3)).Eval(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

// TestLogging emits batch-level debug records.
func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := integral.FromSample(line(t, 2), load(2)).Eval(context.Background(), nil, integral.WithLogger(l))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "batch evaluated")
	require.Contains(t, buf.String(), "sample assembled")
}

// TestOptions_Panic rejects invalid option values.
func TestOptions_Panic(t *testing.T) {
	require.Panics(t, func() { integral.WithBackend(nil) })
	require.Panics(t, func() { integral.WithChunkBytes(0) })
	require.Panics(t, func() { integral.WithLogger(nil) })
}

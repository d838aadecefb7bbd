package classifier

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/oncomark/internal/marker"
	"github.com/abhisek/oncomark/internal/registry"
)

func defaultEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(registry.Default())
	require.NoError(t, err)
	return e
}

func TestClassify_ReferencePatients(t *testing.T) {
	tests := []struct {
		name      string
		panel     marker.Panel
		want      registry.ClassID
		posterior float64
	}{
		{"Alice", marker.NewPanel(180, 6, 22), registry.OvarianEarly, 0.893},
		{"Charlie", marker.NewPanel(65, 900, 28), registry.LiverStageIIIII, 0.644},
		{"Drew", marker.NewPanel(70, 8, 6000), registry.PancreaticStageIV, 0.695},
		{"Evan", marker.NewPanel(60, 80, 30), registry.LiverStageI, 0.860},
		{"Fiona", marker.NewPanel(60, 5, 12500), registry.PancreaticStageIV, 1.000},
		{"Grace", marker.NewPanel(70, 6000, 24), registry.LiverStageIV, 0.997},
	}

	e := defaultEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, err := e.Classify(tt.panel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, best.Class)
			assert.InDelta(t, tt.posterior, best.Posterior, 0.0006)
		})
	}
}

func TestScoreAll_LogLikelihoodFormula(t *testing.T) {
	e := defaultEngine(t)
	panel := marker.NewPanel(180, 6, 22)

	scores, err := e.ScoreAll(panel)
	require.NoError(t, err)

	// Ovarian_Early: HE4 under its own density, AFP and CA19-9 under healthy.
	want := marker.Gaussian{Mean: 151, Variance: 6_348}.LogPDF(180) +
		marker.Gaussian{Mean: 5, Variance: 9}.LogPDF(6) +
		marker.Gaussian{Mean: 20, Variance: 100}.LogPDF(22)
	assert.Equal(t, registry.OvarianEarly, scores[0].Class)
	assert.InEpsilon(t, want, scores[0].LogLikelihood, 1e-9)
	assert.InDelta(t, -math.Log(10), scores[0].LogPrior, 1e-12)
}

func TestScoreAll_RegistryOrderAndNormalization(t *testing.T) {
	e := defaultEngine(t)
	panels := []marker.Panel{
		marker.NewPanel(180, 6, 22),
		marker.NewPanel(60, 5, 20),
		marker.NewPanel(5_000, 80_000, 90_000),
		marker.NewPanel(0, 0, 0),
	}

	classes := registry.Default().AllClasses()
	for _, p := range panels {
		scores, err := e.ScoreAll(p)
		require.NoError(t, err)
		require.Len(t, scores, len(classes))

		var sum float64
		for i, s := range scores {
			assert.Equal(t, classes[i].ID, s.Class)
			assert.GreaterOrEqual(t, s.Posterior, 0.0)
			assert.LessOrEqual(t, s.Posterior, 1.0)
			sum += s.Posterior
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestScoreAll_ReadingTooExtremeToScore(t *testing.T) {
	e := defaultEngine(t)
	panel := marker.NewPanel(60, 5, 1e160)

	scores, err := e.ScoreAll(panel)
	assert.Nil(t, scores)
	var ipe *InvalidPanelError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, marker.CA199, ipe.Marker)
	assert.Equal(t, 1e160, ipe.Value)

	_, err = e.Classify(panel)
	require.ErrorAs(t, err, &ipe)

	_, err = e.Explain(panel, registry.PancreaticStageIV)
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, marker.CA199, ipe.Marker)
}

func TestScoreAll_LargeButScorableReadingStaysNormalized(t *testing.T) {
	e := defaultEngine(t)
	scores, err := e.ScoreAll(marker.NewPanel(60, 5, 1e140))
	require.NoError(t, err)

	var sum float64
	for _, s := range scores {
		assert.False(t, math.IsNaN(s.Posterior))
		assert.GreaterOrEqual(t, s.Posterior, 0.0)
		assert.LessOrEqual(t, s.Posterior, 1.0)
		sum += s.Posterior
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestClassify_Deterministic(t *testing.T) {
	e := defaultEngine(t)
	panel := marker.NewPanel(65, 900, 28)

	first, err := e.Classify(panel)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := e.Classify(panel)
		require.NoError(t, err)
		if again != first {
			t.Fatalf("run %d: got %+v, want %+v", i, again, first)
		}
		if math.Float64bits(again.Score) != math.Float64bits(first.Score) {
			t.Fatalf("run %d: score bits differ", i)
		}
	}
}

func TestClassify_ConcurrentCallsAgree(t *testing.T) {
	e := defaultEngine(t)
	panel := marker.NewPanel(70, 8, 6000)
	want, err := e.Classify(panel)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]ClassScore, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.Classify(panel)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, want, got, "goroutine %d", i)
	}
}

func tieRegistry(t *testing.T, ids ...registry.ClassID) *registry.Registry {
	t.Helper()
	var classes []registry.ClassDefinition
	for _, id := range ids {
		classes = append(classes, registry.ClassDefinition{
			ID:     id,
			Signal: marker.HE4,
			Dist:   marker.Gaussian{Mean: 100, Variance: 50},
		})
	}
	reg, err := registry.New(registry.Default().Baseline(), classes)
	require.NoError(t, err)
	return reg
}

func TestClassify_TieGoesToEarliestRegistration(t *testing.T) {
	panel := marker.NewPanel(110, 5, 20)

	for _, order := range [][]registry.ClassID{{"first", "second"}, {"second", "first"}} {
		e, err := New(tieRegistry(t, order...))
		require.NoError(t, err)

		scores, err := e.ScoreAll(panel)
		require.NoError(t, err)
		require.Equal(t, scores[0].Score, scores[1].Score, "parameters must force an exact tie")

		for i := 0; i < 10; i++ {
			best, err := e.Classify(panel)
			require.NoError(t, err)
			assert.Equal(t, order[0], best.Class)
		}
		assert.InDelta(t, 0.5, scores[0].Posterior, 1e-12)
	}
}

func TestClassify_BackgroundPenalty(t *testing.T) {
	baseline := registry.Baseline{
		marker.HE4:   {Mean: 60, Variance: 225},
		marker.AFP:   {Mean: 5, Variance: 9},
		marker.CA199: {Mean: 10, Variance: 4},
	}
	classes := []registry.ClassDefinition{
		{ID: registry.OvarianEarly, Signal: marker.HE4, Dist: marker.Gaussian{Mean: 151, Variance: 6_348}},
		{ID: registry.PancreaticStageIV, Signal: marker.CA199, Dist: marker.Gaussian{Mean: 12_500, Variance: 35_000_000}},
	}
	reg, err := registry.New(baseline, classes)
	require.NoError(t, err)
	e, err := New(reg)
	require.NoError(t, err)

	// HE4 sits right on the Ovarian_Early signal mean, but CA19-9 is far
	// outside its healthy range.
	panel := marker.NewPanel(151, 5, 500)
	scores, err := e.ScoreAll(panel)
	require.NoError(t, err)

	ovarian, pancreatic := scores[0], scores[1]
	assert.Greater(t, pancreatic.Score, ovarian.Score)

	best, err := e.Classify(panel)
	require.NoError(t, err)
	assert.Equal(t, registry.PancreaticStageIV, best.Class)
}

func TestClassify_InvalidPanel(t *testing.T) {
	e := defaultEngine(t)
	tests := []struct {
		name   string
		panel  marker.Panel
		marker marker.Type
	}{
		{"missing AFP", marker.Panel{marker.HE4: 60, marker.CA199: 20}, marker.AFP},
		{"empty panel", marker.Panel{}, marker.HE4},
		{"NaN HE4", marker.NewPanel(math.NaN(), 5, 20), marker.HE4},
		{"+Inf CA19-9", marker.NewPanel(60, 5, math.Inf(1)), marker.CA199},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, err := e.Classify(tt.panel)
			var ipe *InvalidPanelError
			require.True(t, errors.As(err, &ipe), "got %v, want *InvalidPanelError", err)
			assert.Equal(t, tt.marker, ipe.Marker)
			assert.Equal(t, ClassScore{}, best)

			scores, err := e.ScoreAll(tt.panel)
			assert.Error(t, err)
			assert.Nil(t, scores)
		})
	}
}

func TestExplain_TermsSumToLogLikelihood(t *testing.T) {
	e := defaultEngine(t)
	panel := marker.NewPanel(65, 900, 28)

	ex, err := e.Explain(panel, registry.LiverStageIIIII)
	require.NoError(t, err)
	require.Len(t, ex.Terms, 3)

	for _, term := range ex.Terms {
		assert.Equal(t, term.Marker != marker.AFP, term.Background, "marker %s", term.Marker)
	}

	scores, err := e.ScoreAll(panel)
	require.NoError(t, err)
	idx, _ := registry.Default().Index(registry.LiverStageIIIII)
	assert.InEpsilon(t, scores[idx].LogLikelihood, ex.Total, 1e-12)
}

func TestExplain_UnknownClass(t *testing.T) {
	_, err := defaultEngine(t).Explain(marker.NewPanel(60, 5, 20), "NotARealClass")
	var uce *registry.UnknownClassError
	assert.True(t, errors.As(err, &uce))
}

func TestWithPriors(t *testing.T) {
	reg := tieRegistry(t, "first", "second")
	e, err := New(reg, WithPriors(map[registry.ClassID]float64{"first": 1, "second": 3}))
	require.NoError(t, err)

	scores, err := e.ScoreAll(marker.NewPanel(110, 5, 20))
	require.NoError(t, err)
	assert.InDelta(t, 0.25, scores[0].Posterior, 1e-12)
	assert.InDelta(t, 0.75, scores[1].Posterior, 1e-12)

	best, err := e.Classify(marker.NewPanel(110, 5, 20))
	require.NoError(t, err)
	assert.Equal(t, registry.ClassID("second"), best.Class)
}

func TestWithPriors_Rejected(t *testing.T) {
	reg := tieRegistry(t, "first", "second")
	tests := []struct {
		name   string
		priors map[registry.ClassID]float64
	}{
		{"unknown class", map[registry.ClassID]float64{"first": 1, "second": 1, "third": 1}},
		{"missing class", map[registry.ClassID]float64{"first": 1}},
		{"zero weight", map[registry.ClassID]float64{"first": 0, "second": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(reg, WithPriors(tt.priors))
			assert.Error(t, err)
		})
	}
}

func TestRank(t *testing.T) {
	scores := []ClassScore{
		{Class: "a", Score: -3},
		{Class: "b", Score: -1},
		{Class: "c", Score: -3},
		{Class: "d", Score: -2},
	}
	ranked := Rank(scores)
	var got []registry.ClassID
	for _, s := range ranked {
		got = append(got, s.Class)
	}
	assert.Equal(t, []registry.ClassID{"b", "d", "a", "c"}, got)
	assert.Equal(t, registry.ClassID("a"), scores[0].Class, "Rank must not reorder its input")

	assert.Len(t, Top(ranked, 2), 2)
	assert.Len(t, Top(ranked, 0), 4)
	assert.Len(t, Top(ranked, 10), 4)
}

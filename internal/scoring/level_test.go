package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"academyhub/internal/model"
)

func TestClassify_Boundaries(t *testing.T) {
	cases := []struct {
		index float64
		want  model.Level
	}{
		{0, model.LevelReactive},
		{4.999, model.LevelReactive},
		{5, model.LevelInstable},
		{6.99, model.LevelInstable},
		{7, model.LevelTransition},
		{8.999, model.LevelTransition},
		{9, model.LevelStructured},
		{10, model.LevelStructured},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.index), "Classify(%v)", tc.index)
	}
}

func TestClassify_MonotonicSweep(t *testing.T) {
	prev := Classify(0).Rank()
	for i := 0; i <= 1000; i++ {
		idx := float64(i) / 100
		rank := Classify(idx).Rank()
		if rank < 0 {
			t.Fatalf("Classify(%v) returned unknown level", idx)
		}
		if rank < prev {
			t.Fatalf("Classify(%v) rank %d dropped below %d", idx, rank, prev)
		}
		prev = rank
	}
	assert.Equal(t, model.LevelStructured.Rank(), prev)
}

func TestTemperature_Thresholds(t *testing.T) {
	assert.Equal(t, model.TemperatureCold, Temperature(0))
	assert.Equal(t, model.TemperatureCold, Temperature(4.99))
	assert.Equal(t, model.TemperatureWarm, Temperature(5))
	assert.Equal(t, model.TemperatureWarm, Temperature(7.9))
	assert.Equal(t, model.TemperatureHot, Temperature(8))
	assert.Equal(t, model.TemperatureHot, Temperature(10))
}

package sampler

import (
	"testing"

	"github.com/SamuelLess/chat-clm/internal/ensemble"
)

func TestTopKOrdersByDescendingProbability(t *testing.T) {
	dist := ensemble.Distribution{"a": 0.1, "b": 0.6, "c": 0.3}
	got := TopK(dist, 2)
	if len(got) != 2 {
		t.Fatalf("len(TopK) = %d, want 2", len(got))
	}
	if got[0].Code != "b" || got[1].Code != "c" {
		t.Errorf("TopK order = %v, want [b c]", got)
	}
}

func TestTopKClampsToDistributionSize(t *testing.T) {
	dist := ensemble.Distribution{"a": 1.0}
	got := TopK(dist, 10)
	if len(got) != 1 {
		t.Errorf("len(TopK) = %d, want 1", len(got))
	}
}

func TestTopKWeightedOnlyPicksFromTopK(t *testing.T) {
	dist := ensemble.Distribution{"a": 0.01, "b": 0.6, "c": 0.39}
	for i := 0; i < 50; i++ {
		got := TopKWeighted(dist, 2)
		if got == "a" {
			t.Fatalf("TopKWeighted(k=2) picked the lowest-probability entry outside the top-2")
		}
	}
}

func TestTopKUniformSingleCandidateIsDeterministic(t *testing.T) {
	dist := ensemble.Distribution{"only": 1.0}
	got := TopKUniform(dist, 1)
	if got != "only" {
		t.Errorf("TopKUniform = %q, want %q", got, "only")
	}
}

func TestTopPIncludesAtLeastTheHighestProbabilityEntry(t *testing.T) {
	dist := ensemble.Distribution{"a": 0.7, "b": 0.2, "c": 0.1}
	for i := 0; i < 20; i++ {
		got := TopP(dist, 0.5)
		if got != "a" {
			t.Fatalf("TopP(0.5) = %q, want %q (cumulative reaches 0.5 at the first entry)", got, "a")
		}
	}
}

func TestWeightedChoiceOnEmptyReturnsEmptyString(t *testing.T) {
	if got := TopKWeighted(ensemble.Distribution{}, 3); got != "" {
		t.Errorf("TopKWeighted(empty) = %q, want empty string", got)
	}
}

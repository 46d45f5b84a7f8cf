package baseline

import "testing"

func code(n byte) []byte { return []byte{n} }

// TestS3BigramTraining matches concrete scenario S3: training on token
// sequence [1,2,3,1,2,4,1,2] yields transition[1->2]=3, transition[2->3]=1,
// transition[2->4]=1, transition[3->1]=1, transition[4->1]=1.
func TestS3BigramTraining(t *testing.T) {
	seq := []byte{1, 2, 3, 1, 2, 4, 1, 2}
	tokens := make([][]byte, len(seq))
	for i, c := range seq {
		tokens[i] = code(c)
	}

	bg := TrainBigram(tokens)

	cases := []struct {
		prev, next byte
		want       int
	}{
		{1, 2, 3},
		{2, 3, 1},
		{2, 4, 1},
		{3, 1, 1},
		{4, 1, 1},
	}
	for _, c := range cases {
		got := bg.transitions[string(code(c.prev))][string(code(c.next))]
		if got != c.want {
			t.Errorf("transition[%d->%d] = %d, want %d", c.prev, c.next, got, c.want)
		}
	}
}

func TestBigramFallsBackToUniformForUnseenPrefix(t *testing.T) {
	tokens := [][]byte{code(1), code(2)}
	bg := TrainBigram(tokens)

	all := [][]byte{code(1), code(2), code(9)}
	dist, err := bg.ComputeLikelihoods([][]byte{code(9)}, all)
	if err != nil {
		t.Fatalf("ComputeLikelihoods: %v", err)
	}
	want := 1.0 / 3.0
	for _, t2 := range all {
		if got := dist[string(t2)]; got != want {
			t.Errorf("dist[%v] = %v, want %v", t2, got, want)
		}
	}
}

func TestBigramDistributionSumsToOne(t *testing.T) {
	seq := []byte{1, 2, 3, 1, 2, 4, 1, 2}
	tokens := make([][]byte, len(seq))
	for i, c := range seq {
		tokens[i] = code(c)
	}
	bg := TrainBigram(tokens)
	all := [][]byte{code(1), code(2), code(3), code(4)}

	dist, err := bg.ComputeLikelihoods([][]byte{code(1)}, all)
	if err != nil {
		t.Fatalf("ComputeLikelihoods: %v", err)
	}
	var sum float64
	for _, p := range dist {
		if p < 0 {
			t.Errorf("negative probability %v", p)
		}
		sum += p
	}
	if diff := sum - 1.0; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("distribution sums to %v, want 1", sum)
	}
}

package ensemble

import (
	"math"
	"testing"
)

func TestPartitionShardsIsIndexOrderedAndCoversAllTokens(t *testing.T) {
	tokens := make([][]byte, 10)
	for i := range tokens {
		tokens[i] = []byte{byte(i)}
	}

	shards := partitionShards(tokens, 3)
	if len(shards) != 3 {
		t.Fatalf("len(shards) = %d, want 3", len(shards))
	}

	var flattened [][]byte
	for _, shard := range shards {
		flattened = append(flattened, shard...)
	}
	if len(flattened) != len(tokens) {
		t.Fatalf("flattened shard length = %d, want %d", len(flattened), len(tokens))
	}
	for i := range tokens {
		if string(flattened[i]) != string(tokens[i]) {
			t.Errorf("flattened[%d] = %v, want %v (shard order must match token order)", i, flattened[i], tokens[i])
		}
	}
}

func TestPartitionShardsPadsToRequestedCount(t *testing.T) {
	tokens := [][]byte{{1}, {2}}
	shards := partitionShards(tokens, 5)
	if len(shards) != 5 {
		t.Fatalf("len(shards) = %d, want 5", len(shards))
	}
}

func TestContextWindowTruncatesToLastN(t *testing.T) {
	prefix := [][]byte{{1}, {2}, {3}, {4}, {5}}
	got := contextWindow(prefix, 2)
	want := [][]byte{{4}, {5}}
	if len(got) != len(want) {
		t.Fatalf("contextWindow = %v, want %v", got, want)
	}
	for i := range want {
		if string(got[i]) != string(want[i]) {
			t.Errorf("contextWindow[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestContextWindowReturnsWholePrefixWhenShorterThanWindow(t *testing.T) {
	prefix := [][]byte{{1}, {2}}
	got := contextWindow(prefix, 10)
	if len(got) != 2 {
		t.Fatalf("contextWindow = %v, want full prefix of length 2", got)
	}
}

func TestConcatTokens(t *testing.T) {
	got := concatTokens([][]byte{{1, 2}, {3}, {4, 5, 6}})
	want := []byte{1, 2, 3, 4, 5, 6}
	if string(got) != string(want) {
		t.Errorf("concatTokens = %v, want %v", got, want)
	}
}

func TestHashBytesDeterministicAndSensitive(t *testing.T) {
	a := hashBytes([]byte("hello"))
	b := hashBytes([]byte("hello"))
	if a != b {
		t.Errorf("hashBytes not deterministic: %d vs %d", a, b)
	}
	c := hashBytes([]byte("hellp"))
	if a == c {
		t.Errorf("hashBytes collided on distinct inputs")
	}
}

// TestRegularizationMonotonicity matches the spec's universal property 5:
// increasing regularization strictly increases the entropy of the output
// distribution for a non-uniform score set.
func TestRegularizationMonotonicity(t *testing.T) {
	scores := map[string]float64{"a": 0.0, "b": 1.0, "c": 3.0}

	entropy := func(dist Distribution) float64 {
		var h float64
		for _, p := range dist {
			if p > 0 {
				h -= p * math.Log2(p)
			}
		}
		return h
	}

	low := scoresToDistribution(scores, 2.0, 0.0)
	high := scoresToDistribution(scores, 2.0, 5.0)

	if entropy(high) <= entropy(low) {
		t.Errorf("entropy did not strictly increase: low=%v high=%v", entropy(low), entropy(high))
	}
}

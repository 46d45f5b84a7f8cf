package clmerr

import (
	"errors"
	"testing"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(EmptyShard, "shard %d is empty", 3)
	if !Is(err, EmptyShard) {
		t.Errorf("Is(err, EmptyShard) = false, want true")
	}
	if Is(err, ParseError) {
		t.Errorf("Is(err, ParseError) = true, want false")
	}
}

func TestIsFalseForPlainError(t *testing.T) {
	if Is(errors.New("boom"), InputMissing) {
		t.Errorf("Is(plain error, _) = true, want false")
	}
}

func TestWrapPreservesCauseViaUnwrap(t *testing.T) {
	cause := errors.New("native failure")
	err := Wrap(CompressionPrimitiveError, cause, "training dictionary")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(wrapped, cause) = false, want true")
	}
	if !Is(err, CompressionPrimitiveError) {
		t.Errorf("Is(wrapped, CompressionPrimitiveError) = false, want true")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		InputMissing:              "InputMissing",
		ParseError:                "ParseError",
		EmptyShard:                "EmptyShard",
		InsufficientSubChunks:     "InsufficientSubChunks",
		BufferTooSmall:            "BufferTooSmall",
		CompressionPrimitiveError: "CompressionPrimitiveError",
		DistributionViolation:     "DistributionViolation",
		UnknownModel:              "UnknownModel",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

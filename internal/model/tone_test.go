package model

import (
	"errors"
	"testing"
)

// TestToneForScore tests the colour bands at and around each threshold.
func TestToneForScore(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		score    int
		expected Tone
	}{
		{100, ToneGreen},
		{92, ToneGreen},
		{80, ToneGreen},
		{79, ToneAmber},
		{60, ToneAmber},
		{59, ToneRed},
		{1, ToneRed},
		{0, ToneRed},
		{-5, ToneRed},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.expected.String(), func(t *testing.T) {
			t.Parallel()
			if got := ToneForScore(tc.score); got != tc.expected {
				t.Errorf("ToneForScore(%d) = %v, expected %v", tc.score, got, tc.expected)
			}
		})
	}
}

// TestToneHex tests the display colours.
func TestToneHex(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		tone     Tone
		expected string
	}{
		{ToneNeutral, "#666666"},
		{ToneGreen, "#4CAF50"},
		{ToneAmber, "#FFA500"},
		{ToneRed, "#FF0000"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.tone.String(), func(t *testing.T) {
			t.Parallel()
			if tc.tone.Hex() != tc.expected {
				t.Errorf("Hex() = %q, expected %q", tc.tone.Hex(), tc.expected)
			}
		})
	}
}

// TestEnumTextRoundTrip tests that enum names decode to the value they came from.
func TestEnumTextRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("tone", func(t *testing.T) {
		t.Parallel()
		var got Tone
		if err := got.UnmarshalText([]byte("amber")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != ToneAmber {
			t.Errorf("got %s, expected amber", got)
		}
	})

	t.Run("state", func(t *testing.T) {
		t.Parallel()
		var got State
		if err := got.UnmarshalText([]byte("error")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != StateError {
			t.Errorf("got %s, expected error", got)
		}
	})

	t.Run("severity", func(t *testing.T) {
		t.Parallel()
		var got Severity
		if err := got.UnmarshalText([]byte("HIGH")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != SeverityHigh {
			t.Errorf("got %s, expected HIGH", got)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()
		var got Tone
		if err := got.UnmarshalText([]byte("purple")); !errors.Is(err, ErrUnknownName) {
			t.Errorf("expected ErrUnknownName, got %v", err)
		}
	})
}

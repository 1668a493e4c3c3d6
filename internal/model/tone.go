package model

import "fmt"

// Score thresholds for the trust score colour bands.
const (
	// GreenThreshold is the lowest score displayed in green.
	GreenThreshold = 80

	// AmberThreshold is the lowest score displayed in amber.
	AmberThreshold = 60
)

// Tone is the colour of the score display.
type Tone int

const (
	// ToneNeutral is used while idle or scanning.
	ToneNeutral Tone = iota

	// ToneGreen marks a trustworthy page.
	ToneGreen

	// ToneAmber marks a page that deserves caution.
	ToneAmber

	// ToneRed marks an untrusted page or a failed scan.
	ToneRed
)

// ToneForScore returns the colour band of a trust score.
// Scores of 80 and above are green, 60 to 79 amber, anything lower red.
func ToneForScore(score int) Tone {
	switch {
	case score >= GreenThreshold:
		return ToneGreen
	case score >= AmberThreshold:
		return ToneAmber
	default:
		return ToneRed
	}
}

// String returns the lower-case name of the tone.
func (t Tone) String() string {
	switch t {
	case ToneGreen:
		return "green"
	case ToneAmber:
		return "amber"
	case ToneRed:
		return "red"
	default:
		return "neutral"
	}
}

// Hex returns the display colour of the tone as a CSS hex string.
func (t Tone) Hex() string {
	switch t {
	case ToneGreen:
		return "#4CAF50"
	case ToneAmber:
		return "#FFA500"
	case ToneRed:
		return "#FF0000"
	default:
		return "#666666"
	}
}

// MarshalText encodes the tone by name.
func (t Tone) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tone name produced by MarshalText.
func (t *Tone) UnmarshalText(text []byte) error {
	for _, v := range []Tone{ToneNeutral, ToneGreen, ToneAmber, ToneRed} {
		if v.String() == string(text) {
			*t = v
			return nil
		}
	}
	return fmt.Errorf("%w: tone %q", ErrUnknownName, text)
}

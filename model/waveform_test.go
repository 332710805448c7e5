package model

import "testing"

func TestWaveformCaptions(t *testing.T) {
	cases := []struct {
		waveform Waveform
		want     string
	}{
		{WaveformSquare, "Square"},
		{WaveformSine, "Sine"},
		{WaveformTriangle, "Triangle"},
		{WaveformSawtooth, "Sawtooth"},
	}
	for _, c := range cases {
		if got := c.waveform.String(); got != c.want {
			t.Errorf("String(%d) = %q, want %q", c.waveform, got, c.want)
		}
		parsed, err := ParseWaveform(c.want)
		if err != nil {
			t.Errorf("ParseWaveform(%q) failed: %v", c.want, err)
		}
		if parsed != c.waveform {
			t.Errorf("ParseWaveform(%q) = %d, want %d", c.want, parsed, c.waveform)
		}
	}
	if _, err := ParseWaveform("Noise"); err == nil {
		t.Error("ParseWaveform(Noise) should fail")
	}
}

func TestWaveformNext(t *testing.T) {
	w := WaveformSquare
	order := []Waveform{WaveformSine, WaveformTriangle, WaveformSawtooth, WaveformSquare}
	for _, want := range order {
		w = w.Next()
		if w != want {
			t.Fatalf("Next = %d, want %d", w, want)
		}
	}
}

func TestHardwareProfileValidate(t *testing.T) {
	if err := DefaultHardwareProfile().Validate(); err != nil {
		t.Errorf("default profile invalid: %v", err)
	}
	p := DefaultHardwareProfile()
	p.RegisterBits = 24
	if err := p.Validate(); err == nil {
		t.Error("registerBits 24 should fail validation")
	}
	p = DefaultHardwareProfile()
	p.TimerClockHz = 0
	if err := p.Validate(); err == nil {
		t.Error("zero clock should fail validation")
	}
}

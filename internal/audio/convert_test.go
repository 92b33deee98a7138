package audio

import "testing"

func TestConvertSameFormat(t *testing.T) {
	clip := &Clip{Format: Format{SampleRate: 44100, Channels: 1}, PCM: packSamples([]int16{1, 2})}
	if got := Convert(clip, clip.Format); got != clip {
		t.Error("Convert should return the same clip when formats match")
	}
}

func TestConvertChannels(t *testing.T) {
	mono := &Clip{Format: Format{SampleRate: 8000, Channels: 1}, PCM: packSamples([]int16{10, -20})}

	stereo := Convert(mono, Format{SampleRate: 8000, Channels: 2})
	want := []int16{10, 10, -20, -20}
	got := stereo.samples()
	if len(got) != len(want) {
		t.Fatalf("samples = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("samples = %v, want %v", got, want)
			break
		}
	}

	back := Convert(&Clip{Format: stereo.Format, PCM: packSamples([]int16{10, 30, -20, -40})}, mono.Format)
	if s := back.samples(); len(s) != 2 || s[0] != 20 || s[1] != -30 {
		t.Errorf("downmix = %v, want [20 -30]", s)
	}
}

func TestConvertSampleRate(t *testing.T) {
	clip := &Clip{
		Format: Format{SampleRate: 8000, Channels: 1},
		PCM:    packSamples([]int16{0, 100, 200, 300}),
	}

	up := Convert(clip, Format{SampleRate: 16000, Channels: 1})
	if up.Frames() != 8 {
		t.Fatalf("upsampled frames = %d, want 8", up.Frames())
	}
	s := up.samples()
	if s[0] != 0 || s[1] != 50 || s[2] != 100 {
		t.Errorf("upsampled = %v, want linear ramp", s)
	}
	if up.Duration() != clip.Duration() {
		t.Errorf("duration changed: %v != %v", up.Duration(), clip.Duration())
	}

	down := Convert(clip, Format{SampleRate: 4000, Channels: 1})
	if d := down.samples(); len(d) != 2 || d[0] != 0 || d[1] != 200 {
		t.Errorf("downsampled = %v, want [0 200]", d)
	}
}

func TestClampVolume(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-0.5, 0}, {0, 0}, {0.42, 0.42}, {1, 1}, {1.01, 1},
	}
	for _, tc := range tests {
		if got := ClampVolume(tc.in); got != tc.want {
			t.Errorf("ClampVolume(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

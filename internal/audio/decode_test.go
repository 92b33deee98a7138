package audio

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
	"time"
)

// One FLAC frame of 4096 silent mono samples at 44.1 kHz, 16-bit.
const silentFLAC = "664c614380000022100010000000000000000ac440f0000010000000000000000000000000000000000" +
	"0fff8c908009500000021bd"

// silentMP3 builds an ID3-tagged stream of MPEG-1 Layer III frames whose
// granules carry no data, which decode to silence.
func silentMP3(frames int) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 0})
	for range frames {
		// 128 kbps, 44.1 kHz, stereo, no CRC: 417 bytes per frame.
		frame := make([]byte, 417)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})
		buf.Write(frame)
	}
	return buf.Bytes()
}

func mustEncodeWAV(t *testing.T, c *Clip) []byte {
	t.Helper()
	b, err := EncodeWAV(c)
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}
	return b
}

func TestSniff(t *testing.T) {
	wavData := mustEncodeWAV(t, &Clip{
		Format: Format{SampleRate: 8000, Channels: 1},
		PCM:    make([]byte, 16),
	})
	flacData, _ := hex.DecodeString(silentFLAC)

	for _, tc := range []struct {
		name string
		data []byte
		want Container
	}{
		{"wav", wavData, ContainerWAV},
		{"mp3 with id3 tag", silentMP3(1), ContainerMP3},
		{"mp3 frame sync", []byte{0xFF, 0xFB, 0x90, 0x00}, ContainerMP3},
		{"ogg", []byte("OggS\x00\x02"), ContainerVorbis},
		{"flac", flacData, ContainerFLAC},
		{"riff without wave", []byte("RIFF\x00\x00\x00\x00AVI "), ContainerUnknown},
		{"json error body", []byte(`{"error":"boom"}`), ContainerUnknown},
		{"empty", nil, ContainerUnknown},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sniff(tc.data); got != tc.want {
				t.Errorf("Sniff() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDecodeWAV(t *testing.T) {
	for _, tc := range []struct {
		name    string
		format  Format
		samples []int16
	}{
		{"mono", Format{SampleRate: 8000, Channels: 1}, []int16{0, 16384, -16384, 1000, -1000, 0}},
		{"stereo", Format{SampleRate: 22050, Channels: 2}, []int16{0, 0, 8000, -8000, -20000, 20000}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data := mustEncodeWAV(t, &Clip{Format: tc.format, PCM: packSamples(tc.samples)})

			clip, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if clip.Format != tc.format {
				t.Fatalf("Format = %+v, want %+v", clip.Format, tc.format)
			}
			got := clip.samples()
			if len(got) != len(tc.samples) {
				t.Fatalf("got %d samples, want %d", len(got), len(tc.samples))
			}
			for i := range got {
				if d := int(got[i]) - int(tc.samples[i]); d < -2 || d > 2 {
					t.Errorf("sample %d = %d, want %d", i, got[i], tc.samples[i])
				}
			}
		})
	}
}

func TestDecodeMP3(t *testing.T) {
	clip, err := Decode(silentMP3(4))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if want := (Format{SampleRate: 44100, Channels: 2}); clip.Format != want {
		t.Errorf("Format = %+v, want %+v", clip.Format, want)
	}
	if clip.Frames() == 0 || clip.Frames() > 4*1152 {
		t.Errorf("Frames() = %d, want between 1 and %d", clip.Frames(), 4*1152)
	}
	for i, s := range clip.samples() {
		if s != 0 {
			t.Fatalf("sample %d = %d, want silence", i, s)
		}
	}
}

func TestDecodeFLAC(t *testing.T) {
	data, err := hex.DecodeString(silentFLAC)
	if err != nil {
		t.Fatal(err)
	}

	clip, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if want := (Format{SampleRate: 44100, Channels: 1}); clip.Format != want {
		t.Errorf("Format = %+v, want %+v", clip.Format, want)
	}
	if clip.Frames() != 4096 {
		t.Errorf("Frames() = %d, want 4096", clip.Frames())
	}
}

func TestDecodeRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("Internal Server Error")},
		{"truncated wav", []byte("RIFF\x04\x00\x00\x00WAVE")},
		{"wav without data", []byte("RIFF\x0c\x00\x00\x00WAVEJUNK\x00\x00\x00\x00")},
		{"broken ogg", append([]byte("OggS"), make([]byte, 32)...)},
		{"broken flac", []byte("fLaC\x00\x00")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Decode() error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestEncodeWAVRejectsInvalidClip(t *testing.T) {
	if _, err := EncodeWAV(nil); !errors.Is(err, ErrNoClip) {
		t.Errorf("EncodeWAV(nil) error = %v, want ErrNoClip", err)
	}
	if _, err := EncodeWAV(&Clip{Format: Format{SampleRate: 8000, Channels: 6}}); !errors.Is(err, ErrNoClip) {
		t.Errorf("EncodeWAV(6ch) error = %v, want ErrNoClip", err)
	}
}

func TestClipDuration(t *testing.T) {
	clip := &Clip{
		Format: Format{SampleRate: 8000, Channels: 2},
		PCM:    make([]byte, 8000*4*2),
	}
	if d := clip.Duration(); d != 2*time.Second {
		t.Errorf("Duration() = %v, want 2s", d)
	}

	var nilClip *Clip
	if nilClip.Duration() != 0 || nilClip.Frames() != 0 {
		t.Error("nil clip should be empty")
	}
}

package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Container identifies the encoding of a generated payload.
type Container string

const (
	ContainerUnknown Container = ""
	ContainerWAV     Container = "wav"
	ContainerMP3     Container = "mp3"
	ContainerVorbis  Container = "vorbis"
	ContainerFLAC    Container = "flac"
)

// Sniff recognises a payload by its leading bytes.
func Sniff(data []byte) Container {
	switch {
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return ContainerWAV
	case bytes.HasPrefix(data, []byte("ID3")):
		return ContainerMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return ContainerMP3
	case bytes.HasPrefix(data, []byte("OggS")):
		return ContainerVorbis
	case bytes.HasPrefix(data, []byte("fLaC")):
		return ContainerFLAC
	default:
		return ContainerUnknown
	}
}

// Decode turns a generated payload into a clip. WAV, MP3, Ogg Vorbis and
// FLAC are supported; anything else fails with ErrUnsupportedFormat.
func Decode(data []byte) (*Clip, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)

	kind := Sniff(data)
	r := bytes.NewReader(data)
	switch kind {
	case ContainerWAV:
		s, format, err = wav.Decode(r)
	case ContainerMP3:
		s, format, err = mp3.Decode(io.NopCloser(r))
	case ContainerVorbis:
		s, format, err = vorbis.Decode(io.NopCloser(r))
	case ContainerFLAC:
		s, format, err = flac.Decode(r)
	default:
		return nil, fmt.Errorf("%w: unrecognised payload (%d bytes)", ErrUnsupportedFormat, len(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, kind, err)
	}
	defer s.Close() //nolint:errcheck

	clip, err := readClip(s, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, kind, err)
	}
	return clip, nil
}

// readClip drains a stream into 16-bit PCM. Mono sources stay mono; every
// other layout is played as stereo.
func readClip(s beep.Streamer, format beep.Format) (*Clip, error) {
	f := Format{SampleRate: int(format.SampleRate), Channels: 2}
	if format.NumChannels == 1 {
		f.Channels = 1
	}
	if !f.Valid() {
		return nil, fmt.Errorf("invalid stream format: %d Hz, %d channels", format.SampleRate, format.NumChannels)
	}

	var out []int16
	if l, ok := s.(beep.StreamSeeker); ok && l.Len() > 0 {
		out = make([]int16, 0, l.Len()*f.Channels)
	}

	buf := make([][2]float64, 1024)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			out = append(out, floatToInt16(frame[0]))
			if f.Channels == 2 {
				out = append(out, floatToInt16(frame[1]))
			}
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no audio frames")
	}

	return &Clip{Format: f, PCM: packSamples(out)}, nil
}

func floatToInt16(v float64) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(math.Round(v * math.MaxInt16))
}

func int16ToFloat(v int16) float64 {
	return float64(v) / math.MaxInt16
}

// EncodeWAV writes the clip as a 16-bit PCM WAV file.
func EncodeWAV(c *Clip) ([]byte, error) {
	if c == nil || !c.Format.Valid() {
		return nil, ErrNoClip
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(c.Format.SampleRate),
		NumChannels: c.Format.Channels,
		Precision:   bytesPerSample,
	}

	var w seekBuffer
	if err := wav.Encode(&w, c.streamer(), format); err != nil {
		return nil, fmt.Errorf("encoding wav: %w", err)
	}
	return w.buf, nil
}

// streamer plays the clip back as a beep stream.
func (c *Clip) streamer() beep.Streamer {
	samples := c.samples()
	channels := c.Format.Channels
	pos := 0
	return beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := 0
		for n < len(buf) && pos+channels <= len(samples) {
			l := int16ToFloat(samples[pos])
			r := l
			if channels == 2 {
				r = int16ToFloat(samples[pos+1])
			}
			buf[n] = [2]float64{l, r}
			pos += channels
			n++
		}
		return n, n > 0
	})
}

// seekBuffer is an in-memory io.WriteSeeker; the wav encoder rewrites its
// header once the length is known.
type seekBuffer struct {
	buf []byte
	pos int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if end := s.pos + len(p); end > len(s.buf) {
		s.buf = append(s.buf, make([]byte, end-len(s.buf))...)
	}
	n := copy(s.buf[s.pos:], p)
	s.pos += n
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(s.pos) + offset
	case io.SeekEnd:
		abs = int64(len(s.buf)) + offset
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, errors.New("seek: negative position")
	}
	s.pos = int(abs)
	return abs, nil
}

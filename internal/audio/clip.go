package audio

import (
	"encoding/binary"
	"time"
)

// Device output is always signed 16-bit little endian.
const bytesPerSample = 2

// Format describes interleaved 16-bit PCM.
type Format struct {
	SampleRate int
	Channels   int
}

// FrameSize is the number of bytes in one frame (one sample per channel).
func (f Format) FrameSize() int {
	return f.Channels * bytesPerSample
}

// Valid reports whether the format can be handed to an output device.
func (f Format) Valid() bool {
	return f.SampleRate > 0 && (f.Channels == 1 || f.Channels == 2)
}

// Clip is decoded audio ready for playback.
type Clip struct {
	Format Format
	// PCM holds interleaved signed 16-bit little endian samples.
	PCM []byte
}

// Frames returns the number of frames in the clip.
func (c *Clip) Frames() int {
	if c == nil || c.Format.FrameSize() == 0 {
		return 0
	}
	return len(c.PCM) / c.Format.FrameSize()
}

// Duration returns the playing time of the clip.
func (c *Clip) Duration() time.Duration {
	if c == nil || c.Format.SampleRate == 0 {
		return 0
	}
	return framesToDuration(int64(c.Frames()), c.Format.SampleRate)
}

func framesToDuration(frames int64, sampleRate int) time.Duration {
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

// samples unpacks the PCM bytes.
func (c *Clip) samples() []int16 {
	out := make([]int16, len(c.PCM)/bytesPerSample)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(c.PCM[i*2:]))
	}
	return out
}

func packSamples(s []int16) []byte {
	out := make([]byte, len(s)*bytesPerSample)
	for i, v := range s {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

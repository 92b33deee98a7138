package audio

// Convert returns c re-channelled and resampled to the given format. The
// clip is returned as-is when the formats already match.
func Convert(c *Clip, to Format) *Clip {
	if c == nil || c.Format == to {
		return c
	}

	s := c.samples()
	s = remapChannels(s, c.Format.Channels, to.Channels)
	s = resample(s, to.Channels, c.Format.SampleRate, to.SampleRate)

	return &Clip{Format: to, PCM: packSamples(s)}
}

func remapChannels(s []int16, from, to int) []int16 {
	if from == to {
		return s
	}

	frames := len(s) / from
	out := make([]int16, frames*to)
	switch {
	case from == 1 && to == 2:
		for i := 0; i < frames; i++ {
			out[i*2] = s[i]
			out[i*2+1] = s[i]
		}
	case from == 2 && to == 1:
		for i := 0; i < frames; i++ {
			out[i] = int16((int32(s[i*2]) + int32(s[i*2+1])) / 2)
		}
	}
	return out
}

// resample does linear interpolation between neighbouring frames.
func resample(s []int16, channels, from, to int) []int16 {
	if from == to || len(s) == 0 {
		return s
	}

	inFrames := len(s) / channels
	outFrames := int(int64(inFrames) * int64(to) / int64(from))
	out := make([]int16, outFrames*channels)
	step := float64(from) / float64(to)

	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		j := int(pos)
		frac := pos - float64(j)
		k := j + 1
		if k >= inFrames {
			k = inFrames - 1
		}
		for ch := 0; ch < channels; ch++ {
			a := float64(s[j*channels+ch])
			b := float64(s[k*channels+ch])
			out[i*channels+ch] = int16(a + (b-a)*frac)
		}
	}
	return out
}

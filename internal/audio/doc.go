// Package audio decodes generated clips and plays them on the local audio
// device using the oto/v3 library. Clips are normalized to signed 16-bit
// little endian PCM before they reach the device.
package audio

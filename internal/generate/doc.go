// Package generate talks to the external music generation service. It sends
// one prompt per request and hands back the audio payload untouched.
package generate

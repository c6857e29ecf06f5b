package dispatch

import (
	"reflect"

	"github.com/pathwise/voicepilot-core/core/audio"
)

// audioOutput wraps the configured playback client. Forwarding synthesized
// speech is best effort; a missing or failing sink never blocks speaking.
type audioOutput struct {
	base AudioOutput
}

func newAudioOutput(client AudioOutput) *audioOutput {
	output := audioOutput{}
	output.Set(client)
	return &output
}

func (a *audioOutput) Set(client AudioOutput) {
	if a == nil {
		return
	}

	a.base = nil
	if isNilAudioOutput(client) {
		return
	}
	a.base = client
}

func (a *audioOutput) isConfigured() bool {
	return a != nil && a.base != nil
}

func (a *audioOutput) SendAudio(chunk []byte) {
	if a == nil || a.base == nil {
		return
	}

	if err := a.base.SendAudio(chunk); err != nil {
		logger.Warn("Failed to forward synthesized audio to output", "error", err)
	}
}

func (a *audioOutput) Clear() {
	if a == nil || a.base == nil {
		return
	}

	a.base.ClearBuffer()
}

func (a *audioOutput) EncodingInfo() audio.EncodingInfo {
	if a == nil || a.base == nil {
		return audio.GetDefaultEncodingInfo()
	}

	return a.base.EncodingInfo()
}

func isNilAudioOutput(client AudioOutput) bool {
	if client == nil {
		return true
	}

	value := reflect.ValueOf(client)
	switch value.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return value.IsNil()
	default:
		return false
	}
}

package texttospeech

// Voice identifies a synthesizer voice by vendor name and locale.
type Voice struct {
	Name   string
	Locale string
}

// Prosody carries the playback parameters applied to an utterance. Not every
// synthesizer honors every field; unsupported fields are ignored.
type Prosody struct {
	Rate   float64
	Pitch  float64
	Volume float64
}

type UtteranceOptions struct {
	Prosody Prosody
	// Voice selects a specific synthesizer voice. Nil means the synthesizer
	// default.
	Voice *Voice
	// SpeechAudioCallback is called as the synthesizer produces audio.
	SpeechAudioCallback func(audio []byte)
	// SpeechEndedCallback is called once all audio for the utterance has been
	// produced. It is not called for cancelled utterances.
	SpeechEndedCallback func()
	// ErrorCallback is called when synthesis fails or is cancelled mid-flight.
	ErrorCallback func(error)
}

type UtteranceOption func(*UtteranceOptions)

func WithProsody(prosody Prosody) UtteranceOption {
	return func(o *UtteranceOptions) { o.Prosody = prosody }
}

func WithVoice(voice Voice) UtteranceOption {
	return func(o *UtteranceOptions) { o.Voice = &voice }
}

func WithSpeechAudioCallback(callback func(audio []byte)) UtteranceOption {
	return func(o *UtteranceOptions) { o.SpeechAudioCallback = callback }
}

func WithSpeechEndedCallback(callback func()) UtteranceOption {
	return func(o *UtteranceOptions) { o.SpeechEndedCallback = callback }
}

func WithErrorCallback(callback func(error)) UtteranceOption {
	return func(o *UtteranceOptions) { o.ErrorCallback = callback }
}

package events

const (
	// KindListeningStarted identifies the start of audio capture.
	KindListeningStarted Kind = "user_input.listening_started"
	// KindListeningEnded identifies the end of audio capture.
	KindListeningEnded Kind = "user_input.listening_ended"
	// KindRecognitionFailed identifies a transient recognition error.
	KindRecognitionFailed Kind = "user_input.recognition_failed"
	// KindTranscriptInterimUpdated identifies mutable interim transcript updates.
	KindTranscriptInterimUpdated Kind = "user_input.transcript_interim_updated"
	// KindTranscriptFinal identifies the final transcript for the utterance.
	KindTranscriptFinal Kind = "user_input.transcript_final"
)

// ListeningStarted marks that the recognition capability began capturing.
type ListeningStarted struct{ Base }

// NewListeningStarted creates a listening started event.
func NewListeningStarted() ListeningStarted {
	return ListeningStarted{Base: NewBase(KindListeningStarted)}
}

// ListeningEnded marks that the recognition capability stopped capturing.
type ListeningEnded struct{ Base }

// NewListeningEnded creates a listening ended event.
func NewListeningEnded() ListeningEnded {
	return ListeningEnded{Base: NewBase(KindListeningEnded)}
}

// RecognitionFailed carries a transient recognition error message.
type RecognitionFailed struct {
	Base
	Reason string
}

// NewRecognitionFailed creates a recognition failed event.
func NewRecognitionFailed(reason string) RecognitionFailed {
	return RecognitionFailed{Base: NewBase(KindRecognitionFailed), Reason: reason}
}

// TranscriptInterimUpdated carries a mutable interim transcript snapshot.
type TranscriptInterimUpdated struct {
	Base
	Transcript string
}

func (t TranscriptInterimUpdated) String() string { return t.Transcript + "..." }

// NewTranscriptInterimUpdated creates an interim transcript update event.
func NewTranscriptInterimUpdated(transcript string) TranscriptInterimUpdated {
	return TranscriptInterimUpdated{Base: NewBase(KindTranscriptInterimUpdated), Transcript: transcript}
}

// TranscriptFinal carries the terminal transcript for an utterance.
type TranscriptFinal struct {
	Base
	Transcript string
}

func (t TranscriptFinal) String() string { return t.Transcript }

// NewTranscriptFinal creates a final transcript event.
func NewTranscriptFinal(transcript string) TranscriptFinal {
	return TranscriptFinal{Base: NewBase(KindTranscriptFinal), Transcript: transcript}
}

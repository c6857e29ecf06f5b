// Package events defines the typed dispatch-engine event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - assistant_state.*
//   - user_input.*
//   - command.*
//   - assistant_speech.*
//
// Semantics used across the package:
//
//   - Interim: mutable point-in-time transcript snapshot that may still change.
//   - Final: terminal immutable transcript for the current utterance.
//   - Started/Ended: lifecycle boundaries reported by the recognition capability.
//
// assistant_state events
//
//   - StateChanged (assistant_state.changed): enabled/listening snapshot;
//     receivers derive the toggle affordance state from it.
//   - RecognitionUnsupported (assistant_state.unsupported): no recognition
//     capability was found at construction; the assistant cannot be enabled.
//
// user_input events
//
//   - ListeningStarted (user_input.listening_started): the recognition
//     capability began capturing audio.
//   - ListeningEnded (user_input.listening_ended): the recognition capability
//     stopped capturing audio.
//   - RecognitionFailed (user_input.recognition_failed): the recognition
//     capability reported a transient error.
//   - TranscriptInterimUpdated (user_input.transcript_interim_updated):
//     mutable interim transcript snapshot for display.
//   - TranscriptFinal (user_input.transcript_final): terminal transcript for
//     the utterance; the only text ever handed to the command matcher.
//
// command events
//
//   - CommandMatched (command.matched): a finalized phrase resolved to a
//     command table entry; carries the match tier (exact or substring).
//   - CommandUnmatched (command.unmatched): a finalized phrase fell through
//     to the heuristic tier.
//
// assistant_speech events
//
//   - UtteranceStarted (assistant_speech.utterance_started): text was
//     submitted to the synthesizer; carries the utterance id.
//   - UtteranceCancelled (assistant_speech.utterance_cancelled): in-flight
//     speech was cancelled because a newer utterance superseded it.
package events

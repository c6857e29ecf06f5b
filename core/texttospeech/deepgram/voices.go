package deepgram

import "github.com/pathwise/voicepilot-core/core/texttospeech"

type deepgramVoice string

const (
	VoiceThalia  deepgramVoice = "aura-2-thalia-en"
	VoiceOrion   deepgramVoice = "aura-2-orion-en"
	VoiceAsteria deepgramVoice = "aura-asteria-en"
	VoiceLuna    deepgramVoice = "aura-luna-en"
	VoiceOrpheus deepgramVoice = "aura-orpheus-en"
	VoiceAthena  deepgramVoice = "aura-athena-en"
)

var defaultVoice = VoiceThalia

// voiceCatalog maps every supported model to its advertised metadata.
var voiceCatalog = map[deepgramVoice]texttospeech.Voice{
	VoiceThalia:  {Name: string(VoiceThalia), Locale: "en-US"},
	VoiceOrion:   {Name: string(VoiceOrion), Locale: "en-US"},
	VoiceAsteria: {Name: string(VoiceAsteria), Locale: "en-US"},
	VoiceLuna:    {Name: string(VoiceLuna), Locale: "en-US"},
	VoiceOrpheus: {Name: string(VoiceOrpheus), Locale: "en-US"},
	VoiceAthena:  {Name: string(VoiceAthena), Locale: "en-GB"},
}

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{VoiceThalia, VoiceOrion, VoiceAsteria, VoiceLuna, VoiceOrpheus, VoiceAthena}
}

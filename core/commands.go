package dispatch

// Spoken responses. Every user-visible failure is a friendly sentence, never
// a raw error.
const (
	greetingResponse       = "Voice assistant activated. How can I help you?"
	farewellResponse       = "Voice assistant deactivated. Goodbye!"
	unsupportedResponse    = "Sorry, voice recognition is not supported here."
	recognitionApology     = "Sorry, I had trouble hearing you. Please try again."
	unknownCommandResponse = "Sorry, I didn't understand that. Say help to hear what I can do."
	learningHintResponse   = "You can say next concept to continue learning, or show progress to hear how you're doing."
	helpResponse           = "You can say things like: go to dashboard, show learning graph, next concept, " +
		"show progress, my stats, study recommendations, start lesson, mark complete, or stop listening."

	nextConceptApology     = "Sorry, I couldn't find your next concept right now."
	progressApology        = "Sorry, I couldn't fetch your progress right now."
	statsApology           = "Sorry, I couldn't fetch your stats right now."
	recommendationsApology = "Sorry, I couldn't fetch your recommendations right now."
	markCompleteApology    = "Sorry, I couldn't mark this concept complete right now."

	quickLessonFallback  = "Please open the dashboard first to start a quick lesson."
	graphActionFallback  = "Please open the learning graph first."
	markCompleteFallback = "Please open a concept first to mark it complete."
)

// Page binding names commands may invoke. A page registers the bindings it
// defines; everything else falls back to a spoken hint.
const (
	bindingStartQuickLesson    = "startQuickLesson"
	bindingResetGraph          = "resetGraph"
	bindingCenterGraph         = "centerGraph"
	bindingMarkConceptComplete = "markConceptComplete"
)

type commandEntry struct {
	// phrase is the normalized (lowercase, trimmed) table key.
	phrase string
	action Action
}

// defaultCommandTable is populated once at construction and immutable
// afterwards. Order matters: the substring tier takes the first entry that
// matches, so more specific phrases sit above shorter, more ambiguous ones.
func defaultCommandTable() []commandEntry {
	return []commandEntry{
		{"go to dashboard", navigateAction{path: "/"}},
		{"open dashboard", navigateAction{path: "/"}},
		{"show learning graph", navigateAction{path: "/graph"}},
		{"open graph", navigateAction{path: "/graph"}},
		{"go to profile", navigateAction{path: "/profile"}},
		{"next concept", nextConceptAction{}},
		{"continue learning", nextConceptAction{}},
		{"show progress", progressAction{}},
		{"my progress", progressAction{}},
		{"my stats", statsAction{}},
		{"show stats", statsAction{}},
		{"study recommendations", recommendationsAction{}},
		{"learning tips", recommendationsAction{}},
		{"start lesson", invokeAction{binding: bindingStartQuickLesson, fallbackSpeech: quickLessonFallback}},
		{"quick lesson", invokeAction{binding: bindingStartQuickLesson, fallbackSpeech: quickLessonFallback}},
		{"reset graph", invokeAction{binding: bindingResetGraph, fallbackSpeech: graphActionFallback}},
		{"center graph", invokeAction{binding: bindingCenterGraph, fallbackSpeech: graphActionFallback}},
		{"mark complete", markCompleteAction{}},
		{"complete concept", markCompleteAction{}},
		{"help", helpAction{}},
		{"what can i say", helpAction{}},
		{"stop listening", disableAction{}},
		{"goodbye", disableAction{}},
	}
}

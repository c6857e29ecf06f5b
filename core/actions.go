package dispatch

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// navigationDelay leaves room for the confirmation utterance to start before
// the page changes underneath it.
const navigationDelay = 1500 * time.Millisecond

// actionRuntime is the side-effect surface actions run against. The engine
// implements it; tests substitute a recorder.
type actionRuntime interface {
	Speak(text string)
	Navigate(path string)
	NavigateAfter(delay time.Duration, path string)
	PageBinding(name string) (PageBinding, bool)
	Platform() PlatformAPI
	CurrentConcept() string
	DisableAssistant()
}

// Action is one table entry's behavior, kept as data so the matcher stays
// testable without real navigation or network.
type Action interface {
	run(ctx context.Context, rt actionRuntime)
}

type navigateAction struct {
	path string
}

func (a navigateAction) run(_ context.Context, rt actionRuntime) {
	rt.Navigate(a.path)
}

// invokeAction calls a page-local binding when the current page defines it,
// otherwise speaks a hint about which page to open.
type invokeAction struct {
	binding        string
	fallbackSpeech string
}

func (a invokeAction) run(_ context.Context, rt actionRuntime) {
	binding, ok := rt.PageBinding(a.binding)
	if !ok {
		rt.Speak(a.fallbackSpeech)
		return
	}

	if err := binding(); err != nil {
		logger.Warn("page binding failed", "binding", a.binding, "error", err)
		rt.Speak(a.fallbackSpeech)
	}
}

type helpAction struct{}

func (helpAction) run(_ context.Context, rt actionRuntime) {
	rt.Speak(helpResponse)
}

type disableAction struct{}

func (disableAction) run(_ context.Context, rt actionRuntime) {
	rt.DisableAssistant()
}

// nextConceptAction looks up the head of the adaptive learning path and
// navigates to it after announcing the move.
type nextConceptAction struct{}

func (nextConceptAction) run(ctx context.Context, rt actionRuntime) {
	platformAPI := rt.Platform()
	if platformAPI == nil {
		rt.Speak(nextConceptApology)
		return
	}

	path, err := platformAPI.AdaptiveLearningPath(ctx)
	if err != nil || path == nil || len(path.Concepts) == 0 {
		if err != nil {
			logger.Warn("failed to fetch learning path", "error", err)
		}
		rt.Speak(nextConceptApology)
		return
	}

	next := path.Concepts[0]
	rt.Speak(fmt.Sprintf("Your next concept is %s. Taking you there now!", next.Name))
	rt.NavigateAfter(navigationDelay, "/concept/"+next.ID)
}

type progressAction struct{}

func (progressAction) run(ctx context.Context, rt actionRuntime) {
	platformAPI := rt.Platform()
	if platformAPI == nil {
		rt.Speak(progressApology)
		return
	}

	progress, err := platformAPI.Progress(ctx)
	if err != nil || progress == nil {
		if err != nil {
			logger.Warn("failed to fetch progress", "error", err)
		}
		rt.Speak(progressApology)
		return
	}

	completed := 0
	if progress.Completed != nil {
		completed = *progress.Completed
	}
	percentage := 0
	if progress.Percentage != nil {
		percentage = int(math.Round(*progress.Percentage))
	}

	rt.Speak(fmt.Sprintf(
		"You've completed %d concepts with %d%% overall progress. Keep up the great work!",
		completed, percentage,
	))
}

type statsAction struct{}

func (statsAction) run(ctx context.Context, rt actionRuntime) {
	platformAPI := rt.Platform()
	if platformAPI == nil {
		rt.Speak(statsApology)
		return
	}

	stats, err := platformAPI.UserStats(ctx)
	if err != nil || stats == nil {
		if err != nil {
			logger.Warn("failed to fetch user stats", "error", err)
		}
		rt.Speak(statsApology)
		return
	}

	level := 1
	if stats.Level != nil {
		level = *stats.Level
	}
	points := 0
	if stats.TotalPoints != nil {
		points = *stats.TotalPoints
	}
	streak := 0
	if stats.CurrentStreak != nil {
		streak = *stats.CurrentStreak
	}

	rt.Speak(fmt.Sprintf(
		"You're at level %d with %d points and a %d day streak. Great job!",
		level, points, streak,
	))
}

// markCompleteAction completes the concept the learner is studying. A page
// binding takes precedence so an open concept page can update in place;
// without one the platform API is called directly for the concept last
// navigated to.
type markCompleteAction struct{}

func (markCompleteAction) run(ctx context.Context, rt actionRuntime) {
	if binding, ok := rt.PageBinding(bindingMarkConceptComplete); ok {
		if err := binding(); err != nil {
			logger.Warn("page binding failed", "binding", bindingMarkConceptComplete, "error", err)
			rt.Speak(markCompleteApology)
		}
		return
	}

	conceptID := rt.CurrentConcept()
	platformAPI := rt.Platform()
	if conceptID == "" || platformAPI == nil {
		rt.Speak(markCompleteFallback)
		return
	}

	if err := platformAPI.MarkConceptComplete(ctx, conceptID); err != nil {
		logger.Warn("failed to mark concept complete", "concept", conceptID, "error", err)
		rt.Speak(markCompleteApology)
		return
	}

	name := conceptID
	if concept, err := platformAPI.Concept(ctx, conceptID); err == nil && concept != nil && concept.Name != "" {
		name = concept.Name
	}
	rt.Speak(fmt.Sprintf("Marked %s as complete. Nice work!", name))
}

type recommendationsAction struct{}

func (recommendationsAction) run(ctx context.Context, rt actionRuntime) {
	platformAPI := rt.Platform()
	if platformAPI == nil {
		rt.Speak(recommendationsApology)
		return
	}

	recommendations, err := platformAPI.Recommendations(ctx)
	if err != nil || recommendations == nil {
		if err != nil {
			logger.Warn("failed to fetch recommendations", "error", err)
		}
		rt.Speak(recommendationsApology)
		return
	}

	style := "visual"
	if recommendations.LearningStyle != nil {
		style = *recommendations.LearningStyle
	}
	pace := "moderate"
	if recommendations.OptimalPace != nil {
		pace = *recommendations.OptimalPace
	}

	text := fmt.Sprintf("Your learning style is %s and your optimal pace is %s.", style, pace)
	if recommendations.NextStudyTime != nil && *recommendations.NextStudyTime != "" {
		text += fmt.Sprintf(" Your next optimal study time is %s.", *recommendations.NextStudyTime)
	}
	rt.Speak(text)
}

// Engine is the production actionRuntime.

func (e *Engine) Speak(text string) {
	e.speaker.Speak(e.baseContext, text)
}

func (e *Engine) Navigate(path string) {
	e.mu.Lock()
	if rest, ok := strings.CutPrefix(path, "/concept/"); ok {
		e.currentConceptID = rest
	} else {
		e.currentConceptID = ""
	}
	e.mu.Unlock()

	if e.navigator == nil {
		return
	}

	if err := e.navigator.Navigate(path); err != nil {
		logger.Warn("navigation failed", "path", path, "error", err)
	}
}

func (e *Engine) NavigateAfter(delay time.Duration, path string) {
	e.afterFunc(delay, func() { e.Navigate(path) })
}

func (e *Engine) PageBinding(name string) (PageBinding, bool) {
	binding, ok := e.bindings[name]
	return binding, ok
}

func (e *Engine) Platform() PlatformAPI { return e.platform }

func (e *Engine) CurrentConcept() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentConceptID
}

func (e *Engine) DisableAssistant() { e.Disable() }

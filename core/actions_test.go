package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pathwise/voicepilot-core/core/platform"
	"github.com/pathwise/voicepilot-core/internal/utils"
)

// runtimeStub records action side effects instead of performing them.
type runtimeStub struct {
	platform       PlatformAPI
	bindings       map[string]PageBinding
	currentConcept string

	spoken    []string
	navigated []string
	delayed   []string
	disables  int
}

func (r *runtimeStub) Speak(text string)      { r.spoken = append(r.spoken, text) }
func (r *runtimeStub) Navigate(path string)   { r.navigated = append(r.navigated, path) }
func (r *runtimeStub) Platform() PlatformAPI  { return r.platform }
func (r *runtimeStub) CurrentConcept() string { return r.currentConcept }
func (r *runtimeStub) DisableAssistant()      { r.disables++ }

func (r *runtimeStub) NavigateAfter(_ time.Duration, path string) {
	r.delayed = append(r.delayed, path)
}

func (r *runtimeStub) PageBinding(name string) (PageBinding, bool) {
	binding, ok := r.bindings[name]
	return binding, ok
}

func TestProgressActionSpeaksRoundedTemplate(t *testing.T) {
	runtime := &runtimeStub{platform: &platformStub{
		progress: func() (*platform.Progress, error) {
			return &platform.Progress{
				Completed:  utils.Ptr(5),
				Percentage: utils.Ptr(62.7),
			}, nil
		},
	}}

	progressAction{}.run(context.Background(), runtime)

	want := "You've completed 5 concepts with 63% overall progress. Keep up the great work!"
	if len(runtime.spoken) != 1 || runtime.spoken[0] != want {
		t.Fatalf("expected %q, got %v", want, runtime.spoken)
	}
}

func TestProgressActionDefaultsMissingFields(t *testing.T) {
	runtime := &runtimeStub{platform: &platformStub{
		progress: func() (*platform.Progress, error) { return &platform.Progress{}, nil },
	}}

	progressAction{}.run(context.Background(), runtime)

	want := "You've completed 0 concepts with 0% overall progress. Keep up the great work!"
	if len(runtime.spoken) != 1 || runtime.spoken[0] != want {
		t.Fatalf("expected defaults for absent fields, got %v", runtime.spoken)
	}
}

func TestProgressActionFetchFailureApologizes(t *testing.T) {
	runtime := &runtimeStub{platform: &platformStub{
		progress: func() (*platform.Progress, error) { return nil, errors.New("503") },
	}}

	progressAction{}.run(context.Background(), runtime)

	if len(runtime.spoken) != 1 || runtime.spoken[0] != progressApology {
		t.Fatalf("expected progress apology, got %v", runtime.spoken)
	}
}

func TestNextConceptActionAnnouncesAndNavigates(t *testing.T) {
	runtime := &runtimeStub{platform: &platformStub{
		learningPath: func() (*platform.LearningPath, error) {
			return &platform.LearningPath{Concepts: []platform.Concept{
				{ID: "algebra-basics", Name: "Algebra Basics"},
				{ID: "linear-equations", Name: "Linear Equations"},
			}}, nil
		},
	}}

	nextConceptAction{}.run(context.Background(), runtime)

	want := "Your next concept is Algebra Basics. Taking you there now!"
	if len(runtime.spoken) != 1 || runtime.spoken[0] != want {
		t.Fatalf("expected announcement, got %v", runtime.spoken)
	}

	if len(runtime.delayed) != 1 || runtime.delayed[0] != "/concept/algebra-basics" {
		t.Fatalf("expected delayed navigation to the first concept, got %v", runtime.delayed)
	}
}

func TestNextConceptActionFetchFailureApologizesWithoutNavigation(t *testing.T) {
	runtime := &runtimeStub{platform: &platformStub{
		learningPath: func() (*platform.LearningPath, error) { return nil, errors.New("timeout") },
	}}

	nextConceptAction{}.run(context.Background(), runtime)

	want := "Sorry, I couldn't find your next concept right now."
	if len(runtime.spoken) != 1 || runtime.spoken[0] != want {
		t.Fatalf("expected apology, got %v", runtime.spoken)
	}

	if len(runtime.navigated) != 0 || len(runtime.delayed) != 0 {
		t.Fatalf("expected no navigation on fetch failure, got %v %v", runtime.navigated, runtime.delayed)
	}
}

func TestNextConceptActionEmptyPathApologizes(t *testing.T) {
	runtime := &runtimeStub{platform: &platformStub{
		learningPath: func() (*platform.LearningPath, error) { return &platform.LearningPath{}, nil },
	}}

	nextConceptAction{}.run(context.Background(), runtime)

	if len(runtime.spoken) != 1 || runtime.spoken[0] != nextConceptApology {
		t.Fatalf("expected apology for an empty path, got %v", runtime.spoken)
	}
}

func TestStatsActionDefaultsLevelToOne(t *testing.T) {
	runtime := &runtimeStub{platform: &platformStub{
		userStats: func() (*platform.UserStats, error) { return &platform.UserStats{}, nil },
	}}

	statsAction{}.run(context.Background(), runtime)

	want := "You're at level 1 with 0 points and a 0 day streak. Great job!"
	if len(runtime.spoken) != 1 || runtime.spoken[0] != want {
		t.Fatalf("expected default stats, got %v", runtime.spoken)
	}
}

func TestRecommendationsActionDefaultsStyleAndPace(t *testing.T) {
	runtime := &runtimeStub{platform: &platformStub{
		recommendations: func() (*platform.Recommendations, error) {
			return &platform.Recommendations{}, nil
		},
	}}

	recommendationsAction{}.run(context.Background(), runtime)

	want := "Your learning style is visual and your optimal pace is moderate."
	if len(runtime.spoken) != 1 || runtime.spoken[0] != want {
		t.Fatalf("expected documented defaults, got %v", runtime.spoken)
	}
}

func TestInvokeActionCallsPageBinding(t *testing.T) {
	invoked := 0
	runtime := &runtimeStub{bindings: map[string]PageBinding{
		bindingStartQuickLesson: func() error { invoked++; return nil },
	}}

	invokeAction{binding: bindingStartQuickLesson, fallbackSpeech: quickLessonFallback}.
		run(context.Background(), runtime)

	if invoked != 1 {
		t.Fatalf("expected the binding to be invoked once, got %d", invoked)
	}

	if len(runtime.spoken) != 0 {
		t.Fatalf("expected no fallback speech when the binding exists, got %v", runtime.spoken)
	}
}

func TestInvokeActionFallsBackWhenBindingMissing(t *testing.T) {
	runtime := &runtimeStub{}

	invokeAction{binding: bindingResetGraph, fallbackSpeech: graphActionFallback}.
		run(context.Background(), runtime)

	if len(runtime.spoken) != 1 || runtime.spoken[0] != graphActionFallback {
		t.Fatalf("expected the open-this-page hint, got %v", runtime.spoken)
	}
}

func TestMarkCompleteActionPrefersPageBinding(t *testing.T) {
	called := 0
	platformCalls := 0
	runtime := &runtimeStub{
		currentConcept: "loops",
		bindings: map[string]PageBinding{
			bindingMarkConceptComplete: func() error { called++; return nil },
		},
		platform: &platformStub{
			markComplete: func(string) error { platformCalls++; return nil },
		},
	}

	markCompleteAction{}.run(context.Background(), runtime)

	if called != 1 {
		t.Fatalf("expected the page binding to run once, got %d", called)
	}
	if platformCalls != 0 {
		t.Fatalf("expected no platform call while a binding is registered, got %d", platformCalls)
	}
	if len(runtime.spoken) != 0 {
		t.Fatalf("expected the page to own the confirmation, got %v", runtime.spoken)
	}
}

func TestMarkCompleteActionCompletesCurrentConceptViaPlatform(t *testing.T) {
	completed := []string{}
	runtime := &runtimeStub{
		currentConcept: "loops",
		platform: &platformStub{
			markComplete: func(conceptID string) error {
				completed = append(completed, conceptID)
				return nil
			},
			concept: func(conceptID string) (*platform.Concept, error) {
				return &platform.Concept{ID: conceptID, Name: "Loops"}, nil
			},
		},
	}

	markCompleteAction{}.run(context.Background(), runtime)

	if len(completed) != 1 || completed[0] != "loops" {
		t.Fatalf("expected the current concept marked complete, got %v", completed)
	}

	want := "Marked Loops as complete. Nice work!"
	if len(runtime.spoken) != 1 || runtime.spoken[0] != want {
		t.Fatalf("expected %q, got %v", want, runtime.spoken)
	}
}

func TestMarkCompleteActionFallsBackToConceptIDWhenLookupFails(t *testing.T) {
	runtime := &runtimeStub{
		currentConcept: "loops",
		platform: &platformStub{
			markComplete: func(string) error { return nil },
			concept: func(string) (*platform.Concept, error) {
				return nil, errors.New("404")
			},
		},
	}

	markCompleteAction{}.run(context.Background(), runtime)

	want := "Marked loops as complete. Nice work!"
	if len(runtime.spoken) != 1 || runtime.spoken[0] != want {
		t.Fatalf("expected the id in the confirmation, got %v", runtime.spoken)
	}
}

func TestMarkCompleteActionWithoutConceptSpeaksHint(t *testing.T) {
	runtime := &runtimeStub{platform: &platformStub{
		markComplete: func(string) error { return nil },
	}}

	markCompleteAction{}.run(context.Background(), runtime)

	if len(runtime.spoken) != 1 || runtime.spoken[0] != markCompleteFallback {
		t.Fatalf("expected the open-a-concept hint, got %v", runtime.spoken)
	}
}

func TestMarkCompleteActionPlatformFailureApologizes(t *testing.T) {
	runtime := &runtimeStub{
		currentConcept: "loops",
		platform: &platformStub{
			markComplete: func(string) error { return errors.New("503") },
		},
	}

	markCompleteAction{}.run(context.Background(), runtime)

	if len(runtime.spoken) != 1 || runtime.spoken[0] != markCompleteApology {
		t.Fatalf("expected the mark-complete apology, got %v", runtime.spoken)
	}
}

func TestNavigateTracksCurrentConcept(t *testing.T) {
	engine := newTestEngine(t, nil)

	engine.Navigate("/concept/loops")
	if got := engine.CurrentConcept(); got != "loops" {
		t.Fatalf("expected the concept id tracked after navigation, got %q", got)
	}

	engine.Navigate("/")
	if got := engine.CurrentConcept(); got != "" {
		t.Fatalf("expected the concept cleared after leaving the page, got %q", got)
	}
}

func TestDisableActionDisablesAssistant(t *testing.T) {
	runtime := &runtimeStub{}

	disableAction{}.run(context.Background(), runtime)

	if runtime.disables != 1 {
		t.Fatalf("expected one disable request, got %d", runtime.disables)
	}
}

func TestActionsApologizeWithoutPlatformClient(t *testing.T) {
	runtime := &runtimeStub{}

	progressAction{}.run(context.Background(), runtime)
	nextConceptAction{}.run(context.Background(), runtime)

	if len(runtime.spoken) != 2 ||
		runtime.spoken[0] != progressApology ||
		runtime.spoken[1] != nextConceptApology {
		t.Fatalf("expected apologies without a configured platform client, got %v", runtime.spoken)
	}
}

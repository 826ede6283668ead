package emotion

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := map[string]Label{
		"Anger":        Angry,
		"joyful":       Happy,
		"Disappointed": Sad,
		"nervousness":  Fear,
		"Uncertain":    Confused,
		"trust":        Neutral,
	}
	for name, want := range cases {
		if got := Classify(name); got != want {
			t.Fatalf("Classify(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestSummarizeDropsNoiseAndLimitsOthers(t *testing.T) {
	summary := Summarize(map[string]float64{
		"anger":    0.6,
		"sadness":  0.2,
		"fear":     0.1,
		"joy":      0.05,
		"surprise": 0.04,
		"trust":    0.005,
	})
	if summary.Dominant == nil || summary.Dominant.Name != "anger" {
		t.Fatalf("expected anger dominant, got %+v", summary.Dominant)
	}
	if summary.Dominant.Tone != Angry {
		t.Fatalf("expected angry tone, got %s", summary.Dominant.Tone)
	}
	if len(summary.Others) != 3 {
		t.Fatalf("expected 3 secondary emotions, got %d", len(summary.Others))
	}
	if summary.Others[0].Name != "sadness" || summary.Others[2].Name != "joy" {
		t.Fatalf("unexpected order: %+v", summary.Others)
	}
}

func TestSummarizeNoSignal(t *testing.T) {
	if s := Summarize(nil); s.Dominant != nil {
		t.Fatal("nil snapshot must not produce a dominant emotion")
	}
	if s := Summarize(map[string]float64{"calm": 0.01}); s.Dominant != nil {
		t.Fatal("weights at the noise floor must be ignored")
	}
}

func TestNormalizeClamps(t *testing.T) {
	got := Normalize(map[string]float64{"a": 1.7, "b": -0.2, "c": 0.4, "d": math.NaN()})
	if got["a"] != 1 || got["b"] != 0 || got["c"] != 0.4 {
		t.Fatalf("unexpected normalization: %v", got)
	}
	if _, ok := got["d"]; ok {
		t.Fatal("NaN weight should be dropped")
	}
	if Normalize(nil) != nil {
		t.Fatal("absent snapshot must stay absent")
	}
}

package evaluation

import "testing"

func TestBandForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  Band
	}{
		{40, BandOutstanding},
		{32, BandOutstanding},
		{31.5, BandMastering},
		{25, BandMastering},
		{24, BandDeveloping},
		{16, BandDeveloping},
		{15, BandBeginning},
		{0, BandBeginning},
	}
	for _, tc := range cases {
		if got := BandForScore(tc.score); got != tc.want {
			t.Fatalf("BandForScore(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestParseBand(t *testing.T) {
	if got, ok := ParseBand(" mastering "); !ok || got != BandMastering {
		t.Fatalf("expected MASTERING, got %q (%v)", got, ok)
	}
	if _, ok := ParseBand("Not Available"); ok {
		t.Fatal("placeholder level must not parse as a rubric band")
	}
}

func TestDegradedKeepsCounts(t *testing.T) {
	r := Degraded(MessageCounts{Total: 3, User: 1, Agent: 2}, WordCounts{Total: 9, User: 2})
	if r.Score != 0 || r.Level != BandNotAvailable {
		t.Fatalf("unexpected degraded result: %+v", r)
	}
	if r.MessageCounts.User != 1 || r.WordCounts.Total != 9 {
		t.Fatalf("counts not carried: %+v", r)
	}
	for _, field := range []string{r.Summary, r.Overview, r.Rationale, r.ToneNote, r.IssueNote, r.ImprovementNote} {
		if field == "" {
			t.Fatal("every narrative field needs placeholder text")
		}
	}
}

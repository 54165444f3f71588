package pomodoro

import (
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/focusforge/internal/progress"
)

// Feature: focusforge, Property 4: applying valid durations rewinds to study
func TestApplyDurationsValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := rapid.IntRange(1, 600).Draw(t, "study_minutes")
		b := rapid.IntRange(1, 600).Draw(t, "break_minutes")

		r := newRig(progress.Record{})
		// Move somewhere into a break phase first.
		r.session.ApplyDurations(1, 2)
		r.session.Start()
		r.advance(rapid.IntRange(0, 150).Draw(t, "elapsed"))
		r.session.Pause()

		r.session.ApplyDurations(m, b)

		st := r.session.State()
		if st.RemainingSeconds != m*60 {
			t.Fatalf("remaining = %d, want %d", st.RemainingSeconds, m*60)
		}
		if !st.IsStudyPhase {
			t.Fatal("phase should be study after ApplyDurations")
		}
		if st.StudyDurationSeconds != m*60 || st.BreakDurationSeconds != b*60 {
			t.Fatalf("durations = %d/%d, want %d/%d", st.StudyDurationSeconds, st.BreakDurationSeconds, m*60, b*60)
		}
	})
}

// Feature: focusforge, Property 5: invalid durations leave state unchanged
func TestApplyDurationsInvalidIsIgnored(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := newRig(progress.Record{})
		r.session.Start()
		r.advance(rapid.IntRange(0, 2000).Draw(t, "elapsed"))
		before := r.session.State()

		good := rapid.IntRange(1, 100).Draw(t, "good")
		bad := rapid.OneOf(rapid.IntRange(-100, 0), rapid.IntRange(MaxMinutes+1, math.MaxInt)).Draw(t, "bad")
		if rapid.Bool().Draw(t, "bad_study") {
			r.session.ApplyDurations(bad, good)
		} else {
			r.session.ApplyDurations(good, bad)
		}

		if after := r.session.State(); after != before {
			t.Fatalf("state changed: before %+v, after %+v", before, after)
		}
	})
}

func TestApplyDurationInputRejectsNonNumeric(t *testing.T) {
	r := newRig(progress.Record{})
	before := r.session.State()

	for _, in := range [][2]string{{"abc", "5"}, {"25", ""}, {"", ""}, {".5", "5"}, {"0", "5"}, {"0.9", "5"}} {
		r.session.ApplyDurationInput(in[0], in[1])
		if after := r.session.State(); after != before {
			t.Fatalf("input %q changed state: %+v", in, after)
		}
	}

	r.session.ApplyDurationInput(" 45 ", "15")
	if st := r.session.State(); st.RemainingSeconds != 45*60 || st.BreakDurationSeconds != 15*60 {
		t.Errorf("valid text input not applied: %+v", st)
	}
}

func TestApplyDurationInputReadsLeadingNumber(t *testing.T) {
	cases := []struct {
		study, brk string
		want       [2]int
	}{
		{"25.5", "5", [2]int{25, 5}},
		{"12abc", "3 min", [2]int{12, 3}},
		{"+40", " 10", [2]int{40, 10}},
	}
	for _, c := range cases {
		r := newRig(progress.Record{})
		r.session.ApplyDurationInput(c.study, c.brk)
		st := r.session.State()
		if st.StudyDurationSeconds != c.want[0]*60 || st.BreakDurationSeconds != c.want[1]*60 {
			t.Errorf("ApplyDurationInput(%q, %q) = %+v, want %v minutes", c.study, c.brk, st, c.want)
		}
	}
}

func TestApplyDurationsRejectsOverflow(t *testing.T) {
	r := newRig(progress.Record{})
	before := r.session.State()

	r.session.ApplyDurations(MaxMinutes+1, 5)
	r.session.ApplyDurations(5, MaxMinutes+1)
	r.session.ApplyDurationInput("153722867280912931", "5")
	r.session.ApplyDurationInput("99999999999999999999", "5")
	if after := r.session.State(); after != before {
		t.Fatalf("oversized minutes changed state: %+v", after)
	}

	r.session.ApplyDurations(MaxMinutes, 1)
	if st := r.session.State(); st.StudyDurationSeconds <= 0 || st.RemainingSeconds != st.StudyDurationSeconds {
		t.Errorf("largest accepted length overflowed: %+v", st)
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	r := newRig(progress.Record{})
	r.session.Start()
	r.advance(10)

	r.session.Pause()
	once := r.session.State()
	r.session.Pause()
	twice := r.session.State()

	if once != twice {
		t.Fatalf("second Pause changed state: %+v vs %+v", once, twice)
	}
	if once.IsRunning {
		t.Fatal("IsRunning should be false after Pause")
	}

	r.advance(30)
	if st := r.session.State(); st.RemainingSeconds != once.RemainingSeconds {
		t.Errorf("clock kept ticking after Pause: %d -> %d", once.RemainingSeconds, st.RemainingSeconds)
	}
}

// Feature: focusforge, Property 6: Reset always rewinds to a paused study phase
func TestResetFromAnyState(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := newRig(progress.Record{})
		r.session.ApplyDurations(rapid.IntRange(1, 3).Draw(t, "study"), rapid.IntRange(1, 3).Draw(t, "break"))
		r.session.Start()
		r.advance(rapid.IntRange(0, 900).Draw(t, "elapsed"))
		if rapid.Bool().Draw(t, "pause_first") {
			r.session.Pause()
		}

		r.session.Reset()
		r.session.Reset()

		st := r.session.State()
		if !st.IsStudyPhase || st.IsRunning || st.RemainingSeconds != st.StudyDurationSeconds {
			t.Fatalf("unexpected state after Reset: %+v", st)
		}
		r.advance(5)
		if r.session.State() != st {
			t.Fatal("clock ticked after Reset")
		}
	})
}

func TestStartIsNoOpWhenRunning(t *testing.T) {
	r := newRig(progress.Record{})
	r.session.Start()
	r.session.Start()

	if r.quotes.calls != 1 {
		t.Errorf("quote picked %d times, want 1", r.quotes.calls)
	}
	r.advance(1)
	if got := r.session.State().RemainingSeconds; got != 25*60-1 {
		t.Errorf("remaining after 1s = %d; a second tick loop must not exist", got)
	}
}

func TestStartPicksQuoteEveryTime(t *testing.T) {
	r := newRig(progress.Record{})
	r.session.Start()
	r.session.Pause()
	r.session.Start()

	if r.quotes.calls != 2 {
		t.Errorf("quote picked %d times, want 2", r.quotes.calls)
	}
	if r.session.Quote() != "Stay locked in." {
		t.Errorf("Quote() = %q", r.session.Quote())
	}
}

func TestTickRefreshesDisplay(t *testing.T) {
	r := newRig(progress.Record{StreakCount: 3, ExperiencePoints: 120})
	r.session.Start()
	r.advance(3)

	if r.display.refreshes != 3 {
		t.Errorf("refreshes = %d, want 3", r.display.refreshes)
	}
	want := Snapshot{Phase: StudyLabel, RemainingSeconds: 25*60 - 3, Streak: 3, XP: 120}
	if r.display.last != want {
		t.Errorf("last snapshot = %+v, want %+v", r.display.last, want)
	}
}

func TestFreshStudySessionCompletes(t *testing.T) {
	r := newRig(progress.Record{})
	r.session.Start()
	r.advance(1500)

	if r.sounds.complete != 1 {
		t.Fatalf("completion fired %d times, want 1", r.sounds.complete)
	}
	rec := r.session.Progress()
	if rec.StreakCount != 1 || rec.ExperiencePoints != 20 {
		t.Errorf("streak=%d xp=%d, want 1 and 20", rec.StreakCount, rec.ExperiencePoints)
	}
	if rec.LastCompletedDate != progress.DateString(monday) {
		t.Errorf("LastCompletedDate = %q", rec.LastCompletedDate)
	}
	st := r.session.State()
	if st.IsStudyPhase {
		t.Error("phase should be break")
	}
	if st.RemainingSeconds != st.BreakDurationSeconds {
		t.Errorf("remaining = %d, want %d", st.RemainingSeconds, st.BreakDurationSeconds)
	}
	if !st.IsRunning {
		t.Error("clock keeps running into the break")
	}

	saved, err := r.store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if saved != rec {
		t.Errorf("persisted %+v, want %+v", saved, rec)
	}
	if r.celebrator.n != 0 {
		t.Error("celebration must not fire at streak 1")
	}
}

func TestSameDayCreditOnlyOnce(t *testing.T) {
	r := newRig(progress.Record{})
	r.session.ApplyDurations(1, 1)
	r.session.Start()

	r.advance(60) // study done
	r.advance(60) // break done
	writes := r.mem.Writes
	r.advance(60) // second study done, same day

	rec := r.session.Progress()
	if rec.ExperiencePoints != 20 || rec.StreakCount != 1 {
		t.Errorf("streak=%d xp=%d, want 1 and 20", rec.StreakCount, rec.ExperiencePoints)
	}
	if r.sounds.complete != 2 {
		t.Errorf("complete sound played %d times, want 2", r.sounds.complete)
	}
	if r.mem.Writes != writes {
		t.Errorf("uncredited completion wrote to the store")
	}
}

func TestBreakCompletionAwardsNothing(t *testing.T) {
	r := newRig(progress.Record{})
	r.session.ApplyDurations(1, 2)
	r.session.Start()
	r.advance(60)
	sounds := r.sounds.complete

	r.advance(120)

	if r.sounds.complete != sounds {
		t.Error("break completion must not play the complete sound")
	}
	st := r.session.State()
	if !st.IsStudyPhase || st.RemainingSeconds != 60 {
		t.Errorf("expected fresh study phase, got %+v", st)
	}
	if r.session.Progress().ExperiencePoints != 20 {
		t.Errorf("xp = %d", r.session.Progress().ExperiencePoints)
	}
}

func TestCelebrationAtStreakFive(t *testing.T) {
	yesterday := progress.DateString(monday.AddDate(0, 0, -1))
	r := newRig(progress.Record{StreakCount: 4, ExperiencePoints: 80, LastCompletedDate: yesterday})
	r.session.ApplyDurations(1, 1)
	r.session.Start()

	r.advance(60)
	if got := r.session.Progress().StreakCount; got != 5 {
		t.Fatalf("streak = %d, want 5", got)
	}
	if r.celebrator.n != 1 {
		t.Fatalf("celebration fired %d times, want 1", r.celebrator.n)
	}

	// More sessions the same day do not celebrate again.
	r.advance(60 * 4)
	if r.celebrator.n != 1 {
		t.Errorf("celebration fired %d times after repeats, want 1", r.celebrator.n)
	}
}

func TestNoCelebrationPastFive(t *testing.T) {
	yesterday := progress.DateString(monday.AddDate(0, 0, -1))
	r := newRig(progress.Record{StreakCount: 5, ExperiencePoints: 100, LastCompletedDate: yesterday})
	r.session.ApplyDurations(1, 1)
	r.session.Start()
	r.advance(60)

	if got := r.session.Progress().StreakCount; got != 6 {
		t.Fatalf("streak = %d, want 6", got)
	}
	if r.celebrator.n != 0 {
		t.Errorf("celebration fired at streak 6")
	}
}

func TestCreditAcrossMidnight(t *testing.T) {
	lateNight := monday.Add(14*time.Hour + 59*time.Minute) // 23:59
	r := newRigAt(lateNight, progress.Record{})
	r.session.ApplyDurations(1, 1)
	r.session.Start()

	r.advance(60) // completes at 00:00 next day
	r.advance(60)
	r.advance(60)

	rec := r.session.Progress()
	if rec.StreakCount != 1 {
		t.Errorf("streak = %d, want 1 (both completions fall on the same day)", rec.StreakCount)
	}
	if rec.LastCompletedDate != progress.DateString(monday.AddDate(0, 0, 1)) {
		t.Errorf("LastCompletedDate = %q", rec.LastCompletedDate)
	}
}

func TestSaveFailureIsNotFatal(t *testing.T) {
	r := newRig(progress.Record{})
	saver := &failingSaver{}
	r.session.saver = saver
	r.session.ApplyDurations(1, 1)
	r.session.Start()
	r.advance(60)

	if saver.calls != 1 {
		t.Errorf("Save called %d times, want 1", saver.calls)
	}
	if r.session.Progress().StreakCount != 1 {
		t.Error("in-memory credit should survive a failed save")
	}
	if r.session.State().IsStudyPhase {
		t.Error("phase should still flip")
	}
}

func TestRemainingStaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := newRig(progress.Record{})
		r.session.ApplyDurations(rapid.IntRange(1, 4).Draw(t, "study"), rapid.IntRange(1, 4).Draw(t, "break"))
		r.session.Start()
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			r.advance(rapid.IntRange(1, 90).Draw(t, "step"))
			st := r.session.State()
			hi := max(st.StudyDurationSeconds, st.BreakDurationSeconds)
			if st.RemainingSeconds < 0 || st.RemainingSeconds > hi {
				t.Fatalf("remaining %d out of [0, %d]", st.RemainingSeconds, hi)
			}
		}
	})
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{0: "00:00", 5: "00:05", 61: "01:01", 1500: "25:00", 6000: "100:00", -4: "00:00"}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

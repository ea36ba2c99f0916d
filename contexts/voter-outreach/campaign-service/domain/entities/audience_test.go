package entities

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestAudienceSpecValid(t *testing.T) {
	if (AudienceSpec{}).Valid() {
		t.Fatalf("empty spec must be invalid")
	}
	if !(AudienceSpec{Constituency: "Mandya"}).Valid() {
		t.Fatalf("single predicate spec must be valid")
	}
	if (AudienceSpec{Tags: []string{"farmer", "  "}}).Valid() {
		t.Fatalf("blank tag must invalidate the spec")
	}
	if (AudienceSpec{AgeRange: &AgeRange{Min: intPtr(40), Max: intPtr(30)}}).Valid() {
		t.Fatalf("inverted age range must be invalid")
	}
	if !(AudienceSpec{AgeRange: &AgeRange{Min: intPtr(18)}}).Valid() {
		t.Fatalf("open-ended age range must be valid")
	}
}

func TestAudienceSpecMatches(t *testing.T) {
	dob := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)
	voter := Voter{
		VoterID:      "v-1",
		Constituency: "Mandya",
		District:     "Mandya",
		State:        "Karnataka",
		DateOfBirth:  &dob,
		Tags:         []string{"farmer", "first-time"},
	}
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	spec := AudienceSpec{
		Constituency: "Mandya",
		State:        "Karnataka",
		AgeRange:     &AgeRange{Min: intPtr(30), Max: intPtr(40)},
		Tags:         []string{"farmer"},
	}
	if !spec.Matches(voter, spec.AgeRange.Window(now)) {
		t.Fatalf("expected voter to match spec")
	}

	other := spec
	other.Constituency = "Hassan"
	if other.Matches(voter, other.AgeRange.Window(now)) {
		t.Fatalf("constituency mismatch must not match")
	}

	tagged := AudienceSpec{Tags: []string{"farmer", "veteran"}}
	if tagged.Matches(voter, DOBWindow{}) {
		t.Fatalf("tags are conjunctive; missing tag must not match")
	}

	aged := AudienceSpec{AgeRange: &AgeRange{Min: intPtr(18)}}
	noDOB := Voter{Constituency: "Mandya"}
	if aged.Matches(noDOB, aged.AgeRange.Window(now)) {
		t.Fatalf("age-filtered spec must not match voter without date of birth")
	}
}

func TestAgeRangeWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	window := AgeRange{Min: intPtr(30), Max: intPtr(40)}.Window(now)
	if !window.Earliest.Equal(time.Date(1985, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected earliest: %v", window.Earliest)
	}
	if !window.Latest.Equal(time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected latest: %v", window.Latest)
	}

	open := AgeRange{Min: intPtr(18)}.Window(now)
	if !open.Earliest.IsZero() {
		t.Fatalf("expected unbounded earliest for open max")
	}
}

func TestPersonalize(t *testing.T) {
	voter := Voter{
		Name:         "Asha",
		Constituency: "Mandya",
		District:     "Mandya",
		State:        "Karnataka",
	}
	got := Personalize("Hi {{name}}, news for {{constituency}} ({{state}}). {{unknown}} stays.", voter)
	want := "Hi Asha, news for Mandya (Karnataka). {{unknown}} stays."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

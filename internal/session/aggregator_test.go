package session

import (
	"reflect"
	"testing"
	"time"
)

var base = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func turn(sessionID string, offset time.Duration, prompt, connInfo string) Turn {
	return Turn{
		ID:             sessionID + "-" + offset.String(),
		SessionID:      sessionID,
		Prompt:         prompt,
		Response:       `{"text":"reply to ` + prompt + `"}`,
		ConnectionInfo: connInfo,
		CreatedAt:      base.Add(offset),
	}
}

func TestSummarizeGroupsBySessionInFirstSeenOrder(t *testing.T) {
	turns := []Turn{
		turn("s1", 0, "hello", ""),
		turn("s1", time.Minute, "again", ""),
		turn("s2", 2*time.Minute, "hi there", ""),
	}

	summaries := Summarize(turns, nil, base.Add(3*time.Minute))
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].SessionID != "s1" || summaries[1].SessionID != "s2" {
		t.Fatalf("unexpected order: %s, %s", summaries[0].SessionID, summaries[1].SessionID)
	}

	s1 := summaries[0]
	if s1.MessageCount != 2 {
		t.Fatalf("s1 message count: %d", s1.MessageCount)
	}
	if !s1.FirstSeen.Equal(base) || !s1.LastActivity.Equal(base.Add(time.Minute)) {
		t.Fatalf("s1 window: %v .. %v", s1.FirstSeen, s1.LastActivity)
	}
	if s1.LastMessage != "again" {
		t.Fatalf("s1 last message: %s", s1.LastMessage)
	}
	if s1.UserName != AnonymousUserName {
		t.Fatalf("expected anonymous fallback, got %s", s1.UserName)
	}
}

func TestSummarizeMessageCountsSumToInput(t *testing.T) {
	turns := []Turn{
		turn("a", 0, "1", ""),
		turn("b", time.Second, "2", ""),
		turn("a", 2*time.Second, "3", ""),
		turn("c", 3*time.Second, "4", `not json at all`),
		turn("b", 4*time.Second, "5", ""),
	}

	total := 0
	for _, summary := range Summarize(turns, nil, base.Add(time.Hour)) {
		total += summary.MessageCount
	}
	if total != len(turns) {
		t.Fatalf("counts sum to %d, want %d", total, len(turns))
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	turns := []Turn{
		turn("s1", 0, "hello", `{"username":"mickey","email":"m@example.com"}`),
		turn("s2", time.Minute, "yo", ""),
	}
	now := base.Add(10 * time.Minute)

	first := Summarize(turns, nil, now)
	second := Summarize(turns, nil, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("summarize is not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	summaries := Summarize(nil, nil, base)
	if len(summaries) != 0 {
		t.Fatalf("expected empty result, got %d", len(summaries))
	}
}

func TestSummarizeConnectionInfoFallbacks(t *testing.T) {
	turns := []Turn{
		turn("s1", 0, "hey", `{"name":"Mickey","email":"mickey@example.com","phone":"+91-1","location":"Pune"}`),
	}

	summary := Summarize(turns, nil, base)[0]
	if summary.UserName != "Mickey" {
		t.Fatalf("name: %s", summary.UserName)
	}
	if summary.UserEmail != "mickey@example.com" {
		t.Fatalf("email: %s", summary.UserEmail)
	}
	if summary.UserMobile != "+91-1" {
		t.Fatalf("mobile alias phone not resolved: %s", summary.UserMobile)
	}
	if summary.UserRegion != "Pune" {
		t.Fatalf("region alias location not resolved: %s", summary.UserRegion)
	}
	if summary.HasIdentity {
		t.Fatalf("no identity was supplied")
	}
}

func TestSummarizeNamePrefersNameOverUsername(t *testing.T) {
	turns := []Turn{
		turn("s1", 0, "hey", `{"name":"Real Name","username":"nickname"}`),
	}
	if got := Summarize(turns, nil, base)[0].UserName; got != "Real Name" {
		t.Fatalf("got %s", got)
	}

	turns = []Turn{turn("s2", 0, "hey", `{"username":"nickname"}`)}
	if got := Summarize(turns, nil, base)[0].UserName; got != "nickname" {
		t.Fatalf("got %s", got)
	}
}

func TestSummarizeMalformedMetadataDoesNotPoisonOtherSessions(t *testing.T) {
	turns := []Turn{
		turn("bad", 0, "hello", `{"name": busted`),
		turn("good", time.Minute, "hi", `{"name":"Donald"}`),
	}

	summaries := Summarize(turns, nil, base.Add(time.Hour))
	if len(summaries) != 2 {
		t.Fatalf("expected both sessions, got %d", len(summaries))
	}
	if summaries[0].UserName != AnonymousUserName || summaries[0].MessageCount != 1 {
		t.Fatalf("bad session not degraded cleanly: %+v", summaries[0])
	}
	if summaries[1].UserName != "Donald" || summaries[1].MessageCount != 1 {
		t.Fatalf("good session affected: %+v", summaries[1])
	}
}

func TestSummarizeIdentityJoin(t *testing.T) {
	turns := []Turn{
		turn("s1", 0, "hi", `{"name":"From Widget","email":"widget@example.com"}`),
		turn("s2", time.Minute, "yo", ""),
	}
	identities := []Identity{
		{
			SessionToken: "s1",
			Name:         "Form Name",
			Email:        "form@example.com",
			Mobile:       "12345",
			Region:       "Goa",
			// Postdates the first turn; still overrides firstSeen.
			CreatedAt: base.Add(30 * time.Second),
		},
		{SessionToken: "unmatched", Name: "Nobody"},
	}

	summaries := Summarize(turns, identities, base.Add(time.Hour))

	s1 := summaries[0]
	if !s1.HasIdentity {
		t.Fatalf("s1 should carry identity")
	}
	if s1.UserName != "Form Name" || s1.UserEmail != "form@example.com" || s1.UserMobile != "12345" || s1.UserRegion != "Goa" {
		t.Fatalf("identity fields must win: %+v", s1)
	}
	if !s1.FirstSeen.Equal(base.Add(30 * time.Second)) {
		t.Fatalf("identity createdAt must override firstSeen, got %v", s1.FirstSeen)
	}

	s2 := summaries[1]
	if s2.HasIdentity || s2.UserName != AnonymousUserName {
		t.Fatalf("s2 must be untouched by the join: %+v", s2)
	}
}

func TestLivenessThresholds(t *testing.T) {
	now := base
	cases := []struct {
		idle time.Duration
		want LivenessStatus
	}{
		{time.Minute, StatusOnline},
		{4*time.Minute + 59*time.Second, StatusOnline},
		{5 * time.Minute, StatusAway},
		{29 * time.Minute, StatusAway},
		{30 * time.Minute, StatusOffline},
		{24 * time.Hour, StatusOffline},
	}
	for _, tc := range cases {
		if got := Liveness(now, now.Add(-tc.idle)); got != tc.want {
			t.Fatalf("idle %v: got %s, want %s", tc.idle, got, tc.want)
		}
	}
	if Liveness(now, time.Time{}) != StatusOffline {
		t.Fatalf("zero lastActivity must be offline")
	}
}

func TestTranscriptSortedAndComplete(t *testing.T) {
	turns := []Turn{
		turn("s1", 2*time.Minute, "third", ""),
		turn("s1", 0, "first", ""),
		turn("other", time.Minute, "noise", ""),
		turn("s1", time.Minute, "second", ""),
	}

	views, err := Transcript("s1", turns)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}
	for i := 1; i < len(views); i++ {
		if views[i].Timestamp.Before(views[i-1].Timestamp) {
			t.Fatalf("transcript not ascending at %d", i)
		}
	}
	if views[0].UserMessage != "first" || views[2].UserMessage != "third" {
		t.Fatalf("unexpected order: %+v", views)
	}
	if views[0].AssistantMessage != "reply to first" {
		t.Fatalf("assistant text not extracted: %s", views[0].AssistantMessage)
	}
}

func TestTranscriptNotFound(t *testing.T) {
	if _, err := Transcript("missing", []Turn{turn("s1", 0, "hi", "")}); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := Transcript("any", nil); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound on empty log, got %v", err)
	}
}

func TestTranscriptRawResponsePassthrough(t *testing.T) {
	turns := []Turn{{ID: "1", SessionID: "s1", Prompt: "q", Response: "plain answer", CreatedAt: base}}
	views, err := Transcript("s1", turns)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if views[0].AssistantMessage != "plain answer" {
		t.Fatalf("raw response must pass through, got %q", views[0].AssistantMessage)
	}
}

func TestStats(t *testing.T) {
	now := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	turns := []Turn{
		{SessionID: "a", CreatedAt: now.Add(-time.Hour)},      // today
		{SessionID: "a", CreatedAt: now.Add(-2 * time.Hour)},  // today
		{SessionID: "b", CreatedAt: now.Add(-day)},            // yesterday
		{SessionID: "c", CreatedAt: now.Add(-3 * day)},        // this week
		{SessionID: "c", CreatedAt: now.Add(-10 * day)},       // older
	}

	usage := Stats(turns, now)
	if usage.TotalMessages != 5 {
		t.Fatalf("total: %d", usage.TotalMessages)
	}
	if usage.TodayMessages != 2 || usage.YesterdayMessages != 1 {
		t.Fatalf("today/yesterday: %d/%d", usage.TodayMessages, usage.YesterdayMessages)
	}
	if usage.WeekMessages != 4 {
		t.Fatalf("week: %d", usage.WeekMessages)
	}
	if usage.UniqueSessions != 3 {
		t.Fatalf("sessions: %d", usage.UniqueSessions)
	}
	if usage.GrowthRatePercent != 100 {
		t.Fatalf("growth: %v", usage.GrowthRatePercent)
	}
}

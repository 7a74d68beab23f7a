// Package session turns a flat, time-ordered log of embedded-chat turns into
// the per-session views the dashboard renders: summaries, transcripts and
// usage statistics. Everything here is a pure transformation over explicit
// inputs; reading the chat log and the prechat store is the caller's job.
package session

import (
	"encoding/json"
	"errors"
	"sort"
	"time"
)

var ErrSessionNotFound = errors.New("session: not found")

const AnonymousUserName = "Anonymous User"

// Turn is one stored prompt/response exchange. ConnectionInfo is the raw
// JSON string captured by the widget and may be empty or malformed.
type Turn struct {
	ID             string
	SessionID      string
	Prompt         string
	Response       string
	ConnectionInfo string
	CreatedAt      time.Time
}

// Identity is an externally captured visitor record, typically a prechat
// form submission, matched to a chat session by its session token.
type Identity struct {
	SessionToken string
	Name         string
	Email        string
	Mobile       string
	Region       string
	CreatedAt    time.Time
}

type LivenessStatus string

const (
	StatusOnline  LivenessStatus = "online"
	StatusAway    LivenessStatus = "away"
	StatusOffline LivenessStatus = "offline"
)

type Summary struct {
	SessionID    string
	UserName     string
	UserEmail    string
	UserMobile   string
	UserRegion   string
	FirstSeen    time.Time
	LastActivity time.Time
	MessageCount int
	LastMessage  string
	HasIdentity  bool
	Status       LivenessStatus
}

// TurnView is one transcript entry. A stored turn maps to exactly one view
// carrying both sides of the exchange; the dashboard splits it visually.
type TurnView struct {
	ID               string    `json:"id"`
	UserMessage      string    `json:"userMessage"`
	AssistantMessage string    `json:"assistantMessage"`
	Timestamp        time.Time `json:"timestamp"`
}

type Usage struct {
	TotalMessages     int
	TodayMessages     int
	YesterdayMessages int
	WeekMessages      int
	UniqueSessions    int
	GrowthRatePercent float64
}

// Liveness labels a session from the time since its last activity. This is a
// presentational heuristic only; it says nothing about real connectivity.
func Liveness(now, lastActivity time.Time) LivenessStatus {
	if lastActivity.IsZero() {
		return StatusOffline
	}
	idle := now.Sub(lastActivity)
	switch {
	case idle < 5*time.Minute:
		return StatusOnline
	case idle < 30*time.Minute:
		return StatusAway
	default:
		return StatusOffline
	}
}

// Summarize groups turns by session id, in first-encountered order, and
// derives one Summary per session. identities may be nil; when a record's
// SessionToken matches a session id its fields take priority over anything
// parsed from connection metadata, and its CreatedAt overrides FirstSeen
// (the form submission is the official session start). A malformed
// ConnectionInfo on any turn degrades to empty metadata for that turn and
// never affects other sessions.
func Summarize(turns []Turn, identities []Identity, now time.Time) []Summary {
	identityByToken := make(map[string]Identity, len(identities))
	for _, identity := range identities {
		if identity.SessionToken != "" {
			identityByToken[identity.SessionToken] = identity
		}
	}

	order := make([]string, 0)
	groups := make(map[string][]Turn)
	for _, turn := range turns {
		if _, seen := groups[turn.SessionID]; !seen {
			order = append(order, turn.SessionID)
		}
		groups[turn.SessionID] = append(groups[turn.SessionID], turn)
	}

	summaries := make([]Summary, 0, len(order))
	for _, sessionID := range order {
		group := groups[sessionID]
		identity, hasIdentity := identityByToken[sessionID]
		summary := summarizeGroup(sessionID, group, identity, hasIdentity)
		summary.Status = Liveness(now, summary.LastActivity)
		summaries = append(summaries, summary)
	}
	return summaries
}

func summarizeGroup(sessionID string, group []Turn, identity Identity, hasIdentity bool) Summary {
	first := group[0].CreatedAt
	last := group[0].CreatedAt
	lastMessage := group[0].Prompt
	meta := map[string]any{}

	for _, turn := range group {
		if turn.CreatedAt.Before(first) {
			first = turn.CreatedAt
		}
		if !turn.CreatedAt.Before(last) {
			last = turn.CreatedAt
			if turn.Prompt != "" {
				lastMessage = turn.Prompt
			}
		}
		// Later turns may carry richer metadata than the first; merge without
		// overwriting values already seen.
		for key, value := range parseConnectionInfo(turn.ConnectionInfo) {
			if _, ok := meta[key]; !ok {
				meta[key] = value
			}
		}
	}

	summary := Summary{
		SessionID:    sessionID,
		UserName:     resolveField(identityName(identity, hasIdentity), meta, AnonymousUserName, "name", "username"),
		UserEmail:    resolveField(identityValue(identity.Email, hasIdentity), meta, "", "email"),
		UserMobile:   resolveField(identityValue(identity.Mobile, hasIdentity), meta, "", "mobile", "phone"),
		UserRegion:   resolveField(identityValue(identity.Region, hasIdentity), meta, "", "region", "location"),
		FirstSeen:    first,
		LastActivity: last,
		MessageCount: len(group),
		LastMessage:  lastMessage,
		HasIdentity:  hasIdentity,
	}

	if hasIdentity && !identity.CreatedAt.IsZero() {
		summary.FirstSeen = identity.CreatedAt
	}
	return summary
}

// Transcript returns the ordered transcript for one session. Turns belonging
// to other sessions are ignored, so callers may pass a pre-filtered slice or
// the full log. A session with no turns is ErrSessionNotFound; given the
// input shape an empty-but-existing session cannot occur.
func Transcript(sessionID string, turns []Turn) ([]TurnView, error) {
	views := make([]TurnView, 0, len(turns))
	for _, turn := range turns {
		if turn.SessionID != sessionID {
			continue
		}
		views = append(views, TurnView{
			ID:               turn.ID,
			UserMessage:      turn.Prompt,
			AssistantMessage: responseText(turn.Response),
			Timestamp:        turn.CreatedAt,
		})
	}
	if len(views) == 0 {
		return nil, ErrSessionNotFound
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Timestamp.Before(views[j].Timestamp)
	})
	return views, nil
}

// Stats derives dashboard counters from the full turn log. Day boundaries
// are taken in now's location.
func Stats(turns []Turn, now time.Time) Usage {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := today.AddDate(0, 0, -7)

	usage := Usage{TotalMessages: len(turns)}
	sessions := make(map[string]struct{})
	for _, turn := range turns {
		sessions[turn.SessionID] = struct{}{}
		created := turn.CreatedAt
		if !created.Before(today) {
			usage.TodayMessages++
		}
		if !created.Before(yesterday) && created.Before(today) {
			usage.YesterdayMessages++
		}
		if !created.Before(weekAgo) {
			usage.WeekMessages++
		}
	}
	usage.UniqueSessions = len(sessions)

	if usage.YesterdayMessages > 0 {
		delta := float64(usage.TodayMessages - usage.YesterdayMessages)
		usage.GrowthRatePercent = delta / float64(usage.YesterdayMessages) * 100
	}
	return usage
}

func parseConnectionInfo(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var meta map[string]any
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil
	}
	return meta
}

// responseText extracts the assistant text from a stored response blob,
// which the chat runtime writes as {"text": "..."}. A blob that is not JSON
// is carried through verbatim.
func responseText(raw string) string {
	if raw == "" {
		return ""
	}
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return raw
	}
	return payload.Text
}

func identityName(identity Identity, hasIdentity bool) string {
	if !hasIdentity {
		return ""
	}
	return identity.Name
}

func identityValue(value string, hasIdentity bool) string {
	if !hasIdentity {
		return ""
	}
	return value
}

package models

import "time"

// SkillArea is a curriculum skill tracked by milestones
type SkillArea string

const (
	SkillListening  SkillArea = "listening"
	SkillPhonics    SkillArea = "phonics"
	SkillVocabulary SkillArea = "vocabulary"
)

// SkillAreas lists every skill area in display order
var SkillAreas = []SkillArea{SkillListening, SkillPhonics, SkillVocabulary}

// PlacementTrack is the age-banded curriculum entry point assigned at profile creation
type PlacementTrack string

const (
	TrackStarterA PlacementTrack = "starter_a"
	TrackStarterB PlacementTrack = "starter_b"
	TrackStarterC PlacementTrack = "starter_c"
)

// MilestoneLevel is a per-skill competency stage
type MilestoneLevel string

const (
	MilestoneNotStarted  MilestoneLevel = "not_started"
	MilestoneEmerging    MilestoneLevel = "emerging"
	MilestoneDeveloping  MilestoneLevel = "developing"
	MilestoneEstablished MilestoneLevel = "established"
)

// Rank orders milestone levels; unknown levels rank below not_started
func (m MilestoneLevel) Rank() int {
	switch m {
	case MilestoneNotStarted:
		return 0
	case MilestoneEmerging:
		return 1
	case MilestoneDeveloping:
		return 2
	case MilestoneEstablished:
		return 3
	default:
		return -1
	}
}

// RewardType is the kind of reward minted on session completion
type RewardType string

const RewardSticker RewardType = "sticker"

// Reward is appended to a child's reward list and never removed
type Reward struct {
	ID       string     `json:"id"`
	Type     RewardType `json:"type"`
	Label    string     `json:"label"`
	EarnedAt time.Time  `json:"earnedAt"`
}

// ProgressSnapshot holds per-child counters
type ProgressSnapshot struct {
	ChildID           string                       `json:"childId"`
	SessionsCompleted int                          `json:"sessionsCompleted"`
	UnitsCompleted    int                          `json:"unitsCompleted"`
	MilestoneBySkill  map[SkillArea]MilestoneLevel `json:"milestoneBySkill"`
	LastActiveAt      *time.Time                   `json:"lastActiveAt"`
}

// Clone returns a deep copy safe to hand out of the store
func (p ProgressSnapshot) Clone() ProgressSnapshot {
	milestones := make(map[SkillArea]MilestoneLevel, len(p.MilestoneBySkill))
	for skill, level := range p.MilestoneBySkill {
		milestones[skill] = level
	}
	p.MilestoneBySkill = milestones
	if p.LastActiveAt != nil {
		at := *p.LastActiveAt
		p.LastActiveAt = &at
	}
	return p
}

// Child represents a child profile owned by a parent
type Child struct {
	ID             string         `json:"id"`
	DisplayName    string         `json:"displayName"`
	AgeMonths      int            `json:"ageMonths"`
	HomeLanguage   string         `json:"homeLanguage"`
	AvatarID       string         `json:"avatarId"`
	PlacementTrack PlacementTrack `json:"placementTrack"`
	CreatedAt      time.Time      `json:"createdAt"`

	ParentID         string              `json:"-"`
	Rewards          []Reward            `json:"-"`
	Progress         ProgressSnapshot    `json:"-"`
	CompletedUnitIDs map[string]struct{} `json:"-"`
}

// RecentRewards returns up to n of the most recent rewards in insertion order
func (c *Child) RecentRewards(n int) []Reward {
	start := len(c.Rewards) - n
	if start < 0 {
		start = 0
	}
	recent := make([]Reward, len(c.Rewards)-start)
	copy(recent, c.Rewards[start:])
	return recent
}

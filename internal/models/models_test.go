package models

import (
	"testing"
	"time"
)

func TestSessionIsCompleted(t *testing.T) {
	now := time.Now()
	reward := &Reward{ID: "reward_00000001", Type: RewardSticker, Label: "Shiny Star", EarnedAt: now}

	tests := []struct {
		name    string
		session Session
		want    bool
	}{
		{
			name:    "freshly started",
			session: Session{ID: "session_00000001"},
			want:    false,
		},
		{
			name:    "completed with reward",
			session: Session{ID: "session_00000001", CompletedAt: &now, Reward: reward},
			want:    true,
		},
		{
			name:    "timestamp without reward",
			session: Session{ID: "session_00000001", CompletedAt: &now},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.IsCompleted(); got != tt.want {
				t.Errorf("Session.IsCompleted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionOwnedBy(t *testing.T) {
	session := Session{ParentID: "parent_00000001", ChildID: "child_00000002"}

	if !session.OwnedBy("parent_00000001", "child_00000002") {
		t.Error("expected session to be owned by its parent/child pair")
	}
	if session.OwnedBy("parent_00000009", "child_00000002") {
		t.Error("expected foreign parent to be rejected")
	}
	if session.OwnedBy("parent_00000001", "child_00000009") {
		t.Error("expected sibling child to be rejected")
	}
}

func TestRecentRewards(t *testing.T) {
	child := Child{}
	for i := 0; i < 7; i++ {
		child.Rewards = append(child.Rewards, Reward{ID: string(rune('a' + i))})
	}

	recent := child.RecentRewards(5)
	if len(recent) != 5 {
		t.Fatalf("expected 5 rewards, got %d", len(recent))
	}
	if recent[0].ID != "c" || recent[4].ID != "g" {
		t.Errorf("expected tail c..g, got %s..%s", recent[0].ID, recent[4].ID)
	}

	recent[0].ID = "mutated"
	if child.Rewards[2].ID != "c" {
		t.Error("RecentRewards should return a copy")
	}

	if got := (&Child{}).RecentRewards(5); len(got) != 0 {
		t.Errorf("expected no rewards, got %d", len(got))
	}
}

func TestMilestoneRank(t *testing.T) {
	levels := []MilestoneLevel{MilestoneNotStarted, MilestoneEmerging, MilestoneDeveloping, MilestoneEstablished}
	for i := 1; i < len(levels); i++ {
		if levels[i].Rank() <= levels[i-1].Rank() {
			t.Errorf("%s should rank above %s", levels[i], levels[i-1])
		}
	}
	if MilestoneLevel("bogus").Rank() >= 0 {
		t.Error("unknown level should rank below not_started")
	}
}

func TestProgressClone(t *testing.T) {
	at := time.Now()
	original := ProgressSnapshot{
		ChildID:          "child_00000001",
		MilestoneBySkill: map[SkillArea]MilestoneLevel{SkillListening: MilestoneEmerging},
		LastActiveAt:     &at,
	}

	clone := original.Clone()
	clone.MilestoneBySkill[SkillListening] = MilestoneEstablished
	*clone.LastActiveAt = at.Add(time.Hour)

	if original.MilestoneBySkill[SkillListening] != MilestoneEmerging {
		t.Error("Clone should not share the milestone map")
	}
	if !original.LastActiveAt.Equal(at) {
		t.Error("Clone should not share the last-active pointer")
	}
}

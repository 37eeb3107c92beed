package service

import "tinysteps/internal/models"

// milestoneThresholds are the sessions-completed counts at which a skill
// reaches emerging, developing and established.
var milestoneThresholds = map[models.SkillArea][3]int{
	models.SkillListening:  {2, 5, 8},
	models.SkillPhonics:    {3, 6, 10},
	models.SkillVocabulary: {2, 5, 9},
}

// MilestoneFor returns the level a skill has reached after sessionsCompleted sessions
func MilestoneFor(skill models.SkillArea, sessionsCompleted int) models.MilestoneLevel {
	thresholds, ok := milestoneThresholds[skill]
	if !ok {
		return models.MilestoneNotStarted
	}

	switch {
	case sessionsCompleted >= thresholds[2]:
		return models.MilestoneEstablished
	case sessionsCompleted >= thresholds[1]:
		return models.MilestoneDeveloping
	case sessionsCompleted >= thresholds[0]:
		return models.MilestoneEmerging
	default:
		return models.MilestoneNotStarted
	}
}

// MilestonesFor recomputes every skill's level from scratch
func MilestonesFor(sessionsCompleted int) map[models.SkillArea]models.MilestoneLevel {
	levels := make(map[models.SkillArea]models.MilestoneLevel, len(models.SkillAreas))
	for _, skill := range models.SkillAreas {
		levels[skill] = MilestoneFor(skill, sessionsCompleted)
	}
	return levels
}

// EmptyProgress is the snapshot of a child who has not completed anything yet
func EmptyProgress(childID string) models.ProgressSnapshot {
	return models.ProgressSnapshot{
		ChildID:          childID,
		MilestoneBySkill: MilestonesFor(0),
	}
}

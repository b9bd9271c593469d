package service

import "sort"

// SkillSet is a set of specialty ids.
type SkillSet map[string]struct{}

// NewSkillSet builds a set from ids, dropping duplicates and empty values.
func NewSkillSet(ids []string) SkillSet {
	set := make(SkillSet, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// IDs returns the members sorted.
func (s SkillSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsEligible reports whether every course requirement is covered by the
// teacher's skills. An empty requirement set is satisfied by every teacher.
func IsEligible(teacherSkills, courseRequirements SkillSet) bool {
	if len(courseRequirements) > len(teacherSkills) {
		return false
	}
	for id := range courseRequirements {
		if _, ok := teacherSkills[id]; !ok {
			return false
		}
	}
	return true
}

// MissingSkills returns the sorted requirement ids the teacher lacks.
func MissingSkills(teacherSkills, courseRequirements SkillSet) []string {
	missing := make([]string, 0)
	for id := range courseRequirements {
		if _, ok := teacherSkills[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}

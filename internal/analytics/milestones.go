package analytics

// Milestone is a one-time celebration tied to an exact win-count threshold.
type Milestone struct {
	Count   int
	Message string
	Emoji   string
}

// Milestones returns the milestone list in ascending count order.
func Milestones() []Milestone {
	return []Milestone{
		{Count: 5, Message: "You're on a roll! 5 tiny wins!", Emoji: "🎯"},
		{Count: 10, Message: "Double digits! 10 wins strong!", Emoji: "🔥"},
		{Count: 25, Message: "Quarter century! You're amazing!", Emoji: "🏆"},
		{Count: 50, Message: "50 wins! You're unstoppable!", Emoji: "⭐"},
		{Count: 100, Message: "Triple digits! Legendary!", Emoji: "👑"},
	}
}

// GetMilestoneMessage returns the milestone whose threshold equals count
// exactly, or nil. Exact match only: it fires once, on the win that makes the
// count true.
func GetMilestoneMessage(count int) *Milestone {
	for _, m := range Milestones() {
		if m.Count == count {
			return &m
		}
	}
	return nil
}

// GetNextMilestone returns the first milestone whose threshold exceeds count,
// or nil once all have been passed.
func GetNextMilestone(count int) *Milestone {
	for _, m := range Milestones() {
		if m.Count > count {
			return &m
		}
	}
	return nil
}

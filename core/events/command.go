package events

const (
	// KindCommandMatched identifies a phrase resolved to a table entry.
	KindCommandMatched Kind = "command.matched"
	// KindCommandUnmatched identifies a phrase routed to the heuristic tier.
	KindCommandUnmatched Kind = "command.unmatched"
)

// MatchTier identifies which matching tier resolved a phrase.
type MatchTier string

const (
	// MatchTierExact is a direct lookup of the normalized phrase.
	MatchTierExact MatchTier = "exact"
	// MatchTierSubstring is a bidirectional substring containment match.
	MatchTierSubstring MatchTier = "substring"
)

// CommandMatched carries the phrase and table entry it resolved to.
type CommandMatched struct {
	Base
	Phrase  string
	Command string
	Tier    MatchTier
}

// NewCommandMatched creates a command matched event.
func NewCommandMatched(phrase, command string, tier MatchTier) CommandMatched {
	return CommandMatched{Base: NewBase(KindCommandMatched), Phrase: phrase, Command: command, Tier: tier}
}

// CommandUnmatched carries a phrase that no table entry claimed.
type CommandUnmatched struct {
	Base
	Phrase string
}

// NewCommandUnmatched creates a command unmatched event.
func NewCommandUnmatched(phrase string) CommandUnmatched {
	return CommandUnmatched{Base: NewBase(KindCommandUnmatched), Phrase: phrase}
}

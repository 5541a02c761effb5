package match

// PollDurationSeconds is how long a specialization poll stays open.
const PollDurationSeconds = 60

// pollStarterWeight/pollVoterWeight implement the tie-avoiding vote
// weighting: the player who downed the boss outweighs any single teammate
// but never two.
const (
	pollStarterWeight = 11
	pollVoterWeight   = 10
)

// SpecializationPoll is one team's open vote over specialization options.
// Mutation happens under the owning arena's lock.
type SpecializationPoll struct {
	Options []SpecializationKind

	votes map[*Player]SpecializationKind

	// TicksLeft counts down on the one-second cadence.
	TicksLeft int64
}

// NewSpecializationPoll opens a fresh poll over every specialization.
func NewSpecializationPoll() *SpecializationPoll {
	return newPoll(AllSpecializations())
}

// NewRunoffPoll opens a poll restricted to the previously tied options.
func NewRunoffPoll(options []SpecializationKind) *SpecializationPoll {
	return newPoll(options)
}

func newPoll(options []SpecializationKind) *SpecializationPoll {
	return &SpecializationPoll{
		Options:   options,
		votes:     make(map[*Player]SpecializationKind),
		TicksLeft: SecondsToTicks(PollDurationSeconds),
	}
}

// Allows reports whether kind is votable in this poll.
func (p *SpecializationPoll) Allows(kind SpecializationKind) bool {
	for _, o := range p.Options {
		if o == kind {
			return true
		}
	}
	return false
}

// SetVote records or replaces one player's vote.
func (p *SpecializationPoll) SetVote(voter *Player, kind SpecializationKind) {
	p.votes[voter] = kind
}

// RemoveVote withdraws a vote, used when a player leaves mid-poll.
func (p *SpecializationPoll) RemoveVote(voter *Player) {
	delete(p.votes, voter)
}

// HasVoted reports whether voter already cast a ballot.
func (p *SpecializationPoll) HasVoted(voter *Player) bool {
	_, ok := p.votes[voter]
	return ok
}

// VoteCount is the number of ballots cast so far.
func (p *SpecializationPoll) VoteCount() int {
	return len(p.votes)
}

// Leaders tallies the weighted votes and returns every option tied for the
// highest weight. An empty slice means nobody voted.
func (p *SpecializationPoll) Leaders() []SpecializationKind {
	weights := make(map[SpecializationKind]int)
	for voter, kind := range p.votes {
		w := pollVoterWeight
		if voter.StartedPoll {
			w = pollStarterWeight
		}
		weights[kind] += w
	}

	best := 0
	for _, w := range weights {
		if w > best {
			best = w
		}
	}
	if best == 0 {
		return nil
	}

	// Stable order: walk the option list, not the map.
	var leaders []SpecializationKind
	for _, o := range p.Options {
		if weights[o] == best {
			leaders = append(leaders, o)
		}
	}
	return leaders
}

package models

import "time"

// Member represents a member of Congress (Senate or House).
type Member struct {
	MemberID            string
	Name                string
	Chamber             string // "Senate" or "House"
	State               string
	District            string // House only
	Party               string
	TermStart           time.Time
	TermEnd             time.Time // zero when the term is open-ended
	LeadershipPositions []string
}

// CommitteeAssignment represents a committee seat held by a member.
type CommitteeAssignment struct {
	MemberID      string
	CommitteeName string
	CommitteeCode string
	Role          string // "Member", "Chair", "Ranking Member"
	StartDate     time.Time
	EndDate       time.Time // zero while the assignment is current
	Subcommittees []string
}

// LegislativeAction represents a vote, sponsorship or cosponsorship.
type LegislativeAction struct {
	ActionID           string
	MemberID           string
	ActionType         string // "vote", "sponsor", "cosponsor"
	BillID             string
	BillTitle          string
	ActionDate         time.Time
	Position           string // for votes: "Yes", "No", "Present"
	IndustriesAffected []string
}

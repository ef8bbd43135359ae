package congress

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SenateInsight/internal/service/ratelimit"
)

func congressServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/member", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") == "" {
			t.Error("api_key missing from request")
		}
		w.Write([]byte(`{
			"members": [
				{
					"bioguideId": "S001",
					"name": "Doe, Jane",
					"state": "California",
					"partyName": "Democratic",
					"terms": {"item": [{"chamber": "Senate", "startYear": 2021}]}
				},
				{
					"bioguideId": "H001",
					"name": "Roe, John",
					"state": "Texas",
					"district": "7",
					"partyName": "Republican",
					"terms": {"item": [{"chamber": "House of Representatives", "startYear": 2023}]}
				}
			],
			"pagination": {"count": 2}
		}`))
	})
	mux.HandleFunc("/v3/member/S001/sponsored-legislation", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"sponsoredLegislation": [{
				"number": "100",
				"type": "S",
				"title": "Semiconductor Oversight Act",
				"policyArea": {"name": "Science, Technology, Communications"},
				"introducedDate": "2024-03-10",
				"latestActionDate": "2024-03-12"
			}]
		}`))
	})
	mux.HandleFunc("/v3/member/S001/cosponsored-legislation", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cosponsoredLegislation": []}`))
	})
	mux.HandleFunc("/v3/member/S001/committees", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"committees": [{
				"name": "Commerce, Science, and Transportation",
				"systemCode": "sscm00",
				"subcommittees": [{"name": "Communications, Media, and Broadband"}]
			}]
		}`))
	})
	return httptest.NewServer(mux)
}

func newTestClient(baseURL string) *Client {
	return New(baseURL, "test-key", 5*time.Second, 100, ratelimit.New(), nil).(*Client)
}

func TestCurrentMembersChamberFilter(t *testing.T) {
	srv := congressServer(t)
	defer srv.Close()
	c := newTestClient(srv.URL)

	senators, err := c.CurrentMembers(context.Background(), "senate")
	if err != nil {
		t.Fatalf("CurrentMembers: %v", err)
	}
	if len(senators) != 1 || senators[0].MemberID != "S001" {
		t.Fatalf("senators = %+v, want only S001", senators)
	}
	if senators[0].Chamber != "Senate" {
		t.Errorf("Chamber = %q, want Senate", senators[0].Chamber)
	}

	both, err := c.CurrentMembers(context.Background(), "both")
	if err != nil {
		t.Fatalf("CurrentMembers(both): %v", err)
	}
	if len(both) != 2 {
		t.Errorf("both chambers = %d members, want 2", len(both))
	}
}

func TestMemberVotesWindowAndTags(t *testing.T) {
	srv := congressServer(t)
	defer srv.Close()
	c := newTestClient(srv.URL)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	actions, err := c.MemberVotes(context.Background(), "S001", from, to)
	if err != nil {
		t.Fatalf("MemberVotes: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(actions))
	}
	a := actions[0]
	if a.ActionType != "sponsor" || a.BillID != "S100" {
		t.Errorf("action = %+v, want sponsor of S100", a)
	}
	if len(a.IndustriesAffected) != 1 || a.IndustriesAffected[0] != "science, technology, communications" {
		t.Errorf("IndustriesAffected = %v, want lower-cased policy area", a.IndustriesAffected)
	}

	// outside the window nothing comes back
	none, err := c.MemberVotes(context.Background(), "S001",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("MemberVotes: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("actions outside window = %d, want 0", len(none))
	}
}

func TestMemberCommittees(t *testing.T) {
	srv := congressServer(t)
	defer srv.Close()
	c := newTestClient(srv.URL)

	committees, err := c.MemberCommittees(context.Background(), "S001")
	if err != nil {
		t.Fatalf("MemberCommittees: %v", err)
	}
	if len(committees) != 1 {
		t.Fatalf("committees = %d, want 1", len(committees))
	}
	got := committees[0]
	if got.CommitteeName != "Commerce, Science, and Transportation" {
		t.Errorf("CommitteeName = %q", got.CommitteeName)
	}
	if got.Role != "Member" {
		t.Errorf("Role = %q, want default Member", got.Role)
	}
	if len(got.Subcommittees) != 1 {
		t.Errorf("Subcommittees = %v, want 1", got.Subcommittees)
	}
}

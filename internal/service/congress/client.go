package congress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"SenateInsight/internal/domain/models"
	"SenateInsight/internal/domain/service"
	"SenateInsight/internal/service/ratelimit"
	xhttp "SenateInsight/pkg/http"
	applogger "SenateInsight/pkg/logger"
)

const pageSize = 250

// Client implements MemberSource against the Congress API (api.congress.gov
// v3 shape). Requests are throttled through a shared token bucket so the
// orchestrator's fan-out cannot exceed the API key quota.
type Client struct {
	baseURL string
	apiKey  string
	rps     float64
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	l       *applogger.Logger
}

func New(baseURL, apiKey string, timeout time.Duration, rps float64, limiter *ratelimit.Limiter, l *applogger.Logger) service.MemberSource {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		rps:     rps,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter: limiter,
		l:       l,
	}
}

func (c *Client) getJSON(ctx context.Context, path string, params map[string][]string, dest interface{}) error {
	for !c.limiter.Allow("congress", c.rps, c.rps) {
		select {
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if params == nil {
		params = map[string][]string{}
	}
	params["api_key"] = []string{c.apiKey}
	params["format"] = []string{"json"}
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
	}, dest)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

type memberList struct {
	Members []struct {
		BioguideID string `json:"bioguideId"`
		Name       string `json:"name"`
		State      string `json:"state"`
		District   string `json:"district"`
		PartyName  string `json:"partyName"`
		Terms      struct {
			Item []struct {
				Chamber   string `json:"chamber"`
				StartYear int    `json:"startYear"`
				EndYear   int    `json:"endYear"`
			} `json:"item"`
		} `json:"terms"`
	} `json:"members"`
	Pagination struct {
		Count int `json:"count"`
	} `json:"pagination"`
}

func (c *Client) CurrentMembers(ctx context.Context, chamber string) ([]models.Member, error) {
	chamber = strings.ToLower(chamber)
	var out []models.Member
	for offset := 0; ; offset += pageSize {
		var page memberList
		err := c.getJSON(ctx, "/v3/member", map[string][]string{
			"currentMember": {"true"},
			"limit":         {fmt.Sprintf("%d", pageSize)},
			"offset":        {fmt.Sprintf("%d", offset)},
		}, &page)
		if err != nil {
			return nil, err
		}
		for _, m := range page.Members {
			mem := models.Member{
				MemberID: m.BioguideID,
				Name:     m.Name,
				State:    m.State,
				District: m.District,
				Party:    m.PartyName,
			}
			if n := len(m.Terms.Item); n > 0 {
				last := m.Terms.Item[n-1]
				mem.Chamber = normalizeChamber(last.Chamber)
				mem.TermStart = time.Date(last.StartYear, time.January, 3, 0, 0, 0, 0, time.UTC)
				if last.EndYear > 0 {
					mem.TermEnd = time.Date(last.EndYear, time.January, 3, 0, 0, 0, 0, time.UTC)
				}
			}
			if chamber != "" && chamber != "both" && strings.ToLower(mem.Chamber) != chamber {
				continue
			}
			out = append(out, mem)
		}
		if len(page.Members) < pageSize {
			break
		}
	}
	if c.l != nil {
		c.l.Info("congress members fetched",
			applogger.String("chamber", chamber),
			applogger.Int("count", len(out)),
		)
	}
	return out, nil
}

func normalizeChamber(raw string) string {
	switch {
	case strings.Contains(strings.ToLower(raw), "senate"):
		return "Senate"
	case strings.Contains(strings.ToLower(raw), "house"):
		return "House"
	default:
		return raw
	}
}

type legislationList struct {
	SponsoredLegislation   []legislationItem `json:"sponsoredLegislation"`
	CosponsoredLegislation []legislationItem `json:"cosponsoredLegislation"`
}

type legislationItem struct {
	Number     string `json:"number"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	PolicyArea struct {
		Name string `json:"name"`
	} `json:"policyArea"`
	IntroducedDate     string `json:"introducedDate"`
	LatestActionDate   string `json:"latestActionDate"`
}

// MemberVotes returns the member's legislative actions inside [from, to]:
// sponsored and cosponsored bills dated by their latest action. The Congress
// API has no per-member roll-call feed, so sponsorship activity stands in as
// the legislative record.
func (c *Client) MemberVotes(ctx context.Context, memberID string, from, to time.Time) ([]models.LegislativeAction, error) {
	var out []models.LegislativeAction
	for _, kind := range []string{"sponsored-legislation", "cosponsored-legislation"} {
		var page legislationList
		err := c.getJSON(ctx, "/v3/member/"+memberID+"/"+kind, map[string][]string{
			"limit": {fmt.Sprintf("%d", pageSize)},
		}, &page)
		if err != nil {
			return nil, err
		}
		items := page.SponsoredLegislation
		actionType := "sponsor"
		if kind == "cosponsored-legislation" {
			items = page.CosponsoredLegislation
			actionType = "cosponsor"
		}
		for _, it := range items {
			date := parseDate(it.LatestActionDate)
			if date.IsZero() {
				date = parseDate(it.IntroducedDate)
			}
			if date.IsZero() || date.Before(from) || date.After(to) {
				continue
			}
			billID := it.Type + it.Number
			a := models.LegislativeAction{
				ActionID:   fmt.Sprintf("%s_%s_%s", memberID, actionType, billID),
				MemberID:   memberID,
				ActionType: actionType,
				BillID:     billID,
				BillTitle:  it.Title,
				ActionDate: date,
			}
			if it.PolicyArea.Name != "" {
				a.IndustriesAffected = []string{strings.ToLower(it.PolicyArea.Name)}
			}
			out = append(out, a)
		}
	}
	return out, nil
}

type committeeList struct {
	Committees []struct {
		Name          string `json:"name"`
		SystemCode    string `json:"systemCode"`
		Role          string `json:"role"`
		StartDate     string `json:"startDate"`
		EndDate       string `json:"endDate"`
		Subcommittees []struct {
			Name string `json:"name"`
		} `json:"subcommittees"`
	} `json:"committees"`
}

func (c *Client) MemberCommittees(ctx context.Context, memberID string) ([]models.CommitteeAssignment, error) {
	var page committeeList
	if err := c.getJSON(ctx, "/v3/member/"+memberID+"/committees", nil, &page); err != nil {
		return nil, err
	}
	out := make([]models.CommitteeAssignment, 0, len(page.Committees))
	for _, cm := range page.Committees {
		a := models.CommitteeAssignment{
			MemberID:      memberID,
			CommitteeName: cm.Name,
			CommitteeCode: cm.SystemCode,
			Role:          cm.Role,
			StartDate:     parseDate(cm.StartDate),
			EndDate:       parseDate(cm.EndDate),
		}
		if a.Role == "" {
			a.Role = "Member"
		}
		for _, sc := range cm.Subcommittees {
			a.Subcommittees = append(a.Subcommittees, sc.Name)
		}
		out = append(out, a)
	}
	return out, nil
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

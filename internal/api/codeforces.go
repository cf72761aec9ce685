package api

import (
	"context"
	"encoding/json"
	"fmt"
	"standings-tracker/internal/aggregate"
	"standings-tracker/internal/constants"
	"standings-tracker/internal/domain"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// CodeforcesClient fetches ranked standings rows from the Codeforces
// contest.standings endpoint, one page at a time. It is the concrete
// aggregate.PageSource used in scraping runs.
type CodeforcesClient struct {
	client *fasthttp.Client
	logger zerolog.Logger
}

func NewCodeforcesClient(logger zerolog.Logger) *CodeforcesClient {
	return &CodeforcesClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

var _ aggregate.PageSource = (*CodeforcesClient)(nil)

// NextPage fetches one standings page. Page N covers ranked rows
// (N-1)*StandingsPageSize+1 through N*StandingsPageSize. It returns
// aggregate.ErrEndOfData once the contest has no rows at that offset.
func (c *CodeforcesClient) NextPage(ctx context.Context, standingsURL string, page int) ([]domain.PageRow, error) {
	from := (page-1)*constants.StandingsPageSize + 1
	url := fmt.Sprintf("%s%cfrom=%d&count=%d&showUnofficial=true",
		standingsURL, querySeparator(standingsURL), from, constants.StandingsPageSize)

	resp, err := doRequest[standingsResponse](ctx, c, url)
	if err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("standings request rejected: %s", resp.Comment)
	}
	if len(resp.Result.Rows) == 0 {
		return nil, aggregate.ErrEndOfData
	}

	rows := make([]domain.PageRow, 0, len(resp.Result.Rows))
	for _, raw := range resp.Result.Rows {
		if len(raw.Party.Members) == 0 {
			c.logger.Debug().Int("page", page).Msg("skipping standings row without members")
			continue
		}

		row := domain.PageRow{Handle: raw.Party.Members[0].Handle}
		for i, result := range raw.ProblemResults {
			if result.Points <= 0 {
				continue
			}
			row.Solved = append(row.Solved, problemLabel(resp.Result.Problems, i))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// problemLabel prefers the contest's own problem index and falls back to a
// positional letter when the index list is short.
func problemLabel(problems []standingsProblem, i int) string {
	if i < len(problems) && problems[i].Index != "" {
		return problems[i].Index
	}
	return string(rune('A' + i))
}

func querySeparator(url string) byte {
	if strings.Contains(url, "?") {
		return '&'
	}
	return '?'
}

func doRequest[T any](ctx context.Context, client *CodeforcesClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type standingsResponse struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  standingsResult `json:"result"`
}

type standingsResult struct {
	Problems []standingsProblem `json:"problems"`
	Rows     []standingsRow     `json:"rows"`
}

type standingsProblem struct {
	Index string `json:"index"`
	Name  string `json:"name"`
}

type standingsRow struct {
	Rank  int `json:"rank"`
	Party struct {
		Members []struct {
			Handle string `json:"handle"`
		} `json:"members"`
		ParticipantType string `json:"participantType"`
	} `json:"party"`
	ProblemResults []struct {
		Points            float64 `json:"points"`
		RejectedAttempts  int     `json:"rejectedAttemptCount"`
		BestSubmissionSec int64   `json:"bestSubmissionTimeSeconds"`
	} `json:"problemResults"`
}

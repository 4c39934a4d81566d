// Package snapshot talks to the Snapshot hub GraphQL API: the verified-spaces
// directory and the combined space+proposals query.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deo-labs/deoai/src/webclient"
)

// ErrSpaceNotFound is returned when a space id does not resolve on the hub.
var ErrSpaceNotFound = errors.New("space not found")

// PageSize is the directory page size; pagination ends on the first empty page.
const PageSize = 1000

const directoryQuery = `
query($skip: Int!) {
    spaces(
        first: 1000,
        skip: $skip,
        where: {
            verified: true
        }
    ) {
        id
        name
    }
}`

const spaceQuery = `
query GetSpaceData($space_id: String!, $num_proposals: Int!) {
    space(id: $space_id) {
        id
        name
        about
        avatar
        network
        symbol
        strategies {
            name
            params
        }
        admins
        moderators
        members
        filters {
            minScore
            onlyMembers
        }
        plugins
    }
    proposals(
        first: $num_proposals,
        skip: 0,
        where: {
            space: $space_id
        },
        orderBy: "created",
        orderDirection: desc
    ) {
        id
        title
        body
        choices
        start
        end
        snapshot
        state
        author
        created
        scores
        scores_total
    }
}`

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: webclient.NewDefault(60 * time.Second),
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) ([]graphqlError, error) {
	reqBody, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot API request failed: status %d: %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	return envelope.Errors, nil
}

// DirectoryPage fetches one page of the verified-spaces directory.
func (c *Client) DirectoryPage(ctx context.Context, skip int) ([]Space, error) {
	var data struct {
		Spaces []Space `json:"spaces"`
	}
	if _, err := c.query(ctx, directoryQuery, map[string]any{"skip": skip}, &data); err != nil {
		return nil, err
	}
	return data.Spaces, nil
}

// AllSpaces walks the directory until a page comes back empty. The empty page
// must be observed: a directory of exactly PageSize rows still issues a second
// request.
func (c *Client) AllSpaces(ctx context.Context) ([]Space, error) {
	var all []Space
	for skip := 0; ; skip += PageSize {
		page, err := c.DirectoryPage(ctx, skip)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
	}
	return all, nil
}

// SpaceWithProposals fetches the space detail plus its n most recent proposals
// ordered by creation time descending.
func (c *Client) SpaceWithProposals(ctx context.Context, id string, n int) (*SpaceDetail, []Proposal, error) {
	id = stripQuotes(id)

	var data struct {
		Space     *SpaceDetail `json:"space"`
		Proposals []Proposal   `json:"proposals"`
	}
	gqlErrs, err := c.query(ctx, spaceQuery, map[string]any{
		"space_id":      id,
		"num_proposals": n,
	}, &data)
	if err != nil {
		return nil, nil, err
	}
	if data.Space == nil {
		return nil, nil, fmt.Errorf("space %q: %w", id, ErrSpaceNotFound)
	}
	if len(gqlErrs) > 0 {
		return nil, nil, fmt.Errorf("fetching space data: %s", gqlErrs[0].Message)
	}
	return data.Space, data.Proposals, nil
}

// stripQuotes removes one pair of surrounding quote characters; models sometimes
// hand a tool argument back quoted.
func stripQuotes(id string) string {
	if len(id) >= 2 {
		if (strings.HasPrefix(id, "'") && strings.HasSuffix(id, "'")) ||
			(strings.HasPrefix(id, `"`) && strings.HasSuffix(id, `"`)) {
			return id[1 : len(id)-1]
		}
	}
	return id
}

package context

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/anchorwatch/anchor/pkg/models"
)

// TwitterFetcher pulls quoted/replied-to tweets and preceding thread posts
// via the Twitter API v2. Grounded on the tweepy-based _enrich_twitter in
// context_enricher.py: referenced_tweets[type=quoted/replied_to] first,
// then up to 3 preceding same-conversation tweets.
type TwitterFetcher struct {
	bearerToken string
	httpClient  *http.Client
}

func NewTwitterFetcher(bearerToken string) *TwitterFetcher {
	return &TwitterFetcher{bearerToken: bearerToken, httpClient: &http.Client{Timeout: 15 * time.Second}}
}

type twitterTweetResponse struct {
	Data struct {
		ID               string `json:"id"`
		ConversationID   string `json:"conversation_id"`
		ReferencedTweets []struct {
			Type string `json:"type"`
			ID   string `json:"id"`
		} `json:"referenced_tweets"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
		Tweets []struct {
			ID       string `json:"id"`
			AuthorID string `json:"author_id"`
			Text     string `json:"text"`
		} `json:"tweets"`
	} `json:"includes"`
}

func (f *TwitterFetcher) FetchContext(ctx context.Context, post *models.RawPost) []Piece {
	if f.bearerToken == "" {
		return nil
	}

	url := fmt.Sprintf(
		"https://api.twitter.com/2/tweets/%s?tweet.fields=referenced_tweets,conversation_id&expansions=referenced_tweets.id,referenced_tweets.id.author_id&user.fields=username",
		post.ExternalID,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+f.bearerToken)

	resp, err := f.httpClient.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		if err != nil {
			slog.Warn("context: twitter fetch failed", "external_id", post.ExternalID, "error", err)
		}
		return nil
	}
	defer resp.Body.Close()

	var parsed twitterTweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || parsed.Data.ID == "" {
		return nil
	}

	userMap := make(map[string]string, len(parsed.Includes.Users))
	for _, u := range parsed.Includes.Users {
		userMap[u.ID] = u.Username
	}
	refMap := make(map[string]struct{ text, author string }, len(parsed.Includes.Tweets))
	for _, t := range parsed.Includes.Tweets {
		refMap[t.ID] = struct{ text, author string }{t.Text, userMap[t.AuthorID]}
	}

	var pieces []Piece
	for _, ref := range parsed.Data.ReferencedTweets {
		found, ok := refMap[ref.ID]
		role := RoleParentReply
		if ref.Type == "quoted" {
			role = RoleQuoted
		}
		content, author := "(content unavailable)", "unknown"
		if ok {
			content, author = found.text, found.author
		}
		pieces = append(pieces, Piece{
			Role:    role,
			Author:  author,
			Content: content,
			URL:     fmt.Sprintf("https://twitter.com/i/web/status/%s", ref.ID),
		})
	}

	if convID := parsed.Data.ConversationID; convID != "" && convID != post.ExternalID {
		pieces = append(pieces, f.fetchThreadContext(ctx, convID, post.ExternalID)...)
	}

	return pieces
}

type twitterSearchResponse struct {
	Data []struct {
		ID        string `json:"id"`
		AuthorID  string `json:"author_id"`
		Text      string `json:"text"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

// fetchThreadContext returns up to the 3 most recent tweets preceding
// currentID in the same conversation.
func (f *TwitterFetcher) fetchThreadContext(ctx context.Context, conversationID, currentID string) []Piece {
	url := fmt.Sprintf(
		"https://api.twitter.com/2/tweets/search/recent?query=conversation_id:%s&max_results=10&tweet.fields=author_id,created_at&expansions=author_id&user.fields=username",
		conversationID,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+f.bearerToken)

	resp, err := f.httpClient.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		return nil
	}
	defer resp.Body.Close()

	var parsed twitterSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil
	}

	userMap := make(map[string]string, len(parsed.Includes.Users))
	for _, u := range parsed.Includes.Users {
		userMap[u.ID] = u.Username
	}

	sort.Slice(parsed.Data, func(i, j int) bool { return parsed.Data[i].CreatedAt < parsed.Data[j].CreatedAt })

	var pieces []Piece
	for _, t := range parsed.Data {
		if t.ID == currentID {
			continue
		}
		author := userMap[t.AuthorID]
		if author == "" {
			author = "unknown"
		}
		pieces = append(pieces, Piece{
			Role:    RoleThreadPrev,
			Author:  author,
			Content: t.Text,
			URL:     fmt.Sprintf("https://twitter.com/i/web/status/%s", t.ID),
		})
	}

	if len(pieces) > 3 {
		pieces = pieces[len(pieces)-3:]
	}
	return pieces
}

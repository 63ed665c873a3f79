package context

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/anchorwatch/anchor/pkg/models"
)

// WeiboFetcher pulls the original post of a retweet and any folded "long
// text" content via Weibo's mobile API. Grounded on _enrich_weibo in
// context_enricher.py.
type WeiboFetcher struct {
	httpClient *http.Client
}

func NewWeiboFetcher() *WeiboFetcher {
	return &WeiboFetcher{httpClient: &http.Client{Timeout: 10 * time.Second}}
}

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripHTML(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}

type weiboShowResponse struct {
	Data struct {
		RetweetedStatus *struct {
			User struct {
				ScreenName string `json:"screen_name"`
			} `json:"user"`
			Text string `json:"text"`
		} `json:"retweeted_status"`
		LongText *struct {
			LongTextContent string `json:"longTextContent"`
		} `json:"longText"`
	} `json:"data"`
}

func (f *WeiboFetcher) FetchContext(ctx context.Context, post *models.RawPost) []Piece {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://m.weibo.cn/statuses/show?id="+post.ExternalID, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", "https://m.weibo.cn/")

	resp, err := f.httpClient.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		if err != nil {
			slog.Warn("context: weibo fetch failed", "external_id", post.ExternalID, "error", err)
		}
		return nil
	}
	defer resp.Body.Close()

	var parsed weiboShowResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil
	}

	var pieces []Piece
	if rt := parsed.Data.RetweetedStatus; rt != nil {
		pieces = append(pieces, Piece{
			Role:    RoleQuoted,
			Author:  rt.User.ScreenName,
			Content: stripHTML(rt.Text),
		})
	}

	// Unfolded "long text" content replaces the truncated mobile-feed text
	// rather than appearing as a context piece of its own.
	if lt := parsed.Data.LongText; lt != nil && len(lt.LongTextContent) > len(post.Content) {
		post.Content = stripHTML(lt.LongTextContent)
	}

	return pieces
}

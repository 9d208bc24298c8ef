// Package browse collects the ids of ranked games from the boardgamegeek website.
package browse

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"time"

	"bgg-pipeline/internal/bgg"
	"bgg-pipeline/internal/components/assert"
	"bgg-pipeline/internal/components/chrono"
	"bgg-pipeline/internal/components/telemetry"
	"bgg-pipeline/internal/gameids"
	"bgg-pipeline/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	report_client_login            = "client.login"
	report_client_scrape_ranked    = "client.scrape-ranked-ids"
	report_client_fetch_historical = "client.fetch-historical-ranking-ids"
)

const (
	DefaultHistoricalUrl = "https://raw.githubusercontent.com/beefsack/bgg-ranking-historicals/master"
	// DefaultHistoricalDate is the snapshot of the historical rankings used when none is given.
	DefaultHistoricalDate = "2022-08-13"
)

type Client struct {
	http          *resty.Client
	tel           telemetry.API
	clock         chrono.API
	base          *url.URL
	historicalUrl string
}

// NewClient creates a client for the website at siteUrl, an empty siteUrl means bgg.SiteUrl.
func NewClient(siteUrl string, tel telemetry.API, opts bgg.ClientOptions) (Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("browse", tel)

	if siteUrl == "" {
		siteUrl = bgg.SiteUrl
	}
	base, err := url.Parse(siteUrl)
	if err != nil {
		return Client{}, err
	}
	httpClient, err := bgg.NewRestyClient(siteUrl, tel, opts)
	if err != nil {
		return Client{}, err
	}
	return Client{
		http:          httpClient,
		tel:           tel,
		clock:         chrono.StandardImpl{},
		base:          base,
		historicalUrl: DefaultHistoricalUrl,
	}, nil
}

// WithClock returns a copy of the client waiting between pages with clock.
func (c Client) WithClock(clock chrono.API) Client {
	assert.NotNil(clock)
	c.clock = clock
	return c
}

// WithHistoricalUrl returns a copy of the client reading historical rankings from u.
func (c Client) WithHistoricalUrl(u string) Client {
	c.historicalUrl = u
	return c
}

type loginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Credentials loginCredentials `json:"credentials"`
}

// Login authenticates the client's session, the session cookie is kept in its jar.
func (c Client) Login(ctx context.Context, username, password string) error {
	c.tel.ReportDebug(report_client_login, username)

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(loginRequest{Credentials: loginCredentials{
			Username: username,
			Password: password,
		}}).
		Post("/login/api/v1")
	if err != nil {
		c.tel.ReportBroken(report_client_login, err)
		return fmt.Errorf("login: %w", err)
	}
	if res.StatusCode() != http.StatusNoContent {
		err := fmt.Errorf("login: unsuccessful, status %d", res.StatusCode())
		c.tel.ReportWarning(report_client_login, err)
		return err
	}
	return nil
}

var gameIdPattern = regexp.MustCompile(`/boardgame/(\d+)/`)

// ExtractRankedGameIDs returns the ids of the ranked games listed on a browse page, in the order
// they appear. Rows without a rank (the unranked tail of the listing) are left out.
func ExtractRankedGameIDs(base *url.URL, page io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, err
	}

	var ids []string
	doc.Find(`[id^="row_"]`).Each(func(_ int, row *goquery.Selection) {
		if row.Find(".collection_rank a").Length() == 0 {
			return
		}
		for _, anchor := range htmlutil.GetAnchors(base, row.Find("a.primary")) {
			groups := gameIdPattern.FindStringSubmatch(anchor.Url.Path + "/")
			if len(groups) < 2 {
				continue
			}
			ids = append(ids, groups[1])
			return
		}
	})
	return gameids.Dedup(ids), nil
}

func browsePath(page int) string {
	return fmt.Sprintf("/browse/boardgame/page/%d?sort=rank&sortdir=asc", page)
}

// ScrapeRankedIDs walks the browse pages in rank order until a page fails to load or lists no
// ranked game, reading at most maxPages pages when maxPages > 0.
func (c Client) ScrapeRankedIDs(ctx context.Context, maxPages int, wait time.Duration) ([]string, error) {
	var ids []string
	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		if page > 1 {
			err := c.clock.Sleep(ctx, wait)
			if err != nil {
				return gameids.Dedup(ids), err
			}
		}

		res, err := c.http.R().
			SetContext(ctx).
			Get(browsePath(page))
		if err != nil {
			c.tel.ReportBroken(report_client_scrape_ranked, err, page)
			return gameids.Dedup(ids), err
		}
		if res.StatusCode() != http.StatusOK {
			c.tel.ReportDebug("stopping at page with non-200 status", page, res.StatusCode())
			break
		}

		pageIds, err := ExtractRankedGameIDs(c.base, bytes.NewReader(res.Body()))
		if err != nil {
			c.tel.ReportBroken(report_client_scrape_ranked, fmt.Errorf("parse: %w", err), page)
			return gameids.Dedup(ids), err
		}
		if len(pageIds) == 0 {
			break
		}
		ids = append(ids, pageIds...)
	}

	ids = gameids.Dedup(ids)
	c.tel.ReportCount("ranked-ids", int64(len(ids)))
	return ids, nil
}

// FetchHistoricalRankingIDs returns the `ID` column of the historical rankings snapshot
// taken on date (YYYY-MM-DD).
func (c Client) FetchHistoricalRankingIDs(ctx context.Context, date string) ([]string, error) {
	if date == "" {
		date = DefaultHistoricalDate
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, fmt.Errorf("historical rankings: invalid date %q: %w", date, err)
	}

	endpoint := fmt.Sprintf("%s/%s.csv", c.historicalUrl, date)
	res, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(endpoint)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_historical, err, endpoint)
		return nil, err
	}
	body := res.RawBody()
	defer body.Close()

	if res.StatusCode() != http.StatusOK {
		err := fmt.Errorf("historical rankings: %s responded with status %d", endpoint, res.StatusCode())
		c.tel.ReportBroken(report_client_fetch_historical, err)
		return nil, err
	}

	ids, err := readIdColumn(body)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_historical, err, endpoint)
		return nil, err
	}
	return ids, nil
}

func readIdColumn(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("historical rankings: read header: %w", err)
	}
	column := slices.Index(header, "ID")
	if column < 0 {
		return nil, fmt.Errorf("historical rankings: no ID column in %v", header)
	}

	var ids []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return gameids.Dedup(ids), nil
		}
		if err != nil {
			return nil, fmt.Errorf("historical rankings: %w", err)
		}
		if column < len(record) && record[column] != "" {
			ids = append(ids, record[column])
		}
	}
}

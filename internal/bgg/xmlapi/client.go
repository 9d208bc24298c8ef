// Package xmlapi downloads game details from the boardgamegeek xml api into batch files.
package xmlapi

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"bgg-pipeline/internal/bgg"
	"bgg-pipeline/internal/components/assert"
	"bgg-pipeline/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
)

const (
	report_client_fetch_things    = "client.fetch-things"
	report_client_fetch_batches   = "client.fetch-batches"
	report_client_check_available = "client.check-available"
)

// availabilityProbeId is a game that has existed since the api was created.
const availabilityProbeId = "50"

// StatusError is returned when the api answers with something other than 200.
type StatusError struct {
	Url    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("xml api: %s responded with status %d", e.Url, e.Status)
}

type Client struct {
	http *resty.Client
	tel  telemetry.API
}

// NewClient creates an xml api client, an empty baseUrl means DefaultBaseUrl.
func NewClient(baseUrl string, tel telemetry.API, opts bgg.ClientOptions) (Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("xmlapi", tel)

	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	http, err := bgg.NewRestyClient(baseUrl, tel, opts)
	if err != nil {
		return Client{}, err
	}
	return Client{http: http, tel: tel}, nil
}

func (c Client) get(ctx context.Context, path string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get("/" + path)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, &StatusError{Url: res.Request.URL, Status: res.StatusCode()}
	}
	return res.Body(), nil
}

// FetchThings returns the raw xml document describing the given games with their statistics.
func (c Client) FetchThings(ctx context.Context, ids []string) ([]byte, error) {
	c.tel.ReportDebug(report_client_fetch_things, len(ids))

	body, err := c.get(ctx, QueryPath("thing", thingParams(ids)...))
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_things, err, len(ids))
		return nil, err
	}
	return body, nil
}

// removeStaleBatches deletes the batch files of an earlier fetch, a smaller id list would
// otherwise leave its trailing batches behind for the transform stage.
func (c Client) removeStaleBatches(destDir string) error {
	stale, err := filepath.Glob(filepath.Join(destDir, BatchFileGlob))
	if err != nil {
		return err
	}
	for _, path := range stale {
		err = os.Remove(path)
		if err != nil {
			c.tel.ReportBroken(report_client_fetch_batches, err, path)
			return err
		}
	}
	if len(stale) > 0 {
		c.tel.ReportDebug("removed stale batch files", destDir, len(stale))
	}
	return nil
}

// FetchBatches downloads ids in batches of size and writes each response to
// `<destDir>/bgg_games_batch_NN.xml`, returning the files written. Batch files already in
// destDir are removed first.
func (c Client) FetchBatches(ctx context.Context, ids []string, size int, destDir string) ([]string, error) {
	err := os.MkdirAll(destDir, 0777)
	if err != nil {
		return nil, err
	}
	err = c.removeStaleBatches(destDir)
	if err != nil {
		return nil, err
	}

	var files []string
	batches := Batches(ids, size)
	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return files, err
		}

		body, err := c.FetchThings(ctx, batch)
		if err != nil {
			return files, fmt.Errorf("batch %d of %d: %w", i+1, len(batches), err)
		}

		path := filepath.Join(destDir, fmt.Sprintf(BatchFileFormat, i))
		err = os.WriteFile(path, body, 0666)
		if err != nil {
			c.tel.ReportBroken(report_client_fetch_batches, err, path)
			return files, err
		}
		files = append(files, path)
		c.tel.ReportDebug(report_client_fetch_batches, path, len(batch))
	}

	c.tel.ReportCount("batches", int64(len(files)))
	return files, nil
}

// CheckAvailable returns nil if the api answers a query for a well known game.
func (c Client) CheckAvailable(ctx context.Context) error {
	body, err := c.get(ctx, QueryPath("thing", Param{Key: "id", Value: availabilityProbeId}))
	if err != nil {
		c.tel.ReportWarning(report_client_check_available, err)
		return fmt.Errorf("xml api unavailable: %w", err)
	}
	if !bytes.Contains(body, []byte("item")) {
		err := fmt.Errorf("xml api unavailable: response does not describe any item")
		c.tel.ReportWarning(report_client_check_available, err)
		return err
	}
	return nil
}

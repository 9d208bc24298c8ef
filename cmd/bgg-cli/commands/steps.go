package commands

import (
	"context"
	"fmt"
	"log/slog"

	"bgg-pipeline/internal/bgg/browse"
	"bgg-pipeline/internal/bgg/xmlapi"
	"bgg-pipeline/internal/gameids"
	"bgg-pipeline/internal/load"
	"bgg-pipeline/internal/transform"
)

type idSource string

const (
	idSourceScrape     idSource = "scrape"
	idSourceHistorical idSource = "historical"
)

func newXmlApiClient() (xmlapi.Client, error) {
	opts, err := config.ClientOptions()
	if err != nil {
		return xmlapi.Client{}, err
	}
	return xmlapi.NewClient("", tel, opts)
}

func checkApi(ctx context.Context) error {
	client, err := newXmlApiClient()
	if err != nil {
		return err
	}
	return client.CheckAvailable(ctx)
}

func extractIds(ctx context.Context, source idSource) ([]string, error) {
	opts, err := config.ClientOptions()
	if err != nil {
		return nil, err
	}
	client, err := browse.NewClient("", tel, opts)
	if err != nil {
		return nil, err
	}

	var ids []string
	switch source {
	case idSourceScrape:
		creds, err := credentials()
		if err != nil {
			return nil, err
		}
		err = client.Login(ctx, creds.Username, creds.Password)
		if err != nil {
			return nil, err
		}
		ids, err = client.ScrapeRankedIDs(ctx, config.MaxPages, config.PageWait())
		if err != nil {
			return nil, err
		}
	case idSourceHistorical:
		ids, err = client.FetchHistoricalRankingIDs(ctx, config.HistoricalDate)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown id source %q, expected %q or %q", source, idSourceScrape, idSourceHistorical)
	}

	err = gameids.Write(config.GameIdsFile, ids)
	if err != nil {
		return nil, err
	}
	slog.Info("wrote game ids", "count", len(ids), "file", config.GameIdsFile)
	return ids, nil
}

func fetchXml(ctx context.Context) ([]string, error) {
	ids, err := gameids.Read(config.GameIdsFile)
	if err != nil {
		return nil, err
	}
	client, err := newXmlApiClient()
	if err != nil {
		return nil, err
	}
	return client.FetchBatches(ctx, ids, config.BatchSize, config.XmlDir)
}

func runTransform(ctx context.Context) (transform.Result, error) {
	opts := transform.Options{OnItemError: transform.ItemErrorAbort}
	if config.SkipBadItems {
		opts.OnItemError = transform.ItemErrorSkip
	}
	return transform.NewTransformer(tel, opts).Run(ctx, config.XmlDir, config.CsvDir)
}

func runLoad(ctx context.Context, reset bool) ([]load.TableResult, int64, error) {
	db, err := config.Database.OpenDB()
	if err != nil {
		return nil, 0, err
	}
	defer db.Close()

	loader := load.NewLoader(db, tel)
	if reset {
		err = loader.ResetSchema(ctx)
	} else {
		err = loader.EnsureSchema(ctx)
	}
	if err != nil {
		return nil, 0, err
	}

	results, err := loader.LoadDir(ctx, config.CsvDir, load.Options{Skip: config.SkipTables})
	if err != nil {
		return results, 0, err
	}
	games, err := loader.ValidateGames(ctx)
	return results, games, err
}

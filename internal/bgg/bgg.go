// Package bgg holds what the boardgamegeek clients share: how their http clients are built.
package bgg

import (
	"net/http/cookiejar"
	"net/url"
	"time"

	"bgg-pipeline/internal/components/telemetry"
	"bgg-pipeline/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

const (
	SiteUrl   = "https://boardgamegeek.com"
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

type ClientOptions struct {
	// RequestsPerSecond limits the request rate, 0 disables the limit.
	RequestsPerSecond float64
	// Timeout of a single request, defaults to 1 minute.
	Timeout time.Duration
	// BypassCloudflare wraps the transport so requests look like they come from a browser.
	BypassCloudflare bool
	// Output, when set, receives a dump of every request/response pair.
	Output restyutil.InstrumentOutput
}

func limiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// NewRestyClient returns a client rooted at baseUrl with a cookie jar, rate limiting and
// instrumentation attached.
func NewRestyClient(baseUrl string, tel telemetry.API, opts ClientOptions) (*resty.Client, error) {
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.BypassCloudflare {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", UserAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsed.Hostname()))
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	client.SetTimeout(timeout)

	rateLimiter := limiter(opts.RequestsPerSecond)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, tel)
	restyutil.InstrumentClient(client, otel.Tracer("bgg.http"), opts.Output)

	return client, nil
}

package price

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/paperstreet/paperbroker/env"
	"github.com/paperstreet/paperbroker/pberrors"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// RemoteClient looks up quotes from an IEX-style HTTP API. The API
// token is read from a local credentials file on every call so a
// rotated token is picked up without a restart.
type RemoteClient struct {
	baseURL   string
	tokenFile string
	client    *http.Client
}

func NewRemoteClient() *RemoteClient {
	baseURL := env.GetVar("QUOTE_API_URL")
	if baseURL == "" {
		baseURL = "https://cloud.iexapis.com/stable"
	}

	tokenFile := env.GetVar("QUOTE_TOKEN_FILE")
	if tokenFile == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			tokenFile = filepath.Join(home, ".credentials", "IEXTOKEN.txt")
		}
	}

	return &RemoteClient{
		baseURL:   baseURL,
		tokenFile: tokenFile,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewRemoteClientWith is used by tests to point the client at a stub
// server and token file.
func NewRemoteClientWith(baseURL, tokenFile string) *RemoteClient {
	return &RemoteClient{
		baseURL:   baseURL,
		tokenFile: tokenFile,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *RemoteClient) Get(symbol string) (decimal.Decimal, error) {
	token, err := c.token()
	if err != nil {
		return decimal.Zero, pberrors.PriceUnavailable.WithError(
			errors.Wrap(err, "failed to read quote API token"))
	}

	url := fmt.Sprintf("%s/stock/%s/quote?token=%s", c.baseURL, symbol, token)

	resp, err := c.client.Get(url)
	if err != nil {
		return decimal.Zero, pberrors.PriceUnavailable.WithError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return decimal.Zero, pberrors.UnknownTicker
	case resp.StatusCode != http.StatusOK:
		return decimal.Zero, pberrors.PriceUnavailable.WithError(
			fmt.Errorf("quote API returned status %v", resp.StatusCode))
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, pberrors.PriceUnavailable.WithError(err)
	}

	latest, err := jsonparser.GetFloat(body, "latestPrice")
	if err != nil {
		return decimal.Zero, pberrors.PriceUnavailable.WithError(
			errors.Wrap(err, "quote API response missing latestPrice"))
	}

	return decimal.NewFromFloat(latest), nil
}

func (c *RemoteClient) token() (string, error) {
	if c.tokenFile == "" {
		return "", errors.New("no quote token file configured")
	}
	buf, err := ioutil.ReadFile(c.tokenFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(buf)), nil
}

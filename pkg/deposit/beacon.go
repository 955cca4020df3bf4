package deposit

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// BeaconAPI handles interactions with the beacon node
type BeaconAPI struct {
	baseURL string
	client  *http.Client
}

// NewBeaconAPI creates a new BeaconAPI instance
func NewBeaconAPI(baseURL string) *BeaconAPI {
	return &BeaconAPI{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: time.Minute,
		},
	}
}

// FetchJSON fetches the body of a beacon API endpoint
func (b *BeaconAPI) FetchJSON(endpoint string) ([]byte, error) {
	requestURL, err := url.Parse(b.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse base URL")
	}

	requestURL.Path += endpoint

	urlStr := requestURL.String()

	log.WithField("url", urlStr).Debug("Fetching JSON")

	req, err := http.NewRequest(http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch URL")
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return nil, errors.Errorf("HTTP request failed with status: %s - %s", resp.Status, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	log.WithField("bytes", len(body)).Debug("Fetched JSON")

	return body, nil
}

// FetchParams reads the deposit params from the beacon node's config spec
func (b *BeaconAPI) FetchParams() (*Params, error) {
	resp, err := b.FetchJSON("/eth/v1/config/spec")
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch beacon config")
	}

	var result struct {
		Data struct {
			ConfigName                  string `json:"CONFIG_NAME"`
			GenesisForkVersion          string `json:"GENESIS_FORK_VERSION"`
			DomainDeposit               string `json:"DOMAIN_DEPOSIT"`
			MinDepositAmount            string `json:"MIN_DEPOSIT_AMOUNT"`
			MaxEffectiveBalance         string `json:"MAX_EFFECTIVE_BALANCE"`
			BLSWithdrawalPrefix         string `json:"BLS_WITHDRAWAL_PREFIX"`
			ETH1AddressWithdrawalPrefix string `json:"ETH1_ADDRESS_WITHDRAWAL_PREFIX"`
		} `json:"data"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode beacon config")
	}

	cfg := result.Data

	genesisForkVersion, err := decodeHex("GENESIS_FORK_VERSION", cfg.GenesisForkVersion, ForkVersionLength)
	if err != nil {
		return nil, err
	}

	domainDeposit, err := decodeHex("DOMAIN_DEPOSIT", cfg.DomainDeposit, len(DomainType{}))
	if err != nil {
		return nil, err
	}

	minDeposit, err := strconv.ParseUint(cfg.MinDepositAmount, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse MIN_DEPOSIT_AMOUNT")
	}

	maxDeposit, err := strconv.ParseUint(cfg.MaxEffectiveBalance, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse MAX_EFFECTIVE_BALANCE")
	}

	blsPrefix, err := decodeHex("BLS_WITHDRAWAL_PREFIX", cfg.BLSWithdrawalPrefix, 1)
	if err != nil {
		return nil, err
	}

	eth1Prefix, err := decodeHex("ETH1_ADDRESS_WITHDRAWAL_PREFIX", cfg.ETH1AddressWithdrawalPrefix, 1)
	if err != nil {
		return nil, err
	}

	p := &Params{
		Name:                        cfg.ConfigName,
		MinDepositAmount:            minDeposit,
		MaxDepositAmount:            maxDeposit,
		BLSWithdrawalPrefix:         blsPrefix[0],
		ETH1AddressWithdrawalPrefix: eth1Prefix[0],
	}

	copy(p.GenesisForkVersion[:], genesisForkVersion)
	copy(p.DomainDeposit[:], domainDeposit)

	log.WithField("config", p.Name).Debug("Beacon config fetched")

	return p, nil
}

package tokens

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// default ledger settings
const (
	DefaultSubmitTimeout = 30 * time.Second
	DefaultHistoryLimit  = 400
	DefaultPageSize      = 200
)

// LedgerConfig ledger related config
type LedgerConfig struct {
	Network          string
	AlternateNetwork string `toml:",omitempty" json:",omitempty"`
	SubmitTimeout    uint64 `toml:",omitempty" json:",omitempty"` // seconds
	HistoryLimit     int    `toml:",omitempty" json:",omitempty"`
	PageSize         int    `toml:",omitempty" json:",omitempty"`

	Networks map[string]*NetworkConfig
}

// NetworkConfig one ledger network (eg. mainnet, testnet)
type NetworkConfig struct {
	APIAddress []string
	Assets     []*AssetConfig `toml:",omitempty" json:",omitempty"`
}

// AssetConfig an issued asset tracked on a network
type AssetConfig struct {
	Name     string
	Currency string
	Issuer   string
}

// GetSubmitTimeout get submit timeout
func (c *LedgerConfig) GetSubmitTimeout() time.Duration {
	if c.SubmitTimeout == 0 {
		return DefaultSubmitTimeout
	}
	return time.Duration(c.SubmitTimeout) * time.Second
}

// GetHistoryLimit get max number of history transactions scanned in reconciliation
func (c *LedgerConfig) GetHistoryLimit() int {
	if c.HistoryLimit <= 0 {
		return DefaultHistoryLimit
	}
	return c.HistoryLimit
}

// GetPageSize get page size of paginated ledger queries
func (c *LedgerConfig) GetPageSize() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

// GetNetwork get network config by name
func (c *LedgerConfig) GetNetwork(name string) (*NetworkConfig, error) {
	network, exist := c.Networks[name]
	if !exist || network == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownNetwork, name)
	}
	return network, nil
}

// CheckConfig check ledger config
func (c *LedgerConfig) CheckConfig() error {
	if c.Network == "" {
		return errors.New("ledger must config 'Network'")
	}
	if len(c.Networks) == 0 {
		return errors.New("ledger must config 'Networks'")
	}
	if _, err := c.GetNetwork(c.Network); err != nil {
		return err
	}
	if c.AlternateNetwork != "" {
		if c.AlternateNetwork == c.Network {
			return errors.New("'AlternateNetwork' must differ from 'Network'")
		}
		if _, err := c.GetNetwork(c.AlternateNetwork); err != nil {
			return err
		}
	}
	for name, network := range c.Networks {
		if network == nil {
			return fmt.Errorf("network '%v' is empty", name)
		}
		if err := network.CheckConfig(); err != nil {
			return fmt.Errorf("network '%v': %w", name, err)
		}
	}
	return nil
}

// CheckConfig check network config
func (c *NetworkConfig) CheckConfig() error {
	if len(c.APIAddress) == 0 {
		return errors.New("must config 'APIAddress'")
	}
	names := make(map[string]struct{}, len(c.Assets))
	issuers := make(map[string]string, len(c.Assets))
	for _, asset := range c.Assets {
		if asset == nil {
			return errors.New("empty asset config")
		}
		if asset.Name == "" || asset.Currency == "" || asset.Issuer == "" {
			return fmt.Errorf("asset must config 'Name', 'Currency' and 'Issuer': %+v", *asset)
		}
		key := strings.ToUpper(asset.Name)
		if _, exist := names[key]; exist {
			return fmt.Errorf("duplicate asset '%v'", asset.Name)
		}
		names[key] = struct{}{}
		if other, exist := issuers[asset.Issuer]; exist {
			return fmt.Errorf("asset '%v' and '%v' share issuer %v", other, asset.Name, asset.Issuer)
		}
		issuers[asset.Issuer] = asset.Name
	}
	return nil
}

// FindAsset find asset config by name (case insensitive)
func (c *NetworkConfig) FindAsset(name string) *AssetConfig {
	for _, asset := range c.Assets {
		if strings.EqualFold(asset.Name, name) {
			return asset
		}
	}
	return nil
}

// TxStatus submission status
type TxStatus string

// submission statuses
const (
	TxCompleted  TxStatus = "completed"
	TxFailed     TxStatus = "failed"
	TxProcessing TxStatus = "processing"
)

// SubmittedTransaction result of submitting a signed payload
type SubmittedTransaction struct {
	Hash        string   `json:"hash"`
	TxBlob      string   `json:"txBlob"`
	Format      string   `json:"format"`
	ResultCode  string   `json:"resultCode"`
	Status      TxStatus `json:"status"`
	Message     string   `json:"message,omitempty"`
	LedgerIndex uint32   `json:"ledgerIndex,omitempty"`
	Network     string   `json:"network"`
}

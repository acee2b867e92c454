package ripple

import (
	"context"
	"fmt"
	"strings"

	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/anyswap/Escrow-Bridge/tokens/ripple/websockets"
	"github.com/shopspring/decimal"
)

// bound of account_lines pages read per asset
const maxTrustLinePages = 20

// Balances native and issued asset balances of an account, never negative
type Balances struct {
	Address         string                     `json:"address"`
	Network         string                     `json:"network"`
	Found           bool                       `json:"found"`
	NetworkMismatch bool                       `json:"networkMismatch"`
	Native          decimal.Decimal            `json:"native"`
	Assets          map[string]decimal.Decimal `json:"assets"`
}

func newZeroBalances(address, network string, assets []*tokens.AssetConfig) *Balances {
	balances := &Balances{
		Address: address,
		Network: network,
		Native:  decimal.Zero,
		Assets:  make(map[string]decimal.Decimal, len(assets)),
	}
	for _, asset := range assets {
		balances.Assets[asset.Name] = decimal.Zero
	}
	return balances
}

// GetAllBalances get native balance and the balance of every configured asset.
// An account missing on every network yields zero balances.
func (b *Bridge) GetAllBalances(ctx context.Context, address string) (*Balances, error) {
	if err := checkAddress("address", address); err != nil {
		return nil, err
	}

	var balances *Balances
	gateway, found, err := b.withNetworkFallback(ctx, "balances", address,
		func(ctx context.Context, gateway *Gateway) (bool, error) {
			res, err := b.readBalances(ctx, gateway, address)
			if err != nil || res == nil {
				return false, err
			}
			balances = res
			return true, nil
		})
	if err != nil {
		return nil, err
	}
	if !found {
		log.Debug("account not found, report zero balances", "address", address, "network", gateway.Network)
		return newZeroBalances(address, gateway.Network, b.networkAssets(gateway.Network)), nil
	}
	balances.NetworkMismatch = gateway != b.primaryGateway()
	return balances, nil
}

// GetBalance get balance of one asset, XRP for the native balance
func (b *Bridge) GetBalance(ctx context.Context, address, asset string) (decimal.Decimal, error) {
	balances, err := b.GetAllBalances(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}
	if strings.EqualFold(asset, NativeCurrency) {
		return balances.Native, nil
	}
	for name, value := range balances.Assets {
		if strings.EqualFold(name, asset) {
			return value, nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: %v on %v", tokens.ErrUnknownAsset, asset, balances.Network)
}

func (b *Bridge) networkAssets(network string) []*tokens.AssetConfig {
	cfg, err := b.Config.GetNetwork(network)
	if err != nil {
		return nil
	}
	return cfg.Assets
}

// readBalances returns nil balances if the account does not exist on the gateway network
func (b *Bridge) readBalances(ctx context.Context, gateway *Gateway, address string) (balances *Balances, err error) {
	assets := b.networkAssets(gateway.Network)
	err = gateway.Do(ctx, func(conn Conn) error {
		info, err := conn.AccountInfo(ctx, address)
		if websockets.IsAccountNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		balances = newZeroBalances(address, gateway.Network, assets)
		balances.Found = true
		balances.Native, err = ParseDrops(info.AccountData.Balance)
		if err != nil {
			return err
		}
		for _, asset := range assets {
			value, err := readAssetBalance(ctx, conn, address, asset)
			if err != nil {
				log.Warn("read asset balance failed, report zero", "address", address,
					"asset", asset.Name, "issuer", asset.Issuer, "network", gateway.Network, "err", err)
				continue
			}
			balances.Assets[asset.Name] = value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}

// readAssetBalance sums the trust lines with the asset issuer, a negative total reads as zero
func readAssetBalance(ctx context.Context, conn Conn, address string, asset *tokens.AssetConfig) (decimal.Decimal, error) {
	currency, err := EncodeCurrency(asset.Currency)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	var marker interface{}
	for page := 0; page < maxTrustLinePages; page++ {
		res, err := conn.AccountLines(ctx, address, asset.Issuer, marker)
		if err != nil {
			return decimal.Zero, err
		}
		for _, line := range res.Lines {
			if line.Account == asset.Issuer && strings.EqualFold(line.Currency, currency) {
				total = total.Add(line.Balance)
			}
		}
		if res.Marker == nil {
			break
		}
		marker = res.Marker
	}
	if total.IsNegative() {
		return decimal.Zero, nil
	}
	return total, nil
}

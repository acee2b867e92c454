package ripple

import (
	"fmt"
	"time"

	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/anyswap/Escrow-Bridge/tokens"
)

// Bridge ledger operations over the configured (and alternate) network
type Bridge struct {
	Config *tokens.LedgerConfig

	// Now is the clock used for escrow time conditions
	Now func() time.Time

	gateways map[string]*Gateway
}

// NewBridge new bridge, a nil dial uses DialWebsocket
func NewBridge(cfg *tokens.LedgerConfig, dial DialFunc) (*Bridge, error) {
	if err := cfg.CheckConfig(); err != nil {
		return nil, err
	}
	b := &Bridge{
		Config:   cfg,
		Now:      time.Now,
		gateways: make(map[string]*Gateway, len(cfg.Networks)),
	}
	for name, network := range cfg.Networks {
		b.gateways[name] = NewGateway(name, network.APIAddress, dial)
	}
	log.Info("ledger bridge initialized", "network", cfg.Network, "alternate", cfg.AlternateNetwork)
	return b, nil
}

// Network get configured network name
func (b *Bridge) Network() string {
	return b.Config.Network
}

// GetGateway get gateway of network
func (b *Bridge) GetGateway(network string) (*Gateway, error) {
	gateway, exist := b.gateways[network]
	if !exist {
		return nil, fmt.Errorf("%w: %v", tokens.ErrUnknownNetwork, network)
	}
	return gateway, nil
}

func (b *Bridge) primaryGateway() *Gateway {
	return b.gateways[b.Config.Network]
}

func (b *Bridge) alternateGateway() *Gateway {
	if b.Config.AlternateNetwork == "" {
		return nil
	}
	return b.gateways[b.Config.AlternateNetwork]
}

func (b *Bridge) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

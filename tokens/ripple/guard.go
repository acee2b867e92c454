package ripple

import (
	"context"

	"github.com/anyswap/Escrow-Bridge/log"
)

// lookupFunc runs a lookup on one network, found is false when the
// account or transaction does not exist there.
type lookupFunc func(ctx context.Context, gateway *Gateway) (found bool, err error)

// withNetworkFallback runs lookup on the configured network. When nothing is found
// and an alternate network is configured, lookup runs once more on it. Errors from
// the alternate network are logged and the not found outcome stands.
// It returns the gateway the lookup succeeded on, or the configured one.
func (b *Bridge) withNetworkFallback(ctx context.Context, operation, subject string, lookup lookupFunc) (gateway *Gateway, found bool, err error) {
	primary := b.primaryGateway()
	found, err = lookup(ctx, primary)
	if err != nil || found {
		return primary, found, err
	}

	alternate := b.alternateGateway()
	if alternate == nil {
		return primary, false, nil
	}
	altFound, altErr := lookup(ctx, alternate)
	if altErr != nil {
		log.Debug("alternate network lookup failed", "operation", operation, "subject", subject,
			"network", alternate.Network, "err", altErr)
		return primary, false, nil
	}
	if !altFound {
		return primary, false, nil
	}

	networkMismatchCounter.WithLabelValues(operation, primary.Network, alternate.Network).Inc()
	log.Warn("found on alternate network, check network configuration", "operation", operation,
		"subject", subject, "configured", primary.Network, "foundOn", alternate.Network)
	return alternate, true, nil
}

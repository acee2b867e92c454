package ripple

import (
	"fmt"

	addresscodec "github.com/Peersyst/xrpl-go/address-codec"
	"github.com/anyswap/Escrow-Bridge/tokens"
)

// IsValidAddress check classic address
func IsValidAddress(addr string) bool {
	return addresscodec.IsValidClassicAddress(addr)
}

func checkAddress(field, addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: %v", tokens.ErrMissingParameter, field)
	}
	if !IsValidAddress(addr) {
		return fmt.Errorf("%w: %v %v", tokens.ErrWrongAddress, field, addr)
	}
	return nil
}

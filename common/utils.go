// Package common provides small helpers shared across packages.
package common

import (
	"encoding/hex"
	"os"
	"time"
)

// Now returns current unix seconds
func Now() int64 {
	return time.Now().Unix()
}

// NowMilli returns current unix milliseconds
func NowMilli() int64 {
	return time.Now().UnixNano() / 1e6
}

// IsHexString checks whether s is a non-empty even length hex string.
// An optional 0x prefix is not allowed.
func IsHexString(s string) bool {
	if s == "" || len(s)%2 != 0 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// FileExist checks if a file exists at filePath.
func FileExist(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil || !os.IsNotExist(err)
}

package params

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleConfig = `
Identifier = "escrow-test"

[Ledger]
Network = "testnet"
AlternateNetwork = "mainnet"
SubmitTimeout = 20
HistoryLimit = 300

[Ledger.Networks.testnet]
APIAddress = ["wss://s.altnet.rippletest.net:51233"]

[[Ledger.Networks.testnet.Assets]]
Name = "USD"
Currency = "USD"
Issuer = "rvYAfWj5gh67oV6fW32ZzP3Aw4Eubs59B"

[Ledger.Networks.mainnet]
APIAddress = ["wss://xrplcluster.com", "wss://s1.ripple.com"]

[Signer]
APIAddress = "https://signer.example/api/v1/platform"
APIKey = "key"
APISecret = "secret"

[RateCache]
APIAddress = "https://rates.example/v1"
TTL = 30

[MongoDB]
DBURL = "localhost:27017"
DBName = "escrow"

[Worker]
PollInterval = 2000
SignTimeout = 300
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	return file
}

func TestLoadConfigFile(t *testing.T) {
	config, err := LoadConfigFile(writeConfig(t, exampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "escrow-test", config.Identifier)
	require.NotNil(t, config.Ledger)
	assert.Equal(t, "testnet", config.Ledger.Network)
	assert.Equal(t, "mainnet", config.Ledger.AlternateNetwork)
	assert.Equal(t, 300, config.Ledger.GetHistoryLimit())
	assert.Equal(t, 200, config.Ledger.GetPageSize())

	mainnet, err := config.Ledger.GetNetwork("mainnet")
	require.NoError(t, err)
	assert.Len(t, mainnet.APIAddress, 2)

	testnet, err := config.Ledger.GetNetwork("testnet")
	require.NoError(t, err)
	require.Len(t, testnet.Assets, 1)
	assert.Equal(t, "rvYAfWj5gh67oV6fW32ZzP3Aw4Eubs59B", testnet.Assets[0].Issuer)

	require.NotNil(t, config.Signer)
	assert.Equal(t, "secret", config.Signer.APISecret)
	assert.Equal(t, uint64(30), config.RateCache.TTL)
	assert.Equal(t, []string{"localhost:27017"}, config.MongoDB.GetURLs())
	assert.Equal(t, uint64(2000), config.Worker.PollInterval)

	SetConfig(config)
	assert.Equal(t, "escrow-test", GetIdentifier())
	assert.Equal(t, config.Ledger, GetLedgerConfig())
	assert.False(t, IsDebugMode())
}

func TestLoadConfigFileErrors(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	_, err = LoadConfigFile(writeConfig(t, "Identifier = "))
	require.Error(t, err)

	tests := []string{
		`[Ledger]
Network = "testnet"
[Ledger.Networks.testnet]
APIAddress = ["wss://a"]`,
		`Identifier = "x"`,
		`Identifier = "x"
[Ledger]
Network = "devnet"
[Ledger.Networks.testnet]
APIAddress = ["wss://a"]`,
		`Identifier = "x"
[Ledger]
Network = "testnet"
[Ledger.Networks.testnet]
APIAddress = ["wss://a"]
[Signer]
APIAddress = "https://signer.example"`,
		`Identifier = "x"
[Ledger]
Network = "testnet"
[Ledger.Networks.testnet]
APIAddress = ["wss://a"]
[MongoDB]
DBName = "escrow"`,
	}
	for i, content := range tests {
		_, err = LoadConfigFile(writeConfig(t, content))
		assert.Error(t, err, "case %d", i)
	}
}

func TestGetWorkerConfigDefault(t *testing.T) {
	SetConfig(&EscrowConfig{Identifier: "x"})
	worker := GetWorkerConfig()
	assert.NotNil(t, worker)
	assert.Equal(t, 2*time.Second, worker.GetPollInterval())
	assert.Equal(t, 5*time.Minute, worker.GetSignTimeout())
	assert.Nil(t, GetMongoDBConfig())

	worker = &WorkerConfig{PollInterval: 500, SignTimeout: 60}
	assert.Equal(t, 500*time.Millisecond, worker.GetPollInterval())
	assert.Equal(t, time.Minute, worker.GetSignTimeout())
}

func TestVersionWithCommit(t *testing.T) {
	assert.Equal(t, VersionWithMeta, VersionWithCommit("", ""))
	assert.Equal(t, VersionWithMeta+"-0123abcd-20240601", VersionWithCommit("0123abcdef", "20240601"))
}

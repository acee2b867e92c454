package params

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/anyswap/Escrow-Bridge/common"
	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/anyswap/Escrow-Bridge/signer"
	"github.com/anyswap/Escrow-Bridge/tokens"
)

var (
	escrowConfig      *EscrowConfig
	loadConfigStarter sync.Once
)

// EscrowConfig config items (decode from toml file)
type EscrowConfig struct {
	Identifier string
	Ledger     *tokens.LedgerConfig
	Signer     *signer.Config          `toml:",omitempty" json:",omitempty"`
	RateCache  *tokens.RateCacheConfig `toml:",omitempty" json:",omitempty"`
	MongoDB    *MongoDBConfig          `toml:",omitempty" json:",omitempty"`
	Worker     *WorkerConfig           `toml:",omitempty" json:",omitempty"`
	Extra      *ExtraConfig            `toml:",omitempty" json:",omitempty"`
}

// MongoDBConfig mongodb config
type MongoDBConfig struct {
	DBURL    string   `toml:",omitempty" json:",omitempty"`
	DBURLs   []string `toml:",omitempty" json:",omitempty"`
	DBName   string
	UserName string `json:"-"`
	Password string `json:"-"`
}

// WorkerConfig sign and submit job config
type WorkerConfig struct {
	PollInterval uint64 // milliseconds
	SignTimeout  uint64 // seconds
}

// worker defaults
const (
	defaultPollInterval = 2000
	defaultSignTimeout  = 300
)

// GetPollInterval get sign request poll interval
func (c *WorkerConfig) GetPollInterval() time.Duration {
	if c.PollInterval == 0 {
		return defaultPollInterval * time.Millisecond
	}
	return time.Duration(c.PollInterval) * time.Millisecond
}

// GetSignTimeout get how long to wait for the wallet owner to sign
func (c *WorkerConfig) GetSignTimeout() time.Duration {
	if c.SignTimeout == 0 {
		return defaultSignTimeout * time.Second
	}
	return time.Duration(c.SignTimeout) * time.Second
}

// ExtraConfig extra config
type ExtraConfig struct {
	IsDebugMode bool `toml:",omitempty" json:",omitempty"`
}

// GetIdentifier get identifier
func GetIdentifier() string {
	return GetConfig().Identifier
}

// GetLedgerConfig get ledger config
func GetLedgerConfig() *tokens.LedgerConfig {
	return GetConfig().Ledger
}

// GetSignerConfig get signer config
func GetSignerConfig() *signer.Config {
	return GetConfig().Signer
}

// GetRateCacheConfig get rate cache config
func GetRateCacheConfig() *tokens.RateCacheConfig {
	return GetConfig().RateCache
}

// GetMongoDBConfig get mongodb config, nil if not configed
func GetMongoDBConfig() *MongoDBConfig {
	return GetConfig().MongoDB
}

// GetWorkerConfig get worker config, defaults if not configed
func GetWorkerConfig() *WorkerConfig {
	if GetConfig().Worker == nil {
		return &WorkerConfig{}
	}
	return GetConfig().Worker
}

// IsDebugMode is debug mode, add more debugging log infos
func IsDebugMode() bool {
	return GetConfig().Extra != nil && GetConfig().Extra.IsDebugMode
}

// GetConfig get escrow config
func GetConfig() *EscrowConfig {
	return escrowConfig
}

// SetConfig set escrow config
func SetConfig(config *EscrowConfig) {
	escrowConfig = config
}

// LoadConfig load config once, exit on error
func LoadConfig(configFile string) *EscrowConfig {
	loadConfigStarter.Do(func() {
		if configFile == "" {
			log.Fatalf("LoadConfig error: no config file specified")
		}
		log.Println("Config file is", configFile)
		config, err := LoadConfigFile(configFile)
		if err != nil {
			log.Fatalf("LoadConfig error: %v", err)
		}
		SetConfig(config)
		log.Info("Check config success", "configFile", configFile)
	})
	return escrowConfig
}

// LoadConfigFile decode and check config file
func LoadConfigFile(configFile string) (*EscrowConfig, error) {
	if !common.FileExist(configFile) {
		return nil, fmt.Errorf("config file %v not exist", configFile)
	}
	config := &EscrowConfig{}
	if _, err := toml.DecodeFile(configFile, config); err != nil {
		return nil, fmt.Errorf("toml DecodeFile: %w", err)
	}

	var bs []byte
	if log.JSONFormat {
		bs, _ = json.Marshal(config)
	} else {
		bs, _ = json.MarshalIndent(config, "", "  ")
	}
	log.Println("LoadConfig finished.", string(bs))

	if err := config.CheckConfig(); err != nil {
		return nil, fmt.Errorf("check config failed: %w", err)
	}
	return config, nil
}

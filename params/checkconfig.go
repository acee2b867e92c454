package params

import (
	"errors"
)

// CheckConfig check config
func (c *EscrowConfig) CheckConfig() (err error) {
	if c.Identifier == "" {
		return errors.New("must config non empty 'Identifier'")
	}
	if c.Ledger == nil {
		return errors.New("must config 'Ledger'")
	}
	if err = c.Ledger.CheckConfig(); err != nil {
		return err
	}
	if c.Signer != nil {
		if err = c.Signer.CheckConfig(); err != nil {
			return err
		}
	}
	if c.RateCache != nil {
		if err = c.RateCache.CheckConfig(); err != nil {
			return err
		}
	}
	if c.MongoDB != nil {
		if err = c.MongoDB.CheckConfig(); err != nil {
			return err
		}
	}
	return nil
}

// CheckConfig check mongodb config
func (c *MongoDBConfig) CheckConfig() error {
	if c.DBURL == "" && len(c.DBURLs) == 0 {
		return errors.New("mongodb must config 'DBURL' or 'DBURLs'")
	}
	if c.DBName == "" {
		return errors.New("mongodb must config 'DBName'")
	}
	return nil
}

// GetURLs get mongodb host list
func (c *MongoDBConfig) GetURLs() []string {
	if len(c.DBURLs) != 0 {
		return c.DBURLs
	}
	return []string{c.DBURL}
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// RPCGet http get and unmarshal json result
func RPCGet(ctx context.Context, result interface{}, url string) error {
	return RPCGetRequest(ctx, result, url, nil)
}

// RPCGetRequest http get with options and unmarshal json result
func RPCGetRequest(ctx context.Context, result interface{}, url string, opts *RequestOptions) error {
	req, cancel := newRequest(ctx, opts)
	defer cancel()

	resp, err := req.Get(url)
	if err != nil {
		return fmt.Errorf("GET request error: %w (url: %v)", err, url)
	}
	data, err := readResponse(resp, url)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("unmarshal result error: %w", err)
	}
	return nil
}

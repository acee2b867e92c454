package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// RPCPost http post json body and unmarshal json result
func RPCPost(ctx context.Context, result interface{}, url string, body interface{}) error {
	return RPCPostRequest(ctx, result, url, body, nil)
}

// RPCPostRequest http post json body with options and unmarshal json result
func RPCPostRequest(ctx context.Context, result interface{}, url string, body interface{}, opts *RequestOptions) error {
	req, cancel := newRequest(ctx, opts)
	defer cancel()

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(url)
	if err != nil {
		return fmt.Errorf("POST request error: %w (url: %v)", err, url)
	}
	data, err := readResponse(resp, url)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err = json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("unmarshal result error: %w", err)
	}
	return nil
}

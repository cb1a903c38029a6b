package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	httpinterface "github.com/zeto-network/zeto-escrowd/internal/interfaces/http"
)

const requestTimeout = 15 * time.Second

type daemonClient struct {
	baseURL string
	token   string
	caller  string
	client  *http.Client
}

func getDaemonClient() (*daemonClient, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	address, ok := state["rpcserver"]
	if !ok || address == "" {
		return nil, errors.New("set rpcserver with `config set rpcserver`")
	}

	return &daemonClient{
		baseURL: strings.TrimSuffix(address, "/"),
		token:   state["token"],
		caller:  state["caller"],
		client:  &http.Client{Timeout: requestTimeout},
	}, nil
}

func (c *daemonClient) get(path string) (json.RawMessage, error) {
	return c.do(http.MethodGet, path, nil)
}

func (c *daemonClient) post(path string, body interface{}) (json.RawMessage, error) {
	return c.do(http.MethodPost, path, body)
}

func (c *daemonClient) delete(path string) (json.RawMessage, error) {
	return c.do(http.MethodDelete, path, nil)
}

func (c *daemonClient) do(
	method, path string, body interface{},
) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.caller != "" {
		req.Header.Set(httpinterface.CallerHeader, c.caller)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		errResp := map[string]string{}
		if err := json.Unmarshal(respBody, &errResp); err == nil &&
			errResp["error"] != "" {
			return nil, fmt.Errorf("%s (%d)", errResp["error"], resp.StatusCode)
		}
		return nil, fmt.Errorf(
			"%s (%d)", strings.TrimSpace(string(respBody)), resp.StatusCode,
		)
	}
	return respBody, nil
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goodnatureofminers/stacks-lending/internal/clock"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/stacks"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const (
	defaultPollInterval      = 2 * time.Second
	defaultRequestsPerSecond = 5
	maxErrorBody             = 4 << 10
)

// Request states reported by the wallet bridge.
const (
	statePending   = "pending"
	stateApproved  = "approved"
	stateCancelled = "cancelled"
	stateFailed    = "failed"
)

// BridgeConfig configures a Bridge.
type BridgeConfig struct {
	BaseURL           string
	Contract          stacks.ContractID
	Network           model.Network
	AppName           string
	AppIcon           string
	PollInterval      time.Duration
	RequestsPerSecond int
	HTTPClient        *http.Client
}

// Bridge is a Gateway backed by a wallet bridge service that holds the keys and asks the owner
// to approve each request. Every request is created with a POST and then polled until the
// owner approves, declines, or the bridge reports a failure.
type Bridge struct {
	baseURL      *url.URL
	client       *http.Client
	rl           ratelimit.Limiter
	contract     stacks.ContractID
	network      model.Network
	app          appDetails
	pollInterval time.Duration
	logger       *zap.Logger
}

type appDetails struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

type connectRequest struct {
	AppDetails appDetails    `json:"appDetails"`
	Network    model.Network `json:"network"`
}

type clarityValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type contractCallRequest struct {
	Network           model.Network  `json:"network"`
	AnchorMode        string         `json:"anchorMode"`
	ContractAddress   string         `json:"contractAddress"`
	ContractName      string         `json:"contractName"`
	FunctionName      string         `json:"functionName"`
	FunctionArgs      []clarityValue `json:"functionArgs"`
	PostConditionMode string         `json:"postConditionMode"`
	AppDetails        appDetails     `json:"appDetails"`
}

type requestState struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Address string `json:"address,omitempty"`
	TxID    string `json:"txId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewBridge validates cfg and builds a Bridge.
func NewBridge(cfg BridgeConfig, logger *zap.Logger) (*Bridge, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("bridge url is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse bridge url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("bridge url scheme %q not supported", base.Scheme)
	}
	if base.Host == "" {
		return nil, errors.New("bridge url missing host")
	}
	if cfg.Contract.Name == "" {
		return nil, errors.New("contract is required")
	}
	if cfg.Network == "" {
		cfg.Network = model.Mainnet
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Bridge{
		baseURL:      base,
		client:       cfg.HTTPClient,
		rl:           ratelimit.New(cfg.RequestsPerSecond),
		contract:     cfg.Contract,
		network:      cfg.Network,
		app:          appDetails{Name: cfg.AppName, Icon: cfg.AppIcon},
		pollInterval: cfg.PollInterval,
		logger:       logger.Named("bridge"),
	}, nil
}

// Connect asks the wallet owner to share an account. An approved request without an address
// yields an empty string.
func (b *Bridge) Connect(ctx context.Context) (string, error) {
	var created requestState
	err := b.do(ctx, http.MethodPost, "/v1/connect", connectRequest{AppDetails: b.app, Network: b.network}, &created)
	if err != nil {
		return "", fmt.Errorf("create connect request: %w", err)
	}

	state, err := b.await(ctx, created)
	if err != nil {
		return "", err
	}
	return state.Address, nil
}

// Submit asks the wallet owner to sign call and broadcast it, returning the transaction id.
func (b *Bridge) Submit(ctx context.Context, call model.ContractCall) (string, error) {
	args := make([]clarityValue, 0, len(call.Args))
	for _, arg := range call.Args {
		args = append(args, clarityValue{Type: "uint", Value: strconv.FormatUint(arg, 10)})
	}
	req := contractCallRequest{
		Network:           b.network,
		AnchorMode:        "any",
		ContractAddress:   b.contract.Address.String(),
		ContractName:      b.contract.Name,
		FunctionName:      string(call.Operation),
		FunctionArgs:      args,
		PostConditionMode: "allow",
		AppDetails:        b.app,
	}

	var created requestState
	if err := b.do(ctx, http.MethodPost, "/v1/contract-call", req, &created); err != nil {
		return "", fmt.Errorf("create contract call %s: %w", call.Operation, err)
	}

	state, err := b.await(ctx, created)
	if err != nil {
		return "", err
	}
	if state.TxID == "" {
		return "", fmt.Errorf("contract call %s approved without transaction id", call.Operation)
	}
	return state.TxID, nil
}

// await polls the request until the bridge reports a final state.
func (b *Bridge) await(ctx context.Context, state requestState) (requestState, error) {
	if state.Status == statePending && state.ID == "" {
		return requestState{}, errors.New("bridge returned pending request without id")
	}

	first := true
	err := clock.Poll(ctx, b.pollInterval, func(ctx context.Context) (bool, error) {
		if !first {
			if err := b.do(ctx, http.MethodGet, "/v1/requests/"+state.ID, nil, &state); err != nil {
				return false, fmt.Errorf("poll request %s: %w", state.ID, err)
			}
		}
		first = false

		switch state.Status {
		case statePending:
			b.logger.Debug("waiting for wallet approval", zap.String("request_id", state.ID))
			return false, nil
		case stateApproved:
			return true, nil
		case stateCancelled:
			return false, ErrCancelled
		case stateFailed:
			return false, fmt.Errorf("wallet bridge request %s failed: %s", state.ID, state.Error)
		default:
			return false, fmt.Errorf("wallet bridge request %s: unknown status %q", state.ID, state.Status)
		}
	})
	if err != nil {
		return requestState{}, err
	}
	return state, nil
}

func (b *Bridge) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	b.rl.Take()
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("bridge responded %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

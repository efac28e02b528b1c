// Package bootstrap holds the options shared by the lending binaries and wires the components
// they run.
package bootstrap

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/stacks-lending/internal/lending/coordinator"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/display"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/gateway"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/session"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/stacks"
	"github.com/goodnatureofminers/stacks-lending/internal/metrics"
)

// LendingContract is the lending contract deployed on mainnet.
const LendingContract = "SP3E0DQAHTXJHH5YT9TZCSBW013YXZB25QFDVXXWY.lending"

// Options configures the wallet gateway, the contract and the display surface.
type Options struct {
	BridgeURL         string        `long:"bridge-url" env:"LENDING_BRIDGE_URL" description:"wallet bridge URL; the built-in fake wallet is used when empty"`
	Contract          string        `long:"contract" env:"LENDING_CONTRACT" description:"lending contract id" default:"SP3E0DQAHTXJHH5YT9TZCSBW013YXZB25QFDVXXWY.lending"`
	Network           model.Network `long:"network" env:"LENDING_NETWORK" description:"stacks network (mainnet or testnet)" default:"mainnet"`
	ExplorerURL       string        `long:"explorer-url" env:"LENDING_EXPLORER_URL" description:"block explorer URL" default:"https://explorer.hiro.so"`
	ExplorerChain     string        `long:"explorer-chain" env:"LENDING_EXPLORER_CHAIN" description:"chain query parameter of explorer links" default:"mainnet"`
	PollInterval      time.Duration `long:"poll-interval" env:"LENDING_POLL_INTERVAL" description:"interval between wallet bridge status checks" default:"2s"`
	RequestsPerSecond int           `long:"rps" env:"LENDING_RPS" description:"max wallet bridge requests per second" default:"5"`
	AppName           string        `long:"app-name" env:"LENDING_APP_NAME" description:"app name shown by the wallet" default:"Stacks Lending"`
	AppIcon           string        `long:"app-icon" env:"LENDING_APP_ICON" description:"app icon shown by the wallet" default:"/logo.png"`
	FakeAddress       string        `long:"fake-address" env:"LENDING_FAKE_ADDRESS" description:"account of the fake wallet" default:"SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7"`
}

// App is the wired lending client.
type App struct {
	Network     model.Network
	Session     *session.State
	Coordinator *coordinator.Coordinator
	Explorer    *display.Explorer
}

// Build validates opts and wires the session, the gateway and the coordinator.
func Build(opts Options, logger *zap.Logger) (*App, error) {
	if opts.Network != model.Mainnet && opts.Network != model.Testnet {
		return nil, fmt.Errorf("unsupported network %q", opts.Network)
	}
	contract, err := stacks.ParseContractID(opts.Contract)
	if err != nil {
		return nil, fmt.Errorf("parse contract: %w", err)
	}
	if contract.Address.Mainnet() != (opts.Network == model.Mainnet) {
		return nil, fmt.Errorf("contract %s is not deployed on %s", contract, opts.Network)
	}
	explorer, err := display.NewExplorer(opts.ExplorerURL, opts.ExplorerChain)
	if err != nil {
		return nil, err
	}

	gw, err := newGateway(opts, contract, logger)
	if err != nil {
		return nil, err
	}
	observed := gateway.NewObserved(gw, metrics.NewGateway(opts.Network))

	sess := session.New()
	return &App{
		Network:     opts.Network,
		Session:     sess,
		Coordinator: coordinator.New(observed, sess, metrics.NewCoordinator(opts.Network), logger),
		Explorer:    explorer,
	}, nil
}

// View projects the current state for display.
func (a *App) View() display.View {
	return display.Project(a.Session, a.Coordinator.Current(), a.Explorer)
}

func newGateway(opts Options, contract stacks.ContractID, logger *zap.Logger) (gateway.Gateway, error) {
	if opts.BridgeURL == "" {
		logger.Warn("no wallet bridge configured, using fake wallet", zap.String("address", opts.FakeAddress))
		return gateway.Fake{Address: opts.FakeAddress}, nil
	}
	bridge, err := gateway.NewBridge(gateway.BridgeConfig{
		BaseURL:           opts.BridgeURL,
		Contract:          contract,
		Network:           opts.Network,
		AppName:           opts.AppName,
		AppIcon:           opts.AppIcon,
		PollInterval:      opts.PollInterval,
		RequestsPerSecond: opts.RequestsPerSecond,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init wallet bridge: %w", err)
	}
	return bridge, nil
}

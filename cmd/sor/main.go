package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sorcore/internal/chain"
	"sorcore/internal/config"
	"sorcore/internal/poolmodel"
	"sorcore/internal/router"
	"sorcore/internal/subgraph"
	"sorcore/internal/token"
)

func main() {
	root := &cobra.Command{
		Use:          "sor",
		Short:        "Smart order router for a concentrated-liquidity DEX",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	routeCmd := &cobra.Command{
		Use:   "route",
		Short: "Compute the best swap plan for a trade",
		RunE:  runRoute,
	}

	routeCmd.Flags().String("rpc", "", "JSON-RPC endpoint URL")
	routeCmd.Flags().String("infura-key", "", "Infura project key, appended to the RPC URL when set")
	routeCmd.Flags().Uint64("chain-id", 1, "chain id")
	routeCmd.Flags().String("token-in", "", "tokenIn address, or \"native\" for the chain's native currency")
	routeCmd.Flags().String("token-out", "", "tokenOut address, or \"native\" for the chain's native currency")
	routeCmd.Flags().String("amount", "", "trade amount, in the fixed side's smallest unit")
	routeCmd.Flags().Bool("exact-in", false, "fix the input amount")
	routeCmd.Flags().Bool("exact-out", false, "fix the output amount")
	routeCmd.Flags().String("router", "", "quoter contract address")
	routeCmd.Flags().String("token-list-uri", "", "token list source (external collaborator; unused by the core)")
	routeCmd.Flags().String("subgraph-url", "", "subgraph GraphQL endpoint")
	routeCmd.Flags().Bool("debug", false, "enable debug logging")
	routeCmd.Flags().Int("top-n", 4, "overall TVL-ranked candidates")
	routeCmd.Flags().Int("top-n-token-in-out", 4, "TVL candidates touching each endpoint")
	routeCmd.Flags().Int("top-n-second-hop", 2, "second-hop candidates per seed")
	routeCmd.Flags().Int("max-swaps-per-path", 3, "path-length cap")
	routeCmd.Flags().Int("max-splits", 3, "split-count cap, must be <= 3")
	routeCmd.Flags().Int("distribution-percent", 5, "amount-granularity, must divide 100")
	routeCmd.Flags().Int("multicall-chunk-size", 50, "RPC batching width")

	root.AddCommand(routeCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRoute(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		cfg.LogLevel = "debug"
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	exactIn, _ := cmd.Flags().GetBool("exact-in")
	exactOut, _ := cmd.Flags().GetBool("exact-out")
	if exactIn == exactOut {
		return fmt.Errorf("exactly one of --exact-in or --exact-out is required")
	}
	tradeType := poolmodel.ExactIn
	if exactOut {
		tradeType = poolmodel.ExactOut
	}

	tokenInAddr, _ := cmd.Flags().GetString("token-in")
	tokenOutAddr, _ := cmd.Flags().GetString("token-out")
	amountStr, _ := cmd.Flags().GetString("amount")
	routerAddr, _ := cmd.Flags().GetString("router")
	subgraphURL, _ := cmd.Flags().GetString("subgraph-url")
	if tokenInAddr == "" || tokenOutAddr == "" || amountStr == "" || routerAddr == "" {
		return fmt.Errorf("token-in, token-out, amount, and router are all required")
	}

	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok {
		return fmt.Errorf("invalid amount %q", amountStr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rpcURL := cfg.RPCURL
	if cfg.InfuraKey != "" {
		rpcURL += cfg.InfuraKey
	}

	chainClient, err := chain.NewClient(ctx, rpcURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	wrappedNative, err := token.FetchMeta(ctx, chainClient, cfg.ChainID, wrappedNativeAddress(cfg.ChainID), logger)
	if err != nil {
		return fmt.Errorf("resolve wrapped native: %w", err)
	}

	tokenIn, err := resolveCurrency(ctx, chainClient, cfg.ChainID, tokenInAddr, wrappedNative, logger)
	if err != nil {
		return fmt.Errorf("resolve tokenIn: %w", err)
	}
	tokenOut, err := resolveCurrency(ctx, chainClient, cfg.ChainID, tokenOutAddr, wrappedNative, logger)
	if err != nil {
		return fmt.Errorf("resolve tokenOut: %w", err)
	}

	registry := token.NewRegistry([]token.Token{tokenIn, tokenOut, wrappedNative})
	provider := subgraph.NewHTTPProvider(subgraphURL)

	orch, err := router.New(chainClient, provider, registry, wrappedNative, common.HexToAddress(routerAddr), cfg, logger)
	if err != nil {
		return err
	}

	plan, err := orch.Route(ctx, tokenIn, tokenOut, amount, tradeType)
	if err != nil {
		return err
	}
	if plan == nil {
		logger.Info("no route found")
		fmt.Println("null")
		return nil
	}

	return json.NewEncoder(os.Stdout).Encode(plan)
}

// resolveCurrency resolves a --token-in/--token-out flag value to a
// Token. The literal "native" or the zero address selects the chain's
// native currency (spec §4.8); native's decimals mirror the wrapped
// token's, since the two are always 1:1 convertible.
func resolveCurrency(ctx context.Context, chainClient *chain.Client, chainID uint64, addr string, wrappedNative token.Token, logger *zap.Logger) (token.Token, error) {
	if addr == "native" || common.HexToAddress(addr) == (common.Address{}) {
		return token.Token{
			ChainID:  chainID,
			Address:  common.Address{},
			Symbol:   nativeSymbol(chainID),
			Decimals: wrappedNative.Decimals,
		}, nil
	}
	return token.FetchMeta(ctx, chainClient, chainID, common.HexToAddress(addr), logger)
}

// nativeSymbol returns the native currency's display symbol for
// well-known chains.
func nativeSymbol(chainID uint64) string {
	switch chainID {
	case 137:
		return "MATIC"
	default:
		return "ETH"
	}
}

// wrappedNativeAddress returns the canonical wrapped-native token
// address for well-known chains; unknown chains fall back to mainnet
// WETH since this core does not ship a full chain registry.
func wrappedNativeAddress(chainID uint64) common.Address {
	switch chainID {
	case 137:
		return common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270") // WMATIC
	case 42161:
		return common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1") // WETH (Arbitrum)
	default:
		return common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2") // WETH (mainnet)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
